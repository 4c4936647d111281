// Command txchain commits a memory document, a bolt store and an SQL database as one unit of work.
//
// Configuration comes from the environment:
//
//	TXCHAIN_DATA_DIR    directory of the bolt and sqlite files (default: the working directory)
//	TXCHAIN_SQL_DRIVER  sqlite, postgres (lib/pq), pgx or mysql (default: sqlite)
//	TXCHAIN_SQL_DSN     data source name, defaults to a sqlite file in TXCHAIN_DATA_DIR
//	TXCHAIN_FAIL        when true, the SQL database rejects the round and nothing is persisted
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"go.llib.dev/frameless/pkg/env"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
	"go.llib.dev/frameless/pkg/tasker"
	_ "modernc.org/sqlite"

	"go.llib.dev/txchain/adapter/boltdb"
	"go.llib.dev/txchain/adapter/memory"
	"go.llib.dev/txchain/adapter/sqldb"
	"go.llib.dev/txchain/pkg/eventloop"
	"go.llib.dev/txchain/pkg/txasync"
	"go.llib.dev/txchain/pkg/txchain"
	"go.llib.dev/txchain/port/txres"
)

const ErrNotCommitted errorkit.Error = "the chain round was not committed"

type Config struct {
	DataDir   string `env:"TXCHAIN_DATA_DIR" default:"."`
	SQLDriver string `env:"TXCHAIN_SQL_DRIVER" default:"sqlite" enum:"sqlite;postgres;pgx;mysql;"`
	SQLDSN    string `env:"TXCHAIN_SQL_DSN"`
	Fail      bool   `env:"TXCHAIN_FAIL" default:"false"`
}

func (c Config) dsn() string {
	if c.SQLDSN != "" {
		return c.SQLDSN
	}
	return "file:" + filepath.Join(c.DataDir, "txchain.sqlite")
}

func main() {
	ctx := context.Background()
	var cfg Config
	if err := env.Load(&cfg); err != nil {
		logger.Fatal(ctx, "failed to load the configuration", logging.ErrField(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var loop eventloop.Loop
	demo := func(ctx context.Context) error {
		defer cancel()
		return run(ctx, cfg, &loop)
	}
	if err := tasker.Main(ctx, loop.Run, demo); err != nil {
		logger.Fatal(ctx, "txchain demo failed", logging.ErrField(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, loop *eventloop.Loop) error {
	doc := memory.NewDocument("settings")
	doc.Dispatcher = loop

	store, err := boltdb.Open(filepath.Join(cfg.DataDir, "txchain.bolt"), "bolt")
	if err != nil {
		return err
	}
	defer store.Close()

	db, err := sqldb.Open(cfg.SQLDriver, cfg.dsn(), cfg.SQLDriver)
	if err != nil {
		return err
	}
	defer db.Close()
	db.Context = ctx
	if _, err := db.DB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS txchain_kv (k VARCHAR(255) PRIMARY KEY, v TEXT NOT NULL)`); err != nil {
		return err
	}
	if cfg.Fail {
		db.Checks = append(db.Checks, func(context.Context, *sql.Tx) []txres.Failure {
			return []txres.Failure{{Severity: txres.SeverityError, Description: "rejected by TXCHAIN_FAIL"}}
		})
	}

	if err := commitChain(ctx, cfg, doc, store, db); err != nil {
		return err
	}
	return commitAsync(ctx, doc, loop)
}

func commitChain(ctx context.Context, cfg Config, doc *memory.Document, store *boltdb.Store, db *sqldb.Database) error {
	chain := txchain.New("txchain demo", txres.HandlingOptions{
		Notification: txres.NotificationFuncs{
			Started: func(r txres.Resource) {
				logger.Info(ctx, "transaction started", logging.Field("resource", r.Name()))
			},
			Done: func(status txres.Status) {
				logger.Info(ctx, "chain round done", logging.Field("status", status.String()))
			},
		},
	})
	if err := chain.StartAll(ctx, doc, store, db); err != nil {
		_, _ = chain.RollBack(ctx)
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := doc.Set("last-run", now); err != nil {
		_, _ = chain.RollBack(ctx)
		return err
	}
	if err := store.Put([]byte("last-run"), []byte(now)); err != nil {
		_, _ = chain.RollBack(ctx)
		return err
	}
	if _, err := db.Exec(upsert(cfg.SQLDriver), "last-run", now); err != nil {
		_, _ = chain.RollBack(ctx)
		return err
	}

	status, err := chain.Commit(ctx)
	if err != nil {
		return err
	}
	if status != txres.Committed {
		return ErrNotCommitted.F("round is %s", status)
	}
	logger.Info(ctx, "chain committed", logging.Field("status", status.String()))
	return nil
}

// commitAsync commits a document whose warnings are handled later on the event loop.
func commitAsync(ctx context.Context, doc *memory.Document, loop *eventloop.Loop) error {
	doc.Checks = []memory.Check{func(v memory.View) []txres.Failure {
		if _, ok := v.Get("reviewed"); ok {
			return nil
		}
		return []txres.Failure{{Severity: txres.Warning, Description: "the document is not reviewed"}}
	}}
	tx := doc.NewTransaction("review")
	tx.SetFailureHandlingOptions(txres.FailureHandlingOptions{
		FailureHandler: txres.FailureHandlerFunc(func(fa txres.FailuresAccessor) txres.Decision {
			if fa.Severity() == txres.Warning {
				return txres.WaitForUserInput
			}
			return txres.Continue
		}),
	})
	if _, err := tx.Start(); err != nil {
		return err
	}
	if err := doc.Set("reviewer", "txchain"); err != nil {
		_, _ = tx.RollBack()
		return err
	}

	awaiter := txasync.CommitAsync(ctx, loop, tx)
	continued := make(chan struct{})
	if err := awaiter.Then(func(status txres.Status, err error) {
		defer close(continued)
		logger.Info(ctx, "asynchronous commit completed on the event loop",
			logging.Field("status", status.String()))
	}); err != nil {
		return err
	}
	status, err := awaiter.Await(ctx)
	if err != nil {
		return fmt.Errorf("asynchronous commit: %w", err)
	}
	logger.Info(ctx, "document reviewed", logging.Field("status", status.String()))
	select {
	case <-continued:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func upsert(driver string) string {
	switch driver {
	case "postgres", "pgx":
		return `INSERT INTO txchain_kv (k, v) VALUES ($1, $2) ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v`
	case "mysql":
		return `INSERT INTO txchain_kv (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`
	default:
		return `INSERT INTO txchain_kv (k, v) VALUES (?, ?) ON CONFLICT (k) DO UPDATE SET v = excluded.v`
	}
}
