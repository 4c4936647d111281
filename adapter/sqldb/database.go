// Package sqldb implements a transactional resource on top of database/sql.
//
// The top-level transaction is a *sql.Tx, and sub-transactions are savepoints within it.
// Any driver works which supports SAVEPOINT, RELEASE SAVEPOINT and ROLLBACK TO SAVEPOINT,
// like sqlite, PostgreSQL or MySQL.
package sqldb

import (
	"context"
	"database/sql"
	"sync"

	"go.llib.dev/txchain/port/txres"
)

// Open opens a database with the given driver, and makes a Database out of it.
// The driver must be registered by the caller.
func Open(driverName, dsn, title string) (*Database, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	return &Database{DB: db, Title: title}, nil
}

// Database is a database/sql based implementation of txres.Resource.
type Database struct {
	DB    *sql.DB
	Title string
	// Context [optional] is used for every SQL call the Database makes.
	//
	// default: context.Background()
	Context context.Context
	// TxOptions [optional] are used to begin the top-level transaction.
	TxOptions *sql.TxOptions
	// Checks [optional] are evaluated with the open *sql.Tx during the failure-processing phase of every commit.
	Checks []Check

	mutex     sync.Mutex
	closed    bool
	current   *Transaction
	subs      []*SubTransaction
	savepoint int
	failures  []txres.Failure
}

// Check inspects the state of a transaction that is being committed.
type Check func(ctx context.Context, tx *sql.Tx) []txres.Failure

// Queryable is the common subset of *sql.DB and *sql.Tx.
type Queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ txres.Resource = (*Database)(nil)

func (d *Database) Name() string { return d.Title }

func (d *Database) IsValid() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return !d.closed
}

func (d *Database) HasAmbientTransaction() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.current != nil
}

func (d *Database) NewTransaction(name string) txres.Transaction {
	return &Transaction{database: d, name: name}
}

func (d *Database) NewSubTransaction() txres.SubTransaction {
	return &SubTransaction{database: d}
}

// Close rolls back the transaction in progress and closes the database.
func (d *Database) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if d.current != nil {
		_ = d.current.stx.Rollback()
		d.current.end(txres.RolledBack)
	}
	return d.DB.Close()
}

// Exec executes a statement within the transaction in progress.
func (d *Database) Exec(query string, args ...any) (sql.Result, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return nil, txres.ErrInvalidResource.F("%s", d.Title)
	}
	if d.current == nil {
		return nil, txres.ErrNotModifiable.F("%s", d.Title)
	}
	return d.current.stx.ExecContext(d.context(), query, args...)
}

// QueryRow runs a query through the transaction in progress, or through the database when there is none.
func (d *Database) QueryRow(query string, args ...any) *sql.Row {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.queryable().QueryRowContext(d.context(), query, args...)
}

func (d *Database) Query(query string, args ...any) (*sql.Rows, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return nil, txres.ErrInvalidResource.F("%s", d.Title)
	}
	return d.queryable().QueryContext(d.context(), query, args...)
}

// Failures returns the failures kept from the last rolled back commit.
func (d *Database) Failures() []txres.Failure {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return append([]txres.Failure(nil), d.failures...)
}

func (d *Database) queryable() Queryable {
	if d.current != nil {
		return d.current.stx
	}
	return d.DB
}

func (d *Database) context() context.Context {
	if d.Context == nil {
		return context.Background()
	}
	return d.Context
}

func (d *Database) check(stx *sql.Tx) []txres.Failure {
	var failures []txres.Failure
	for _, c := range d.Checks {
		failures = append(failures, c(d.context(), stx)...)
	}
	return failures
}
