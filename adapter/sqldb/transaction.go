package sqldb

import (
	"database/sql"
	"fmt"

	"go.llib.dev/frameless/pkg/txkit"

	"go.llib.dev/txchain/pkg/failurekit"
	"go.llib.dev/txchain/port/txres"
)

type Transaction struct {
	database *Database
	name     string
	status   txres.Status
	opts     txres.FailureHandlingOptions
	stx      *sql.Tx
}

var _ txres.Transaction = (*Transaction)(nil)

func (tx *Transaction) Name() string { return tx.name }

func (tx *Transaction) Resource() txres.Resource { return tx.database }

func (tx *Transaction) Status() txres.Status {
	tx.database.mutex.Lock()
	defer tx.database.mutex.Unlock()
	return tx.status
}

func (tx *Transaction) HasStarted() bool { return tx.Status() != txres.Uninitialized }

func (tx *Transaction) HasEnded() bool { return tx.Status().IsTerminal() }

func (tx *Transaction) IsValid() bool { return tx.database.IsValid() }

func (tx *Transaction) FailureHandlingOptions() txres.FailureHandlingOptions {
	tx.database.mutex.Lock()
	defer tx.database.mutex.Unlock()
	return tx.opts
}

func (tx *Transaction) SetFailureHandlingOptions(opts txres.FailureHandlingOptions) {
	tx.database.mutex.Lock()
	defer tx.database.mutex.Unlock()
	tx.opts = opts
}

func (tx *Transaction) Start() (txres.Status, error) {
	d := tx.database
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return tx.status, txres.ErrInvalidResource.F("%s", d.Title)
	}
	if tx.status != txres.Uninitialized {
		return tx.status, txres.ErrAlreadyStarted.F("%s", tx.name)
	}
	if d.current != nil {
		return tx.status, txres.ErrAmbientTransaction.F("%s", d.Title)
	}
	stx, err := d.DB.BeginTx(d.context(), d.TxOptions)
	if err != nil {
		return tx.status, err
	}
	tx.stx = stx
	tx.status = txres.Started
	d.current = tx
	return tx.status, nil
}

func (tx *Transaction) Commit() (txres.Status, error) {
	d := tx.database
	d.mutex.Lock()
	if err := tx.committable(); err != nil {
		status := tx.status
		d.mutex.Unlock()
		return status, err
	}
	opts, stx := tx.opts, tx.stx
	d.mutex.Unlock()

	fa := failurekit.NewAccessor(d, tx.name, true, d.check(stx))
	outcome, _ := failurekit.Process(fa, opts, false)
	fa.Expire()
	return tx.finish(outcome, fa.Remaining())
}

func (tx *Transaction) RollBack() (txres.Status, error) {
	d := tx.database
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return tx.status, txres.ErrInvalidResource.F("%s", d.Title)
	}
	if tx.status != txres.Started {
		return tx.status, txres.ErrNotStarted.F("%s is %s", tx.name, tx.status)
	}
	err := tx.stx.Rollback()
	tx.end(txres.RolledBack)
	return tx.status, err
}

func (tx *Transaction) committable() error {
	d := tx.database
	if d.closed {
		return txres.ErrInvalidResource.F("%s", d.Title)
	}
	if tx.status != txres.Started {
		return txres.ErrNotStarted.F("%s is %s", tx.name, tx.status)
	}
	if 0 < len(d.subs) {
		return txres.ErrOpenSubTransaction.F("%s", tx.name)
	}
	return nil
}

func (tx *Transaction) finish(outcome failurekit.Outcome, remaining []txres.Failure) (txres.Status, error) {
	d := tx.database
	d.mutex.Lock()
	if d.closed {
		d.mutex.Unlock()
		return txres.Error, txres.ErrInvalidResource.F("%s", d.Title)
	}
	if tx.status != txres.Started {
		status := tx.status
		d.mutex.Unlock()
		return status, nil
	}
	if outcome == failurekit.Commit {
		if err := tx.stx.Commit(); err != nil {
			if rbErr := tx.stx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				err = &txkit.TxRollbackError{Err: rbErr, Cause: err}
			}
			tx.end(txres.Error)
			d.mutex.Unlock()
			return txres.Error, err
		}
		tx.end(txres.Committed)
		d.failures = nil
	} else {
		if err := tx.stx.Rollback(); err != nil {
			tx.end(txres.Error)
			d.mutex.Unlock()
			return txres.Error, err
		}
		tx.end(txres.RolledBack)
		d.failures = nil
		if !tx.opts.ClearAfterRollback {
			d.failures = remaining
		}
	}
	status, finalizer := tx.status, tx.opts.Finalizer
	d.mutex.Unlock()

	if finalizer == nil {
		return status, nil
	}
	if status == txres.Committed {
		return status, finalizer.OnCommitted(d, tx.name)
	}
	return status, finalizer.OnRolledBack(d, tx.name)
}

func (tx *Transaction) end(status txres.Status) {
	d := tx.database
	tx.status = status
	d.current = nil
	for _, sub := range d.subs {
		sub.status = status
	}
	d.subs = nil
}

// SubTransaction is a savepoint within the top-level transaction.
type SubTransaction struct {
	database *Database
	status   txres.Status
	name     string
}

var _ txres.SubTransaction = (*SubTransaction)(nil)

func (sub *SubTransaction) Start() (txres.Status, error) {
	d := sub.database
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return sub.status, txres.ErrInvalidResource.F("%s", d.Title)
	}
	if sub.status != txres.Uninitialized {
		return sub.status, txres.ErrAlreadyStarted
	}
	if d.current == nil {
		return sub.status, txres.ErrNoAmbientTransaction.F("%s", d.Title)
	}
	d.savepoint++
	name := fmt.Sprintf("txchain_sp_%d", d.savepoint)
	if _, err := d.current.stx.ExecContext(d.context(), "SAVEPOINT "+name); err != nil {
		return sub.status, err
	}
	sub.name = name
	sub.status = txres.Started
	d.subs = append(d.subs, sub)
	return sub.status, nil
}

func (sub *SubTransaction) Commit() (txres.Status, error) {
	d := sub.database
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if err := sub.innermost(); err != nil {
		return sub.status, err
	}
	if _, err := d.current.stx.ExecContext(d.context(), "RELEASE SAVEPOINT "+sub.name); err != nil {
		return sub.status, err
	}
	d.subs = d.subs[:len(d.subs)-1]
	sub.status = txres.Committed
	return sub.status, nil
}

func (sub *SubTransaction) RollBack() (txres.Status, error) {
	d := sub.database
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if err := sub.innermost(); err != nil {
		return sub.status, err
	}
	stx := d.current.stx
	if _, err := stx.ExecContext(d.context(), "ROLLBACK TO SAVEPOINT "+sub.name); err != nil {
		sub.status = txres.Error
		return sub.status, err
	}
	// ROLLBACK TO keeps the savepoint itself on the stack
	if _, err := stx.ExecContext(d.context(), "RELEASE SAVEPOINT "+sub.name); err != nil {
		sub.status = txres.Error
		return sub.status, err
	}
	d.subs = d.subs[:len(d.subs)-1]
	sub.status = txres.RolledBack
	return sub.status, nil
}

func (sub *SubTransaction) innermost() error {
	d := sub.database
	if d.closed {
		return txres.ErrInvalidResource.F("%s", d.Title)
	}
	if sub.status != txres.Started {
		return txres.ErrNotStarted.F("sub-transaction is %s", sub.status)
	}
	if n := len(d.subs); n == 0 || d.subs[n-1] != sub {
		return txres.ErrOpenSubTransaction
	}
	return nil
}

func (sub *SubTransaction) Status() txres.Status {
	sub.database.mutex.Lock()
	defer sub.database.mutex.Unlock()
	return sub.status
}

func (sub *SubTransaction) HasStarted() bool { return sub.Status() != txres.Uninitialized }

func (sub *SubTransaction) HasEnded() bool { return sub.Status().IsTerminal() }

func (sub *SubTransaction) IsValid() bool { return sub.database.IsValid() }
