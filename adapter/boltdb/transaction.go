package boltdb

import (
	"github.com/boltdb/bolt"

	"go.llib.dev/txchain/pkg/failurekit"
	"go.llib.dev/txchain/port/txres"
)

type Transaction struct {
	store  *Store
	name   string
	status txres.Status
	opts   txres.FailureHandlingOptions
	btx    *bolt.Tx
}

var _ txres.Transaction = (*Transaction)(nil)

func (tx *Transaction) Name() string { return tx.name }

func (tx *Transaction) Resource() txres.Resource { return tx.store }

func (tx *Transaction) Status() txres.Status {
	tx.store.mutex.Lock()
	defer tx.store.mutex.Unlock()
	return tx.status
}

func (tx *Transaction) HasStarted() bool { return tx.Status() != txres.Uninitialized }

func (tx *Transaction) HasEnded() bool { return tx.Status().IsTerminal() }

func (tx *Transaction) IsValid() bool { return tx.store.IsValid() }

func (tx *Transaction) FailureHandlingOptions() txres.FailureHandlingOptions {
	tx.store.mutex.Lock()
	defer tx.store.mutex.Unlock()
	return tx.opts
}

func (tx *Transaction) SetFailureHandlingOptions(opts txres.FailureHandlingOptions) {
	tx.store.mutex.Lock()
	defer tx.store.mutex.Unlock()
	tx.opts = opts
}

func (tx *Transaction) Start() (txres.Status, error) {
	s := tx.store
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return tx.status, txres.ErrInvalidResource.F("%s", s.Title)
	}
	if tx.status != txres.Uninitialized {
		return tx.status, txres.ErrAlreadyStarted.F("%s", tx.name)
	}
	if s.current != nil {
		// a second writable bolt transaction would block until the first one ends
		return tx.status, txres.ErrAmbientTransaction.F("%s", s.Title)
	}
	btx, err := s.DB.Begin(true)
	if err != nil {
		return tx.status, err
	}
	if _, err := btx.CreateBucketIfNotExists(s.bucketName()); err != nil {
		_ = btx.Rollback()
		return tx.status, err
	}
	tx.btx = btx
	tx.status = txres.Started
	s.current = tx
	return tx.status, nil
}

func (tx *Transaction) Commit() (txres.Status, error) {
	s := tx.store
	s.mutex.Lock()
	if err := tx.committable(); err != nil {
		status := tx.status
		s.mutex.Unlock()
		return status, err
	}
	opts, btx := tx.opts, tx.btx
	s.mutex.Unlock()

	// bolt has no dispatcher for deferred resolution, the failures are always handled in place
	fa := failurekit.NewAccessor(s, tx.name, true, s.check(btx.Bucket(s.bucketName())))
	outcome, _ := failurekit.Process(fa, opts, false)
	fa.Expire()
	return tx.finish(outcome, fa.Remaining())
}

func (tx *Transaction) RollBack() (txres.Status, error) {
	s := tx.store
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return tx.status, txres.ErrInvalidResource.F("%s", s.Title)
	}
	if tx.status != txres.Started {
		return tx.status, txres.ErrNotStarted.F("%s is %s", tx.name, tx.status)
	}
	err := tx.btx.Rollback()
	tx.end(txres.RolledBack)
	return tx.status, err
}

func (tx *Transaction) committable() error {
	s := tx.store
	if s.closed {
		return txres.ErrInvalidResource.F("%s", s.Title)
	}
	if tx.status != txres.Started {
		return txres.ErrNotStarted.F("%s is %s", tx.name, tx.status)
	}
	if 0 < len(s.subs) {
		return txres.ErrOpenSubTransaction.F("%s", tx.name)
	}
	return nil
}

func (tx *Transaction) finish(outcome failurekit.Outcome, remaining []txres.Failure) (txres.Status, error) {
	s := tx.store
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return txres.Error, txres.ErrInvalidResource.F("%s", s.Title)
	}
	if tx.status != txres.Started {
		status := tx.status
		s.mutex.Unlock()
		return status, nil
	}
	if outcome == failurekit.Commit {
		if err := tx.btx.Commit(); err != nil {
			tx.end(txres.Error)
			s.mutex.Unlock()
			return txres.Error, err
		}
		tx.end(txres.Committed)
		s.failures = nil
	} else {
		if err := tx.btx.Rollback(); err != nil {
			tx.end(txres.Error)
			s.mutex.Unlock()
			return txres.Error, err
		}
		tx.end(txres.RolledBack)
		s.failures = nil
		if !tx.opts.ClearAfterRollback {
			s.failures = remaining
		}
	}
	status, finalizer := tx.status, tx.opts.Finalizer
	s.mutex.Unlock()

	if finalizer == nil {
		return status, nil
	}
	if status == txres.Committed {
		return status, finalizer.OnCommitted(s, tx.name)
	}
	return status, finalizer.OnRolledBack(s, tx.name)
}

func (tx *Transaction) end(status txres.Status) {
	tx.status = status
	tx.btx = nil
	tx.store.current = nil
	for _, sub := range tx.store.subs {
		sub.status = status
	}
	tx.store.subs = nil
}

type SubTransaction struct {
	store  *Store
	status txres.Status
	undo   []undo
}

type undo struct {
	key     []byte
	value   []byte
	existed bool
}

var _ txres.SubTransaction = (*SubTransaction)(nil)

func (sub *SubTransaction) Start() (txres.Status, error) {
	s := sub.store
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return sub.status, txres.ErrInvalidResource.F("%s", s.Title)
	}
	if sub.status != txres.Uninitialized {
		return sub.status, txres.ErrAlreadyStarted
	}
	if s.current == nil {
		return sub.status, txres.ErrNoAmbientTransaction.F("%s", s.Title)
	}
	s.subs = append(s.subs, sub)
	sub.status = txres.Started
	return sub.status, nil
}

// Commit hands the undo log over to the enclosing sub-transaction,
// so a later rollback there discards these changes as well.
func (sub *SubTransaction) Commit() (txres.Status, error) {
	s := sub.store
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := sub.innermost(); err != nil {
		return sub.status, err
	}
	s.subs = s.subs[:len(s.subs)-1]
	if n := len(s.subs); 0 < n {
		parent := s.subs[n-1]
		parent.undo = append(parent.undo, sub.undo...)
	}
	sub.undo = nil
	sub.status = txres.Committed
	return sub.status, nil
}

func (sub *SubTransaction) RollBack() (txres.Status, error) {
	s := sub.store
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := sub.innermost(); err != nil {
		return sub.status, err
	}
	b := s.current.btx.Bucket(s.bucketName())
	for i := len(sub.undo) - 1; 0 <= i; i-- {
		u := sub.undo[i]
		var err error
		if u.existed {
			err = b.Put(u.key, u.value)
		} else {
			err = b.Delete(u.key)
		}
		if err != nil {
			sub.status = txres.Error
			return sub.status, err
		}
	}
	s.subs = s.subs[:len(s.subs)-1]
	sub.undo = nil
	sub.status = txres.RolledBack
	return sub.status, nil
}

func (sub *SubTransaction) innermost() error {
	s := sub.store
	if s.closed {
		return txres.ErrInvalidResource.F("%s", s.Title)
	}
	if sub.status != txres.Started {
		return txres.ErrNotStarted.F("sub-transaction is %s", sub.status)
	}
	if n := len(s.subs); n == 0 || s.subs[n-1] != sub {
		return txres.ErrOpenSubTransaction
	}
	return nil
}

func (sub *SubTransaction) Status() txres.Status {
	sub.store.mutex.Lock()
	defer sub.store.mutex.Unlock()
	return sub.status
}

func (sub *SubTransaction) HasStarted() bool { return sub.Status() != txres.Uninitialized }

func (sub *SubTransaction) HasEnded() bool { return sub.Status().IsTerminal() }

func (sub *SubTransaction) IsValid() bool { return sub.store.IsValid() }
