package memory

import (
	"context"

	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/txchain/pkg/eventloop"
	"go.llib.dev/txchain/pkg/failurekit"
	"go.llib.dev/txchain/port/txres"
)

// Transaction is the top-level transaction of a Document.
type Transaction struct {
	document *Document
	name     string
	status   txres.Status
	opts     txres.FailureHandlingOptions
	frame    *frame
}

var _ txres.Transaction = (*Transaction)(nil)

func (tx *Transaction) Name() string { return tx.name }

func (tx *Transaction) Resource() txres.Resource { return tx.document }

func (tx *Transaction) Status() txres.Status {
	tx.document.mutex.Lock()
	defer tx.document.mutex.Unlock()
	return tx.status
}

func (tx *Transaction) HasStarted() bool { return tx.Status() != txres.Uninitialized }

func (tx *Transaction) HasEnded() bool { return tx.Status().IsTerminal() }

func (tx *Transaction) IsValid() bool { return tx.document.IsValid() }

func (tx *Transaction) FailureHandlingOptions() txres.FailureHandlingOptions {
	tx.document.mutex.Lock()
	defer tx.document.mutex.Unlock()
	return tx.opts
}

func (tx *Transaction) SetFailureHandlingOptions(opts txres.FailureHandlingOptions) {
	tx.document.mutex.Lock()
	defer tx.document.mutex.Unlock()
	tx.opts = opts
}

func (tx *Transaction) Start() (txres.Status, error) {
	d := tx.document
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return tx.status, txres.ErrInvalidResource.F("%s", d.Title)
	}
	if tx.status != txres.Uninitialized {
		return tx.status, txres.ErrAlreadyStarted.F("%s", tx.name)
	}
	if 0 < len(d.frames) {
		return tx.status, txres.ErrAmbientTransaction.F("%s", d.Title)
	}
	tx.frame = d.push()
	tx.status = txres.Started
	return tx.status, nil
}

func (tx *Transaction) Commit() (txres.Status, error) {
	d := tx.document
	d.mutex.Lock()
	if err := tx.committable(); err != nil {
		status := tx.status
		d.mutex.Unlock()
		return status, err
	}
	view := snapshot(tx.frame.all())
	opts := tx.opts
	d.mutex.Unlock()

	// the lock is released, the handler is free to re-enter
	fa := failurekit.NewAccessor(d, tx.name, true, d.collect(view, opts.DelayedMiniWarnings))
	outcome, _ := failurekit.Process(fa, opts, d.Dispatcher != nil)
	fa.Expire()
	if outcome == failurekit.Wait {
		if tx.wait() {
			return txres.Pending, nil
		}
		outcome = failurekit.Verdict(fa)
	}
	return tx.finish(outcome, fa.Remaining())
}

func (tx *Transaction) RollBack() (txres.Status, error) {
	d := tx.document
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return tx.status, txres.ErrInvalidResource.F("%s", d.Title)
	}
	if tx.status != txres.Started {
		return tx.status, txres.ErrNotStarted.F("%s is %s", tx.name, tx.status)
	}
	d.pop(tx.frame)
	tx.status = txres.RolledBack
	return tx.status, nil
}

func (tx *Transaction) committable() error {
	d := tx.document
	if d.closed {
		return txres.ErrInvalidResource.F("%s", d.Title)
	}
	if tx.status != txres.Started {
		return txres.ErrNotStarted.F("%s is %s", tx.name, tx.status)
	}
	if !d.isTop(tx.frame) {
		return txres.ErrOpenSubTransaction.F("%s", tx.name)
	}
	return nil
}

// wait turns the transaction Pending and schedules its resolution.
// It reports false when the Dispatcher didn't accept the resolution.
func (tx *Transaction) wait() bool {
	d := tx.document
	d.mutex.Lock()
	tx.status = txres.Pending
	d.mutex.Unlock()

	req := d.Dispatcher.ScheduleCallback(eventloop.Func("memory.Transaction#resolve", tx.resolve))
	if req == eventloop.Accepted {
		return true
	}
	logger.Debug(context.Background(), "modeless failure handling is not available",
		logging.Field("document", d.Title),
		logging.Field("request", req.String()))

	d.mutex.Lock()
	if tx.status == txres.Pending {
		tx.status = txres.Started
	}
	d.mutex.Unlock()
	return false
}

// resolve finishes a Pending transaction.
// The deferred resolution accepts warnings, and rolls back when errors remain.
func (tx *Transaction) resolve(ctx context.Context) {
	d := tx.document
	d.mutex.Lock()
	if tx.status != txres.Pending || d.closed {
		d.mutex.Unlock()
		return
	}
	view := snapshot(tx.frame.all())
	d.mutex.Unlock()

	fa := failurekit.NewAccessor(d, tx.name, true, d.check(view))
	status, err := tx.finish(failurekit.Verdict(fa), fa.Remaining())
	if err != nil {
		logger.Warn(ctx, "finalizer failed after pending resolution",
			logging.Field("document", d.Title),
			logging.Field("status", status.String()),
			logging.ErrField(err))
	}
}

func (tx *Transaction) finish(outcome failurekit.Outcome, remaining []txres.Failure) (txres.Status, error) {
	d := tx.document
	d.mutex.Lock()
	if d.closed {
		tx.status = txres.Error
		d.mutex.Unlock()
		return txres.Error, txres.ErrInvalidResource.F("%s", d.Title)
	}
	if tx.status != txres.Started && tx.status != txres.Pending {
		status := tx.status
		d.mutex.Unlock()
		return status, nil
	}
	switch outcome {
	case failurekit.Commit:
		tx.frame.commit()
		d.pop(tx.frame)
		d.failures = nil
		tx.status = txres.Committed
	default:
		d.pop(tx.frame)
		d.failures = nil
		if !tx.opts.ClearAfterRollback {
			d.failures = remaining
		}
		tx.status = txres.RolledBack
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

// SubTransaction is a nested scope of a Document's ambient transaction.
type SubTransaction struct {
	document *Document
	status   txres.Status
	frame    *frame
}

var _ txres.SubTransaction = (*SubTransaction)(nil)

func (sub *SubTransaction) Start() (txres.Status, error) {
	d := sub.document
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return sub.status, txres.ErrInvalidResource.F("%s", d.Title)
	}
	if sub.status != txres.Uninitialized {
		return sub.status, txres.ErrAlreadyStarted
	}
	if len(d.frames) == 0 {
		return sub.status, txres.ErrNoAmbientTransaction.F("%s", d.Title)
	}
	sub.frame = d.push()
	sub.status = txres.Started
	return sub.status, nil
}

func (sub *SubTransaction) Commit() (txres.Status, error) {
	d := sub.document
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if err := sub.open(); err != nil {
		return sub.status, err
	}
	if !d.isTop(sub.frame) {
		return sub.status, txres.ErrOpenSubTransaction
	}
	sub.frame.commit()
	d.pop(sub.frame)
	sub.status = txres.Committed
	return sub.status, nil
}

func (sub *SubTransaction) RollBack() (txres.Status, error) {
	d := sub.document
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if err := sub.open(); err != nil {
		return sub.status, err
	}
	d.pop(sub.frame)
	sub.status = txres.RolledBack
	return sub.status, nil
}

func (sub *SubTransaction) open() error {
	d := sub.document
	if d.closed {
		return txres.ErrInvalidResource.F("%s", d.Title)
	}
	if sub.status != txres.Started {
		return txres.ErrNotStarted.F("sub-transaction is %s", sub.status)
	}
	for _, f := range d.frames {
		if f == sub.frame {
			return nil
		}
	}
	// the enclosing transaction is already gone
	sub.status = txres.RolledBack
	return txres.ErrNoAmbientTransaction.F("%s", d.Title)
}

func (sub *SubTransaction) Status() txres.Status {
	sub.document.mutex.Lock()
	defer sub.document.mutex.Unlock()
	return sub.status
}

func (sub *SubTransaction) HasStarted() bool { return sub.Status() != txres.Uninitialized }

func (sub *SubTransaction) HasEnded() bool { return sub.Status().IsTerminal() }

func (sub *SubTransaction) IsValid() bool { return sub.document.IsValid() }
