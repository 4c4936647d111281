// Package txasync bridges a transaction commit with a cooperative host event loop.
//
// A commit may finish synchronously, or it may go Pending when its failures are handled modelessly.
// In the latter case the transaction's finalizer fires later on,
// and the Awaiter hands the completion over to the event loop,
// so the continuation always runs on the loop's goroutine.
package txasync

import (
	"context"
	"fmt"
	"sync"

	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/txchain/pkg/eventloop"
	"go.llib.dev/txchain/port/txres"
)

const (
	ErrSchedulingPending  errorkit.Error = "the completion is already pending on the dispatcher"
	ErrSchedulingDenied   errorkit.Error = "the dispatcher denied the completion"
	ErrSchedulingTimedOut errorkit.Error = "the dispatcher timed out scheduling the completion"

	ErrNotCompleted           errorkit.Error = "the commit is not completed yet"
	ErrContinuationAlreadySet errorkit.Error = "a continuation is already registered"
)

// CommitAsync commits the transaction and returns an Awaiter for its completion.
//
// The Awaiter is installed as the transaction's finalizer,
// the finalizer that was set before is still notified through it.
// Modeless failure handling is allowed for the commit,
// so the transaction may go Pending instead of resolving its failures in place.
func CommitAsync(ctx context.Context, d eventloop.Dispatcher, tx txres.Transaction) *Awaiter {
	a := &Awaiter{
		ctx:        logging.ContextWith(ctx, logging.Field("transaction", tx.Name())),
		dispatcher: d,
		name:       tx.Name(),
		done:       make(chan struct{}),
	}

	opts := tx.FailureHandlingOptions()
	a.finalizer = opts.Finalizer
	opts.Finalizer = finalizer{awaiter: a}
	opts.ForcedModalHandling = false
	tx.SetFailureHandlingOptions(opts)

	status, err := tx.Commit()
	if status != txres.Pending {
		a.complete(status, err)
		return a
	}
	if err != nil {
		a.addError(err)
	}
	logger.Debug(a.ctx, "commit is pending")
	return a
}

// Awaiter represents the completion of an asynchronous commit.
type Awaiter struct {
	ctx        context.Context
	dispatcher eventloop.Dispatcher
	finalizer  txres.Finalizer
	name       string

	mutex        sync.Mutex
	completed    bool
	status       txres.Status
	err          error
	continuation func()
	scheduled    bool
	done         chan struct{}
}

var _ eventloop.Handler = (*Awaiter)(nil)

func (a *Awaiter) Name() string { return "txasync.Awaiter#" + a.name }

func (a *Awaiter) IsCompleted() bool {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.completed
}

// GetResult returns the final status of the commit.
// Errors raised by the finalizer are returned here, including panics.
func (a *Awaiter) GetResult() (txres.Status, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if !a.completed {
		return txres.Pending, ErrNotCompleted
	}
	return a.status, a.err
}

// OnCompleted registers the continuation of the commit.
//
// The continuation is never executed inline.
// Once the commit is completed, the Awaiter is scheduled on the dispatcher,
// and the continuation runs when the dispatcher executes it.
// If the commit is already completed, the Awaiter is scheduled right away.
func (a *Awaiter) OnCompleted(continuation func()) error {
	a.mutex.Lock()
	if a.continuation != nil || a.scheduled {
		a.mutex.Unlock()
		return ErrContinuationAlreadySet
	}
	a.continuation = continuation
	if !a.completed {
		a.mutex.Unlock()
		return nil
	}
	a.scheduled = true
	a.mutex.Unlock()
	return a.schedule()
}

// Then registers a continuation which receives the result of the commit.
func (a *Awaiter) Then(fn func(txres.Status, error)) error {
	return a.OnCompleted(func() { fn(a.GetResult()) })
}

// Await blocks until the commit is completed.
// It must not be called from the goroutine of the event loop,
// since a Pending commit can only complete once the loop makes progress.
func (a *Awaiter) Await(ctx context.Context) (txres.Status, error) {
	select {
	case <-a.done:
		return a.GetResult()
	case <-ctx.Done():
		return txres.Pending, ctx.Err()
	}
}

// Execute runs the continuation.
// It is called by the event loop.
func (a *Awaiter) Execute(ctx context.Context) {
	a.mutex.Lock()
	continuation := a.continuation
	a.continuation = nil
	a.mutex.Unlock()
	if continuation == nil {
		return
	}
	logger.Debug(ctx, "executing commit continuation", logging.Field("transaction", a.name))
	continuation()
}

func (a *Awaiter) complete(status txres.Status, err error) {
	a.mutex.Lock()
	a.err = errorkit.Merge(a.err, err)
	if a.completed {
		a.mutex.Unlock()
		return
	}
	a.completed = true
	a.status = status
	close(a.done)
	scheduling := a.continuation != nil && !a.scheduled
	if scheduling {
		a.scheduled = true
	}
	a.mutex.Unlock()

	logger.Debug(a.ctx, "commit completed", logging.Field("status", status.String()))
	if scheduling {
		_ = a.schedule()
	}
}

func (a *Awaiter) addError(err error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.err = errorkit.Merge(a.err, err)
}

// schedule asks the dispatcher to execute the Awaiter.
// A failed scheduling is not retried, the error is kept for GetResult.
func (a *Awaiter) schedule() error {
	var err error
	switch req := a.dispatcher.ScheduleCallback(a); req {
	case eventloop.Accepted:
		return nil
	case eventloop.Pending:
		err = ErrSchedulingPending
	case eventloop.Denied:
		err = ErrSchedulingDenied
	case eventloop.TimedOut:
		err = ErrSchedulingTimedOut
	default:
		err = fmt.Errorf("unknown scheduling request: %d", req)
	}
	logger.Error(a.ctx, "failed to schedule the commit continuation", logging.ErrField(err))
	a.addError(err)
	return err
}

// finalizer is the finalizer CommitAsync installs on the transaction.
type finalizer struct{ awaiter *Awaiter }

func (f finalizer) OnCommitted(r txres.Resource, name string) error {
	a := f.awaiter
	var err error
	if a.finalizer != nil {
		err = capture(func() error { return a.finalizer.OnCommitted(r, name) })
	}
	a.complete(txres.Committed, err)
	return nil
}

func (f finalizer) OnRolledBack(r txres.Resource, name string) error {
	a := f.awaiter
	var err error
	if a.finalizer != nil {
		err = capture(func() error { return a.finalizer.OnRolledBack(r, name) })
	}
	a.complete(txres.RolledBack, err)
	return nil
}

// capture runs fn and turns a panic into its error value.
func capture(fn func() error) (rErr error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if err, ok := r.(error); ok {
			rErr = err
			return
		}
		rErr = fmt.Errorf("panic: %v", r)
	}()
	return fn()
}
