// Package txchain coordinates transactions of independent resources as one atomic unit of work.
//
// None of the resources know about each other, and none of them has a multi-resource commit.
// The Chain relies on the failure-processing phase of a commit instead:
// when the first resource processes its failures, the chain commits the next resource from there,
// and so on until the end of the chain.
// The innermost commit resolves first, and a resource only persists if every resource after it persisted too.
// Should any of them roll back, every resource before it rolls back as well.
package txchain

import (
	"context"
	"fmt"
	"sync/atomic"

	uuid "github.com/satori/go.uuid"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
	"go.llib.dev/frameless/pkg/teardown"

	"go.llib.dev/txchain/pkg/txkit"
	"go.llib.dev/txchain/port/txres"
)

const (
	ErrResourceStartFailed errorkit.Error = "failed to start the transaction on the resource"
	// ErrPartialCommit is returned when some transactions of the chain persisted while others did not.
	ErrPartialCommit errorkit.Error = "the chain is only partially committed"
)

// New makes a Chain.
// Every transaction started by the Chain is named after the Chain,
// and gets the same HandlingOptions.
func New(name string, opts txres.HandlingOptions) *Chain {
	return &Chain{name: name, opts: opts}
}

// Chain is a multi-resource transaction.
//
// Chain is not safe for concurrent use.
// The resources call back into it synchronously from their Commit,
// on the goroutine that called Chain.Commit.
type Chain struct {
	name string
	opts txres.HandlingOptions

	order        []txres.Resource
	transactions map[txres.Resource]txres.Transaction
	round        atomic.Pointer[round]
}

// round is the state of a single Commit.
type round struct {
	id     string
	ctx    context.Context
	cursor int
	errs   []error
}

func (c *Chain) Name() string { return c.name }

// Resources returns the resources of the chain in the order they were started.
func (c *Chain) Resources() []txres.Resource {
	return append([]txres.Resource(nil), c.order...)
}

// StartAll starts a transaction on every resource in the given order.
// It stops at the first failure, the already started transactions remain part of the chain.
func (c *Chain) StartAll(ctx context.Context, rs ...txres.Resource) error {
	for _, r := range rs {
		if _, err := c.Start(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Start begins a transaction on the resource and appends it to the chain.
// Starting an already started resource only returns the status of its transaction.
func (c *Chain) Start(ctx context.Context, r txres.Resource) (txres.Status, error) {
	if c.round.Load() != nil {
		return txres.Uninitialized, txkit.ErrPrecondition.F("%s is being committed", c.name)
	}
	if tx, ok := c.transactions[r]; ok {
		return tx.Status(), nil
	}
	if !r.IsValid() {
		return txres.Uninitialized, ErrResourceStartFailed.Wrap(txres.ErrInvalidResource.F("%s", r.Name()))
	}
	if n := c.opts.Notification; n != nil && !n.OnStart(r) {
		return txres.Uninitialized, ErrResourceStartFailed.F("%s: start is cancelled", r.Name())
	}

	tx := r.NewTransaction(c.name)
	tx.SetFailureHandlingOptions(c.failureHandlingOptions(tx.FailureHandlingOptions()))
	status, err := tx.Start()
	if err == nil && status != txres.Started {
		err = fmt.Errorf("%s: transaction is %s", r.Name(), status)
	}
	if err != nil {
		if status == txres.Started {
			_, _ = tx.RollBack()
		}
		return status, ErrResourceStartFailed.Wrap(err)
	}

	if c.transactions == nil {
		c.transactions = make(map[txres.Resource]txres.Transaction)
	}
	c.order = append(c.order, r)
	c.transactions[r] = tx
	logger.Debug(ctx, "transaction started",
		logging.Field("chain", c.name),
		logging.Field("resource", r.Name()))
	if n := c.opts.Notification; n != nil {
		n.OnStarted(r)
	}
	return status, nil
}

// Commit commits every transaction of the chain, or none of them.
//
// Committing an empty chain is a no-op which returns Uninitialized.
// After Commit returns, every transaction that was not committed is rolled back,
// and the chain is empty again.
//
// When a resource commits without calling its failure handler, the chain carries on after it.
// Should the rest of the chain fail to commit, Commit returns Error with ErrPartialCommit.
func (c *Chain) Commit(ctx context.Context) (txres.Status, error) {
	if c.round.Load() != nil {
		return txres.Error, txkit.ErrPrecondition.F("%s is already being committed", c.name)
	}
	if len(c.order) == 0 {
		return txres.Uninitialized, nil
	}
	if err := ctx.Err(); err != nil {
		status, _ := c.RollBack(ctx)
		return status, err
	}

	id := uuid.NewV4().String()
	rnd := &round{
		id:  id,
		ctx: logging.ContextWith(ctx, logging.Field("chain", c.name), logging.Field("round", id)),
	}
	c.round.Store(rnd)

	var status = txres.Error
	defer func() {
		c.dispose(rnd.ctx)
		c.round.Store(nil)
		logger.Debug(rnd.ctx, "chain commit finished", logging.Field("status", status.String()))
		if n := c.opts.Notification; n != nil && status != txres.Pending {
			n.OnDone(status)
		}
	}()

	logger.Debug(rnd.ctx, "chain commit started", logging.Field("resources", len(c.order)))
	if n := c.opts.Notification; n != nil {
		n.OnPrepare(c.Resources())
	}

	status, err := c.commitNext(rnd)
	errs := []error{err}
	// a resource may commit without ever calling its failure handler,
	// then the rest of the chain is committed from here
	for status == txres.Committed && rnd.cursor < len(c.order) {
		logger.Warn(rnd.ctx, "resource committed without processing its failures",
			logging.Field("resource", c.order[rnd.cursor-1].Name()))
		next := c.order[rnd.cursor]
		var nextStatus txres.Status
		nextStatus, err = c.commitNext(rnd)
		errs = append(errs, err)
		if nextStatus != txres.Committed {
			logger.Error(rnd.ctx, "chain is partially committed",
				logging.Field("resource", next.Name()),
				logging.Field("status", nextStatus.String()))
			status = txres.Error
			errs = append(errs, ErrPartialCommit.F("%s is %s", next.Name(), nextStatus))
		}
	}
	return status, errorkit.Merge(append(errs, rnd.errs...)...)
}

// RollBack rolls back every transaction of the chain in reverse order, and empties the chain.
// During a Commit, RollBack is not allowed,
// the ongoing commit rolls back on its own whatever it couldn't commit.
func (c *Chain) RollBack(ctx context.Context) (txres.Status, error) {
	if c.round.Load() != nil {
		return txres.Error, txkit.ErrPrecondition.F("%s is being committed", c.name)
	}
	if len(c.order) == 0 {
		return txres.Uninitialized, nil
	}
	c.dispose(ctx)
	if n := c.opts.Notification; n != nil {
		n.OnDone(txres.RolledBack)
	}
	return txres.RolledBack, nil
}

// commitNext commits the next transaction of the round.
// When the chain is exhausted there is nothing more to commit, and the status is Committed.
func (c *Chain) commitNext(rnd *round) (txres.Status, error) {
	if len(c.order) <= rnd.cursor {
		return txres.Committed, nil
	}
	r := c.order[rnd.cursor]
	rnd.cursor++
	tx := c.transactions[r]
	if tx.Status() != txres.Started {
		logger.Debug(rnd.ctx, "rolling back a transaction that is not started",
			logging.Field("resource", r.Name()),
			logging.Field("status", tx.Status().String()))
		return tx.RollBack()
	}
	// the handler and finalizer may have been replaced since Start
	tx.SetFailureHandlingOptions(c.failureHandlingOptions(tx.FailureHandlingOptions()))
	return tx.Commit()
}

// cascade returns the continuation that commits the rest of the chain,
// or nil when no round is in progress.
func (c *Chain) cascade() func() (txres.Status, error) {
	rnd := c.round.Load()
	if rnd == nil {
		return nil
	}
	return func() (txres.Status, error) {
		status, err := c.commitNext(rnd)
		if err != nil {
			rnd.errs = append(rnd.errs, err)
		}
		return status, err
	}
}

func (c *Chain) isMember(r txres.Resource, transactionName string) bool {
	tx, ok := c.transactions[r]
	return ok && tx.Name() == transactionName
}

// dispose rolls back every transaction that is still open, in reverse order, then empties the chain.
func (c *Chain) dispose(ctx context.Context) {
	var td teardown.Teardown
	for _, r := range c.order {
		r, tx := r, c.transactions[r]
		td.Defer(func() error { return release(ctx, r, tx) })
	}
	if err := td.Finish(); err != nil {
		logger.Warn(ctx, "chain cleanup failed", logging.ErrField(err))
	}
	c.order = nil
	c.transactions = nil
}

func release(ctx context.Context, r txres.Resource, tx txres.Transaction) (rErr error) {
	defer func() {
		if v := recover(); v != nil {
			rErr = fmt.Errorf("%s: rollback panicked: %v", r.Name(), v)
		}
	}()
	if !tx.IsValid() {
		return nil
	}
	switch status := tx.Status(); status {
	case txres.Started:
		if _, err := tx.RollBack(); err != nil {
			return fmt.Errorf("%s: %w", r.Name(), err)
		}
		logger.Debug(ctx, "transaction rolled back", logging.Field("resource", r.Name()))
	case txres.Pending:
		logger.Warn(ctx, "pending transaction is left to its resource",
			logging.Field("resource", r.Name()))
	}
	return nil
}

func (c *Chain) failureHandlingOptions(base txres.FailureHandlingOptions) txres.FailureHandlingOptions {
	opts := c.opts.FailureHandlingOptions(base)
	opts.FailureHandler = handler{chain: c}
	opts.Finalizer = finalizer{chain: c}
	return opts
}

// HasStarted reports whether any transaction of the chain has started.
func (c *Chain) HasStarted() bool {
	for _, tx := range c.transactions {
		if tx.HasStarted() {
			return true
		}
	}
	return false
}

func (c *Chain) HasStartedOn(r txres.Resource) bool {
	tx, ok := c.transactions[r]
	return ok && tx.HasStarted()
}

// HasEnded reports whether every transaction of the chain has ended.
// An empty chain has nothing in progress, so it counts as ended.
func (c *Chain) HasEnded() bool {
	for _, tx := range c.transactions {
		if !tx.HasEnded() {
			return false
		}
	}
	return true
}

func (c *Chain) HasEndedOn(r txres.Resource) bool {
	tx, ok := c.transactions[r]
	return ok && tx.HasEnded()
}

// IsValid reports whether every transaction of the chain is still valid.
func (c *Chain) IsValid() bool {
	for _, tx := range c.transactions {
		if !tx.IsValid() {
			return false
		}
	}
	return true
}
