package txchain

import (
	"context"

	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/txchain/port/txres"
)

// handler is the failure handler the Chain installs on every transaction it starts.
type handler struct{ chain *Chain }

func (h handler) PreprocessFailures(fa txres.FailuresAccessor) txres.Decision {
	c := h.chain
	decision := txres.Continue
	if p := c.opts.FailuresPreprocessor; p != nil {
		decision = p.PreprocessFailures(fa)
	}
	if !c.isMember(fa.Resource(), fa.TransactionName()) {
		return decision
	}
	// unresolved errors would roll this transaction back after the rest of the chain committed
	if decision < txres.ProceedWithRollBack && txres.SeverityError <= fa.Severity() {
		logger.Debug(c.context(), "transaction of the chain has unresolved errors",
			logging.Field("chain", c.name),
			logging.Field("resource", fa.Resource().Name()))
		decision = txres.ProceedWithRollBack
	}
	cascade := c.cascade()
	if cascade == nil && fa.IsTransactionBeingCommitted() && decision < txres.ProceedWithRollBack {
		logger.Warn(c.context(), "transaction of the chain is committed outside of the chain's commit",
			logging.Field("chain", c.name),
			logging.Field("resource", fa.Resource().Name()))
	}
	return decide(decision, fa.IsTransactionBeingCommitted(), cascade)
}

// decide combines the baseline decision of a failure-processing phase with the outcome of the rest of the chain.
//
// A transaction may only proceed when the rest of the chain committed.
// Anything short of a committed cascade rolls it back,
// which then rolls back every transaction that is still waiting in the failure-processing phase.
func decide(baseline txres.Decision, committing bool, cascade func() (txres.Status, error)) txres.Decision {
	if txres.ProceedWithRollBack <= baseline {
		return baseline
	}
	if !committing || cascade == nil {
		return txres.ProceedWithRollBack
	}
	// the error is recorded by the cascade, only the status matters here
	if status, _ := cascade(); status != txres.Committed {
		return txres.ProceedWithRollBack
	}
	return baseline
}

// finalizer forwards the finalizer notifications to the finalizer of the HandlingOptions.
type finalizer struct{ chain *Chain }

func (f finalizer) OnCommitted(r txres.Resource, name string) error {
	fin := f.chain.opts.Finalizer
	if fin == nil {
		return nil
	}
	return f.chain.recordError(fin.OnCommitted(r, name))
}

func (f finalizer) OnRolledBack(r txres.Resource, name string) error {
	fin := f.chain.opts.Finalizer
	if fin == nil {
		return nil
	}
	return f.chain.recordError(fin.OnRolledBack(r, name))
}

func (c *Chain) context() context.Context {
	if rnd := c.round.Load(); rnd != nil {
		return rnd.ctx
	}
	return context.Background()
}

// recordError keeps a finalizer error for the result of the ongoing round.
// A resource must not see it, otherwise a committed resource would look failed to its predecessor.
func (c *Chain) recordError(err error) error {
	if err == nil {
		return nil
	}
	rnd := c.round.Load()
	if rnd == nil {
		return err
	}
	rnd.errs = append(rnd.errs, err)
	return nil
}
