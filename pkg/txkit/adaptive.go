package txkit

import (
	"go.llib.dev/txchain/port/txres"
)

// NewAdaptiveTransaction makes an AdaptiveTransaction.
// Nothing happens with the resource until Start is called.
func NewAdaptiveTransaction(r txres.Resource, name string) *AdaptiveTransaction {
	return &AdaptiveTransaction{resource: r, name: name}
}

// AdaptiveTransaction opens a top-level transaction on its resource,
// or a nested sub-transaction when a transaction is already in progress there.
// The choice is made once, when Start is called.
//
// AdaptiveTransaction is not safe for concurrent use.
type AdaptiveTransaction struct {
	resource txres.Resource
	name     string
	opts     txres.FailureHandlingOptions

	variant variant
	nested  bool
}

// variant is the method set shared by txres.Transaction and txres.SubTransaction.
type variant interface {
	Start() (txres.Status, error)
	Commit() (txres.Status, error)
	RollBack() (txres.Status, error)
	Status() txres.Status
	HasStarted() bool
	HasEnded() bool
	IsValid() bool
}

func (at *AdaptiveTransaction) Name() string { return at.name }

func (at *AdaptiveTransaction) Resource() txres.Resource { return at.resource }

// SetFailureHandlingOptions sets the options used when Start opens a top-level transaction.
// Sub-transactions have no failure processing, so for them the options have no effect.
func (at *AdaptiveTransaction) SetFailureHandlingOptions(opts txres.FailureHandlingOptions) {
	at.opts = opts
}

func (at *AdaptiveTransaction) Start() (txres.Status, error) {
	if at.variant != nil {
		return at.variant.Status(), ErrPrecondition.F("%s is already started", at.name)
	}
	if at.resource.HasAmbientTransaction() {
		at.nested = true
		at.variant = at.resource.NewSubTransaction()
	} else {
		tx := at.resource.NewTransaction(at.name)
		tx.SetFailureHandlingOptions(at.opts)
		at.variant = tx
	}
	return at.variant.Start()
}

func (at *AdaptiveTransaction) Commit() (txres.Status, error) {
	if err := at.checkOpen(); err != nil {
		return at.Status(), err
	}
	return at.variant.Commit()
}

func (at *AdaptiveTransaction) RollBack() (txres.Status, error) {
	if err := at.checkOpen(); err != nil {
		return at.Status(), err
	}
	return at.variant.RollBack()
}

func (at *AdaptiveTransaction) Status() txres.Status {
	if at.variant == nil {
		return txres.Uninitialized
	}
	return at.variant.Status()
}

func (at *AdaptiveTransaction) HasStarted() bool {
	return at.variant != nil && at.variant.HasStarted()
}

func (at *AdaptiveTransaction) HasEnded() bool {
	return at.variant != nil && at.variant.HasEnded()
}

func (at *AdaptiveTransaction) IsValid() bool {
	if at.variant == nil {
		return at.resource.IsValid()
	}
	return at.variant.IsValid()
}

// IsNested reports whether Start opened a sub-transaction.
func (at *AdaptiveTransaction) IsNested() bool { return at.nested }

func (at *AdaptiveTransaction) checkOpen() error {
	if at.variant == nil {
		return ErrPrecondition.F("%s is not started", at.name)
	}
	if at.variant.HasEnded() {
		return ErrPrecondition.F("%s has already ended with %s", at.name, at.variant.Status())
	}
	return nil
}
