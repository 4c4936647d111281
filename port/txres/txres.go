// Package txres defines the transactional resource port.
//
// A Resource is an independent unit that supports its own single-resource transaction.
// It has no notion of other resources, and it has no multi-resource transaction primitive.
// What it offers instead is a failure-processing phase that runs synchronously inside Commit,
// before anything is persisted, and which is the hook a coordinator can use to chain resources.
package txres

//go:generate mockgen -destination=txresmock/mocks.go -package=txresmock go.llib.dev/txchain/port/txres FailureHandler,FailuresAccessor,Finalizer,Resource,SubTransaction,Transaction

// Resource is a document-like unit of state which can host transactions.
//
// Resource values are used as map keys by coordinators,
// so implementations are expected to be pointer types.
type Resource interface {
	// Name is a human-readable identifier used in errors and logs.
	Name() string
	// IsValid reports whether the underlying resource is still usable.
	// It becomes false when the resource is closed or destroyed externally.
	IsValid() bool
	// HasAmbientTransaction reports whether a transaction is already in progress on the resource.
	HasAmbientTransaction() bool
	// NewTransaction creates a top-level transaction handle in Uninitialized state.
	NewTransaction(name string) Transaction
	// NewSubTransaction creates a nested transaction handle in Uninitialized state.
	// It can only be started while an ambient transaction is in progress.
	NewSubTransaction() SubTransaction
}

// Transaction is the native, single-resource transaction handle.
type Transaction interface {
	Name() string
	Resource() Resource
	// Start begins the transaction.
	// On success the returned status is Started.
	Start() (Status, error)
	// Commit runs the failure-processing phase and then persists or discards the changes.
	//
	// The FailureHandler is invoked synchronously from within Commit,
	// so an implementation must tolerate re-entrant calls made by the handler,
	// including commits of other resources' transactions.
	//
	// After the commit path is resolved, the Finalizer is notified with either OnCommitted or OnRolledBack.
	Commit() (Status, error)
	// RollBack discards every change made in the transaction.
	// RollBack doesn't notify the Finalizer.
	RollBack() (Status, error)
	Status() Status
	HasStarted() bool
	HasEnded() bool
	IsValid() bool

	FailureHandlingOptions() FailureHandlingOptions
	SetFailureHandlingOptions(FailureHandlingOptions)
}

// SubTransaction is a nested scope inside an ambient transaction.
// Its commit folds its changes into the enclosing transaction,
// its rollback discards only the changes made since its Start.
type SubTransaction interface {
	Start() (Status, error)
	Commit() (Status, error)
	RollBack() (Status, error)
	Status() Status
	HasStarted() bool
	HasEnded() bool
	IsValid() bool
}

// SetFailureHandler installs the failure handler on a transaction and keeps its other options.
func SetFailureHandler(tx Transaction, h FailureHandler) {
	opts := tx.FailureHandlingOptions()
	opts.FailureHandler = h
	tx.SetFailureHandlingOptions(opts)
}

// SetFinalizer installs the finalizer on a transaction and keeps its other options.
func SetFinalizer(tx Transaction, f Finalizer) {
	opts := tx.FailureHandlingOptions()
	opts.Finalizer = f
	tx.SetFailureHandlingOptions(opts)
}
