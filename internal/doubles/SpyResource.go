// Package doubles holds test doubles for the txres port.
package doubles

import (
	"sync"

	"go.llib.dev/txchain/port/txres"
)

// Journal records the transaction events of one or more SpyResource in the order they happened.
type Journal struct {
	mutex  sync.Mutex
	events []Event
}

type Event struct {
	Resource string
	Kind     EventKind
}

type EventKind string

const (
	StartEvent      EventKind = "start"
	CommitEvent     EventKind = "commit"
	RollBackEvent   EventKind = "rollback"
	CommittedEvent  EventKind = "committed"
	RolledBackEvent EventKind = "rolled-back"
)

func (j *Journal) Record(resource string, kind EventKind) {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	j.events = append(j.events, Event{Resource: resource, Kind: kind})
}

func (j *Journal) Events() []Event {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return append([]Event(nil), j.events...)
}

// Resources returns the name of the resources with an event of the given kind, in order.
func (j *Journal) Resources(kind EventKind) []string {
	var names []string
	for _, e := range j.Events() {
		if e.Kind == kind {
			names = append(names, e.Resource)
		}
	}
	return names
}

// SpyResource decorates a txres.Resource and records what happens with its transactions.
type SpyResource struct {
	txres.Resource
	Journal *Journal

	StartFunc    func(tx txres.Transaction) (txres.Status, error)
	CommitFunc   func(tx txres.Transaction) (txres.Status, error)
	RollBackFunc func(tx txres.Transaction) (txres.Status, error)
}

func (r *SpyResource) NewTransaction(name string) txres.Transaction {
	return &SpyTransaction{Transaction: r.Resource.NewTransaction(name), spy: r}
}

func (r *SpyResource) record(kind EventKind) {
	if r.Journal != nil {
		r.Journal.Record(r.Name(), kind)
	}
}

// SpyTransaction reports its SpyResource as its resource,
// also towards the failure handler and the finalizer.
type SpyTransaction struct {
	txres.Transaction
	spy *SpyResource
}

func (tx *SpyTransaction) Resource() txres.Resource { return tx.spy }

func (tx *SpyTransaction) Start() (txres.Status, error) {
	tx.spy.record(StartEvent)
	if tx.spy.StartFunc != nil {
		return tx.spy.StartFunc(tx.Transaction)
	}
	return tx.Transaction.Start()
}

func (tx *SpyTransaction) Commit() (txres.Status, error) {
	tx.spy.record(CommitEvent)
	if tx.spy.CommitFunc != nil {
		return tx.spy.CommitFunc(tx.Transaction)
	}
	return tx.Transaction.Commit()
}

func (tx *SpyTransaction) RollBack() (txres.Status, error) {
	tx.spy.record(RollBackEvent)
	if tx.spy.RollBackFunc != nil {
		return tx.spy.RollBackFunc(tx.Transaction)
	}
	return tx.Transaction.RollBack()
}

func (tx *SpyTransaction) SetFailureHandlingOptions(opts txres.FailureHandlingOptions) {
	if opts.FailureHandler != nil {
		opts.FailureHandler = spyHandler{FailureHandler: opts.FailureHandler, spy: tx.spy}
	}
	opts.Finalizer = spyFinalizer{Finalizer: opts.Finalizer, spy: tx.spy}
	tx.Transaction.SetFailureHandlingOptions(opts)
}

func (tx *SpyTransaction) FailureHandlingOptions() txres.FailureHandlingOptions {
	opts := tx.Transaction.FailureHandlingOptions()
	if h, ok := opts.FailureHandler.(spyHandler); ok {
		opts.FailureHandler = h.FailureHandler
	}
	if f, ok := opts.Finalizer.(spyFinalizer); ok {
		opts.Finalizer = f.Finalizer
	}
	return opts
}

type spyHandler struct {
	txres.FailureHandler
	spy *SpyResource
}

func (h spyHandler) PreprocessFailures(fa txres.FailuresAccessor) txres.Decision {
	return h.FailureHandler.PreprocessFailures(spyAccessor{FailuresAccessor: fa, spy: h.spy})
}

type spyAccessor struct {
	txres.FailuresAccessor
	spy *SpyResource
}

func (fa spyAccessor) Resource() txres.Resource { return fa.spy }

type spyFinalizer struct {
	txres.Finalizer
	spy *SpyResource
}

func (f spyFinalizer) OnCommitted(_ txres.Resource, name string) error {
	f.spy.record(CommittedEvent)
	if f.Finalizer == nil {
		return nil
	}
	return f.Finalizer.OnCommitted(f.spy, name)
}

func (f spyFinalizer) OnRolledBack(_ txres.Resource, name string) error {
	f.spy.record(RolledBackEvent)
	if f.Finalizer == nil {
		return nil
	}
	return f.Finalizer.OnRolledBack(f.spy, name)
}
