// Package memory implements an in-memory transactional document.
//
// A Document keeps its committed values in a map,
// and every open transaction or sub-transaction is a frame stacked on top of it.
// A frame records its own changes and reads through to the frame below,
// and on commit it folds its changes into its parent.
package memory

import (
	"sort"
	"sync"

	"go.llib.dev/txchain/pkg/eventloop"
	"go.llib.dev/txchain/port/txres"
)

func NewDocument(title string) *Document {
	return &Document{Title: title}
}

// Document is a memory-based implementation of txres.Resource.
type Document struct {
	// Title is the name of the Document.
	Title string
	// Checks [optional] are evaluated during the failure-processing phase of every commit,
	// and the failures they return are handed to the FailureHandler.
	Checks []Check
	// Dispatcher [optional] enables modeless failure handling.
	// When a FailureHandler asks to wait for user input,
	// and the transaction allows it, the commit returns with Pending
	// and the resolution is scheduled on the Dispatcher.
	Dispatcher eventloop.Dispatcher

	mutex    sync.Mutex
	closed   bool
	values   store
	frames   []*frame
	failures []txres.Failure
	delayed  []txres.Failure
}

// Check inspects the state of a transaction that is being committed.
type Check func(v View) []txres.Failure

// View is a read-only snapshot of a Document.
type View interface {
	Get(key string) (any, bool)
	Keys() []string
}

var _ txres.Resource = (*Document)(nil)

func (d *Document) Name() string { return d.Title }

func (d *Document) IsValid() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return !d.closed
}

func (d *Document) HasAmbientTransaction() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return 0 < len(d.frames)
}

func (d *Document) NewTransaction(name string) txres.Transaction {
	return &Transaction{document: d, name: name}
}

func (d *Document) NewSubTransaction() txres.SubTransaction {
	return &SubTransaction{document: d}
}

// Close invalidates the Document.
// Every open transaction is discarded, and the Document can't be modified anymore.
func (d *Document) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.closed = true
	d.frames = nil
	return nil
}

// Set changes a value in the current transaction.
func (d *Document) Set(key string, value any) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	tx, err := d.top()
	if err != nil {
		return err
	}
	tx.set(key, value)
	return nil
}

func (d *Document) Delete(key string) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	tx, err := d.top()
	if err != nil {
		return err
	}
	tx.del(key)
	return nil
}

// Get reads a value, including the uncommitted changes of the open transactions.
func (d *Document) Get(key string) (any, bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.current().lookup(key)
}

func (d *Document) Keys() []string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return keysOf(d.current().all())
}

// Failures returns the failures kept from the last rolled back commit.
// They are only kept when the transaction's options don't ask for clearing them after a rollback.
func (d *Document) Failures() []txres.Failure {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return append([]txres.Failure(nil), d.failures...)
}

func (d *Document) top() (*frame, error) {
	if d.closed {
		return nil, txres.ErrInvalidResource.F("%s", d.Title)
	}
	if len(d.frames) == 0 {
		return nil, txres.ErrNotModifiable.F("%s", d.Title)
	}
	return d.frames[len(d.frames)-1], nil
}

func (d *Document) current() actions {
	if n := len(d.frames); 0 < n {
		return d.frames[n-1]
	}
	if d.values == nil {
		d.values = make(store)
	}
	return d.values
}

func (d *Document) push() *frame {
	f := &frame{super: d.current()}
	d.frames = append(d.frames, f)
	return f
}

// pop removes f and every frame stacked above it.
func (d *Document) pop(f *frame) {
	for i, o := range d.frames {
		if o == f {
			d.frames = d.frames[:i]
			return
		}
	}
}

func (d *Document) isTop(f *frame) bool {
	n := len(d.frames)
	return 0 < n && d.frames[n-1] == f
}

func (d *Document) check(snapshot View) []txres.Failure {
	var failures []txres.Failure
	for _, c := range d.Checks {
		failures = append(failures, c(snapshot)...)
	}
	return failures
}

// collect runs the checks against the snapshot.
// With delay, the warnings are held back for the next commit that doesn't delay them.
func (d *Document) collect(snapshot View, delay bool) []txres.Failure {
	failures := d.check(snapshot)
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if !delay {
		failures = append(d.delayed, failures...)
		d.delayed = nil
		return failures
	}
	var out []txres.Failure
	for _, f := range failures {
		if f.Severity == txres.Warning {
			d.delayed = append(d.delayed, f)
			continue
		}
		out = append(out, f)
	}
	return out
}

type snapshot map[string]any

func (s snapshot) Get(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

func (s snapshot) Keys() []string { return keysOf(s) }

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
