// Package eventloop implements a cooperative, single-threaded host event dispatcher.
//
// Work is never executed at the time it is scheduled.
// Scheduling only enqueues a Handler, and the host executes it later
// when it pumps the queue on its own goroutine.
package eventloop

//go:generate mockgen -destination=eventloopmock/mocks.go -package=eventloopmock go.llib.dev/txchain/pkg/eventloop Dispatcher

import (
	"context"
	"fmt"
	"sync"

	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
)

// Request is the dispatcher's answer to a scheduling request.
type Request int

const (
	// Accepted means the handler is queued and will be executed.
	Accepted Request = iota
	// Pending means the handler is already queued and waits for its execution.
	Pending
	// Denied means the dispatcher doesn't accept work anymore.
	Denied
	// TimedOut means the dispatcher is too busy to take the request.
	TimedOut
)

func (r Request) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Pending:
		return "pending"
	case Denied:
		return "denied"
	case TimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Handler is a unit of work executed by the host on its own goroutine.
// Handler values are used as map keys, so implementations must be comparable.
type Handler interface {
	Execute(ctx context.Context)
	Name() string
}

// Dispatcher is the scheduling side of a host event loop.
type Dispatcher interface {
	ScheduleCallback(h Handler) Request
}

// Func turns a function into a Handler.
// Every call yields a distinct Handler.
func Func(name string, fn func(ctx context.Context)) Handler {
	return &funcHandler{name: name, fn: fn}
}

type funcHandler struct {
	name string
	fn   func(ctx context.Context)
}

func (h *funcHandler) Execute(ctx context.Context) { h.fn(ctx) }
func (h *funcHandler) Name() string                { return h.name }

const DefaultCapacity = 1024

// Queue is a cooperative run-queue.
// Its zero value is ready to use.
type Queue struct {
	// Capacity is the maximum number of handlers waiting for execution.
	// When it is zero, DefaultCapacity is used.
	Capacity int

	mutex    sync.Mutex
	handlers []Handler
	pending  map[Handler]struct{}
	closed   bool
	signal   chan struct{}
}

var _ Dispatcher = (*Queue)(nil)

func (q *Queue) ScheduleCallback(h Handler) Request {
	if h == nil {
		panic("eventloop: nil Handler")
	}
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.init()
	if q.closed {
		return Denied
	}
	if _, ok := q.pending[h]; ok {
		return Pending
	}
	if q.capacity() <= len(q.handlers) {
		return TimedOut
	}
	q.pending[h] = struct{}{}
	q.handlers = append(q.handlers, h)
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return Accepted
}

// Drain executes queued handlers on the calling goroutine until the queue is empty.
// Handlers scheduled during the drain are executed as well.
// It returns the number of executed handlers.
func (q *Queue) Drain(ctx context.Context) int {
	var n int
	for ctx.Err() == nil {
		h, ok := q.pop()
		if !ok {
			break
		}
		execute(ctx, h)
		n++
	}
	return n
}

// Len is the number of handlers waiting for execution.
func (q *Queue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.handlers)
}

// Close makes the queue deny further requests, and drops the handlers which are still queued.
func (q *Queue) Close() error {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.init()
	q.closed = true
	q.handlers = nil
	q.pending = make(map[Handler]struct{})
	return nil
}

// Signal yields a value whenever a handler is accepted.
func (q *Queue) Signal() <-chan struct{} {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.init()
	return q.signal
}

func (q *Queue) pop() (Handler, bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	if len(q.handlers) == 0 {
		return nil, false
	}
	h := q.handlers[0]
	q.handlers[0] = nil
	q.handlers = q.handlers[1:]
	// removed before execution, so the handler may schedule itself again
	delete(q.pending, h)
	return h, true
}

func (q *Queue) init() {
	if q.pending == nil {
		q.pending = make(map[Handler]struct{})
	}
	if q.signal == nil {
		q.signal = make(chan struct{}, 1)
	}
}

func (q *Queue) capacity() int {
	if q.Capacity <= 0 {
		return DefaultCapacity
	}
	return q.Capacity
}

func execute(ctx context.Context, h Handler) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		logger.Error(ctx, "eventloop handler panicked",
			logging.Field("handler", h.Name()),
			logging.ErrField(panicToError(r)))
	}()
	logger.Debug(ctx, "eventloop executing handler", logging.Field("handler", h.Name()))
	h.Execute(ctx)
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}

const ErrAlreadyRunning errorkit.Error = "eventloop is already running"
