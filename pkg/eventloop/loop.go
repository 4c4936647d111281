package eventloop

import (
	"context"
	"sync/atomic"

	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
)

// Loop pumps a Queue on a single goroutine.
// Every Handler scheduled on the Loop is executed by the goroutine that runs Loop.Run.
type Loop struct {
	Queue Queue

	running int32
}

var _ Dispatcher = (*Loop)(nil)

func (l *Loop) ScheduleCallback(h Handler) Request {
	return l.Queue.ScheduleCallback(h)
}

// Run executes scheduled handlers until the context is done.
// Once Run returns, the Loop denies further scheduling requests.
//
// Run has the signature of a tasker.Task.
func (l *Loop) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&l.running, 0, 1) {
		return ErrAlreadyRunning
	}
	defer atomic.StoreInt32(&l.running, 0)
	defer l.Queue.Close()
	logger.Debug(ctx, "eventloop started")
	signal := l.Queue.Signal()
	for {
		l.Queue.Drain(ctx)
		select {
		case <-ctx.Done():
			logger.Debug(ctx, "eventloop stopped", logging.Field("dropped", l.Queue.Len()))
			return nil
		case <-signal:
		}
	}
}

// IsRunning reports whether a goroutine is currently pumping the Loop.
func (l *Loop) IsRunning() bool {
	return atomic.LoadInt32(&l.running) == 1
}
