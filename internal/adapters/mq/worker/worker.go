// Package worker runs the view event loop: one goroutine that applies every
// view event in arrival order.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/octofit/internal/domain/model"
	"github.com/okian/octofit/pkg/logger"
	"github.com/okian/octofit/pkg/metrics"
)

// Event is what the loop reads off the queue.
type Event = model.ViewEvent

// Queue defines how the loop receives events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Loop applies view events serially. Because it is the only goroutine that
// runs Apply, view state needs no locking.
type Loop struct {
	queue  Queue
	name   string
	logger logger.Logger

	shutdown chan struct{}
	done     chan struct{}
}

// NewLoop creates a loop reading from q.
func NewLoop(q Queue, opts ...Option) *Loop {
	l := &Loop{
		queue:    q,
		name:     "event-loop",
		logger:   logger.Nop(),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.Named(l.name)
	return l
}

// Run processes events until ctx is cancelled, Shutdown is called or the
// queue is closed and drained.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	events := l.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.shutdown:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			l.process(ctx, ev)
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Shutdown stops the loop and waits for it to return.
func (l *Loop) Shutdown(ctx context.Context) error {
	select {
	case <-l.shutdown:
	default:
		close(l.shutdown)
	}

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		l.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (l *Loop) process(ctx context.Context, ev Event) {
	if ev.Apply == nil {
		return
	}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordLoopError(string(ev.Kind))
			metrics.RecordErrorByComponent("event_loop", "panic")
			l.logger.Error(ctx, "view event panicked",
				logger.String("kind", string(ev.Kind)),
				logger.String("view_id", ev.ViewID),
				logger.Any("panic", r),
			)
		}
		metrics.RecordLoopEvent(string(ev.Kind), float64(time.Since(start).Microseconds())/1000)
	}()

	if err := ev.Apply(ctx); err != nil {
		metrics.RecordLoopError(string(ev.Kind))
		l.logger.Debug(ctx, "view event failed",
			logger.String("kind", string(ev.Kind)),
			logger.String("view_id", ev.ViewID),
			logger.Error(err),
		)
	}
}
