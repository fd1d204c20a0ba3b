// Package service hosts the dashboard's view sessions and implements the
// dependencies required by the HTTP API.
//
// Every view mutation runs on a single event loop goroutine. HTTP handlers
// submit an event and wait for its reply; fetch goroutines post their
// completions back to the loop. Views therefore need no locks.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/okian/octofit/internal/adapters/mq/queue"
	"github.com/okian/octofit/internal/adapters/mq/worker"
	"github.com/okian/octofit/internal/adapters/repository"
	"github.com/okian/octofit/internal/adapters/upstream"
	"github.com/okian/octofit/internal/domain/endpoint"
	"github.com/okian/octofit/internal/domain/model"
	"github.com/okian/octofit/internal/domain/paging"
	"github.com/okian/octofit/internal/domain/resource"
	"github.com/okian/octofit/pkg/logger"
	"github.com/okian/octofit/pkg/metrics"
)

const (
	defaultQueueSize = 1024
	defaultMaxViews  = 256
	stopTimeout      = 10 * time.Second
)

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	resolver resource.Resolver
	fetcher  resource.Fetcher
	store    repository.Store
	queue    eventqueue.Queue
	loop     *worker.Loop

	queueSize int
	maxViews  int
	pageSize  int

	// ctx parents every view context; cancel aborts all in-flight fetches.
	ctx     context.Context
	cancel  context.CancelFunc
	fetches sync.WaitGroup

	started bool
	logger  logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		resolver:  endpoint.NewResolver(endpoint.Environment{}),
		queueSize: defaultQueueSize,
		maxViews:  defaultMaxViews,
		pageSize:  paging.DefaultPageSize,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		s.fetcher = upstream.New(upstream.WithLogger(s.logger))
	}
	return s
}

// Start creates the view store and queue and runs the event loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if _, err := paging.New(paging.WithPageSize(s.pageSize)); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	s.store = repository.NewMemoryStore(
		repository.WithCapacity(s.maxViews),
		repository.WithEvictHook(func(v repository.View) {
			s.logger.Info(context.Background(), "view evicted", logger.String("view_id", v.ID()))
		}),
	)
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.loop = worker.NewLoop(s.queue, worker.WithLogger(s.logger))
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	go s.loop.Run(s.ctx)

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxViews", s.maxViews),
		logger.Int("pageSize", s.pageSize),
	)
	return nil
}

// Stop cancels every in-flight fetch, drains the loop and closes all views.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping dashboard service...")

	s.cancel()
	shutdownCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	if err := s.loop.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "event loop shutdown", logger.Error(err))
	}
	s.fetches.Wait()
	_ = s.queue.Close()

	s.store.Range(ctx, func(v repository.View) bool {
		v.Close()
		return true
	})

	s.started = false
	s.logger.Info(ctx, "dashboard service stopped")
}

// call runs fn on the event loop and waits for its result.
func (s *Service) call(ctx context.Context, kind model.EventKind, viewID string, fn func(ctx context.Context) error) error {
	s.mu.RLock()
	started, q, loop := s.started, s.queue, s.loop
	s.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}

	reply := make(chan error, 1)
	ev := model.ViewEvent{
		Kind:   kind,
		ViewID: viewID,
		Apply: func(lctx context.Context) error {
			err := fn(lctx)
			reply <- err
			return err
		},
	}
	if !q.Enqueue(ctx, ev) {
		if q.IsClosed() {
			return ErrStopped
		}
		return ErrBusy
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-loop.Done():
		return ErrStopped
	}
}

// activate issues a new request for v and fetches it in the background.
// Runs on the loop.
func (s *Service) activate(v *view) error {
	req, err := v.ctrl.Activate(v.query())
	if err != nil {
		return err
	}
	v.updatedAt = time.Now()

	s.fetches.Add(1)
	go s.fetch(v, req)
	return nil
}

func (s *Service) fetch(v *view, req resource.Request) {
	defer s.fetches.Done()

	res := v.ctrl.Resource().Segment()
	start := time.Now()
	body, err := s.fetcher.Fetch(v.ctx, req.URL)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000

	ev := model.ViewEvent{
		Kind:   model.EventFetchDone,
		ViewID: v.id,
		Apply: func(ctx context.Context) error {
			if !v.ctrl.Complete(req.Seq, body, err) {
				metrics.RecordStaleCompletion(res)
				return nil
			}
			v.updatedAt = time.Now()
			state := v.ctrl.CurrentState()

			outcome := upstream.Outcome(err)
			if err == nil && state.Status() == model.StatusError {
				outcome = metrics.OutcomeDecodeError
			}
			_ = metrics.RecordUpstreamFetch(res, outcome, latencyMs)

			if state.Status() == model.StatusError {
				s.logger.Warn(ctx, "view load failed",
					logger.String("view_id", v.id),
					logger.String("resource", res),
					logger.String("message", state.Message()),
				)
				return nil
			}
			if v.pager != nil && v.pager.Observe(state.TotalCount()) {
				return s.activate(v)
			}
			return nil
		},
	}
	// The view context ends at unmount; its completion has nowhere to go.
	if !s.queue.EnqueueWait(v.ctx, ev) {
		metrics.RecordStaleCompletion(res)
	}
}

func (s *Service) newView(res model.Resource) (*view, error) {
	ctx, cancel := context.WithCancel(s.ctx)
	v := &view{
		id:        uuid.NewString(),
		ctrl:      resource.NewController(res, s.resolver),
		mountedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
	v.updatedAt = v.mountedAt
	if res.Paged() {
		p, err := paging.New(paging.WithPageSize(s.pageSize))
		if err != nil {
			cancel()
			return nil, err
		}
		v.pager = p
	}
	return v, nil
}

// lookup fetches a view from the store. Runs on the loop.
func (s *Service) lookup(ctx context.Context, id string) (*view, error) {
	got, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v, ok := got.(*view)
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	return v, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":   s.started,
		"queueSize": s.queueSize,
		"maxViews":  s.maxViews,
		"pageSize":  s.pageSize,
	}
	if b, ok := s.resolver.(interface{ Base() string }); ok {
		stats["apiBase"] = b.Base()
	}
	if s.started {
		queueLen := s.queue.Len(ctx)
		activeViews := s.store.Count(ctx)
		stats["queueLength"] = queueLen
		stats["activeViews"] = activeViews

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateActiveViews(activeViews)
	}
	return stats
}
