// Package repository keeps the registry of mounted views.
package repository

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"github.com/okian/octofit/pkg/metrics"
)

// View is anything the store can hold. Close is called when the store
// evicts the view.
type View interface {
	ID() string
	Close()
}

// Store provides access to mounted views.
type Store interface {
	// Put adds v. When the store is full the oldest view is evicted, closed
	// and returned.
	Put(ctx context.Context, v View) (evicted View, err error)
	// Get returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (View, error)
	// Delete removes and returns the view. It does not close it.
	Delete(ctx context.Context, id string) (View, error)
	// Count returns the number of stored views.
	Count(ctx context.Context) int
	// Range calls fn for each view, oldest first, until fn returns false.
	Range(ctx context.Context, fn func(View) bool)
}

// MemoryStore is a bounded Store evicting in insertion order.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]*list.Element
	order    *list.List
	capacity int
	onEvict  func(View)
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:     make(map[string]*list.Element),
		order:    list.New(),
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, v View) (View, error) {
	s.mu.Lock()
	if _, ok := s.byID[v.ID()]; ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, v.ID())
	}

	var evicted View
	if s.order.Len() >= s.capacity {
		oldest := s.order.Front()
		evicted = s.order.Remove(oldest).(View)
		delete(s.byID, evicted.ID())
	}
	s.byID[v.ID()] = s.order.PushBack(v)
	count := s.order.Len()
	s.mu.Unlock()

	metrics.UpdateActiveViews(count)
	if evicted != nil {
		evicted.Close()
		metrics.RecordViewEvicted()
		if s.onEvict != nil {
			s.onEvict(evicted)
		}
	}
	return evicted, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	el, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return el.Value.(View), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) (View, error) {
	s.mu.Lock()
	el, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.byID, id)
	v := s.order.Remove(el).(View)
	count := s.order.Len()
	s.mu.Unlock()

	metrics.UpdateActiveViews(count)
	return v, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Len()
}

// Range implements Store. fn runs on a copy of the list so it may call back
// into the store.
func (s *MemoryStore) Range(_ context.Context, fn func(View) bool) {
	s.mu.RLock()
	views := make([]View, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		views = append(views, el.Value.(View))
	}
	s.mu.RUnlock()

	for _, v := range views {
		if !fn(v) {
			return
		}
	}
}
