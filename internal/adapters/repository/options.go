package repository

const defaultCapacity = 256

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCapacity bounds the number of stored views.
func WithCapacity(capacity int) Option {
	return func(s *MemoryStore) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithEvictHook registers a callback run after a view is evicted and closed.
func WithEvictHook(fn func(View)) Option {
	return func(s *MemoryStore) {
		s.onEvict = fn
	}
}
