package paging

import "github.com/okian/octofit/internal/domain/model"

// DefaultPageSize matches the upstream API's page size for users.
const DefaultPageSize = 10

// CanonicalOrdering is the only ordering ever requested from the server.
const CanonicalOrdering = "name"

// Option configures a Pager.
type Option func(*Pager)

// WithPageSize sets the fixed page size.
func WithPageSize(size int) Option {
	return func(p *Pager) {
		p.size = size
	}
}

// WithSortKey sets the initial display sort key.
func WithSortKey(key model.SortKey) Option {
	return func(p *Pager) {
		p.sortKey = key
	}
}
