// Package paging reconciles server-side pagination with the client-side
// display sort of the users view.
package paging

import (
	"net/url"
	"strconv"

	"github.com/okian/octofit/internal/domain/model"
)

// Pager holds the page state of one users view. It is not safe for
// concurrent use; the view event loop owns it.
type Pager struct {
	current int
	size    int
	sortKey model.SortKey
	total   int
}

// New returns a Pager on page 1 sorted by name.
func New(opts ...Option) (*Pager, error) {
	p := &Pager{
		current: 1,
		size:    DefaultPageSize,
		sortKey: model.SortByName,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.size <= 0 {
		return nil, ErrInvalidPageSize
	}
	if _, err := model.ParseSortKey(string(p.sortKey)); err != nil {
		return nil, err
	}
	return p, nil
}

// CurrentPage returns the 1-based page number.
func (p *Pager) CurrentPage() int { return p.current }

// PageSize returns the fixed page size.
func (p *Pager) PageSize() int { return p.size }

// SortKey returns the display sort key.
func (p *Pager) SortKey() model.SortKey { return p.sortKey }

// TotalCount returns the last observed collection total.
func (p *Pager) TotalCount() int { return p.total }

// TotalPages is ceil(totalCount / pageSize).
func (p *Pager) TotalPages() int {
	if p.total <= 0 {
		return 0
	}
	return (p.total + p.size - 1) / p.size
}

// Observe records the collection total reported by a successful load. If
// the collection shrank below the current page, the page is clamped to the
// last valid one and Observe reports true so the caller can refetch.
func (p *Pager) Observe(totalCount int) (clamped bool) {
	if totalCount < 0 {
		totalCount = 0
	}
	p.total = totalCount
	if last := max(p.TotalPages(), 1); p.current > last {
		p.current = last
		return true
	}
	return false
}

// SetPage moves to page when it lies within [1, max(TotalPages, 1)] and
// differs from the current page. It reports whether a fetch is needed.
// Out-of-range pages are ignored without error.
func (p *Pager) SetPage(page int) bool {
	last := max(p.TotalPages(), 1)
	if page < 1 || page > last || page == p.current {
		return false
	}
	p.current = page
	return true
}

// SetSortKey changes the display sort and resets to page 1. The sort itself
// never needs a fetch; refetch is true only when the reset moved the page.
func (p *Pager) SetSortKey(raw string) (refetch bool, err error) {
	key, err := model.ParseSortKey(raw)
	if err != nil {
		return false, err
	}
	p.sortKey = key
	if p.current == 1 {
		return false, nil
	}
	p.current = 1
	return true, nil
}

// Query returns the upstream query for the current page. Ordering is always
// the canonical server key regardless of the display sort.
func (p *Pager) Query() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.current))
	q.Set("ordering", CanonicalOrdering)
	return q
}
