package model

import "context"

// EventKind labels a view event for logging and metrics.
type EventKind string

// View event kinds.
const (
	EventMount     EventKind = "mount"
	EventSetPage   EventKind = "set_page"
	EventSetSort   EventKind = "set_sort"
	EventRefresh   EventKind = "refresh"
	EventFetchDone EventKind = "fetch_done"
	EventUnmount   EventKind = "unmount"
	EventSnapshot  EventKind = "snapshot"
)

// ViewEvent is one unit of work for the view event loop. Apply runs on the
// loop goroutine, so it may touch view state without further locking.
type ViewEvent struct {
	Kind   EventKind
	ViewID string
	Apply  func(ctx context.Context) error
}
