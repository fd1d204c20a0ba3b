package model

import "encoding/json"

// Status discriminates the variants of FetchState.
type Status string

// FetchState variants.
const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// FetchState is the lifecycle status of one collection retrieval.
// Fields are unexported so that only the constructors below can build a
// value; items exist only on success and a message only on error.
type FetchState struct {
	status  Status
	items   []Record
	total   int
	message string
}

// Idle is the state of a controller that has never been activated.
func Idle() FetchState { return FetchState{status: StatusIdle} }

// Loading is the state while a request is outstanding.
func Loading() FetchState { return FetchState{status: StatusLoading} }

// Succeeded carries the items of the current page and the collection total.
func Succeeded(items []Record, totalCount int) FetchState {
	if items == nil {
		items = []Record{}
	}
	if totalCount < 0 {
		totalCount = 0
	}
	return FetchState{status: StatusSuccess, items: items, total: totalCount}
}

// Failed carries a human-readable failure message.
func Failed(message string) FetchState {
	return FetchState{status: StatusError, message: message}
}

// Status returns the variant tag.
func (s FetchState) Status() Status {
	if s.status == "" {
		return StatusIdle
	}
	return s.status
}

// Items returns the loaded records; nil unless the state is a success.
func (s FetchState) Items() []Record { return s.items }

// TotalCount returns the collection total; zero unless the state is a success.
func (s FetchState) TotalCount() int { return s.total }

// Message returns the failure message; empty unless the state is an error.
func (s FetchState) Message() string { return s.message }

// Empty reports a successful load of a collection with no records.
func (s FetchState) Empty() bool {
	return s.status == StatusSuccess && len(s.items) == 0
}

type fetchStateJSON struct {
	Status     Status   `json:"status"`
	Items      []Record `json:"items"`
	TotalCount int      `json:"total_count"`
	Message    string   `json:"message,omitempty"`
}

// MarshalJSON renders the state for the view API. Items is always an array
// so that error and loading states render an empty list, never a stale one.
func (s FetchState) MarshalJSON() ([]byte, error) {
	items := s.items
	if items == nil {
		items = []Record{}
	}
	return json.Marshal(fetchStateJSON{
		Status:     s.Status(),
		Items:      items,
		TotalCount: s.total,
		Message:    s.message,
	})
}
