package probe

import (
	"encoding/json"
	"time"
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL  string        // Base URL of the dashboard
	Rounds   int           // Mount/settle/unmount cycles per resource
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Settle   time.Duration // How long a view may stay loading
	LogFile  string        // Log file for probe output
	Verbose  bool          // Enable verbose logging
	PageWalk bool          // Visit every users page after the concurrent phase
}

// Snapshot mirrors the JSON read model of a view.
type Snapshot struct {
	ID       string `json:"id"`
	Resource string `json:"resource"`
	State    struct {
		Status     string            `json:"status"`
		Items      []json.RawMessage `json:"items"`
		TotalCount int               `json:"total_count"`
		Message    string            `json:"message"`
	} `json:"state"`
	Cards []struct {
		Title string `json:"title"`
	} `json:"cards"`
	Empty  bool   `json:"empty"`
	Notice string `json:"notice"`
	Page   *struct {
		Current    int    `json:"current"`
		TotalPages int    `json:"total_pages"`
		Size       int    `json:"size"`
		SortKey    string `json:"sort_key"`
		Window     []struct {
			Page     int  `json:"page"`
			Ellipsis bool `json:"ellipsis"`
		} `json:"window"`
	} `json:"page"`
}

// Stats holds probe statistics.
type Stats struct {
	ViewsMounted   int
	ViewsSettled   int
	ViewsFailed    int
	ViewsTimedOut  int
	Violations     int
	PagesVisited   int
	Backpressured  int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	SettleLatency  time.Duration // mean time from mount to settled
	settleTotalDur time.Duration
}
