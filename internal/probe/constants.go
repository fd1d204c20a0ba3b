package probe

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Polling constants.
const (
	PollInterval    = 50 * time.Millisecond
	DefaultSettle   = 15 * time.Second
	DefaultTimeout  = 10 * time.Second
	DefaultRounds   = 5
	logFilePerm     = 0600
	statusLoading   = "loading"
	statusError     = "error"
	statusSuccess   = "success"
	usersResource   = "users"
	defaultSortName = "name"
)

// Resources lists every collection the probe mounts.
var Resources = []string{"users", "teams", "activities", "leaderboard", "workouts"}
