package lifecycle

import (
	"sync/atomic"
	"time"
)

var shuttingDown atomic.Bool

// SetShuttingDown sets the shutdown flag. Call when SIGTERM/SIGINT received.
// Health handler returns 503 with status shutting-down while true.
func SetShuttingDown(v bool) {
	shuttingDown.Store(v)
}

// IsShuttingDown returns true if the process is draining and should not receive new traffic.
func IsShuttingDown() bool {
	return shuttingDown.Load()
}

// NextMidnight returns the start of the calendar day after now, in now's location.
// Built from the calendar rather than by adding 24h so DST transitions land on 00:00.
func NextMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// UntilMidnight returns how long until the next midnight in loc.
func UntilMidnight(now time.Time, loc *time.Location) time.Duration {
	if loc != nil {
		now = now.In(loc)
	}
	return NextMidnight(now).Sub(now)
}
