package traffic

import (
	"sync"
	"time"
)

var defaultTracker Tracker

// RecordLive records a weather lookup answered by the upstream API.
func RecordLive() {
	defaultTracker.RecordLive()
}

// RecordFallback records a weather lookup that was answered with the default snapshot.
func RecordFallback() {
	defaultTracker.RecordFallback()
}

// RecordDenied records a rate-limit denial (429).
func RecordDenied() {
	defaultTracker.RecordDenied()
}

// RequestCount returns lookups plus denials within the window.
func RequestCount(window time.Duration) int {
	return defaultTracker.RequestCount(window)
}

// DenialCount returns the number of denials within the window.
func DenialCount(window time.Duration) int {
	return defaultTracker.DenialCount(window)
}

// FallbackRate returns (fallbacks, lookups) within the window.
func FallbackRate(window time.Duration) (fallbacks, total int) {
	return defaultTracker.FallbackRate(window)
}

// Reset clears all recorded outcomes. For tests only.
func Reset() {
	defaultTracker.Reset()
}

// retention bounds how far back any window can look.
const retention = 10 * time.Minute

// series is an append-only, time-ordered list of event timestamps.
type series []time.Time

func (s series) countSince(cutoff time.Time) int {
	n := 0
	for i := len(s) - 1; i >= 0 && !s[i].Before(cutoff); i-- {
		n++
	}
	return n
}

func (s *series) prune(cutoff time.Time) {
	times := *s
	i := 0
	for ; i < len(times) && times[i].Before(cutoff); i++ {
	}
	if i > 0 {
		*s = append(times[:0], times[i:]...)
	}
}

// Tracker keeps sliding windows of weather lookup outcomes and rate-limit
// denials. Health and the rate-limit gauges read from it.
type Tracker struct {
	mu       sync.Mutex
	live     series
	fallback series
	denied   series
	now      func() time.Time
}

// RecordLive records an upstream-served lookup.
func (t *Tracker) RecordLive() {
	t.record(&t.live)
}

// RecordFallback records a lookup served from the default snapshot.
func (t *Tracker) RecordFallback() {
	t.record(&t.fallback)
}

// RecordDenied records a rate-limit denial.
func (t *Tracker) RecordDenied() {
	t.record(&t.denied)
}

func (t *Tracker) record(s *series) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock()
	*s = append(*s, now)
	cutoff := now.Add(-retention)
	t.live.prune(cutoff)
	t.fallback.prune(cutoff)
	t.denied.prune(cutoff)
}

// RequestCount returns lookups (live and fallback) plus denials within the window.
func (t *Tracker) RequestCount(window time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.clock().Add(-window)
	return t.live.countSince(cutoff) + t.fallback.countSince(cutoff) + t.denied.countSince(cutoff)
}

// DenialCount returns the number of denials within the window.
func (t *Tracker) DenialCount(window time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.denied.countSince(t.clock().Add(-window))
}

// FallbackRate returns (fallbacks, lookups) within the window. Denials are not lookups.
func (t *Tracker) FallbackRate(window time.Duration) (fallbacks, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.clock().Add(-window)
	fallbacks = t.fallback.countSince(cutoff)
	return fallbacks, fallbacks + t.live.countSince(cutoff)
}

// Reset clears all recorded outcomes.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.live, t.fallback, t.denied = nil, nil, nil
}

func (t *Tracker) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}
