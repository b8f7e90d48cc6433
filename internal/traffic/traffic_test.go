package traffic

import (
	"sync"
	"testing"
	"time"
)

// TestRequestCount_Empty verifies that RequestCount returns 0 when nothing
// has been recorded within the window.
func TestRequestCount_Empty(t *testing.T) {
	Reset()
	if n := RequestCount(time.Minute); n != 0 {
		t.Errorf("RequestCount() = %d, want 0", n)
	}
}

// TestRequestCount_IncludesAllOutcomes verifies that live lookups, fallbacks
// and denials all count as requests.
func TestRequestCount_IncludesAllOutcomes(t *testing.T) {
	Reset()
	RecordLive()
	RecordFallback()
	RecordDenied()
	if n := RequestCount(time.Minute); n != 3 {
		t.Errorf("RequestCount() = %d, want 3", n)
	}
	if n := DenialCount(time.Minute); n != 1 {
		t.Errorf("DenialCount() = %d, want 1", n)
	}
}

// TestFallbackRate_ExcludesDenials verifies that denials are not counted as lookups.
func TestFallbackRate_ExcludesDenials(t *testing.T) {
	Reset()
	RecordLive()
	RecordLive()
	RecordFallback()
	RecordDenied()
	fallbacks, total := FallbackRate(time.Minute)
	if fallbacks != 1 || total != 3 {
		t.Errorf("FallbackRate() = (%d, %d), want (1, 3)", fallbacks, total)
	}
}

// TestTracker_WindowExcludesOldEvents drives the tracker clock to verify
// events slide out of the window and get pruned after retention.
func TestTracker_WindowExcludesOldEvents(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := &Tracker{now: func() time.Time { return now }}

	tr.RecordFallback()
	now = now.Add(2 * time.Minute)
	tr.RecordLive()

	if fallbacks, total := tr.FallbackRate(time.Minute); fallbacks != 0 || total != 1 {
		t.Errorf("FallbackRate(1m) = (%d, %d), want (0, 1)", fallbacks, total)
	}
	if fallbacks, total := tr.FallbackRate(5 * time.Minute); fallbacks != 1 || total != 2 {
		t.Errorf("FallbackRate(5m) = (%d, %d), want (1, 2)", fallbacks, total)
	}

	now = now.Add(retention + time.Minute)
	tr.RecordDenied()
	if len(tr.fallback) != 0 || len(tr.live) != 0 {
		t.Errorf("expected old events pruned, got live=%d fallback=%d", len(tr.live), len(tr.fallback))
	}
}

// TestTracker_ConcurrentRecording verifies the tracker is safe for concurrent use.
func TestTracker_ConcurrentRecording(t *testing.T) {
	var tr Tracker
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.RecordLive()
			tr.RecordFallback()
		}()
	}
	wg.Wait()
	if _, total := tr.FallbackRate(time.Minute); total != 100 {
		t.Errorf("total = %d, want 100", total)
	}
}
