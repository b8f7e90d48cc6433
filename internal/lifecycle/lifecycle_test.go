package lifecycle

import (
	"testing"
	"time"
)

func TestIsShuttingDown_DefaultFalse(t *testing.T) {
	SetShuttingDown(false)
	if IsShuttingDown() {
		t.Error("IsShuttingDown() = true, want false by default")
	}
}

func TestSetShuttingDown_Toggle(t *testing.T) {
	SetShuttingDown(true)
	if !IsShuttingDown() {
		t.Error("IsShuttingDown() = false after SetShuttingDown(true), want true")
	}
	SetShuttingDown(false)
	if IsShuttingDown() {
		t.Error("IsShuttingDown() = true after SetShuttingDown(false), want false")
	}
}

func TestNextMidnight(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*60*60)
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"mid afternoon", time.Date(2024, 3, 5, 15, 30, 0, 0, shanghai), time.Date(2024, 3, 6, 0, 0, 0, 0, shanghai)},
		{"exactly midnight", time.Date(2024, 3, 5, 0, 0, 0, 0, shanghai), time.Date(2024, 3, 6, 0, 0, 0, 0, shanghai)},
		{"end of year", time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"leap day", time.Date(2024, 2, 28, 8, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextMidnight(tt.now); !got.Equal(tt.want) {
				t.Errorf("NextMidnight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUntilMidnight_UsesLocation(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*60*60)
	// 15:00 UTC is 23:00 in Shanghai.
	now := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)

	if got := UntilMidnight(now, shanghai); got != time.Hour {
		t.Errorf("UntilMidnight(shanghai) = %v, want 1h", got)
	}
	if got := UntilMidnight(now, time.UTC); got != 9*time.Hour {
		t.Errorf("UntilMidnight(utc) = %v, want 9h", got)
	}
}
