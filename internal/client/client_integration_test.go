//go:build integration
// +build integration

package client_test

import (
	"context"
	"testing"

	"github.com/kjstillabower/programmer-almanac/internal/models"
	"github.com/kjstillabower/programmer-almanac/internal/testhelpers"
)

// TestWttrClient_Fetch_Live_Integration verifies a real j1 response maps to a
// live snapshot with plausible readings.
func TestWttrClient_Fetch_Live_Integration(t *testing.T) {
	cfg := testhelpers.GetIntegrationConfig(t)
	c := testhelpers.SetupIntegrationClient(t, cfg)

	got := c.Fetch(context.Background(), cfg.Location)
	if got.Source != models.SourceLive {
		t.Skipf("upstream unavailable, got %s snapshot", got.Source)
	}
	if got.Location == "" {
		t.Error("Location is empty")
	}
	if got.Details.HumidityPct < 0 || got.Details.HumidityPct > 100 {
		t.Errorf("HumidityPct = %d, want 0..100", got.Details.HumidityPct)
	}
	if got.Temperature.LowC > got.Temperature.HighC {
		t.Errorf("LowC %d > HighC %d", got.Temperature.LowC, got.Temperature.HighC)
	}
	if got.Details.AQI < 50 || got.Details.AQI >= 100 {
		t.Errorf("AQI = %d, want [50,100)", got.Details.AQI)
	}
}

// TestAlmanacService_Weather_UnknownLocation_Integration verifies that a
// nonsense location still yields a snapshot rather than an error.
func TestAlmanacService_Weather_UnknownLocation_Integration(t *testing.T) {
	cfg := testhelpers.GetIntegrationConfig(t)
	svc := testhelpers.SetupIntegrationService(t, cfg)

	got := svc.Weather(context.Background(), "Qwxzzyplk")
	if got.Location == "" {
		t.Error("Location is empty")
	}
	if got.Source != models.SourceLive && got.Source != models.SourceFallback {
		t.Errorf("Source = %q, want live or fallback", got.Source)
	}
}
