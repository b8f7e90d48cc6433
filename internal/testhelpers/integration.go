//go:build integration
// +build integration

package testhelpers

import (
	"os"
	"testing"
	"time"

	"github.com/kjstillabower/programmer-almanac/internal/client"
	"github.com/kjstillabower/programmer-almanac/internal/observability"
	"github.com/kjstillabower/programmer-almanac/internal/service"
)

// IntegrationTestConfig holds configuration for integration tests.
type IntegrationTestConfig struct {
	APIURL     string
	Location   string
	ValkeyAddr string
}

// GetIntegrationConfig loads integration test configuration from environment.
// Skips the test unless ALMANAC_INTEGRATION=1, since these tests reach wttr.in.
func GetIntegrationConfig(t *testing.T) IntegrationTestConfig {
	t.Helper()
	if os.Getenv("ALMANAC_INTEGRATION") != "1" {
		t.Skip("ALMANAC_INTEGRATION not set, skipping integration test")
	}
	cfg := IntegrationTestConfig{
		APIURL:     os.Getenv("WEATHER_API_URL"),
		Location:   os.Getenv("INTEGRATION_LOCATION"),
		ValkeyAddr: os.Getenv("VALKEY_ADDR"),
	}
	if cfg.APIURL == "" {
		cfg.APIURL = client.DefaultAPIURL
	}
	if cfg.Location == "" {
		cfg.Location = client.DefaultLocation
	}
	if cfg.ValkeyAddr == "" {
		cfg.ValkeyAddr = "localhost:6379"
	}
	return cfg
}

// SetupIntegrationClient creates a live weather client for integration tests.
func SetupIntegrationClient(t *testing.T, cfg IntegrationTestConfig) *client.WttrClient {
	t.Helper()
	logger, err := observability.NewLogger("programmer-almanac-integration")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	c, err := client.NewWttrClient(cfg.APIURL, 10*time.Second, logger)
	if err != nil {
		t.Fatalf("NewWttrClient() error = %v", err)
	}
	return c
}

// SetupIntegrationService wires a service around the live client.
func SetupIntegrationService(t *testing.T, cfg IntegrationTestConfig) *service.AlmanacService {
	t.Helper()
	return service.NewAlmanacService(SetupIntegrationClient(t, cfg), cfg.Location, time.UTC)
}
