package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/programmer-almanac/internal/almanac"
	"github.com/kjstillabower/programmer-almanac/internal/client"
	"github.com/kjstillabower/programmer-almanac/internal/models"
	"github.com/kjstillabower/programmer-almanac/internal/observability"
	"github.com/kjstillabower/programmer-almanac/internal/weather"
)

// AlmanacService answers fortune and weather questions for the HTTP layer.
// Fortunes and synthetic weather are pure functions of the date; "today" is
// resolved in the configured zone.
type AlmanacService struct {
	client          client.WeatherClient
	defaultLocation string
	loc             *time.Location
	now             func() time.Time
}

// NewAlmanacService creates a service. A nil loc means the process local zone;
// a blank defaultLocation means client.DefaultLocation.
func NewAlmanacService(c client.WeatherClient, defaultLocation string, loc *time.Location) *AlmanacService {
	if loc == nil {
		loc = time.Local
	}
	defaultLocation = strings.TrimSpace(defaultLocation)
	if defaultLocation == "" {
		defaultLocation = client.DefaultLocation
	}
	return &AlmanacService{
		client:          c,
		defaultLocation: defaultLocation,
		loc:             loc,
		now:             time.Now,
	}
}

// Location is the zone used to decide which day "today" is.
func (s *AlmanacService) Location() *time.Location {
	return s.loc
}

// DefaultLocation is the place looked up when none is given.
func (s *AlmanacService) DefaultLocation() string {
	return s.defaultLocation
}

// Today returns the current calendar date in the configured zone.
func (s *AlmanacService) Today() almanac.Date {
	return almanac.DateOf(s.now().In(s.loc))
}

func (s *AlmanacService) resolve(d almanac.Date) almanac.Date {
	if d.IsZero() {
		return s.Today()
	}
	return d
}

// Daily returns the fortune card for d; the zero Date means today.
func (s *AlmanacService) Daily(ctx context.Context, d almanac.Date) almanac.DailyFortune {
	d = s.resolve(d)
	observability.FortunesGeneratedTotal.WithLabelValues("daily").Inc()
	observability.LoggerFrom(ctx, nil).Debug("fortune generated",
		zap.String("kind", "daily"), zap.String("date", d.String()))
	return almanac.Daily(d)
}

// Detailed returns the per-aspect and per-time-slot fortune for d.
func (s *AlmanacService) Detailed(ctx context.Context, d almanac.Date) almanac.DetailedFortune {
	d = s.resolve(d)
	observability.FortunesGeneratedTotal.WithLabelValues("detailed").Inc()
	observability.LoggerFrom(ctx, nil).Debug("fortune generated",
		zap.String("kind", "detailed"), zap.String("date", d.String()))
	return almanac.Detailed(d)
}

// SyntheticWeather returns the deterministic offline snapshot for d.
func (s *AlmanacService) SyntheticWeather(ctx context.Context, d almanac.Date) models.WeatherSnapshot {
	d = s.resolve(d)
	observability.SyntheticWeatherTotal.Inc()
	observability.LoggerFrom(ctx, nil).Debug("synthetic weather generated", zap.String("date", d.String()))
	return weather.Synthetic(d)
}

// Weather fetches live weather for location, or the default location when blank.
// It never fails; upstream problems come back as the fallback snapshot.
func (s *AlmanacService) Weather(ctx context.Context, location string) models.WeatherSnapshot {
	location = strings.TrimSpace(location)
	if location == "" {
		location = s.defaultLocation
	}
	start := time.Now()
	snap := s.client.Fetch(ctx, location)
	observability.LoggerFrom(ctx, nil).Debug("weather served",
		zap.String("location", location),
		zap.String("source", string(snap.Source)),
		zap.Duration("duration", time.Since(start)))
	return snap
}
