package observability

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kjstillabower/programmer-almanac/internal/traffic"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight.
	HTTPRequestsInFlight prometheus.Gauge

	// wttr.in call rate by status label.
	WeatherAPICallsTotal *prometheus.CounterVec

	// wttr.in latency per request. Watch for: p95 near the client timeout.
	WeatherAPIDuration *prometheus.HistogramVec

	// Lookups answered with the default snapshot, by error category. Watch for: sustained non-zero rate.
	WeatherFallbacksTotal *prometheus.CounterVec

	// Live weather lookups.
	WeatherQueriesTotal prometheus.Counter

	// Per-location lookup count (allow-list; others go to "other").
	WeatherQueriesByLocationTotal *prometheus.CounterVec

	// Synthetic snapshots generated.
	SyntheticWeatherTotal prometheus.Counter

	// Fortunes generated, by kind (daily, detailed).
	FortunesGeneratedTotal *prometheus.CounterVec

	// Board refreshes by trigger (startup, manual, midnight).
	BoardRefreshesTotal *prometheus.CounterVec

	// Settings store operations by op (load, save) and result (success, error).
	SettingsOperationsTotal *prometheus.CounterVec

	// Rate limit denials.
	RateLimitDeniedTotal prometheus.Counter

	trackedLocationsMu sync.RWMutex
	trackedLocations   map[string]struct{}

	rateLimitGaugesOnce sync.Once
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	WeatherAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiCallsTotal",
			Help: "Total number of wttr.in API calls",
		},
		[]string{"status"},
	)
	WeatherAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherApiDurationSeconds",
			Help:    "wttr.in API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	WeatherFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherFallbacksTotal",
			Help: "Weather lookups answered with the default snapshot, by error category",
		},
		[]string{"category"},
	)
	WeatherQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weatherQueriesTotal",
			Help: "Total number of live weather lookups",
		},
	)
	WeatherQueriesByLocationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherQueriesByLocationTotal",
			Help: "Weather lookups by location (allow-list; others use location=other)",
		},
		[]string{"location"},
	)
	SyntheticWeatherTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "syntheticWeatherTotal",
			Help: "Total number of synthetic weather snapshots generated",
		},
	)
	FortunesGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fortunesGeneratedTotal",
			Help: "Fortunes generated by kind",
		},
		[]string{"kind"},
	)
	BoardRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardRefreshesTotal",
			Help: "Daily board refreshes by trigger",
		},
		[]string{"trigger"},
	)
	SettingsOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settingsOperationsTotal",
			Help: "Settings store operations by op and result",
		},
		[]string{"op", "result"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		WeatherAPICallsTotal, WeatherAPIDuration, WeatherFallbacksTotal,
		WeatherQueriesTotal, WeatherQueriesByLocationTotal,
		SyntheticWeatherTotal, FortunesGeneratedTotal, BoardRefreshesTotal,
		SettingsOperationsTotal, RateLimitDeniedTotal,
	)
}

// RegisterRateLimitGauges registers sliding-window gauges over the traffic tracker.
// Call once from main after config load.
func RegisterRateLimitGauges(window time.Duration) {
	rateLimitGaugesOnce.Do(func() {
		registry.MustRegister(
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRequestsInWindow",
					Help: "Weather lookups plus denials in the overload window",
				},
				func() float64 { return float64(traffic.RequestCount(window)) },
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRejectsInWindow",
					Help: "429 responses in the overload window",
				},
				func() float64 { return float64(traffic.DenialCount(window)) },
			),
		)
	})
}

// SetTrackedLocations sets the allow-list for location metrics. Non-tracked locations increment "other".
func SetTrackedLocations(locations []string) {
	trackedLocationsMu.Lock()
	defer trackedLocationsMu.Unlock()
	trackedLocations = make(map[string]struct{}, len(locations))
	for _, loc := range locations {
		trackedLocations[normalizeLocationForMetrics(loc)] = struct{}{}
	}
}

// RecordWeatherQuery records a live weather lookup for the given location.
func RecordWeatherQuery(location string) {
	WeatherQueriesTotal.Inc()
	WeatherQueriesByLocationTotal.WithLabelValues(MetricLocationLabel(location)).Inc()
}

// MetricLocationLabel returns the normalized location when tracked, else "other".
func MetricLocationLabel(location string) string {
	loc := normalizeLocationForMetrics(location)
	trackedLocationsMu.RLock()
	_, ok := trackedLocations[loc]
	trackedLocationsMu.RUnlock()
	if ok {
		return loc
	}
	return "other"
}

func normalizeLocationForMetrics(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
