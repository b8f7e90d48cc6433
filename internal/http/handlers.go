package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kjstillabower/programmer-almanac/internal/lifecycle"
	"github.com/kjstillabower/programmer-almanac/internal/observability"
	"github.com/kjstillabower/programmer-almanac/internal/refresh"
	"github.com/kjstillabower/programmer-almanac/internal/service"
	"github.com/kjstillabower/programmer-almanac/internal/settings"
	"github.com/kjstillabower/programmer-almanac/internal/traffic"
	"github.com/kjstillabower/programmer-almanac/internal/validation"
)

// maxSettingsBody caps PUT /settings payloads.
const maxSettingsBody = 4 << 10

// HealthConfig holds lifecycle thresholds for the health handler.
type HealthConfig struct {
	OverloadWindow       time.Duration
	OverloadThresholdPct int
	RateLimitRPS         int
	DegradedWindow       time.Duration
	DegradedFallbackPct  int
	StartTime            time.Time // zero omits uptime from /health
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	almanac          *service.AlmanacService
	board            *refresh.Refresher
	settings         settings.Store
	healthConfig     *HealthConfig
	logger           *zap.Logger
	locationMaxLen   int
	locationMinLen   int
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler. locationMaxLen and locationMinLen bound
// the {location} path segment in runes.
func NewHandler(
	almanac *service.AlmanacService,
	board *refresh.Refresher,
	store settings.Store,
	healthConfig *HealthConfig,
	logger *zap.Logger,
	locationMaxLen, locationMinLen int,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		almanac:        almanac,
		board:          board,
		settings:       store,
		healthConfig:   healthConfig,
		logger:         logger,
		locationMaxLen: locationMaxLen,
		locationMinLen: locationMinLen,
	}
}

// GetFortune handles GET /fortune?date=YYYY-MM-DD.
func (h *Handler) GetFortune(w http.ResponseWriter, r *http.Request) {
	d, err := validation.ParseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.almanac.Daily(r.Context(), d))
}

// GetFortuneDetail handles GET /fortune/detail?date=YYYY-MM-DD.
func (h *Handler) GetFortuneDetail(w http.ResponseWriter, r *http.Request) {
	d, err := validation.ParseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.almanac.Detailed(r.Context(), d))
}

// GetSyntheticWeather handles GET /synthetic-weather?date=YYYY-MM-DD.
func (h *Handler) GetSyntheticWeather(w http.ResponseWriter, r *http.Request) {
	d, err := validation.ParseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.almanac.SyntheticWeather(r.Context(), d))
}

// GetWeather handles GET /weather/{location} and GET /weather (default location).
// It always answers 200; upstream trouble shows up as source "fallback".
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	location, hasLocation := mux.Vars(r)["location"]
	if hasLocation {
		valid, err := validation.ValidateLocation(location, h.locationMinLen, h.locationMaxLen)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_LOCATION", err.Error())
			return
		}
		location = valid
	}
	writeJSON(w, http.StatusOK, h.almanac.Weather(r.Context(), location))
}

// GetToday handles GET /today.
func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.board.Current())
}

// PostTodayRefresh handles POST /today/refresh. The refresh is not tied to the
// client connection; the weather client's own timeout bounds it.
func (h *Handler) PostTodayRefresh(w http.ResponseWriter, r *http.Request) {
	board := h.board.Refresh(context.WithoutCancel(r.Context()), refresh.TriggerManual)
	writeJSON(w, http.StatusOK, board)
}

// GetSettings handles GET /settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Load(r.Context())
	if err != nil {
		observability.SettingsOperationsTotal.WithLabelValues("load", "error").Inc()
		writeSettingsError(w, r, err)
		return
	}
	observability.SettingsOperationsTotal.WithLabelValues("load", "success").Inc()
	writeJSON(w, http.StatusOK, s)
}

// PutSettings handles PUT /settings. Fields missing from the body keep their
// current values.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	current, err := h.settings.Load(r.Context())
	if err != nil {
		observability.SettingsOperationsTotal.WithLabelValues("save", "error").Inc()
		writeSettingsError(w, r, err)
		return
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSettingsBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&current); err != nil {
		observability.SettingsOperationsTotal.WithLabelValues("save", "invalid").Inc()
		writeError(w, r, http.StatusBadRequest, "INVALID_SETTINGS", "request body must be a settings JSON object")
		return
	}
	if err := current.Validate(); err != nil {
		observability.SettingsOperationsTotal.WithLabelValues("save", "invalid").Inc()
		writeError(w, r, http.StatusBadRequest, "INVALID_SETTINGS", err.Error())
		return
	}
	if err := h.settings.Save(r.Context(), current); err != nil {
		observability.SettingsOperationsTotal.WithLabelValues("save", "error").Inc()
		writeSettingsError(w, r, err)
		return
	}
	observability.SettingsOperationsTotal.WithLabelValues("save", "success").Inc()
	observability.LoggerFrom(r.Context(), h.logger).Info("settings saved",
		zap.Bool("notifications_enabled", current.NotificationsEnabled),
		zap.String("notification_time", current.NotificationTime),
		zap.String("theme", string(current.Theme)))
	writeJSON(w, http.StatusOK, current)
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	checks := make(map[string]string)
	if result.reason == "fallback_rate_breach" {
		checks["weatherApi"] = "unhealthy"
	} else {
		checks["weatherApi"] = "healthy"
	}
	if h.settings != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		if h.settings.Ping(ctx) == nil {
			checks["settingsStore"] = "healthy"
		} else {
			checks["settingsStore"] = "unhealthy"
		}
		cancel()
	}
	resp := map[string]interface{}{
		"status":    result.status,
		"service":   "programmer-almanac",
		"version":   "dev",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.healthConfig != nil && !h.healthConfig.StartTime.IsZero() {
		resp["uptimeSeconds"] = int64(time.Since(h.healthConfig.StartTime).Seconds())
	}
	writeJSON(w, result.statusCode, resp)
}

// computeHealthStatus evaluates conditions in priority order:
// shutting-down > overloaded > degraded > healthy.
func (h *Handler) computeHealthStatus() healthResult {
	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	if h.healthConfig == nil {
		return healthResult{"healthy", http.StatusOK, ""}
	}
	// Overloaded: traffic in the window exceeds the configured share of limiter capacity.
	if h.healthConfig.RateLimitRPS > 0 && h.healthConfig.OverloadWindow > 0 {
		threshold := float64(h.healthConfig.RateLimitRPS) * h.healthConfig.OverloadWindow.Seconds() * float64(h.healthConfig.OverloadThresholdPct) / 100
		if float64(traffic.RequestCount(h.healthConfig.OverloadWindow)) > threshold {
			return healthResult{"overloaded", http.StatusServiceUnavailable, "overload_threshold"}
		}
	}
	if h.healthConfig.DegradedWindow > 0 && h.healthConfig.DegradedFallbackPct > 0 {
		fallbacks, total := traffic.FallbackRate(h.healthConfig.DegradedWindow)
		if total > 0 {
			pct := float64(fallbacks) * 100 / float64(total)
			if pct >= float64(h.healthConfig.DegradedFallbackPct) {
				return healthResult{"degraded", http.StatusServiceUnavailable, "fallback_rate_breach"}
			}
		}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code, message,
// and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": observability.CorrelationID(r.Context()),
		},
	})
}

// writeSettingsError maps store failures: invalid stored data and I/O
// problems both leave the settings unavailable.
func writeSettingsError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFrom(r.Context(), nil).Warn("settings store error", zap.Error(err))
	if errors.Is(err, settings.ErrInvalid) {
		writeError(w, r, http.StatusServiceUnavailable, "SETTINGS_UNAVAILABLE", "stored settings are invalid")
		return
	}
	writeError(w, r, http.StatusServiceUnavailable, "SETTINGS_UNAVAILABLE", "settings store unavailable")
}
