package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/programmer-almanac/internal/observability"
)

// NewRouter wires the routes. Data routes share the rate limiter and the
// per-request timeout; /health and /metrics are never limited.
func NewRouter(h *Handler, logger *zap.Logger, limiter *rate.Limiter, requestTimeout time.Duration) *mux.Router {
	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)
	router.HandleFunc("/health", h.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", observability.MetricsHandler()).Methods(http.MethodGet)

	data := router.NewRoute().Subrouter()
	data.Use(RateLimitMiddleware(limiter))
	data.Use(TimeoutMiddleware(requestTimeout))
	data.HandleFunc("/fortune", h.GetFortune).Methods(http.MethodGet)
	data.HandleFunc("/fortune/detail", h.GetFortuneDetail).Methods(http.MethodGet)
	data.HandleFunc("/synthetic-weather", h.GetSyntheticWeather).Methods(http.MethodGet)
	data.HandleFunc("/weather", h.GetWeather).Methods(http.MethodGet)
	data.HandleFunc("/weather/{location}", h.GetWeather).Methods(http.MethodGet)
	data.HandleFunc("/today", h.GetToday).Methods(http.MethodGet)
	data.HandleFunc("/today/refresh", h.PostTodayRefresh).Methods(http.MethodPost)
	data.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet)
	data.HandleFunc("/settings", h.PutSettings).Methods(http.MethodPut)
	return router
}
