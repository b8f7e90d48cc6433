package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kjstillabower/programmer-almanac/internal/almanac"
	"github.com/kjstillabower/programmer-almanac/internal/lifecycle"
	"github.com/kjstillabower/programmer-almanac/internal/models"
	"github.com/kjstillabower/programmer-almanac/internal/refresh"
	"github.com/kjstillabower/programmer-almanac/internal/service"
	"github.com/kjstillabower/programmer-almanac/internal/settings"
	"github.com/kjstillabower/programmer-almanac/internal/traffic"
	"github.com/kjstillabower/programmer-almanac/internal/weather"
)

type mockWeatherClient struct {
	mu        sync.Mutex
	source    models.SnapshotSource
	locations []string
}

func (m *mockWeatherClient) Fetch(ctx context.Context, location string) models.WeatherSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = append(m.locations, location)
	snap := weather.DefaultSnapshot(location)
	if ctx.Err() != nil {
		return snap
	}
	if m.source != "" {
		snap.Source = m.source
	}
	return snap
}

func (m *mockWeatherClient) lastLocation() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.locations) == 0 {
		return ""
	}
	return m.locations[len(m.locations)-1]
}

type failingStore struct {
	loadErr error
	saveErr error
	pingErr error
}

func (f *failingStore) Load(ctx context.Context) (settings.Settings, error) {
	if f.loadErr != nil {
		return settings.Settings{}, f.loadErr
	}
	return settings.Defaults(), nil
}

func (f *failingStore) Save(ctx context.Context, s settings.Settings) error { return f.saveErr }

func (f *failingStore) Ping(ctx context.Context) error { return f.pingErr }

type testEnv struct {
	client  *mockWeatherClient
	handler *Handler
	router  http.Handler
}

func newTestEnv(t *testing.T, store settings.Store, healthConfig *HealthConfig, logger *zap.Logger) *testEnv {
	t.Helper()
	traffic.Reset()
	lifecycle.SetShuttingDown(false)
	t.Cleanup(func() {
		traffic.Reset()
		lifecycle.SetShuttingDown(false)
	})
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = settings.NewMemoryStore()
	}
	mc := &mockWeatherClient{source: models.SourceLive}
	svc := service.NewAlmanacService(mc, "Beijing", time.UTC)
	board := refresh.NewRefresher(svc, logger)
	h := NewHandler(svc, board, store, healthConfig, logger, 100, 1)
	return &testEnv{
		client:  mc,
		handler: h,
		router:  NewRouter(h, logger, nil, 5*time.Second),
	}
}

func (e *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) (code, requestID string) {
	t.Helper()
	var body struct {
		Error struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"requestId"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code, body.Error.RequestID
}

func TestHandler_GetFortune_ExplicitDate(t *testing.T) {
	env := newTestEnv(t, nil, nil, nil)

	w := env.do("GET", "/fortune?date=2024-01-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var got almanac.DailyFortune
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Fortune.Score != 4 {
		t.Errorf("score = %d, want 4", got.Fortune.Score)
	}
	if got.Advice.LuckyLanguage != "JavaScript" {
		t.Errorf("luckyLanguage = %q, want JavaScript", got.Advice.LuckyLanguage)
	}
	if got.Date.Gregorian != "2024年1月1日星期一" {
		t.Errorf("gregorian = %q", got.Date.Gregorian)
	}
}

func TestHandler_GetFortune_DefaultsToToday(t *testing.T) {
	env := newTestEnv(t, nil, nil, nil)

	w := env.do("GET", "/fortune", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got almanac.DailyFortune
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Fortune.Score < 1 || got.Fortune.Score > 5 {
		t.Errorf("score = %d, want 1..5", got.Fortune.Score)
	}
}

func TestHandler_DateRoutes_InvalidDate(t *testing.T) {
	env := newTestEnv(t, nil, nil, nil)
	for _, target := range []string{
		"/fortune?date=2024-13-01",
		"/fortune/detail?date=yesterday",
		"/synthetic-weather?date=2023-02-29",
	} {
		t.Run(target, func(t *testing.T) {
			w := env.do("GET", target, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			code, reqID := decodeError(t, w)
			if code != "INVALID_DATE" {
				t.Errorf("code = %q, want INVALID_DATE", code)
			}
			if reqID == "" || reqID != w.Header().Get("X-Correlation-ID") {
				t.Errorf("requestId = %q, want correlation ID %q", reqID, w.Header().Get("X-Correlation-ID"))
			}
		})
	}
}

func TestHandler_GetFortuneDetail(t *testing.T) {
	env := newTestEnv(t, nil, nil, nil)

	w := env.do("GET", "/fortune/detail?date=2024-01-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got almanac.DetailedFortune
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Aspects) != 4 || len(got.TimeSlots) != 12 {
		t.Fatalf("aspects=%d slots=%d, want 4/12", len(got.Aspects), len(got.TimeSlots))
	}
	if got.Aspects[0].Name != "事业运" || got.Aspects[0].Score != 4 {
		t.Errorf("aspect[0] = %+v", got.Aspects[0])
	}
}

func TestHandler_GetSyntheticWeather(t *testing.T) {
	env := newTestEnv(t, nil, nil, nil)

	w := env.do("GET", "/synthetic-weather?date=2024-07-15", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got models.WeatherSnapshot
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	d := almanac.Date{Year: 2024, Month: time.July, Day: 15}
	if got != weather.Synthetic(d) {
		t.Errorf("snapshot = %+v, want %+v", got, weather.Synthetic(d))
	}
}

func TestHandler_GetWeather(t *testing.T) {
	env := newTestEnv(t, nil, nil, nil)

	w := env.do("GET", "/weather/Shanghai", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got models.WeatherSnapshot
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Location != "Shanghai" || got.Source != models.SourceLive {
		t.Errorf("snapshot = %+v", got)
	}
	if env.client.lastLocation() != "Shanghai" {
		t.Errorf("client location = %q", env.client.lastLocation())
	}
}

func TestHandler_GetWeather_DefaultLocation(t *testing.T) {
	env := newTestEnv(t, nil, nil, nil)

	w := env.do("GET", "/weather", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if env.client.lastLocation() != "Beijing" {
		t.Errorf("client location = %q, want Beijing", env.client.lastLocation())
	}
}

func TestHandler_GetWeather_InvalidLocation(t *testing.T) {
	env := newTestEnv(t, nil, nil, nil)

	for _, target := range []string{"/weather/%20%20", "/weather/sea%26ttle", "/weather/" + strings.Repeat("a", 101)} {
		t.Run(target, func(t *testing.T) {
			w := env.do("GET", target, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if code, _ := decodeError(t, w); code != "INVALID_LOCATION" {
				t.Errorf("code = %q, want INVALID_LOCATION", code)
			}
		})
	}
	if len(env.client.locations) != 0 {
		t.Errorf("client called %d times for invalid locations", len(env.client.locations))
	}
}

func TestHandler_Today_AndRefresh(t *testing.T) {
	env := newTestEnv(t, nil, nil, nil)

	w := env.do("GET", "/today", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /today status = %d", w.Code)
	}
	var board refresh.Board
	if err := json.NewDecoder(w.Body).Decode(&board); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if board.Weather.Source != models.SourceSynthetic {
		t.Errorf("initial board weather source = %q, want synthetic", board.Weather.Source)
	}

	w = env.do("POST", "/today/refresh", "")
	if w.Code != http.StatusOK {
		t.Fatalf("POST /today/refresh status = %d", w.Code)
	}
	board = refresh.Board{}
	if err := json.NewDecoder(w.Body).Decode(&board); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if board.Weather.Source != models.SourceLive || board.Weather.Location != "Beijing" {
		t.Errorf("refreshed weather = %+v, want live Beijing", board.Weather)
	}

	if w := env.do("GET", "/today/refresh", ""); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /today/refresh status = %d, want 405", w.Code)
	}
}

func TestHandler_PostTodayRefresh_IgnoresClientCancellation(t *testing.T) {
	env := newTestEnv(t, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest("POST", "/today/refresh", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	env.handler.PostTodayRefresh(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := env.handler.board.Current().Weather.Source; got != models.SourceLive {
		t.Errorf("stored board weather source = %q, want live", got)
	}
}

func TestHandler_Settings_GetDefaultsThenPut(t *testing.T) {
	env := newTestEnv(t, nil, nil, nil)

	w := env.do("GET", "/settings", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	var got settings.Settings
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != settings.Defaults() {
		t.Errorf("GET = %+v, want defaults", got)
	}

	w = env.do("PUT", "/settings", `{"theme":"dark","notificationTime":"08:00"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body=%s", w.Code, w.Body.String())
	}

	w = env.do("GET", "/settings", "")
	got = settings.Settings{}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := settings.Settings{NotificationsEnabled: true, NotificationTime: "08:00", Theme: settings.ThemeDark}
	if got != want {
		t.Errorf("after PUT = %+v, want %+v", got, want)
	}
}

func TestHandler_PutSettings_Invalid(t *testing.T) {
	env := newTestEnv(t, nil, nil, nil)
	for name, body := range map[string]string{
		"bad time":      `{"notificationTime":"06:30"}`,
		"bad theme":     `{"theme":"sepia"}`,
		"unknown field": `{"volume":11}`,
		"not json":      `notifications=on`,
	} {
		t.Run(name, func(t *testing.T) {
			w := env.do("PUT", "/settings", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if code, _ := decodeError(t, w); code != "INVALID_SETTINGS" {
				t.Errorf("code = %q, want INVALID_SETTINGS", code)
			}
		})
	}
}

func TestHandler_Settings_StoreUnavailable(t *testing.T) {
	down := errors.New("connection refused")
	tests := []struct {
		name   string
		store  *failingStore
		method string
		body   string
	}{
		{"load fails on GET", &failingStore{loadErr: down}, "GET", ""},
		{"load fails on PUT", &failingStore{loadErr: down}, "PUT", `{"theme":"light"}`},
		{"save fails", &failingStore{saveErr: down}, "PUT", `{"theme":"light"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.store, nil, nil)
			w := env.do(tt.method, "/settings", tt.body)
			if w.Code != http.StatusServiceUnavailable {
				t.Fatalf("status = %d, want 503", w.Code)
			}
			if code, _ := decodeError(t, w); code != "SETTINGS_UNAVAILABLE" {
				t.Errorf("code = %q, want SETTINGS_UNAVAILABLE", code)
			}
		})
	}
}

func healthStatus(t *testing.T, w *httptest.ResponseRecorder) (string, map[string]string) {
	t.Helper()
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	return body.Status, body.Checks
}

func TestHandler_GetHealth(t *testing.T) {
	env := newTestEnv(t, nil, &HealthConfig{DegradedWindow: time.Minute, DegradedFallbackPct: 50}, nil)

	w := env.do("GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	status, checks := healthStatus(t, w)
	if status != "healthy" {
		t.Errorf("status = %q, want healthy", status)
	}
	if checks["weatherApi"] != "healthy" || checks["settingsStore"] != "healthy" {
		t.Errorf("checks = %v", checks)
	}
}

func TestHandler_GetHealth_Uptime(t *testing.T) {
	env := newTestEnv(t, nil, &HealthConfig{StartTime: time.Now().Add(-90 * time.Second)}, nil)

	w := env.do("GET", "/health", "")
	var body struct {
		UptimeSeconds *int64 `json:"uptimeSeconds"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UptimeSeconds == nil || *body.UptimeSeconds < 90 {
		t.Errorf("uptimeSeconds = %v, want >= 90", body.UptimeSeconds)
	}

	env = newTestEnv(t, nil, &HealthConfig{}, nil)
	w = env.do("GET", "/health", "")
	if strings.Contains(w.Body.String(), "uptimeSeconds") {
		t.Errorf("uptimeSeconds reported without a start time: %s", w.Body.String())
	}
}

func TestHandler_GetHealth_ShuttingDown(t *testing.T) {
	env := newTestEnv(t, nil, &HealthConfig{}, nil)
	lifecycle.SetShuttingDown(true)

	w := env.do("GET", "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if status, _ := healthStatus(t, w); status != "shutting-down" {
		t.Errorf("status = %q, want shutting-down", status)
	}
}

func TestHandler_GetHealth_Overloaded(t *testing.T) {
	env := newTestEnv(t, nil, &HealthConfig{
		OverloadWindow:       time.Second,
		OverloadThresholdPct: 50,
		RateLimitRPS:         10,
		DegradedWindow:       time.Minute,
		DegradedFallbackPct:  1,
	}, nil)
	// Threshold is 10 * 1s * 50% = 5; six denials exceed it and also outrank degraded.
	for i := 0; i < 6; i++ {
		traffic.RecordDenied()
	}
	traffic.RecordFallback()

	w := env.do("GET", "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if status, _ := healthStatus(t, w); status != "overloaded" {
		t.Errorf("status = %q, want overloaded", status)
	}
}

func TestHandler_GetHealth_DegradedFallbackRate(t *testing.T) {
	tests := []struct {
		name       string
		live       int
		fallback   int
		wantStatus string
		wantCode   int
	}{
		{"below threshold", 3, 1, "healthy", http.StatusOK},
		{"at threshold", 1, 1, "degraded", http.StatusServiceUnavailable},
		{"above threshold", 0, 2, "degraded", http.StatusServiceUnavailable},
		{"no lookups", 0, 0, "healthy", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil, &HealthConfig{DegradedWindow: time.Minute, DegradedFallbackPct: 50}, nil)
			for i := 0; i < tt.live; i++ {
				traffic.RecordLive()
			}
			for i := 0; i < tt.fallback; i++ {
				traffic.RecordFallback()
			}
			w := env.do("GET", "/health", "")
			if w.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", w.Code, tt.wantCode)
			}
			status, checks := healthStatus(t, w)
			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if tt.wantStatus == "degraded" && checks["weatherApi"] != "unhealthy" {
				t.Errorf("weatherApi check = %q, want unhealthy", checks["weatherApi"])
			}
		})
	}
}

func TestHandler_GetHealth_SettingsStoreCheck(t *testing.T) {
	env := newTestEnv(t, &failingStore{pingErr: errors.New("down")}, nil, nil)

	w := env.do("GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (store check is informational)", w.Code)
	}
	if _, checks := healthStatus(t, w); checks["settingsStore"] != "unhealthy" {
		t.Errorf("settingsStore = %q, want unhealthy", checks["settingsStore"])
	}
}

func TestHandler_GetHealth_LogsTransition(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	env := newTestEnv(t, nil, &HealthConfig{DegradedWindow: time.Minute, DegradedFallbackPct: 50}, zap.New(core))

	traffic.RecordLive()
	traffic.RecordLive()
	if w := env.do("GET", "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("first GetHealth status = %d, want 200", w.Code)
	}
	if n := len(logs.FilterMessage("health status transition").All()); n != 0 {
		t.Fatalf("first call should not log transition; got %d", n)
	}

	traffic.RecordFallback()
	traffic.RecordFallback()
	if w := env.do("GET", "/health", ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("second GetHealth status = %d, want 503", w.Code)
	}

	entries := logs.FilterMessage("health status transition").All()
	if len(entries) != 1 {
		t.Fatalf("want 1 transition log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["previous_status"] != "healthy" || fields["current_status"] != "degraded" || fields["reason"] != "fallback_rate_breach" {
		t.Errorf("transition fields = %v", fields)
	}

	env.do("GET", "/health", "")
	if n := len(logs.FilterMessage("health status transition").All()); n != 1 {
		t.Errorf("unchanged status should not log; transitions = %d, want 1", n)
	}
}

func TestHandler_Metrics(t *testing.T) {
	env := newTestEnv(t, nil, nil, nil)
	env.do("GET", "/fortune?date=2024-01-01", "")

	w := env.do("GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "fortunesGeneratedTotal") {
		t.Error("metrics output missing fortunesGeneratedTotal")
	}
}
