package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/programmer-almanac/internal/models"
	"github.com/kjstillabower/programmer-almanac/internal/observability"
	"github.com/kjstillabower/programmer-almanac/internal/traffic"
	"github.com/kjstillabower/programmer-almanac/internal/weather"
)

// DefaultLocation is looked up when the caller passes no location.
const DefaultLocation = "Beijing"

// DefaultAPIURL is the public wttr.in endpoint.
const DefaultAPIURL = "https://wttr.in"

// maxResponseBytes caps the j1 document read from upstream.
const maxResponseBytes = 2 << 20

// WeatherClient returns a best-effort snapshot for a location. It never fails:
// upstream problems degrade to the default snapshot.
type WeatherClient interface {
	Fetch(ctx context.Context, location string) models.WeatherSnapshot
}

var (
	ErrLocationNotFound  = errors.New("location not found")
	ErrUpstreamFailure   = errors.New("upstream failure")
	ErrRateLimited       = errors.New("rate limited")
	ErrMalformedResponse = errors.New("malformed response")
)

// WttrClient fetches current conditions from wttr.in's JSON (format=j1) API.
// Each Fetch is a single GET with no retry.
type WttrClient struct {
	apiURL  *url.URL
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
	aqi     func() int
}

// NewWttrClient validates apiURL and returns a client whose requests are bounded by timeout.
func NewWttrClient(apiURL string, timeout time.Duration, logger *zap.Logger) (*WttrClient, error) {
	if strings.TrimSpace(apiURL) == "" {
		apiURL = DefaultAPIURL
	}
	base, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid weather API URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid weather API URL %q: scheme must be http or https", apiURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid weather API URL %q: missing host", apiURL)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("weather API timeout must be positive, got %s", timeout)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WttrClient{
		apiURL:  base,
		timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		aqi:    randomAQI,
	}, nil
}

// randomAQI stands in for the air-quality reading wttr.in does not provide.
// Uniform in [50, 100) and different on every call.
func randomAQI() int {
	return 50 + rand.Intn(50)
}

type wttrValue struct {
	Value string `json:"value"`
}

type wttrResponse struct {
	CurrentCondition []struct {
		TempC         string      `json:"temp_C"`
		Humidity      string      `json:"humidity"`
		WindspeedKmph string      `json:"windspeedKmph"`
		UVIndex       string      `json:"uvIndex"`
		WeatherDesc   []wttrValue `json:"weatherDesc"`
	} `json:"current_condition"`
	Weather []struct {
		MaxTempC string `json:"maxtempC"`
		MinTempC string `json:"mintempC"`
	} `json:"weather"`
	NearestArea []struct {
		AreaName []wttrValue `json:"areaName"`
	} `json:"nearest_area"`
}

// Fetch returns live weather for location, or the default snapshot for
// location when the request, status or payload is unusable. A blank
// location means DefaultLocation.
func (c *WttrClient) Fetch(ctx context.Context, location string) models.WeatherSnapshot {
	location = strings.TrimSpace(location)
	if location == "" {
		location = DefaultLocation
	}
	observability.RecordWeatherQuery(location)
	logger := observability.LoggerFrom(ctx, c.logger)

	snapshot, err := c.callAPI(ctx, location)
	if err != nil {
		category := CategorizeError(err)
		traffic.RecordFallback()
		observability.WeatherFallbacksTotal.WithLabelValues(string(category)).Inc()
		logger.Warn("weather fetch failed, serving default snapshot",
			zap.String("location", location),
			zap.String("category", string(category)),
			zap.Error(err))
		return weather.DefaultSnapshot(location)
	}

	traffic.RecordLive()
	logger.Debug("weather fetched", zap.String("location", location), zap.String("resolved", snapshot.Location))
	return snapshot
}

func (c *WttrClient) callAPI(ctx context.Context, location string) (models.WeatherSnapshot, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, location)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		return models.WeatherSnapshot{}, fmt.Errorf("build request: %w", err)
	}

	if corrID := observability.CorrelationID(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		observability.WeatherAPIDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return models.WeatherSnapshot{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	status := statusLabel(resp.StatusCode)
	observability.WeatherAPICallsTotal.WithLabelValues(status).Inc()
	observability.WeatherAPIDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if err := handleErrorResponse(resp); err != nil {
		return models.WeatherSnapshot{}, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("read response body: %w", err)
	}

	var apiResp wttrResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: parse response: %v", ErrMalformedResponse, err)
	}

	return c.mapResponse(apiResp, location)
}

func (c *WttrClient) buildRequest(ctx context.Context, location string) (*http.Request, error) {
	u := *c.apiURL
	escaped := url.PathEscape(location)
	base := strings.TrimSuffix(u.EscapedPath(), "/")
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + location
	u.RawPath = base + "/" + escaped
	u.RawQuery = url.Values{"format": []string{"j1"}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func handleErrorResponse(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrLocationNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: HTTP %d", ErrUpstreamFailure, resp.StatusCode)
	}
	return nil
}

// mapResponse turns the j1 document into a snapshot. Every field the card
// needs is required; a missing entry or a non-numeric reading is an error.
func (c *WttrClient) mapResponse(apiResp wttrResponse, location string) (models.WeatherSnapshot, error) {
	if len(apiResp.CurrentCondition) == 0 {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: missing current_condition", ErrMalformedResponse)
	}
	if len(apiResp.Weather) == 0 {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: missing weather", ErrMalformedResponse)
	}
	if len(apiResp.NearestArea) == 0 || len(apiResp.NearestArea[0].AreaName) == 0 {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: missing nearest_area", ErrMalformedResponse)
	}
	current := apiResp.CurrentCondition[0]
	if len(current.WeatherDesc) == 0 {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: missing weatherDesc", ErrMalformedResponse)
	}
	today := apiResp.Weather[0]

	p := intParser{}
	temp := p.parse("temp_C", current.TempC)
	high := p.parse("maxtempC", today.MaxTempC)
	low := p.parse("mintempC", today.MinTempC)
	humidity := p.parse("humidity", current.Humidity)
	wind := p.parse("windspeedKmph", current.WindspeedKmph)
	uv := p.parse("uvIndex", current.UVIndex)
	if p.err != nil {
		return models.WeatherSnapshot{}, p.err
	}

	condition := current.WeatherDesc[0].Value
	resolved := strings.TrimSpace(apiResp.NearestArea[0].AreaName[0].Value)
	if resolved == "" {
		resolved = location
	}

	aqi := c.aqi()
	aqiLevel, aqiLabel, aqiColor := weather.AQIInfo(aqi)
	uvLevel, uvLabel := weather.UVInfo(uv)

	return models.WeatherSnapshot{
		Condition: weather.TranslateCondition(condition),
		Temperature: models.Temperature{
			CurrentC: temp,
			HighC:    high,
			LowC:     low,
		},
		Details: models.Details{
			HumidityPct: humidity,
			WindKmh:     wind,
			AQI:         aqi,
			AQILevel:    aqiLevel,
			AQILabel:    aqiLabel,
			AQIColor:    aqiColor,
			UVIndex:     uv,
			UVLevel:     uvLevel,
			UVLabel:     uvLabel,
		},
		DressSuggestion: weather.DressSuggestionForCondition(temp, condition),
		Location:        resolved,
		Source:          models.SourceLive,
	}, nil
}

// intParser keeps the first conversion error so a block of fields can be parsed in sequence.
type intParser struct {
	err error
}

func (p *intParser) parse(field, raw string) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.err = fmt.Errorf("%w: %s=%q is not an integer", ErrMalformedResponse, field, raw)
		return 0
	}
	return v
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
