package refresh

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/programmer-almanac/internal/almanac"
	"github.com/kjstillabower/programmer-almanac/internal/lifecycle"
	"github.com/kjstillabower/programmer-almanac/internal/models"
	"github.com/kjstillabower/programmer-almanac/internal/observability"
)

// Refresh triggers, used as metric labels.
const (
	TriggerStartup  = "startup"
	TriggerManual   = "manual"
	TriggerMidnight = "midnight"
)

// Source is implemented by the service layer. Kept as an interface so the
// refresher does not depend on the service package.
type Source interface {
	Location() *time.Location
	DefaultLocation() string
	Today() almanac.Date
	Daily(ctx context.Context, d almanac.Date) almanac.DailyFortune
	SyntheticWeather(ctx context.Context, d almanac.Date) models.WeatherSnapshot
	Weather(ctx context.Context, location string) models.WeatherSnapshot
}

// Board is the "today" screen: the fortune card plus the weather card.
type Board struct {
	Date        almanac.Date           `json:"date"`
	Fortune     almanac.DailyFortune   `json:"fortune"`
	Weather     models.WeatherSnapshot `json:"weather"`
	RefreshedAt time.Time              `json:"refreshedAt"`
}

// Refresher owns the current Board and rebuilds it on demand and at every
// local midnight.
type Refresher struct {
	source Source
	logger *zap.Logger

	mu    sync.RWMutex
	board Board

	// refreshMu serializes Refresh so boards are swapped in start order.
	refreshMu sync.Mutex

	now       func() time.Time
	untilNext func(now time.Time) time.Duration
}

// NewRefresher builds the initial board from synthetic weather so it can be
// served before the first live fetch completes.
func NewRefresher(source Source, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Refresher{
		source: source,
		logger: logger,
		now:    time.Now,
	}
	r.untilNext = func(now time.Time) time.Duration {
		return lifecycle.UntilMidnight(now, r.source.Location())
	}

	ctx := context.Background()
	today := source.Today()
	r.board = Board{
		Date:        today,
		Fortune:     source.Daily(ctx, today),
		Weather:     source.SyntheticWeather(ctx, today),
		RefreshedAt: r.now(),
	}
	return r
}

// Current returns the board as of the last refresh.
func (r *Refresher) Current() Board {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.board
}

// Refresh rebuilds the board for today with live weather for the default
// location. The fortune and the weather lookup run concurrently. Concurrent
// calls run one after another.
func (r *Refresher) Refresh(ctx context.Context, trigger string) Board {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	start := time.Now()
	today := r.source.Today()

	var (
		wg      sync.WaitGroup
		fortune almanac.DailyFortune
		snap    models.WeatherSnapshot
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		fortune = r.source.Daily(ctx, today)
	}()
	go func() {
		defer wg.Done()
		snap = r.source.Weather(ctx, r.source.DefaultLocation())
	}()
	wg.Wait()

	board := Board{
		Date:        today,
		Fortune:     fortune,
		Weather:     snap,
		RefreshedAt: r.now(),
	}
	r.mu.Lock()
	r.board = board
	r.mu.Unlock()

	observability.BoardRefreshesTotal.WithLabelValues(trigger).Inc()
	r.logger.Info("board refreshed",
		zap.String("trigger", trigger),
		zap.String("date", today.String()),
		zap.String("weather_source", string(snap.Source)),
		zap.Float64("duration_seconds", time.Since(start).Seconds()))
	return board
}

// Run refreshes once at startup, then again at each local midnight until ctx
// is done. The delay is recomputed every cycle so DST shifts and clock
// adjustments are picked up.
func (r *Refresher) Run(ctx context.Context) error {
	r.Refresh(ctx, TriggerStartup)
	for {
		delay := r.untilNext(r.now())
		r.logger.Debug("next board refresh scheduled", zap.Duration("in", delay))
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			r.Refresh(ctx, TriggerMidnight)
		}
	}
}
