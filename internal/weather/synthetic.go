package weather

import (
	"time"

	"github.com/kjstillabower/programmer-almanac/internal/almanac"
	"github.com/kjstillabower/programmer-almanac/internal/models"
)

// SyntheticLocation is the placeholder location of generated snapshots.
const SyntheticLocation = "北京"

type syntheticKind struct {
	condition models.Condition
	rainy     bool
	snowy     bool
}

var syntheticKinds = []syntheticKind{
	{condition: models.Condition{Kind: "sunny", DisplayName: "晴天", Icon: IconSun}},
	{condition: models.Condition{Kind: "cloudy", DisplayName: "多云", Icon: IconPartCloud}},
	{condition: models.Condition{Kind: "overcast", DisplayName: "阴天", Icon: IconCloud}},
	{condition: models.Condition{Kind: "rainy", DisplayName: "小雨", Icon: IconRain}, rainy: true},
	{condition: models.Condition{Kind: "heavy-rain", DisplayName: "大雨", Icon: IconStorm}, rainy: true},
	{condition: models.Condition{Kind: "snowy", DisplayName: "下雪", Icon: IconSnow}, snowy: true},
}

// Synthetic derives a plausible snapshot from the month and day of d, with no
// network access. The year is deliberately ignored, so the same month and day
// look the same every year. The zero Date means today.
func Synthetic(d almanac.Date) models.WeatherSnapshot {
	if d.IsZero() {
		d = almanac.Today(nil)
	}
	month0 := int(d.Month - time.January)
	hash := d.Day + month0*31

	kind := syntheticKinds[hash%len(syntheticKinds)]

	current := seasonalBase(month0) + hash%10 - 5
	spread := hash%5 + 2

	uv := 2 + hash%5
	if kind.condition.Kind == "sunny" {
		uv = 7 + hash%4
	}

	details := models.Details{
		HumidityPct: 40 + hash%40,
		WindKmh:     5 + hash%20,
		AQI:         30 + hash%150,
		UVIndex:     uv,
	}
	fillDetails(&details)

	return models.WeatherSnapshot{
		Condition: kind.condition,
		Temperature: models.Temperature{
			CurrentC: current,
			HighC:    current + spread,
			LowC:     current - spread,
		},
		Details:         details,
		DressSuggestion: DressSuggestion(current, kind.rainy, kind.snowy),
		Location:        SyntheticLocation,
		Source:          models.SourceSynthetic,
	}
}

// seasonalBase returns the base temperature for a zero-based month.
func seasonalBase(month0 int) int {
	switch {
	case month0 >= 11 || month0 <= 1:
		return 5
	case month0 <= 4:
		return 15
	case month0 <= 7:
		return 30
	default:
		return 18
	}
}
