package weather

import "github.com/kjstillabower/programmer-almanac/internal/models"

// DefaultSnapshot is served when live weather cannot be fetched. Only the
// location varies: it echoes the name the caller asked for.
func DefaultSnapshot(location string) models.WeatherSnapshot {
	details := models.Details{
		HumidityPct: 60,
		WindKmh:     12,
		AQI:         55,
		UVIndex:     5,
	}
	fillDetails(&details)

	return models.WeatherSnapshot{
		Condition:       models.Condition{Kind: "sunny", DisplayName: "晴天", Icon: IconSun},
		Temperature:     models.Temperature{CurrentC: 22, HighC: 26, LowC: 18},
		Details:         details,
		DressSuggestion: DressWarm,
		Location:        location,
		Source:          models.SourceFallback,
	}
}
