package weather

import (
	"strings"

	"github.com/kjstillabower/programmer-almanac/internal/models"
)

// Dress suggestions keyed by the rule that selected them.
const (
	DressHot   = "天气炎热，建议穿着轻薄透气的衣物，注意防晒"
	DressWarm  = "天气温暖，适合穿着舒适的春秋装"
	DressCool  = "天气凉爽，建议穿着长袖外套"
	DressCold  = "天气寒冷，注意保暖，建议穿着厚外套"
	DressRainy = "今日有雨，记得带伞，建议穿着防水外套"
	DressSnowy = "今日下雪，注意保暖防滑，穿着厚重衣物"
)

// DressSuggestion applies the rule list: rain, then snow, then temperature bands.
func DressSuggestion(tempC int, rainy, snowy bool) string {
	switch {
	case rainy:
		return DressRainy
	case snowy:
		return DressSnowy
	case tempC > 28:
		return DressHot
	case tempC > 20:
		return DressWarm
	case tempC > 10:
		return DressCool
	default:
		return DressCold
	}
}

// DressSuggestionForCondition drives DressSuggestion from free-text condition
// such as "Light rain shower".
func DressSuggestionForCondition(tempC int, condition string) string {
	lower := strings.ToLower(condition)
	return DressSuggestion(tempC, strings.Contains(lower, "rain"), strings.Contains(lower, "snow"))
}

type aqiTier struct {
	above int
	level models.AQILevel
	label string
	color string
}

// Checked top down; the last tier catches everything else.
var aqiTiers = []aqiTier{
	{150, models.AQISevere, "重度污染", "#EF4444"},
	{100, models.AQILightPollution, "轻度污染", "#F59E0B"},
	{50, models.AQIGood, "良", "#FBBF24"},
	{-1 << 31, models.AQIExcellent, "优", "#22C55E"},
}

// AQIInfo returns the tier, display label and colour for an AQI reading.
func AQIInfo(aqi int) (models.AQILevel, string, string) {
	for _, t := range aqiTiers {
		if aqi > t.above {
			return t.level, t.label, t.color
		}
	}
	last := aqiTiers[len(aqiTiers)-1]
	return last.level, last.label, last.color
}

// UVInfo returns the tier and display label for a UV index.
func UVInfo(uv int) (models.UVLevel, string) {
	switch {
	case uv > 7:
		return models.UVStrong, "强"
	case uv > 4:
		return models.UVModerate, "中等"
	default:
		return models.UVWeak, "弱"
	}
}

// fillDetails sets the derived AQI and UV fields from the raw readings.
func fillDetails(d *models.Details) {
	d.AQILevel, d.AQILabel, d.AQIColor = AQIInfo(d.AQI)
	d.UVLevel, d.UVLabel = UVInfo(d.UVIndex)
}
