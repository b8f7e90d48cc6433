package weather

import (
	"strings"

	"github.com/kjstillabower/programmer-almanac/internal/models"
)

// Icons used on the weather card.
const (
	IconSun       = "☀️"
	IconPartCloud = "⛅"
	IconCloud     = "☁️"
	IconFog       = "🌫️"
	IconRain      = "🌧️"
	IconStorm     = "⛈️"
	IconSnow      = "❄️"
	defaultIcon   = IconCloud
)

// conditionRule maps condition text containing key to an icon and a display name.
type conditionRule struct {
	key  string
	icon string
	name string
}

// conditionRules is matched first to last with a case-sensitive substring test.
// Order matters: text like "Heavy rain" must not be captured by a shorter key
// placed earlier.
var conditionRules = []conditionRule{
	{"Sunny", IconSun, "晴天"},
	{"Clear", IconSun, "晴朗"},
	{"Partly cloudy", IconPartCloud, "多云"},
	{"Cloudy", IconCloud, "阴天"},
	{"Overcast", IconCloud, "阴天"},
	{"Mist", IconFog, "薄雾"},
	{"Fog", IconFog, "雾"},
	{"Light rain", IconRain, "小雨"},
	{"Moderate rain", IconRain, "中雨"},
	{"Heavy rain", IconStorm, "大雨"},
	{"Light snow", IconSnow, "小雪"},
	{"Moderate snow", IconSnow, "中雪"},
	{"Heavy snow", IconSnow, "大雪"},
	{"Thunderstorm", IconStorm, "雷暴"},
}

func matchCondition(condition string) (conditionRule, bool) {
	for _, r := range conditionRules {
		if strings.Contains(condition, r.key) {
			return r, true
		}
	}
	return conditionRule{}, false
}

// IconFor returns the icon of the first matching rule, or a cloud.
func IconFor(condition string) string {
	if r, ok := matchCondition(condition); ok {
		return r.icon
	}
	return defaultIcon
}

// DisplayNameFor returns the localized name of the first matching rule,
// or the condition text itself when nothing matches.
func DisplayNameFor(condition string) string {
	if r, ok := matchCondition(condition); ok {
		return r.name
	}
	return condition
}

// KindFor lower-cases the condition and joins words with hyphens: "Light rain" -> "light-rain".
func KindFor(condition string) string {
	return strings.Join(strings.Fields(strings.ToLower(condition)), "-")
}

// TranslateCondition builds the Condition block for live condition text.
func TranslateCondition(condition string) models.Condition {
	return models.Condition{
		Kind:        KindFor(condition),
		DisplayName: DisplayNameFor(condition),
		Icon:        IconFor(condition),
	}
}
