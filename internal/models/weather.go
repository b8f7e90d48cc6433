package models

// WeatherSnapshot is the weather card shown next to the day's fortune.
type WeatherSnapshot struct {
	Condition       Condition      `json:"weather"`
	Temperature     Temperature    `json:"temperature"`
	Details         Details        `json:"details"`
	DressSuggestion string         `json:"dressSuggestion"`
	Location        string         `json:"location"`
	Source          SnapshotSource `json:"source"`
}

// Condition describes the sky.
type Condition struct {
	Kind        string `json:"type"`
	DisplayName string `json:"name"`
	Icon        string `json:"icon"`
}

// Temperature values are whole degrees Celsius.
type Temperature struct {
	CurrentC int `json:"current"`
	HighC    int `json:"high"`
	LowC     int `json:"low"`
}

// Details holds the secondary readings.
type Details struct {
	HumidityPct int      `json:"humidity"`
	WindKmh     int      `json:"windSpeed"`
	AQI         int      `json:"aqi"`
	AQILevel    AQILevel `json:"aqiLevel"`
	AQILabel    string   `json:"aqiLabel"`
	AQIColor    string   `json:"aqiColor"`
	UVIndex     int      `json:"uvIndex"`
	UVLevel     UVLevel  `json:"uvLevel"`
	UVLabel     string   `json:"uvLabel"`
}

// AQILevel is the air-quality tier.
type AQILevel string

const (
	AQIExcellent      AQILevel = "excellent"
	AQIGood           AQILevel = "good"
	AQILightPollution AQILevel = "light_pollution"
	AQISevere         AQILevel = "severe"
)

// UVLevel is the ultraviolet exposure tier.
type UVLevel string

const (
	UVWeak     UVLevel = "weak"
	UVModerate UVLevel = "moderate"
	UVStrong   UVLevel = "strong"
)

// SnapshotSource records how a snapshot was produced.
type SnapshotSource string

const (
	SourceLive      SnapshotSource = "live"
	SourceFallback  SnapshotSource = "fallback"
	SourceSynthetic SnapshotSource = "synthetic"
)
