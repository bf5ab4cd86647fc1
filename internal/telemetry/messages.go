package telemetry

import "time"

// ObservationMessage is the JSON payload published for each sample.
type ObservationMessage struct {
	StationID    string    `json:"station_id"`
	ObservedAt   time.Time `json:"observed_at"`
	PressureHPa  float64   `json:"pressure_hpa"`
	TemperatureC float64   `json:"temperature_c"`
	HumidityPct  float64   `json:"humidity_pct"`
}

// TrendMessage is the JSON payload published for a trend classification.
type TrendMessage struct {
	StationID  string    `json:"station_id"`
	Metric     string    `json:"metric"`
	Code       string    `json:"code"`
	ObservedAt time.Time `json:"observed_at"`
}

// TendencyMessage is the JSON payload published for pressure tendency.
type TendencyMessage struct {
	StationID  string    `json:"station_id"`
	Code       string    `json:"code"`
	ChangeHPa  float64   `json:"change_hpa"`
	ObservedAt time.Time `json:"observed_at"`
}

// StatusMessage is the retained JSON payload published on the status topic.
type StatusMessage struct {
	StationID string    `json:"station_id"`
	Online    bool      `json:"online"`
	Since     time.Time `json:"since"`
}
