package station

import "time"

// Observation is a single sampled reading from a weather station.
type Observation struct {
	// ID is the database row identifier, zero until persisted.
	ID int64 `json:"id,omitempty"`

	// StationID identifies the originating station.
	StationID string `json:"station_id"`

	// ObservedAt is when the sample was taken, UTC.
	ObservedAt time.Time `json:"observed_at"`

	// PressureHPa is barometric pressure in hectopascals.
	PressureHPa float64 `json:"pressure_hpa"`

	// TemperatureC is air temperature in degrees Celsius.
	TemperatureC float64 `json:"temperature_c"`

	// HumidityPct is relative humidity, 0-100.
	HumidityPct float64 `json:"humidity_pct"`
}
