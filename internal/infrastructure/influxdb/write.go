package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteObservation writes a sampled weather observation.
//
// This is the primary method for recording station telemetry. The write
// is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - stationID: Originating station (e.g., "roof-1")
//   - pressureHPa: Barometric pressure in hectopascals
//   - temperatureC: Air temperature in degrees Celsius
//   - humidityPct: Relative humidity, 0-100
//   - observedAt: When the sample was taken
func (c *Client) WriteObservation(stationID string, pressureHPa, temperatureC, humidityPct float64, observedAt time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"observations",
		map[string]string{
			"station_id": stationID,
		},
		map[string]interface{}{
			"pressure_hpa":  pressureHPa,
			"temperature_c": temperatureC,
			"humidity_pct":  humidityPct,
		},
		observedAt,
	)

	c.writeAPI.WritePoint(point)
}

// WriteTrend writes a trend classification for one metric.
//
// Used for recording the outcome of sliding-window trend analysis
// alongside the raw observations it was derived from.
//
// Parameters:
//   - stationID: Originating station
//   - metric: Analysed metric (e.g., "temperature_c", "pressure_hpa")
//   - code: Trend classification (e.g., "rising", "steady", "falling")
//   - change: Net change over the window, in the metric's unit
func (c *Client) WriteTrend(stationID string, metric string, code string, change float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"trends",
		map[string]string{
			"station_id": stationID,
			"metric":     metric,
		},
		map[string]interface{}{
			"code":   code,
			"change": change,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
