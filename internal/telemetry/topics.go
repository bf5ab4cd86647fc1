package telemetry

import "fmt"

// Topic prefixes for the wxcore MQTT hierarchy.
//
// All telemetry topics use the flat scheme: wxcore/{category}/{station_id}
const (
	// TopicPrefix is the base for all wxcore topics.
	TopicPrefix = "wxcore"
)

// Topics provides builders for wxcore MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := telemetry.Topics{}
//	obsTopic := topics.Observations("roof-1")
//	// Returns: "wxcore/observations/roof-1"
type Topics struct{}

// Observations returns the topic for sampled observations from a station.
//
// Example: wxcore/observations/roof-1
func (Topics) Observations(stationID string) string {
	return fmt.Sprintf("%s/observations/%s", TopicPrefix, stationID)
}

// Trend returns the topic for trend classifications of one metric.
//
// Example: wxcore/trends/roof-1/temperature_c
func (Topics) Trend(stationID, metric string) string {
	return fmt.Sprintf("%s/trends/%s/%s", TopicPrefix, stationID, metric)
}

// Tendency returns the topic for barometric pressure tendency.
//
// Example: wxcore/tendency/roof-1
func (Topics) Tendency(stationID string) string {
	return fmt.Sprintf("%s/tendency/%s", TopicPrefix, stationID)
}

// Status returns the topic for station availability status.
//
// Example: wxcore/status/roof-1
func (Topics) Status(stationID string) string {
	return fmt.Sprintf("%s/status/%s", TopicPrefix, stationID)
}
