package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nbwx/wxcore/internal/infrastructure/logging"
	"github.com/nbwx/wxcore/internal/station"
	"github.com/nbwx/wxcore/internal/trend"
)

// Publish QoS and timeout for telemetry messages.
const (
	publishQoS     = 1
	publishTimeout = 5 * time.Second
)

// Broker publishes telemetry messages. Satisfied by paho's mqtt.Client.
type Broker interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
}

// Archive persists observations. Satisfied by station.SQLiteRepository.
type Archive interface {
	Save(ctx context.Context, obs *station.Observation) error
}

// TimeSeries records observations and trends in a time-series store.
// Satisfied by influxdb.Client.
type TimeSeries interface {
	WriteObservation(stationID string, pressureHPa, temperatureC, humidityPct float64, observedAt time.Time)
	WriteTrend(stationID string, metric string, code string, change float64)
}

// Publisher runs one observation through the telemetry pipeline:
// archive, trend analysis, MQTT publish, and time-series write.
//
// Not safe for concurrent use; drive it from a single goroutine (Run).
type Publisher struct {
	stationID string
	broker    Broker
	archive   Archive
	series    TimeSeries // nil when InfluxDB is disabled
	topics    Topics
	logger    *logging.Logger

	tempTrend     *trend.Scalar
	pressureTrend *trend.Scalar
	tendency      *trend.PressureTendency
}

// NewPublisher assembles the telemetry pipeline for one station.
//
// Parameters:
//   - stationID: Station identifier used in topics and tags
//   - broker: MQTT client for publishing
//   - archive: Observation archive, required
//   - series: Time-series store, nil to skip InfluxDB writes
//   - trendSamples: Sliding window size for scalar trend analysis
//   - tendencySamples: Sliding window size for pressure tendency
//   - logger: Structured logger
//
// Returns:
//   - *Publisher: Pipeline ready for Process calls
//   - error: If a window size is too small for analysis
func NewPublisher(stationID string, broker Broker, archive Archive, series TimeSeries,
	trendSamples, tendencySamples int, logger *logging.Logger) (*Publisher, error) {

	tempTrend, err := trend.NewScalar(trendSamples)
	if err != nil {
		return nil, fmt.Errorf("temperature trend: %w", err)
	}
	pressureTrend, err := trend.NewScalar(trendSamples)
	if err != nil {
		return nil, fmt.Errorf("pressure trend: %w", err)
	}
	tendency, err := trend.NewPressureTendency(tendencySamples)
	if err != nil {
		return nil, fmt.Errorf("pressure tendency: %w", err)
	}

	if logger == nil {
		logger = logging.Default()
	}

	return &Publisher{
		stationID:     stationID,
		broker:        broker,
		archive:       archive,
		series:        series,
		logger:        logger,
		tempTrend:     tempTrend,
		pressureTrend: pressureTrend,
		tendency:      tendency,
	}, nil
}

// Process runs one observation through the pipeline.
//
// The observation is archived first; an archive failure aborts the
// cycle so no telemetry is published for data that was not persisted.
// Trend windows still advance on publish failures, so a transient
// broker outage does not stall the analysis.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - obs: Observation to process
//
// Returns:
//   - error: nil on success, otherwise the first archive or publish error
func (p *Publisher) Process(ctx context.Context, obs station.Observation) error {
	if err := p.archive.Save(ctx, &obs); err != nil {
		return fmt.Errorf("archiving observation: %w", err)
	}

	tempCode := p.tempTrend.Analyze(obs.TemperatureC)
	pressureCode := p.pressureTrend.Analyze(obs.PressureHPa)
	tendencyCode, change := p.tendency.Analyze(obs.PressureHPa)

	var firstErr error

	err := p.publishJSON(p.topics.Observations(p.stationID), false, ObservationMessage{
		StationID:    obs.StationID,
		ObservedAt:   obs.ObservedAt,
		PressureHPa:  obs.PressureHPa,
		TemperatureC: obs.TemperatureC,
		HumidityPct:  obs.HumidityPct,
	})
	if err != nil {
		firstErr = err
	}

	if tempCode != trend.CodeUnknown {
		err := p.publishJSON(p.topics.Trend(p.stationID, "temperature_c"), false, TrendMessage{
			StationID:  obs.StationID,
			Metric:     "temperature_c",
			Code:       tempCode.String(),
			ObservedAt: obs.ObservedAt,
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if pressureCode != trend.CodeUnknown {
		err := p.publishJSON(p.topics.Trend(p.stationID, "pressure_hpa"), false, TrendMessage{
			StationID:  obs.StationID,
			Metric:     "pressure_hpa",
			Code:       pressureCode.String(),
			ObservedAt: obs.ObservedAt,
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if tendencyCode != trend.CodeUnknown {
		err := p.publishJSON(p.topics.Tendency(p.stationID), false, TendencyMessage{
			StationID:  obs.StationID,
			Code:       tendencyCode.String(),
			ChangeHPa:  change,
			ObservedAt: obs.ObservedAt,
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if p.series != nil {
		p.series.WriteObservation(obs.StationID, obs.PressureHPa, obs.TemperatureC, obs.HumidityPct, obs.ObservedAt)
		if tempCode != trend.CodeUnknown {
			p.series.WriteTrend(obs.StationID, "temperature_c", tempCode.String(), 0)
		}
		if tendencyCode != trend.CodeUnknown {
			p.series.WriteTrend(obs.StationID, "pressure_hpa", tendencyCode.String(), change)
		}
	}

	return firstErr
}

// PublishStatus publishes the retained station availability message.
func (p *Publisher) PublishStatus(online bool) error {
	return p.publishJSON(p.topics.Status(p.stationID), true, StatusMessage{
		StationID: p.stationID,
		Online:    online,
		Since:     time.Now().UTC(),
	})
}

// publishJSON marshals the payload and publishes it, waiting up to
// publishTimeout for broker acknowledgement.
func (p *Publisher) publishJSON(topic string, retained bool, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling payload for %s: %w", topic, err)
	}

	token := p.broker.Publish(topic, publishQoS, retained, data)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publishing to %s: timed out after %s", topic, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}

	return nil
}
