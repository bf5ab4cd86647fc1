package telemetry

import (
	"context"
	"time"
)

// Run samples the source on the given interval and feeds each
// observation through the publisher until ctx is cancelled.
//
// One sample is taken immediately so the pipeline starts producing
// without waiting out the first interval. Sample and Process errors
// are logged and the loop continues; only cancellation stops it.
//
// Parameters:
//   - ctx: Cancelling this context stops the loop
//   - p: Assembled pipeline
//   - source: Observation source
//   - interval: Time between samples
//
// Returns:
//   - error: ctx.Err() once the loop stops
func Run(ctx context.Context, p *Publisher, source Source, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := p.PublishStatus(true); err != nil {
		p.logger.Warn("failed to publish online status", "error", err)
	}
	defer func() {
		if err := p.PublishStatus(false); err != nil {
			p.logger.Warn("failed to publish offline status", "error", err)
		}
	}()

	for {
		if err := sampleOnce(ctx, p, source); err != nil {
			p.logger.Error("telemetry cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// sampleOnce takes one observation and runs it through the pipeline.
func sampleOnce(ctx context.Context, p *Publisher, source Source) error {
	obs, err := source.Sample(ctx)
	if err != nil {
		return err
	}

	p.logger.Debug("sampled observation",
		"station_id", obs.StationID,
		"pressure_hpa", obs.PressureHPa,
		"temperature_c", obs.TemperatureC,
		"humidity_pct", obs.HumidityPct,
	)

	return p.Process(ctx, obs)
}
