// Package telemetry drives the station's observation pipeline.
//
// A Source produces observations on a fixed interval. Each observation
// is archived in SQLite, run through the trend analyzers, published to
// the wxcore MQTT topic hierarchy as JSON, and optionally written to
// InfluxDB for long-term time-series storage.
//
// # Topic hierarchy
//
//	wxcore/observations/{station_id}   sampled readings
//	wxcore/trends/{station_id}/{metric} scalar trend classifications
//	wxcore/tendency/{station_id}       barometric pressure tendency
//	wxcore/status/{station_id}         retained availability status
//
// # Usage
//
//	pub, err := telemetry.NewPublisher(cfg.Station.ID, conn.Handle(), repo, influx,
//	    cfg.Telemetry.TrendSamples, cfg.Telemetry.TendencySamples, logger)
//	if err != nil {
//	    return err
//	}
//	err = telemetry.Run(ctx, pub, telemetry.NewSimulatedSource(cfg.Station.ID, 1), interval)
package telemetry
