// Package influxdb provides time-series storage for weather telemetry.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched observation writes, and health monitoring.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "wxcore",
//	    Bucket: "weather",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteObservation("roof-1", 1013.2, 17.4, 62.0, time.Now())
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking; batch errors are delivered via the
// SetOnError callback. Connection and health check errors are returned
// directly.
package influxdb
