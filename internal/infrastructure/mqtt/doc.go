// Package mqtt provides the MQTT connection lifecycle for wxcore.
//
// The Connector is a thin wrapper around paho.mqtt.golang: it starts
// the client, blocks until a connection outcome is known, and stops
// the client. Protocol semantics, QoS handling and reconnection policy
// stay with the paho library; collaborators that need to publish reach
// the underlying client through Handle.
//
// # Synchronization
//
// paho reports connection outcomes through callbacks on its own
// goroutines. The Connector bridges those callbacks into a blocking
// Start call with a tri-state latch: the event handler raises one of
// the Connected, Disconnected or Error bits and Start waits for any of
// them, with a configurable timeout. When events race and several bits
// are up at once, the outcome is resolved in the fixed priority order
// Connected > Disconnected > Error.
//
// # Usage
//
//	conn := mqtt.NewConnector(cfg.MQTT)
//	conn.SetLogger(log)
//	if err := conn.Start(); err != nil {
//	    // errors.Is against ErrConnectionRefused, ErrConnectionFailed,
//	    // ErrTimeout
//	}
//	defer conn.Stop()
//
// Stop must not be called from the event handler's goroutine: it tears
// down the dispatch path the handler runs on.
package mqtt
