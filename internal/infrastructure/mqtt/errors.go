package mqtt

import "errors"

// Domain-specific errors for the connection lifecycle.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotStarted is returned by Stop without a prior successful Start.
	ErrNotStarted = errors.New("mqtt: connector not started")

	// ErrAlreadyStarted is returned when a start/stop cycle is already
	// in progress. The connector supports one cycle at a time.
	ErrAlreadyStarted = errors.New("mqtt: connector already started")

	// ErrConnectionRefused is returned when the broker actively refused
	// or dropped the connection attempt.
	ErrConnectionRefused = errors.New("mqtt: connection refused by broker")

	// ErrConnectionFailed is returned when the connection attempt failed
	// for any other reason. The transport-level detail is logged by the
	// event handler; this boundary deliberately stays generic.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrTimeout is returned when no connection outcome arrived within
	// the configured connect timeout.
	ErrTimeout = errors.New("mqtt: timed out waiting for connection outcome")

	// ErrUnexpectedEvent is returned when the outcome wait unblocked
	// with none of the outcome bits raised.
	ErrUnexpectedEvent = errors.New("mqtt: unexpected connection outcome")
)
