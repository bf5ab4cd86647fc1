package mqtt

import (
	"errors"
	"net"

	"github.com/eclipse/paho.mqtt.golang/packets"
)

// EventKind identifies the kind of client event delivered to the
// connector's event handler.
type EventKind int

const (
	EventConnected EventKind = iota
	EventDisconnected
	EventSubscribed
	EventUnsubscribed
	EventPublished
	EventData
	EventError
)

// String returns the event kind name for logging.
func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventSubscribed:
		return "subscribed"
	case EventUnsubscribed:
		return "unsubscribed"
	case EventPublished:
		return "published"
	case EventData:
		return "data"
	case EventError:
		return "error"
	default:
		return "other"
	}
}

// ErrorKind sub-classifies error events. The classification is logged
// by the event handler; Start's return value stays generic.
type ErrorKind int

const (
	ErrorKindUnknown ErrorKind = iota
	ErrorKindTransport
	ErrorKindConnectionRefused
)

// String returns the error kind name for logging.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindTransport:
		return "transport"
	case ErrorKindConnectionRefused:
		return "connection_refused"
	default:
		return "unknown"
	}
}

// Event is the payload delivered by the client's event dispatch.
type Event struct {
	Kind      EventKind
	MessageID uint16
	Topic     string
	Payload   []byte
	ErrorKind ErrorKind
	Err       error
}

// handleEvent is the single event callback bridging paho's dispatch
// into the latch and the connected flag. It runs on paho's goroutines
// and is safe to invoke concurrently with a Start waiting on the
// latch. Events arriving outside a start/stop cycle (nil latch) still
// update the connected flag and are logged.
func (c *Connector) handleEvent(ev Event) {
	log := c.getLogger()
	lt := c.latchRef()

	switch ev.Kind {
	case EventConnected:
		log.Info("mqtt event: connected")
		c.setConnected(true)
		if lt != nil {
			lt.set(BitConnected)
			lt.clear(BitDisconnected)
		}

	case EventDisconnected:
		log.Warn("mqtt event: disconnected", "error", ev.Err)
		c.setConnected(false)
		if lt != nil {
			lt.set(BitDisconnected)
			lt.clear(BitConnected)
		}

	case EventSubscribed, EventUnsubscribed, EventPublished:
		log.Info("mqtt event", "kind", ev.Kind.String(), "msg_id", ev.MessageID)

	case EventData:
		log.Info("mqtt event: data", "topic", ev.Topic, "payload", string(ev.Payload))

	case EventError:
		log.Error("mqtt event: error",
			"error_kind", ev.ErrorKind.String(),
			"error", ev.Err,
		)
		if lt != nil {
			lt.set(BitError)
		}

	default:
		log.Warn("mqtt event: unhandled", "kind", int(ev.Kind))
	}
}

// connackRefusals are the CONNACK return codes for an active refusal
// by the broker.
var connackRefusals = []byte{
	packets.ErrRefusedBadProtocolVersion,
	packets.ErrRefusedIDRejected,
	packets.ErrRefusedServerUnavailable,
	packets.ErrRefusedBadUsernameOrPassword,
	packets.ErrRefusedNotAuthorised,
}

// classifyConnectError maps an initial connect failure to an ErrorKind.
// CONNACK refusals come through the connect token wrapped around the
// sentinel errors in packets.ConnErrors.
func classifyConnectError(err error) ErrorKind {
	for _, code := range connackRefusals {
		if refusal := packets.ConnErrors[code]; refusal != nil && errors.Is(err, refusal) {
			return ErrorKindConnectionRefused
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) || errors.Is(err, packets.ConnErrors[packets.ErrNetworkError]) {
		return ErrorKindTransport
	}

	return ErrorKindUnknown
}
