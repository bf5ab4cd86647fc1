package mqtt

import (
	"errors"
	"net"
	"testing"

	"github.com/eclipse/paho.mqtt.golang/packets"

	"github.com/nbwx/wxcore/internal/infrastructure/config"
)

func testMQTTConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "wxcore-test",
		},
		QoS:            1,
		ConnectTimeout: 5,
	}
}

// newTestConnector returns a connector with a live latch, as if a
// Start were in progress.
func newTestConnector() *Connector {
	c := NewConnector(testMQTTConfig())
	c.mu.Lock()
	c.latch = newLatch()
	c.mu.Unlock()
	return c
}

func TestHandleEvent_Connected(t *testing.T) {
	c := newTestConnector()

	c.handleEvent(Event{Kind: EventConnected})

	if got := c.latchRef().snapshot(); got != BitConnected {
		t.Errorf("latch bits = %b, want only BitConnected", got)
	}
	if !c.IsConnected() {
		t.Error("IsConnected() = false after connected event")
	}
}

func TestHandleEvent_DisconnectedClearsConnected(t *testing.T) {
	c := newTestConnector()

	c.handleEvent(Event{Kind: EventConnected})
	c.handleEvent(Event{Kind: EventDisconnected, Err: errors.New("gone")})

	if got := c.latchRef().snapshot(); got != BitDisconnected {
		t.Errorf("latch bits = %b, want only BitDisconnected", got)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after disconnected event")
	}
}

func TestHandleEvent_Error(t *testing.T) {
	c := newTestConnector()

	c.handleEvent(Event{
		Kind:      EventError,
		ErrorKind: ErrorKindTransport,
		Err:       errors.New("broken pipe"),
	})

	if got := c.latchRef().snapshot(); got&BitError == 0 {
		t.Errorf("latch bits = %b, want BitError set", got)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after error event")
	}
}

func TestHandleEvent_LogOnlyKindsLeaveLatchAlone(t *testing.T) {
	c := newTestConnector()

	for _, kind := range []EventKind{EventSubscribed, EventUnsubscribed, EventPublished, EventData, EventKind(99)} {
		c.handleEvent(Event{Kind: kind, MessageID: 7, Topic: "wx/x", Payload: []byte("{}")})
	}

	if got := c.latchRef().snapshot(); got != 0 {
		t.Errorf("latch bits = %b after log-only events, want none", got)
	}
}

func TestHandleEvent_DuplicatesIdempotent(t *testing.T) {
	c := newTestConnector()

	c.handleEvent(Event{Kind: EventConnected})
	c.handleEvent(Event{Kind: EventConnected})

	if got := c.latchRef().snapshot(); got != BitConnected {
		t.Errorf("latch bits = %b, want only BitConnected", got)
	}
}

// Events after Stop released the latch still track the connected flag.
func TestHandleEvent_NoLatch(t *testing.T) {
	c := NewConnector(testMQTTConfig())

	c.handleEvent(Event{Kind: EventConnected})
	if !c.IsConnected() {
		t.Error("IsConnected() = false, want flag tracked without latch")
	}

	c.handleEvent(Event{Kind: EventDisconnected})
	if c.IsConnected() {
		t.Error("IsConnected() = true, want flag tracked without latch")
	}
}

func TestClassifyConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "connack refusal",
			err:  packets.ConnErrors[packets.ErrRefusedNotAuthorised],
			want: ErrorKindConnectionRefused,
		},
		{
			name: "wrapped connack refusal",
			err:  errors.Join(errors.New("connect"), packets.ConnErrors[packets.ErrRefusedBadUsernameOrPassword]),
			want: ErrorKindConnectionRefused,
		},
		{
			name: "network op error",
			err:  &net.OpError{Op: "dial", Err: errors.New("connection reset")},
			want: ErrorKindTransport,
		},
		{
			name: "anything else",
			err:  errors.New("mystery"),
			want: ErrorKindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyConnectError(tt.err); got != tt.want {
				t.Errorf("classifyConnectError() = %v, want %v", got, tt.want)
			}
		})
	}
}
