package mqtt

import (
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nbwx/wxcore/internal/infrastructure/config"
)

// Connector owns the MQTT connection lifecycle: one start/stop cycle
// at a time, a tri-state latch bridging paho's asynchronous callbacks
// into the blocking Start, and the process-visible connection signals
// (connected flag and client handle).
//
// Thread Safety:
//   - Start, Stop, IsConnected and Handle are safe for concurrent use.
//   - The event handler runs on paho's dispatch goroutines concurrently
//     with a Start waiting on the latch.
type Connector struct {
	cfg config.MQTTConfig

	// connectTimeout bounds the latch wait in Start. Zero waits
	// indefinitely.
	connectTimeout time.Duration

	// lifecycle guards against concurrent or nested start/stop cycles.
	lifecycleMu sync.Mutex
	starting    bool
	started     bool

	// latch and client exist only between Start and Stop's teardown.
	mu     sync.Mutex
	latch  *latch
	client pahomqtt.Client

	// connected tracks the last known connection state. Mutated by the
	// event handler and by Start's outcome mapping; Stop leaves it to
	// the handler.
	connected bool
	connMu    sync.RWMutex

	logger   Logger
	loggerMu sync.RWMutex

	// newClient builds the underlying paho client; replaced in tests.
	newClient func(*pahomqtt.ClientOptions) pahomqtt.Client
}

// Logger interface for logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// nopLogger discards everything; used until SetLogger is called.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// NewConnector creates a Connector for the given configuration.
// No connection is attempted until Start.
func NewConnector(cfg config.MQTTConfig) *Connector {
	return &Connector{
		cfg:            cfg,
		connectTimeout: cfg.GetConnectTimeout(),
		newClient:      pahomqtt.NewClient,
	}
}

// Start connects to the broker and blocks until a connection outcome
// is known.
//
// It creates the latch, builds the client from config, registers the
// event handlers, begins the asynchronous connect sequence, then waits
// for any of the three outcome bits with the configured timeout (zero
// waits indefinitely). When events race and several bits are up, the
// fixed priority order Connected > Disconnected > Error decides.
//
// Returns:
//   - nil: connected; IsConnected reads true.
//   - ErrAlreadyStarted: a cycle is already in progress.
//   - ErrConnectionRefused: the broker refused or dropped the attempt.
//   - ErrConnectionFailed: the attempt failed; detail was logged by the
//     event handler.
//   - ErrTimeout: no outcome within the connect timeout.
//   - ErrUnexpectedEvent: the wait unblocked with no outcome bit.
//
// Every failure tears the client down again, so a failed Start leaks
// neither the latch nor a half-started client and may be retried.
func (c *Connector) Start() error {
	c.lifecycleMu.Lock()
	if c.starting || c.started {
		c.lifecycleMu.Unlock()
		return ErrAlreadyStarted
	}
	c.starting = true
	c.lifecycleMu.Unlock()

	log := c.getLogger()

	lt := newLatch()
	opts := buildClientOptions(c.cfg)

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleEvent(Event{Kind: EventConnected})
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleEvent(Event{Kind: EventDisconnected, Err: err})
	})
	opts.SetDefaultPublishHandler(func(_ pahomqtt.Client, msg pahomqtt.Message) {
		c.handleEvent(Event{
			Kind:      EventData,
			MessageID: msg.MessageID(),
			Topic:     msg.Topic(),
			Payload:   msg.Payload(),
		})
	})

	client := c.newClient(opts)

	// Publish the latch and handle before connecting so the event path
	// can raise bits as soon as dispatch begins.
	c.mu.Lock()
	c.latch = lt
	c.client = client
	c.mu.Unlock()

	token := client.Connect()
	go c.watchConnectToken(token)

	bits, ok := lt.wait(anyOutcome, c.connectTimeout)

	var err error
	switch {
	case ok && bits&BitConnected != 0:
		c.setConnected(true)
		log.Info("connected to MQTT broker",
			"broker", fmt.Sprintf("%s:%d", c.cfg.Broker.Host, c.cfg.Broker.Port),
			"client_id", c.cfg.Broker.ClientID,
		)
	case ok && bits&BitDisconnected != 0:
		c.setConnected(false)
		log.Error("disconnected from MQTT broker")
		err = ErrConnectionRefused
	case ok && bits&BitError != 0:
		c.setConnected(false)
		log.Error("MQTT client error")
		err = ErrConnectionFailed
	case !ok && c.connectTimeout > 0:
		c.setConnected(false)
		log.Error("timed out waiting for MQTT connection outcome",
			"timeout", c.connectTimeout,
		)
		err = fmt.Errorf("%w after %v", ErrTimeout, c.connectTimeout)
	default:
		c.setConnected(false)
		log.Error("unexpected MQTT connection outcome", "bits", int(bits))
		err = ErrUnexpectedEvent
	}

	if err != nil {
		c.teardown()
	}

	c.lifecycleMu.Lock()
	c.starting = false
	c.started = err == nil
	c.lifecycleMu.Unlock()

	return err
}

// watchConnectToken turns an initial connect failure into events.
// paho reports CONNACK refusals and dial errors through the connect
// token rather than the connection-lost handler.
func (c *Connector) watchConnectToken(token pahomqtt.Token) {
	token.Wait()
	err := token.Error()
	if err == nil {
		return
	}

	kind := classifyConnectError(err)
	c.handleEvent(Event{Kind: EventError, ErrorKind: kind, Err: err})
	if kind == ErrorKindConnectionRefused {
		c.handleEvent(Event{Kind: EventDisconnected, Err: err})
	}
}

// Stop disconnects the client and releases the latch.
//
// Teardown is best effort: every step runs even if an earlier one
// fails, and collected failures are returned together. After Stop the
// handle is nil and a new Start may begin.
//
// Stop must not be called from the event handler's goroutine: it
// synchronously tears down the dispatch path the handler runs on.
//
// Returns:
//   - ErrNotStarted without a prior successful Start; calling Stop
//     twice in a row is a well-defined error, not undefined behaviour.
func (c *Connector) Stop() error {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	if !c.started {
		return ErrNotStarted
	}

	err := c.teardown()
	c.started = false

	c.getLogger().Info("MQTT connector stopped")
	return err
}

// teardown releases the client and latch. Dropping the latch reference
// first is what "unregisters" the event handler from the outcome wait:
// paho keeps its handlers, but a late callback finds no latch to raise
// bits on.
func (c *Connector) teardown() error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.latch = nil
	c.mu.Unlock()

	if client != nil {
		client.Disconnect(disconnectQuiesce)
	}

	return nil
}

// IsConnected returns the last known connection state. The flag is
// maintained by the event handler, so it keeps tracking broker events
// after Start returns.
func (c *Connector) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected
}

// Handle returns the underlying paho client, or nil outside a
// start/stop cycle. Ownership stays with the Connector: callers may
// publish and subscribe through the handle but must not disconnect or
// destroy it.
func (c *Connector) Handle() pahomqtt.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// SetLogger sets a logger for connection and event logging.
func (c *Connector) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	c.logger = logger
	c.loggerMu.Unlock()
}

func (c *Connector) getLogger() Logger {
	c.loggerMu.RLock()
	defer c.loggerMu.RUnlock()
	if c.logger == nil {
		return nopLogger{}
	}
	return c.logger
}

func (c *Connector) latchRef() *latch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latch
}

func (c *Connector) setConnected(v bool) {
	c.connMu.Lock()
	c.connected = v
	c.connMu.Unlock()
}
