package mqtt

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/eclipse/paho.mqtt.golang/packets"
)

// stubToken implements pahomqtt.Token for tests.
type stubToken struct {
	err  error
	done chan struct{}
}

// newDoneToken returns a token that completed with err.
func newDoneToken(err error) *stubToken {
	t := &stubToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

// newPendingToken returns a token that never completes.
func newPendingToken() *stubToken {
	return &stubToken{done: make(chan struct{})}
}

func (t *stubToken) Wait() bool {
	<-t.done
	return true
}

func (t *stubToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *stubToken) Done() <-chan struct{} { return t.done }
func (t *stubToken) Error() error { return t.err }

// stubClient implements pahomqtt.Client for tests. Connect hands out
// the prepared token and signals connectCalled so tests know the
// connector is waiting on the latch.
type stubClient struct {
	connectToken  pahomqtt.Token
	connectCalled chan struct{}

	mu          sync.Mutex
	disconnects int
}

func newStubClient(token pahomqtt.Token) *stubClient {
	return &stubClient{
		connectToken:  token,
		connectCalled: make(chan struct{}, 4),
	}
}

func (s *stubClient) Connect() pahomqtt.Token {
	s.connectCalled <- struct{}{}
	return s.connectToken
}

func (s *stubClient) Disconnect(uint) {
	s.mu.Lock()
	s.disconnects++
	s.mu.Unlock()
}

func (s *stubClient) disconnectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnects
}

func (s *stubClient) IsConnected() bool      { return false }
func (s *stubClient) IsConnectionOpen() bool { return false }

func (s *stubClient) Publish(string, byte, bool, interface{}) pahomqtt.Token {
	return newDoneToken(nil)
}

func (s *stubClient) Subscribe(string, byte, pahomqtt.MessageHandler) pahomqtt.Token {
	return newDoneToken(nil)
}

func (s *stubClient) SubscribeMultiple(map[string]byte, pahomqtt.MessageHandler) pahomqtt.Token {
	return newDoneToken(nil)
}

func (s *stubClient) Unsubscribe(...string) pahomqtt.Token {
	return newDoneToken(nil)
}

func (s *stubClient) AddRoute(string, pahomqtt.MessageHandler) {}

func (s *stubClient) OptionsReader() pahomqtt.ClientOptionsReader {
	return pahomqtt.ClientOptionsReader{}
}

// startConnector runs Start in the background and blocks until the
// connector has begun its connect attempt (latch installed, waiting).
func startConnector(t *testing.T, c *Connector, stub *stubClient) <-chan error {
	t.Helper()

	c.newClient = func(*pahomqtt.ClientOptions) pahomqtt.Client { return stub }

	result := make(chan error, 1)
	go func() { result <- c.Start() }()

	select {
	case <-stub.connectCalled:
	case <-time.After(time.Second):
		t.Fatal("Start() never called Connect()")
	}
	return result
}

func waitErr(t *testing.T, result <-chan error) error {
	t.Helper()
	select {
	case err := <-result:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return")
		return nil
	}
}

func TestStart_Connected(t *testing.T) {
	c := NewConnector(testMQTTConfig())
	stub := newStubClient(newPendingToken())

	result := startConnector(t, c, stub)
	c.handleEvent(Event{Kind: EventConnected})

	if err := waitErr(t, result); err != nil {
		t.Fatalf("Start() error = %v, want nil", err)
	}
	if !c.IsConnected() {
		t.Error("IsConnected() = false after successful Start")
	}
	if c.Handle() == nil {
		t.Error("Handle() = nil after successful Start")
	}

	// The connected flag keeps tracking events after Start returned.
	c.handleEvent(Event{Kind: EventDisconnected, Err: errors.New("lost")})
	if c.IsConnected() {
		t.Error("IsConnected() = true after later disconnect event")
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if c.Handle() != nil {
		t.Error("Handle() != nil after Stop()")
	}
	if got := stub.disconnectCount(); got != 1 {
		t.Errorf("disconnect count = %d, want 1", got)
	}

	if err := c.Stop(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("second Stop() error = %v, want ErrNotStarted", err)
	}
}

func TestStart_ConnectionRefused(t *testing.T) {
	refusal := fmt.Errorf("connect: %w", packets.ConnErrors[packets.ErrRefusedNotAuthorised])
	c := NewConnector(testMQTTConfig())
	stub := newStubClient(newDoneToken(refusal))

	result := startConnector(t, c, stub)

	if err := waitErr(t, result); !errors.Is(err, ErrConnectionRefused) {
		t.Fatalf("Start() error = %v, want ErrConnectionRefused", err)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after refused Start")
	}
	if c.Handle() != nil {
		t.Error("Handle() != nil after failed Start, want teardown")
	}
}

func TestStart_TransportError(t *testing.T) {
	dialErr := &net.OpError{Op: "dial", Err: errors.New("connection reset")}
	c := NewConnector(testMQTTConfig())
	stub := newStubClient(newDoneToken(dialErr))

	result := startConnector(t, c, stub)

	if err := waitErr(t, result); !errors.Is(err, ErrConnectionFailed) {
		t.Fatalf("Start() error = %v, want ErrConnectionFailed", err)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after failed Start")
	}
}

func TestStart_Timeout(t *testing.T) {
	c := NewConnector(testMQTTConfig())
	c.connectTimeout = 50 * time.Millisecond
	stub := newStubClient(newPendingToken())

	result := startConnector(t, c, stub)

	if err := waitErr(t, result); !errors.Is(err, ErrTimeout) {
		t.Fatalf("Start() error = %v, want ErrTimeout", err)
	}
	if c.Handle() != nil {
		t.Error("Handle() != nil after timeout, want teardown")
	}

	// A failed Start must be retryable.
	result = startConnector(t, c, stub)
	c.handleEvent(Event{Kind: EventConnected})
	if err := waitErr(t, result); err != nil {
		t.Fatalf("retry Start() error = %v, want nil", err)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestStart_AlreadyStarted(t *testing.T) {
	c := NewConnector(testMQTTConfig())
	stub := newStubClient(newPendingToken())

	result := startConnector(t, c, stub)

	if err := c.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("concurrent Start() error = %v, want ErrAlreadyStarted", err)
	}

	c.handleEvent(Event{Kind: EventConnected})
	if err := waitErr(t, result); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := c.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Start() while started error = %v, want ErrAlreadyStarted", err)
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestStop_NotStarted(t *testing.T) {
	c := NewConnector(testMQTTConfig())

	if err := c.Stop(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Stop() error = %v, want ErrNotStarted", err)
	}
}

// A disconnect delivered before the connected event wins the cycle.
func TestStart_DisconnectedBeforeConnected(t *testing.T) {
	c := NewConnector(testMQTTConfig())
	stub := newStubClient(newPendingToken())

	result := startConnector(t, c, stub)
	c.handleEvent(Event{Kind: EventDisconnected, Err: errors.New("refused")})

	if err := waitErr(t, result); !errors.Is(err, ErrConnectionRefused) {
		t.Fatalf("Start() error = %v, want ErrConnectionRefused", err)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true, want false")
	}
}
