package mqtt

import (
	"testing"
	"time"
)

func TestLatch_WaitReturnsSetBit(t *testing.T) {
	l := newLatch()

	go func() {
		time.Sleep(10 * time.Millisecond)
		l.set(BitConnected)
	}()

	bits, ok := l.wait(anyOutcome, time.Second)
	if !ok {
		t.Fatal("wait() timed out, want BitConnected")
	}
	if bits&BitConnected == 0 {
		t.Errorf("wait() bits = %b, want BitConnected set", bits)
	}
}

func TestLatch_WaitImmediateWhenAlreadySet(t *testing.T) {
	l := newLatch()
	l.set(BitError)

	bits, ok := l.wait(anyOutcome, 50*time.Millisecond)
	if !ok || bits&BitError == 0 {
		t.Errorf("wait() = (%b, %v), want BitError set", bits, ok)
	}
}

func TestLatch_WaitTimeout(t *testing.T) {
	l := newLatch()

	start := time.Now()
	bits, ok := l.wait(anyOutcome, 50*time.Millisecond)
	if ok {
		t.Errorf("wait() ok = true with bits %b, want timeout", bits)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("wait() returned after %v, want at least 50ms", elapsed)
	}
}

func TestLatch_SetIdempotent(t *testing.T) {
	l := newLatch()

	l.set(BitConnected)
	l.set(BitConnected) // must not wake or panic

	if got := l.snapshot(); got != BitConnected {
		t.Errorf("snapshot() = %b, want %b", got, BitConnected)
	}

	// The waiter unblocks exactly once regardless of duplicates.
	if _, ok := l.wait(BitConnected, time.Second); !ok {
		t.Error("wait() timed out after duplicate set")
	}
}

func TestLatch_ClearDoesNotWake(t *testing.T) {
	l := newLatch()
	l.set(BitConnected)
	l.clear(BitConnected)

	if bits, ok := l.wait(anyOutcome, 50*time.Millisecond); ok {
		t.Errorf("wait() unblocked with bits %b after clear", bits)
	}
}

func TestLatch_ComplementaryTransition(t *testing.T) {
	l := newLatch()

	// Connected followed by a later disconnect leaves only the
	// disconnected bit up.
	l.set(BitConnected)
	l.clear(BitDisconnected)
	l.set(BitDisconnected)
	l.clear(BitConnected)

	if got := l.snapshot(); got != BitDisconnected {
		t.Errorf("snapshot() = %b, want only BitDisconnected", got)
	}
}

func TestLatch_WaitMaskIgnoresOtherBits(t *testing.T) {
	l := newLatch()
	l.set(BitError)

	if bits, ok := l.wait(BitConnected, 50*time.Millisecond); ok {
		t.Errorf("wait(BitConnected) unblocked with bits %b", bits)
	}
}

func TestLatch_ConcurrentSetters(t *testing.T) {
	l := newLatch()

	for _, b := range []Bit{BitConnected, BitDisconnected, BitError} {
		go func(b Bit) { l.set(b) }(b)
	}

	bits, ok := l.wait(anyOutcome, time.Second)
	if !ok || bits == 0 {
		t.Errorf("wait() = (%b, %v), want at least one bit", bits, ok)
	}
}
