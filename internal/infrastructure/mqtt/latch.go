package mqtt

import (
	"sync"
	"time"
)

// Bit identifies one terminal connection outcome on the latch.
type Bit uint8

// Outcome bits. Exactly one waiter (Start) blocks on these; the event
// handler raises them from paho's dispatch goroutines.
const (
	BitConnected Bit = 1 << iota
	BitDisconnected
	BitError
)

// anyOutcome is the mask Start waits on.
const anyOutcome = BitConnected | BitDisconnected | BitError

// latch is a one-shot-per-cycle synchronization primitive: a waiter
// blocks until any bit of a mask is raised by another goroutine. It is
// created fresh on every Start and released on Stop.
//
// Raising an already-raised bit is a no-op, so duplicate events never
// wake the waiter twice. Clearing a bit never wakes anyone.
type latch struct {
	mu      sync.Mutex
	bits    Bit
	changed chan struct{}
}

func newLatch() *latch {
	return &latch{changed: make(chan struct{})}
}

// set raises b, waking waiters only on an actual transition.
func (l *latch) set(b Bit) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.bits&b == b {
		return
	}
	l.bits |= b
	close(l.changed)
	l.changed = make(chan struct{})
}

// clear lowers b. Waiters are not woken; a cleared bit only matters
// the next time the state is read.
func (l *latch) clear(b Bit) {
	l.mu.Lock()
	l.bits &^= b
	l.mu.Unlock()
}

// snapshot returns the bits currently raised.
func (l *latch) snapshot() Bit {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bits
}

// wait blocks until any bit in mask is raised and returns the bits
// observed at that moment. A zero timeout waits indefinitely. On
// timeout the current bits are returned together with ok=false when
// none of the masked bits made it in time.
func (l *latch) wait(mask Bit, timeout time.Duration) (Bit, bool) {
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	for {
		l.mu.Lock()
		bits := l.bits
		ch := l.changed
		l.mu.Unlock()

		if bits&mask != 0 {
			return bits, true
		}

		select {
		case <-ch:
		case <-expired:
			l.mu.Lock()
			bits = l.bits
			l.mu.Unlock()
			return bits, bits&mask != 0
		}
	}
}
