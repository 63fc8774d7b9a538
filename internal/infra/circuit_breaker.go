package infra

import (
	"errors"
	"sync"
	"time"
)

// BreakerState is the state of a Breaker.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned by Do while the breaker is open.
var ErrBreakerOpen = errors.New("circuit breaker is open")

// Breaker stops calling a failing dependency after trip consecutive failures.
// After cooldown one probe is let through; recover successful probes close it
// again, a failed probe reopens it.
type Breaker struct {
	mu       sync.Mutex
	state    BreakerState
	failures int
	probes   int
	openedAt time.Time

	trip     int
	recover  int
	cooldown time.Duration
	now      func() time.Time
}

func NewBreaker(trip, recover int, cooldown time.Duration) *Breaker {
	if trip <= 0 {
		trip = 5
	}
	if recover <= 0 {
		recover = 1
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &Breaker{trip: trip, recover: recover, cooldown: cooldown, now: time.Now}
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Breaker) stateLocked() BreakerState {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cooldown {
		b.state = BreakerHalfOpen
		b.probes = 0
	}
	return b.state
}

// Do runs fn unless the breaker is open.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.stateLocked() == BreakerOpen {
		b.mu.Unlock()
		return ErrBreakerOpen
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failed()
		return err
	}
	b.succeeded()
	return nil
}

func (b *Breaker) failed() {
	b.failures++
	if b.state == BreakerHalfOpen || b.failures >= b.trip {
		b.state = BreakerOpen
		b.openedAt = b.now()
		b.failures = 0
	}
}

func (b *Breaker) succeeded() {
	if b.state == BreakerHalfOpen {
		b.probes++
		if b.probes < b.recover {
			return
		}
		b.state = BreakerClosed
	}
	b.failures = 0
}
