// Package resilience provides reliability patterns for external service calls.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open and rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the externally visible breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// String returns the state name for logs and metrics.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	}
	return "unknown"
}

// Breaker implements a circuit breaker for protecting external calls.
// It tracks consecutive failures and opens the circuit when a threshold is
// reached, rejecting further calls until a timeout elapses; the first call
// after the timeout is a single recovery probe.
//
// Share one Breaker per external dependency, not per request, so failure
// history accumulates across calls.
type Breaker struct {
	mu          sync.Mutex
	stored      State
	failures    int
	maxFailures int
	timeout     time.Duration
	lastFailure time.Time
	now         func() time.Time // injectable for testing
}

// NewBreaker creates a circuit breaker that opens after maxFailures
// consecutive failures and stays open for the given timeout before allowing
// a half-open probe.
func NewBreaker(maxFailures int, timeout time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		timeout:     timeout,
		now:         time.Now,
	}
}

// State returns the effective state. A stored open state is reported as
// half-open once the timeout has elapsed since the last failure. Reading
// never mutates the breaker; the stored state only changes as a side effect
// of a completed Execute call.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.effective()
}

// Failures returns the current consecutive failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Execute runs fn if the effective state is closed or half-open, invoking it
// exactly once. It returns ErrCircuitOpen without calling fn when the circuit
// is open; otherwise fn's own error is returned unchanged. The breaker never
// retries and cannot cancel fn once started.
func (b *Breaker) Execute(fn func() error) error {
	b.mu.Lock()
	prior := b.effective()
	if prior == StateOpen {
		b.mu.Unlock()
		return ErrCircuitOpen
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.onFailure(prior)
		return err
	}

	b.onSuccess()
	return nil
}

// Do runs fn through the breaker and passes its result through unchanged.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var out T
	err := b.Execute(func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// effective must be called with b.mu held.
func (b *Breaker) effective() State {
	if b.stored == StateOpen && b.now().Sub(b.lastFailure) >= b.timeout {
		return StateHalfOpen
	}
	return b.stored
}

// onFailure must be called with b.mu held. prior is the effective state
// observed before fn ran: one failed half-open probe re-opens the circuit
// regardless of the threshold.
func (b *Breaker) onFailure(prior State) {
	b.failures++
	b.lastFailure = b.now()
	if prior == StateHalfOpen || b.failures >= b.maxFailures {
		b.stored = StateOpen
	}
}

// onSuccess must be called with b.mu held.
func (b *Breaker) onSuccess() {
	b.failures = 0
	b.stored = StateClosed
}
