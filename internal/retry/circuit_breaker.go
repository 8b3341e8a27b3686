package retry

import (
	"fmt"
	"sync"
	"time"

	werr "wikibot/internal/errors"
)

// ── Circuit breaker state ────────────────────────────────────────────

// State represents the circuit breaker's operational state.
type State int

const (
	// StateClosed is normal operation; requests pass through.
	StateClosed State = iota
	// StateOpen means the source is failing; requests are rejected.
	StateOpen
	// StateHalfOpen lets a single probe request test recovery.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ── Configuration ────────────────────────────────────────────────────

// CircuitBreakerConfig configures a [CircuitBreaker].
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures before opening
	// the circuit (default 3).
	MaxFailures int
	// ResetTimeout is how long the circuit stays open before a probe
	// is allowed through (default 30s).
	ResetTimeout time.Duration
	// OnStateChange runs under the lock on every transition.
	OnStateChange func(from, to State)
}

// ── CircuitBreaker ───────────────────────────────────────────────────

// CircuitBreaker stops the bot from hammering an article source that
// keeps failing: once open, commands fall back to the help text
// immediately instead of waiting out a full retry budget each time.
type CircuitBreaker struct {
	mu            sync.Mutex
	state         State
	failures      int
	maxFailures   int
	resetTimeout  time.Duration
	openedAt      time.Time
	onStateChange func(from, to State)
	now           func() time.Time
}

// NewCircuitBreaker creates a circuit breaker with the given config.
// A nil config selects the defaults.
func NewCircuitBreaker(cfg *CircuitBreakerConfig) *CircuitBreaker {
	if cfg == nil {
		cfg = &CircuitBreakerConfig{}
	}
	cb := &CircuitBreaker{
		state:         StateClosed,
		maxFailures:   cfg.MaxFailures,
		resetTimeout:  cfg.ResetTimeout,
		onStateChange: cfg.OnStateChange,
		now:           time.Now,
	}
	if cb.maxFailures <= 0 {
		cb.maxFailures = 3
	}
	if cb.resetTimeout <= 0 {
		cb.resetTimeout = 30 * time.Second
	}
	return cb
}

// Execute runs fn through the circuit breaker.  When the circuit is
// open, fn is not called and an error wrapping ErrCircuitOpen is
// returned immediately.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}
	err := fn()
	cb.afterRequest(err)
	return err
}

// CurrentState returns the current circuit breaker state.
func (cb *CircuitBreaker) CurrentState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the current consecutive failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// ── internal ─────────────────────────────────────────────────────────

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return nil
	}
	elapsed := cb.now().Sub(cb.openedAt)
	if elapsed >= cb.resetTimeout {
		cb.transition(StateHalfOpen)
		return nil
	}
	return fmt.Errorf("%w: %d consecutive failures, retry in %v",
		werr.ErrCircuitOpen, cb.failures, (cb.resetTimeout - elapsed).Truncate(time.Second))
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failures = 0
		cb.transition(StateClosed)
		return
	}

	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
		cb.openedAt = cb.now()
		cb.transition(StateOpen)
	}
}

func (cb *CircuitBreaker) transition(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	if cb.onStateChange != nil {
		cb.onStateChange(from, to)
	}
}
