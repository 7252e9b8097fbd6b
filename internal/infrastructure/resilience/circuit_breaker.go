package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrCircuitOpen is returned when the breaker rejects a call
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// String returns the state name
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

// BreakerConfig controls a CircuitBreaker
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the breaker
	FailureThreshold int
	// OpenTimeout is how long the breaker stays open before probing
	OpenTimeout time.Duration
	// HalfOpenSuccesses is the number of consecutive probe successes
	// needed to close the breaker again
	HalfOpenSuccesses int
	Logger            *zap.Logger
}

// DefaultBreakerConfig returns the breaker settings used for outbound
// platform calls
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold:  5,
		OpenTimeout:       time.Minute,
		HalfOpenSuccesses: 2,
		Logger:            zap.NewNop(),
	}
}

// CircuitBreaker protects an outbound dependency from being hammered while
// it is failing. Closed passes calls through, open rejects them, half-open
// lets probes through after the open timeout.
type CircuitBreaker struct {
	name string
	cfg  BreakerConfig

	mu           sync.Mutex
	state        State
	failures     int
	successes    int
	openedAt     time.Time
	nowFn        func() time.Time
}

// NewCircuitBreaker creates a circuit breaker
func NewCircuitBreaker(name string, cfg BreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = time.Minute
	}
	if cfg.HalfOpenSuccesses <= 0 {
		cfg.HalfOpenSuccesses = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &CircuitBreaker{
		name:  name,
		cfg:   cfg,
		state: StateClosed,
		nowFn: time.Now,
	}
}

// State returns the current state, transitioning open breakers to
// half-open when the open timeout has elapsed
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentState()
}

func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen && cb.nowFn().Sub(cb.openedAt) >= cb.cfg.OpenTimeout {
		cb.state = StateHalfOpen
		cb.successes = 0
		cb.cfg.Logger.Info("circuit breaker half-open", zap.String("name", cb.name))
	}
	return cb.state
}

// Execute runs fn if the breaker allows it and records the outcome
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	cb.mu.Lock()
	state := cb.currentState()
	if state == StateOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn(ctx)
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		cb.successes = 0

		if cb.state == StateHalfOpen || cb.failures >= cb.cfg.FailureThreshold {
			if cb.state != StateOpen {
				cb.cfg.Logger.Warn("circuit breaker opened",
					zap.String("name", cb.name),
					zap.Int("failures", cb.failures),
				)
			}
			cb.state = StateOpen
			cb.openedAt = cb.nowFn()
		}
		return
	}

	cb.failures = 0
	if cb.state == StateHalfOpen {
		cb.successes++
		if cb.successes >= cb.cfg.HalfOpenSuccesses {
			cb.state = StateClosed
			cb.successes = 0
			cb.cfg.Logger.Info("circuit breaker closed", zap.String("name", cb.name))
		}
	}
}
