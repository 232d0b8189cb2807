// Package resilience provides a resilient JSON fetcher with circuit breaking,
// timeouts, and retry logic for calls to upstream weather APIs.
package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// CircuitBreakerConfig holds configuration for the circuit breaker guarding an
// upstream provider.
type CircuitBreakerConfig struct {
	// Name identifies the circuit breaker for logging.
	Name string

	// MaxRequests is the maximum number of probe requests allowed in half-open
	// state. Default: 1
	MaxRequests uint32

	// Cooldown is the period of open state before switching to half-open.
	// Default: 60 seconds
	Cooldown time.Duration

	// FailureThreshold is the number of consecutive failed calls that trips
	// the breaker open. Default: 5
	FailureThreshold uint32

	// OnStateChange is called when the circuit breaker state changes.
	OnStateChange func(name string, from gobreaker.State, to gobreaker.State)
}

// DefaultCircuitBreakerConfig returns the default breaker configuration:
// trip after 5 consecutive failures, stay open for 60 seconds, allow a single
// probe in half-open.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Cooldown:         60 * time.Second,
		FailureThreshold: 5,
	}
}

// ConsecutiveFailures returns a trip function that opens the breaker once the
// given number of consecutive failures is reached.
func ConsecutiveFailures(threshold uint32) func(counts gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= threshold
	}
}

// NewCircuitBreaker creates a circuit breaker from the given configuration.
// Each provider client owns its own instance; there is no process-global
// breaker, so tests can construct isolated instances and drive transitions
// deterministically.
func NewCircuitBreaker[T any](cfg CircuitBreakerConfig) *gobreaker.CircuitBreaker[T] {
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = 60 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: ConsecutiveFailures(cfg.FailureThreshold),
	}

	if cfg.OnStateChange != nil {
		settings.OnStateChange = cfg.OnStateChange
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}
