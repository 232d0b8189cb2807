package resilience

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ProviderHealth is a point-in-time health snapshot of one upstream provider.
type ProviderHealth struct {
	// Name is the provider identifier.
	Name string `json:"name"`

	// CircuitState is the current circuit breaker state.
	CircuitState string `json:"circuit_state"`

	// ConsecutiveFailures is the breaker's current consecutive-failure tally.
	ConsecutiveFailures uint32 `json:"consecutive_failures"`

	// LastSuccessAt is the timestamp of the last successful call.
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`

	// LastFailureAt is the timestamp of the last failed call.
	LastFailureAt *time.Time `json:"last_failure_at,omitempty"`

	// LastError is the most recent error message, if any.
	LastError string `json:"last_error,omitempty"`
}

// Healthy reports whether the provider's breaker is closed.
func (h *ProviderHealth) Healthy() bool {
	return h.CircuitState == gobreaker.StateClosed.String()
}

// Registry tracks provider clients and their recent call outcomes. Clients
// constructed with a Registry report into it automatically; the ops endpoint
// reads it for health snapshots.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]*registeredProvider
}

type registeredProvider struct {
	client        *Client
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]*registeredProvider),
	}
}

// Register adds a provider client to the registry.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = &registeredProvider{client: client}
}

// RecordSuccess records a successful call for a provider.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[name]; ok {
		now := time.Now()
		p.lastSuccessAt = &now
	}
}

// RecordFailure records a failed call for a provider.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[name]; ok {
		now := time.Now()
		p.lastFailureAt = &now
		if err != nil {
			p.lastError = err.Error()
		}
	}
}

// Health returns the health snapshot of a specific provider, or nil if the
// provider is not registered.
func (r *Registry) Health(name string) *ProviderHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil
	}
	return snapshot(name, p)
}

// AllHealth returns health snapshots for all registered providers.
func (r *Registry) AllHealth() []*ProviderHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]*ProviderHealth, 0, len(r.providers))
	for name, p := range r.providers {
		health = append(health, snapshot(name, p))
	}
	return health
}

func snapshot(name string, p *registeredProvider) *ProviderHealth {
	return &ProviderHealth{
		Name:                name,
		CircuitState:        p.client.CircuitBreakerState().String(),
		ConsecutiveFailures: p.client.CircuitBreakerCounts().ConsecutiveFailures,
		LastSuccessAt:       p.lastSuccessAt,
		LastFailureAt:       p.lastFailureAt,
		LastError:           p.lastError,
	}
}
