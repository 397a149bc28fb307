package model

import (
	"sync"
	"time"
)

// EndpointHealth tracks the health status of a model endpoint.
type EndpointHealth struct {
	// ConsecutiveFailures counts failures since the last success.
	ConsecutiveFailures int

	// LastFailure is when the endpoint last failed.
	LastFailure time.Time

	// LastSuccess is when the endpoint last succeeded.
	LastSuccess time.Time

	// Unavailable marks the endpoint as temporarily down.
	Unavailable bool
}

// HealthConfig controls circuit breaker behavior.
type HealthConfig struct {
	// FailureThreshold is the number of consecutive failures before
	// marking an endpoint unavailable.
	FailureThreshold int

	// RecoveryTimeout is how long to wait before retrying an
	// unavailable endpoint.
	RecoveryTimeout time.Duration

	// HalfOpenMaxProbes limits concurrent probe requests while recovering.
	HalfOpenMaxProbes int
}

// DefaultHealthConfig returns sensible circuit breaker defaults.
func DefaultHealthConfig() HealthConfig {
	return HealthConfig{
		FailureThreshold:  3,
		RecoveryTimeout:   30 * time.Second,
		HalfOpenMaxProbes: 1,
	}
}

type healthState struct {
	mu        sync.RWMutex
	endpoints map[string]*EndpointHealth
	config    HealthConfig
}

func newHealthState(cfg HealthConfig) *healthState {
	return &healthState{
		endpoints: make(map[string]*EndpointHealth),
		config:    cfg,
	}
}

func (r *Registry) healthTracker() *healthState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.health == nil {
		r.health = newHealthState(DefaultHealthConfig())
	}
	return r.health
}

// SetHealthConfig replaces the circuit breaker configuration.
// Existing endpoint state is preserved.
func (r *Registry) SetHealthConfig(cfg HealthConfig) {
	h := r.healthTracker()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.config = cfg
}

// MarkEndpointSuccess records a successful request against an endpoint.
// Resets the failure count and closes the circuit if it was open.
func (r *Registry) MarkEndpointSuccess(modelName string) {
	h := r.healthTracker()
	h.mu.Lock()
	defer h.mu.Unlock()

	eh := h.endpoints[modelName]
	if eh == nil {
		eh = &EndpointHealth{}
		h.endpoints[modelName] = eh
	}
	eh.ConsecutiveFailures = 0
	eh.LastSuccess = time.Now()
	eh.Unavailable = false
}

// MarkEndpointFailure records a failed request against an endpoint.
// Opens the circuit once consecutive failures reach the threshold.
func (r *Registry) MarkEndpointFailure(modelName string) {
	h := r.healthTracker()
	h.mu.Lock()
	defer h.mu.Unlock()

	eh := h.endpoints[modelName]
	if eh == nil {
		eh = &EndpointHealth{}
		h.endpoints[modelName] = eh
	}
	eh.ConsecutiveFailures++
	eh.LastFailure = time.Now()
	if eh.ConsecutiveFailures >= h.config.FailureThreshold {
		eh.Unavailable = true
	}
}

// IsEndpointAvailable reports whether an endpoint should receive requests.
// An unavailable endpoint becomes half-open after the recovery timeout,
// allowing a probe request through.
func (r *Registry) IsEndpointAvailable(modelName string) bool {
	h := r.healthTracker()
	h.mu.RLock()
	defer h.mu.RUnlock()

	eh := h.endpoints[modelName]
	if eh == nil || !eh.Unavailable {
		return true
	}

	// Half-open: allow a probe after the recovery window elapses.
	return time.Since(eh.LastFailure) >= h.config.RecoveryTimeout
}

// GetEndpointHealth returns a snapshot of an endpoint's health state.
// Returns a zero-value health for endpoints with no recorded activity.
func (r *Registry) GetEndpointHealth(modelName string) EndpointHealth {
	h := r.healthTracker()
	h.mu.RLock()
	defer h.mu.RUnlock()

	if eh := h.endpoints[modelName]; eh != nil {
		return *eh
	}
	return EndpointHealth{}
}

// ResetEndpointHealth clears recorded health state for an endpoint.
func (r *Registry) ResetEndpointHealth(modelName string) {
	h := r.healthTracker()
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.endpoints, modelName)
}

// GetAvailableFallbackChain returns the fallback chain for a capability,
// filtered to endpoints the circuit breaker considers available.
// If every endpoint in the chain is unavailable, the full chain is
// returned so callers can still attempt recovery rather than fail fast.
func (r *Registry) GetAvailableFallbackChain(cap Capability) []string {
	chain := r.GetFallbackChain(cap)

	available := make([]string, 0, len(chain))
	for _, name := range chain {
		if r.IsEndpointAvailable(name) {
			available = append(available, name)
		}
	}

	if len(available) == 0 {
		return chain
	}
	return available
}
