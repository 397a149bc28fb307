package llm

import "time"

// RetryConfig shapes the per-endpoint retry loop for agent calls.
type RetryConfig struct {
	// MaxAttempts bounds attempts against a single endpoint before the
	// client moves to the capability's next fallback.
	MaxAttempts int

	// BackoffBase is the wait before the second attempt; later waits
	// grow by BackoffMultiplier and are capped at MaxBackoff.
	BackoffBase       time.Duration
	BackoffMultiplier float64
	MaxBackoff        time.Duration
}

// DefaultRetryConfig matches the pipeline's validation retry cadence:
// a 2s base doubling per attempt, so an agent that needs the fallback
// chain still answers within an interactive request window.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       2 * time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        30 * time.Second,
	}
}
