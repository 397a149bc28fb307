// Package agents defines the chart pipeline's LLM agents: their typed
// outputs, validation, retry handling, and the orchestration that runs
// them against prepared tabular data.
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iashutoshrawat/lumora/llm"
)

// RetryResult reports the outcome of a parse-and-validate cycle.
// It is total: Success false carries the error, never a panic.
type RetryResult[T any] struct {
	Success  bool   `json:"success"`
	Data     *T     `json:"data,omitempty"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error,omitempty"`
}

// RetryOptions configures RetryWithValidation.
type RetryOptions struct {
	// MaxRetries is the number of retries after the first attempt.
	// MaxRetries 2 means 3 total attempts.
	MaxRetries int

	// AgentName labels log lines and retry callbacks.
	AgentName string

	// BackoffBase is the wait before the second attempt; it doubles
	// each retry. The first attempt is never throttled.
	BackoffBase time.Duration

	// OnRetry is called before each wait with the attempt number that
	// failed and its error.
	OnRetry func(attempt int, err string)
}

// ParseAndValidate extracts JSON from raw agent output, decodes it into
// T, and runs the validator. The validator receives a pointer so it may
// normalize fields in place.
func ParseAndValidate[T any](output, agentName string, validate func(*T) error) RetryResult[T] {
	jsonStr := llm.ExtractJSON(output)
	if jsonStr == "" {
		return RetryResult[T]{
			Attempts: 1,
			Error:    fmt.Sprintf("%s: no JSON found in agent output", agentName),
		}
	}

	var data T
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return RetryResult[T]{
			Attempts: 1,
			Error:    fmt.Sprintf("%s: JSON parse error: %v", agentName, err),
		}
	}

	if validate != nil {
		if err := validate(&data); err != nil {
			return RetryResult[T]{
				Attempts: 1,
				Error:    fmt.Sprintf("%s: validation failed: %v", agentName, err),
			}
		}
	}

	return RetryResult[T]{Success: true, Data: &data, Attempts: 1}
}

// RetryWithValidation calls the agent repeatedly until its output
// parses and validates, or attempts run out. Backoff between attempts
// doubles from BackoffBase; the first attempt is unthrottled. Context
// cancellation aborts immediately, including mid-wait.
func RetryWithValidation[T any](ctx context.Context, call func(context.Context) (string, error), validate func(*T) error, opts RetryOptions) RetryResult[T] {
	totalAttempts := opts.MaxRetries + 1
	if totalAttempts < 1 {
		totalAttempts = 1
	}
	backoffBase := opts.BackoffBase
	if backoffBase <= 0 {
		backoffBase = 2 * time.Second
	}

	var lastErr string
	for attempt := 1; attempt <= totalAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return RetryResult[T]{Attempts: attempt, Error: err.Error()}
		}

		output, err := call(ctx)
		if err != nil {
			lastErr = fmt.Sprintf("%s: %v", opts.AgentName, err)
		} else {
			result := ParseAndValidate(output, opts.AgentName, validate)
			if result.Success {
				result.Attempts = attempt
				return result
			}
			lastErr = result.Error
		}

		if attempt < totalAttempts {
			// 0s, 2s, 4s... the first retry fires immediately after the
			// unthrottled attempt's wait of backoffBase.
			wait := backoffBase << (attempt - 1)
			if opts.OnRetry != nil {
				opts.OnRetry(attempt, lastErr)
			}
			select {
			case <-ctx.Done():
				return RetryResult[T]{Attempts: attempt, Error: ctx.Err().Error()}
			case <-time.After(wait):
			}
		}
	}

	return RetryResult[T]{Attempts: totalAttempts, Error: lastErr}
}
