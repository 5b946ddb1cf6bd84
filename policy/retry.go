package policy

import (
	"errors"
	"math"
	"time"
)

// RetryPolicy bounds the executor's transient-failure retries.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Must be at least 1.
	MaxAttempts int

	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration

	// Multiplier scales the delay for each subsequent retry.
	Multiplier float64
}

// DefaultRetryPolicy returns the default retry policy:
// 3 attempts, 500ms base delay, multiplier 2.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		Multiplier:  2,
	}
}

// Validate checks the policy for usable values.
//
// Returns:
//   - error: Validation error, or nil if valid
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return errors.New("policy: MaxAttempts must be at least 1")
	}
	if p.BaseDelay < 0 {
		return errors.New("policy: BaseDelay cannot be negative")
	}
	if p.Multiplier < 1 {
		return errors.New("policy: Multiplier must be at least 1")
	}

	return nil
}

// Delay returns the backoff delay inserted after the given failed attempt
// (0-indexed): BaseDelay * Multiplier^attempt.
//
// Parameters:
//   - attempt: The 0-indexed attempt that just failed
//
// Returns:
//   - time.Duration: How long to wait before the next attempt
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	return time.Duration(float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt)))
}
