package llm

import (
	"context"
	"time"
)

// RetryStrategy decides whether a failed attempt is tried again and how long
// to wait first.
type RetryStrategy interface {
	// ShouldRetry determines if a retry should be attempted.
	ShouldRetry(err error) bool

	// NextDelay returns the delay before the next retry.
	NextDelay() time.Duration

	// Reset resets the retry state.
	Reset()
}

// FixedRetryStrategy allows MaxAttempts attempts in total, waiting Delay
// between consecutive ones.
type FixedRetryStrategy struct {
	MaxAttempts int
	Delay       time.Duration
	retries     int
}

func NewFixedRetryStrategy(maxAttempts int, delay time.Duration) *FixedRetryStrategy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &FixedRetryStrategy{MaxAttempts: maxAttempts, Delay: delay}
}

func (s *FixedRetryStrategy) ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	return s.retries+1 < s.MaxAttempts
}

func (s *FixedRetryStrategy) NextDelay() time.Duration {
	s.retries++
	return s.Delay
}

func (s *FixedRetryStrategy) Reset() {
	s.retries = 0
}

// Wait sleeps for d or until ctx is done.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
