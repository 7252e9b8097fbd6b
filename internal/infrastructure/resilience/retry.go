package resilience

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// maxBackoff caps the exponential delay between attempts
const maxBackoff = 30 * time.Minute

// Permanent wraps an error to stop further retry attempts
type Permanent struct {
	Err error
}

func (p *Permanent) Error() string {
	return p.Err.Error()
}

func (p *Permanent) Unwrap() error {
	return p.Err
}

// PermanentError marks an error as not retryable
func PermanentError(err error) error {
	if err == nil {
		return nil
	}
	return &Permanent{Err: err}
}

// RetryConfig controls the retry loop
type RetryConfig struct {
	MaxAttempts int           // total attempts including the first
	BaseDelay   time.Duration // delay before the second attempt
	Multiplier  float64       // backoff growth factor
	Jitter      float64       // random fraction added to each delay (0..1)
	Logger      *zap.Logger
}

// DefaultRetryConfig returns the retry settings used by outbound
// wholesaler and marketplace calls
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Multiplier:  2.0,
		Jitter:      0.2,
		Logger:      zap.NewNop(),
	}
}

// Retry runs fn until it succeeds, returns a permanent error, the context
// is cancelled, or attempts run out. The last error is returned.
func Retry(ctx context.Context, cfg RetryConfig, op string, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 2.0
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	var lastErr error
	delay := cfg.BaseDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		var perm *Permanent
		if errors.As(lastErr, &perm) {
			return perm.Err
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		wait := addJitter(delay, cfg.Jitter)
		cfg.Logger.Warn("operation failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(lastErr),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > maxBackoff {
			delay = maxBackoff
		}
	}

	return lastErr
}

func addJitter(d time.Duration, jitter float64) time.Duration {
	if jitter <= 0 || d <= 0 {
		return d
	}
	return d + time.Duration(rand.Float64()*jitter*float64(d))
}

// Backoff returns the capped exponential delay for a given attempt number
// (0-based). Used by the scheduler to space out job retries.
func Backoff(base time.Duration, multiplier float64, attempt int) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if multiplier < 1 {
		multiplier = 2.0
	}

	d := base
	for i := 0; i < attempt; i++ {
		d = time.Duration(float64(d) * multiplier)
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
