package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryableFunc represents a function that can be retried
type RetryableFunc func(ctx context.Context) error

// Config holds retry configuration
type Config struct {
	MaxAttempts int              // total attempts, including the first
	BaseDelay   time.Duration    // delay before the second attempt
	MaxDelay    time.Duration    // upper bound for any single delay
	Multiplier  float64          // exponential backoff multiplier
	Jitter      bool             // add up to 10% random delay
	Retryable   func(error) bool // nil retries every error
}

// DefaultConfig: 3 attempts, 1s, 2s backoff.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
	}
}

// Retrier handles retry logic with exponential backoff
type Retrier struct {
	config Config
	log    logrus.FieldLogger
	sleep  func(ctx context.Context, d time.Duration) error
}

func New(config Config, log logrus.FieldLogger) *Retrier {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	return &Retrier{config: config, log: log, sleep: sleepCtx}
}

// Execute runs fn until it succeeds, returns a non-retryable error, or
// attempts run out. The last error is returned unwrapped so callers can
// still match sentinels on it.
func (r *Retrier) Execute(ctx context.Context, op string, fn RetryableFunc) error {
	var lastErr error
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				r.log.WithFields(logrus.Fields{"op": op, "attempt": attempt}).Info("succeeded after retries")
			}
			return nil
		}
		lastErr = err

		if r.config.Retryable != nil && !r.config.Retryable(err) {
			return err
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		delay := r.Delay(attempt)
		r.log.WithFields(logrus.Fields{
			"op":           op,
			"attempt":      attempt,
			"max_attempts": r.config.MaxAttempts,
			"delay":        delay.String(),
			"error":        err.Error(),
		}).Warn("attempt failed, retrying")

		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}

	r.log.WithFields(logrus.Fields{"op": op, "attempts": r.config.MaxAttempts, "error": lastErr.Error()}).
		Error("all attempts failed")
	return lastErr
}

// Delay is the wait after the given 1-based failed attempt.
func (r *Retrier) Delay(attempt int) time.Duration {
	delay := float64(r.config.BaseDelay) * math.Pow(r.config.Multiplier, float64(attempt-1))
	if r.config.MaxDelay > 0 && delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}
	if r.config.Jitter {
		delay += delay * 0.1 * rand.Float64()
	}
	return time.Duration(delay)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("retry wait interrupted: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
