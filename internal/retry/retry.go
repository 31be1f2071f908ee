// Package retry provides a bounded exponential backoff helper.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Policy describes a bounded exponential backoff schedule. Attempt n
// (0-indexed) waits BaseDelay * Multiplier^n before the next attempt.
type Policy struct {
	BaseDelay   time.Duration
	Multiplier  float64
	MaxAttempts int
}

// DefaultPolicy returns the standard provisioning schedule: five attempts
// with 1s, 2s, 4s, 8s waits between them.
func DefaultPolicy() Policy {
	return Policy{
		BaseDelay:   time.Second,
		Multiplier:  2,
		MaxAttempts: 5,
	}
}

// Delay returns the wait after the given 0-indexed attempt.
func (p Policy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d = time.Duration(float64(d) * p.Multiplier)
	}
	return d
}

// SleepFunc pauses the caller. Tests inject a recording implementation so a
// schedule can be asserted without real delays.
type SleepFunc func(time.Duration)

// Do runs op until it succeeds or the policy is exhausted. The last error is
// returned wrapped with the attempt count. A nil sleep uses time.Sleep.
// The context is checked between attempts; cancellation wins over the policy.
func Do(ctx context.Context, p Policy, sleep SleepFunc, op func() error) error {
	if sleep == nil {
		sleep = time.Sleep
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultPolicy().MaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}

		if attempt < p.MaxAttempts-1 {
			wait := p.Delay(attempt)
			log.Debug("Operation failed, backing off",
				"attempt", attempt+1, "max", p.MaxAttempts, "wait", wait, "error", lastErr)
			sleep(wait)
		}
	}

	return fmt.Errorf("after %d attempts: %w", p.MaxAttempts, lastErr)
}
