// Package retry provides a small bounded exponential backoff helper for
// transient provider failures. Call sites stay free of sleep loops.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy holds the retry parameters. The zero value is unusable; use Default
// or build one from config.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Default is the policy used for provider calls unless overridden.
var Default = Policy{MaxAttempts: 3, BaseDelay: 200 * time.Millisecond}

// Do invokes fn up to MaxAttempts times, sleeping BaseDelay*2^(n-1) between
// attempts. retryable decides whether an error is worth another attempt;
// a non-retryable error is returned immediately. Context cancellation stops
// the loop between attempts.
func (p Policy) Do(ctx context.Context, fn func() error, retryable func(error) bool) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error
	delay := p.BaseDelay

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("all %d attempts failed: %w", p.MaxAttempts, lastErr)
}
