package usecase

import (
	"context"
	"math/rand"
	"time"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain"
)

// RetryPolicy bounds repeated attempts against a flaky dependency.
// MaxAttempts is always kept within [3, 5]; values outside are clamped.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

const (
	minRetryAttempts     = 3
	maxRetryAttempts     = 5
	defaultRetryAttempts = 4
	defaultRetryBase     = 500 * time.Millisecond
	defaultRetryMax      = 10 * time.Second
)

// Normalize fills defaults and clamps the attempt bound.
func (p RetryPolicy) Normalize() RetryPolicy {
	if p.MaxAttempts == 0 {
		p.MaxAttempts = defaultRetryAttempts
	}
	if p.MaxAttempts < minRetryAttempts {
		p.MaxAttempts = minRetryAttempts
	}
	if p.MaxAttempts > maxRetryAttempts {
		p.MaxAttempts = maxRetryAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultRetryBase
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = defaultRetryMax
	}
	return p
}

// Delay returns the backoff before the attempt after `attempt` (1-based):
// BaseDelay * 2^(attempt-1), capped at MaxDelay, with jitter in [0.7, 1.3].
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			d = p.MaxDelay
			break
		}
	}
	j := 0.7 + rand.Float64()*0.6
	d = time.Duration(float64(d) * j)
	if d < 0 {
		return 0
	}
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Do runs fn until it succeeds, fails with a non-retryable error, exhausts
// MaxAttempts, or ctx is done. The sleep between attempts honors ctx.
func (p RetryPolicy) Do(ctx context.Context, fn func(context.Context) error) error {
	p = p.Normalize()
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !domain.Retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}
		t := time.NewTimer(p.Delay(attempt))
		select {
		case <-t.C:
		case <-ctx.Done():
			if !t.Stop() {
				<-t.C
			}
			return ctx.Err()
		}
	}
	return lastErr
}
