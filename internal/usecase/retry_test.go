//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/usecase"
)

func TestRetryPolicyNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   int
		want int
	}{
		{"zero becomes the default", 0, 4},
		{"below the floor is clamped to 3", 1, 3},
		{"above the ceiling is clamped to 5", 9, 5},
		{"in range is kept", 4, 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := usecase.RetryPolicy{MaxAttempts: tc.in}.Normalize()
			if p.MaxAttempts != tc.want {
				t.Errorf("expected %d attempts, but got %d", tc.want, p.MaxAttempts)
			}
		})
	}
}

func TestRetryPolicyDelay(t *testing.T) {
	p := usecase.RetryPolicy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	t.Run("should grow exponentially within jitter bounds", func(t *testing.T) {
		// Expected raw delays: 100ms, 200ms, 400ms, 800ms; jitter is 0.7..1.3.
		for attempt, raw := range map[int]time.Duration{
			1: 100 * time.Millisecond,
			2: 200 * time.Millisecond,
			3: 400 * time.Millisecond,
			4: 800 * time.Millisecond,
		} {
			d := p.Delay(attempt)
			lo := time.Duration(float64(raw) * 0.7)
			hi := time.Duration(float64(raw) * 1.3)
			if d < lo || d > hi {
				t.Errorf("attempt %d: delay %v outside [%v, %v]", attempt, d, lo, hi)
			}
		}
	})

	t.Run("should never exceed the max delay", func(t *testing.T) {
		for attempt := 1; attempt <= 20; attempt++ {
			if d := p.Delay(attempt); d > time.Second {
				t.Fatalf("attempt %d: delay %v exceeds cap", attempt, d)
			}
		}
	})
}

func TestRetryPolicyDo(t *testing.T) {
	fast := usecase.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("should stop immediately on success", func(t *testing.T) {
		calls := 0
		err := fast.Do(context.Background(), func(ctx context.Context) error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, but got %d", calls)
		}
	})

	t.Run("should retry retryable errors up to the bound", func(t *testing.T) {
		calls := 0
		err := fast.Do(context.Background(), func(ctx context.Context) error {
			calls++
			return domain.ErrSourceUnavailable
		})
		if !errors.Is(err, domain.ErrSourceUnavailable) {
			t.Fatalf("expected ErrSourceUnavailable, but got: %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, but got %d", calls)
		}
	})

	t.Run("should not retry a non-retryable error", func(t *testing.T) {
		calls := 0
		err := fast.Do(context.Background(), func(ctx context.Context) error {
			calls++
			return domain.ErrChatAuth
		})
		if !errors.Is(err, domain.ErrChatAuth) {
			t.Fatalf("expected ErrChatAuth, but got: %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, but got %d", calls)
		}
	})

	t.Run("should stop when the context is cancelled between attempts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := fast.Do(ctx, func(ctx context.Context) error {
			calls++
			cancel()
			return domain.ErrChatUnavailable
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, but got: %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, but got %d", calls)
		}
	})

	t.Run("should refuse to start on a dead context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := fast.Do(ctx, func(ctx context.Context) error {
			calls++
			return nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, but got: %v", err)
		}
		if calls != 0 {
			t.Errorf("expected no calls, but got %d", calls)
		}
	})
}
