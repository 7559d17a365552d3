package repository

import (
	"context"
	"time"
)

// RunLocker is the port for the mutual-exclusion lock around poll runs.
type RunLocker interface {
	// TryLock acquires key for ttl and returns an opaque holder token.
	// A held lock returns domain.ErrRunInProgress.
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)

	// Unlock releases key only if token still holds it.
	Unlock(ctx context.Context, key, token string) error
}
