package repository

import (
	"context"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/model"
)

// MarkerRepository is the port for the persisted novelty marker. The store
// behind it is a single key in a KV store; nothing else is persisted.
type MarkerRepository interface {
	// Load returns the current marker, or (nil, nil) when none was ever set.
	Load(ctx context.Context) (*model.Marker, error)

	// Advance replaces prev with next atomically (compare-and-set). A nil
	// prev asserts the key is still absent. When the stored value no longer
	// matches prev the write is refused with domain.ErrMarkerConflict.
	Advance(ctx context.Context, prev, next *model.Marker) error
}
