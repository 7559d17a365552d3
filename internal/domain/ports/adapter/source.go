package adapter

import (
	"context"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/model"
)

// RecallSource is the hex port for the public recall feed.
type RecallSource interface {
	Name() string

	// FetchRecent returns at most limit records in the order the feed serves
	// them (newest first). An empty feed is an empty slice, not an error.
	FetchRecent(ctx context.Context, limit int) ([]*model.RecallRecord, error)
}
