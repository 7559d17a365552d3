package adapter

import (
	"context"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/model"
)

// ChatNotifier is the hex port for chat delivery providers.
type ChatNotifier interface {
	Name() string

	// Post delivers one alert to the configured channel. Errors wrap the
	// domain sentinels: ErrChatAuth (bad credential, never retried),
	// ErrChatUnavailable (transient), ErrChatRejected (permanent).
	Post(ctx context.Context, msg model.NotificationMessage) error
}
