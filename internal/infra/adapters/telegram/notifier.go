package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/config"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/model"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/ports/adapter"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/metrics"
)

var _ adapter.ChatNotifier = (*Notifier)(nil)

// Notifier posts alerts to one Telegram chat. Alternative to Slack for
// deployments that live on Telegram.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewNotifier(cfg *config.TelegramConfig) (*Notifier, error) {
	if cfg == nil || cfg.Token == "" {
		return nil, errors.New("telegram token empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat id empty")
	}
	// NewBotAPI performs a getMe call, so a bad token fails here.
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Notifier{bot: bot, chatID: cfg.ChatID}, nil
}

func (n *Notifier) Name() string { return "telegram" }

func (n *Notifier) Post(ctx context.Context, msg model.NotificationMessage) error {
	started := time.Now()
	err := n.post(ctx, msg)
	metrics.ObserveNotification("telegram", postResult(err), time.Since(started))
	return err
}

func (n *Notifier) post(ctx context.Context, msg model.NotificationMessage) error {
	// tgbotapi has no context support; honor cancellation before the call.
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m := tgbotapi.NewMessage(n.chatID, msg.Text)
	m.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(m); err != nil {
		return mapError(err)
	}
	return nil
}

func mapError(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return fmt.Errorf("%w: %s", domain.ErrChatAuth, apiErr.Message)
		case apiErr.Code == 429 || apiErr.Code >= 500:
			return fmt.Errorf("%w: %s", domain.ErrChatUnavailable, apiErr.Message)
		default:
			return fmt.Errorf("%w: %s", domain.ErrChatRejected, apiErr.Message)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrChatUnavailable, err)
}

func postResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrChatAuth):
		return "auth"
	case errors.Is(err, domain.ErrChatRejected):
		return "rejected"
	default:
		return "unavailable"
	}
}
