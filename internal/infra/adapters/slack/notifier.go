// File: internal/infra/adapters/slack/notifier.go
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/config"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/model"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/ports/adapter"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/metrics"
)

var _ adapter.ChatNotifier = (*Notifier)(nil)

// Notifier posts alerts to one Slack channel via chat.postMessage.
type Notifier struct {
	token   string
	channel string
	baseURL string
	client  *http.Client
}

func NewNotifier(cfg *config.SlackConfig, timeout time.Duration) (*Notifier, error) {
	if cfg == nil || cfg.Token == "" {
		return nil, errors.New("slack token empty")
	}
	if cfg.Channel == "" {
		return nil, errors.New("slack channel empty")
	}
	base := cfg.BaseURL
	if base == "" {
		base = "https://slack.com/api"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		token:   cfg.Token,
		channel: cfg.Channel,
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (n *Notifier) Name() string { return "slack" }

// chat.postMessage error codes that mean the credential itself is bad.
var authErrors = map[string]bool{
	"invalid_auth":     true,
	"not_authed":       true,
	"account_inactive": true,
	"token_revoked":    true,
	"token_expired":    true,
	"missing_scope":    true,
	"no_permission":    true,
}

// Error codes worth retrying.
var transientErrors = map[string]bool{
	"ratelimited":         true,
	"internal_error":      true,
	"service_unavailable": true,
}

func (n *Notifier) Post(ctx context.Context, msg model.NotificationMessage) error {
	started := time.Now()
	err := n.post(ctx, msg)
	metrics.ObserveNotification("slack", postResult(err), time.Since(started))
	return err
}

func (n *Notifier) post(ctx context.Context, msg model.NotificationMessage) error {
	payload := map[string]any{
		"channel":      n.channel,
		"text":         msg.Text,
		"unfurl_links": true,
		"unfurl_media": true,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/chat.postMessage", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+n.token)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrChatUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: http %d", domain.ErrChatAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: http %d", domain.ErrChatUnavailable, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: http %d", domain.ErrChatRejected, resp.StatusCode)
	}

	// Slack reports most failures inside a 200 envelope.
	var out struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrChatUnavailable, err)
	}
	if out.OK {
		return nil
	}
	switch {
	case authErrors[out.Error]:
		return fmt.Errorf("%w: %s", domain.ErrChatAuth, out.Error)
	case transientErrors[out.Error]:
		return fmt.Errorf("%w: %s", domain.ErrChatUnavailable, out.Error)
	default:
		return fmt.Errorf("%w: %s", domain.ErrChatRejected, out.Error)
	}
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
