// File: internal/infra/adapters/openfda/client.go
package openfda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/config"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/model"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/ports/adapter"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/metrics"
)

var _ adapter.RecallSource = (*Client)(nil)

// Client fetches food enforcement reports from the public openFDA API.
// The feed is queried newest first (sort=report_date:desc); the novelty
// filtering happens upstream, this client only translates the page.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	client    *http.Client
}

func NewClient(cfg *config.SourceConfig) (*Client, error) {
	if cfg == nil {
		return nil, domain.ErrInvalidArgument
	}
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.fda.gov/food/enforcement.json"
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid source base url: %w", err)
	}
	ua := cfg.UserAgent
	if ua == "" {
		// The API answers the default Go agent with 403s.
		ua = "Mozilla/5.0"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   base,
		apiKey:    cfg.APIKey,
		userAgent: ua,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Name() string { return "openfda" }

type enforcementRecord struct {
	RecallNumber        string `json:"recall_number"`
	ReportDate          string `json:"report_date"`
	ProductDescription  string `json:"product_description"`
	ReasonForRecall     string `json:"reason_for_recall"`
	RecallingFirm       string `json:"recalling_firm"`
	DistributionPattern string `json:"distribution_pattern"`
	Classification      string `json:"classification"`
	Status              string `json:"status"`
	City                string `json:"city"`
	State               string `json:"state"`
}

// FetchRecent returns up to limit reports as served by the feed.
func (c *Client) FetchRecent(ctx context.Context, limit int) ([]*model.RecallRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	started := time.Now()
	records, err := c.fetch(ctx, limit)
	metrics.ObserveSourceFetch(fetchResult(err), time.Since(started))
	return records, err
}

func fetchResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	default:
		return "unavailable"
	}
}

func (c *Client) fetch(ctx context.Context, limit int) ([]*model.RecallRecord, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", "report_date:desc")
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// openFDA answers "no matching records" with a 404 + NOT_FOUND body.
		var out struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err == nil && out.Error.Code == "NOT_FOUND" {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: http 404", domain.ErrSourceUnavailable)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	var out struct {
		Results []enforcementRecord `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	records := make([]*model.RecallRecord, 0, len(out.Results))
	for i, er := range out.Results {
		rec, err := model.NewRecallRecord(er.RecallNumber, er.ReportDate)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: recall_number=%q report_date=%q",
				domain.ErrMalformedResponse, i, er.RecallNumber, er.ReportDate)
		}
		rec.ProductDescription = er.ProductDescription
		rec.ReasonForRecall = er.ReasonForRecall
		rec.RecallingFirm = er.RecallingFirm
		rec.DistributionPattern = er.DistributionPattern
		rec.Classification = er.Classification
		rec.Status = er.Status
		rec.City = er.City
		rec.State = er.State
		records = append(records, rec)
	}
	return records, nil
}

// Verify pings the feed with a single-record query. Called at startup so a
// bad base URL or key fails fast instead of on the first scheduled run.
func (c *Client) Verify(ctx context.Context) error {
	_, err := c.fetch(ctx, 1)
	return err
}
