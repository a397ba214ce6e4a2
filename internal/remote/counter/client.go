// Package counter talks to the hit-counter service that keeps the
// authoritative per-item view totals.
package counter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"channel_sync/internal/domain"
)

const defaultBaseURL = "https://api.countapi.xyz"

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("component", "counter"),
	}
}

type valueResponse struct {
	Value *int64 `json:"value"`
}

// Get reads the current total for an item. Reads are retried with backoff.
func (c *Client) Get(ctx context.Context, namespace string, itemID int64) (int64, error) {
	endpoint := c.endpoint("get", namespace, itemID)

	var (
		value int64
		err   error
	)
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		value, err = c.doRequest(ctx, endpoint)
		if err == nil {
			return value, nil
		}

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Debug("counter read failed, retrying",
			"item_id", itemID,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return 0, fmt.Errorf("after %d attempts: %w", c.maxAttempts, err)
}

// Hit increments an item's total and returns the new value. It is sent once.
func (c *Client) Hit(ctx context.Context, namespace string, itemID int64) (int64, error) {
	return c.doRequest(ctx, c.endpoint("hit", namespace, itemID))
}

func (c *Client) endpoint(action, namespace string, itemID int64) string {
	return fmt.Sprintf("%s/%s/%s/item-%d", c.baseURL, action, url.PathEscape(namespace), itemID)
}

func (c *Client) doRequest(ctx context.Context, endpoint string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &domain.RemoteError{Kind: domain.ErrRemote, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, domain.RemoteErrorFromStatus(resp.StatusCode, "")
	}

	var body valueResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode response: %w: %v", domain.ErrMalformedData, err)
	}
	if body.Value == nil {
		return 0, fmt.Errorf("decode response: %w: no value field", domain.ErrMalformedData)
	}

	return *body.Value, nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff * time.Duration(1<<(attempt-1))
	if c.maxBackoff > 0 && backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}

// Namespace scopes counters to one channel document.
func Namespace(prefix, gistID string) string {
	return prefix + "-" + gistID
}
