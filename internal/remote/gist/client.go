// Package gist reads and replaces channel data held in GitHub Gists.
package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"channel_sync/internal/domain"
)

const (
	defaultAPIBaseURL = "https://api.github.com"
	rawBaseURL        = "https://gist.githubusercontent.com"
	acceptHeader      = "application/vnd.github.v3+json"
)

var gistURLPattern = regexp.MustCompile(`gist\.github(?:usercontent)?\.com/([^/]+)/([a-f0-9]+)`)

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithAPIBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.apiBaseURL = url
	}
}

func WithFetchTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.fetchTimeout = d
	}
}

// WithDescription sets the gist description written with every document replace.
func WithDescription(description string) ClientOption {
	return func(c *Client) {
		c.description = description
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

type Client struct {
	httpClient   *http.Client
	apiBaseURL   string
	fetchTimeout time.Duration
	description  string
	now          func() time.Time
	logger       *slog.Logger
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:   &http.Client{},
		apiBaseURL:   defaultAPIBaseURL,
		fetchTimeout: 20 * time.Second,
		now:          time.Now,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "gist")

	return c
}

// FetchLatest downloads rawURL bypassing intermediate caches. It gives up
// after the fetch timeout and reports domain.ErrTimeout.
func (c *Client) FetchLatest(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	q.Set("v", strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("fetch %s: %w", u.Host, domain.ErrTimeout)
		}
		return nil, &domain.RemoteError{Kind: domain.ErrRemote, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("read %s: %w", u.Host, domain.ErrTimeout)
		}
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, domain.RemoteErrorFromStatus(resp.StatusCode, "")
	}

	c.logger.Debug("fetched raw gist", "host", u.Host, "bytes", len(body))
	return body, nil
}

// FileNames returns the gist's member files in the order the API lists them.
// It doubles as a token check.
func (c *Client) FileNames(ctx context.Context, gistID, token string) ([]string, error) {
	body, err := c.doAPI(ctx, http.MethodGet, gistID, token, nil)
	if err != nil {
		return nil, err
	}

	var meta struct {
		Files json.RawMessage `json:"files"`
	}
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("decode gist metadata: %w: %v", domain.ErrMalformedData, err)
	}

	names, err := orderedKeys(meta.Files)
	if err != nil {
		return nil, fmt.Errorf("decode gist files: %w: %v", domain.ErrMalformedData, err)
	}
	return names, nil
}

type fileContent struct {
	Content string `json:"content"`
}

type patchRequest struct {
	Description string                  `json:"description,omitempty"`
	Files       map[string]*fileContent `json:"files"`
}

// ReplaceDocument makes filename the gist's only file holding content.
// Every other member file is deleted in the same request.
func (c *Client) ReplaceDocument(ctx context.Context, gistID, token, filename string, content []byte) error {
	names, err := c.FileNames(ctx, gistID, token)
	if err != nil {
		return fmt.Errorf("fetch gist metadata: %w", err)
	}

	files := map[string]*fileContent{
		filename: {Content: string(content)},
	}
	for _, name := range names {
		if name != filename {
			files[name] = nil
		}
	}

	if _, err := c.doAPI(ctx, http.MethodPatch, gistID, token, patchRequest{
		Description: c.description,
		Files:       files,
	}); err != nil {
		return fmt.Errorf("update gist: %w", err)
	}

	c.logger.Info("gist updated", "gist_id", gistID, "file", filename, "removed", len(files)-1)
	return nil
}

// ReplaceFirstFile overwrites the first member file and leaves the others alone.
func (c *Client) ReplaceFirstFile(ctx context.Context, gistID, token string, content []byte) error {
	names, err := c.FileNames(ctx, gistID, token)
	if err != nil {
		return fmt.Errorf("fetch gist metadata: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("gist %s: %w: no files", gistID, domain.ErrMalformedData)
	}

	if _, err := c.doAPI(ctx, http.MethodPatch, gistID, token, patchRequest{
		Files: map[string]*fileContent{names[0]: {Content: string(content)}},
	}); err != nil {
		return fmt.Errorf("update gist: %w", err)
	}
	return nil
}

func (c *Client) doAPI(ctx context.Context, method, gistID, token string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := fmt.Sprintf("%s/gists/%s", c.apiBaseURL, url.PathEscape(gistID))
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.authClient(ctx, token).Do(req)
	if err != nil {
		return nil, &domain.RemoteError{Kind: domain.ErrRemote, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(respBody, &apiErr)
		return nil, domain.RemoteErrorFromStatus(resp.StatusCode, apiErr.Message)
	}

	return respBody, nil
}

func (c *Client) authClient(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

// orderedKeys lists the keys of a JSON object as they appear in the input.
func orderedKeys(raw json.RawMessage) ([]string, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []string{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	keys := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// ParseURL extracts the owner and gist id from a gist page or raw URL.
func ParseURL(u string) (owner, gistID string, ok bool) {
	m := gistURLPattern.FindStringSubmatch(u)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func GistID(u string) (string, bool) {
	_, id, ok := ParseURL(u)
	return id, ok
}

// RawURL is the latest-revision raw address of the first file in a gist.
func RawURL(owner, gistID string) string {
	return fmt.Sprintf("%s/%s/%s/raw", rawBaseURL, owner, gistID)
}
