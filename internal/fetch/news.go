package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/thaskell/market-magic/internal/config"
	"github.com/thaskell/market-magic/internal/model"
)

// APIError represents an HTTP error from an upstream source.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// NewsClient fetches articles from the news API.
type NewsClient struct {
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// NewsOption configures a NewsClient.
type NewsOption func(*NewsClient)

// NewNewsClient creates a news API client.
func NewNewsClient(apiKey string, opts ...NewsOption) *NewsClient {
	c := &NewsClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithNewsTimeout sets the HTTP client timeout.
func WithNewsTimeout(d time.Duration) NewsOption {
	return func(c *NewsClient) {
		c.httpClient.Timeout = d
	}
}

// WithNewsLogger sets the logger.
func WithNewsLogger(logger *slog.Logger) NewsOption {
	return func(c *NewsClient) {
		c.logger = logger
	}
}

// WithNewsHTTPClient sets a custom HTTP client.
func WithNewsHTTPClient(hc *http.Client) NewsOption {
	return func(c *NewsClient) {
		c.httpClient = hc
	}
}

// articlesResponse is the wire shape of a source's article listing.
type articlesResponse struct {
	Articles []articlePayload `json:"articles"`
}

type articlePayload struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}

// Fetch returns the articles one source currently lists for a symbol.
// There is no retry: a failed fetch surfaces to the caller, which skips
// the unit.
func (c *NewsClient) Fetch(ctx context.Context, symbol string, source config.NewsSource) ([]model.NewsArticle, error) {
	fullURL := source.URL + "?" + url.Values{"symbol": {symbol}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	var payload articlesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	articles := make([]model.NewsArticle, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		ts := c.parsePublishedAt(a.PublishedAt)
		articles = append(articles, model.NewsArticle{
			Title:      a.Title,
			Body:       a.Body,
			URL:        a.URL,
			Timestamp:  ts,
			SourceName: source.Name,
		})
	}

	c.logger.Debug("fetched articles",
		"source", source.Name,
		"symbol", symbol,
		"count", len(articles),
	)
	return articles, nil
}

// parsePublishedAt parses the publish time; sources that omit it get the
// fetch time, matching the feed's historical behavior.
func (c *NewsClient) parsePublishedAt(s string) time.Time {
	if s == "" {
		return c.now()
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return c.now()
	}
	return ts
}
