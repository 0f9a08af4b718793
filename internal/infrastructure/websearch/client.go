package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ratelshop/backend/internal/domain"
)

// Options parameterise the web search client.
type Options struct {
	APIKey   string
	EngineID string
	BaseURL  string
	Country  string // gl geolocation hint, e.g. "ng"
	Timeout  time.Duration
}

// Client queries a Google Programmable Search-style JSON API for market
// price snippets. The wire contract is owned by the provider; this client
// only consumes it and skips items it cannot make sense of.
type Client struct {
	httpClient  *http.Client
	opts        Options
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new web search client
func NewClient(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.googleapis.com/customsearch/v1"
	}

	// The provider allows 100 queries/day on the free tier; one request per
	// second with a small burst keeps us well inside short-window limits.
	limiter := rate.NewLimiter(rate.Limit(1), 5)

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		opts:        opts,
		rateLimiter: limiter,
		logger:      logger.With().Str("component", "websearch").Logger(),
	}
}

// Configured reports whether both provider credentials are present.
func (c *Client) Configured() bool {
	return c.opts.APIKey != "" && c.opts.EngineID != ""
}

// searchResponse mirrors the subset of the provider response we consume.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	Link        string `json:"link"`
	DisplayLink string `json:"displayLink"`
}

// Search returns up to limit result items for the query. A single attempt is
// made; any failure is reported as ErrSearchUnavailable and the caller falls
// back to simulation instead of retrying.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.SearchItem, error) {
	if !c.Configured() {
		return nil, domain.ErrSearchNotConfigured
	}
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Add("key", c.opts.APIKey)
	params.Add("cx", c.opts.EngineID)
	params.Add("q", query)
	params.Add("num", strconv.Itoa(limit))
	if c.opts.Country != "" {
		params.Add("gl", c.opts.Country)
	}

	reqURL := fmt.Sprintf("%s?%s", c.opts.BaseURL, params.Encode())

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "RatelShop/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("query", query).Msg("provider request failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrSearchUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("query", query).Msg("provider returned non-OK status")
		return nil, fmt.Errorf("%w: status %d", domain.ErrSearchUnavailable, resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		c.logger.Warn().Err(err).Str("query", query).Msg("provider response decode failed")
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrSearchUnavailable, err)
	}

	items := make([]domain.SearchItem, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		// Skip items with nothing to extract a price from.
		if item.Snippet == "" && item.Title == "" {
			continue
		}
		items = append(items, domain.SearchItem{
			Title:       item.Title,
			Snippet:     item.Snippet,
			DisplayLink: item.DisplayLink,
			Link:        item.Link,
		})
		if len(items) >= limit {
			break
		}
	}

	c.logger.Debug().Int("results", len(items)).Str("query", query).Msg("provider search completed")
	return items, nil
}
