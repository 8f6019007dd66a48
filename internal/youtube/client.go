package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"coursespider/internal/config"
	"coursespider/internal/logging"
)

// Client talks to the YouTube Data API v3. All requests pass the shared
// rate limiter and carry the caller's context.
type Client struct {
	apiKey     string
	baseURL    string
	searchMax  int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New builds a client from config. The base URL is configurable so tests
// can point it at a local server.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		apiKey:    cfg.YouTube.APIKey,
		baseURL:   cfg.YouTube.BaseURL,
		searchMax: cfg.YouTube.SearchMaxResults,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.YouTube.RequestTimeout) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.YouTube.RateLimitPerSecond), 1),
		logger:  logging.WithComponent(logger, "youtube"),
	}
}

// get performs one API call and decodes the JSON response into dest.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("key", c.apiKey)
	apiURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("youtube %s: status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode youtube %s response: %w", endpoint, err)
	}
	return nil
}
