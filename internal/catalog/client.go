package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"cratematch/internal/logging"
	"cratematch/internal/matching"
	"cratematch/internal/services"
)

// Client searches the Beatsearch catalog API. It satisfies the matching
// pipeline's CandidateSource contract.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *Cache
	logger     *slog.Logger
}

var _ matching.CandidateSource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit throttles outgoing requests to the given rate. Zero or
// negative disables throttling.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
		}
	}
}

// WithCache attaches a response cache consulted before every request.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "catalog")
		}
	}
}

// New creates a catalog client for the given API base URL.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "new", "base url required", nil)
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search queries the catalog and returns raw candidates. Results come from
// the cache when a fresh entry exists; live responses are stored back.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]matching.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "search", "query must not be empty", nil)
	}
	if limit <= 0 {
		limit = 10
	}

	if c.cache != nil {
		if cached, ok := c.cache.Lookup(ctx, query, limit); ok {
			return cached, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, services.Wrap(services.ErrTimeout, "catalog", "search", "rate limiter wait interrupted", err)
		}
	}

	payload, err := c.fetch(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	candidates := make([]matching.Candidate, 0, len(payload.Results))
	for _, result := range payload.Results {
		candidates = append(candidates, result.candidate())
	}

	if c.cache != nil {
		c.cache.Store(ctx, query, limit, candidates)
	}
	return candidates, nil
}

func (c *Client) fetch(ctx context.Context, query string, limit int) (*searchResponse, error) {
	endpoint, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "search", "parse catalog url", err)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(limit))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrBackend, "catalog", "search", "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "catalog", "search",
			fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, services.Wrap(services.ErrTransient, "catalog", "search",
			fmt.Sprintf("catalog rate limited the request (latency=%v)", latency), nil)
	case resp.StatusCode >= 500:
		return nil, services.Wrap(services.ErrTransient, "catalog", "search",
			fmt.Sprintf("catalog returned %d (latency=%v)", resp.StatusCode, latency), nil)
	default:
		return nil, services.Wrap(services.ErrBackend, "catalog", "search",
			fmt.Sprintf("catalog returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrBackend, "catalog", "search", "decode catalog response", err)
	}
	c.logger.Debug("catalog search",
		logging.String("query", query),
		logging.Int("results", len(payload.Results)),
		logging.Duration("latency", latency))
	return &payload, nil
}
