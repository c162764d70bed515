package flights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/five82/farefinder/internal/cache"
	"github.com/five82/farefinder/internal/search"
)

// Service is the read-only flights API used by the UI.
type Service interface {
	SearchFlights(ctx context.Context, query SearchQuery) (SearchResult, error)
	FetchFlightDetail(ctx context.Context, id string) (*FlightDetail, error)
}

var _ Service = (*Client)(nil)

// Client talks to the flights HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	cache     cache.Cache
	logger    *slog.Logger
	userAgent string
}

const (
	DefaultBaseURL   = "http://localhost:9090/api/v1"
	defaultUserAgent = "farefinder/0.1"
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 8 << 20
)

// Options tune a Client. Zero values fall back to defaults; a zero
// RequestsPerSecond disables throttling.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Cache             cache.Cache
	Logger            *slog.Logger
	UserAgent         string
}

// StatusError is returned when the API answers with a 4xx or 5xx status.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := rate.Inf
	burst := opts.Burst
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		if burst <= 0 {
			burst = 1
		}
	}
	store := opts.Cache
	if store == nil {
		store = cache.NewNoOp()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, burst),
		cache:     store,
		logger:    logger,
		userAgent: userAgent,
	}, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SearchQuery is a search request: the criteria plus the page size.
// Present, when set, holds the location the criteria came from; only its
// keys are sent.
type SearchQuery struct {
	Criteria search.Criteria
	Present  url.Values
	Size     int
}

// Values returns the query string sent to GET /flights.
func (q SearchQuery) Values() url.Values {
	values := search.EncodePresent(q.Criteria, q.Present)
	size := q.Size
	if size <= 0 {
		size = search.DefaultPageSize
	}
	values.Set(search.KeySize, strconv.Itoa(size))
	return values
}

// SearchFlights retrieves one page of offers matching query.
func (c *Client) SearchFlights(ctx context.Context, query SearchQuery) (SearchResult, error) {
	if c == nil {
		return SearchResult{}, fmt.Errorf("client is nil")
	}
	target := c.baseURL.JoinPath("flights")
	target.RawQuery = query.Values().Encode()

	var payload SearchResult
	if err := c.get(ctx, target, &payload); err != nil {
		return SearchResult{}, err
	}
	return payload, nil
}

// FetchFlightDetail retrieves the full record for one offer.
func (c *Client) FetchFlightDetail(ctx context.Context, id string) (*FlightDetail, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("flight id required")
	}
	target := c.baseURL.JoinPath("flights", url.PathEscape(id))

	var payload FlightDetail
	if err := c.get(ctx, target, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Close releases the response cache.
func (c *Client) Close() error {
	if c == nil || c.cache == nil {
		return nil
	}
	return c.cache.Close()
}

func (c *Client) get(ctx context.Context, target *url.URL, dest any) error {
	key := cache.Key(target.String())
	if body, ok := c.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(body, dest); err == nil {
			c.logger.Debug("api cache hit", "path", target.Path)
			return nil
		}
	}

	body, err := c.fetch(ctx, target)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := c.cache.Set(ctx, key, body); err != nil {
		c.logger.Warn("api cache write failed", "path", target.Path, "error", err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, target *url.URL) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			"path", target.Path,
			"request_id", requestID,
			"error", err,
		)
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		"method", req.Method,
		"path", target.Path,
		"query", target.RawQuery,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)

	if resp.StatusCode >= 400 {
		c.logger.Warn("api returned error status",
			"path", target.Path,
			"status", resp.StatusCode,
			"request_id", requestID,
		)
		return nil, &StatusError{Path: target.Path, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
