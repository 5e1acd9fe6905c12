package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/macrolens/foodlog/internal/domain"
	"github.com/macrolens/foodlog/internal/platform/logger"
	"golang.org/x/time/rate"
)

const (
	maxAttempts          = 3
	baseBackoff          = 500 * time.Millisecond
	maxErrorBodyBytes    = 4 << 10
	maxResponseBodyBytes = 16 << 20
	defaultPageSize      = 10
	defaultDetailTimeout = 8 * time.Second
	defaultRequestsHour  = 1000
	limiterBurst         = 10
)

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient    *http.Client
	apiKey        string
	baseURL       string
	rateLimiter   *rate.Limiter
	pageSize      int
	detailTimeout time.Duration
	debug         bool
	log           *logger.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithLogger sets the client's logger
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log.With("component", "usda")
		}
	}
}

// WithRequestsPerHour sets the upstream rate budget
func WithRequestsPerHour(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.rateLimiter = rate.NewLimiter(perHour(n), limiterBurst)
		}
	}
}

// WithPageSize sets how many foods a search returns
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithDetailTimeout bounds each detail fetch
func WithDetailTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.detailTimeout = d
		}
	}
}

// NewClient creates a new USDA API client
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:        apiKey,
		baseURL:       baseURL,
		rateLimiter:   rate.NewLimiter(perHour(defaultRequestsHour), limiterBurst),
		pageSize:      defaultPageSize,
		detailTimeout: defaultDetailTimeout,
		log:           logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// perHour converts an hourly budget to rate.Limit (requests per second).
// USDA allows 1000 requests per hour, roughly 0.278 per second.
func perHour(n int) rate.Limit {
	return rate.Limit(float64(n) / 3600)
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(msg string, keysAndValues ...interface{}) {
	if c.debug {
		c.log.Debug(msg, keysAndValues...)
	}
}

// exponentialBackoff returns the wait before retrying after the given attempt
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return baseBackoff << (attempt - 1)
}

// isRetryable reports whether a status code is worth another attempt
func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// SearchFoods searches for foods in the USDA database
func (c *Client) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	c.debugLog("search foods", "query", query)

	endpoint := fmt.Sprintf("%s/v1/foods/search", c.baseURL)
	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("pageSize", strconv.Itoa(c.pageSize))

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	body, err := c.get(ctx, reqURL, maxAttempts)
	if err != nil {
		return nil, err
	}

	var searchResp domain.USDASearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		c.log.Warn("USDA JSON decode error", "error", err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(searchResp.Foods) == 0 {
		c.debugLog("no foods found", "query", query)
		return nil, domain.ErrProductNotFound
	}

	c.debugLog("found foods", "query", query, "count", len(searchResp.Foods))
	return &searchResp, nil
}

// GetFoodDetails retrieves detailed nutrition information for a specific food by FDC ID.
// The call is bounded by the client's detail timeout.
func (c *Client) GetFoodDetails(ctx context.Context, fdcID int64) (*domain.USDAFood, error) {
	ctx, cancel := context.WithTimeout(ctx, c.detailTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/v1/food/%d", c.baseURL, fdcID)
	params := url.Values{}
	params.Add("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	c.debugLog("get food details", "fdc_id", fdcID)

	body, err := c.get(ctx, reqURL, 1)
	if err != nil {
		return nil, err
	}

	var food domain.USDAFood
	if err := json.Unmarshal(body, &food); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &food, nil
}

// get executes a rate-limited GET, retrying network errors, 429 and 5xx up to attempts times
func (c *Client) get(ctx context.Context, reqURL string, attempts int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "foodlog/1.0")
	req.Header.Set("Accept", "application/json")

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, exponentialBackoff(attempt-1)); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			c.log.Warn("rate limiter error", "error", err)
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.httpClient.Do(req.Clone(ctx))
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
			c.log.Warn("USDA request error", "attempt", attempt, "error", err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			body, err := readLimitedBody(resp.Body, maxResponseBodyBytes)
			resp.Body.Close()
			if err != nil {
				lastErr = fmt.Errorf("%w: read body: %v", domain.ErrUSDAAPIFailure, err)
				continue
			}
			return body, nil
		}

		body, _ := readLimitedBody(resp.Body, maxErrorBodyBytes)
		resp.Body.Close()
		c.log.Warn("USDA API error", "attempt", attempt, "status", resp.StatusCode, "body", string(body))

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		lastErr = fmt.Errorf("%w: status %d", domain.ErrUSDAAPIFailure, resp.StatusCode)
		if !isRetryable(resp.StatusCode) {
			return nil, lastErr
		}
	}

	c.log.Warn("all USDA attempts failed", "attempts", attempts)
	return nil, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
