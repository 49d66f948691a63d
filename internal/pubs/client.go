package pubs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the default publication API base URL.
	BaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is the default outgoing request rate in requests per second.
	// The public tier throttles aggressively, so this stays low.
	RateLimit = 1.0

	// DefaultMaxRetries is how many times a 429 response is retried before
	// the call fails permanently.
	DefaultMaxRetries = 5

	// DefaultRetryDelay is the fixed delay between 429 retries.
	DefaultRetryDelay = time.Second

	// DefaultPageSize is the default page size for search requests.
	DefaultPageSize = 10

	// paperFields is the field list requested for every paper record.
	paperFields = "title,abstract,year,publicationDate,citationCount,referenceCount,authors,journal,externalIds,openAccessPdf"
)

// Common errors returned by the publication client.
var (
	// ErrNotFound indicates no paper matched the query.
	ErrNotFound = errors.New("paper not found")

	// ErrRateLimited indicates the rate limit was still exceeded after retrying.
	ErrRateLimited = errors.New("publication API rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with publication API")
)

// APIError represents a non-2xx response from the publication API.
type APIError struct {
	StatusCode int
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("publication API error (status %d, endpoint %s)", e.StatusCode, e.Endpoint)
}

// Client is a rate-limited HTTP client for the publication API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	maxRetries int
	retryDelay time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAPIKey sets the API key sent with every request. Keyed access gets a
// higher rate allowance upstream.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithRetry sets the 429 retry bound and the fixed delay between attempts.
func WithRetry(maxRetries int, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryDelay = delay
	}
}

// WithRateLimit sets the outgoing request rate in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new publication API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs one GET against an endpoint, retrying 429 responses with a
// fixed delay. It returns the raw response body.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-api-key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if attempt >= c.maxRetries {
				return nil, fmt.Errorf("%w: %s still throttled after %d retries", ErrRateLimited, endpoint, c.maxRetries)
			}
			if err := sleep(ctx, c.retryDelay); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, endpoint)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}
		}
		if readErr != nil {
			return nil, fmt.Errorf("%w: reading response: %v", ErrNetworkError, readErr)
		}
		return body, nil
	}
}

// Search queries papers matching a free-text term, usually a scientific
// name. Results are paginated by offset; an empty page is not an error.
func (c *Client) Search(ctx context.Context, term string, offset, limit int) (*SearchPage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	params := url.Values{}
	params.Set("query", term)
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", paperFields)

	body, err := c.get(ctx, "paper/search", params)
	if err != nil {
		return nil, err
	}

	var page SearchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("paper/search: decoding response: %w", err)
	}
	return &page, nil
}

// PaperByID fetches one paper by its API id or a prefixed external id such
// as "DOI:10.1093/sysbio/syy032".
func (c *Client) PaperByID(ctx context.Context, id string) (*Paper, error) {
	params := url.Values{}
	params.Set("fields", paperFields)

	body, err := c.get(ctx, "paper/"+url.PathEscape(id), params)
	if err != nil {
		return nil, err
	}

	var paper Paper
	if err := json.Unmarshal(body, &paper); err != nil {
		return nil, fmt.Errorf("paper/%s: decoding response: %w", id, err)
	}
	return &paper, nil
}

// PaperByDOI fetches one paper by DOI.
func (c *Client) PaperByDOI(ctx context.Context, doi string) (*Paper, error) {
	return c.PaperByID(ctx, "DOI:"+doi)
}

// sleep waits for the given duration or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
