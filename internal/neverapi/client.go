// Package neverapi provides a rate-limited HTTP client for the Never
// taxonomy data provider. All endpoints return arrays of taxon entries;
// the parent and mrca endpoints may return a bare object, which the client
// normalizes. HTTP 429 responses are retried with a fixed delay up to a
// bounded count; every other failure propagates immediately.
package neverapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/evolab/taxatree/internal/taxon"
)

const (
	// BaseURL is the default taxonomy API base URL.
	BaseURL = "https://api.never.bio/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is the default outgoing request rate in requests per second.
	RateLimit = 10.0

	// DefaultMaxRetries is how many times a 429 response is retried before
	// the call fails permanently.
	DefaultMaxRetries = 5

	// DefaultRetryDelay is the fixed delay between 429 retries.
	DefaultRetryDelay = time.Second

	// DefaultPageSize is the default page size for search requests.
	DefaultPageSize = 20
)

// Client is a rate-limited HTTP client for the taxonomy API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
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

// NewClient creates a new taxonomy API client.
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

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}
		}
		if readErr != nil {
			return nil, fmt.Errorf("%w: reading response: %v", ErrNetworkError, readErr)
		}
		return body, nil
	}
}

// getEntries performs a GET and decodes the result. With atLeastOne set, an
// empty result is an error naming the endpoint and carrying the raw payload
// for diagnosis.
func (c *Client) getEntries(ctx context.Context, endpoint string, params url.Values, atLeastOne bool) ([]Entry, error) {
	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	entries, err := decodeEntries(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	if atLeastOne && len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s?%s returned %q", ErrEmptyResult, endpoint, params.Encode(), string(body))
	}
	return entries, nil
}

// Search queries the taxon-search endpoint. An empty result is not an
// error: suggestion-style searches legitimately match nothing.
func (c *Client) Search(ctx context.Context, term string, exact bool, page, pageSize int) ([]Entry, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	params := url.Values{}
	params.Set("term", term)
	if exact {
		params.Set("exact", "true")
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))
	return c.getEntries(ctx, "taxon-search", params, false)
}

// TaxonByName resolves a scientific name to its taxon via exact search.
func (c *Client) TaxonByName(ctx context.Context, name string) (*taxon.Taxon, error) {
	entries, err := c.Search(ctx, name, true, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return entries[0].Taxon()
}

// InfoByIDs fetches full taxon records for the given ids.
func (c *Client) InfoByIDs(ctx context.Context, ids ...int64) ([]*taxon.Taxon, error) {
	entries, err := c.getEntries(ctx, "taxon-info", idParams(ids), true)
	if err != nil {
		return nil, err
	}
	return entriesToTaxa(entries)
}

// NamesByIDs fetches scientific names for the given ids.
func (c *Client) NamesByIDs(ctx context.Context, ids ...int64) (map[int64]string, error) {
	entries, err := c.getEntries(ctx, "taxon-names", idParams(ids), true)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(entries))
	for _, e := range entries {
		names[e.TaxID] = e.Name
	}
	return names, nil
}

// ChildrenByID fetches the direct children of a taxon. A leaf taxon
// legitimately has none.
func (c *Client) ChildrenByID(ctx context.Context, id int64) ([]*taxon.Taxon, error) {
	entries, err := c.getEntries(ctx, "taxon-children", idParam(id), false)
	if err != nil {
		return nil, err
	}
	return entriesToTaxa(entries)
}

// ParentByID fetches the parent of a taxon. The endpoint returns a bare
// object, normalized to one entry.
func (c *Client) ParentByID(ctx context.Context, id int64) (*taxon.Taxon, error) {
	entries, err := c.getEntries(ctx, "taxon-parent", idParam(id), true)
	if err != nil {
		return nil, err
	}
	return entries[0].Taxon()
}

// SubtreeByID fetches a taxon and all of its descendants as a flat list.
func (c *Client) SubtreeByID(ctx context.Context, id int64) ([]*taxon.Taxon, error) {
	entries, err := c.getEntries(ctx, "taxon-subtree", idParam(id), true)
	if err != nil {
		return nil, err
	}
	return entriesToTaxa(entries)
}

// PathBetween fetches the lineage path connecting two taxa.
func (c *Client) PathBetween(ctx context.Context, a, b int64) ([]*taxon.Taxon, error) {
	params := url.Values{}
	params.Set("a", strconv.FormatInt(a, 10))
	params.Set("b", strconv.FormatInt(b, 10))
	entries, err := c.getEntries(ctx, "taxon-path", params, true)
	if err != nil {
		return nil, err
	}
	return entriesToTaxa(entries)
}

// MRCAByIDs fetches the most recent common ancestor of the given taxa.
func (c *Client) MRCAByIDs(ctx context.Context, ids []int64) (*taxon.Taxon, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("mrca requires at least one taxon id")
	}
	entries, err := c.getEntries(ctx, "taxon-mrca", idParams(ids), true)
	if err != nil {
		return nil, err
	}
	return entries[0].Taxon()
}

// RanksByIDs fetches the rank of each given taxon.
func (c *Client) RanksByIDs(ctx context.Context, ids ...int64) (map[int64]string, error) {
	entries, err := c.getEntries(ctx, "taxon-ranks", idParams(ids), true)
	if err != nil {
		return nil, err
	}
	ranks := make(map[int64]string, len(entries))
	for _, e := range entries {
		ranks[e.TaxID] = e.Rank
	}
	return ranks, nil
}

// AccessionsByID fetches the genome assembly accessions of a taxon.
func (c *Client) AccessionsByID(ctx context.Context, id int64) ([]taxon.Accession, error) {
	entries, err := c.getEntries(ctx, "taxon-accessions", idParam(id), false)
	if err != nil {
		return nil, err
	}
	var accs []taxon.Accession
	for _, e := range entries {
		for _, a := range e.Accessions {
			accs = append(accs, taxon.Accession{
				Accession: a.Accession,
				Level:     taxon.AssemblyLevel(a.Level),
			})
		}
	}
	return accs, nil
}

// idParam formats a single taxon id as the id query parameter.
func idParam(id int64) url.Values {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(id, 10))
	return params
}

// idParams formats taxon ids as the comma-separated ids query parameter.
func idParams(ids []int64) url.Values {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	params := url.Values{}
	params.Set("ids", strings.Join(parts, ","))
	return params
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
