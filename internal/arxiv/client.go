// Package arxiv searches the arXiv Atom API.
package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// BaseURL is the arXiv export API endpoint.
	BaseURL = "http://export.arxiv.org/api/query"

	// DefaultMaxResults bounds a single-page search.
	DefaultMaxResults = 200

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Common errors returned by the arXiv client.
var (
	// ErrEmptyQuery indicates a search with no query string.
	ErrEmptyQuery = errors.New("empty arXiv query")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with arXiv")

	// ErrInvalidResponse indicates an unparseable Atom feed.
	ErrInvalidResponse = errors.New("invalid response from arXiv")
)

// APIError represents a non-success response from the export API.
type APIError struct {
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("arXiv API error (status %d)", e.StatusCode)
}

// Entry is one raw feed entry. The normalizer converts it to the canonical
// shape; year is derived from the first four characters of Published.
type Entry struct {
	Title     string
	Summary   string
	Published string
}

// Client queries the arXiv Atom API. Searches are a single page sorted by
// submission date descending, in the service's native boolean query syntax
// (e.g. `(ti:replication OR abs:replication) AND cat:stat.ME`).
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates an arXiv client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
}

// Search runs a native-syntax query and returns up to maxResults entries,
// newest submissions first.
func (c *Client) Search(ctx context.Context, query string, maxResults, start int) ([]Entry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", fmt.Sprintf("%d", start))
	params.Set("max_results", fmt.Sprintf("%d", maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("%w: parsing Atom feed: %v", ErrInvalidResponse, err)
	}

	entries := make([]Entry, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		entries = append(entries, Entry{
			Title:     collapseWhitespace(e.Title),
			Summary:   collapseWhitespace(e.Summary),
			Published: e.Published,
		})
	}
	return entries, nil
}

// collapseWhitespace trims an Atom text field and folds its internal
// newlines, which arXiv inserts mid-title.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
