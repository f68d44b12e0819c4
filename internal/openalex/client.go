// Package openalex searches the OpenAlex works API with cursor pagination.
package openalex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the OpenAlex works endpoint.
	BaseURL = "https://api.openalex.org/works"

	// DefaultPerPage and DefaultMaxPages bound a single search.
	DefaultPerPage  = 200
	DefaultMaxPages = 5

	// PageInterval is the minimum spacing between page requests.
	PageInterval = 300 * time.Millisecond

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// firstCursor is the opaque cursor value that starts pagination.
	firstCursor = "*"
)

// Common errors returned by the OpenAlex client.
var (
	// ErrEmptyQuery indicates a search with neither title nor abstract terms.
	ErrEmptyQuery = errors.New("empty OpenAlex query")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with OpenAlex")

	// ErrInvalidResponse indicates an unexpected API payload.
	ErrInvalidResponse = errors.New("invalid response from OpenAlex")
)

// APIError represents a non-success response from the works endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenAlex API error (status %d): %s", e.StatusCode, e.Body)
}

// Work is one raw OpenAlex result. The normalizer converts it to the
// canonical shape.
type Work struct {
	Title    string
	Venue    string
	Year     int
	Abstract string
}

// Query describes one works search. Title and abstract terms are OR-ed
// within their field; exclusion terms become negated concept clauses.
type Query struct {
	TitleTerms    []string
	AbstractTerms []string
	ExcludeTerms  []string
	PerPage       int
	MaxPages      int
}

// FilterString renders the query as an OpenAlex filter expression.
func (q Query) FilterString() string {
	var filters []string
	if len(q.TitleTerms) > 0 {
		filters = append(filters, "title.search:"+strings.Join(q.TitleTerms, "|"))
	}
	if len(q.AbstractTerms) > 0 {
		filters = append(filters, "abstract.search:"+strings.Join(q.AbstractTerms, "|"))
	}
	for _, t := range q.ExcludeTerms {
		filters = append(filters, "NOT concepts.display_name:"+t)
	}
	return strings.Join(filters, ",")
}

// Client is a rate-limited OpenAlex API client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	email      string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the bearer token for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithEmail sets the polite-pool contact email.
func WithEmail(email string) ClientOption {
	return func(c *Client) { c.email = email }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates an OpenAlex client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(PageInterval), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type worksResponse struct {
	Meta struct {
		Count      int    `json:"count"`
		NextCursor string `json:"next_cursor"`
	} `json:"meta"`
	Results []workResult `json:"results"`
}

type workResult struct {
	Title     string `json:"title"`
	HostVenue struct {
		DisplayName string `json:"display_name"`
	} `json:"host_venue"`
	PublicationYear       int              `json:"publication_year"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
}

// Search runs a filtered works search, following the opaque cursor until it
// is exhausted or the page cap is hit.
func (c *Client) Search(ctx context.Context, q Query) ([]Work, error) {
	if len(q.TitleTerms) == 0 && len(q.AbstractTerms) == 0 {
		return nil, ErrEmptyQuery
	}
	if q.PerPage <= 0 {
		q.PerPage = DefaultPerPage
	}
	if q.MaxPages <= 0 {
		q.MaxPages = DefaultMaxPages
	}

	filter := q.FilterString()
	cursor := firstCursor

	var works []Work
	for page := 0; page < q.MaxPages; page++ {
		resp, err := c.fetchPage(ctx, filter, cursor, q.PerPage)
		if err != nil {
			return nil, err
		}

		for _, w := range resp.Results {
			works = append(works, Work{
				Title:    w.Title,
				Venue:    w.HostVenue.DisplayName,
				Year:     w.PublicationYear,
				Abstract: ReconstructAbstract(w.AbstractInvertedIndex),
			})
		}

		cursor = resp.Meta.NextCursor
		if cursor == "" {
			break
		}
	}

	return works, nil
}

func (c *Client) fetchPage(ctx context.Context, filter, cursor string, perPage int) (*worksResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("filter", filter)
	params.Set("per-page", fmt.Sprintf("%d", perPage))
	params.Set("cursor", cursor)
	if c.email != "" {
		params.Set("mailto", c.email)
	}

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "lsr/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var page worksResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: parsing works page: %v", ErrInvalidResponse, err)
	}
	return &page, nil
}

// ReconstructAbstract rebuilds plain text from OpenAlex's inverted index,
// which maps each word to its positions in the abstract.
func ReconstructAbstract(index map[string][]int) string {
	if len(index) == 0 {
		return ""
	}

	maxPos := 0
	for _, positions := range index {
		for _, pos := range positions {
			if pos > maxPos {
				maxPos = pos
			}
		}
	}

	words := make([]string, maxPos+1)
	for word, positions := range index {
		for _, pos := range positions {
			if pos >= 0 && pos <= maxPos {
				words[pos] = word
			}
		}
	}

	var sb strings.Builder
	for _, word := range words {
		if word == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(word)
	}
	return sb.String()
}
