// Package pubmed fetches citation records through the NCBI E-utilities,
// with a rate-limited scrape of the public record page as an abstract
// fallback.
package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wnk4242/lsr/internal/record"
)

const (
	// ESearchURL and EFetchURL are the E-utilities endpoints.
	ESearchURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	EFetchURL  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"

	// RecordPageURL is the public per-record page used for the PIP fallback.
	RecordPageURL = "https://pubmed.ncbi.nlm.nih.gov"

	// FetchBatchSize is the number of PMIDs per efetch call.
	FetchBatchSize = 50

	// EntrezInterval is the minimum spacing between E-utilities calls.
	// NCBI allows 3 req/s without an API key; exceeding it risks a ban,
	// so the limiter is a correctness requirement.
	EntrezInterval = 300 * time.Millisecond

	// ScrapeInterval is the minimum spacing between record-page scrapes.
	ScrapeInterval = 500 * time.Millisecond

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Citation is one raw PubMed record. The normalizer converts it to the
// canonical shape; this package never deduplicates or reorders.
type Citation struct {
	PMID           string
	Title          string
	Journal        string
	Year           string
	Abstract       string
	AbstractSource string // pubmed_xml, pip_web, or none
}

// SearchPage is one esearch result page: the identifiers actually returned
// plus the server-reported total, which may exceed the page.
type SearchPage struct {
	PMIDs     []string
	TotalHits int
}

// Client is a rate-limited E-utilities client.
type Client struct {
	httpClient    *http.Client
	entrezLimiter *rate.Limiter
	scrapeLimiter *rate.Limiter
	email         string
	searchURL     string
	fetchURL      string
	recordURL     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEmail sets the contact email sent in the User-Agent, per NCBI usage
// policy.
func WithEmail(email string) ClientOption {
	return func(c *Client) { c.email = email }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURLs points the client at custom endpoints (for testing).
func WithBaseURLs(search, fetch, record string) ClientOption {
	return func(c *Client) {
		c.searchURL = search
		c.fetchURL = fetch
		c.recordURL = record
	}
}

// NewClient creates a PubMed client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: DefaultTimeout},
		entrezLimiter: rate.NewLimiter(rate.Every(EntrezInterval), 1),
		scrapeLimiter: rate.NewLimiter(rate.Every(ScrapeInterval), 1),
		searchURL:     ESearchURL,
		fetchURL:      EFetchURL,
		recordURL:     RecordPageURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search submits a boolean query conjoined with a publication-date range
// filter and returns one page of up to retmax PMIDs plus the total hit
// count.
func (c *Client) Search(ctx context.Context, query string, retmax, startYear, endYear int) (*SearchPage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if retmax <= 0 {
		retmax = 100
	}

	dateFilter := fmt.Sprintf(`("%d"[Date - Publication] : "%d"[Date - Publication])`, startYear, endYear)
	fullQuery := fmt.Sprintf("%s AND %s", query, dateFilter)

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", fullQuery)
	params.Set("retmax", fmt.Sprintf("%d", retmax))
	params.Set("retmode", "xml")

	body, err := c.getEntrez(ctx, c.searchURL, params)
	if err != nil {
		return nil, err
	}

	var result esearchResult
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: parsing esearch result: %v", ErrInvalidResponse, err)
	}

	return &SearchPage{
		PMIDs:     result.IDList.IDs,
		TotalHits: result.Count,
	}, nil
}

// Fetch retrieves full citation records for the given PMIDs, batching the
// efetch calls. Records missing a structured abstract come back with
// AbstractSource "none"; use FetchWithFallback to fill them from the public
// record pages.
func (c *Client) Fetch(ctx context.Context, pmids []string) ([]Citation, error) {
	var citations []Citation

	for start := 0; start < len(pmids); start += FetchBatchSize {
		end := start + FetchBatchSize
		if end > len(pmids) {
			end = len(pmids)
		}

		batch, err := c.fetchBatch(ctx, pmids[start:end])
		if err != nil {
			return nil, err
		}
		citations = append(citations, batch...)
	}

	return citations, nil
}

// FetchWithFallback fetches citations and then scrapes the public record
// page for each citation that lacks an abstract, keeping only PIP-marked
// abstract text. Scrape failures fail the whole fetch; there is no
// partial-result suppression.
func (c *Client) FetchWithFallback(ctx context.Context, pmids []string) ([]Citation, error) {
	citations, err := c.Fetch(ctx, pmids)
	if err != nil {
		return nil, err
	}

	for i := range citations {
		if citations[i].Abstract != "" {
			continue
		}
		text, isPIP, err := c.scrapeAbstract(ctx, citations[i].PMID)
		if err != nil {
			return nil, err
		}
		if isPIP {
			citations[i].Abstract = text
			citations[i].AbstractSource = record.SourcePIPWeb
		}
	}

	return citations, nil
}

func (c *Client) fetchBatch(ctx context.Context, pmids []string) ([]Citation, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "xml")

	body, err := c.getEntrez(ctx, c.fetchURL, params)
	if err != nil {
		return nil, err
	}

	return parseArticleSet(body)
}

// getEntrez performs one rate-limited GET against an E-utilities endpoint.
func (c *Client) getEntrez(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.entrezLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	if c.email != "" {
		params.Set("email", c.email)
	}

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

func (c *Client) userAgent() string {
	if c.email != "" {
		return fmt.Sprintf("lsr/1.0 (email: %s)", c.email)
	}
	return "lsr/1.0"
}
