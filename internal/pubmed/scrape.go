package pubmed

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PIPMarker prefixes the reduced "Population Information Program" abstracts
// served on some record pages. Only text carrying this marker is accepted as
// a fallback abstract; anything else is left null rather than guessed.
const PIPMarker = "PIP:"

// scrapeAbstract fetches the public record page for a PMID and extracts the
// abstract block. The bool result reports whether the text is a usable PIP
// abstract.
func (c *Client) scrapeAbstract(ctx context.Context, pmid string) (string, bool, error) {
	if err := c.scrapeLimiter.Wait(ctx); err != nil {
		return "", false, fmt.Errorf("rate limiter: %w", err)
	}

	pageURL := fmt.Sprintf("%s/%s/", c.recordURL, pmid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, &APIError{StatusCode: resp.StatusCode, URL: pageURL}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("%w: parsing record page: %v", ErrInvalidResponse, err)
	}

	return extractPIPAbstract(doc)
}

// extractPIPAbstract pulls the abstract block out of a record page document.
func extractPIPAbstract(doc *goquery.Document) (string, bool, error) {
	block := doc.Find("section.abstract").First()
	if block.Length() == 0 {
		block = doc.Find("div.abstract").First()
	}
	if block.Length() == 0 {
		return "", false, nil
	}

	var parts []string
	block.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := strings.TrimSpace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})

	var text string
	if len(parts) > 0 {
		text = strings.Join(parts, " ")
	} else {
		text = strings.Join(strings.Fields(block.Text()), " ")
	}

	return text, strings.HasPrefix(text, PIPMarker), nil
}
