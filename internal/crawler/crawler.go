package crawler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/azfin-hq/azfinnews/internal/domain"
	"github.com/azfin-hq/azfinnews/internal/logger"
	"github.com/azfin-hq/azfinnews/pkg/httpclient"
)

// Crawler fetches and parses listing pages for a single source. Fetch
// failures are logged and swallowed: a failed page yields zero articles, the
// poll loop decides what happens next.
type Crawler struct {
	client  httpclient.Client
	listing ListingParser
	body    BodyParser
	baseURL string
	log     logger.Logger
}

// New wires a crawler for the given base listing URL.
func New(client httpclient.Client, listing ListingParser, body BodyParser, baseURL string, log logger.Logger) *Crawler {
	return &Crawler{
		client:  client,
		listing: listing,
		body:    body,
		baseURL: baseURL,
		log:     logger.Ensure(log),
	}
}

// PageURL builds the listing URL for a page. Page 1 is the bare base URL;
// later pages append the page query parameter.
func (c *Crawler) PageURL(page int) string {
	if page <= 1 {
		return c.baseURL
	}
	return fmt.Sprintf("%s?page=%d", c.baseURL, page)
}

// CrawlPage fetches and parses one listing page. Any failure yields an empty
// slice; the error stays inside this boundary.
func (c *Crawler) CrawlPage(ctx context.Context, page int) []domain.Article {
	url := c.PageURL(page)

	content, err := c.fetch(ctx, url)
	if err != nil {
		c.log.WarnObj("listing page fetch failed", "fetch_error", map[string]any{
			"url":   url,
			"page":  page,
			"error": err.Error(),
		})
		return nil
	}

	articles, err := c.listing.ExtractListing(content, c.baseURL)
	if err != nil {
		c.log.WarnObj("listing page parse failed", "parse_error", map[string]any{
			"url":   url,
			"page":  page,
			"error": err.Error(),
		})
		return nil
	}
	return articles
}

// CrawlAll walks pages 1..maxPages strictly in order, stopping at the first
// page that yields no articles. An empty page is the end of the listing, not
// an error.
func (c *Crawler) CrawlAll(ctx context.Context, maxPages int) []domain.Article {
	var collected []domain.Article
	for page := 1; page <= maxPages; page++ {
		select {
		case <-ctx.Done():
			return collected
		default:
		}

		items := c.CrawlPage(ctx, page)
		if len(items) == 0 {
			break
		}
		collected = append(collected, items...)
	}
	return collected
}

// FetchBody retrieves one article page and extracts its readable text.
func (c *Crawler) FetchBody(ctx context.Context, link string) (string, error) {
	content, err := c.fetch(ctx, link)
	if err != nil {
		return "", fmt.Errorf("fetch article: %w", err)
	}
	text, err := c.body.ExtractBody(content)
	if err != nil {
		return "", fmt.Errorf("extract article body: %w", err)
	}
	return text, nil
}

func (c *Crawler) fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.client.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode())
	}
	return httpclient.NormalizeBody(resp.Body(), resp.ContentType()), nil
}
