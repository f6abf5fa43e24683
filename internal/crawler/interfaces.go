package crawler

import "github.com/azfin-hq/azfinnews/internal/domain"

// ListingParser extracts articles from raw listing page content. Concrete
// extraction strategies are pluggable (see pkg/apa).
type ListingParser interface {
	ExtractListing(content []byte, baseURL string) ([]domain.Article, error)
}

// BodyParser extracts the readable text of a single article page.
type BodyParser interface {
	ExtractBody(content []byte) (string, error)
}
