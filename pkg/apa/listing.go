package apa

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/azfin-hq/azfinnews/internal/domain"
)

// Package apa extracts articles from the APA.az economy section markup.

const (
	defaultMinTitleLen = 5
	defaultSource      = "APA.az"
)

// ListingExtractor parses an economy listing page into articles.
type ListingExtractor struct {
	Source        string
	MinTitleLen   int
	SkipFragments []string
}

// NewListingExtractor builds an extractor with APA.az defaults. Links whose
// path contains any of skipFragments (currency rates, weather pages) are
// dropped.
func NewListingExtractor(source string, minTitleLen int, skipFragments []string) *ListingExtractor {
	if strings.TrimSpace(source) == "" {
		source = defaultSource
	}
	if minTitleLen <= 0 {
		minTitleLen = defaultMinTitleLen
	}
	if skipFragments == nil {
		skipFragments = []string{"rates", "weather"}
	}
	return &ListingExtractor{
		Source:        source,
		MinTitleLen:   minTitleLen,
		SkipFragments: skipFragments,
	}
}

// ExtractListing returns the articles found in the listing markup. Entries
// with junk links or too-short titles are skipped.
func (e *ListingExtractor) ExtractListing(content []byte, baseURL string) ([]domain.Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var found []domain.Article
	doc.Find("a.item[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, ok := anchor.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		link := resolveLink(base, href)
		if link == "" || e.isJunkLink(link) {
			return
		}

		title := strings.TrimSpace(anchor.Find("h2.title").First().Text())
		if title == "" {
			title = strings.TrimSpace(anchor.Text())
		}
		title = CleanTitle(title)
		if len([]rune(title)) < e.MinTitleLen {
			return
		}

		found = append(found, domain.Article{
			Title:       title,
			Link:        link,
			DisplayDate: extractDisplayDate(anchor),
			Source:      e.Source,
		})
	})

	return found, nil
}

func (e *ListingExtractor) isJunkLink(link string) bool {
	for _, frag := range e.SkipFragments {
		if frag != "" && strings.Contains(link, frag) {
			return true
		}
	}
	return false
}

// extractDisplayDate merges the separately rendered time and date spans into
// one display string.
func extractDisplayDate(anchor *goquery.Selection) string {
	spans := anchor.Find("div.date span")
	switch spans.Length() {
	case 0:
		return ""
	case 1:
		return strings.TrimSpace(spans.First().Text())
	default:
		timeText := strings.TrimSpace(spans.Eq(0).Text())
		dateText := strings.TrimSpace(spans.Eq(1).Text())
		return strings.TrimSpace(timeText + " " + dateText)
	}
}

// CleanTitle strips a stray time/date suffix left over from poorly separated
// listing markup. The suffix is only trimmed when the title tail actually
// contains digits.
func CleanTitle(title string) string {
	runes := []rune(title)
	tail := runes
	if len(runes) > 6 {
		tail = runes[len(runes)-6:]
	}
	hasDigit := false
	for _, r := range tail {
		if unicode.IsDigit(r) {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return title
	}
	return strings.TrimRight(title, "0123456789:.- ")
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "http") {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
