package apa

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// articleBodySelectors are tried in order; the first matching node wins. The
// positional chain mirrors the APA.az article layout, with the itemprop
// selector as a stable fallback.
var articleBodySelectors = []string{
	"body > main > div:nth-of-type(2) > div:nth-of-type(2) > div:nth-of-type(2) > " +
		"div > div:nth-of-type(1) > div:nth-of-type(1) > div:nth-of-type(3) > div:nth-of-type(3)",
	`div.texts.mb-site[itemprop="articleBody"]`,
}

// BodyExtractor pulls the readable text out of a single article page.
type BodyExtractor struct{}

// NewBodyExtractor builds the APA.az article body extractor.
func NewBodyExtractor() *BodyExtractor { return &BodyExtractor{} }

// ExtractBody returns the article text with paragraphs separated by blank
// lines. When no known body container matches, the whole document text is
// used.
func (e *BodyExtractor) ExtractBody(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse article html: %w", err)
	}

	var node *goquery.Selection
	for _, sel := range articleBodySelectors {
		if candidate := doc.Find(sel).First(); candidate.Length() > 0 {
			node = candidate
			break
		}
	}
	if node == nil {
		node = doc.Selection
	}

	return blockText(node), nil
}

// blockText joins the node's paragraph-level blocks with blank lines, falling
// back to the node's flattened text when it has no block children.
func blockText(node *goquery.Selection) string {
	var blocks []string
	node.Find("p, h1, h2, h3, li").Each(func(_ int, block *goquery.Selection) {
		if text := strings.TrimSpace(block.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		return strings.TrimSpace(node.Text())
	}
	return strings.Join(blocks, "\n\n")
}
