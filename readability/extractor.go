// Package readability implements blogboost.Extractor with go-readability's
// port of Mozilla's Readability main-content algorithm.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/blogboost"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements blogboost.Extractor at compile time.
var _ blogboost.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content as plain text.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*blogboost.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, blogboost.Errorf(blogboost.EINVALID, "empty HTML input")
	}

	var u *url.URL
	if pageURL != "" {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			return nil, blogboost.Errorf(blogboost.EINVALID, "invalid page URL: %v", err)
		}
		u = parsed
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, err
	}

	return &blogboost.ExtractResult{
		Title: strings.TrimSpace(article.Title),
		Text:  blogboost.NormalizeWhitespace(article.TextContent),
	}, nil
}
