// Package trafilatura implements blogboost.Extractor with go-trafilatura.
package trafilatura

import (
	"net/url"
	"strings"

	"github.com/fwojciec/blogboost"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements blogboost.Extractor at compile time.
var _ blogboost.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil {
			return nil, blogboost.Errorf(blogboost.EINVALID, "invalid page URL: %v", err)
		}
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	return &blogboost.ExtractResult{
		Title: strings.TrimSpace(result.Metadata.Title),
		Text:  blogboost.NormalizeWhitespace(result.ContentText),
	}, nil
}
