package enhance

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/blogboost"
)

var _ blogboost.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor fetches a page and extracts its main text with a primary
// extractor, falling back to a selector-based one when the primary fails or
// finds nothing.
type ContentExtractor struct {
	Fetcher  blogboost.Fetcher
	Primary  blogboost.Extractor
	Fallback blogboost.Extractor

	// MaxChars bounds the returned text in runes; zero means
	// blogboost.DefaultExtractMaxChars.
	MaxChars int
}

// ExtractURL implements blogboost.ContentExtractor.
func (e *ContentExtractor) ExtractURL(ctx context.Context, url string) (*blogboost.ExtractResult, error) {
	html, err := e.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	result, err := extract(e.Primary, html, url)
	if (err != nil || result == nil || blogboost.NormalizeWhitespace(result.Text) == "") && e.Fallback != nil {
		result, err = extract(e.Fallback, html, url)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", url, err)
	}
	if result == nil {
		result = &blogboost.ExtractResult{}
	}

	maxChars := e.MaxChars
	if maxChars <= 0 {
		maxChars = blogboost.DefaultExtractMaxChars
	}
	return &blogboost.ExtractResult{
		Title: blogboost.NormalizeWhitespace(result.Title),
		Text:  strings.TrimSpace(blogboost.Truncate(blogboost.NormalizeWhitespace(result.Text), maxChars)),
	}, nil
}

func extract(x blogboost.Extractor, html, url string) (*blogboost.ExtractResult, error) {
	if x == nil {
		return nil, nil
	}
	return x.Extract(html, url)
}
