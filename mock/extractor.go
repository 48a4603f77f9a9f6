package mock

import (
	"context"

	"github.com/fwojciec/blogboost"
)

var (
	_ blogboost.Extractor        = (*Extractor)(nil)
	_ blogboost.ContentExtractor = (*ContentExtractor)(nil)
)

// Extractor is a mock implementation of blogboost.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL string) (*blogboost.ExtractResult, error)
}

func (e *Extractor) Extract(html, pageURL string) (*blogboost.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}

// ContentExtractor is a mock implementation of blogboost.ContentExtractor.
type ContentExtractor struct {
	ExtractURLFn func(ctx context.Context, url string) (*blogboost.ExtractResult, error)
}

func (e *ContentExtractor) ExtractURL(ctx context.Context, url string) (*blogboost.ExtractResult, error) {
	return e.ExtractURLFn(ctx, url)
}
