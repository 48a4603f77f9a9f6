package mock

import (
	"context"

	"github.com/fwojciec/blogboost"
)

var (
	_ blogboost.Searcher        = (*Searcher)(nil)
	_ blogboost.ReferenceFinder = (*ReferenceFinder)(nil)
)

// Searcher is a mock implementation of blogboost.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string, num int) ([]blogboost.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string, num int) ([]blogboost.SearchResult, error) {
	return s.SearchFn(ctx, query, num)
}

// ReferenceFinder is a mock implementation of blogboost.ReferenceFinder.
type ReferenceFinder struct {
	DiscoverFn func(ctx context.Context, title, sourceURL string, limit int) ([]blogboost.SearchResult, error)
}

func (f *ReferenceFinder) Discover(ctx context.Context, title, sourceURL string, limit int) ([]blogboost.SearchResult, error) {
	return f.DiscoverFn(ctx, title, sourceURL, limit)
}
