package blogboost

import "context"

// SearchResult is a single organic result returned by a search provider.
type SearchResult struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Reference is a third-party article used as inspiration and cited in the
// rewritten output. Content is extracted plain text and may be empty when
// extraction failed.
type Reference struct {
	Title   string
	URL     string
	Content string
}

// Searcher queries a web search provider.
type Searcher interface {
	// Search returns organic results for query in ranked order.
	Search(ctx context.Context, query string, num int) ([]SearchResult, error)
}

// ReferenceFinder discovers candidate references for an article.
type ReferenceFinder interface {
	// Discover returns at most limit host-diverse candidates for the article.
	// Returning fewer than limit is not an error.
	Discover(ctx context.Context, title, sourceURL string, limit int) ([]SearchResult, error)
}
