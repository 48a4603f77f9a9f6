package blogboost

import "context"

// ExtractResult holds the extracted content of a page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// Text is the main content as plain text.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	Text string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content as text.
	// The pageURL is used to resolve relative links and may be empty.
	Extract(html string, pageURL string) (*ExtractResult, error)
}

// ContentExtractor fetches a page and returns its bounded main content.
type ContentExtractor interface {
	// ExtractURL fetches the page at url and extracts its main content.
	// The returned text is whitespace-normalized and length-bounded.
	ExtractURL(ctx context.Context, url string) (*ExtractResult, error)
}
