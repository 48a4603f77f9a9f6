// Package serper implements blogboost.Searcher against the Serper
// Google Search API.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/blogboost"
)

// DefaultEndpoint is the Serper web search endpoint.
const DefaultEndpoint = blogboost.DefaultSearchURL

// Ensure Searcher implements blogboost.Searcher at compile time.
var _ blogboost.Searcher = (*Searcher)(nil)

// Searcher issues web searches through Serper.
type Searcher struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

// NewSearcher creates a Searcher. An empty endpoint uses DefaultEndpoint;
// a nil client uses a client with blogboost.DefaultSearchTimeout.
func NewSearcher(apiKey, endpoint string, client *http.Client) *Searcher {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: blogboost.DefaultSearchTimeout}
	}
	return &Searcher{client: client, endpoint: endpoint, apiKey: apiKey}
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type searchResponse struct {
	Organic []blogboost.SearchResult `json:"organic"`
}

// Search returns the organic results for query in ranked order.
func (s *Searcher) Search(ctx context.Context, query string, num int) ([]blogboost.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, blogboost.Errorf(blogboost.EINVALID, "search query required")
	}
	if num <= 0 {
		num = 10
	}

	data, err := json.Marshal(searchRequest{Q: query, Num: num})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, blogboost.Errorf(blogboost.EQUOTA, "search provider rate limited")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, blogboost.Errorf(blogboost.EINTERNAL, "search: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return out.Organic, nil
}
