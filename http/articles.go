package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/blogboost"
)

// Ensure ArticleService implements blogboost.ArticleService at compile time.
var _ blogboost.ArticleService = (*ArticleService)(nil)

// ArticleService is a client for the article store HTTP API.
type ArticleService struct {
	client  *http.Client
	baseURL string
}

// NewArticleService creates a client for the API rooted at baseURL
// (e.g. http://localhost:8000/api). A nil client uses a client with
// blogboost.DefaultStoreTimeout.
func NewArticleService(baseURL string, client *http.Client) *ArticleService {
	if client == nil {
		client = &http.Client{Timeout: blogboost.DefaultStoreTimeout}
	}
	return &ArticleService{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// articlePayload is the write body accepted by POST and PUT /articles.
type articlePayload struct {
	Title             string               `json:"title"`
	Content           string               `json:"content"`
	SourceURL         string               `json:"source_url"`
	Slug              string               `json:"slug,omitempty"`
	IsGenerated       bool                 `json:"is_generated"`
	OriginalArticleID *blogboost.ArticleID `json:"original_article_id,omitempty"`
	PublishedAt       *time.Time           `json:"published_at,omitempty"`
}

func newArticlePayload(a *blogboost.Article) articlePayload {
	return articlePayload{
		Title:             a.Title,
		Content:           a.Content,
		SourceURL:         a.SourceURL,
		Slug:              a.Slug,
		IsGenerated:       a.IsGenerated,
		OriginalArticleID: a.OriginalArticleID,
		PublishedAt:       a.PublishedAt,
	}
}

// FindArticles lists articles in store order.
func (s *ArticleService) FindArticles(ctx context.Context, filter blogboost.ArticleFilter) ([]*blogboost.Article, error) {
	q := url.Values{}
	if filter.Order != blogboost.OrderDefault {
		q.Set("order", string(filter.Order))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	u := s.baseURL + "/articles"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	body, err := s.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	// Accept both a bare array and a paginated {"data": [...]} envelope.
	var articles []*blogboost.Article
	if err := json.Unmarshal(body, &articles); err == nil {
		return articles, nil
	}
	var envelope struct {
		Data []*blogboost.Article `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	return envelope.Data, nil
}

// CreateArticle creates a new article.
func (s *ArticleService) CreateArticle(ctx context.Context, article *blogboost.Article) (*blogboost.Article, error) {
	if err := article.Validate(); err != nil {
		return nil, err
	}
	if article.Slug == "" {
		return nil, blogboost.Errorf(blogboost.EINVALID, "article slug required")
	}

	body, err := s.do(ctx, http.MethodPost, s.baseURL+"/articles", newArticlePayload(article))
	if err != nil {
		return nil, err
	}

	var created blogboost.Article
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("decode created article: %w", err)
	}
	return &created, nil
}

// UpdateArticle replaces the fields of an existing article.
func (s *ArticleService) UpdateArticle(ctx context.Context, id blogboost.ArticleID, article *blogboost.Article) (*blogboost.Article, error) {
	if id == "" {
		return nil, blogboost.Errorf(blogboost.EINVALID, "article ID required")
	}
	if err := article.Validate(); err != nil {
		return nil, err
	}

	payload := newArticlePayload(article)
	payload.Slug = ""

	u := s.baseURL + "/articles/" + url.PathEscape(string(id))
	body, err := s.do(ctx, http.MethodPut, u, payload)
	if err != nil {
		return nil, err
	}

	var updated blogboost.Article
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("decode updated article: %w", err)
	}
	return &updated, nil
}

// do sends a JSON request and returns the response body of a 2xx response.
func (s *ArticleService) do(ctx context.Context, method, u string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return body, nil
	}

	msg := blogboost.Truncate(strings.TrimSpace(string(body)), 512)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, blogboost.Errorf(blogboost.ENOTFOUND, "%s %s: not found", method, u)
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return nil, blogboost.Errorf(blogboost.ECONFLICT, "%s %s: HTTP %d: %s", method, u, resp.StatusCode, msg)
	default:
		return nil, blogboost.Errorf(blogboost.EINTERNAL, "%s %s: HTTP %d: %s", method, u, resp.StatusCode, msg)
	}
}
