package blogboost

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"time"
)

// ArticleID is an opaque article identifier assigned by the article store.
// It decodes from JSON numbers or strings and encodes as a number when numeric.
type ArticleID string

// MarshalJSON implements json.Marshaler.
func (id ArticleID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ArticleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ArticleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ArticleID(n.String())
	return nil
}

// Article represents an article held by the article store. Originals are
// scraped pages; generated articles are rewrites linked to their original.
type Article struct {
	ID                ArticleID  `json:"id"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	Slug              string     `json:"slug"`
	SourceURL         string     `json:"source_url"`
	IsGenerated       bool       `json:"is_generated"`
	OriginalArticleID *ArticleID `json:"original_article_id"`
	PublishedAt       *time.Time `json:"published_at"`
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.Title == "" {
		return Errorf(EINVALID, "article title required")
	}
	if a.Content == "" {
		return Errorf(EINVALID, "article content required")
	}
	if a.SourceURL == "" {
		return Errorf(EINVALID, "article source URL required")
	}
	if a.IsGenerated && (a.OriginalArticleID == nil || *a.OriginalArticleID == "") {
		return Errorf(EINVALID, "generated article requires original article ID")
	}
	return nil
}

// ArticleOrder is the ordering requested when listing articles.
type ArticleOrder string

// ArticleOrder constants for ArticleFilter.
const (
	OrderDefault ArticleOrder = ""
	OrderLatest  ArticleOrder = "latest"
	OrderAsc     ArticleOrder = "asc"
	OrderDesc    ArticleOrder = "desc"
)

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	Order ArticleOrder `json:"order"`
	Limit int          `json:"limit"`
}

// ArticleService represents the article store.
type ArticleService interface {
	// FindArticles lists articles in store order.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// CreateArticle creates a new article and returns the stored version.
	// Returns ECONFLICT if the slug is already taken.
	CreateArticle(ctx context.Context, article *Article) (*Article, error)

	// UpdateArticle replaces an existing article's fields.
	// Returns ENOTFOUND if the article does not exist.
	UpdateArticle(ctx context.Context, id ArticleID, article *Article) (*Article, error)
}

// EnhancedSet records which originals already have a generated counterpart,
// mapping original IDs to the generated article.
type EnhancedSet map[ArticleID]*Article

// NewEnhancedSet builds an EnhancedSet from a store snapshot.
func NewEnhancedSet(articles []*Article) EnhancedSet {
	set := make(EnhancedSet)
	for _, a := range articles {
		if !a.IsGenerated || a.OriginalArticleID == nil {
			continue
		}
		if _, ok := set[*a.OriginalArticleID]; !ok {
			set[*a.OriginalArticleID] = a
		}
	}
	return set
}

// Generated returns the generated counterpart of the original, or nil when
// the original is not covered.
func (s EnhancedSet) Generated(id ArticleID) *Article {
	return s[id]
}

// Newer reports whether a was published after b. Articles without a
// publication time, or published at the same instant, compare by numeric ID;
// non-numeric IDs never compare as newer.
func Newer(a, b *Article) bool {
	if a.PublishedAt != nil && b.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt) {
		return a.PublishedAt.After(*b.PublishedAt)
	}
	if a.PublishedAt != nil && b.PublishedAt == nil {
		return true
	}
	if a.PublishedAt == nil && b.PublishedAt != nil {
		return false
	}
	x, errA := strconv.ParseInt(string(a.ID), 10, 64)
	y, errB := strconv.ParseInt(string(b.ID), 10, 64)
	return errA == nil && errB == nil && x > y
}
