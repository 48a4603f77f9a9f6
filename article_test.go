package blogboost_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/blogboost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleID_JSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes numeric IDs", func(t *testing.T) {
		t.Parallel()

		var a blogboost.Article
		require.NoError(t, json.Unmarshal([]byte(`{"id":7,"original_article_id":3}`), &a))

		assert.Equal(t, blogboost.ArticleID("7"), a.ID)
		require.NotNil(t, a.OriginalArticleID)
		assert.Equal(t, blogboost.ArticleID("3"), *a.OriginalArticleID)
	})

	t.Run("decodes string IDs and null references", func(t *testing.T) {
		t.Parallel()

		var a blogboost.Article
		require.NoError(t, json.Unmarshal([]byte(`{"id":"abc","original_article_id":null}`), &a))

		assert.Equal(t, blogboost.ArticleID("abc"), a.ID)
		assert.Nil(t, a.OriginalArticleID)
	})

	t.Run("encodes numeric IDs as numbers", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(blogboost.ArticleID("42"))
		require.NoError(t, err)
		assert.Equal(t, `42`, string(data))

		data, err = json.Marshal(blogboost.ArticleID("a-1"))
		require.NoError(t, err)
		assert.Equal(t, `"a-1"`, string(data))
	})

	t.Run("quotes non-canonical numeric strings", func(t *testing.T) {
		t.Parallel()

		var a blogboost.Article
		require.NoError(t, json.Unmarshal([]byte(`{"id":"007","original_article_id":"+7"}`), &a))

		data, err := json.Marshal(a)
		require.NoError(t, err)

		var back blogboost.Article
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, blogboost.ArticleID("007"), back.ID)
		require.NotNil(t, back.OriginalArticleID)
		assert.Equal(t, blogboost.ArticleID("+7"), *back.OriginalArticleID)
		assert.Contains(t, string(data), `"id":"007"`)
	})
}

func TestArticle_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *blogboost.Article {
		return &blogboost.Article{Title: "T", Content: "C", SourceURL: "https://a.example/x"}
	}

	t.Run("accepts original article", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid().Validate())
	})

	t.Run("requires title", func(t *testing.T) {
		t.Parallel()
		a := valid()
		a.Title = ""
		assert.Equal(t, blogboost.EINVALID, blogboost.ErrorCode(a.Validate()))
	})

	t.Run("requires source URL", func(t *testing.T) {
		t.Parallel()
		a := valid()
		a.SourceURL = ""
		assert.Equal(t, blogboost.EINVALID, blogboost.ErrorCode(a.Validate()))
	})

	t.Run("requires original ID on generated article", func(t *testing.T) {
		t.Parallel()
		a := valid()
		a.IsGenerated = true
		err := a.Validate()
		assert.Equal(t, blogboost.EINVALID, blogboost.ErrorCode(err))
		assert.Contains(t, blogboost.ErrorMessage(err), "original article ID")
	})
}

func TestNewEnhancedSet(t *testing.T) {
	t.Parallel()

	orig := blogboost.ArticleID("1")
	articles := []*blogboost.Article{
		{ID: "1", Title: "Original"},
		{ID: "2", Title: "Other"},
		{ID: "3", IsGenerated: true, OriginalArticleID: &orig},
		{ID: "4", IsGenerated: true},
	}

	set := blogboost.NewEnhancedSet(articles)

	require.NotNil(t, set.Generated("1"))
	assert.Nil(t, set.Generated("2"))
	assert.Len(t, set, 1)
	assert.Equal(t, blogboost.ArticleID("3"), set["1"].ID)
}

func TestNewer(t *testing.T) {
	t.Parallel()

	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	tests := []struct {
		name string
		a, b *blogboost.Article
		want bool
	}{
		{"later publication", &blogboost.Article{ID: "1", PublishedAt: &late}, &blogboost.Article{ID: "2", PublishedAt: &early}, true},
		{"earlier publication", &blogboost.Article{ID: "2", PublishedAt: &early}, &blogboost.Article{ID: "1", PublishedAt: &late}, false},
		{"published beats unpublished", &blogboost.Article{ID: "1", PublishedAt: &early}, &blogboost.Article{ID: "9"}, true},
		{"higher numeric ID", &blogboost.Article{ID: "10"}, &blogboost.Article{ID: "9"}, true},
		{"same time falls back to ID", &blogboost.Article{ID: "3", PublishedAt: &early}, &blogboost.Article{ID: "4", PublishedAt: &early}, false},
		{"non-numeric IDs", &blogboost.Article{ID: "b"}, &blogboost.Article{ID: "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, blogboost.Newer(tt.a, tt.b))
		})
	}
}
