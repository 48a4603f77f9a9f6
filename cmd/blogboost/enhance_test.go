package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/blogboost"
	main "github.com/fwojciec/blogboost/cmd/blogboost"
	"github.com/fwojciec/blogboost/enhance"
	"github.com/fwojciec/blogboost/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnhancer(articles *mock.ArticleService, rewriter *mock.Rewriter) *enhance.Enhancer {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	return &enhance.Enhancer{
		Articles: articles,
		Finder: &mock.ReferenceFinder{
			DiscoverFn: func(context.Context, string, string, int) ([]blogboost.SearchResult, error) {
				return []blogboost.SearchResult{
					{Title: "B", Link: "https://b.example/post"},
					{Title: "C", Link: "https://c.example/article"},
				}, nil
			},
		},
		Extractor: &mock.ContentExtractor{
			ExtractURLFn: func(context.Context, string) (*blogboost.ExtractResult, error) {
				return &blogboost.ExtractResult{Text: "reference text"}, nil
			},
		},
		Rewriter: rewriter,
		Config:   blogboost.NewConfig(),
		Provider: "groq",
		Now:      func() time.Time { return now },
		NewID:    func() string { return "run-1" },
	}
}

func oneOriginal() *mock.ArticleService {
	return &mock.ArticleService{
		FindArticlesFn: func(context.Context, blogboost.ArticleFilter) ([]*blogboost.Article, error) {
			return []*blogboost.Article{{ID: "7", Title: "X", Content: "body", SourceURL: "https://a.example/x"}}, nil
		},
		CreateArticleFn: func(_ context.Context, a *blogboost.Article) (*blogboost.Article, error) {
			created := *a
			created.ID = "8"
			return &created, nil
		},
	}
}

func TestEnhanceCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints target lines and summary", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Enhancer: testEnhancer(oneOriginal(), &mock.Rewriter{
				RewriteFn: func(context.Context, *blogboost.Article, []blogboost.Reference) (string, error) {
					return "# X, better", nil
				},
			}),
		}

		err := (&main.EnhanceCmd{}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, `[published] 7 "X" -> ai-enhanced-x-groq-1741942800 (id 8)`)
		assert.Contains(t, output, "ref https://b.example/post")
		assert.Contains(t, output, "Run run-1 ok: 1 published, 0 skipped, 0 failed")
		assert.Empty(t, stderr.String())
	})

	t.Run("reports fatal errors", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Enhancer: testEnhancer(oneOriginal(), &mock.Rewriter{
				RewriteFn: func(context.Context, *blogboost.Article, []blogboost.Reference) (string, error) {
					return "", blogboost.Errorf(blogboost.EQUOTA, "groq quota exceeded")
				},
			}),
		}

		err := (&main.EnhanceCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, blogboost.EQUOTA, blogboost.ErrorCode(err))
		assert.Contains(t, stdout.String(), "[skipped-enhancement-failed] 7")
		assert.Contains(t, stdout.String(), "Run run-1 failed")
		assert.Contains(t, stderr.String(), "error: groq quota exceeded")
	})

	t.Run("fails when a publication fails", func(t *testing.T) {
		t.Parallel()

		articles := oneOriginal()
		articles.CreateArticleFn = func(context.Context, *blogboost.Article) (*blogboost.Article, error) {
			return nil, blogboost.Errorf(blogboost.ECONFLICT, "slug taken")
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Enhancer: testEnhancer(articles, &mock.Rewriter{
				RewriteFn: func(context.Context, *blogboost.Article, []blogboost.Reference) (string, error) {
					return "# X, better", nil
				},
			}),
		}

		err := (&main.EnhanceCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 article(s) failed to publish")
		assert.Contains(t, stdout.String(), "[publish-failed] 7")
		assert.Contains(t, stdout.String(), ": slug taken")
	})
}
