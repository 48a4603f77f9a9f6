package enhance_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/blogboost"
	"github.com/fwojciec/blogboost/enhance"
	"github.com/fwojciec/blogboost/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider answers Complete from a per-model script and records the
// models it was called with.
func scriptedProvider(models []string, script map[string]func() (string, error), called *[]string) *mock.ModelProvider {
	return &mock.ModelProvider{
		NameFn:       func() string { return "groq" },
		ListModelsFn: func(context.Context) ([]string, error) { return models, nil },
		CompleteFn: func(_ context.Context, model string, _ *blogboost.CompletionRequest) (string, error) {
			*called = append(*called, model)
			return script[model]()
		},
	}
}

func testArticle() *blogboost.Article {
	return &blogboost.Article{ID: "7", Title: "X", Content: "original", SourceURL: "https://a.example/x"}
}

func TestRewriter_Rewrite_FallsBackToNextModel(t *testing.T) {
	t.Parallel()

	var called []string
	p := scriptedProvider([]string{"m1", "m2", "m3"}, map[string]func() (string, error){
		"m1": func() (string, error) {
			return "", blogboost.Errorf(blogboost.EUNAVAILABLE, "model m1 has been decommissioned")
		},
		"m2": func() (string, error) { return "  # Rewritten\n", nil },
		"m3": func() (string, error) { return "never", nil },
	}, &called)
	r := enhance.NewRewriter(p, blogboost.NewConfig(), nil)

	got, err := r.Rewrite(context.Background(), testArticle(), nil)

	require.NoError(t, err)
	assert.Equal(t, "# Rewritten", got)
	assert.Equal(t, []string{"m1", "m2"}, called)
}

func TestRewriter_Rewrite_EmptyCompletionIsRetryable(t *testing.T) {
	t.Parallel()

	var called []string
	p := scriptedProvider([]string{"m1", "m2"}, map[string]func() (string, error){
		"m1": func() (string, error) { return " \n", nil },
		"m2": func() (string, error) { return "text", nil },
	}, &called)
	r := enhance.NewRewriter(p, blogboost.NewConfig(), nil)

	got, err := r.Rewrite(context.Background(), testArticle(), nil)

	require.NoError(t, err)
	assert.Equal(t, "text", got)
	assert.Equal(t, []string{"m1", "m2"}, called)
}

func TestRewriter_Rewrite_QuotaStopsImmediately(t *testing.T) {
	t.Parallel()

	var called []string
	p := scriptedProvider([]string{"m1", "m2"}, map[string]func() (string, error){
		"m1": func() (string, error) { return "", blogboost.Errorf(blogboost.EQUOTA, "quota exceeded") },
		"m2": func() (string, error) { return "text", nil },
	}, &called)
	r := enhance.NewRewriter(p, blogboost.NewConfig(), nil)

	_, err := r.Rewrite(context.Background(), testArticle(), nil)

	assert.Equal(t, blogboost.EQUOTA, blogboost.ErrorCode(err))
	assert.Equal(t, []string{"m1"}, called)
}

func TestRewriter_Rewrite_UnclassifiedErrorIsFatal(t *testing.T) {
	t.Parallel()

	var called []string
	p := scriptedProvider([]string{"m1", "m2"}, map[string]func() (string, error){
		"m1": func() (string, error) { return "", errors.New("connection reset") },
		"m2": func() (string, error) { return "text", nil },
	}, &called)
	r := enhance.NewRewriter(p, blogboost.NewConfig(), nil)

	_, err := r.Rewrite(context.Background(), testArticle(), nil)

	require.Error(t, err)
	assert.Equal(t, blogboost.EINTERNAL, blogboost.ErrorCode(err))
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, []string{"m1"}, called)
}

func TestRewriter_Rewrite_ExhaustedCandidates(t *testing.T) {
	t.Parallel()

	unavailable := func() (string, error) {
		return "", blogboost.Errorf(blogboost.EUNAVAILABLE, "model does not exist")
	}
	var called []string
	p := scriptedProvider([]string{"m1", "m2"}, map[string]func() (string, error){
		"m1": unavailable,
		"m2": unavailable,
	}, &called)
	r := enhance.NewRewriter(p, blogboost.NewConfig(), nil)

	_, err := r.Rewrite(context.Background(), testArticle(), nil)

	assert.Equal(t, blogboost.EUNAVAILABLE, blogboost.ErrorCode(err))
	assert.Equal(t, []string{"m1", "m2"}, called)
}

func TestRewriter_Rewrite_NoCandidates(t *testing.T) {
	t.Parallel()

	var called []string
	p := scriptedProvider(nil, nil, &called)
	r := enhance.NewRewriter(p, blogboost.NewConfig(), nil)

	_, err := r.Rewrite(context.Background(), testArticle(), nil)

	assert.Equal(t, blogboost.EUNAVAILABLE, blogboost.ErrorCode(err))
	assert.Empty(t, called)
}

func TestRewriter_Rewrite_BuildsRequest(t *testing.T) {
	t.Parallel()

	var got *blogboost.CompletionRequest
	p := &mock.ModelProvider{
		NameFn:       func() string { return "openai" },
		ListModelsFn: func(context.Context) ([]string, error) { return []string{"gpt-3.5-turbo"}, nil },
		CompleteFn: func(_ context.Context, _ string, req *blogboost.CompletionRequest) (string, error) {
			got = req
			return "text", nil
		},
	}
	cfg := blogboost.NewConfig()
	cfg.MaxTokens = 900
	cfg.Temperature = 0.2
	r := enhance.NewRewriter(p, cfg, nil)

	refs := []blogboost.Reference{{Title: "B", URL: "https://b.example/post", Content: "ref body"}}
	_, err := r.Rewrite(context.Background(), testArticle(), refs)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, enhance.SystemPrompt, got.System)
	assert.Contains(t, got.System, "## References")
	assert.Equal(t, 900, got.MaxTokens)
	assert.InDelta(t, 0.2, got.Temperature, 0.0001)
	assert.Contains(t, got.User, "Title: X")
	assert.Contains(t, got.User, "original")
	assert.Contains(t, got.User, "URL: https://b.example/post")
	assert.Contains(t, got.User, "ref body")
}

func TestBuildUserPrompt_BoundsContent(t *testing.T) {
	t.Parallel()

	article := &blogboost.Article{Title: "T", Content: strings.Repeat("ж", 5000)}
	refs := []blogboost.Reference{
		{Title: "one", URL: "https://b.example/1", Content: strings.Repeat("ж", 4000)},
		{Title: "two", URL: "https://c.example/2", Content: strings.Repeat("ж", 10)},
	}

	prompt := enhance.BuildUserPrompt(article, refs, 3000, 1500)

	assert.Equal(t, 3000+1500+10, strings.Count(prompt, "ж"))
	assert.Contains(t, prompt, "Reference 1")
	assert.Contains(t, prompt, "Reference 2")
	assert.Contains(t, prompt, "Title: two")
}
