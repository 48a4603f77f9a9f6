package mock

import (
	"context"

	"github.com/fwojciec/blogboost"
)

var (
	_ blogboost.ModelProvider = (*ModelProvider)(nil)
	_ blogboost.Rewriter      = (*Rewriter)(nil)
)

// ModelProvider is a mock implementation of blogboost.ModelProvider.
type ModelProvider struct {
	NameFn       func() string
	ListModelsFn func(ctx context.Context) ([]string, error)
	CompleteFn   func(ctx context.Context, model string, req *blogboost.CompletionRequest) (string, error)
}

func (p *ModelProvider) Name() string {
	return p.NameFn()
}

func (p *ModelProvider) ListModels(ctx context.Context) ([]string, error) {
	return p.ListModelsFn(ctx)
}

func (p *ModelProvider) Complete(ctx context.Context, model string, req *blogboost.CompletionRequest) (string, error) {
	return p.CompleteFn(ctx, model, req)
}

// Rewriter is a mock implementation of blogboost.Rewriter.
type Rewriter struct {
	RewriteFn func(ctx context.Context, article *blogboost.Article, refs []blogboost.Reference) (string, error)
}

func (r *Rewriter) Rewrite(ctx context.Context, article *blogboost.Article, refs []blogboost.Reference) (string, error) {
	return r.RewriteFn(ctx, article, refs)
}
