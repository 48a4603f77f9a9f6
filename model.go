package blogboost

import "context"

// CompletionRequest is a single-turn chat completion request.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// ModelProvider abstracts over an LLM backend.
type ModelProvider interface {
	// Name identifies the provider, e.g. "groq" or "openai".
	Name() string

	// ListModels returns candidate models in preference order.
	ListModels(ctx context.Context) ([]string, error)

	// Complete runs a chat completion on model and returns the completion text.
	// Returns EQUOTA when the provider reports quota or rate limiting and
	// EUNAVAILABLE when the model is unknown or decommissioned.
	Complete(ctx context.Context, model string, req *CompletionRequest) (string, error)
}

// Rewriter turns an article and its references into enhanced Markdown.
type Rewriter interface {
	// Rewrite returns the rewritten Markdown.
	// Returns EQUOTA when the provider quota is exhausted and EUNAVAILABLE
	// when no candidate model could serve the request.
	Rewrite(ctx context.Context, article *Article, refs []Reference) (string, error)
}
