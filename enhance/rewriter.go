package enhance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fwojciec/blogboost"
)

var _ blogboost.Rewriter = (*Rewriter)(nil)

// Prompt bounds applied to text copied into the user message.
const (
	DefaultMaxOriginalChars  = 3000
	DefaultMaxReferenceChars = 1500
)

// SystemPrompt instructs the model how to rewrite an article.
const SystemPrompt = `You are an expert technical editor. Rewrite the article you are given as a new, improved article in Markdown.
Keep the same topic and the original article's key points.
Adapt the tone, structure and formatting of the reference articles, which are provided for inspiration only; do not copy them.
Keep the writing technical but accessible for developers, with clear headings, concrete examples and actionable tips.
Output only the article. End it with a "## References" section that lists exactly the reference URLs you were given, one per line, and nothing else.`

// Rewriter produces enhanced Markdown by trying the provider's candidate
// models in order.
type Rewriter struct {
	Provider blogboost.ModelProvider

	MaxTokens         int
	Temperature       float64
	MaxOriginalChars  int
	MaxReferenceChars int

	Logger *slog.Logger
}

// NewRewriter returns a Rewriter with prompt bounds and generation settings
// taken from cfg.
func NewRewriter(provider blogboost.ModelProvider, cfg blogboost.Config, logger *slog.Logger) *Rewriter {
	return &Rewriter{
		Provider:          provider,
		MaxTokens:         cfg.MaxTokens,
		Temperature:       cfg.Temperature,
		MaxOriginalChars:  DefaultMaxOriginalChars,
		MaxReferenceChars: DefaultMaxReferenceChars,
		Logger:            logger,
	}
}

// outcome classifies a single completion attempt.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeRetryable
	outcomeQuota
	outcomeFatal
)

func classify(text string, err error) outcome {
	if err != nil {
		switch blogboost.ErrorCode(err) {
		case blogboost.EQUOTA:
			return outcomeQuota
		case blogboost.EUNAVAILABLE:
			return outcomeRetryable
		default:
			return outcomeFatal
		}
	}
	if strings.TrimSpace(text) == "" {
		return outcomeRetryable
	}
	return outcomeSuccess
}

// Rewrite implements blogboost.Rewriter. Unavailable models and empty
// completions move on to the next candidate; quota errors and unclassified
// errors end the attempt immediately.
func (r *Rewriter) Rewrite(ctx context.Context, article *blogboost.Article, refs []blogboost.Reference) (string, error) {
	models, err := r.Provider.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("list models: %w", err)
	}

	req := &blogboost.CompletionRequest{
		System:      SystemPrompt,
		User:        BuildUserPrompt(article, refs, r.maxOriginalChars(), r.maxReferenceChars()),
		MaxTokens:   r.MaxTokens,
		Temperature: r.Temperature,
	}

	var lastErr error
	for _, model := range models {
		r.logger().Info("calling model", "provider", r.Provider.Name(), "model", model)

		text, err := r.Provider.Complete(ctx, model, req)
		switch classify(text, err) {
		case outcomeSuccess:
			return strings.TrimSpace(text), nil
		case outcomeRetryable:
			if err == nil {
				err = blogboost.Errorf(blogboost.EUNAVAILABLE, "model %s returned an empty completion", model)
			}
			r.logger().Warn("model unavailable, trying next candidate", "model", model, "err", err)
			lastErr = err
		case outcomeQuota:
			return "", err
		case outcomeFatal:
			return "", fmt.Errorf("complete with %s: %w", model, err)
		}
	}

	if lastErr != nil {
		return "", blogboost.Errorf(blogboost.EUNAVAILABLE, "no available %s model: %s", r.Provider.Name(), blogboost.ErrorMessage(lastErr))
	}
	return "", blogboost.Errorf(blogboost.EUNAVAILABLE, "no %s models to try", r.Provider.Name())
}

// BuildUserPrompt renders the user message: the title, the original content
// bounded to maxOriginal runes and each reference with its content bounded
// to maxReference runes.
func BuildUserPrompt(article *blogboost.Article, refs []blogboost.Reference, maxOriginal, maxReference int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n\n", article.Title)
	fmt.Fprintf(&b, "Original content:\n%s\n", blogboost.Truncate(article.Content, maxOriginal))

	for i, ref := range refs {
		fmt.Fprintf(&b, "\nReference %d\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", ref.Title)
		fmt.Fprintf(&b, "URL: %s\n", ref.URL)
		fmt.Fprintf(&b, "Content:\n%s\n", blogboost.Truncate(ref.Content, maxReference))
	}
	return b.String()
}

func (r *Rewriter) maxOriginalChars() int {
	if r.MaxOriginalChars > 0 {
		return r.MaxOriginalChars
	}
	return DefaultMaxOriginalChars
}

func (r *Rewriter) maxReferenceChars() int {
	if r.MaxReferenceChars > 0 {
		return r.MaxReferenceChars
	}
	return DefaultMaxReferenceChars
}

func (r *Rewriter) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.DiscardHandler)
}
