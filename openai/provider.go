// Package openai implements blogboost.ModelProvider on top of the openai-go
// SDK. CatalogProvider serves OpenAI-compatible backends with a model
// catalog (Groq); FixedProvider serves a single configured model (OpenAI).
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/blogboost"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultGroqModels is the preference ranking used for the Groq catalog and
// as the candidate list when the catalog can't be listed.
var DefaultGroqModels = []string{
	"llama-3.3-70b-versatile",
	"llama-3.3-70b-specdec",
	"llama-3.1-8b-instant",
	"mixtral-8x7b-32768",
	"gemma2-9b-it",
}

// Compile-time interface verification.
var (
	_ blogboost.ModelProvider = (*CatalogProvider)(nil)
	_ blogboost.ModelProvider = (*FixedProvider)(nil)
)

// Option configures a provider.
type Option func(*settings)

type settings struct {
	baseURL   string
	timeout   time.Duration
	override  string
	preferred []string
	logger    *slog.Logger
	client    *http.Client
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = u }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithModelOverride makes CatalogProvider use model as its only candidate.
func WithModelOverride(model string) Option {
	return func(s *settings) { s.override = model }
}

// WithPreferredModels replaces DefaultGroqModels as the preference ranking.
func WithPreferredModels(models []string) Option {
	return func(s *settings) { s.preferred = models }
}

// WithLogger sets the logger used to report catalog fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.client = c }
}

func newSettings(opts []Option) *settings {
	s := &settings{
		timeout:   blogboost.DefaultLLMTimeout,
		preferred: DefaultGroqModels,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// requestOptions disables SDK retries: the only retry is the candidate
// fallback loop in enhance.Rewriter.
func (s *settings) requestOptions(apiKey string) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(s.timeout),
	}
	if s.baseURL != "" {
		base := s.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	if s.client != nil {
		opts = append(opts, option.WithHTTPClient(s.client))
	}
	return opts
}

// backend holds the SDK services shared by both provider variants.
type backend struct {
	completions openai.ChatCompletionService
	models      openai.ModelService
}

func newBackend(apiKey string, s *settings) backend {
	client := openai.NewClient(s.requestOptions(apiKey)...)
	return backend{
		completions: client.Chat.Completions,
		models:      client.Models,
	}
}

func (b *backend) complete(ctx context.Context, model string, req *blogboost.CompletionRequest) (string, error) {
	if model == "" {
		return "", blogboost.Errorf(blogboost.EINVALID, "model required")
	}
	if req == nil {
		return "", blogboost.Errorf(blogboost.EINVALID, "completion request required")
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := b.completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (b *backend) listModels(ctx context.Context) ([]string, error) {
	page, err := b.models.List(ctx)
	if err != nil {
		return nil, classify(err)
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

// CatalogProvider resolves candidates from the backend's model catalog.
type CatalogProvider struct {
	name      string
	backend   backend
	override  string
	preferred []string
	logger    *slog.Logger
}

// NewCatalogProvider creates a provider named name (e.g. "groq").
func NewCatalogProvider(name, apiKey string, opts ...Option) *CatalogProvider {
	s := newSettings(opts)
	return &CatalogProvider{
		name:      name,
		backend:   newBackend(apiKey, s),
		override:  s.override,
		preferred: s.preferred,
		logger:    s.logger,
	}
}

// Name returns the provider name.
func (p *CatalogProvider) Name() string { return p.name }

// ListModels returns the override when set; otherwise the catalog ranked by
// preference. It never fails: a catalog error yields the preference list.
func (p *CatalogProvider) ListModels(ctx context.Context) ([]string, error) {
	if p.override != "" {
		return []string{p.override}, nil
	}

	catalog, err := p.backend.listModels(ctx)
	if err != nil {
		p.logger.Warn("unable to list models, falling back to default list",
			"provider", p.name,
			"err", err,
		)
		return append([]string(nil), p.preferred...), nil
	}
	if len(catalog) == 0 {
		return append([]string(nil), p.preferred...), nil
	}
	return RankModels(catalog, p.preferred), nil
}

// Complete runs a chat completion on model.
func (p *CatalogProvider) Complete(ctx context.Context, model string, req *blogboost.CompletionRequest) (string, error) {
	return p.backend.complete(ctx, model, req)
}

// FixedProvider always offers a single configured model.
type FixedProvider struct {
	name    string
	model   string
	backend backend
}

// NewFixedProvider creates a provider named name serving model.
func NewFixedProvider(name, apiKey, model string, opts ...Option) *FixedProvider {
	s := newSettings(opts)
	return &FixedProvider{
		name:    name,
		model:   model,
		backend: newBackend(apiKey, s),
	}
}

// Name returns the provider name.
func (p *FixedProvider) Name() string { return p.name }

// ListModels returns the configured model.
func (p *FixedProvider) ListModels(context.Context) ([]string, error) {
	if p.model == "" {
		return nil, blogboost.Errorf(blogboost.EINVALID, "model required")
	}
	return []string{p.model}, nil
}

// Complete runs a chat completion on model.
func (p *FixedProvider) Complete(ctx context.Context, model string, req *blogboost.CompletionRequest) (string, error) {
	return p.backend.complete(ctx, model, req)
}

// RankModels orders catalog by the preference list: preferred models present
// in the catalog come first in preference order, followed by the remaining
// catalog entries in catalog order. Duplicates are dropped.
func RankModels(catalog, preferred []string) []string {
	available := make(map[string]bool, len(catalog))
	for _, id := range catalog {
		available[id] = true
	}

	seen := make(map[string]bool, len(catalog))
	ranked := make([]string, 0, len(catalog))
	for _, id := range preferred {
		if available[id] && !seen[id] {
			seen[id] = true
			ranked = append(ranked, id)
		}
	}
	for _, id := range catalog {
		if !seen[id] {
			seen[id] = true
			ranked = append(ranked, id)
		}
	}
	return ranked
}

var (
	quotaPatterns       = []string{"insufficient_quota", "rate_limit_exceeded", "rate limit"}
	unavailablePatterns = []string{"model_decommissioned", "decommissioned", "model_not_found", "does not exist", "model_terminated"}
)

// classify maps provider errors onto EQUOTA and EUNAVAILABLE by status,
// code and message. Anything else is returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var status int
	var code, message string
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
		code = apiErr.Code
		message = apiErr.Message
	}
	text := strings.ToLower(code + " " + message + " " + err.Error())

	if status == http.StatusTooManyRequests || containsAny(text, quotaPatterns) {
		appErr := blogboost.Errorf(blogboost.EQUOTA, "quota exceeded: %s", firstNonEmpty(message, err.Error()))
		return fmt.Errorf("%w: %w", appErr, err)
	}
	if containsAny(text, unavailablePatterns) {
		appErr := blogboost.Errorf(blogboost.EUNAVAILABLE, "model unavailable: %s", firstNonEmpty(message, err.Error()))
		return fmt.Errorf("%w: %w", appErr, err)
	}
	return err
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
