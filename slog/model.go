package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/blogboost"
)

// Ensure LoggingModelProvider implements blogboost.ModelProvider.
var _ blogboost.ModelProvider = (*LoggingModelProvider)(nil)

// LoggingModelProvider wraps a ModelProvider with logging.
type LoggingModelProvider struct {
	next   blogboost.ModelProvider
	logger *slog.Logger
}

// NewLoggingModelProvider creates a new LoggingModelProvider.
func NewLoggingModelProvider(next blogboost.ModelProvider, logger *slog.Logger) *LoggingModelProvider {
	return &LoggingModelProvider{next: next, logger: logger}
}

// Name delegates to the wrapped provider.
func (p *LoggingModelProvider) Name() string {
	return p.next.Name()
}

// ListModels delegates to the wrapped provider and logs the candidates.
func (p *LoggingModelProvider) ListModels(ctx context.Context) (models []string, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("list models",
			"provider", p.next.Name(),
			"models", models,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ListModels(ctx)
}

// Complete delegates to the wrapped provider and logs the operation.
func (p *LoggingModelProvider) Complete(ctx context.Context, model string, req *blogboost.CompletionRequest) (text string, err error) {
	defer func(begin time.Time) {
		p.logger.Info("completion",
			"provider", p.next.Name(),
			"model", model,
			"chars", len(text),
			"duration", time.Since(begin),
			"code", blogboost.ErrorCode(err),
			"err", err,
		)
	}(time.Now())
	return p.next.Complete(ctx, model, req)
}
