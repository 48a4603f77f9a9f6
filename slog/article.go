package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/blogboost"
)

// Ensure LoggingArticleService implements blogboost.ArticleService.
var _ blogboost.ArticleService = (*LoggingArticleService)(nil)

// LoggingArticleService wraps an ArticleService with logging.
type LoggingArticleService struct {
	next   blogboost.ArticleService
	logger *slog.Logger
}

// NewLoggingArticleService creates a new LoggingArticleService.
func NewLoggingArticleService(next blogboost.ArticleService, logger *slog.Logger) *LoggingArticleService {
	return &LoggingArticleService{next: next, logger: logger}
}

// FindArticles delegates to the wrapped service and logs the operation.
func (s *LoggingArticleService) FindArticles(ctx context.Context, filter blogboost.ArticleFilter) (articles []*blogboost.Article, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find articles",
			"order", filter.Order,
			"count", len(articles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindArticles(ctx, filter)
}

// CreateArticle delegates to the wrapped service and logs the operation.
func (s *LoggingArticleService) CreateArticle(ctx context.Context, article *blogboost.Article) (created *blogboost.Article, err error) {
	defer func(begin time.Time) {
		var id blogboost.ArticleID
		if created != nil {
			id = created.ID
		}
		s.logger.Info("create article",
			"slug", article.Slug,
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateArticle(ctx, article)
}

// UpdateArticle delegates to the wrapped service and logs the operation.
func (s *LoggingArticleService) UpdateArticle(ctx context.Context, id blogboost.ArticleID, article *blogboost.Article) (updated *blogboost.Article, err error) {
	defer func(begin time.Time) {
		s.logger.Info("update article",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdateArticle(ctx, id, article)
}
