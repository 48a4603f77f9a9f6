package mock

import (
	"context"

	"github.com/fwojciec/blogboost"
)

var _ blogboost.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of blogboost.ArticleService.
type ArticleService struct {
	FindArticlesFn  func(ctx context.Context, filter blogboost.ArticleFilter) ([]*blogboost.Article, error)
	CreateArticleFn func(ctx context.Context, article *blogboost.Article) (*blogboost.Article, error)
	UpdateArticleFn func(ctx context.Context, id blogboost.ArticleID, article *blogboost.Article) (*blogboost.Article, error)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter blogboost.ArticleFilter) ([]*blogboost.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) CreateArticle(ctx context.Context, article *blogboost.Article) (*blogboost.Article, error) {
	return s.CreateArticleFn(ctx, article)
}

func (s *ArticleService) UpdateArticle(ctx context.Context, id blogboost.ArticleID, article *blogboost.Article) (*blogboost.Article, error) {
	return s.UpdateArticleFn(ctx, id, article)
}
