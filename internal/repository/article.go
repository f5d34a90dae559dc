package repository

import (
	"context"

	"github.com/ErlanBelekov/briefly/internal/domain"
)

// ArticleRepository is a plain record store. Ownership rules live in the usecase.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	// ListByUser returns the owner's articles in insertion order.
	ListByUser(ctx context.Context, userID string) ([]*domain.Article, error)
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	// Delete returns domain.ErrArticleNotFound when nothing was removed.
	Delete(ctx context.Context, id string) error
}
