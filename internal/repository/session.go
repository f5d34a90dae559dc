package repository

import (
	"context"

	"github.com/ErlanBelekov/briefly/internal/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	// FindByTokenHash returns domain.ErrSessionNotFound when no row matches.
	// Expired rows are returned as-is; the caller decides and purges.
	FindByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	// Delete is a no-op for unknown hashes.
	Delete(ctx context.Context, tokenHash string) error
}
