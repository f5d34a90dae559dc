package repository

import (
	"context"

	"github.com/ErlanBelekov/briefly/internal/domain"
)

type UserRepository interface {
	// Create inserts the user. Implementations must return domain.ErrEmailExists
	// when the store's unique email constraint rejects the row; that constraint is
	// what makes concurrent registrations safe.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
