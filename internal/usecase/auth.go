package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ErlanBelekov/briefly/internal/domain"
	"github.com/ErlanBelekov/briefly/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = 12

// sessionIssuer is the part of SessionManager the auth flow needs.
type sessionIssuer interface {
	Issue(ctx context.Context, userID string) (string, time.Time, error)
	Validate(ctx context.Context, rawToken string) (string, error)
	Revoke(ctx context.Context, rawToken string) error
}

type AuthUsecase struct {
	users      repository.UserRepository
	sessions   sessionIssuer
	bcryptCost int
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

type AuthOption func(*AuthUsecase)

func WithBcryptCost(cost int) AuthOption {
	return func(u *AuthUsecase) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			u.bcryptCost = cost
		}
	}
}

func NewAuthUsecase(users repository.UserRepository, sessions sessionIssuer, opts ...AuthOption) *AuthUsecase {
	u := &AuthUsecase{
		users:      users,
		sessions:   sessions,
		bcryptCost: defaultBcryptCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User      domain.AuthUser
	Token     string
	ExpiresAt time.Time
}

// Register creates the user and opens a first session for it.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := domain.NormalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	switch {
	case email == "":
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	case name == "":
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case input.Password == "":
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	// Fast path only; the unique constraint below is what settles races.
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), u.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is too long", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    u.now().UTC(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return u.openSession(ctx, user)
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller: same error, comparable bcrypt work.
func (u *AuthUsecase) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(u.dummy(), []byte(input.Password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return u.openSession(ctx, user)
}

// CurrentUser resolves a bearer token to its user.
func (u *AuthUsecase) CurrentUser(ctx context.Context, rawToken string) (*domain.AuthUser, error) {
	userID, err := u.sessions.Validate(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	public := user.Public()
	return &public, nil
}

// Logout revokes the session. Revoking an unknown or expired token succeeds.
func (u *AuthUsecase) Logout(ctx context.Context, rawToken string) error {
	return u.sessions.Revoke(ctx, rawToken)
}

func (u *AuthUsecase) openSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := u.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &AuthResult{User: user.Public(), Token: token, ExpiresAt: expiresAt}, nil
}

func (u *AuthUsecase) dummy() []byte {
	u.dummyOnce.Do(func() {
		u.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("briefly-timing-equalizer"), u.bcryptCost)
	})
	return u.dummyHash
}
