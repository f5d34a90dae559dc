package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrUnauthorized       = errors.New("unauthorized")
)

const RoleUser = "user"

type User struct {
	ID string
	// Email is stored normalized, see NormalizeEmail.
	Email string
	Name  string
	// PasswordHash is a bcrypt hash. The plaintext never leaves the auth usecase.
	PasswordHash string
	Avatar       *string
	Role         string
	CreatedAt    time.Time
}

// AuthUser is the public projection of a User returned to clients.
type AuthUser struct {
	ID     string
	Email  string
	Name   string
	Avatar *string
	Role   string
}

func (u *User) Public() AuthUser {
	role := u.Role
	if role == "" {
		role = RoleUser
	}
	return AuthUser{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Avatar: u.Avatar,
		Role:   role,
	}
}

// Session binds the digest of a bearer token to a user until ExpiresAt.
type Session struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// NormalizeEmail makes email lookups case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
