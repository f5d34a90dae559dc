package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ErlanBelekov/briefly/internal/domain"
	"github.com/ErlanBelekov/briefly/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// SessionManager issues signed bearer tokens and keeps a server-side row per
// token so that logout and expiry are enforced by the store, not only by the
// signature.
type SessionManager struct {
	sessions repository.SessionRepository
	jwtKey   []byte
	ttl      time.Duration
	now      func() time.Time
}

type SessionOption func(*SessionManager)

func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(m *SessionManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

func NewSessionManager(sessions repository.SessionRepository, jwtKey []byte, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		sessions: sessions,
		jwtKey:   jwtKey,
		ttl:      defaultSessionTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for userID and persists its digest.
func (m *SessionManager) Issue(ctx context.Context, userID string) (string, time.Time, error) {
	jti := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, jti); err != nil {
		return "", time.Time{}, fmt.Errorf("generate token id: %w", err)
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"jti": hex.EncodeToString(jti),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.jwtKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign jwt: %w", err)
	}

	session := &domain.Session{
		TokenHash: hashToken(signed),
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("store session: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate returns the user bound to rawToken. Forged, unknown, revoked and
// expired tokens all yield domain.ErrTokenInvalid; expired rows are deleted.
func (m *SessionManager) Validate(ctx context.Context, rawToken string) (string, error) {
	if rawToken == "" {
		return "", domain.ErrTokenInvalid
	}

	tokenHash := hashToken(rawToken)

	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			m.purge(ctx, tokenHash)
		}
		return "", domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrTokenInvalid
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", domain.ErrTokenInvalid
	}

	session, err := m.sessions.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return "", domain.ErrTokenInvalid
		}
		return "", fmt.Errorf("find session: %w", err)
	}

	if session.Expired(m.now()) {
		m.purge(ctx, tokenHash)
		return "", domain.ErrTokenInvalid
	}
	if session.UserID != subject {
		return "", domain.ErrTokenInvalid
	}
	return session.UserID, nil
}

// Revoke deletes the session row. Unknown tokens are not an error.
func (m *SessionManager) Revoke(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	if err := m.sessions.Delete(ctx, hashToken(rawToken)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// purge is best effort; a failed delete leaves a row that is rejected again next time.
func (m *SessionManager) purge(ctx context.Context, tokenHash string) {
	_ = m.sessions.Delete(ctx, tokenHash)
}

func hashToken(raw string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(raw)))
}
