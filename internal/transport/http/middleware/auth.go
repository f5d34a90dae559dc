package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/briefly/internal/domain"
	"github.com/ErlanBelekov/briefly/internal/reqctx"
	"github.com/gin-gonic/gin"
)

const (
	errUnauthorized   = "Unauthorized"
	errTokenInvalid   = "Invalid or expired token"
	errInternalServer = "Internal server error"
)

// TokenValidator is satisfied by *usecase.SessionManager.
type TokenValidator interface {
	Validate(ctx context.Context, rawToken string) (string, error)
}

// Auth checks the Bearer token against the session store and sets "userID" in
// the gin context and in the request context for logging.
func Auth(validator TokenValidator, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "auth_middleware")

	return func(c *gin.Context) {
		rawToken, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		userID, err := validator.Validate(c.Request.Context(), rawToken)
		if err != nil {
			if errors.Is(err, domain.ErrTokenInvalid) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
				return
			}
			logger.ErrorContext(c.Request.Context(), "validate session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}

		c.Set("userID", userID)
		c.Request = c.Request.WithContext(reqctx.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}
