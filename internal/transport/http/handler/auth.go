package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/briefly/internal/domain"
	"github.com/ErlanBelekov/briefly/internal/metrics"
	"github.com/ErlanBelekov/briefly/internal/transport/http/middleware"
	"github.com/ErlanBelekov/briefly/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthResult, error)
	Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthResult, error)
	CurrentUser(ctx context.Context, rawToken string) (*domain.AuthUser, error)
	Logout(ctx context.Context, rawToken string) error
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Name     string `json:"name"     binding:"required,max=200"`
	Email    string `json:"email"    binding:"required,email,max=320"`
	Password string `json:"password" binding:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
	Role   string  `json:"role"`
}

type authResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func toUserResponse(u domain.AuthUser) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Avatar: u.Avatar, Role: u.Role}
}

func toAuthResponse(r *usecase.AuthResult) authResponse {
	return authResponse{User: toUserResponse(r.User), Token: r.Token, ExpiresAt: r.ExpiresAt}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailExists):
			metrics.AuthEventsTotal.WithLabelValues("register", "conflict").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": errEmailExists})
		case errors.Is(err, domain.ErrInvalidInput):
			metrics.AuthEventsTotal.WithLabelValues("register", "invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			metrics.AuthEventsTotal.WithLabelValues("register", "error").Inc()
			h.logger.ErrorContext(c.Request.Context(), "register", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.AuthEventsTotal.WithLabelValues("register", "success").Inc()
	h.logger.InfoContext(c.Request.Context(), "user registered", "user_id", result.User.ID)
	c.JSON(http.StatusOK, toAuthResponse(result))
}

// POST /auth/login
// Unknown email and wrong password get the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authUsecase.Login(c.Request.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthEventsTotal.WithLabelValues("login", "rejected").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		metrics.AuthEventsTotal.WithLabelValues("login", "error").Inc()
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.AuthEventsTotal.WithLabelValues("login", "success").Inc()
	c.JSON(http.StatusOK, toAuthResponse(result))
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	rawToken, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	user, err := h.authUsecase.CurrentUser(c.Request.Context(), rawToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "current user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(*user)})
}

// POST /auth/logout
// Always succeeds; a missing or stale token has nothing to revoke.
func (h *AuthHandler) Logout(c *gin.Context) {
	if rawToken, ok := middleware.BearerToken(c); ok {
		if err := h.authUsecase.Logout(c.Request.Context(), rawToken); err != nil {
			h.logger.WarnContext(c.Request.Context(), "revoke session", "error", err)
		}
	}

	metrics.AuthEventsTotal.WithLabelValues("logout", "success").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
