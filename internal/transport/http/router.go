package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/briefly/internal/transport/http/handler"
	"github.com/ErlanBelekov/briefly/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// Handlers groups everything the router serves.
type Handlers struct {
	Auth    *handler.AuthHandler
	Article *handler.ArticleHandler
	Summary *handler.SummaryHandler
}

func NewRouter(logger *slog.Logger, h Handlers, tokens middleware.TokenValidator) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	// Public auth routes; /me and /logout read the bearer token themselves.
	auth := r.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)

	authMW := middleware.Auth(tokens, logger)

	articles := r.Group("/articles", authMW)
	articles.GET("", h.Article.List)
	articles.POST("", h.Article.Create)
	articles.GET("/tags", h.Article.Tags)
	articles.GET("/stats", h.Article.Stats)
	articles.GET("/:id", h.Article.GetByID)
	articles.DELETE("/:id", h.Article.Delete)
	articles.POST("/:id/summary", h.Article.Summarize)

	r.POST("/summaries", authMW, h.Summary.Create)

	return r
}
