package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/briefly/internal/domain"
	"github.com/ErlanBelekov/briefly/internal/metrics"
	"github.com/ErlanBelekov/briefly/internal/summary"
	"github.com/ErlanBelekov/briefly/internal/usecase"
	"github.com/gin-gonic/gin"
)

type articleUsecaser interface {
	Create(ctx context.Context, input usecase.CreateArticleInput) (*domain.Article, error)
	List(ctx context.Context, ownerID string, filter domain.ArticleFilter) ([]*domain.Article, error)
	Get(ctx context.Context, id, callerID string) (*domain.Article, error)
	Delete(ctx context.Context, id, callerID string) error
	Tags(ctx context.Context, ownerID string) ([]string, error)
	Stats(ctx context.Context, ownerID string) (domain.ArticleStats, error)
}

// summarizer is satisfied by *summary.Summarizer.
type summarizer interface {
	Summarize(ctx context.Context, text string) (summary.Summary, error)
}

type ArticleHandler struct {
	articleUsecase articleUsecaser
	summarizer     summarizer
	logger         *slog.Logger
}

func NewArticleHandler(articleUsecase articleUsecaser, summarizer summarizer, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleUsecase: articleUsecase,
		summarizer:     summarizer,
		logger:         logger.With("component", "article_handler"),
	}
}

type createArticleRequest struct {
	Title     string   `json:"title"     binding:"required,max=300"`
	Body      string   `json:"body"      binding:"required"`
	Excerpt   string   `json:"excerpt"   binding:"max=500"`
	Tags      []string `json:"tags"      binding:"max=50"`
	Published bool     `json:"published"`
	// UserID is accepted for clients that send it; it must name the caller.
	UserID string `json:"userId"`
}

type articleResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Excerpt     string    `json:"excerpt"`
	Tags        []string  `json:"tags"`
	Published   bool      `json:"published"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	WordCount   int       `json:"wordCount"`
	ReadingTime string    `json:"readingTime"`
}

type statsResponse struct {
	Articles       int `json:"articles"`
	Words          int `json:"words"`
	ReadingMinutes int `json:"readingMinutes"`
}

type summaryResponse struct {
	Summary   string `json:"summary"`
	Source    string `json:"source"`
	WordCount int    `json:"wordCount"`
}

func toArticleResponse(a *domain.Article) articleResponse {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return articleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Body:        a.Body,
		Excerpt:     a.Excerpt,
		Tags:        tags,
		Published:   a.Published,
		UserID:      a.UserID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		WordCount:   a.WordCount(),
		ReadingTime: a.ReadingTime(),
	}
}

func toSummaryResponse(s summary.Summary) summaryResponse {
	return summaryResponse{Summary: s.Text, Source: s.Source, WordCount: s.WordCount}
}

// POST /articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	callerID := c.GetString("userID")
	if req.UserID != "" && req.UserID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": errOwnerMismatch})
		return
	}

	article, err := h.articleUsecase.Create(c.Request.Context(), usecase.CreateArticleInput{
		OwnerID:   callerID,
		Title:     req.Title,
		Body:      req.Body,
		Excerpt:   req.Excerpt,
		Tags:      req.Tags,
		Published: req.Published,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create article", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.ArticlesCreatedTotal.Inc()
	c.JSON(http.StatusCreated, toArticleResponse(article))
}

// GET /articles?q=&tag=
func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.articleUsecase.List(c.Request.Context(), c.GetString("userID"), domain.ArticleFilter{
		Query: c.Query("q"),
		Tag:   c.Query("tag"),
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	items := make([]articleResponse, len(articles))
	for i, a := range articles {
		items[i] = toArticleResponse(a)
	}
	c.JSON(http.StatusOK, items)
}

// GET /articles/:id
func (h *ArticleHandler) GetByID(c *gin.Context) {
	article, ok := h.ownedArticle(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toArticleResponse(article))
}

// DELETE /articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	articleID := c.Param("id")

	if err := h.articleUsecase.Delete(c.Request.Context(), articleID, c.GetString("userID")); err != nil {
		h.articleError(c, "delete article", articleID, err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "article deleted", "article_id", articleID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /articles/tags
func (h *ArticleHandler) Tags(c *gin.Context) {
	tags, err := h.articleUsecase.Tags(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list tags", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// GET /articles/stats
func (h *ArticleHandler) Stats(c *gin.Context) {
	stats, err := h.articleUsecase.Stats(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "article stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, statsResponse{
		Articles:       stats.Articles,
		Words:          stats.Words,
		ReadingMinutes: stats.ReadingMinutes,
	})
}

// POST /articles/:id/summary
func (h *ArticleHandler) Summarize(c *gin.Context) {
	article, ok := h.ownedArticle(c)
	if !ok {
		return
	}

	result, err := h.summarizer.Summarize(c.Request.Context(), article.Body)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errTextRequired})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "summarize article", "article_id", article.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toSummaryResponse(result))
}

func (h *ArticleHandler) ownedArticle(c *gin.Context) (*domain.Article, bool) {
	articleID := c.Param("id")
	article, err := h.articleUsecase.Get(c.Request.Context(), articleID, c.GetString("userID"))
	if err != nil {
		h.articleError(c, "get article", articleID, err)
		return nil, false
	}
	return article, true
}

func (h *ArticleHandler) articleError(c *gin.Context, op, articleID string, err error) {
	switch {
	case errors.Is(err, domain.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errArticleNotFound})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
	default:
		h.logger.ErrorContext(c.Request.Context(), op, "article_id", articleID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
