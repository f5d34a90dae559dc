package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/briefly/internal/domain"
	"github.com/gin-gonic/gin"
)

// SummaryHandler summarizes free text that is not stored as an article.
type SummaryHandler struct {
	summarizer summarizer
	logger     *slog.Logger
}

func NewSummaryHandler(summarizer summarizer, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{summarizer: summarizer, logger: logger.With("component", "summary_handler")}
}

type summarizeRequest struct {
	Text string `json:"text" binding:"required,max=100000"`
}

// POST /summaries
func (h *SummaryHandler) Create(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.summarizer.Summarize(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errTextRequired})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "summarize text", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toSummaryResponse(result))
}
