package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/briefly/internal/domain"
	"github.com/ErlanBelekov/briefly/internal/summary"
	"github.com/ErlanBelekov/briefly/internal/transport/http/handler"
	"github.com/ErlanBelekov/briefly/internal/usecase"
	"github.com/gin-gonic/gin"
)

type fakeArticleUsecase struct {
	create func(ctx context.Context, in usecase.CreateArticleInput) (*domain.Article, error)
	list   func(ctx context.Context, ownerID string, f domain.ArticleFilter) ([]*domain.Article, error)
	get    func(ctx context.Context, id, callerID string) (*domain.Article, error)
	delete func(ctx context.Context, id, callerID string) error
	tags   func(ctx context.Context, ownerID string) ([]string, error)
	stats  func(ctx context.Context, ownerID string) (domain.ArticleStats, error)
}

func (f *fakeArticleUsecase) Create(ctx context.Context, in usecase.CreateArticleInput) (*domain.Article, error) {
	return f.create(ctx, in)
}

func (f *fakeArticleUsecase) List(ctx context.Context, ownerID string, filter domain.ArticleFilter) ([]*domain.Article, error) {
	return f.list(ctx, ownerID, filter)
}

func (f *fakeArticleUsecase) Get(ctx context.Context, id, callerID string) (*domain.Article, error) {
	return f.get(ctx, id, callerID)
}

func (f *fakeArticleUsecase) Delete(ctx context.Context, id, callerID string) error {
	return f.delete(ctx, id, callerID)
}

func (f *fakeArticleUsecase) Tags(ctx context.Context, ownerID string) ([]string, error) {
	return f.tags(ctx, ownerID)
}

func (f *fakeArticleUsecase) Stats(ctx context.Context, ownerID string) (domain.ArticleStats, error) {
	return f.stats(ctx, ownerID)
}

type fakeSummarizer struct {
	summarize func(ctx context.Context, text string) (summary.Summary, error)
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (summary.Summary, error) {
	return f.summarize(ctx, text)
}

const callerID = "u-1"

// newArticleEngine stands in for the Auth middleware by setting userID directly.
func newArticleEngine(uc *fakeArticleUsecase, s *fakeSummarizer) *gin.Engine {
	if s == nil {
		s = &fakeSummarizer{}
	}
	h := handler.NewArticleHandler(uc, s, testLogger())

	r := gin.New()
	g := r.Group("/articles", func(c *gin.Context) {
		c.Set("userID", callerID)
		c.Next()
	})
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/tags", h.Tags)
	g.GET("/stats", h.Stats)
	g.GET("/:id", h.GetByID)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/summary", h.Summarize)
	return r
}

func sampleArticle() *domain.Article {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Article{
		ID: "a-1", Title: "T", Body: "hello world", Excerpt: "hello world",
		Tags: []string{"x", "y"}, UserID: callerID, CreatedAt: now, UpdatedAt: now,
	}
}

// ---- Create ----

func TestCreateArticle_Success_Returns201(t *testing.T) {
	var got usecase.CreateArticleInput
	uc := &fakeArticleUsecase{create: func(_ context.Context, in usecase.CreateArticleInput) (*domain.Article, error) {
		got = in
		return sampleArticle(), nil
	}}

	w := send(newArticleEngine(uc, nil), http.MethodPost, "/articles",
		`{"title":"T","body":"hello world","tags":["x, y"]}`, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", w.Code, w.Body.String())
	}
	if got.OwnerID != callerID || got.Title != "T" || len(got.Tags) != 1 || got.Tags[0] != "x, y" {
		t.Errorf("usecase input = %+v", got)
	}

	var resp struct {
		ID          string   `json:"id"`
		Tags        []string `json:"tags"`
		UserID      string   `json:"userId"`
		WordCount   int      `json:"wordCount"`
		ReadingTime string   `json:"readingTime"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "a-1" || resp.UserID != callerID || resp.WordCount != 2 || resp.ReadingTime != "1 min read" {
		t.Errorf("response = %+v", resp)
	}
}

func TestCreateArticle_MissingTitle_Returns400(t *testing.T) {
	w := send(newArticleEngine(&fakeArticleUsecase{}, nil), http.MethodPost, "/articles", `{"body":"b"}`, "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateArticle_UsecaseValidation_Returns400(t *testing.T) {
	uc := &fakeArticleUsecase{create: func(context.Context, usecase.CreateArticleInput) (*domain.Article, error) {
		return nil, errors.Join(domain.ErrInvalidInput, errors.New("title is required"))
	}}

	w := send(newArticleEngine(uc, nil), http.MethodPost, "/articles", `{"title":"  ","body":"b"}`, "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateArticle_ForeignUserID_Returns403(t *testing.T) {
	w := send(newArticleEngine(&fakeArticleUsecase{}, nil), http.MethodPost, "/articles",
		`{"title":"T","body":"b","userId":"someone-else"}`, "")

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestCreateArticle_OwnUserID_Accepted(t *testing.T) {
	uc := &fakeArticleUsecase{create: func(context.Context, usecase.CreateArticleInput) (*domain.Article, error) {
		return sampleArticle(), nil
	}}

	w := send(newArticleEngine(uc, nil), http.MethodPost, "/articles",
		`{"title":"T","body":"b","userId":"u-1"}`, "")

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
}

// ---- List / Tags / Stats ----

func TestListArticles_PassesFilterAndOwner(t *testing.T) {
	uc := &fakeArticleUsecase{list: func(_ context.Context, owner string, f domain.ArticleFilter) ([]*domain.Article, error) {
		if owner != callerID || f.Query != "go" || f.Tag != "web" {
			t.Errorf("owner=%q filter=%+v", owner, f)
		}
		return []*domain.Article{sampleArticle()}, nil
	}}

	w := send(newArticleEngine(uc, nil), http.MethodGet, "/articles?q=go&tag=web", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var items []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0]["id"] != "a-1" {
		t.Errorf("items = %v", items)
	}
}

func TestListArticles_EmptyIsArray(t *testing.T) {
	uc := &fakeArticleUsecase{list: func(context.Context, string, domain.ArticleFilter) ([]*domain.Article, error) {
		return []*domain.Article{}, nil
	}}

	w := send(newArticleEngine(uc, nil), http.MethodGet, "/articles", "", "")

	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("body = %s, want []", w.Body.String())
	}
}

func TestTagsAndStats(t *testing.T) {
	uc := &fakeArticleUsecase{
		tags: func(context.Context, string) ([]string, error) { return []string{"go", "web"}, nil },
		stats: func(context.Context, string) (domain.ArticleStats, error) {
			return domain.ArticleStats{Articles: 2, Words: 400, ReadingMinutes: 2}, nil
		},
	}
	r := newArticleEngine(uc, nil)

	w := send(r, http.MethodGet, "/articles/tags", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"tags":["go","web"]`) {
		t.Errorf("tags: %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodGet, "/articles/stats", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"readingMinutes":2`) {
		t.Errorf("stats: %d %s", w.Code, w.Body.String())
	}
}

// ---- Get / Delete ----

func TestGetArticle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrArticleNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		uc := &fakeArticleUsecase{get: func(context.Context, string, string) (*domain.Article, error) {
			return nil, tt.err
		}}
		w := send(newArticleEngine(uc, nil), http.MethodGet, "/articles/a-1", "", "")
		if w.Code != tt.want {
			t.Errorf("err %v: status = %d, want %d", tt.err, w.Code, tt.want)
		}
	}
}

func TestGetArticle_Success(t *testing.T) {
	uc := &fakeArticleUsecase{get: func(_ context.Context, id, caller string) (*domain.Article, error) {
		if id != "a-1" || caller != callerID {
			t.Errorf("id=%q caller=%q", id, caller)
		}
		return sampleArticle(), nil
	}}

	w := send(newArticleEngine(uc, nil), http.MethodGet, "/articles/a-1", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestDeleteArticle(t *testing.T) {
	uc := &fakeArticleUsecase{delete: func(_ context.Context, id, _ string) error {
		if id == "missing" {
			return domain.ErrArticleNotFound
		}
		return nil
	}}
	r := newArticleEngine(uc, nil)

	w := send(r, http.MethodDelete, "/articles/a-1", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"success":true`) {
		t.Errorf("delete: %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodDelete, "/articles/missing", "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("delete missing: status = %d, want 404", w.Code)
	}
}

// ---- Summarize ----

func TestSummarizeArticle_UsesBody(t *testing.T) {
	uc := &fakeArticleUsecase{get: func(context.Context, string, string) (*domain.Article, error) {
		return sampleArticle(), nil
	}}
	s := &fakeSummarizer{summarize: func(_ context.Context, text string) (summary.Summary, error) {
		if text != "hello world" {
			t.Errorf("text = %q", text)
		}
		return summary.Summary{Text: "Hi.", Source: summary.SourceLocal, WordCount: 2}, nil
	}}

	w := send(newArticleEngine(uc, s), http.MethodPost, "/articles/a-1/summary", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"summary":"Hi."`) || !strings.Contains(w.Body.String(), `"source":"local"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestSummarizeArticle_Forbidden(t *testing.T) {
	uc := &fakeArticleUsecase{get: func(context.Context, string, string) (*domain.Article, error) {
		return nil, domain.ErrForbidden
	}}

	w := send(newArticleEngine(uc, nil), http.MethodPost, "/articles/a-1/summary", "", "")
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}
