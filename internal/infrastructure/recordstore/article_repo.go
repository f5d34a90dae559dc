// Package recordstore keeps articles in an external json-server style REST
// store (GET/POST /articles, GET/DELETE /articles/{id}).
package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ErlanBelekov/briefly/internal/domain"
)

type record struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Excerpt   string    `json:"excerpt"`
	Tags      []string  `json:"tags"`
	Published bool      `json:"published"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toRecord(a *domain.Article) record {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return record{
		ID: a.ID, Title: a.Title, Body: a.Body, Excerpt: a.Excerpt, Tags: tags,
		Published: a.Published, UserID: a.UserID, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

func (r record) article() *domain.Article {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Article{
		ID: r.ID, Title: r.Title, Body: r.Body, Excerpt: r.Excerpt, Tags: tags,
		Published: r.Published, UserID: r.UserID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type ArticleRepository struct {
	baseURL string
	client  *http.Client
}

func NewArticleRepository(baseURL string, client *http.Client) *ArticleRepository {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ArticleRepository{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) error {
	payload, err := json.Marshal(toRecord(a))
	if err != nil {
		return fmt.Errorf("encode article: %w", err)
	}
	resp, err := r.do(ctx, http.MethodPost, "/articles", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return statusError("create article", resp)
	}
	return nil
}

// ListByUser relies on the store preserving insertion order, which json-server does.
func (r *ArticleRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Article, error) {
	resp, err := r.do(ctx, http.MethodGet, "/articles?userId="+url.QueryEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list articles", resp)
	}

	var records []record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}

	articles := make([]*domain.Article, 0, len(records))
	for _, rec := range records {
		// Some stores ignore unknown query filters.
		if rec.UserID != userID {
			continue
		}
		articles = append(articles, rec.article())
	}
	return articles, nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	resp, err := r.do(ctx, http.MethodGet, "/articles/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrArticleNotFound
	default:
		return nil, statusError("get article", resp)
	}

	var rec record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode article: %w", err)
	}
	return rec.article(), nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	resp, err := r.do(ctx, http.MethodDelete, "/articles/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return domain.ErrArticleNotFound
	default:
		return statusError("delete article", resp)
	}
}

// Ping lets the health checker probe the store.
func (r *ArticleRepository) Ping(ctx context.Context) error {
	resp, err := r.do(ctx, http.MethodGet, "/articles?_limit=1", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return statusError("ping record store", resp)
	}
	return nil
}

func (r *ArticleRepository) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("record store %s %s: %w", method, path, err)
	}
	return resp, nil
}

func statusError(op string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s: record store returned %d: %s", op, resp.StatusCode, strings.TrimSpace(string(msg)))
}
