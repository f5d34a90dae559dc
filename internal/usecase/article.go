package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ErlanBelekov/briefly/internal/domain"
	"github.com/ErlanBelekov/briefly/internal/repository"
	"github.com/google/uuid"
)

type ArticleUsecase struct {
	repo repository.ArticleRepository
	now  func() time.Time
}

func NewArticleUsecase(repo repository.ArticleRepository) *ArticleUsecase {
	return &ArticleUsecase{repo: repo, now: time.Now}
}

type CreateArticleInput struct {
	OwnerID   string
	Title     string
	Body      string
	Excerpt   string
	Tags      []string
	Published bool
}

func (u *ArticleUsecase) Create(ctx context.Context, input CreateArticleInput) (*domain.Article, error) {
	title := strings.TrimSpace(input.Title)
	switch {
	case input.OwnerID == "":
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	case title == "":
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	case strings.TrimSpace(input.Body) == "":
		return nil, fmt.Errorf("%w: body is required", domain.ErrInvalidInput)
	}

	excerpt := strings.TrimSpace(input.Excerpt)
	if excerpt == "" {
		excerpt = domain.Excerpt(input.Body)
	}

	now := u.now().UTC()
	article := &domain.Article{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      input.Body,
		Excerpt:   excerpt,
		Tags:      domain.NormalizeTags(input.Tags),
		Published: input.Published,
		UserID:    input.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.repo.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return article, nil
}

// List returns the owner's articles narrowed by filter.
func (u *ArticleUsecase) List(ctx context.Context, ownerID string, filter domain.ArticleFilter) ([]*domain.Article, error) {
	articles, err := u.owned(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return filter.Apply(articles), nil
}

func (u *ArticleUsecase) Get(ctx context.Context, id, callerID string) (*domain.Article, error) {
	article, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if !article.OwnedBy(callerID) {
		return nil, domain.ErrForbidden
	}
	return article, nil
}

func (u *ArticleUsecase) Delete(ctx context.Context, id, callerID string) error {
	if _, err := u.Get(ctx, id, callerID); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

func (u *ArticleUsecase) Tags(ctx context.Context, ownerID string) ([]string, error) {
	articles, err := u.owned(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return domain.TagSet(articles), nil
}

func (u *ArticleUsecase) Stats(ctx context.Context, ownerID string) (domain.ArticleStats, error) {
	articles, err := u.owned(ctx, ownerID)
	if err != nil {
		return domain.ArticleStats{}, err
	}
	return domain.ComputeStats(articles), nil
}

// owned re-checks ownership on top of the store query so a store that ignores
// the user filter still cannot leak rows.
func (u *ArticleUsecase) owned(ctx context.Context, ownerID string) ([]*domain.Article, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	articles, err := u.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	out := make([]*domain.Article, 0, len(articles))
	for _, a := range articles {
		if a.OwnedBy(ownerID) {
			out = append(out, a)
		}
	}
	return out, nil
}
