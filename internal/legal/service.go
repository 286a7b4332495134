// Package legal stores privacy, terms and similar pages keyed by slug.
package legal

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/sanitize"
	"github.com/angelmondragon/siteadmin-backend/pkg/slug"
)

type Service interface {
	List(ctx context.Context) ([]PageDTO, error)
	Get(ctx context.Context, slug string) (*PageDTO, error)
	Save(ctx context.Context, slug string, input SaveInput) (*PageDTO, error)
	Delete(ctx context.Context, slug string) error
}

type SaveInput struct {
	Title   string `json:"title" validate:"required,max=250"`
	Content string `json:"content"`
}

type PageDTO struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toDTO(p models.LegalPage) PageDTO {
	return PageDTO{Slug: p.Slug, Title: p.Title, Content: p.Content, UpdatedAt: p.UpdatedAt}
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("legal repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]PageDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list legal pages")
	}
	out := make([]PageDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, key string) (*PageDTO, error) {
	page, found, err := s.repo.FindBySlug(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load legal page")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "legal page not found")
	}
	dto := toDTO(*page)
	return &dto, nil
}

// Save creates or replaces the page at key. The key must already be a valid slug.
func (s *service) Save(ctx context.Context, key string, input SaveInput) (*PageDTO, error) {
	fields := map[string]string{}
	if !slug.Valid(key) {
		fields["slug"] = "invalid"
	}
	title := sanitize.Text(input.Title)
	if title == "" {
		fields["title"] = "required"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.Validation("invalid legal page", fields)
	}

	page := models.LegalPage{Slug: key, Title: title, Content: sanitize.HTML(input.Content)}
	if err := s.repo.Upsert(ctx, &page); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save legal page")
	}
	dto := toDTO(page)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	deleted, err := s.repo.Delete(ctx, key)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete legal page")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "legal page not found")
	}
	return nil
}
