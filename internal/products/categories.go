package product

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/pkg/db"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/sanitize"
	"github.com/angelmondragon/siteadmin-backend/pkg/slug"
)

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list product categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCategoryDTO(row))
	}
	return out, nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toCategoryDTO(*category)
	return &dto, nil
}

func (s *service) loadCategory(ctx context.Context, id uuid.UUID) (*models.ProductCategory, error) {
	category, found, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product category")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product category not found")
	}
	return category, nil
}

func (s *service) SaveCategory(ctx context.Context, id *uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.Validation("name is required", map[string]string{"name": "required"})
	}
	categorySlug := slug.Resolve(input.Slug, name)
	if categorySlug == "" {
		return nil, pkgerrors.Validation("slug is empty after normalization", map[string]string{"slug": "invalid"})
	}

	next := models.ProductCategory{ID: uuid.New()}
	if id != nil {
		current, err := s.loadCategory(ctx, *id)
		if err != nil {
			return nil, err
		}
		next = *current
	}
	next.Name = name
	next.Slug = categorySlug
	next.Description = sanitize.Text(input.Description)
	next.SortOrder = input.SortOrder

	if err := s.repo.UpsertCategory(ctx, &next); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a product category with this slug already exists").
				WithDetails(map[string]string{"slug": categorySlug})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save product category")
	}
	dto := toCategoryDTO(next)
	return &dto, nil
}

// DeleteCategory removes the category and its product links; products are kept.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadCategory(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product category")
	}
	return nil
}
