package brands

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/internal/assets"
	"github.com/angelmondragon/siteadmin-backend/pkg/db"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/pagination"
	"github.com/angelmondragon/siteadmin-backend/pkg/sanitize"
	"github.com/angelmondragon/siteadmin-backend/pkg/slug"
)

// FieldLogo is the multipart field carrying a replacement logo.
const FieldLogo = "logo"

type Service interface {
	List(ctx context.Context, input ListInput) (pagination.Page[BrandDTO], error)
	ListPublic(ctx context.Context, featuredOnly bool) ([]BrandDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*BrandDTO, error)
	Save(ctx context.Context, id *uuid.UUID, input SaveInput, files assets.Files) (*BrandDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ListInput struct {
	Query string
	Page  pagination.Params
}

// SaveInput is the full desired state of a brand. Omitted files leave the logo untouched.
type SaveInput struct {
	Name        string `json:"name" validate:"required,max=160"`
	Slug        string `json:"slug" validate:"omitempty,max=160"`
	Description string `json:"description"`
	WebsiteURL  string `json:"website_url" validate:"omitempty,url"`
	IsFeatured  bool   `json:"is_featured"`
	SortOrder   int    `json:"sort_order"`
	RemoveLogo  bool   `json:"remove_logo"`
}

type repository interface {
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Brand, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, bool, error)
	Upsert(ctx context.Context, brand *models.Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   repository
	assets *assets.Manager
}

func NewService(repo repository, assetManager *assets.Manager) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("brand repository required")
	}
	if assetManager == nil {
		return nil, fmt.Errorf("asset manager required")
	}
	return &service{repo: repo, assets: assetManager}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (pagination.Page[BrandDTO], error) {
	filter := ListFilter{Query: strings.ToLower(strings.TrimSpace(input.Query))}
	rows, total, err := s.repo.List(ctx, filter, input.Page)
	if err != nil {
		return pagination.Page[BrandDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list brands")
	}
	return pagination.NewPage(toDTOs(rows), total, input.Page), nil
}

func (s *service) ListPublic(ctx context.Context, featuredOnly bool) ([]BrandDTO, error) {
	rows, _, err := s.repo.List(ctx, ListFilter{FeaturedOnly: featuredOnly}, pagination.Params{Limit: pagination.MaxLimit})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list brands")
	}
	return toDTOs(rows), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BrandDTO, error) {
	brand, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*brand)
	return &dto, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	brand, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load brand")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
	}
	return brand, nil
}

// Save creates (id == nil) or replaces a brand. The logo follows the upload,
// write, then clean up sequence: the old file is removed only once the row is saved.
func (s *service) Save(ctx context.Context, id *uuid.UUID, input SaveInput, files assets.Files) (*BrandDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.Validation("name is required", map[string]string{"name": "required"})
	}
	brandSlug := slug.Resolve(input.Slug, name)
	if brandSlug == "" {
		return nil, pkgerrors.Validation("slug is empty after normalization", map[string]string{"slug": "invalid"})
	}

	next := models.Brand{ID: uuid.New()}
	if id != nil {
		current, err := s.load(ctx, *id)
		if err != nil {
			return nil, err
		}
		next = *current
	}
	next.Name = name
	next.Slug = brandSlug
	next.Description = sanitize.HTML(input.Description)
	next.WebsiteURL = strings.TrimSpace(input.WebsiteURL)
	next.IsFeatured = input.IsFeatured
	next.SortOrder = input.SortOrder

	plan := s.assets.Begin()
	slots := []assets.Slot{{Field: FieldLogo, Folder: assets.FolderBrands, Name: brandSlug, Kind: enums.AssetKindImage, URL: &next.LogoURL}}
	if err := plan.Stage(ctx, slots, files.Singles(), map[string]bool{FieldLogo: input.RemoveLogo}); err != nil {
		plan.Discard(ctx)
		return nil, err
	}

	if err := s.repo.Upsert(ctx, &next); err != nil {
		plan.Discard(ctx)
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a brand with this slug already exists").
				WithDetails(map[string]string{"slug": brandSlug})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save brand")
	}
	plan.Commit(ctx)

	dto := toDTO(next)
	return &dto, nil
}

// Delete removes the row, then the logo best-effort.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	brand, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete brand")
	}
	s.assets.RemoveURLs(context.WithoutCancel(ctx), brand.LogoURL)
	return nil
}
