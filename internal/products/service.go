package product

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/siteadmin-backend/internal/assets"
	"github.com/angelmondragon/siteadmin-backend/pkg/db"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/pagination"
	"github.com/angelmondragon/siteadmin-backend/pkg/sanitize"
	"github.com/angelmondragon/siteadmin-backend/pkg/slug"
)

// Multipart fields carrying product files.
const (
	FieldMainImage = "main_image"
	FieldDatasheet = "datasheet"
	FieldGallery   = "gallery"
)

// Service exposes catalog product management.
type Service interface {
	List(ctx context.Context, input ListInput) (pagination.Page[ProductDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetPublicBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	Save(ctx context.Context, id *uuid.UUID, input SaveInput, files assets.Files) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	SaveCategory(ctx context.Context, id *uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// ListInput carries the list filters. CategorySlug is resolved to an id when set.
type ListInput struct {
	Query        string
	BrandID      *uuid.UUID
	CategoryID   *uuid.UUID
	CategorySlug string
	Active       *bool
	Page         pagination.Params
}

// SaveInput is the full desired state of a product.
//
// GalleryKeep lists the current gallery URLs to keep, in display order; nil keeps
// the whole gallery. New gallery files are appended after the kept ones.
type SaveInput struct {
	Name             string               `json:"name" validate:"required,max=200"`
	Slug             string               `json:"slug" validate:"omitempty,max=200"`
	SKU              *string              `json:"sku" validate:"omitempty,max=80"`
	ShortDescription string               `json:"short_description" validate:"max=500"`
	Description      string               `json:"description"`
	BrandID          *uuid.UUID           `json:"brand_id"`
	Specifications   []models.ProductSpec `json:"specifications" validate:"dive"`
	CategoryIDs      []uuid.UUID          `json:"category_ids"`
	IsFeatured       bool                 `json:"is_featured"`
	IsActive         bool                 `json:"is_active"`
	SortOrder        int                  `json:"sort_order"`
	GalleryKeep      *[]string            `json:"gallery_keep"`
	RemoveMainImage  bool                 `json:"remove_main_image"`
	RemoveDatasheet  bool                 `json:"remove_datasheet"`
}

// CategoryInput is the full desired state of a product category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=160"`
	Slug        string `json:"slug" validate:"omitempty,max=160"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type service struct {
	db     *db.Client
	repo   *Repository
	assets *assets.Manager
}

// NewService wires the product service.
func NewService(dbClient *db.Client, repo *Repository, assetManager *assets.Manager) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if assetManager == nil {
		return nil, fmt.Errorf("asset manager required")
	}
	return &service{db: dbClient, repo: repo, assets: assetManager}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (pagination.Page[ProductDTO], error) {
	filter := ListFilter{
		Query:      strings.ToLower(strings.TrimSpace(input.Query)),
		BrandID:    input.BrandID,
		CategoryID: input.CategoryID,
		Active:     input.Active,
	}
	if filter.CategoryID == nil && input.CategorySlug != "" {
		category, found, err := s.repo.FindCategoryBySlug(ctx, input.CategorySlug)
		if err != nil {
			return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product category")
		}
		if !found {
			return pagination.NewPage[ProductDTO](nil, 0, input.Page), nil
		}
		filter.CategoryID = &category.ID
	}

	rows, total, err := s.repo.List(ctx, filter, input.Page)
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	links, err := s.repo.CategoryIDs(ctx, ids...)
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list product categories")
	}

	items := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row, links[row.ID]))
	}
	return pagination.NewPage(items, total, input.Page), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCategories(ctx, *product)
}

// GetPublicBySlug hides inactive products.
func (s *service) GetPublicBySlug(ctx context.Context, productSlug string) (*ProductDTO, error) {
	product, found, err := s.repo.FindBySlug(ctx, productSlug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if !found || !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return s.withCategories(ctx, *product)
}

func (s *service) withCategories(ctx context.Context, product models.Product) (*ProductDTO, error) {
	links, err := s.repo.CategoryIDs(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list product categories")
	}
	dto := toDTO(product, links[product.ID])
	return &dto, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func validateSave(input SaveInput) (name, productSlug string, err error) {
	fields := map[string]string{}
	name = strings.TrimSpace(input.Name)
	if name == "" {
		fields["name"] = "required"
	}
	productSlug = slug.Resolve(input.Slug, name)
	if name != "" && productSlug == "" {
		fields["slug"] = "invalid"
	}
	for i, spec := range input.Specifications {
		if strings.TrimSpace(spec.Label) == "" {
			fields[fmt.Sprintf("specifications[%d].label", i)] = "required"
		}
	}
	if len(fields) > 0 {
		return "", "", pkgerrors.Validation("invalid product", fields)
	}
	return name, productSlug, nil
}

// Save creates (id == nil) or replaces a product, its files and its category links.
// New files are uploaded first; the row and links are written in one transaction;
// files the product no longer references are removed after the commit.
func (s *service) Save(ctx context.Context, id *uuid.UUID, input SaveInput, files assets.Files) (*ProductDTO, error) {
	name, productSlug, err := validateSave(input)
	if err != nil {
		return nil, err
	}

	next := models.Product{ID: uuid.New()}
	if id != nil {
		current, err := s.load(ctx, *id)
		if err != nil {
			return nil, err
		}
		next = *current
	}
	if err := s.checkReferences(ctx, input); err != nil {
		return nil, err
	}

	next.Name = name
	next.Slug = productSlug
	next.SKU = normalizeSKU(input.SKU)
	next.ShortDescription = sanitize.Text(input.ShortDescription)
	next.Description = sanitize.HTML(input.Description)
	next.BrandID = input.BrandID
	next.Specifications = cleanSpecs(input.Specifications)
	next.IsFeatured = input.IsFeatured
	next.IsActive = input.IsActive
	next.SortOrder = input.SortOrder

	folder := path.Join(assets.FolderProducts, next.ID.String())
	plan := s.assets.Begin()
	slots := []assets.Slot{
		{Field: FieldMainImage, Folder: folder, Name: "main", Kind: enums.AssetKindImage, URL: &next.MainImageURL},
		{Field: FieldDatasheet, Folder: folder, Name: "datasheet", Kind: enums.AssetKindDocument, URL: &next.DatasheetURL},
	}
	clears := map[string]bool{FieldMainImage: input.RemoveMainImage, FieldDatasheet: input.RemoveDatasheet}
	if err := plan.Stage(ctx, slots, files.Singles(), clears); err != nil {
		plan.Discard(ctx)
		return nil, err
	}

	current := []string(next.GalleryURLs)
	keep := current
	if input.GalleryKeep != nil {
		keep = *input.GalleryKeep
	}
	gallery, err := plan.StageList(ctx, assets.ListSlot{Field: FieldGallery, Folder: folder, Name: "gallery", Kind: enums.AssetKindImage}, current, keep, files[FieldGallery])
	if err != nil {
		plan.Discard(ctx)
		return nil, err
	}
	next.GalleryURLs = gallery

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Upsert(ctx, &next); err != nil {
			return err
		}
		return txRepo.ReplaceCategories(ctx, next.ID, input.CategoryIDs)
	})
	if err != nil {
		plan.Discard(ctx)
		if db.IsUniqueViolation(err, "products_slug_key") || db.IsUniqueViolation(err, "products.slug") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a product with this slug already exists").
				WithDetails(map[string]string{"slug": productSlug})
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product conflicts with an existing record")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save product")
	}
	plan.Commit(ctx)

	return s.withCategories(ctx, next)
}

func (s *service) checkReferences(ctx context.Context, input SaveInput) error {
	fields := map[string]string{}
	if input.BrandID != nil {
		ok, err := s.repo.BrandExists(ctx, *input.BrandID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load brand")
		}
		if !ok {
			fields["brand_id"] = "unknown brand"
		}
	}
	missing, err := s.repo.MissingCategories(ctx, input.CategoryIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product categories")
	}
	if len(missing) > 0 {
		fields["category_ids"] = fmt.Sprintf("unknown category %s", missing[0])
	}
	if len(fields) > 0 {
		return pkgerrors.Validation("invalid product references", fields)
	}
	return nil
}

// Delete removes the product and its links, then every file it referenced.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}

	urls := append([]string{product.MainImageURL, product.DatasheetURL}, product.GalleryURLs...)
	s.assets.RemoveURLs(context.WithoutCancel(ctx), assets.URLsForDeletion(urls...)...)
	return nil
}

func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func cleanSpecs(specs []models.ProductSpec) []models.ProductSpec {
	out := make([]models.ProductSpec, 0, len(specs))
	for _, spec := range specs {
		out = append(out, models.ProductSpec{
			Label: sanitize.Text(spec.Label),
			Value: sanitize.Text(spec.Value),
		})
	}
	return out
}
