package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
)

// ProductDTO is the API shape of a product.
type ProductDTO struct {
	ID               uuid.UUID            `json:"id"`
	Name             string               `json:"name"`
	Slug             string               `json:"slug"`
	SKU              *string              `json:"sku,omitempty"`
	ShortDescription string               `json:"short_description"`
	Description      string               `json:"description"`
	BrandID          *uuid.UUID           `json:"brand_id,omitempty"`
	MainImageURL     string               `json:"main_image_url"`
	GalleryURLs      []string             `json:"gallery_urls"`
	DatasheetURL     string               `json:"datasheet_url"`
	Specifications   []models.ProductSpec `json:"specifications"`
	CategoryIDs      []uuid.UUID          `json:"category_ids"`
	IsFeatured       bool                 `json:"is_featured"`
	IsActive         bool                 `json:"is_active"`
	SortOrder        int                  `json:"sort_order"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// CategoryDTO is the API shape of a product category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toDTO(p models.Product, categoryIDs []uuid.UUID) ProductDTO {
	gallery := []string(p.GalleryURLs)
	if gallery == nil {
		gallery = []string{}
	}
	specs := []models.ProductSpec(p.Specifications)
	if specs == nil {
		specs = []models.ProductSpec{}
	}
	if categoryIDs == nil {
		categoryIDs = []uuid.UUID{}
	}
	return ProductDTO{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		SKU:              p.SKU,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		BrandID:          p.BrandID,
		MainImageURL:     p.MainImageURL,
		GalleryURLs:      gallery,
		DatasheetURL:     p.DatasheetURL,
		Specifications:   specs,
		CategoryIDs:      categoryIDs,
		IsFeatured:       p.IsFeatured,
		IsActive:         p.IsActive,
		SortOrder:        p.SortOrder,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toCategoryDTO(c models.ProductCategory) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
