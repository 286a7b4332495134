package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProductSpec is one label/value row of a product's technical sheet.
type ProductSpec struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Product is a catalog entry with a main image, an ordered gallery and an optional datasheet.
type Product struct {
	ID               uuid.UUID                        `gorm:"column:id;type:uuid;primaryKey"`
	Name             string                           `gorm:"column:name;not null"`
	Slug             string                           `gorm:"column:slug;not null;uniqueIndex:products_slug_key"`
	SKU              *string                          `gorm:"column:sku"`
	ShortDescription string                           `gorm:"column:short_description;not null"`
	Description      string                           `gorm:"column:description;not null"`
	BrandID          *uuid.UUID                       `gorm:"column:brand_id;type:uuid"`
	MainImageURL     string                           `gorm:"column:main_image_url;not null"`
	GalleryURLs      datatypes.JSONSlice[string]      `gorm:"column:gallery_urls"`
	DatasheetURL     string                           `gorm:"column:datasheet_url;not null"`
	Specifications   datatypes.JSONSlice[ProductSpec] `gorm:"column:specifications"`
	IsFeatured       bool                             `gorm:"column:is_featured;not null"`
	IsActive         bool                             `gorm:"column:is_active;not null"`
	SortOrder        int                              `gorm:"column:sort_order;not null"`
	CreatedAt        time.Time                        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// ProductCategory groups products on the public catalog.
type ProductCategory struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex:product_categories_slug_key"`
	Description string    `gorm:"column:description;not null"`
	SortOrder   int       `gorm:"column:sort_order;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductCategory) TableName() string { return "product_categories" }

// ProductCategoryLink is the product <-> category association row.
type ProductCategoryLink struct {
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProductCategoryLink) TableName() string { return "product_category_links" }

// Brand is a manufacturer shown on the brands page.
type Brand struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex:brands_slug_key"`
	Description string    `gorm:"column:description;not null"`
	WebsiteURL  string    `gorm:"column:website_url;not null"`
	LogoURL     string    `gorm:"column:logo_url;not null"`
	IsFeatured  bool      `gorm:"column:is_featured;not null"`
	SortOrder   int       `gorm:"column:sort_order;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Brand) TableName() string { return "brands" }
