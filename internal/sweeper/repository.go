package sweeper

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
)

// urlColumn names a single URL-valued column.
type urlColumn struct {
	model  any
	column string
}

var urlColumns = []urlColumn{
	{&models.Product{}, "main_image_url"},
	{&models.Product{}, "datasheet_url"},
	{&models.Brand{}, "logo_url"},
	{&models.BlogPost{}, "cover_image_url"},
	{&models.SiteSettings{}, "logo_url"},
	{&models.SiteSettings{}, "favicon_url"},
	{&models.AboutSettings{}, "image_url"},
	{&models.AboutSettings{}, "secondary_image_url"},
	{&models.ContactSettings{}, "hero_image_url"},
	{&models.FooterSettings{}, "logo_url"},
	{&models.CTASettings{}, "background_image_url"},
	{&models.PageHeader{}, "image_url"},
}

// Repository reads every asset URL the record store references.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ReferencedURLs returns the non-empty asset URLs of every table, galleries included.
func (r *Repository) ReferencedURLs(ctx context.Context) ([]string, error) {
	var out []string
	for _, c := range urlColumns {
		var urls []string
		if err := r.db.WithContext(ctx).Model(c.model).Where(c.column+" <> ''").Pluck(c.column, &urls).Error; err != nil {
			return nil, fmt.Errorf("pluck %s: %w", c.column, err)
		}
		out = append(out, urls...)
	}

	var products []models.Product
	if err := r.db.WithContext(ctx).Select("id", "gallery_urls").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("load galleries: %w", err)
	}
	for _, p := range products {
		out = append(out, p.GalleryURLs...)
	}
	return out, nil
}
