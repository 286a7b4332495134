package brands

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/siteadmin-backend/internal/repo"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/pagination"
)

// Repository persists brands.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListFilter narrows admin and public brand listings.
type ListFilter struct {
	Query        string
	FeaturedOnly bool
}

func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Brand, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Brand{})
	if filter.Query != "" {
		q = q.Where("LOWER(name) LIKE ?"+repo.LikeEscape, repo.ContainsPattern(filter.Query))
	}
	if filter.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Brand
	if err := page.Apply(q.Order("sort_order ASC").Order("name ASC")).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, bool, error) {
	var brand models.Brand
	found, err := repo.First(r.db.WithContext(ctx).Where("id = ?", id), &brand)
	if err != nil || !found {
		return nil, found, err
	}
	return &brand, true, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Brand, bool, error) {
	var brand models.Brand
	found, err := repo.First(r.db.WithContext(ctx).Where("slug = ?", slug), &brand)
	if err != nil || !found {
		return nil, found, err
	}
	return &brand, true, nil
}

func (r *Repository) Upsert(ctx context.Context, brand *models.Brand) error {
	return repo.Upsert(r.db.WithContext(ctx), brand)
}

// Delete removes the brand and detaches it from products.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("brand_id = ?", id).Update("brand_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Brand{}, "id = ?", id).Error
	})
}
