package legal

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/siteadmin-backend/internal/repo"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]models.LegalPage, error) {
	var rows []models.LegalPage
	err := r.db.WithContext(ctx).Order("slug ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.LegalPage, bool, error) {
	var page models.LegalPage
	found, err := repo.First(r.db.WithContext(ctx).Where("slug = ?", slug), &page)
	if err != nil || !found {
		return nil, found, err
	}
	return &page, true, nil
}

func (r *Repository) Upsert(ctx context.Context, page *models.LegalPage) error {
	return repo.Upsert(r.db.WithContext(ctx), page)
}

func (r *Repository) Delete(ctx context.Context, slug string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.LegalPage{}, "slug = ?", slug)
	return res.RowsAffected > 0, res.Error
}
