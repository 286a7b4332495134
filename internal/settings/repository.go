package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/siteadmin-backend/internal/repo"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
)

// Repository reads and writes the singleton settings rows and page headers.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Load fills dest with the singleton row of its table. A missing row is not an error.
func (r *Repository) Load(ctx context.Context, dest any) (bool, error) {
	return repo.First(r.db.WithContext(ctx).Where("id = ?", models.SingletonID), dest)
}

// Save upserts a singleton row; the caller sets its id to models.SingletonID.
func (r *Repository) Save(ctx context.Context, row any) error {
	return repo.Upsert(r.db.WithContext(ctx), row)
}

func (r *Repository) ListHeaders(ctx context.Context) ([]models.PageHeader, error) {
	var rows []models.PageHeader
	err := r.db.WithContext(ctx).Order("page_key ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindHeader(ctx context.Context, key string) (*models.PageHeader, bool, error) {
	var header models.PageHeader
	found, err := repo.First(r.db.WithContext(ctx).Where("page_key = ?", key), &header)
	if err != nil || !found {
		return nil, found, err
	}
	return &header, true, nil
}

func (r *Repository) SaveHeader(ctx context.Context, header *models.PageHeader) error {
	return repo.Upsert(r.db.WithContext(ctx), header)
}

func (r *Repository) DeleteHeader(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&models.PageHeader{}, "page_key = ?", key).Error
}
