package scripts

import (
	"context"

	"github.com/google/uuid"
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

// List returns scripts ordered for injection; enabledOnly hides disabled ones.
func (r *Repository) List(ctx context.Context, enabledOnly bool) ([]models.CustomScript, error) {
	q := r.db.WithContext(ctx).Model(&models.CustomScript{})
	if enabledOnly {
		q = q.Where("enabled = ?", true)
	}
	var rows []models.CustomScript
	err := q.Order("placement ASC").Order("sort_order ASC").Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomScript, bool, error) {
	var script models.CustomScript
	found, err := repo.First(r.db.WithContext(ctx).Where("id = ?", id), &script)
	if err != nil || !found {
		return nil, found, err
	}
	return &script, true, nil
}

func (r *Repository) Upsert(ctx context.Context, script *models.CustomScript) error {
	return repo.Upsert(r.db.WithContext(ctx), script)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.CustomScript{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
