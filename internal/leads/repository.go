package leads

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/siteadmin-backend/internal/repo"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	"github.com/angelmondragon/siteadmin-backend/pkg/pagination"
)

// Repository persists leads.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Filter holds independent lead filters; each applies only when set.
type Filter struct {
	Status enums.LeadStatus
	// Query is matched case-insensitively against name, email, company and message.
	Query string
}

func (r *Repository) Create(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *Repository) List(ctx context.Context, filter Filter, page pagination.Params) ([]models.Lead, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Lead{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Query != "" {
		like := repo.ContainsPattern(filter.Query)
		q = q.Where("(LOWER(name) LIKE ?"+repo.LikeEscape+
			" OR LOWER(email) LIKE ?"+repo.LikeEscape+
			" OR LOWER(company) LIKE ?"+repo.LikeEscape+
			" OR LOWER(message) LIKE ?"+repo.LikeEscape+")", like, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.Lead
	if err := page.Apply(q.Order("created_at DESC").Order("id ASC")).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, bool, error) {
	var lead models.Lead
	found, err := repo.First(r.db.WithContext(ctx).Where("id = ?", id), &lead)
	if err != nil || !found {
		return nil, found, err
	}
	return &lead, true, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.LeadStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Lead{}).Where("id = ?", id).Update("status", status)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Lead{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
