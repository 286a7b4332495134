package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/siteadmin-backend/internal/repo"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
)

// Repository persists admin users.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByEmail returns (nil, false, nil) when no admin has the address.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, bool, error) {
	var admin models.AdminUser
	found, err := repo.First(r.db.WithContext(ctx).Where("email = ?", email), &admin)
	if err != nil || !found {
		return nil, found, err
	}
	return &admin, true, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, bool, error) {
	var admin models.AdminUser
	found, err := repo.First(r.db.WithContext(ctx).Where("id = ?", id), &admin)
	if err != nil || !found {
		return nil, found, err
	}
	return &admin, true, nil
}

func (r *Repository) Upsert(ctx context.Context, admin *models.AdminUser) error {
	return repo.Upsert(r.db.WithContext(ctx), admin)
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.AdminUser{}).Where("id = ?", id).Update("last_login_at", at).Error
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).Model(&models.AdminUser{}).Where("id = ?", id).Update("password_hash", hash).Error
}
