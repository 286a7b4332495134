package blog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/siteadmin-backend/internal/repo"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	"github.com/angelmondragon/siteadmin-backend/pkg/pagination"
)

// Repository persists blog posts and categories.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// PostFilter holds the composable post list filters.
type PostFilter struct {
	Query      string
	Status     enums.PostStatus
	CategoryID *uuid.UUID
}

func (r *Repository) ListPosts(ctx context.Context, filter PostFilter, page pagination.Params) ([]models.BlogPost, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.BlogPost{})
	if filter.Query != "" {
		like := repo.ContainsPattern(filter.Query)
		q = q.Where("(LOWER(title) LIKE ?"+repo.LikeEscape+" OR LOWER(excerpt) LIKE ?"+repo.LikeEscape+")", like, like)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.BlogPost
	order := "created_at DESC"
	if filter.Status == enums.PostStatusPublished {
		order = "published_at DESC"
	}
	if err := page.Apply(q.Order(order).Order("id ASC")).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) FindPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, bool, error) {
	var post models.BlogPost
	found, err := repo.First(r.db.WithContext(ctx).Where("id = ?", id), &post)
	if err != nil || !found {
		return nil, found, err
	}
	return &post, true, nil
}

func (r *Repository) FindPostBySlug(ctx context.Context, slug string) (*models.BlogPost, bool, error) {
	var post models.BlogPost
	found, err := repo.First(r.db.WithContext(ctx).Where("slug = ?", slug), &post)
	if err != nil || !found {
		return nil, found, err
	}
	return &post, true, nil
}

func (r *Repository) UpsertPost(ctx context.Context, post *models.BlogPost) error {
	return repo.Upsert(r.db.WithContext(ctx), post)
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.BlogPost{}, "id = ?", id).Error
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.BlogCategory, error) {
	var rows []models.BlogCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.BlogCategory, bool, error) {
	var category models.BlogCategory
	found, err := repo.First(r.db.WithContext(ctx).Where("id = ?", id), &category)
	if err != nil || !found {
		return nil, found, err
	}
	return &category, true, nil
}

func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.BlogCategory, bool, error) {
	var category models.BlogCategory
	found, err := repo.First(r.db.WithContext(ctx).Where("slug = ?", slug), &category)
	if err != nil || !found {
		return nil, found, err
	}
	return &category, true, nil
}

func (r *Repository) UpsertCategory(ctx context.Context, category *models.BlogCategory) error {
	return repo.Upsert(r.db.WithContext(ctx), category)
}

// DeleteCategory removes the category and clears it from its posts.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BlogPost{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BlogCategory{}, "id = ?", id).Error
	})
}
