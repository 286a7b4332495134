package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/siteadmin-backend/internal/repo"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/pagination"
)

// Repository persists products, categories and their links.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListFilter holds the composable product list filters. Zero values disable a filter.
type ListFilter struct {
	Query      string
	BrandID    *uuid.UUID
	CategoryID *uuid.UUID
	Active     *bool
}

func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.Query != "" {
		like := repo.ContainsPattern(filter.Query)
		q = q.Where("(LOWER(name) LIKE ?"+repo.LikeEscape+
			" OR LOWER(COALESCE(sku, '')) LIKE ?"+repo.LikeEscape+
			" OR LOWER(short_description) LIKE ?"+repo.LikeEscape+")", like, like, like)
	}
	if filter.BrandID != nil {
		q = q.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.CategoryID != nil {
		q = q.Where("id IN (?)", r.db.Model(&models.ProductCategoryLink{}).Select("product_id").Where("category_id = ?", *filter.CategoryID))
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	if err := page.Apply(q.Order("sort_order ASC").Order("name ASC")).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, bool, error) {
	var product models.Product
	found, err := repo.First(r.db.WithContext(ctx).Where("id = ?", id), &product)
	if err != nil || !found {
		return nil, found, err
	}
	return &product, true, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, bool, error) {
	var product models.Product
	found, err := repo.First(r.db.WithContext(ctx).Where("slug = ?", slug), &product)
	if err != nil || !found {
		return nil, found, err
	}
	return &product, true, nil
}

func (r *Repository) Upsert(ctx context.Context, product *models.Product) error {
	return repo.Upsert(r.db.WithContext(ctx), product)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.ProductCategoryLink{}, "product_id = ?", id).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// CategoryIDs returns the linked category ids of each product.
func (r *Repository) CategoryIDs(ctx context.Context, productIDs ...uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var links []models.ProductCategoryLink
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("created_at ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	for _, link := range links {
		out[link.ProductID] = append(out[link.ProductID], link.CategoryID)
	}
	return out, nil
}

// ReplaceCategories reconciles the product's links with want: missing links are
// inserted and dropped links deleted. Unchanged links are not touched.
func (r *Repository) ReplaceCategories(ctx context.Context, productID uuid.UUID, want []uuid.UUID) error {
	var existing []models.ProductCategoryLink
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&existing).Error; err != nil {
		return err
	}
	toAdd, toDrop := diffLinks(existing, want)

	if len(toDrop) > 0 {
		if err := r.db.WithContext(ctx).
			Where("product_id = ? AND category_id IN ?", productID, toDrop).
			Delete(&models.ProductCategoryLink{}).Error; err != nil {
			return err
		}
	}
	if len(toAdd) == 0 {
		return nil
	}
	rows := make([]models.ProductCategoryLink, 0, len(toAdd))
	for _, categoryID := range toAdd {
		rows = append(rows, models.ProductCategoryLink{ProductID: productID, CategoryID: categoryID})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func diffLinks(existing []models.ProductCategoryLink, want []uuid.UUID) (toAdd, toDrop []uuid.UUID) {
	have := make(map[uuid.UUID]struct{}, len(existing))
	for _, link := range existing {
		have[link.CategoryID] = struct{}{}
	}
	wanted := make(map[uuid.UUID]struct{}, len(want))
	for _, id := range want {
		if _, dup := wanted[id]; dup {
			continue
		}
		wanted[id] = struct{}{}
		if _, ok := have[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for _, link := range existing {
		if _, ok := wanted[link.CategoryID]; !ok {
			toDrop = append(toDrop, link.CategoryID)
		}
	}
	return toAdd, toDrop
}

// BrandExists reports whether a brand row with id exists.
func (r *Repository) BrandExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Brand{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// MissingCategories returns the ids in ids that have no category row.
func (r *Repository) MissingCategories(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.ProductCategory{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	present := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// Categories

func (r *Repository) ListCategories(ctx context.Context) ([]models.ProductCategory, error) {
	var rows []models.ProductCategory
	err := r.db.WithContext(ctx).Order("sort_order ASC").Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.ProductCategory, bool, error) {
	var category models.ProductCategory
	found, err := repo.First(r.db.WithContext(ctx).Where("id = ?", id), &category)
	if err != nil || !found {
		return nil, found, err
	}
	return &category, true, nil
}

func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.ProductCategory, bool, error) {
	var category models.ProductCategory
	found, err := repo.First(r.db.WithContext(ctx).Where("slug = ?", slug), &category)
	if err != nil || !found {
		return nil, found, err
	}
	return &category, true, nil
}

func (r *Repository) UpsertCategory(ctx context.Context, category *models.ProductCategory) error {
	return repo.Upsert(r.db.WithContext(ctx), category)
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProductCategoryLink{}, "category_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ProductCategory{}, "id = ?", id).Error
	})
}
