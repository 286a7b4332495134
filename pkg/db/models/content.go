package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
)

// LegalPage holds sanitized HTML for privacy/terms style pages.
type LegalPage struct {
	Slug      string    `gorm:"column:slug;primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Content   string    `gorm:"column:content;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LegalPage) TableName() string { return "legal_pages" }

// CustomScript is an admin-supplied snippet injected verbatim into public pages.
type CustomScript struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name      string                `gorm:"column:name;not null"`
	Placement enums.ScriptPlacement `gorm:"column:placement;not null"`
	Content   string                `gorm:"column:content;not null"`
	Enabled   bool                  `gorm:"column:enabled;not null"`
	SortOrder int                   `gorm:"column:sort_order;not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (CustomScript) TableName() string { return "custom_scripts" }

// AdminUser is a back-office account.
type AdminUser struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Email        string     `gorm:"column:email;not null;uniqueIndex:admin_users_email_key"`
	Name         string     `gorm:"column:name;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (AdminUser) TableName() string { return "admin_users" }

// All lists every model, in dependency order, for AutoMigrate in tests.
func All() []any {
	return []any{
		&AdminUser{},
		&Brand{},
		&ProductCategory{},
		&Product{},
		&ProductCategoryLink{},
		&BlogCategory{},
		&BlogPost{},
		&Lead{},
		&SiteSettings{},
		&AboutSettings{},
		&ContactSettings{},
		&FooterSettings{},
		&CTASettings{},
		&PageHeader{},
		&LegalPage{},
		&CustomScript{},
	}
}
