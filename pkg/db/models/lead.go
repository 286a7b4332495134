package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
)

// Lead is a public contact-form submission.
type Lead struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name      string           `gorm:"column:name;not null"`
	Email     string           `gorm:"column:email;not null"`
	Phone     string           `gorm:"column:phone;not null"`
	Company   string           `gorm:"column:company;not null"`
	Message   string           `gorm:"column:message;not null"`
	Source    string           `gorm:"column:source;not null"`
	Status    enums.LeadStatus `gorm:"column:status;not null;index:idx_leads_status"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Lead) TableName() string { return "leads" }
