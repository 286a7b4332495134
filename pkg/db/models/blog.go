package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
)

type BlogCategory struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex:blog_categories_slug_key"`
	Description string    `gorm:"column:description;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (BlogCategory) TableName() string { return "blog_categories" }

// BlogPost is an article; AuthorID/AuthorName are stamped from the admin who created it.
type BlogPost struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Title          string           `gorm:"column:title;not null"`
	Slug           string           `gorm:"column:slug;not null;uniqueIndex:blog_posts_slug_key"`
	Excerpt        string           `gorm:"column:excerpt;not null"`
	Content        string           `gorm:"column:content;not null"`
	CoverImageURL  string           `gorm:"column:cover_image_url;not null"`
	CategoryID     *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	AuthorID       *uuid.UUID       `gorm:"column:author_id;type:uuid"`
	AuthorName     string           `gorm:"column:author_name;not null"`
	Status         enums.PostStatus `gorm:"column:status;not null"`
	PublishedAt    *time.Time       `gorm:"column:published_at"`
	SEOTitle       string           `gorm:"column:seo_title;not null"`
	SEODescription string           `gorm:"column:seo_description;not null"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (BlogPost) TableName() string { return "blog_posts" }
