package blog

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
)

type PostDTO struct {
	ID             uuid.UUID        `json:"id"`
	Title          string           `json:"title"`
	Slug           string           `json:"slug"`
	Excerpt        string           `json:"excerpt"`
	Content        string           `json:"content"`
	CoverImageURL  string           `json:"cover_image_url"`
	CategoryID     *uuid.UUID       `json:"category_id,omitempty"`
	AuthorID       *uuid.UUID       `json:"author_id,omitempty"`
	AuthorName     string           `json:"author_name"`
	Status         enums.PostStatus `json:"status"`
	PublishedAt    *time.Time       `json:"published_at,omitempty"`
	SEOTitle       string           `json:"seo_title"`
	SEODescription string           `json:"seo_description"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
}

func toPostDTO(p models.BlogPost) PostDTO {
	return PostDTO{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Excerpt:        p.Excerpt,
		Content:        p.Content,
		CoverImageURL:  p.CoverImageURL,
		CategoryID:     p.CategoryID,
		AuthorID:       p.AuthorID,
		AuthorName:     p.AuthorName,
		Status:         p.Status,
		PublishedAt:    p.PublishedAt,
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toCategoryDTO(c models.BlogCategory) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}
