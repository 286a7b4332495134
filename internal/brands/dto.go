package brands

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
)

type BrandDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	WebsiteURL  string    `json:"website_url"`
	LogoURL     string    `json:"logo_url"`
	IsFeatured  bool      `json:"is_featured"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toDTO(b models.Brand) BrandDTO {
	return BrandDTO{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		WebsiteURL:  b.WebsiteURL,
		LogoURL:     b.LogoURL,
		IsFeatured:  b.IsFeatured,
		SortOrder:   b.SortOrder,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toDTOs(rows []models.Brand) []BrandDTO {
	out := make([]BrandDTO, 0, len(rows))
	for _, b := range rows {
		out = append(out, toDTO(b))
	}
	return out
}
