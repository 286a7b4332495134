package settings

import (
	"time"

	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
)

type SiteDTO struct {
	SiteName     string              `json:"site_name"`
	Tagline      string              `json:"tagline"`
	LogoURL      string              `json:"logo_url"`
	FaviconURL   string              `json:"favicon_url"`
	ContactEmail string              `json:"contact_email"`
	Phone        string              `json:"phone"`
	WhatsApp     string              `json:"whatsapp"`
	Address      string              `json:"address"`
	SocialLinks  []models.SocialLink `json:"social_links"`
	UpdatedAt    *time.Time          `json:"updated_at,omitempty"`
}

type AboutDTO struct {
	Title             string     `json:"title"`
	Subtitle          string     `json:"subtitle"`
	Body              string     `json:"body"`
	Mission           string     `json:"mission"`
	Vision            string     `json:"vision"`
	ImageURL          string     `json:"image_url"`
	SecondaryImageURL string     `json:"secondary_image_url"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

type ContactDTO struct {
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	OfficeHours  string     `json:"office_hours"`
	MapEmbedURL  string     `json:"map_embed_url"`
	HeroImageURL string     `json:"hero_image_url"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type FooterDTO struct {
	LogoURL     string              `json:"logo_url"`
	Description string              `json:"description"`
	Copyright   string              `json:"copyright"`
	Links       []models.FooterLink `json:"links"`
	SocialLinks []models.SocialLink `json:"social_links"`
	UpdatedAt   *time.Time          `json:"updated_at,omitempty"`
}

type CTADTO struct {
	Title              string     `json:"title"`
	Subtitle           string     `json:"subtitle"`
	ButtonLabel        string     `json:"button_label"`
	ButtonURL          string     `json:"button_url"`
	BackgroundImageURL string     `json:"background_image_url"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

type PageHeaderDTO struct {
	PageKey   string     `json:"page_key"`
	Title     string     `json:"title"`
	Subtitle  string     `json:"subtitle"`
	ImageURL  string     `json:"image_url"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// stamp hides the zero timestamp of a settings row that was never saved.
func stamp(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func siteDTO(m models.SiteSettings) SiteDTO {
	return SiteDTO{
		SiteName:     m.SiteName,
		Tagline:      m.Tagline,
		LogoURL:      m.LogoURL,
		FaviconURL:   m.FaviconURL,
		ContactEmail: m.ContactEmail,
		Phone:        m.Phone,
		WhatsApp:     m.WhatsApp,
		Address:      m.Address,
		SocialLinks:  orEmpty([]models.SocialLink(m.SocialLinks)),
		UpdatedAt:    stamp(m.UpdatedAt),
	}
}

func aboutDTO(m models.AboutSettings) AboutDTO {
	return AboutDTO{
		Title:             m.Title,
		Subtitle:          m.Subtitle,
		Body:              m.Body,
		Mission:           m.Mission,
		Vision:            m.Vision,
		ImageURL:          m.ImageURL,
		SecondaryImageURL: m.SecondaryImageURL,
		UpdatedAt:         stamp(m.UpdatedAt),
	}
}

func contactDTO(m models.ContactSettings) ContactDTO {
	return ContactDTO{
		Title:        m.Title,
		Subtitle:     m.Subtitle,
		Email:        m.Email,
		Phone:        m.Phone,
		Address:      m.Address,
		OfficeHours:  m.OfficeHours,
		MapEmbedURL:  m.MapEmbedURL,
		HeroImageURL: m.HeroImageURL,
		UpdatedAt:    stamp(m.UpdatedAt),
	}
}

func footerDTO(m models.FooterSettings) FooterDTO {
	return FooterDTO{
		LogoURL:     m.LogoURL,
		Description: m.Description,
		Copyright:   m.Copyright,
		Links:       orEmpty([]models.FooterLink(m.Links)),
		SocialLinks: orEmpty([]models.SocialLink(m.SocialLinks)),
		UpdatedAt:   stamp(m.UpdatedAt),
	}
}

func ctaDTO(m models.CTASettings) CTADTO {
	return CTADTO{
		Title:              m.Title,
		Subtitle:           m.Subtitle,
		ButtonLabel:        m.ButtonLabel,
		ButtonURL:          m.ButtonURL,
		BackgroundImageURL: m.BackgroundImageURL,
		UpdatedAt:          stamp(m.UpdatedAt),
	}
}

func headerDTO(m models.PageHeader) PageHeaderDTO {
	return PageHeaderDTO{
		PageKey:   m.PageKey,
		Title:     m.Title,
		Subtitle:  m.Subtitle,
		ImageURL:  m.ImageURL,
		UpdatedAt: stamp(m.UpdatedAt),
	}
}
