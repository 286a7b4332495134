package models

import (
	"time"

	"gorm.io/datatypes"
)

// SingletonID is the primary key of every settings row.
const SingletonID = 1

type SocialLink struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

type FooterLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type SiteSettings struct {
	ID           int                             `gorm:"column:id;primaryKey;autoIncrement:false"`
	SiteName     string                          `gorm:"column:site_name;not null"`
	Tagline      string                          `gorm:"column:tagline;not null"`
	LogoURL      string                          `gorm:"column:logo_url;not null"`
	FaviconURL   string                          `gorm:"column:favicon_url;not null"`
	ContactEmail string                          `gorm:"column:contact_email;not null"`
	Phone        string                          `gorm:"column:phone;not null"`
	WhatsApp     string                          `gorm:"column:whatsapp;not null"`
	Address      string                          `gorm:"column:address;not null"`
	SocialLinks  datatypes.JSONSlice[SocialLink] `gorm:"column:social_links"`
	UpdatedAt    time.Time                       `gorm:"column:updated_at;autoUpdateTime"`
}

func (SiteSettings) TableName() string { return "site_settings" }

type AboutSettings struct {
	ID                int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title             string    `gorm:"column:title;not null"`
	Subtitle          string    `gorm:"column:subtitle;not null"`
	Body              string    `gorm:"column:body;not null"`
	Mission           string    `gorm:"column:mission;not null"`
	Vision            string    `gorm:"column:vision;not null"`
	ImageURL          string    `gorm:"column:image_url;not null"`
	SecondaryImageURL string    `gorm:"column:secondary_image_url;not null"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (AboutSettings) TableName() string { return "about_settings" }

type ContactSettings struct {
	ID           int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title        string    `gorm:"column:title;not null"`
	Subtitle     string    `gorm:"column:subtitle;not null"`
	Email        string    `gorm:"column:email;not null"`
	Phone        string    `gorm:"column:phone;not null"`
	Address      string    `gorm:"column:address;not null"`
	OfficeHours  string    `gorm:"column:office_hours;not null"`
	MapEmbedURL  string    `gorm:"column:map_embed_url;not null"`
	HeroImageURL string    `gorm:"column:hero_image_url;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ContactSettings) TableName() string { return "contact_settings" }

type FooterSettings struct {
	ID          int                             `gorm:"column:id;primaryKey;autoIncrement:false"`
	LogoURL     string                          `gorm:"column:logo_url;not null"`
	Description string                          `gorm:"column:description;not null"`
	Copyright   string                          `gorm:"column:copyright;not null"`
	Links       datatypes.JSONSlice[FooterLink] `gorm:"column:links"`
	SocialLinks datatypes.JSONSlice[SocialLink] `gorm:"column:social_links"`
	UpdatedAt   time.Time                       `gorm:"column:updated_at;autoUpdateTime"`
}

func (FooterSettings) TableName() string { return "footer_settings" }

type CTASettings struct {
	ID                 int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title              string    `gorm:"column:title;not null"`
	Subtitle           string    `gorm:"column:subtitle;not null"`
	ButtonLabel        string    `gorm:"column:button_label;not null"`
	ButtonURL          string    `gorm:"column:button_url;not null"`
	BackgroundImageURL string    `gorm:"column:background_image_url;not null"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CTASettings) TableName() string { return "cta_settings" }

// PageHeader is the hero banner of one public page, keyed by page.
type PageHeader struct {
	PageKey   string    `gorm:"column:page_key;primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Subtitle  string    `gorm:"column:subtitle;not null"`
	ImageURL  string    `gorm:"column:image_url;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PageHeader) TableName() string { return "page_headers" }
