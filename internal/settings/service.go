package settings

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/angelmondragon/siteadmin-backend/internal/assets"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/sanitize"
)

// Multipart fields carrying settings images.
const (
	FieldLogo            = "logo"
	FieldFavicon         = "favicon"
	FieldImage           = "image"
	FieldSecondaryImage  = "secondary_image"
	FieldHeroImage       = "hero_image"
	FieldBackgroundImage = "background_image"
)

var pageKeyPattern = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)

type SiteInput struct {
	SiteName      string              `json:"site_name" validate:"max=160"`
	Tagline       string              `json:"tagline" validate:"max=250"`
	ContactEmail  string              `json:"contact_email" validate:"omitempty,email"`
	Phone         string              `json:"phone" validate:"max=40"`
	WhatsApp      string              `json:"whatsapp" validate:"max=40"`
	Address       string              `json:"address" validate:"max=500"`
	SocialLinks   []models.SocialLink `json:"social_links"`
	RemoveLogo    bool                `json:"remove_logo"`
	RemoveFavicon bool                `json:"remove_favicon"`
}

type AboutInput struct {
	Title                string `json:"title" validate:"max=250"`
	Subtitle             string `json:"subtitle" validate:"max=500"`
	Body                 string `json:"body"`
	Mission              string `json:"mission"`
	Vision               string `json:"vision"`
	RemoveImage          bool   `json:"remove_image"`
	RemoveSecondaryImage bool   `json:"remove_secondary_image"`
}

type ContactInput struct {
	Title           string `json:"title" validate:"max=250"`
	Subtitle        string `json:"subtitle" validate:"max=500"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"max=40"`
	Address         string `json:"address" validate:"max=500"`
	OfficeHours     string `json:"office_hours" validate:"max=250"`
	MapEmbedURL     string `json:"map_embed_url" validate:"omitempty,url"`
	RemoveHeroImage bool   `json:"remove_hero_image"`
}

type FooterInput struct {
	Description string              `json:"description" validate:"max=1000"`
	Copyright   string              `json:"copyright" validate:"max=250"`
	Links       []models.FooterLink `json:"links"`
	SocialLinks []models.SocialLink `json:"social_links"`
	RemoveLogo  bool                `json:"remove_logo"`
}

type CTAInput struct {
	Title                 string `json:"title" validate:"max=250"`
	Subtitle              string `json:"subtitle" validate:"max=500"`
	ButtonLabel           string `json:"button_label" validate:"max=80"`
	ButtonURL             string `json:"button_url" validate:"max=500"`
	RemoveBackgroundImage bool   `json:"remove_background_image"`
}

type PageHeaderInput struct {
	Title       string `json:"title" validate:"max=250"`
	Subtitle    string `json:"subtitle" validate:"max=500"`
	RemoveImage bool   `json:"remove_image"`
}

// Service manages the singleton settings rows and page headers.
type Service struct {
	repo   *Repository
	assets *assets.Manager
}

func NewService(repo *Repository, assetManager *assets.Manager) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if assetManager == nil {
		return nil, fmt.Errorf("asset manager required")
	}
	return &Service{repo: repo, assets: assetManager}, nil
}

// Get returns the DTO of kind; an unsaved kind yields its empty state.
func (s *Service) Get(ctx context.Context, kind enums.SettingsKind) (any, error) {
	switch kind {
	case enums.SettingsKindSite:
		return s.Site(ctx)
	case enums.SettingsKindAbout:
		return s.About(ctx)
	case enums.SettingsKindContact:
		return s.Contact(ctx)
	case enums.SettingsKindFooter:
		return s.Footer(ctx)
	case enums.SettingsKindCTA:
		return s.CTA(ctx)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown settings kind")
}

// Save decodes the input of kind with decode and saves it.
func (s *Service) Save(ctx context.Context, kind enums.SettingsKind, decode func(dst any) error, files assets.Files) (any, error) {
	switch kind {
	case enums.SettingsKindSite:
		var in SiteInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.SaveSite(ctx, in, files)
	case enums.SettingsKindAbout:
		var in AboutInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.SaveAbout(ctx, in, files)
	case enums.SettingsKindContact:
		var in ContactInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.SaveContact(ctx, in, files)
	case enums.SettingsKindFooter:
		var in FooterInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.SaveFooter(ctx, in, files)
	case enums.SettingsKindCTA:
		var in CTAInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.SaveCTA(ctx, in, files)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown settings kind")
}

func (s *Service) load(ctx context.Context, row any, what string) error {
	if _, err := s.repo.Load(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load "+what+" settings")
	}
	return nil
}

// persist stages the files of slots, upserts row and settles the plan.
func (s *Service) persist(ctx context.Context, row any, what string, slots []assets.Slot, files assets.Files, clears map[string]bool) error {
	plan := s.assets.Begin()
	if err := plan.Stage(ctx, slots, files.Singles(), clears); err != nil {
		plan.Discard(ctx)
		return err
	}
	if err := s.repo.Save(ctx, row); err != nil {
		plan.Discard(ctx)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save "+what+" settings")
	}
	plan.Commit(ctx)
	return nil
}

func (s *Service) Site(ctx context.Context) (SiteDTO, error) {
	var row models.SiteSettings
	if err := s.load(ctx, &row, "site"); err != nil {
		return SiteDTO{}, err
	}
	return siteDTO(row), nil
}

func (s *Service) SaveSite(ctx context.Context, in SiteInput, files assets.Files) (SiteDTO, error) {
	fields := map[string]string{}
	checkEmail(fields, "contact_email", in.ContactEmail)
	social := cleanSocial(fields, in.SocialLinks)
	if len(fields) > 0 {
		return SiteDTO{}, pkgerrors.Validation("invalid site settings", fields)
	}

	var row models.SiteSettings
	if err := s.load(ctx, &row, "site"); err != nil {
		return SiteDTO{}, err
	}
	row.ID = models.SingletonID
	row.SiteName = sanitize.Text(in.SiteName)
	row.Tagline = sanitize.Text(in.Tagline)
	row.ContactEmail = strings.TrimSpace(in.ContactEmail)
	row.Phone = sanitize.Text(in.Phone)
	row.WhatsApp = sanitize.Text(in.WhatsApp)
	row.Address = sanitize.Text(in.Address)
	row.SocialLinks = social

	slots := []assets.Slot{
		{Field: FieldLogo, Folder: assets.FolderSite, Name: "logo", Kind: enums.AssetKindImage, URL: &row.LogoURL},
		{Field: FieldFavicon, Folder: assets.FolderSite, Name: "favicon", Kind: enums.AssetKindImage, URL: &row.FaviconURL},
	}
	clears := map[string]bool{FieldLogo: in.RemoveLogo, FieldFavicon: in.RemoveFavicon}
	if err := s.persist(ctx, &row, "site", slots, files, clears); err != nil {
		return SiteDTO{}, err
	}
	return siteDTO(row), nil
}

func (s *Service) About(ctx context.Context) (AboutDTO, error) {
	var row models.AboutSettings
	if err := s.load(ctx, &row, "about"); err != nil {
		return AboutDTO{}, err
	}
	return aboutDTO(row), nil
}

func (s *Service) SaveAbout(ctx context.Context, in AboutInput, files assets.Files) (AboutDTO, error) {
	var row models.AboutSettings
	if err := s.load(ctx, &row, "about"); err != nil {
		return AboutDTO{}, err
	}
	row.ID = models.SingletonID
	row.Title = sanitize.Text(in.Title)
	row.Subtitle = sanitize.Text(in.Subtitle)
	row.Body = sanitize.HTML(in.Body)
	row.Mission = sanitize.HTML(in.Mission)
	row.Vision = sanitize.HTML(in.Vision)

	slots := []assets.Slot{
		{Field: FieldImage, Folder: assets.FolderAbout, Name: "image", Kind: enums.AssetKindImage, URL: &row.ImageURL},
		{Field: FieldSecondaryImage, Folder: assets.FolderAbout, Name: "secondary", Kind: enums.AssetKindImage, URL: &row.SecondaryImageURL},
	}
	clears := map[string]bool{FieldImage: in.RemoveImage, FieldSecondaryImage: in.RemoveSecondaryImage}
	if err := s.persist(ctx, &row, "about", slots, files, clears); err != nil {
		return AboutDTO{}, err
	}
	return aboutDTO(row), nil
}

func (s *Service) Contact(ctx context.Context) (ContactDTO, error) {
	var row models.ContactSettings
	if err := s.load(ctx, &row, "contact"); err != nil {
		return ContactDTO{}, err
	}
	return contactDTO(row), nil
}

func (s *Service) SaveContact(ctx context.Context, in ContactInput, files assets.Files) (ContactDTO, error) {
	fields := map[string]string{}
	checkEmail(fields, "email", in.Email)
	if in.MapEmbedURL != "" && !isHTTPURL(in.MapEmbedURL) {
		fields["map_embed_url"] = "invalid"
	}
	if len(fields) > 0 {
		return ContactDTO{}, pkgerrors.Validation("invalid contact settings", fields)
	}

	var row models.ContactSettings
	if err := s.load(ctx, &row, "contact"); err != nil {
		return ContactDTO{}, err
	}
	row.ID = models.SingletonID
	row.Title = sanitize.Text(in.Title)
	row.Subtitle = sanitize.Text(in.Subtitle)
	row.Email = strings.TrimSpace(in.Email)
	row.Phone = sanitize.Text(in.Phone)
	row.Address = sanitize.Text(in.Address)
	row.OfficeHours = sanitize.Text(in.OfficeHours)
	row.MapEmbedURL = strings.TrimSpace(in.MapEmbedURL)

	slots := []assets.Slot{
		{Field: FieldHeroImage, Folder: assets.FolderContact, Name: "hero", Kind: enums.AssetKindImage, URL: &row.HeroImageURL},
	}
	if err := s.persist(ctx, &row, "contact", slots, files, map[string]bool{FieldHeroImage: in.RemoveHeroImage}); err != nil {
		return ContactDTO{}, err
	}
	return contactDTO(row), nil
}

func (s *Service) Footer(ctx context.Context) (FooterDTO, error) {
	var row models.FooterSettings
	if err := s.load(ctx, &row, "footer"); err != nil {
		return FooterDTO{}, err
	}
	return footerDTO(row), nil
}

func (s *Service) SaveFooter(ctx context.Context, in FooterInput, files assets.Files) (FooterDTO, error) {
	fields := map[string]string{}
	links := make([]models.FooterLink, 0, len(in.Links))
	for i, link := range in.Links {
		label := sanitize.Text(link.Label)
		target := strings.TrimSpace(link.URL)
		if label == "" {
			fields[fmt.Sprintf("links[%d].label", i)] = "required"
		}
		if target == "" {
			fields[fmt.Sprintf("links[%d].url", i)] = "required"
		}
		links = append(links, models.FooterLink{Label: label, URL: target})
	}
	social := cleanSocial(fields, in.SocialLinks)
	if len(fields) > 0 {
		return FooterDTO{}, pkgerrors.Validation("invalid footer settings", fields)
	}

	var row models.FooterSettings
	if err := s.load(ctx, &row, "footer"); err != nil {
		return FooterDTO{}, err
	}
	row.ID = models.SingletonID
	row.Description = sanitize.Text(in.Description)
	row.Copyright = sanitize.Text(in.Copyright)
	row.Links = links
	row.SocialLinks = social

	slots := []assets.Slot{
		{Field: FieldLogo, Folder: assets.FolderFooter, Name: "logo", Kind: enums.AssetKindImage, URL: &row.LogoURL},
	}
	if err := s.persist(ctx, &row, "footer", slots, files, map[string]bool{FieldLogo: in.RemoveLogo}); err != nil {
		return FooterDTO{}, err
	}
	return footerDTO(row), nil
}

func (s *Service) CTA(ctx context.Context) (CTADTO, error) {
	var row models.CTASettings
	if err := s.load(ctx, &row, "cta"); err != nil {
		return CTADTO{}, err
	}
	return ctaDTO(row), nil
}

func (s *Service) SaveCTA(ctx context.Context, in CTAInput, files assets.Files) (CTADTO, error) {
	var row models.CTASettings
	if err := s.load(ctx, &row, "cta"); err != nil {
		return CTADTO{}, err
	}
	row.ID = models.SingletonID
	row.Title = sanitize.Text(in.Title)
	row.Subtitle = sanitize.Text(in.Subtitle)
	row.ButtonLabel = sanitize.Text(in.ButtonLabel)
	row.ButtonURL = strings.TrimSpace(in.ButtonURL)

	slots := []assets.Slot{
		{Field: FieldBackgroundImage, Folder: assets.FolderCTA, Name: "background", Kind: enums.AssetKindImage, URL: &row.BackgroundImageURL},
	}
	if err := s.persist(ctx, &row, "cta", slots, files, map[string]bool{FieldBackgroundImage: in.RemoveBackgroundImage}); err != nil {
		return CTADTO{}, err
	}
	return ctaDTO(row), nil
}

func checkEmail(fields map[string]string, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		fields[field] = "invalid"
	}
}

func cleanSocial(fields map[string]string, links []models.SocialLink) []models.SocialLink {
	out := make([]models.SocialLink, 0, len(links))
	for i, link := range links {
		network := strings.ToLower(sanitize.Text(link.Network))
		target := strings.TrimSpace(link.URL)
		if network == "" {
			fields[fmt.Sprintf("social_links[%d].network", i)] = "required"
		}
		if !isHTTPURL(target) {
			fields[fmt.Sprintf("social_links[%d].url", i)] = "invalid"
		}
		out = append(out, models.SocialLink{Network: network, URL: target})
	}
	return out
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
