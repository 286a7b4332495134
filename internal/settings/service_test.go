package settings

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/siteadmin-backend/internal/assets"
	"github.com/angelmondragon/siteadmin-backend/internal/testsupport"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage/memory"
)

func newTestService(t *testing.T) (*Service, *Repository, *assets.Manager, *memory.Store) {
	t.Helper()
	client := testsupport.OpenDB(t)
	manager, store := testsupport.Assets(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, manager)
	require.NoError(t, err)
	return svc, repo, manager, store
}

func png(field string) assets.Files {
	return assets.Files{field: {assets.FileFromBytes(field+".png", testsupport.PNG)}}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	fields, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	return fields
}

func TestSiteEmptyStateBeforeFirstSave(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	dto, err := svc.Site(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dto.SiteName)
	assert.Nil(t, dto.UpdatedAt)
	assert.NotNil(t, dto.SocialLinks)
	assert.Empty(t, dto.SocialLinks)
}

func TestSaveSiteStoresSingletonRow(t *testing.T) {
	svc, repo, manager, store := newTestService(t)
	ctx := context.Background()

	files := png(FieldLogo)
	files[FieldFavicon] = []assets.File{assets.FileFromBytes("favicon.png", testsupport.PNG)}
	dto, err := svc.SaveSite(ctx, SiteInput{
		SiteName:    "  Acme <b>Industrial</b> ",
		SocialLinks: []models.SocialLink{{Network: "Instagram", URL: "https://instagram.com/acme"}},
	}, files)
	require.NoError(t, err)

	assert.Equal(t, "Acme Industrial", dto.SiteName)
	assert.Equal(t, "instagram", dto.SocialLinks[0].Network)
	assert.NotNil(t, dto.UpdatedAt)
	logoPath := testsupport.Path(t, manager, dto.LogoURL)
	assert.True(t, strings.HasPrefix(logoPath, "site/logo-"))
	assert.True(t, store.Has(testsupport.Path(t, manager, dto.FaviconURL)))

	_, err = svc.SaveSite(ctx, SiteInput{SiteName: "Acme"}, nil)
	require.NoError(t, err)

	var count int64
	require.NoError(t, repo.db.Model(&models.SiteSettings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	again, err := svc.Site(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.SiteName)
	assert.Equal(t, dto.LogoURL, again.LogoURL, "logo kept without a new file")
	assert.Empty(t, again.SocialLinks)
}

func TestSaveSiteRejectsBadSocialLinkBeforeUpload(t *testing.T) {
	svc, _, _, store := newTestService(t)

	_, err := svc.SaveSite(context.Background(), SiteInput{
		SocialLinks: []models.SocialLink{{Network: "x", URL: "javascript:alert(1)"}},
	}, png(FieldLogo))
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	assert.Contains(t, fieldErrors(t, err), "social_links[0].url")
	assert.Equal(t, 0, store.Len())
}

func TestSaveAboutReplaceAndRemoveImages(t *testing.T) {
	svc, _, manager, store := newTestService(t)
	ctx := context.Background()

	first, err := svc.SaveAbout(ctx, AboutInput{Title: "Nosotros", Body: "<p>Texto</p><script>x()</script>"}, png(FieldImage))
	require.NoError(t, err)
	assert.Equal(t, "<p>Texto</p>", first.Body)
	oldPath := testsupport.Path(t, manager, first.ImageURL)

	second, err := svc.SaveAbout(ctx, AboutInput{Title: "Nosotros"}, png(FieldImage))
	require.NoError(t, err)
	assert.NotEqual(t, first.ImageURL, second.ImageURL)
	assert.False(t, store.Has(oldPath))

	third, err := svc.SaveAbout(ctx, AboutInput{Title: "Nosotros", RemoveImage: true}, nil)
	require.NoError(t, err)
	assert.Empty(t, third.ImageURL)
	assert.Equal(t, 0, store.Len())
}

func TestSaveContactValidatesEmailAndMap(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.SaveContact(context.Background(), ContactInput{Email: "not-an-email", MapEmbedURL: "ftp://maps"}, nil)
	require.Error(t, err)
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "map_embed_url")
}

func TestSaveFooterRequiresLinkLabels(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveFooter(ctx, FooterInput{Links: []models.FooterLink{{URL: "/contacto"}}}, nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	dto, err := svc.SaveFooter(ctx, FooterInput{
		Copyright: "© Acme",
		Links:     []models.FooterLink{{Label: "Contacto", URL: "/contacto"}},
	}, png(FieldLogo))
	require.NoError(t, err)
	assert.Equal(t, "© Acme", dto.Copyright)
	assert.Len(t, dto.Links, 1)
	assert.NotEmpty(t, dto.LogoURL)
}

func TestGetAndSaveDispatchByKind(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	raw := []byte(`{"title":"Cotiza hoy","button_label":"Escríbenos","button_url":"/contacto"}`)
	saved, err := svc.Save(ctx, enums.SettingsKindCTA, func(dst any) error { return json.Unmarshal(raw, dst) }, png(FieldBackgroundImage))
	require.NoError(t, err)
	cta, ok := saved.(CTADTO)
	require.True(t, ok)
	assert.Equal(t, "Escríbenos", cta.ButtonLabel)
	assert.NotEmpty(t, cta.BackgroundImageURL)

	got, err := svc.Get(ctx, enums.SettingsKindCTA)
	require.NoError(t, err)
	assert.Equal(t, cta.BackgroundImageURL, got.(CTADTO).BackgroundImageURL)

	_, err = svc.Get(ctx, enums.SettingsKind("nope"))
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestPageHeaderLifecycle(t *testing.T) {
	svc, _, manager, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveHeader(ctx, "Bad Key", PageHeaderInput{Title: "x"}, nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.Header(ctx, "productos")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	header, err := svc.SaveHeader(ctx, "productos", PageHeaderInput{Title: "Productos"}, png(FieldImage))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(testsupport.Path(t, manager, header.ImageURL), "page-headers/productos-"))

	_, err = svc.SaveHeader(ctx, "blog", PageHeaderInput{Title: "Blog"}, nil)
	require.NoError(t, err)

	list, err := svc.ListHeaders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "blog", list[0].PageKey)

	require.NoError(t, svc.DeleteHeader(ctx, "productos"))
	assert.Equal(t, 0, store.Len())
	_, err = svc.Header(ctx, "productos")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
