package brands

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/siteadmin-backend/internal/assets"
	"github.com/angelmondragon/siteadmin-backend/internal/testsupport"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/pagination"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage/memory"
)

func newTestService(t *testing.T) (Service, *Repository, *assets.Manager, *memory.Store) {
	t.Helper()
	client := testsupport.OpenDB(t)
	manager, store := testsupport.Assets(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, manager)
	require.NoError(t, err)
	return svc, repo, manager, store
}

func logoFile() assets.Files {
	return assets.Files{FieldLogo: {assets.FileFromBytes("logo.png", testsupport.PNG)}}
}

func TestSaveCreatesBrandWithSlugAndLogo(t *testing.T) {
	svc, _, manager, store := newTestService(t)

	dto, err := svc.Save(context.Background(), nil, SaveInput{Name: "Café Martínez", Description: "<p>Hola</p><script>x()</script>"}, logoFile())
	require.NoError(t, err)

	assert.Equal(t, "cafe-martinez", dto.Slug)
	assert.Equal(t, "<p>Hola</p>", dto.Description)
	assert.Contains(t, dto.LogoURL, "?t=")
	assert.True(t, store.Has(testsupport.Path(t, manager, dto.LogoURL)))
}

func TestSaveWithoutFileKeepsLogo(t *testing.T) {
	svc, _, _, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.Save(ctx, nil, SaveInput{Name: "Acme"}, logoFile())
	require.NoError(t, err)

	updated, err := svc.Save(ctx, &created.ID, SaveInput{Name: "Acme Industrial"}, nil)
	require.NoError(t, err)
	assert.Equal(t, created.LogoURL, updated.LogoURL)
	assert.Equal(t, "acme-industrial", updated.Slug)
	assert.Equal(t, 1, store.Len())
}

func TestSaveReplacingLogoRemovesPreviousFile(t *testing.T) {
	svc, _, manager, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.Save(ctx, nil, SaveInput{Name: "Acme"}, logoFile())
	require.NoError(t, err)
	oldPath := testsupport.Path(t, manager, created.LogoURL)

	updated, err := svc.Save(ctx, &created.ID, SaveInput{Name: "Acme"}, logoFile())
	require.NoError(t, err)

	assert.NotEqual(t, created.LogoURL, updated.LogoURL)
	assert.False(t, store.Has(oldPath))
	assert.True(t, store.Has(testsupport.Path(t, manager, updated.LogoURL)))
}

func TestSaveRemoveLogoClearsFieldAndFile(t *testing.T) {
	svc, _, _, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.Save(ctx, nil, SaveInput{Name: "Acme"}, logoFile())
	require.NoError(t, err)

	updated, err := svc.Save(ctx, &created.ID, SaveInput{Name: "Acme", RemoveLogo: true}, nil)
	require.NoError(t, err)
	assert.Empty(t, updated.LogoURL)
	assert.Equal(t, 0, store.Len())
}

func TestSaveValidatesBeforeAnyIO(t *testing.T) {
	svc, _, _, store := newTestService(t)
	_, err := svc.Save(context.Background(), nil, SaveInput{Name: "   "}, logoFile())
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Equal(t, 0, store.Len())
}

func TestSaveSlugConflictLeavesNoUpload(t *testing.T) {
	svc, _, _, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, nil, SaveInput{Name: "Acme"}, nil)
	require.NoError(t, err)

	_, err = svc.Save(ctx, nil, SaveInput{Name: "ACME"}, logoFile())
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))
	assert.Equal(t, 0, store.Len(), "upload for the failed save is discarded")
}

func TestSaveUnknownIDIsNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	id := uuid.New()
	_, err := svc.Save(context.Background(), &id, SaveInput{Name: "Ghost"}, nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestDeleteRemovesRowAndLogo(t *testing.T) {
	svc, repo, _, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.Save(ctx, nil, SaveInput{Name: "Acme"}, logoFile())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, store.Len())
}

func TestListFiltersAndOrders(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	for i, name := range []string{"Zeta Tools", "Alpha Tools", "Beta Parts"} {
		require.NoError(t, repo.Upsert(ctx, &models.Brand{ID: uuid.New(), Name: name, Slug: name, SortOrder: i % 2, IsFeatured: i == 0}))
	}

	page, err := svc.List(ctx, ListInput{Query: "TOOLS", Page: pagination.Params{Limit: 10}})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, "Zeta Tools", page.Items[0].Name, "sort_order 0 before 1")

	featured, err := svc.ListPublic(ctx, true)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Zeta Tools", featured[0].Name)
}
