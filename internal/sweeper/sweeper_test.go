package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/angelmondragon/siteadmin-backend/internal/assets"
	"github.com/angelmondragon/siteadmin-backend/internal/testsupport"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage/memory"
)

type fixture struct {
	repo    *Repository
	store   *memory.Store
	manager *assets.Manager
	urls    map[string]string
}

// newFixture stores four objects: two referenced (brand logo and a gallery
// image), one old orphan and one orphan uploaded just now.
func newFixture(t *testing.T) fixture {
	t.Helper()
	client := testsupport.OpenDB(t)
	manager, store := testsupport.Assets(t)
	ctx := context.Background()

	upload := func(path string) string {
		url, err := manager.Upload(ctx, path, enums.AssetKindImage, assets.FileFromBytes("f.png", testsupport.PNG), false)
		require.NoError(t, err)
		return url
	}

	store.SetClock(func() time.Time { return time.Now().Add(-72 * time.Hour) })
	urls := map[string]string{
		"logo":    upload("brands/acme-1.png"),
		"gallery": upload("products/p1/gallery-1.png"),
		"old":     upload("brands/stale-1.png"),
	}
	store.SetClock(time.Now)
	urls["recent"] = upload("blog/pending-1.png")

	require.NoError(t, client.DB().Create(&models.Brand{ID: uuid.New(), Name: "Acme", Slug: "acme", LogoURL: urls["logo"]}).Error)
	require.NoError(t, client.DB().Create(&models.Product{
		ID:          uuid.New(),
		Name:        "Bomba",
		Slug:        "bomba",
		GalleryURLs: datatypes.JSONSlice[string]{urls["gallery"]},
	}).Error)

	return fixture{repo: NewRepository(client.DB()), store: store, manager: manager, urls: urls}
}

func TestReferencedURLsIncludesGalleries(t *testing.T) {
	f := newFixture(t)
	urls, err := f.repo.ReferencedURLs(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.urls["logo"], f.urls["gallery"]}, urls)
}

func TestSweepDryRunKeepsEverything(t *testing.T) {
	f := newFixture(t)
	s, err := New(Params{Logger: logger.Nop(), Store: f.store, References: f.repo, GracePeriod: 24 * time.Hour, DryRun: true})
	require.NoError(t, err)

	report, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, report.Scanned)
	assert.Equal(t, 2, report.Referenced)
	assert.Equal(t, 1, report.Recent)
	assert.Equal(t, []string{"brands/stale-1.png"}, report.Orphaned)
	assert.Zero(t, report.Deleted)
	assert.Equal(t, 4, f.store.Len())
}

func TestSweepDeletesOnlyOldOrphans(t *testing.T) {
	f := newFixture(t)
	s, err := New(Params{Logger: logger.Nop(), Store: f.store, References: f.repo, GracePeriod: 24 * time.Hour})
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background()))
	assert.False(t, f.store.Has("brands/stale-1.png"))
	assert.True(t, f.store.Has("brands/acme-1.png"))
	assert.True(t, f.store.Has("products/p1/gallery-1.png"))
	assert.True(t, f.store.Has("blog/pending-1.png"))
}

type failingRefs struct{}

func (failingRefs) ReferencedURLs(context.Context) ([]string, error) {
	return nil, errors.New("db down")
}

func TestSweepAbortsWhenReferencesUnavailable(t *testing.T) {
	f := newFixture(t)
	s, err := New(Params{Logger: logger.Nop(), Store: f.store, References: failingRefs{}})
	require.NoError(t, err)

	_, err = s.Sweep(context.Background())
	require.Error(t, err)
	assert.Equal(t, 4, f.store.Len())
}
