package assets

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
)

type brandRecord struct {
	Name    string
	LogoURL string
}

func logoSlot(r *brandRecord) []Slot {
	return []Slot{{Field: "logo", Folder: FolderBrands, Name: "logo", Kind: enums.AssetKindImage, URL: &r.LogoURL}}
}

// save runs the stage -> write -> commit/discard sequence a record service uses.
func save(ctx context.Context, m *Manager, stored *brandRecord, edit brandRecord, files map[string]File, clear map[string]bool, write func(brandRecord) error) (brandRecord, error) {
	next := edit
	plan := m.Begin()
	if err := plan.Stage(ctx, logoSlot(&next), files, clear); err != nil {
		plan.Discard(ctx)
		return brandRecord{}, err
	}
	if err := write(next); err != nil {
		plan.Discard(ctx)
		return brandRecord{}, err
	}
	*stored = next
	plan.Commit(ctx)
	return next, nil
}

func okWrite(brandRecord) error { return nil }

func TestSaveWithoutNewFileKeepsURL(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	stored := brandRecord{Name: "Acme", LogoURL: seed(t, m, "brands/logo-1.png")}

	edit := stored
	edit.Name = "Acme Corp"
	saved, err := save(ctx, m, &stored, edit, nil, nil, okWrite)
	require.NoError(t, err)

	assert.Equal(t, edit.LogoURL, saved.LogoURL)
	assert.True(t, store.Has("brands/logo-1.png"))
	assert.Equal(t, 1, store.Len())
}

func TestSaveWithNewFileReplacesAndRemovesOld(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	oldURL := seed(t, m, "brands/logo-1.png")
	stored := brandRecord{Name: "Acme", LogoURL: oldURL}

	saved, err := save(ctx, m, &stored, stored, map[string]File{"logo": FileFromBytes("new.png", pngBytes)}, nil, okWrite)
	require.NoError(t, err)

	newPath, ok := m.PathFromURL(saved.LogoURL)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(newPath, "brands/logo-"))
	assert.True(t, strings.HasSuffix(newPath, ".png"))
	assert.Contains(t, saved.LogoURL, "?t=")
	assert.NotEqual(t, oldURL, saved.LogoURL)

	assert.True(t, store.Has(newPath))
	assert.False(t, store.Has("brands/logo-1.png"), "previous file should be gone after a successful save")
}

func TestFailedWriteKeepsOldFileAndDropsUpload(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	oldURL := seed(t, m, "brands/logo-1.png")
	stored := brandRecord{Name: "Acme", LogoURL: oldURL}
	edit := brandRecord{Name: "Edited", LogoURL: oldURL}

	_, err := save(ctx, m, &stored, edit, map[string]File{"logo": FileFromBytes("new.png", pngBytes)}, nil, func(brandRecord) error {
		return errors.New("db down")
	})
	require.Error(t, err)

	assert.Equal(t, oldURL, stored.LogoURL)
	assert.Equal(t, "Edited", edit.Name, "caller's edits are untouched")
	assert.Equal(t, oldURL, edit.LogoURL)
	assert.True(t, store.Has("brands/logo-1.png"))
	assert.Equal(t, 1, store.Len(), "upload for the failed save is cleaned up")
}

func TestExplicitClearIsDeferredUntilWriteSucceeds(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	oldURL := seed(t, m, "brands/logo-1.png")
	stored := brandRecord{LogoURL: oldURL}

	_, err := save(ctx, m, &stored, stored, nil, map[string]bool{"logo": true}, func(brandRecord) error {
		return errors.New("db down")
	})
	require.Error(t, err)
	assert.True(t, store.Has("brands/logo-1.png"), "failed save must not orphan the record's file")

	saved, err := save(ctx, m, &stored, stored, nil, map[string]bool{"logo": true}, okWrite)
	require.NoError(t, err)
	assert.Empty(t, saved.LogoURL)
	assert.False(t, store.Has("brands/logo-1.png"))
}

func TestStageValidationErrorCarriesField(t *testing.T) {
	m, store := newTestManager(t)
	rec := brandRecord{}
	plan := m.Begin()
	err := plan.Stage(context.Background(), logoSlot(&rec), map[string]File{"logo": FileFromBytes("x.txt", []byte("plain text"))}, nil)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "logo")
	assert.Empty(t, rec.LogoURL)
	assert.Equal(t, 0, store.Len())
}

func TestExternalOldURLIsNeverDeleted(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	stored := brandRecord{LogoURL: "https://cdn.partner.com/logo.png"}

	saved, err := save(ctx, m, &stored, stored, map[string]File{"logo": FileFromBytes("n.png", pngBytes)}, nil, okWrite)
	require.NoError(t, err)
	assert.NotEqual(t, "https://cdn.partner.com/logo.png", saved.LogoURL)
	assert.Equal(t, 1, store.Len())
}

func TestStageListKeepsOrderAndSchedulesDropped(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	a := seed(t, m, "products/p1/gallery-a.png")
	b := seed(t, m, "products/p1/gallery-b.png")
	c := seed(t, m, "products/p1/gallery-c.png")

	plan := m.Begin()
	slot := ListSlot{Field: "gallery", Folder: "products/p1", Name: "gallery", Kind: enums.AssetKindImage}
	got, err := plan.StageList(ctx, slot, []string{a, b, c}, []string{c, a, a, "https://evil.example.com/x.png"}, []File{FileFromBytes("d.png", pngBytes)})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, c, got[0])
	assert.Equal(t, a, got[1])
	assert.True(t, plan.Changed())

	assert.True(t, store.Has("products/p1/gallery-b.png"), "nothing is deleted before commit")
	plan.Commit(ctx)
	assert.False(t, store.Has("products/p1/gallery-b.png"))
	assert.True(t, store.Has("products/p1/gallery-a.png"))
	assert.Equal(t, 3, store.Len())
}

func TestStageListDiscardKeepsCurrentGallery(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	a := seed(t, m, "products/p1/gallery-a.png")

	plan := m.Begin()
	slot := ListSlot{Field: "gallery", Folder: "products/p1", Name: "gallery", Kind: enums.AssetKindImage}
	_, err := plan.StageList(ctx, slot, []string{a}, nil, []File{FileFromBytes("d.png", pngBytes)})
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	plan.Discard(ctx)
	assert.Equal(t, 1, store.Len())
	assert.True(t, store.Has("products/p1/gallery-a.png"))

	plan.Commit(ctx)
	assert.True(t, store.Has("products/p1/gallery-a.png"), "commit after discard is a no-op")
}

func TestCommitSurvivesCancelledContext(t *testing.T) {
	m, store := newTestManager(t)
	oldURL := seed(t, m, "cta/bg-1.png")
	rec := brandRecord{LogoURL: oldURL}

	ctx, cancel := context.WithCancel(context.Background())
	plan := m.Begin()
	require.NoError(t, plan.Stage(ctx, logoSlot(&rec), map[string]File{"logo": FileFromBytes("n.png", pngBytes)}, nil))
	cancel()
	plan.Commit(ctx)

	assert.False(t, store.Has("cta/bg-1.png"))
}
