package assets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/metrics"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage/memory"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
)

type flakyStore struct {
	*memory.Store
	uploadErr error
	removeErr error
}

func (f *flakyStore) Upload(ctx context.Context, path string, body io.Reader, opts storage.UploadOptions) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	return f.Store.Upload(ctx, path, body, opts)
}

func (f *flakyStore) Remove(ctx context.Context, paths ...string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.Store.Remove(ctx, paths...)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func newTestManager(t *testing.T) (*Manager, *flakyStore) {
	t.Helper()
	store := &flakyStore{Store: memory.New("site-assets", "")}
	m, err := NewManager(store, logger.Nop(), metrics.NewAssetMetrics(prometheus.NewRegistry()), Config{MaxBytes: 1 << 20})
	require.NoError(t, err)
	c := &clock{t: time.UnixMilli(1_700_000_000_000)}
	m.now = c.now
	return m, store
}

func seed(t *testing.T, m *Manager, path string) string {
	t.Helper()
	url, err := m.Upload(context.Background(), path, enums.AssetKindImage, FileFromBytes("seed.png", pngBytes), true)
	require.NoError(t, err)
	return url
}

func TestNewManagerValidatesDependencies(t *testing.T) {
	_, err := NewManager(nil, logger.Nop(), nil, Config{MaxBytes: 1})
	assert.Error(t, err)
	_, err = NewManager(memory.New("b", ""), nil, nil, Config{MaxBytes: 1})
	assert.Error(t, err)
	_, err = NewManager(memory.New("b", ""), logger.Nop(), nil, Config{})
	assert.Error(t, err)
}

func TestUploadAppendsCacheBustSuffix(t *testing.T) {
	m, store := newTestManager(t)
	url, err := m.Upload(context.Background(), "cta/bg.png", enums.AssetKindImage, FileFromBytes("bg.png", pngBytes), false)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://storage.googleapis.com/site-assets/cta/bg.png?t="), url)
	data, ct, ok := store.Read("cta/bg.png")
	require.True(t, ok)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "image/png", ct)
}

func TestUploadRejectsWrongKind(t *testing.T) {
	m, store := newTestManager(t)
	_, err := m.Upload(context.Background(), "brands/logo.png", enums.AssetKindImage, FileFromBytes("logo.png", []byte("just some text")), false)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Equal(t, 0, store.Len())

	_, err = m.Upload(context.Background(), "products/1/sheet.pdf", enums.AssetKindDocument, FileFromBytes("sheet.pdf", pdfBytes), false)
	assert.NoError(t, err)
}

func TestUploadRejectsOversizedFiles(t *testing.T) {
	m, store := newTestManager(t)
	big := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 2<<20)...)

	_, err := m.Upload(context.Background(), "blog/big.png", enums.AssetKindImage, FileFromBytes("big.png", big), false)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	// Declared size understated: the object is written then taken back out.
	_, err = m.Upload(context.Background(), "blog/big.png", enums.AssetKindImage, File{Name: "big.png", Size: 10, Content: bytes.NewReader(big)}, false)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.False(t, store.Has("blog/big.png"))
}

func TestUploadStoreFailureIsStorageError(t *testing.T) {
	m, store := newTestManager(t)
	store.uploadErr = errors.New("bucket offline")
	_, err := m.Upload(context.Background(), "cta/bg.png", enums.AssetKindImage, FileFromBytes("bg.png", pngBytes), false)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeStorage))
}

func TestPathFromURL(t *testing.T) {
	m, _ := newTestManager(t)
	p, ok := m.PathFromURL("https://storage.googleapis.com/site-assets/brands/acme.png?t=1")
	assert.True(t, ok)
	assert.Equal(t, "brands/acme.png", p)

	_, ok = m.PathFromURL("https://example.com/elsewhere.png")
	assert.False(t, ok)
	_, ok = m.PathFromURL("")
	assert.False(t, ok)
}

func TestRemoveSwallowsFailures(t *testing.T) {
	m, store := newTestManager(t)
	seed(t, m, "brands/a.png")
	store.removeErr = errors.New("permission denied")

	assert.NotPanics(t, func() {
		m.Remove(context.Background(), "brands/a.png")
		m.RemoveURLs(context.Background(), "https://example.com/not-ours.png")
	})
	assert.True(t, store.Has("brands/a.png"))
}
