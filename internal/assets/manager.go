// Package assets keeps object store files in step with the URL fields of the
// records that reference them.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/metrics"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage"
)

// Object store folders, one per feature.
const (
	FolderBrands      = "brands"
	FolderProducts    = "products"
	FolderBlog        = "blog"
	FolderFooter      = "footer"
	FolderPageHeaders = "page-headers"
	FolderCTA         = "cta"
	FolderSite        = "site"
	FolderAbout       = "about"
	FolderContact     = "contact"
)

// Folders lists every folder the manager writes to.
var Folders = []string{
	FolderBrands,
	FolderProducts,
	FolderBlog,
	FolderFooter,
	FolderPageHeaders,
	FolderCTA,
	FolderSite,
	FolderAbout,
	FolderContact,
}

// CacheBustParam is the query parameter appended to every uploaded asset URL.
const CacheBustParam = "t"

// File is a user-selected upload.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

// Files groups uploaded files by form field.
type Files map[string][]File

// Singles returns the first file of each field.
func (f Files) Singles() map[string]File {
	out := make(map[string]File, len(f))
	for field, list := range f {
		if len(list) > 0 {
			out[field] = list[0]
		}
	}
	return out
}

// FileFromBytes wraps an in-memory payload.
func FileFromBytes(name string, data []byte) File {
	return File{Name: name, Size: int64(len(data)), Content: bytes.NewReader(data)}
}

type Config struct {
	MaxBytes     int64
	CacheControl string
}

// Manager is the single asset lifecycle helper shared by every record service.
type Manager struct {
	store        storage.ObjectStore
	logg         *logger.Logger
	metrics      *metrics.AssetMetrics
	maxBytes     int64
	cacheControl string
	now          func() time.Time

	stampMu   sync.Mutex
	lastStamp int64
}

func NewManager(store storage.ObjectStore, logg *logger.Logger, m *metrics.AssetMetrics, cfg Config) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.MaxBytes <= 0 {
		return nil, fmt.Errorf("max upload bytes must be positive")
	}
	return &Manager{
		store:        store,
		logg:         logg,
		metrics:      m,
		maxBytes:     cfg.MaxBytes,
		cacheControl: cfg.CacheControl,
		now:          time.Now,
	}, nil
}

// PathFromURL maps a public asset URL back to its object path. URLs that do
// not point into the bucket yield ok=false.
func (m *Manager) PathFromURL(url string) (string, bool) {
	return storage.PathFromPublicURL(m.store.Bucket(), url)
}

// Upload validates f against kind, writes it at path and returns the public
// URL with a cache-busting suffix.
func (m *Manager) Upload(ctx context.Context, path string, kind enums.AssetKind, f File, overwrite bool) (string, error) {
	_, url, err := m.upload(ctx, path, "", kind, f, overwrite)
	return url, err
}

// upload writes f at dir/name plus the detected extension when path is empty.
func (m *Manager) upload(ctx context.Context, path, namePrefix string, kind enums.AssetKind, f File, overwrite bool) (string, string, error) {
	folder := folderLabel(path + namePrefix)

	if f.Content == nil {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "file content is required")
	}
	if f.Size > m.maxBytes {
		m.metrics.Upload(folder, metrics.ResultError, 0)
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file %q exceeds the %d MB limit", f.Name, m.maxBytes>>20))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading upload")
	}
	head = head[:n]
	if n == 0 {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file %q is empty", f.Name))
	}

	mtype, err := detect(head, kind)
	if err != nil {
		m.metrics.Upload(folder, metrics.ResultError, 0)
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	if path == "" {
		path = namePrefix + mtype.Extension()
	}

	body := &countingReader{r: io.LimitReader(io.MultiReader(bytes.NewReader(head), f.Content), m.maxBytes+1)}
	opts := storage.UploadOptions{
		ContentType:  baseType(mtype),
		CacheControl: m.cacheControl,
		Overwrite:    overwrite,
	}
	if err := m.store.Upload(ctx, path, body, opts); err != nil {
		m.metrics.Upload(folder, metrics.ResultError, 0)
		return "", "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, fmt.Sprintf("uploading %s failed", f.Name))
	}
	if body.n > m.maxBytes {
		// Declared size lied; the object is already written, so take it back out.
		m.removePath(context.WithoutCancel(ctx), path)
		m.metrics.Upload(folder, metrics.ResultError, 0)
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file %q exceeds the %d MB limit", f.Name, m.maxBytes>>20))
	}

	m.metrics.Upload(folder, metrics.ResultOK, body.n)
	return path, m.withCacheBust(m.store.PublicURL(path)), nil
}

// Remove deletes paths best-effort. Failures are logged and counted, never returned.
func (m *Manager) Remove(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		m.removePath(ctx, p)
	}
}

// RemoveURLs removes the objects behind urls, skipping URLs outside the bucket.
func (m *Manager) RemoveURLs(ctx context.Context, urls ...string) {
	for _, u := range urls {
		if p, ok := m.PathFromURL(u); ok {
			m.removePath(ctx, p)
		}
	}
}

func (m *Manager) removePath(ctx context.Context, path string) {
	folder := folderLabel(path)
	if err := m.store.Remove(ctx, path); err != nil {
		m.metrics.Removal(folder, metrics.ResultError)
		m.logg.WarnErr(m.logg.WithField(ctx, "asset_path", path), "asset cleanup failed", err)
		return
	}
	m.metrics.Removal(folder, metrics.ResultOK)
	m.logg.Debug(m.logg.WithField(ctx, "asset_path", path), "asset removed")
}

func (m *Manager) withCacheBust(url string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s%s=%d", url, sep, CacheBustParam, m.stamp())
}

// stamp returns the current unix-millis time, strictly increasing within the
// process so two uploads never share a generated name.
func (m *Manager) stamp() int64 {
	m.stampMu.Lock()
	defer m.stampMu.Unlock()
	ts := m.now().UnixMilli()
	if ts <= m.lastStamp {
		ts = m.lastStamp + 1
	}
	m.lastStamp = ts
	return ts
}

// folderLabel reduces a path to its top-level folder to keep metric cardinality bounded.
func folderLabel(path string) string {
	if idx := strings.Index(path, "/"); idx > 0 {
		return path[:idx]
	}
	return path
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// URLsForDeletion returns the non-empty, distinct URLs among urls, for removing
// every file of a deleted record.
func URLsForDeletion(urls ...string) []string {
	out := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
