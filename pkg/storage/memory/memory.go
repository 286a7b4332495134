// Package memory is an in-process object store for tests and local runs
// without cloud credentials.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/siteadmin-backend/pkg/storage"
)

const defaultPublicBase = "https://storage.googleapis.com"

var _ storage.ObjectStore = (*Store)(nil)

type object struct {
	data        []byte
	contentType string
	updated     time.Time
}

// Store keeps objects in a map guarded by a mutex.
type Store struct {
	mu         sync.RWMutex
	bucket     string
	publicBase string
	objects    map[string]object
	now        func() time.Time
}

func New(bucket, publicBase string) *Store {
	if publicBase == "" {
		publicBase = defaultPublicBase
	}
	return &Store{
		bucket:     bucket,
		publicBase: publicBase,
		objects:    map[string]object{},
		now:        time.Now,
	}
}

// SetClock overrides the timestamp source used for Updated.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Bucket() string { return s.bucket }

func (s *Store) PublicURL(path string) string {
	return storage.PublicURL(s.publicBase, s.bucket, path)
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Upload(ctx context.Context, path string, body io.Reader, opts storage.UploadOptions) error {
	if path == "" {
		return fmt.Errorf("memory: object path is required")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[path]; exists && !opts.Overwrite {
		return fmt.Errorf("%w: %s", storage.ErrObjectExists, path)
	}
	s.objects[path] = object{data: data, contentType: opts.ContentType, updated: s.now()}
	return nil
}

func (s *Store) Remove(_ context.Context, paths ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		delete(s.objects, p)
	}
	return nil
}

func (s *Store) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.ObjectInfo, 0, len(s.objects))
	for path, obj := range s.objects {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		out = append(out, storage.ObjectInfo{
			Path:        path,
			Size:        int64(len(obj.data)),
			ContentType: obj.contentType,
			Updated:     obj.updated,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Has reports whether path is stored.
func (s *Store) Has(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[path]
	return ok
}

// Read returns a copy of the stored bytes and content type.
func (s *Store) Read(path string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	if !ok {
		return nil, "", false
	}
	return bytes.Clone(obj.data), obj.contentType, true
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
