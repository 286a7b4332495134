// Package storage defines the object store boundary shared by the asset
// lifecycle helper and the orphan sweeper.
package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"
)

// ErrObjectExists is returned by Upload when Overwrite is false and the path is taken.
var ErrObjectExists = errors.New("storage: object already exists")

type UploadOptions struct {
	ContentType  string
	CacheControl string
	Overwrite    bool
}

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Path        string
	Size        int64
	ContentType string
	Updated     time.Time
}

// ObjectStore is a single bucket addressed by slash-separated paths.
type ObjectStore interface {
	Bucket() string
	Upload(ctx context.Context, path string, body io.Reader, opts UploadOptions) error
	PublicURL(path string) string
	// Remove deletes paths; missing objects are not an error.
	Remove(ctx context.Context, paths ...string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Ping(ctx context.Context) error
}

// PublicURL joins base, bucket and an escaped object path.
func PublicURL(base, bucket, path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}

// PathFromPublicURL extracts the object path that follows the /<bucket>/ segment
// of raw. Query strings and fragments are ignored. It reports false when raw does
// not point into bucket.
func PathFromPublicURL(bucket, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || bucket == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	marker := "/" + bucket + "/"
	idx := strings.Index(u.Path, marker)
	if idx < 0 {
		return "", false
	}
	path := u.Path[idx+len(marker):]
	if path == "" || strings.HasSuffix(path, "/") {
		return "", false
	}
	return path, true
}
