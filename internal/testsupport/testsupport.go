// Package testsupport wires in-memory infrastructure for package tests.
package testsupport

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/siteadmin-backend/internal/assets"
	"github.com/angelmondragon/siteadmin-backend/pkg/db"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage/memory"
)

// Bucket is the bucket name used by the in-memory store.
const Bucket = "site-assets"

// PNG is the smallest payload the content sniffer accepts as an image.
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// PDF is a minimal document payload.
var PDF = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")

// OpenDB returns a private in-memory sqlite database with every model migrated.
func OpenDB(t testing.TB) *db.Client {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	client := db.Wrap(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// Assets returns an asset manager over a fresh in-memory bucket.
func Assets(t testing.TB) (*assets.Manager, *memory.Store) {
	t.Helper()
	store := memory.New(Bucket, "")
	m, err := assets.NewManager(store, logger.Nop(), nil, assets.Config{MaxBytes: 5 << 20})
	if err != nil {
		t.Fatalf("asset manager: %v", err)
	}
	return m, store
}

// Path resolves a public URL produced by the in-memory store back to its object path.
func Path(t testing.TB, m *assets.Manager, url string) string {
	t.Helper()
	p, ok := m.PathFromURL(url)
	if !ok {
		t.Fatalf("url %q is not in bucket %s", url, Bucket)
	}
	return p
}
