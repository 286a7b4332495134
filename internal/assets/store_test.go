package assets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/siteadmin-backend/pkg/config"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage/memory"
)

func TestOpenStoreSelectsDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "memory", Bucket: "site-assets", PublicBaseURL: "https://cdn.example.com"}}
	store, err := OpenStore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	assert.Equal(t, "site-assets", store.Bucket())

	cfg.Storage.Driver = "s3"
	_, err = OpenStore(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
