package assets

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/siteadmin-backend/pkg/config"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage/gcs"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage/memory"
)

// OpenStore builds the object store selected by cfg.Storage.Driver.
func OpenStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.ObjectStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case config.StorageDriverMemory:
		logg.Warn(ctx, "using in-memory object store; uploads are lost on restart")
		return memory.New(cfg.Storage.Bucket, cfg.Storage.PublicBaseURL), nil
	case config.StorageDriverGCS, "":
		client, err := gcs.NewClient(ctx, cfg.Storage, cfg.GCP, logg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
