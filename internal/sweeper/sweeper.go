// Package sweeper deletes bucket objects no record references. Saves can
// leave such files behind when cleanup fails, so the sweep only touches
// objects older than a grace period to spare uploads whose record write is
// still in flight.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/siteadmin-backend/internal/assets"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/metrics"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage"
)

// JobName labels sweeper metrics and logs.
const JobName = "asset-sweeper"

const defaultGracePeriod = 24 * time.Hour

type referenceSource interface {
	ReferencedURLs(ctx context.Context) ([]string, error)
}

type Params struct {
	Logger      *logger.Logger
	Store       storage.ObjectStore
	References  referenceSource
	Metrics     *metrics.JobMetrics
	GracePeriod time.Duration
	DryRun      bool
}

// Report summarizes one sweep.
type Report struct {
	Scanned    int
	Referenced int
	Recent     int
	Orphaned   []string
	Deleted    int
	DryRun     bool
}

type Sweeper struct {
	logg    *logger.Logger
	store   storage.ObjectStore
	refs    referenceSource
	metrics *metrics.JobMetrics
	grace   time.Duration
	dryRun  bool
	now     func() time.Time
}

func New(p Params) (*Sweeper, error) {
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if p.Store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if p.References == nil {
		return nil, fmt.Errorf("reference source required")
	}
	grace := p.GracePeriod
	if grace <= 0 {
		grace = defaultGracePeriod
	}
	return &Sweeper{
		logg:    p.Logger,
		store:   p.Store,
		refs:    p.References,
		metrics: p.Metrics,
		grace:   grace,
		dryRun:  p.DryRun,
		now:     time.Now,
	}, nil
}

func (s *Sweeper) Name() string { return JobName }

func (s *Sweeper) Run(ctx context.Context) error {
	_, err := s.Sweep(ctx)
	return err
}

// Sweep lists every managed folder and removes unreferenced objects older than
// the grace period. A listing failure for one folder does not stop the others.
func (s *Sweeper) Sweep(ctx context.Context) (Report, error) {
	report := Report{DryRun: s.dryRun}

	urls, err := s.refs.ReferencedURLs(ctx)
	if err != nil {
		return report, fmt.Errorf("collect references: %w", err)
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if p, ok := storage.PathFromPublicURL(s.store.Bucket(), u); ok {
			referenced[p] = struct{}{}
		}
	}

	cutoff := s.now().Add(-s.grace)
	var errs error
	for _, folder := range assets.Folders {
		objects, err := s.store.List(ctx, folder+"/")
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("list %s: %w", folder, err))
			continue
		}
		for _, obj := range objects {
			report.Scanned++
			switch {
			case has(referenced, obj.Path):
				report.Referenced++
			case obj.Updated.After(cutoff):
				report.Recent++
			default:
				report.Orphaned = append(report.Orphaned, obj.Path)
			}
		}
	}

	if len(report.Orphaned) > 0 && !s.dryRun {
		if err := s.store.Remove(ctx, report.Orphaned...); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("remove orphans: %w", err))
		} else {
			report.Deleted = len(report.Orphaned)
		}
	}

	s.metrics.AddItems(JobName, "scanned", report.Scanned)
	s.metrics.AddItems(JobName, "orphaned", len(report.Orphaned))
	s.metrics.AddItems(JobName, "deleted", report.Deleted)

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"scanned":    report.Scanned,
		"referenced": report.Referenced,
		"recent":     report.Recent,
		"orphaned":   len(report.Orphaned),
		"deleted":    report.Deleted,
		"dry_run":    s.dryRun,
		"cutoff":     cutoff,
	})
	for _, p := range report.Orphaned {
		s.logg.Debug(s.logg.WithField(logCtx, "asset_path", p), "orphaned asset")
	}
	s.logg.Info(logCtx, "asset sweep complete")
	return report, errs
}

func has(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
