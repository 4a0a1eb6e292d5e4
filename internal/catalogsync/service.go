package catalogsync

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/foodcart-engine/internal/catalog"
	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
	"github.com/angelmondragon/foodcart-engine/pkg/logger"
	"github.com/angelmondragon/foodcart-engine/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

const (
	defaultInterval = 5 * time.Minute

	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// Fetcher loads the full remote item set.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]catalog.Item, error)
}

// Applier swaps a fetched item set into the engine in one step.
type Applier interface {
	ReplaceCatalog(ctx context.Context, items []catalog.Item) (catalog.ReconcileReport, error)
}

// ServiceParams configure the sync service.
type ServiceParams struct {
	Logger   *logger.Logger
	Fetcher  Fetcher
	Applier  Applier
	Lock     Lock
	Metrics  *metrics.CatalogSyncMetrics
	Interval time.Duration
}

// Service refreshes the engine catalog from the backend.
type Service struct {
	logg     *logger.Logger
	fetcher  Fetcher
	applier  Applier
	lock     Lock
	metrics  *metrics.CatalogSyncMetrics
	interval time.Duration
	group    singleflight.Group
}

// NewService builds a sync service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Fetcher == nil {
		return nil, fmt.Errorf("fetcher required")
	}
	if params.Applier == nil {
		return nil, fmt.Errorf("applier required")
	}
	lock := params.Lock
	if lock == nil {
		lock = &LocalLock{}
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		fetcher:  params.Fetcher,
		applier:  params.Applier,
		lock:     lock,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run refreshes immediately and then on every tick until the context is
// canceled.
func (s *Service) Run(ctx context.Context) error {
	if _, err := s.RunOnce(ctx, TriggerStartup); err != nil {
		s.logg.Error(ctx, "catalog sync failed", err)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "catalog sync context canceled")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.RunOnce(ctx, TriggerSchedule); err != nil {
				s.logg.Error(ctx, "catalog sync failed", err)
			}
		}
	}
}

// RunOnce fetches and applies the catalog. Concurrent callers share one
// in-flight refresh.
func (s *Service) RunOnce(ctx context.Context, trigger string) (catalog.ReconcileReport, error) {
	// The shared cycle outlives any single caller; fetch timeouts bound it.
	results := s.group.DoChan("catalog", func() (any, error) {
		return s.runCycle(context.WithoutCancel(ctx), trigger)
	})
	select {
	case <-ctx.Done():
		return catalog.ReconcileReport{}, ctx.Err()
	case res := <-results:
		if res.Shared {
			s.logg.Debug(ctx, "joined in-flight catalog sync")
		}
		report, _ := res.Val.(catalog.ReconcileReport)
		return report, res.Err
	}
}

func (s *Service) runCycle(ctx context.Context, trigger string) (catalog.ReconcileReport, error) {
	ctx = s.logg.WithFields(ctx, map[string]any{"event": "catalog.sync", "trigger": trigger})

	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return catalog.ReconcileReport{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire catalog sync lock")
	}
	if !locked {
		s.logg.Info(ctx, "another engine is syncing the catalog; skipping")
		return catalog.ReconcileReport{}, nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release catalog sync lock", relErr)
		}
	}()

	start := time.Now()
	report, err := s.sync(ctx)
	duration := time.Since(start)
	s.metrics.ObserveDuration(trigger, duration)
	ctx = s.logg.WithField(ctx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.metrics.IncFailure(trigger)
		return catalog.ReconcileReport{}, err
	}
	s.metrics.IncSuccess(trigger)
	s.logg.Info(ctx, "catalog sync completed")
	return report, nil
}

func (s *Service) sync(ctx context.Context) (catalog.ReconcileReport, error) {
	items, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return catalog.ReconcileReport{}, err
	}
	report, err := s.applier.ReplaceCatalog(ctx, items)
	if err != nil {
		return catalog.ReconcileReport{}, err
	}
	s.metrics.SetItems(len(report.Added) + len(report.Updated) + len(report.Retained))
	return report, nil
}
