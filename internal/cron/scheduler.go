package cron

import (
	"context"
	"time"

	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
	"github.com/sushka2023/sushka-shop-backend/pkg/metrics"
)

const warehouseSyncJob = "warehouse-sync"

// lockTTL keeps a second worker instance from rerunning the sync while the
// first one still holds the slot.
const lockTTL = time.Hour

type warehouseSyncer interface {
	Sync(ctx context.Context) (int, error)
}

type locker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	LockKey(name string) string
}

// Scheduler fires the warehouse sync once a day at the configured hour.
type Scheduler struct {
	syncer  warehouseSyncer
	locker  locker
	logger  *logger.Logger
	metrics *metrics.CronJobMetrics
	cfg     config.CronConfig
	now     func() time.Time
}

// SchedulerParams bundles the scheduler dependencies. Metrics may be nil.
type SchedulerParams struct {
	Syncer  warehouseSyncer
	Locker  locker
	Logger  *logger.Logger
	Metrics *metrics.CronJobMetrics
	Config  config.CronConfig
	Now     func() time.Time
}

// NewScheduler builds the daily scheduler.
func NewScheduler(params SchedulerParams) (*Scheduler, error) {
	if params.Syncer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "warehouse syncer required")
	}
	if params.Locker == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "redis locker required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	cfg := params.Config
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &Scheduler{
		syncer:  params.Syncer,
		locker:  params.Locker,
		logger:  params.Logger,
		metrics: params.Metrics,
		cfg:     cfg,
		now:     now,
	}, nil
}

// NextRun returns the next wall-clock moment the sync should fire after the
// reference time.
func (s *Scheduler) NextRun(after time.Time) time.Time {
	next := time.Date(after.Year(), after.Month(), after.Day(), s.cfg.SyncHour, 0, 0, 0, after.Location())
	if !next.After(after) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// Run blocks until the context is cancelled, sleeping to the next scheduled
// slot and then ticking at the configured interval.
func (s *Scheduler) Run(ctx context.Context) error {
	first := s.NextRun(s.now())
	s.logger.Info(s.logger.WithField(ctx, "next_run", first.Format(time.RFC3339)), "warehouse sync scheduled")

	timer := time.NewTimer(time.Until(first))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes the sync guarded by a distributed lock so concurrent
// worker instances do not hammer the carrier API.
func (s *Scheduler) RunOnce(ctx context.Context) {
	acquired, err := s.locker.SetNX(ctx, s.locker.LockKey(warehouseSyncJob), s.now().UnixNano(), lockTTL)
	if err != nil {
		s.logger.Error(ctx, "acquire sync lock", err)
		return
	}
	if !acquired {
		s.logger.Info(ctx, "warehouse sync already running elsewhere")
		return
	}

	started := s.now()
	synced, err := s.syncer.Sync(ctx)
	elapsed := s.now().Sub(started)

	s.metrics.ObserveDuration(warehouseSyncJob, elapsed)
	s.metrics.SetRowsSynced(warehouseSyncJob, synced)
	if err != nil {
		s.metrics.IncFailure(warehouseSyncJob)
		s.logger.Error(s.logger.WithField(ctx, "rows_synced", synced), "warehouse sync finished with errors", err)
		return
	}
	s.metrics.IncSuccess(warehouseSyncJob)
	s.logger.Info(s.logger.WithField(ctx, "rows_synced", synced), "warehouse sync finished")
}
