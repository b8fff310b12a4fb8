package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
)

type stubSyncer struct {
	calls int
	rows  int
	err   error
}

func (s *stubSyncer) Sync(ctx context.Context) (int, error) {
	s.calls++
	return s.rows, s.err
}

type stubLocker struct {
	acquired bool
	err      error
	keys     []string
}

func (l *stubLocker) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	l.keys = append(l.keys, key)
	return l.acquired, l.err
}

func (l *stubLocker) LockKey(name string) string {
	return "lock:" + name
}

func newTestScheduler(t *testing.T, syncer *stubSyncer, locker *stubLocker, hour int) *Scheduler {
	t.Helper()
	s, err := NewScheduler(SchedulerParams{
		Syncer: syncer,
		Locker: locker,
		Logger: logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard}),
		Config: config.CronConfig{SyncHour: hour, Interval: 24 * time.Hour},
	})
	require.NoError(t, err)
	return s
}

func TestNextRun(t *testing.T) {
	s := newTestScheduler(t, &stubSyncer{}, &stubLocker{acquired: true}, 22)

	morning := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC), s.NextRun(morning))

	lateEvening := time.Date(2026, 8, 30, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 31, 22, 0, 0, 0, time.UTC), s.NextRun(lateEvening))

	exactly := time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 31, 22, 0, 0, 0, time.UTC), s.NextRun(exactly))
}

func TestRunOnceAcquiresLockAndSyncs(t *testing.T) {
	syncer := &stubSyncer{rows: 7}
	locker := &stubLocker{acquired: true}
	s := newTestScheduler(t, syncer, locker, 22)

	s.RunOnce(context.Background())
	assert.Equal(t, 1, syncer.calls)
	assert.Equal(t, []string{"lock:warehouse-sync"}, locker.keys)
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	syncer := &stubSyncer{}
	locker := &stubLocker{acquired: false}
	s := newTestScheduler(t, syncer, locker, 22)

	s.RunOnce(context.Background())
	assert.Zero(t, syncer.calls)
}

func TestRunOnceSurvivesSyncFailure(t *testing.T) {
	syncer := &stubSyncer{err: errors.New("carrier down")}
	locker := &stubLocker{acquired: true}
	s := newTestScheduler(t, syncer, locker, 22)

	s.RunOnce(context.Background())
	assert.Equal(t, 1, syncer.calls)
}
