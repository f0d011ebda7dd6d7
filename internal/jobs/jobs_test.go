package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePurger struct {
	cutoff  time.Time
	deleted int64
	err     error
	calls   int
}

func (f *fakePurger) PurgeOlderThan(ctx context.Context, before time.Time) (int64, error) {
	f.calls++
	f.cutoff = before
	return f.deleted, f.err
}

func TestAuditRetention_Run(t *testing.T) {
	purger := &fakePurger{deleted: 4}
	job := NewAuditRetention(purger, 180*24*time.Hour, zap.NewNop())
	fixed := time.Date(2024, time.July, 1, 3, 30, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, 1, purger.calls)
	assert.Equal(t, fixed.Add(-180*24*time.Hour), purger.cutoff)
}

func TestAuditRetention_RunError(t *testing.T) {
	purger := &fakePurger{err: errors.New("db down")}
	job := NewAuditRetention(purger, time.Hour, zap.NewNop())

	err := job.Run(context.Background())
	assert.ErrorContains(t, err, "db down")
	assert.Equal(t, 1, purger.calls)
}

func TestAuditRetention_RejectsEmptyWindow(t *testing.T) {
	purger := &fakePurger{}
	job := NewAuditRetention(purger, 0, zap.NewNop())

	assert.Error(t, job.Run(context.Background()))
	assert.Zero(t, purger.calls)
}

func TestScheduler_ScheduleAndUnschedule(t *testing.T) {
	s := NewScheduler(zap.NewNop(), 0)

	require.NoError(t, RegisterAuditRetentionJob(s, &fakePurger{}, zap.NewNop(), "0 30 3 * * *", time.Hour))
	require.NoError(t, s.Schedule("another", "@every 1h", func(context.Context) error { return nil }))

	assert.Error(t, s.Schedule(AuditRetentionJobName, "@daily", func(context.Context) error { return nil }), "duplicate name")
	assert.Error(t, s.Schedule("broken", "not a cron", func(context.Context) error { return nil }))
	assert.Equal(t, []string{"another", AuditRetentionJobName}, s.Names())

	_, ok := s.NextRun(AuditRetentionJobName)
	assert.True(t, ok)

	assert.True(t, s.Unschedule("another"))
	assert.False(t, s.Unschedule("another"))
	_, ok = s.NextRun("another")
	assert.False(t, ok)
}

func TestScheduler_RunAppliesTimeout(t *testing.T) {
	s := NewScheduler(zap.NewNop(), 10*time.Millisecond)

	var deadline time.Time
	var hadDeadline bool
	s.run("timeout-check", func(ctx context.Context) error {
		deadline, hadDeadline = ctx.Deadline()
		return errors.New("logged, not returned")
	})

	require.True(t, hadDeadline)
	assert.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, time.Second)
}
