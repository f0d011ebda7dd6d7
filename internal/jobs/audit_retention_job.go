package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// AuditRetentionJobName is the scheduler name of the activity purge
const AuditRetentionJobName = "audit_retention"

// AuditPurger deletes activity entries older than a cutoff
type AuditPurger interface {
	PurgeOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// AuditRetention keeps the console activity trail inside its retention window
type AuditRetention struct {
	purger    AuditPurger
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuditRetention creates the purge task
func NewAuditRetention(purger AuditPurger, retention time.Duration, logger *zap.Logger) *AuditRetention {
	return &AuditRetention{
		purger:    purger,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// Run deletes entries performed before now minus the retention window
func (j *AuditRetention) Run(ctx context.Context) error {
	if j.retention <= 0 {
		return fmt.Errorf("audit retention must be positive, got %s", j.retention)
	}

	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge activity before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	j.logger.Info("audit retention purge completed",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", deleted))
	return nil
}

// RegisterAuditRetentionJob schedules the purge
func RegisterAuditRetentionJob(scheduler *Scheduler, purger AuditPurger, logger *zap.Logger, cronExpr string, retention time.Duration) error {
	return scheduler.Schedule(AuditRetentionJobName, cronExpr, NewAuditRetention(purger, retention, logger).Run)
}
