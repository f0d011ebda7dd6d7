// Package jobs runs the console's periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultTaskTimeout = 5 * time.Minute

// Task is one unit of scheduled work. The context expires after the scheduler's timeout.
type Task func(ctx context.Context) error

// Scheduler runs named tasks on six-field cron expressions (seconds first), for example
// "0 30 3 * * *" for 03:30 every day. Descriptors such as "@daily" also work.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// NewScheduler creates a scheduler. A run that overlaps the previous one is skipped.
func NewScheduler(logger *zap.Logger, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = defaultTaskTimeout
	}
	cl := cronLogger{logger.Sugar().Named("cron")}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		timeout: timeout,
		entries: make(map[string]cron.EntryID),
	}
}

// Start begins firing scheduled tasks
func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler", zap.Strings("jobs", s.Names()))
	s.cron.Start()
}

// Stop halts the schedule; the returned context is done once running tasks finish
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}

// Schedule registers task under a unique name
func (s *Scheduler) Schedule(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.entries[name]; taken {
		return fmt.Errorf("job %s already exists", name)
	}

	id, err := s.cron.AddFunc(spec, func() { s.run(name, task) })
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}
	s.entries[name] = id

	s.logger.Info("scheduled job", zap.String("job_name", name), zap.String("cron_expr", spec))
	return nil
}

// Unschedule removes a task and reports whether it was registered
func (s *Scheduler) Unschedule(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return false
	}
	s.cron.Remove(id)
	delete(s.entries, name)
	return true
}

// Names lists the registered tasks in sorted order
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.entries))
}

// NextRun returns when the named task fires next. The time is zero until Start.
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

func (s *Scheduler) run(name string, task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := task(ctx); err != nil {
		s.logger.Error("scheduled job failed",
			zap.String("job_name", name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return
	}
	s.logger.Info("scheduled job completed",
		zap.String("job_name", name),
		zap.Duration("duration", time.Since(start)))
}

// cronLogger sends the cron library's own messages to zap
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
