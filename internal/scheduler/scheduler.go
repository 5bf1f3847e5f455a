// Package scheduler runs the periodic report rebuild and posting sweep.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/robfig/cron/v3"
)

// Rebuilder recomputes the cached reports.
type Rebuilder interface {
	Rebuild(ctx context.Context) (*domain.RebuildResult, error)
}

// Config controls when jobs fire.
type Config struct {
	RebuildCron   string
	Location      *time.Location
	SweepInterval time.Duration
	// JobTimeout bounds a single run. Zero means no bound.
	JobTimeout time.Duration
}

// Scheduler owns the cron runner. Runs of the same job never overlap.
type Scheduler struct {
	cron      *cron.Cron
	logger    *slog.Logger
	rebuilder Rebuilder
	sweeper   portssvc.SweeperSvc
	timeout   time.Duration
}

// New registers the rebuild and sweep jobs. A blank RebuildCron or a
// non-positive SweepInterval disables that job.
func New(cfg Config, rebuilder Rebuilder, sweeper portssvc.SweeperSvc, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "scheduler"))
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	cl := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:    logger,
		rebuilder: rebuilder,
		sweeper:   sweeper,
		timeout:   cfg.JobTimeout,
	}

	if cfg.RebuildCron != "" && rebuilder != nil {
		if _, err := s.cron.AddFunc(cfg.RebuildCron, s.runRebuild); err != nil {
			return nil, fmt.Errorf("invalid rebuild schedule %q: %w", cfg.RebuildCron, err)
		}
	}
	if cfg.SweepInterval > 0 && sweeper != nil {
		s.cron.Schedule(cron.Every(cfg.SweepInterval), cron.FuncJob(s.runSweep))
	}
	return s, nil
}

// Start launches the runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", slog.Int("jobs", len(s.cron.Entries())))
}

// Stop halts scheduling and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out with jobs still running")
	}
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) jobContext(job string) (context.Context, context.CancelFunc, *slog.Logger) {
	logger := s.logger.With(slog.String("job", job))
	ctx := middleware.WithLogger(context.Background(), logger)
	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		return ctx, cancel, logger
	}
	ctx, cancel := context.WithCancel(ctx)
	return ctx, cancel, logger
}

func (s *Scheduler) runRebuild() {
	ctx, cancel, logger := s.jobContext("rebuild")
	defer cancel()

	start := time.Now()
	if _, err := s.rebuilder.Rebuild(ctx); err != nil {
		logger.Error("Scheduled rebuild failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("Scheduled rebuild finished", slog.Duration("took", time.Since(start)))
}

func (s *Scheduler) runSweep() {
	ctx, cancel, logger := s.jobContext("sweep")
	defer cancel()

	result, err := s.sweeper.Sweep(ctx)
	if err != nil {
		logger.Error("Scheduled sweep failed", slog.String("error", err.Error()))
		return
	}
	if result.Retried > 0 || result.Failed > 0 {
		logger.Info("Scheduled sweep finished",
			slog.Int("retried", result.Retried),
			slog.Int("failed", result.Failed))
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err.Error())...)
}
