package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper deletes stored run digests older than maxAge.
type Sweeper interface {
	Sweep(ctx context.Context, maxAge time.Duration) (int64, error)
}

type Scheduler struct {
	cron     *cron.Cron
	sweeper  Sweeper
	schedule string
	maxAge   time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// NewScheduler runs the retention sweep on schedule, a six-field cron
// expression with seconds.
func NewScheduler(sweeper Sweeper, schedule string, maxAge time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if schedule == "" {
		schedule = "0 0 3 * * *"
	}
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		sweeper:  sweeper,
		schedule: schedule,
		maxAge:   maxAge,
		timeout:  time.Minute,
		logger:   logger,
	}
}

// Start registers the sweep and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runSweep); err != nil {
		return fmt.Errorf("failed to create retention job %q: %w", s.schedule, err)
	}
	s.logger.Info("retention scheduler started",
		zap.String("schedule", s.schedule),
		zap.Duration("max_age", s.maxAge),
	)
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("retention scheduler stopped")
}

// RunOnce performs one sweep immediately.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}
	return s.sweeper.Sweep(ctx, s.maxAge)
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("retention sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("retention sweep completed", zap.Int64("deleted", n), zap.Time("at", time.Now().UTC()))
}
