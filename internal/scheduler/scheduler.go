package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher refreshes every configured location.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

type Scheduler struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	refresher Refresher
	logger    *zap.Logger
	schedule  string
	timeout   time.Duration

	runMu   sync.Mutex
	mu      sync.Mutex
	running bool
	lastRun time.Time
	lastErr error
}

// NewScheduler parses schedule (standard cron syntax or descriptors such as
// "@every 30m") and registers the refresh job. Overlapping runs are skipped.
func NewScheduler(refresher Refresher, schedule string, timeout time.Duration, logger *zap.Logger) (*Scheduler, error) {
	cronLogger := zapLogger{logger.Sugar()}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		refresher: refresher,
		logger:    logger,
		schedule:  schedule,
		timeout:   timeout,
	}

	id, err := s.cron.AddFunc(schedule, func() {
		if err := s.RunNow(context.Background()); err != nil {
			s.logger.Error("Scheduled weather refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	s.entryID = id
	return s, nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()

	s.logger.Info("Scheduler started",
		zap.String("schedule", s.schedule),
		zap.Time("next_run", s.cron.Entry(s.entryID).Next))
}

// Stop halts the schedule and waits for a running refresh to finish or ctx
// to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out", zap.Error(ctx.Err()))
	}
}

// RunNow refreshes immediately. Concurrent calls are serialised.
func (s *Scheduler) RunNow(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	startTime := time.Now()
	s.logger.Info("Starting weather refresh")
	err := s.refresher.RefreshAll(ctx)

	s.mu.Lock()
	s.lastRun = startTime
	s.lastErr = err
	s.mu.Unlock()

	if err == nil {
		s.logger.Info("Weather refresh completed", zap.Duration("duration", time.Since(startTime)))
	}
	return err
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":  s.running,
		"schedule": s.schedule,
		"last_run": s.lastRun,
	}
	if s.running {
		status["next_run"] = s.cron.Entry(s.entryID).Next
	}
	if s.lastErr != nil {
		status["last_error"] = s.lastErr.Error()
	}
	return status
}

// zapLogger adapts zap to cron.Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l zapLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
