package tracking

import (
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/goalpath/internal/calculation"
	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work
type Job interface {
	Run() error
	Name() string
}

// Scheduler runs jobs on a fixed interval. A tick that fires while the
// previous run is still in flight is skipped.
type Scheduler struct {
	cron     *cron.Cron
	interval time.Duration
	logger   calculation.Logger
}

// cronLogger adapts a Logger to the cron logging interface
type cronLogger struct {
	logger calculation.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugf("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorf("cron: %s: %v %v", msg, err, keysAndValues)
}

// NewScheduler creates a scheduler firing every interval
func NewScheduler(interval time.Duration, logger calculation.Logger) (*Scheduler, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("update interval must be at least 1s, got %s", interval)
	}
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	adapter := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(adapter),
			cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)),
		),
		interval: interval,
		logger:   logger,
	}, nil
}

// AddJob registers job to run on the scheduler's interval
func (s *Scheduler) AddJob(job Job) error {
	schedule := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(schedule, func() {
		s.logger.Debugf("Running job %s", job.Name())
		if err := job.Run(); err != nil {
			s.logger.Errorf("Job %s failed: %v", job.Name(), err)
			return
		}
		s.logger.Debugf("Job %s completed", job.Name())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name(), err)
	}
	s.logger.Infof("Job %s registered (%s)", job.Name(), schedule)
	return nil
}

// Start begins firing jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Infof("Scheduler started")
}

// Stop halts the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Infof("Scheduler stopped")
}

// progressRefreshJob recomputes every tracked goal
type progressRefreshJob struct {
	service *Service
}

func (j progressRefreshJob) Name() string { return "goal-progress-refresh" }

func (j progressRefreshJob) Run() error {
	n := j.service.UpdateAllGoalProgress()
	j.service.logger.Debugf("Automatic update refreshed %d goals", n)
	return nil
}

// ErrAutomaticUpdatesDisabled is returned when automatic updates are started
// without being enabled in the configuration
var ErrAutomaticUpdatesDisabled = errors.New("automatic updates are disabled")

// StartAutomaticUpdates refreshes every goal on the configured interval until
// StopAutomaticUpdates is called. Calling it while already running is a no-op.
func (s *Service) StartAutomaticUpdates() error {
	if !s.cfg.EnableAutomaticUpdates {
		return ErrAutomaticUpdatesDisabled
	}

	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	if s.scheduler != nil {
		return nil
	}

	scheduler, err := NewScheduler(s.cfg.UpdateInterval, s.logger)
	if err != nil {
		return err
	}
	if err := scheduler.AddJob(progressRefreshJob{service: s}); err != nil {
		return err
	}
	scheduler.Start()
	s.scheduler = scheduler
	return nil
}

// StopAutomaticUpdates stops the refresh loop, waiting for an in-flight refresh
func (s *Service) StopAutomaticUpdates() {
	s.schedMu.Lock()
	scheduler := s.scheduler
	s.scheduler = nil
	s.schedMu.Unlock()

	if scheduler != nil {
		scheduler.Stop()
	}
}

// AutomaticUpdatesRunning reports whether the refresh loop is active
func (s *Service) AutomaticUpdatesRunning() bool {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	return s.scheduler != nil
}
