package tracking

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func TestNewScheduler_RejectsShortInterval(t *testing.T) {
	_, err := NewScheduler(500*time.Millisecond, nil)
	assert.Error(t, err)

	scheduler, err := NewScheduler(time.Minute, nil)
	require.NoError(t, err)
	assert.NotNil(t, scheduler)
}

func TestScheduler_RunsJobs(t *testing.T) {
	scheduler, err := NewScheduler(time.Second, nil)
	require.NoError(t, err)

	job := &countingJob{err: errors.New("boom")}
	require.NoError(t, scheduler.AddJob(job))

	scheduler.Start()
	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	scheduler.Stop()
}

func TestProgressRefreshJob(t *testing.T) {
	clock := testNow
	svc := newTestService(WithClock(func() time.Time { return clock }))
	svc.StartTrackingGoal(fiveCroreGoal())

	clock = testNow.Add(2 * time.Hour)
	job := progressRefreshJob{service: svc}
	assert.Equal(t, "goal-progress-refresh", job.Name())
	require.NoError(t, job.Run())
	assert.Equal(t, clock, svc.LastUpdated())
}

func TestService_AutomaticUpdates(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc := newTestService()
		assert.ErrorIs(t, svc.StartAutomaticUpdates(), ErrAutomaticUpdatesDisabled)
		assert.False(t, svc.AutomaticUpdatesRunning())
	})

	t.Run("enabled", func(t *testing.T) {
		cfg := domain.DefaultTrackingConfig()
		cfg.EnableAutomaticUpdates = true
		cfg.UpdateInterval = time.Second
		svc := NewService(cfg)
		svc.StartTrackingGoal(fiveCroreGoal())
		started := svc.LastUpdated()

		require.NoError(t, svc.StartAutomaticUpdates())
		require.NoError(t, svc.StartAutomaticUpdates())
		assert.True(t, svc.AutomaticUpdatesRunning())

		assert.Eventually(t, func() bool { return svc.LastUpdated().After(started) }, 3*time.Second, 50*time.Millisecond)

		svc.StopAutomaticUpdates()
		assert.False(t, svc.AutomaticUpdatesRunning())
		svc.StopAutomaticUpdates()
	})

	t.Run("invalid interval", func(t *testing.T) {
		cfg := domain.DefaultTrackingConfig()
		cfg.EnableAutomaticUpdates = true
		cfg.UpdateInterval = 0
		svc := NewService(cfg)
		assert.Error(t, svc.StartAutomaticUpdates())
		assert.False(t, svc.AutomaticUpdatesRunning())
	})
}
