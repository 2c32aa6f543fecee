package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(opts ...Option) *Service {
	cfg := domain.DefaultTrackingConfig()
	cfg.Simulations = 200
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewService(cfg, opts...)
}

func fiveCroreGoal() *domain.Goal {
	goal := domain.NewGoal("Five crore", d("5000000"), testNow.AddDate(-1, 0, 0), testNow.AddDate(3, 0, 0))
	goal.Contributions = []domain.Contribution{
		domain.NewContribution(d("500000"), testNow.AddDate(-1, 0, 0), "opening balance"),
	}
	return goal
}

func TestService_Lifecycle(t *testing.T) {
	svc := newTestService()
	before := svc.ActiveGoalCount()

	goal := fiveCroreGoal()
	analysis := svc.StartTrackingGoal(goal)
	require.NotNil(t, analysis)
	assert.Equal(t, goal.ID, analysis.GoalID)
	assert.Equal(t, before+1, svc.ActiveGoalCount())
	assert.Equal(t, testNow, svc.LastUpdated())

	cached, err := svc.Analysis(goal.ID)
	require.NoError(t, err)
	assert.Same(t, analysis, cached)

	require.NoError(t, svc.StopTrackingGoal(goal.ID))
	assert.Equal(t, before, svc.ActiveGoalCount())

	_, err = svc.Analysis(goal.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)
	assert.Empty(t, svc.ActiveGoals())
}

func TestService_Config(t *testing.T) {
	svc := newTestService()
	cfg := svc.Config()
	assert.Equal(t, 200, cfg.Simulations)
	assert.Equal(t, domain.DefaultTrackingConfig().Currency, cfg.Currency)
}

func TestService_StartTrackingCopiesGoal(t *testing.T) {
	svc := newTestService()
	goal := fiveCroreGoal()
	svc.StartTrackingGoal(goal)

	goal.Title = "changed by caller"
	goal.Contributions[0].Amount = d("1")

	stored, err := svc.Goal(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Five crore", stored.Title)
	assert.True(t, stored.Contributions[0].Amount.Equal(d("500000")))

	stored.Title = "changed by reader"
	again, err := svc.Goal(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Five crore", again.Title)
}

func TestService_StartTrackingDuplicateReplaces(t *testing.T) {
	svc := newTestService()
	goal := fiveCroreGoal()
	svc.StartTrackingGoal(goal)

	goal.TargetAmount = d("6000000")
	analysis := svc.StartTrackingGoal(goal)

	assert.Equal(t, 1, svc.ActiveGoalCount())
	assert.True(t, analysis.CurrentProgress.TargetAmount.Equal(d("6000000")))
	assert.Len(t, svc.ActiveGoals(), 1)
}

func TestService_StartTrackingAssignsID(t *testing.T) {
	svc := newTestService()
	goal := fiveCroreGoal()
	goal.ID = ""

	analysis := svc.StartTrackingGoal(goal)
	assert.NotEmpty(t, analysis.GoalID)
	assert.Nil(t, svc.StartTrackingGoal(nil))
}

func TestService_GoalNotFound(t *testing.T) {
	svc := newTestService()
	const missing = "no-such-goal"

	checks := map[string]error{
		"stop": svc.StopTrackingGoal(missing),
		"update": svc.UpdateGoal(missing, func(g *domain.Goal) {
			g.Title = "x"
		}),
	}
	_, checks["contribution"] = svc.AddContribution(missing, d("100"))
	_, checks["progress"] = svc.UpdateGoalProgress(missing)
	_, checks["analysis"] = svc.Analysis(missing)
	_, checks["goal"] = svc.Goal(missing)
	_, checks["optimize"] = svc.CalculateOptimalContributionStrategy(missing)
	_, checks["report"] = svc.GenerateGoalReport(context.Background(), missing)
	_, checks["balance"] = svc.CurrentBalance(missing)

	for name, err := range checks {
		t.Run(name, func(t *testing.T) {
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrGoalNotFound))

			var notFound *GoalNotFoundError
			require.True(t, errors.As(err, &notFound))
			assert.Equal(t, missing, notFound.ID)
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestService_AddContribution(t *testing.T) {
	svc := newTestService()
	goal := fiveCroreGoal()
	svc.StartTrackingGoal(goal)

	contribution, err := svc.AddContribution(goal.ID, d("100000"), WithDescription("bonus"))
	require.NoError(t, err)
	assert.NotEmpty(t, contribution.ID)
	assert.Equal(t, testNow, contribution.Date)
	assert.Equal(t, "bonus", contribution.Description)

	dated := testNow.AddDate(0, -1, 0)
	backdated, err := svc.AddContribution(goal.ID, d("50000"), WithContributionDate(dated))
	require.NoError(t, err)
	assert.Equal(t, dated, backdated.Date)

	analysis, err := svc.Analysis(goal.ID)
	require.NoError(t, err)
	assert.True(t, analysis.CurrentProgress.CurrentAmount.Equal(d("650000")), "balance %s", analysis.CurrentProgress.CurrentAmount)
	assert.True(t, analysis.CurrentProgress.RunRate.Equal(d("50000")), "run rate %s", analysis.CurrentProgress.RunRate)

	stored, err := svc.Goal(goal.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Contributions, 3)
}

func TestService_AddContributionCreditsStaticBalance(t *testing.T) {
	goal := fiveCroreGoal()
	balances := NewStaticBalances(map[string]decimal.Decimal{goal.ID: d("800000")})
	svc := newTestService(WithBalanceSource(balances))
	svc.StartTrackingGoal(goal)

	_, err := svc.AddContribution(goal.ID, d("200000"))
	require.NoError(t, err)

	balance, err := svc.CurrentBalance(goal.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(d("1000000")))

	analysis, err := svc.Analysis(goal.ID)
	require.NoError(t, err)
	assert.True(t, analysis.CurrentProgress.ProgressPercentage.Equal(d("20")))
	// 800000 + 200000 against 700000 contributed
	assert.True(t, analysis.CurrentProgress.TotalReturns.Equal(d("300000")))
}

func TestService_UpdateGoal(t *testing.T) {
	svc := newTestService()
	goal := fiveCroreGoal()
	svc.StartTrackingGoal(goal)

	err := svc.UpdateGoal(goal.ID, func(g *domain.Goal) {
		g.TargetAmount = d("1000000")
		g.ID = "hijacked"
	})
	require.NoError(t, err)

	stored, err := svc.Goal(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, goal.ID, stored.ID)

	analysis, err := svc.Analysis(goal.ID)
	require.NoError(t, err)
	assert.True(t, analysis.CurrentProgress.ProgressPercentage.Equal(d("50")))
}

func TestService_GoalOverridesDefaults(t *testing.T) {
	svc := newTestService()
	goal := fiveCroreGoal()
	conservative := d("0.04")
	goal.ExpectedReturn = &conservative

	analysis := svc.StartTrackingGoal(goal)
	assert.True(t, analysis.ProjectedProgress.ExpectedReturn.Equal(conservative))
}

func TestService_UpdateAllGoalProgress(t *testing.T) {
	clock := testNow
	svc := newTestService(WithClock(func() time.Time { return clock }))
	svc.StartTrackingGoal(fiveCroreGoal())
	svc.StartTrackingGoal(fiveCroreGoal())

	clock = testNow.Add(time.Hour)
	assert.Equal(t, 2, svc.UpdateAllGoalProgress())
	assert.Equal(t, clock, svc.LastUpdated())

	for _, goal := range svc.ActiveGoals() {
		analysis, err := svc.Analysis(goal.ID)
		require.NoError(t, err)
		assert.Equal(t, clock, analysis.AsOf)
	}
}

func TestService_ConcurrentAccess(t *testing.T) {
	svc := newTestService()
	goal := fiveCroreGoal()
	svc.StartTrackingGoal(goal)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.AddContribution(goal.ID, d("1000"))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Analysis(goal.ID)
			assert.NoError(t, err)
			svc.GenerateGoalsSummary()
		}()
	}
	wg.Wait()

	stored, err := svc.Goal(goal.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Contributions, 9)
}

func TestService_GenerateGoalsSummary(t *testing.T) {
	svc := newTestService()

	empty := svc.GenerateGoalsSummary()
	assert.Zero(t, empty.TotalGoals)
	assert.True(t, empty.OverallProgressPercentage.IsZero())
	assert.Len(t, empty.GoalsByRisk, 4)

	svc.StartTrackingGoal(fiveCroreGoal())

	achieved := domain.NewGoal("Emergency fund", d("300000"), testNow.AddDate(-2, 0, 0), testNow.AddDate(1, 0, 0))
	achieved.Contributions = []domain.Contribution{domain.NewContribution(d("300000"), testNow.AddDate(0, -2, 0), "")}
	svc.StartTrackingGoal(achieved)

	summary := svc.GenerateGoalsSummary()
	assert.Equal(t, 2, summary.TotalGoals)
	assert.Equal(t, 1, summary.AchievedGoals)
	assert.True(t, summary.TotalTargetAmount.Equal(d("5300000")))
	assert.True(t, summary.TotalCurrentAmount.Equal(d("800000")))
	assert.True(t, summary.OverallProgressPercentage.Equal(d("15.0943")), "overall %s", summary.OverallProgressPercentage)
	assert.Equal(t, testNow, summary.GeneratedDate)

	total := 0
	for _, n := range summary.GoalsByRisk {
		total += n
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, summary.GoalsByRisk[domain.RiskLow])
}

func TestService_GenerateGoalReport(t *testing.T) {
	svc := newTestService()
	goal := fiveCroreGoal()
	svc.StartTrackingGoal(goal)

	report, err := svc.GenerateGoalReport(context.Background(), goal.ID)
	require.NoError(t, err)

	assert.Equal(t, goal.ID, report.Goal.ID)
	require.NotNil(t, report.Analysis)
	require.NotNil(t, report.Optimization)
	require.NotNil(t, report.Simulation)
	assert.Equal(t, 200, report.Simulation.Simulations)
	assert.Equal(t, testNow, report.GeneratedDate)

	reports, err := svc.GenerateGoalReports(context.Background())
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestService_GenerateGoalReportWithoutSimulation(t *testing.T) {
	cfg := domain.DefaultTrackingConfig()
	cfg.Simulations = 0
	svc := NewService(cfg, WithClock(func() time.Time { return testNow }))
	goal := fiveCroreGoal()
	svc.StartTrackingGoal(goal)

	report, err := svc.GenerateGoalReport(context.Background(), goal.ID)
	require.NoError(t, err)
	assert.Nil(t, report.Simulation)
}

func TestService_GenerateGoalReportCancelled(t *testing.T) {
	svc := newTestService()
	goal := fiveCroreGoal()
	svc.StartTrackingGoal(goal)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.GenerateGoalReport(ctx, goal.ID)
	assert.ErrorIs(t, err, context.Canceled)
}
