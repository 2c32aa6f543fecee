package calculation

import (
	"fmt"
	"testing"
	"time"

	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestCalculator() *GoalProgressCalculator {
	calc := NewGoalProgressCalculator()
	calc.Now = func() time.Time { return testNow }
	return calc
}

func testGoal(target string, deadline time.Time) *domain.Goal {
	return domain.NewGoal("Home down payment", d(target), testNow.AddDate(-1, 0, 0), deadline)
}

// monthlyContributions records amount on the 15th of each of the last n months
func monthlyContributions(amount string, n int) []domain.Contribution {
	contributions := make([]domain.Contribution, 0, n)
	for i := n; i >= 1; i-- {
		date := time.Date(2026, time.Month(1-i), 15, 0, 0, 0, 0, time.UTC)
		contributions = append(contributions, domain.NewContribution(d(amount), date, "monthly SIP"))
	}
	return contributions
}

func TestNewGoalProgressCalculator(t *testing.T) {
	calc := NewGoalProgressCalculator()
	assert.NotNil(t, calc.Now)
	assert.IsType(t, NopLogger{}, calc.Logger)
	assert.True(t, calc.InflationRate.Equal(d("0.03")))
}

func TestGoalProgressCalculator_SetLogger(t *testing.T) {
	calc := NewGoalProgressCalculator()

	custom := &TestLogger{}
	calc.SetLogger(custom)
	assert.Equal(t, custom, calc.Logger)

	calc.Now = func() time.Time { return testNow }
	calc.CalculateGoalProgress(testGoal("1000", testNow.AddDate(1, 0, 0)), d("100"), nil, d("0.12"), d("0.15"))
	assert.NotEmpty(t, custom.messages, "analysis should log at debug level")

	calc.SetLogger(nil)
	assert.IsType(t, NopLogger{}, calc.Logger)
}

func TestCalculateGoalProgress_ProgressPercentage(t *testing.T) {
	calc := newTestCalculator()
	goal := testGoal("5000000", testNow.AddDate(3, 0, 0))

	tests := []struct {
		current  string
		expected string
	}{
		{"0", "0"},
		{"1250000", "25"},
		{"2500000", "50"},
		{"3750000", "75"},
		{"5000000", "100"},
		{"6000000", "120"},
	}
	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			analysis := calc.CalculateGoalProgress(goal, d(tt.current), nil, d("0.12"), d("0.15"))
			assertNear(t, d(tt.expected), analysis.CurrentProgress.ProgressPercentage, "0.01")
		})
	}

	thirds := calc.CalculateGoalProgress(testGoal("1000000", testNow.AddDate(3, 0, 0)), d("333333"), nil, d("0.12"), d("0.15"))
	assertNear(t, d("33.3333"), thirds.CurrentProgress.ProgressPercentage, "0.01")
}

func TestCalculateGoalProgress_CurrentProgress(t *testing.T) {
	calc := newTestCalculator()
	goal := testGoal("5000000", testNow.AddDate(3, 0, 0))
	contributions := monthlyContributions("50000", 12)

	analysis := calc.CalculateGoalProgress(goal, d("1000000"), contributions, d("0.12"), d("0.15"))
	current := analysis.CurrentProgress

	assert.Equal(t, goal.ID, analysis.GoalID)
	assert.Equal(t, testNow, analysis.AsOf)
	assert.True(t, current.TotalContributions.Equal(d("600000")))
	assert.True(t, current.TotalReturns.Equal(d("400000")))
	// October, November and December fall inside the trailing window
	assert.True(t, current.RunRate.Equal(d("50000")), "run rate %s", current.RunRate)
	assert.True(t, current.AverageMonthlyContribution.GreaterThan(d("50000")),
		"600000 over fewer than twelve months, got %s", current.AverageMonthlyContribution)
	assertNear(t, d("3"), current.YearsRemaining, "0.01")
	assert.Equal(t, goal.Deadline.Sub(testNow), current.TimeRemaining)

	projected := analysis.ProjectedProgress
	assert.True(t, projected.MonthlyContributionAssumed.Equal(d("50000")))
	assert.True(t, projected.ProjectedRealAmount.LessThan(projected.ProjectedFinalAmount))
	assert.True(t, projected.ProjectedShortfall.Equal(decimal.Max(d("5000000").Sub(projected.ProjectedFinalAmount), decimal.Zero)))
	assert.Len(t, analysis.Scenarios, 5)
}

func TestCalculateGoalProgress_AlreadyAchieved(t *testing.T) {
	calc := newTestCalculator()
	analysis := calc.CalculateGoalProgress(testGoal("5000000", testNow.AddDate(2, 0, 0)), d("6000000"), nil, d("0.12"), d("0.15"))

	assert.True(t, analysis.ProjectedProgress.ProbabilityOfSuccess.Equal(d("1")))
	assert.True(t, analysis.ProjectedProgress.ProjectedShortfall.IsZero())
	assert.Equal(t, domain.RiskLow, analysis.RiskAssessment.OverallRiskLevel)
	assert.Empty(t, analysis.RiskAssessment.MitigationStrategies)
	assert.True(t, analysis.Recommendations.Has(domain.RecommendationOnTrack))
}

func TestCalculateGoalProgress_PastDeadline(t *testing.T) {
	calc := newTestCalculator()
	goal := testGoal("5000000", testNow.AddDate(0, -6, 0))

	analysis := calc.CalculateGoalProgress(goal, d("4000000"), nil, d("0.12"), d("0.15"))

	assert.True(t, analysis.CurrentProgress.YearsRemaining.IsNegative())
	assert.True(t, analysis.CurrentProgress.TimeRemaining < 0)
	assert.Equal(t, domain.RiskCritical, analysis.RiskAssessment.OverallRiskLevel)
	assert.NotEmpty(t, analysis.RiskAssessment.MitigationStrategies)
	assert.Contains(t, analysis.RiskAssessment.RiskFactors, "Deadline has passed before reaching the target")

	// no runway left, so the projection is today's balance
	assert.True(t, analysis.ProjectedProgress.ProjectedFinalAmount.Equal(d("4000000")))
	assert.True(t, analysis.Recommendations.Has(domain.RecommendationAdjustTimeline))
}

func TestCalculateGoalProgress_AchievedPastDeadlineIsLowRisk(t *testing.T) {
	calc := newTestCalculator()
	goal := testGoal("5000000", testNow.AddDate(0, -6, 0))

	analysis := calc.CalculateGoalProgress(goal, d("5200000"), nil, d("0.12"), d("0.15"))

	assert.Equal(t, domain.RiskLow, analysis.RiskAssessment.OverallRiskLevel)
	assert.NotContains(t, analysis.RiskAssessment.RiskFactors, "Deadline has passed before reaching the target")
}

func TestCalculateGoalProgress_AdjustTimelineSuggestsDeadline(t *testing.T) {
	calc := newTestCalculator()
	goal := testGoal("1000000", testNow.AddDate(0, 4, 0))

	analysis := calc.CalculateGoalProgress(goal, d("100000"), monthlyContributions("20000", 6), d("0.12"), d("0.15"))

	rec := analysis.Recommendations.Find(domain.RecommendationAdjustTimeline)
	require.NotNil(t, rec)
	adjust := rec.(domain.AdjustTimeline)
	require.NotNil(t, adjust.SuggestedDeadline)
	assert.True(t, adjust.SuggestedDeadline.After(goal.Deadline))
}

func TestCalculateGoalProgress_IncreaseContributions(t *testing.T) {
	calc := newTestCalculator()
	goal := testGoal("5000000", testNow.AddDate(10, 0, 0))

	analysis := calc.CalculateGoalProgress(goal, d("100000"), nil, d("0.12"), d("0.15"))

	assert.True(t, analysis.ProjectedProgress.ProbabilityOfSuccess.LessThan(d("0.6")))
	assert.Equal(t, domain.RiskModerate, analysis.RiskAssessment.OverallRiskLevel)
	assert.Contains(t, analysis.RiskAssessment.RiskFactors, "No contributions recorded")

	rec := analysis.Recommendations.Find(domain.RecommendationIncreaseContributions)
	require.NotNil(t, rec)
	increase := rec.(domain.IncreaseContributions)
	require.NotNil(t, increase.SuggestedMonthlyContribution)
	assert.True(t, increase.SuggestedMonthlyContribution.IsPositive())
	assert.False(t, analysis.Recommendations.Has(domain.RecommendationOnTrack))
}

func TestCalculateGoalProgress_Diversify(t *testing.T) {
	calc := newTestCalculator()
	goal := testGoal("1000000", testNow.AddDate(2, 0, 0))

	analysis := calc.CalculateGoalProgress(goal, d("400000"), monthlyContributions("10000", 6), d("0.12"), d("0.25"))
	assert.True(t, analysis.Recommendations.Has(domain.RecommendationDiversify))
	assert.Contains(t, analysis.RiskAssessment.RiskFactors, "High market volatility")

	calm := calc.CalculateGoalProgress(goal, d("400000"), monthlyContributions("10000", 6), d("0.12"), d("0.10"))
	assert.False(t, calm.Recommendations.Has(domain.RecommendationDiversify))
}

func TestCalculateGoalProgress_RiskTable(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		current  string
		months   int
		expected domain.RiskLevel
	}{
		{"800000", 36, domain.RiskLow},
		{"800000", 3, domain.RiskModerate},
		{"600000", 36, domain.RiskLow},
		{"600000", 18, domain.RiskModerate},
		{"600000", 3, domain.RiskHigh},
		{"300000", 18, domain.RiskModerate},
		{"300000", 9, domain.RiskHigh},
		{"300000", 3, domain.RiskCritical},
		{"100000", 36, domain.RiskModerate},
		{"100000", 18, domain.RiskHigh},
		{"100000", 9, domain.RiskCritical},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s with %d months", tt.current, tt.months), func(t *testing.T) {
			goal := testGoal("1000000", testNow.AddDate(0, tt.months, 0))
			analysis := calc.CalculateGoalProgress(goal, d(tt.current), nil, d("0.12"), d("0.15"))
			assert.Equal(t, tt.expected, analysis.RiskAssessment.OverallRiskLevel)
			if tt.expected.IsElevated() {
				assert.NotEmpty(t, analysis.RiskAssessment.MitigationStrategies)
			} else {
				assert.Empty(t, analysis.RiskAssessment.MitigationStrategies)
			}
		})
	}
}

func TestCalculateGoalProgress_Milestones(t *testing.T) {
	calc := newTestCalculator()
	goal := testGoal("1000000", testNow.AddDate(2, 0, 0))
	goal.Milestones = []domain.Milestone{
		domain.NewMilestone("Three quarters", d("750000"), testNow.AddDate(1, 0, 0)),
		domain.NewMilestone("Quarter", d("250000"), testNow.AddDate(0, -6, 0)),
		domain.NewMilestone("Half", d("500000"), testNow.AddDate(0, -1, 0)),
		domain.NewMilestone("Kickoff", d("1000"), testNow.AddDate(0, -11, 0)),
	}
	goal.Milestones[3].Achieved = true

	analysis := calc.CalculateGoalProgress(goal, d("300000"), nil, d("0.12"), d("0.15"))
	status := analysis.MilestoneStatus

	assert.Equal(t, 4, status.TotalMilestones)
	assert.Equal(t, 2, status.MilestonesAchieved)
	assert.True(t, status.CompletionRate.Equal(d("50")))
	require.NotNil(t, status.NextMilestone)
	assert.Equal(t, "Half", status.NextMilestone.Milestone.Description)
	assert.True(t, status.NextMilestone.Overdue)
	assert.True(t, status.NextMilestone.ProgressPercentage.Equal(d("60")))

	rec := analysis.Recommendations.Find(domain.RecommendationCatchUpMilestone)
	require.NotNil(t, rec)
	catchUp := rec.(domain.CatchUpMilestone)
	assert.Equal(t, goal.Milestones[2].ID, catchUp.MilestoneID)
	assert.True(t, catchUp.Shortfall.Equal(d("200000")))
}

func TestCalculateGoalProgress_Degenerate(t *testing.T) {
	calc := newTestCalculator()

	t.Run("zero target", func(t *testing.T) {
		analysis := calc.CalculateGoalProgress(testGoal("0", testNow.AddDate(1, 0, 0)), d("0"), nil, d("0.12"), d("0.15"))
		require.NotNil(t, analysis)
		assert.True(t, analysis.CurrentProgress.ProgressPercentage.Equal(d("100")))
		assert.True(t, analysis.ProjectedProgress.ProbabilityOfSuccess.Equal(d("1")))
		assert.NotEmpty(t, analysis.Recommendations)
	})

	t.Run("negative current amount", func(t *testing.T) {
		analysis := calc.CalculateGoalProgress(testGoal("100000", testNow.AddDate(1, 0, 0)), d("-5000"), nil, d("0.12"), d("0.15"))
		require.NotNil(t, analysis)
		assert.True(t, analysis.CurrentProgress.ProgressPercentage.Equal(d("-5")))
		p := analysis.ProjectedProgress.ProbabilityOfSuccess
		assert.True(t, p.GreaterThanOrEqual(decimal.Zero) && p.LessThanOrEqual(d("1")))
		assert.Equal(t, domain.RiskCritical, analysis.RiskAssessment.OverallRiskLevel)
	})

	t.Run("deadline before start", func(t *testing.T) {
		goal := domain.NewGoal("Backwards", d("1000"), testNow, testNow.AddDate(-2, 0, 0))
		analysis := calc.CalculateGoalProgress(goal, d("10"), nil, d("0.12"), d("0.15"))
		require.NotNil(t, analysis)
		assert.Equal(t, domain.RiskCritical, analysis.RiskAssessment.OverallRiskLevel)
	})

	t.Run("nil goal", func(t *testing.T) {
		analysis := calc.CalculateGoalProgress(nil, d("10"), nil, d("0.12"), d("0.15"))
		require.NotNil(t, analysis)
	})

	t.Run("no milestones", func(t *testing.T) {
		analysis := calc.CalculateGoalProgress(testGoal("1000", testNow.AddDate(1, 0, 0)), d("10"), nil, d("0.12"), d("0.15"))
		assert.Zero(t, analysis.MilestoneStatus.TotalMilestones)
		assert.Nil(t, analysis.MilestoneStatus.NextMilestone)
		assert.True(t, analysis.MilestoneStatus.CompletionRate.IsZero())
	})
}

func TestProjectProbability_MonotonicInContribution(t *testing.T) {
	calc := newTestCalculator()
	goal := testGoal("5000000", testNow.AddDate(3, 0, 0))

	previous := decimal.Zero
	for _, monthly := range []string{"0", "25000", "50000", "75000", "99464.39", "125000", "150000"} {
		projected, p := calc.ProjectProbability(goal, d("500000"), d(monthly), d("0.12"), d("0.15"))
		assert.True(t, p.GreaterThanOrEqual(previous), "probability fell at %s", monthly)
		assert.True(t, projected.IsPositive())
		previous = p
	}
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+fmt.Sprintf(format, args...))
}
