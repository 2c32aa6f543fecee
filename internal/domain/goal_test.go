package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoal_DeepCopy(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ret := decimal.NewFromFloat(0.08)
	vol := decimal.NewFromFloat(0.2)

	original := NewGoal("House", decimal.NewFromInt(5000000), start, start.AddDate(3, 0, 0))
	original.ExpectedReturn = &ret
	original.Volatility = &vol
	original.Contributions = []Contribution{NewContribution(decimal.NewFromInt(1000), start, "first")}
	original.Milestones = []Milestone{NewMilestone("First lakh", decimal.NewFromInt(100000), start.AddDate(1, 0, 0))}

	copied := original.DeepCopy()
	require.NotNil(t, copied)
	assert.Equal(t, original, copied)

	copied.Contributions[0].Amount = decimal.NewFromInt(1)
	copied.Milestones[0].Achieved = true
	*copied.ExpectedReturn = decimal.Zero
	*copied.Volatility = decimal.Zero

	assert.True(t, original.Contributions[0].Amount.Equal(decimal.NewFromInt(1000)))
	assert.False(t, original.Milestones[0].Achieved)
	assert.True(t, original.ExpectedReturn.Equal(ret))
	assert.True(t, original.Volatility.Equal(vol))

	var nilGoal *Goal
	assert.Nil(t, nilGoal.DeepCopy())
}

func TestNewIDsAreUnique(t *testing.T) {
	start := time.Now()
	a := NewGoal("a", decimal.Zero, start, start)
	b := NewGoal("b", decimal.Zero, start, start)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, NewContribution(decimal.Zero, start, "").ID, NewContribution(decimal.Zero, start, "").ID)
}

func TestDerivedID(t *testing.T) {
	assert.Equal(t, DerivedID("house/contribution/0"), DerivedID("house/contribution/0"))
	assert.NotEqual(t, DerivedID("house/contribution/0"), DerivedID("house/contribution/1"))
	assert.Len(t, DerivedID("x"), 36)
}

func TestSortContributions_StableAndChronological(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := jan.AddDate(0, 1, 0)
	contributions := []Contribution{
		{ID: "feb-1", Date: feb, Amount: decimal.NewFromInt(2)},
		{ID: "jan", Date: jan, Amount: decimal.NewFromInt(1)},
		{ID: "feb-2", Date: feb, Amount: decimal.NewFromInt(3)},
	}

	sorted := SortContributions(contributions)
	ids := make([]string, len(sorted))
	for i, c := range sorted {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"jan", "feb-1", "feb-2"}, ids)
	assert.Equal(t, "feb-1", contributions[0].ID, "input is not reordered")

	goal := &Goal{Contributions: contributions}
	assert.Equal(t, sorted, goal.SortedContributions())
	assert.True(t, goal.TotalContributions().Equal(decimal.NewFromInt(6)))
	assert.True(t, SumContributions(nil).IsZero())
}

func TestGoal_Overrides(t *testing.T) {
	fallback := decimal.NewFromFloat(0.12)
	goal := &Goal{}
	assert.True(t, goal.ReturnOr(fallback).Equal(fallback))
	assert.True(t, goal.VolatilityOr(fallback).Equal(fallback))

	zero := decimal.Zero
	goal.ExpectedReturn = &zero
	goal.Volatility = &zero
	assert.True(t, goal.ReturnOr(fallback).IsZero(), "an explicit zero is an override")
	assert.True(t, goal.VolatilityOr(fallback).IsZero())
}

func TestGoal_IsPastDeadline(t *testing.T) {
	deadline := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	goal := &Goal{Deadline: deadline}

	assert.False(t, goal.IsPastDeadline(deadline.Add(-time.Second)))
	assert.True(t, goal.IsPastDeadline(deadline))
	assert.True(t, goal.IsPastDeadline(deadline.AddDate(0, 0, 1)))
}

func TestRiskLevel_Severity(t *testing.T) {
	for i, level := range RiskLevels {
		assert.Equal(t, i, level.Severity())
	}
	assert.Equal(t, -1, RiskLevel("unknown").Severity())
	assert.False(t, RiskModerate.IsElevated())
	assert.True(t, RiskHigh.IsElevated())
	assert.True(t, RiskCritical.IsElevated())
}

func TestDefaultTrackingConfig(t *testing.T) {
	cfg := DefaultTrackingConfig()
	assert.Equal(t, "0.12", cfg.DefaultExpectedReturn.String())
	assert.Equal(t, "0.15", cfg.DefaultMarketVolatility.String())
	assert.Equal(t, "0.03", cfg.DefaultInflationRate.String())
	assert.Equal(t, time.Hour, cfg.UpdateInterval)
	assert.False(t, cfg.EnableAutomaticUpdates)
	assert.Equal(t, "INR", cfg.Currency)
}
