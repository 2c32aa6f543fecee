// Package integration runs the goals file through the full tracking and
// reporting pipeline.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rgehrsitz/goalpath/internal/config"
	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/rgehrsitz/goalpath/internal/output"
	"github.com/rgehrsitz/goalpath/internal/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const exampleGoals = "../testdata/example_goals.yaml"

var asOf = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// loadExample builds a service over the example goals file at a fixed clock
func loadExample(t *testing.T) (*config.Settings, *tracking.Service) {
	t.Helper()
	parser := &config.InputParser{}
	settings, err := parser.LoadFromFile(exampleGoals)
	require.NoError(t, err)

	svc := tracking.NewService(settings.Tracking,
		tracking.WithClock(func() time.Time { return asOf }),
		tracking.WithBalanceSource(tracking.NewStaticBalances(settings.Balances)),
	)
	for _, goal := range settings.Goals {
		svc.StartTrackingGoal(goal)
	}
	return settings, svc
}

func buildReport(t *testing.T) *output.Report {
	t.Helper()
	settings, svc := loadExample(t)
	reports, err := svc.GenerateGoalReports(context.Background())
	require.NoError(t, err)
	return &output.Report{
		Title:         "Integration",
		Currency:      settings.Tracking.Currency,
		GeneratedDate: asOf,
		Assumptions:   output.DescribeAssumptions(settings.Tracking),
		Summary:       svc.GenerateGoalsSummary(),
		Goals:         reports,
	}
}

func TestExampleGoalsFile(t *testing.T) {
	settings, svc := loadExample(t)

	assert.Equal(t, "INR", settings.Tracking.Currency)
	assert.Equal(t, 200, settings.Tracking.Simulations)
	require.Len(t, settings.Goals, 3)
	assert.Equal(t, 3, svc.ActiveGoalCount())

	balance, err := svc.CurrentBalance("home")
	require.NoError(t, err)
	assert.Equal(t, "1200000", balance.String(), "reported balance wins over contributions")

	balance, err = svc.CurrentBalance("education")
	require.NoError(t, err)
	assert.Equal(t, "200000", balance.String())
}

func TestSummaryMatchesGoalReports(t *testing.T) {
	report := buildReport(t)
	summary := report.Summary
	require.NotNil(t, summary)

	assert.Equal(t, 3, summary.TotalGoals)
	assert.Equal(t, 1, summary.AchievedGoals)
	assert.Equal(t, "8600000", summary.TotalTargetAmount.String())
	assert.Equal(t, "2000000", summary.TotalCurrentAmount.String())

	byRisk := 0
	for _, level := range domain.RiskLevels {
		byRisk += summary.GoalsByRisk[level]
	}
	assert.Equal(t, summary.TotalGoals, byRisk)

	for _, r := range report.Goals {
		require.NotNil(t, r.Analysis, r.Goal.Title)
		require.NotNil(t, r.Optimization, r.Goal.Title)
		require.NotNil(t, r.Simulation, r.Goal.Title)
		assert.Equal(t, 200, r.Simulation.Simulations)
		assert.Len(t, r.Analysis.Scenarios, len(domain.ScenarioTiers))
		assert.Equal(t, asOf, r.GeneratedDate)
	}
}

func TestReportsAreDeterministic(t *testing.T) {
	first := buildReport(t)
	second := buildReport(t)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b), "same file, clock and seed give the same report")
}

func TestEveryFormatterRendersTheReport(t *testing.T) {
	report := buildReport(t)

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			f := output.GetFormatterByName(name)
			require.NotNil(t, f)

			var buf bytes.Buffer
			require.NoError(t, output.Write(&buf, f, report))
			assert.NotEmpty(t, buf.Bytes())
		})
	}
}

func TestYAMLReportDecodes(t *testing.T) {
	report := buildReport(t)
	data, err := output.YAMLFormatter{}.Format(report)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "INR", decoded["currency"])
	assert.Len(t, decoded["goals"], 3)
}

func TestContributionRoundTripThroughGoalsFile(t *testing.T) {
	settings, svc := loadExample(t)

	_, err := svc.AddContribution("education", decimalOf(t, "25000"), tracking.WithContributionDate(asOf))
	require.NoError(t, err)
	settings.Goals = svc.ActiveGoals()

	data, err := config.MarshalGoalsFile(settings)
	require.NoError(t, err)

	reloaded, err := (&config.InputParser{}).Parse(data)
	require.NoError(t, err)
	require.Len(t, reloaded.Goals, 3)
	assert.Len(t, reloaded.Goals[1].Contributions, 2)
	assert.Equal(t, settings.Tracking.Seed, reloaded.Tracking.Seed)
	assert.Equal(t, "1200000", reloaded.Balances["home"].String())
}

func TestAutomaticUpdatesRefreshAnalyses(t *testing.T) {
	settings, _ := loadExample(t)
	settings.Tracking.EnableAutomaticUpdates = true
	settings.Tracking.UpdateInterval = time.Second

	svc := tracking.NewService(settings.Tracking)
	for _, goal := range settings.Goals {
		svc.StartTrackingGoal(goal)
	}
	first := svc.LastUpdated()

	require.NoError(t, svc.StartAutomaticUpdates())
	defer svc.StopAutomaticUpdates()
	assert.True(t, svc.AutomaticUpdatesRunning())

	assert.Eventually(t, func() bool {
		return svc.LastUpdated().After(first)
	}, 5*time.Second, 50*time.Millisecond)

	svc.StopAutomaticUpdates()
	assert.False(t, svc.AutomaticUpdatesRunning())
}
