package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleRecommendations() Recommendations {
	monthly := decimal.RequireFromString("99465.12")
	deadline := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	return Recommendations{
		IncreaseContributions{SuggestedMonthlyContribution: &monthly},
		AdjustTimeline{SuggestedDeadline: &deadline},
		Diversify{Reason: "volatility above 25%"},
		CatchUpMilestone{MilestoneID: "m1", Shortfall: decimal.NewFromInt(500)},
	}
}

func TestRecommendations_Lookup(t *testing.T) {
	recs := sampleRecommendations()

	assert.True(t, recs.Has(RecommendationDiversify))
	assert.False(t, recs.Has(RecommendationOnTrack))
	assert.Nil(t, recs.Find(RecommendationMonitorProgress))

	found, ok := recs.Find(RecommendationCatchUpMilestone).(CatchUpMilestone)
	require.True(t, ok)
	assert.Equal(t, "m1", found.MilestoneID)

	assert.Equal(t, []RecommendationKind{
		RecommendationIncreaseContributions,
		RecommendationAdjustTimeline,
		RecommendationDiversify,
		RecommendationCatchUpMilestone,
	}, recs.Kinds())
}

func TestRecommendation_Messages(t *testing.T) {
	recs := sampleRecommendations()
	assert.Equal(t, "Increase monthly contributions to 99465.12", recs[0].Message())
	assert.Equal(t, "Extend the deadline to 2030-06-01", recs[1].Message())
	assert.Equal(t, "Diversify holdings: volatility above 25%", recs[2].Message())
	assert.Equal(t, "Milestone is overdue; 500.00 still needed", recs[3].Message())

	assert.Equal(t, "Increase monthly contributions", IncreaseContributions{}.Message())
	assert.Equal(t, "Extend the deadline or reduce the target amount", AdjustTimeline{}.Message())
	assert.NotEmpty(t, OnTrack{}.Message())
	assert.NotEmpty(t, MonitorProgress{}.Message())
}

func TestRecommendations_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(sampleRecommendations())
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 4)

	assert.Equal(t, "increase_contributions", decoded[0]["type"])
	assert.Equal(t, "99465.12", decoded[0]["suggestedMonthlyContribution"])
	assert.Equal(t, "adjust_timeline", decoded[1]["type"])
	assert.Equal(t, "2030-06-01T00:00:00Z", decoded[1]["suggestedDeadline"])
	assert.Equal(t, "catch_up_milestone", decoded[3]["type"])
	assert.Equal(t, "500", decoded[3]["shortfall"])
	assert.Equal(t, "Milestone is overdue; 500.00 still needed", decoded[3]["message"])

	data, err = json.Marshal(Recommendations{OnTrack{}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"on_track","message":"Goal is on track; keep the current plan"}]`, string(data))
}

func TestRecommendations_MarshalYAML(t *testing.T) {
	analysis := GoalProgressAnalysis{Recommendations: Recommendations{Diversify{Reason: "concentrated"}}}
	data, err := yaml.Marshal(analysis.Recommendations)
	require.NoError(t, err)

	var decoded []map[string]string
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "diversify", decoded[0]["type"])
	assert.Equal(t, "concentrated", decoded[0]["reason"])
}
