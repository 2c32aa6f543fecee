package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RecommendationKind identifies a recommendation variant
type RecommendationKind string

const (
	RecommendationOnTrack               RecommendationKind = "on_track"
	RecommendationMonitorProgress       RecommendationKind = "monitor_progress"
	RecommendationIncreaseContributions RecommendationKind = "increase_contributions"
	RecommendationAdjustTimeline        RecommendationKind = "adjust_timeline"
	RecommendationDiversify             RecommendationKind = "diversify"
	RecommendationCatchUpMilestone      RecommendationKind = "catch_up_milestone"
)

// Recommendation is one variant of the goal recommendation union.
// Variants are OnTrack, MonitorProgress, IncreaseContributions, AdjustTimeline,
// Diversify and CatchUpMilestone.
type Recommendation interface {
	Kind() RecommendationKind
	Message() string
}

// OnTrack means the goal needs no change
type OnTrack struct{}

func (OnTrack) Kind() RecommendationKind { return RecommendationOnTrack }
func (OnTrack) Message() string          { return "Goal is on track; keep the current plan" }

// MonitorProgress means the goal is likely but not certain to succeed
type MonitorProgress struct{}

func (MonitorProgress) Kind() RecommendationKind { return RecommendationMonitorProgress }
func (MonitorProgress) Message() string {
	return "Goal is reasonably likely to succeed; review progress regularly"
}

// IncreaseContributions suggests a higher monthly contribution
type IncreaseContributions struct {
	SuggestedMonthlyContribution *decimal.Decimal `json:"suggestedMonthlyContribution,omitempty"`
}

func (IncreaseContributions) Kind() RecommendationKind {
	return RecommendationIncreaseContributions
}

func (r IncreaseContributions) Message() string {
	if r.SuggestedMonthlyContribution == nil {
		return "Increase monthly contributions"
	}
	return "Increase monthly contributions to " + r.SuggestedMonthlyContribution.StringFixed(2)
}

// AdjustTimeline suggests moving the deadline
type AdjustTimeline struct {
	SuggestedDeadline *time.Time `json:"suggestedDeadline,omitempty"`
}

func (AdjustTimeline) Kind() RecommendationKind { return RecommendationAdjustTimeline }

func (r AdjustTimeline) Message() string {
	if r.SuggestedDeadline == nil {
		return "Extend the deadline or reduce the target amount"
	}
	return "Extend the deadline to " + r.SuggestedDeadline.Format("2006-01-02")
}

// Diversify suggests reducing exposure to market volatility
type Diversify struct {
	Reason string `json:"reason"`
}

func (Diversify) Kind() RecommendationKind { return RecommendationDiversify }
func (r Diversify) Message() string        { return "Diversify holdings: " + r.Reason }

// CatchUpMilestone flags an overdue milestone
type CatchUpMilestone struct {
	MilestoneID string          `json:"milestoneId"`
	Shortfall   decimal.Decimal `json:"shortfall"`
}

func (CatchUpMilestone) Kind() RecommendationKind { return RecommendationCatchUpMilestone }
func (r CatchUpMilestone) Message() string {
	return "Milestone is overdue; " + r.Shortfall.StringFixed(2) + " still needed"
}

// Recommendations is an ordered set of recommendation variants
type Recommendations []Recommendation

// Has reports whether a variant of the given kind is present
func (rs Recommendations) Has(kind RecommendationKind) bool {
	return rs.Find(kind) != nil
}

// Find returns the first recommendation of the given kind, or nil
func (rs Recommendations) Find(kind RecommendationKind) Recommendation {
	for _, r := range rs {
		if r.Kind() == kind {
			return r
		}
	}
	return nil
}

// Kinds lists the kinds in order
func (rs Recommendations) Kinds() []RecommendationKind {
	kinds := make([]RecommendationKind, 0, len(rs))
	for _, r := range rs {
		kinds = append(kinds, r.Kind())
	}
	return kinds
}

// tagged renders each variant as a map carrying its "type" discriminator
func (rs Recommendations) tagged() ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(rs))
	for _, r := range rs {
		payload, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		fields := map[string]any{}
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, err
		}
		fields["type"] = string(r.Kind())
		fields["message"] = r.Message()
		out = append(out, fields)
	}
	return out, nil
}

// MarshalJSON encodes the union with a "type" tag per element
func (rs Recommendations) MarshalJSON() ([]byte, error) {
	tagged, err := rs.tagged()
	if err != nil {
		return nil, err
	}
	return json.Marshal(tagged)
}

// MarshalYAML encodes the union with a "type" tag per element
func (rs Recommendations) MarshalYAML() (interface{}, error) {
	return rs.tagged()
}
