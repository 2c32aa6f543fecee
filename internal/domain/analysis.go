package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel is the discrete risk classification of a goal
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskLevels lists the levels from least to most severe
var RiskLevels = []RiskLevel{RiskLow, RiskModerate, RiskHigh, RiskCritical}

// Severity orders risk levels; higher is worse
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLow:
		return 0
	case RiskModerate:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return -1
	}
}

// IsElevated reports whether mitigation is warranted
func (r RiskLevel) IsElevated() bool {
	return r.Severity() >= RiskHigh.Severity()
}

// GoalProgressAnalysis is the derived view of a goal at a point in time
type GoalProgressAnalysis struct {
	GoalID            string               `json:"goalId"`
	AsOf              time.Time            `json:"asOf"`
	CurrentProgress   CurrentProgress      `json:"currentProgress"`
	ProjectedProgress ProjectedProgress    `json:"projectedProgress"`
	MilestoneStatus   MilestoneStatus      `json:"milestoneStatus"`
	RiskAssessment    RiskAssessment       `json:"riskAssessment"`
	Recommendations   Recommendations      `json:"recommendations"`
	Scenarios         []ScenarioProjection `json:"scenarios"`
}

// CurrentProgress describes where the goal stands today
type CurrentProgress struct {
	CurrentAmount              decimal.Decimal `json:"currentAmount"`
	TargetAmount               decimal.Decimal `json:"targetAmount"`
	ProgressPercentage         decimal.Decimal `json:"progressPercentage"`
	TotalContributions         decimal.Decimal `json:"totalContributions"`
	TotalReturns               decimal.Decimal `json:"totalReturns"`
	RunRate                    decimal.Decimal `json:"runRate"` // monthly, trailing window
	AverageMonthlyContribution decimal.Decimal `json:"averageMonthlyContribution"`
	TimeRemaining              time.Duration   `json:"timeRemaining"`
	YearsRemaining             decimal.Decimal `json:"yearsRemaining"`
}

// IsAchieved reports whether the current amount has reached the target
func (c CurrentProgress) IsAchieved() bool {
	return c.CurrentAmount.GreaterThanOrEqual(c.TargetAmount)
}

// ProjectedProgress describes the expected outcome at the deadline
type ProjectedProgress struct {
	ProjectedFinalAmount       decimal.Decimal `json:"projectedFinalAmount"`
	ProjectedRealAmount        decimal.Decimal `json:"projectedRealAmount"`
	ProjectedShortfall         decimal.Decimal `json:"projectedShortfall"`
	ProbabilityOfSuccess       decimal.Decimal `json:"probabilityOfSuccess"`
	MonthlyContributionAssumed decimal.Decimal `json:"monthlyContributionAssumed"`
	ExpectedReturn             decimal.Decimal `json:"expectedReturn"`
}

// MilestoneStatus summarises milestone completion
type MilestoneStatus struct {
	TotalMilestones    int             `json:"totalMilestones"`
	MilestonesAchieved int             `json:"milestonesAchieved"`
	CompletionRate     decimal.Decimal `json:"completionRate"`
	NextMilestone      *NextMilestone  `json:"nextMilestone,omitempty"`
}

// NextMilestone is the first milestone not yet achieved
type NextMilestone struct {
	Milestone          Milestone       `json:"milestone"`
	ProgressPercentage decimal.Decimal `json:"progressPercentage"`
	Overdue            bool            `json:"overdue"`
}

// RiskAssessment classifies how likely the goal is to slip
type RiskAssessment struct {
	OverallRiskLevel     RiskLevel `json:"overallRiskLevel"`
	RiskFactors          []string  `json:"riskFactors"`
	MitigationStrategies []string  `json:"mitigationStrategies,omitempty"`
}

// ScenarioTier names one of the five fixed scenario assumptions
type ScenarioTier string

const (
	TierOptimistic   ScenarioTier = "optimistic"
	TierLikely       ScenarioTier = "likely"
	TierExpected     ScenarioTier = "expected"
	TierConservative ScenarioTier = "conservative"
	TierPessimistic  ScenarioTier = "pessimistic"
)

// ScenarioTiers lists the tiers from best to worst outcome
var ScenarioTiers = []ScenarioTier{TierOptimistic, TierLikely, TierExpected, TierConservative, TierPessimistic}

// ScenarioProjection is the projected outcome under one tier's return assumption
type ScenarioProjection struct {
	Tier                 ScenarioTier    `json:"tier"`
	AssumedReturn        decimal.Decimal `json:"assumedReturn"`
	ProjectedValue       decimal.Decimal `json:"projectedValue"`
	ProbabilityOfSuccess decimal.Decimal `json:"probabilityOfSuccess"`
}

// ContributionScenario is one candidate monthly contribution level
type ContributionScenario struct {
	Label                string          `json:"label"`
	MonthlyContribution  decimal.Decimal `json:"monthlyContribution"`
	ProjectedFinalAmount decimal.Decimal `json:"projectedFinalAmount"`
	ProbabilityOfSuccess decimal.Decimal `json:"probabilityOfSuccess"`
}

// ContributionOptimizationResult lists contribution scenarios and the chosen one
type ContributionOptimizationResult struct {
	GoalID               string                 `json:"goalId"`
	Scenarios            []ContributionScenario `json:"scenarios"`
	Recommended          ContributionScenario   `json:"recommended"`
	RequiredContribution *decimal.Decimal       `json:"requiredContribution,omitempty"`
	TargetProbability    decimal.Decimal        `json:"targetProbability"`
}
