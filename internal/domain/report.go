package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SimulationSummary holds the Monte Carlo outcome distribution for a goal
type SimulationSummary struct {
	Simulations int                        `json:"simulations"`
	SuccessRate decimal.Decimal            `json:"successRate"`
	Mean        decimal.Decimal            `json:"mean"`
	Percentiles map[string]decimal.Decimal `json:"percentiles"` // 10th, 25th, 50th, 75th, 90th
}

// GoalReport bundles everything known about a single goal
type GoalReport struct {
	Goal          Goal                            `json:"goal"`
	Analysis      *GoalProgressAnalysis           `json:"analysis"`
	Optimization  *ContributionOptimizationResult `json:"optimization"`
	Simulation    *SimulationSummary              `json:"simulation,omitempty"`
	GeneratedDate time.Time                       `json:"generatedDate"`
}

// GoalsSummary aggregates all tracked goals
type GoalsSummary struct {
	TotalGoals                int               `json:"totalGoals"`
	AchievedGoals             int               `json:"achievedGoals"`
	TotalTargetAmount         decimal.Decimal   `json:"totalTargetAmount"`
	TotalCurrentAmount        decimal.Decimal   `json:"totalCurrentAmount"`
	OverallProgressPercentage decimal.Decimal   `json:"overallProgressPercentage"`
	GoalsByRisk               map[RiskLevel]int `json:"goalsByRisk"`
	GeneratedDate             time.Time         `json:"generatedDate"`
}
