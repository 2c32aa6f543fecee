package tracking

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/goalpath/internal/calculation"
	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/shopspring/decimal"
)

// GenerateGoalReport bundles a goal with its latest analysis, the contribution
// optimisation and, when simulations are configured, a Monte Carlo summary.
func (s *Service) GenerateGoalReport(ctx context.Context, id string) (*domain.GoalReport, error) {
	s.mu.RLock()
	stored, ok := s.goals[id]
	if !ok {
		s.mu.RUnlock()
		return nil, goalNotFound(id)
	}
	goal := stored.DeepCopy()
	analysis := s.analyses[id]
	current := s.balances.CurrentBalance(goal)
	s.mu.RUnlock()

	optimization, err := s.CalculateOptimalContributionStrategy(id)
	if err != nil {
		return nil, err
	}

	report := &domain.GoalReport{
		Goal:          *goal,
		Analysis:      analysis,
		Optimization:  optimization,
		GeneratedDate: s.now(),
	}

	if s.cfg.Simulations > 0 && analysis != nil {
		expectedReturn, volatility := s.assumptions(goal)
		summary, err := calculation.SimulateGoalOutcomes(ctx, calculation.SimulationParams{
			Current:        current,
			Monthly:        analysis.ProjectedProgress.MonthlyContributionAssumed,
			Target:         goal.TargetAmount,
			Years:          decimal.Max(analysis.CurrentProgress.YearsRemaining, decimal.Zero),
			ExpectedReturn: expectedReturn,
			Volatility:     volatility,
			Simulations:    s.cfg.Simulations,
			Seed:           s.cfg.Seed,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to simulate goal %s: %w", id, err)
		}
		report.Simulation = summary
	}

	return report, nil
}

// GenerateGoalReports builds a report for every tracked goal
func (s *Service) GenerateGoalReports(ctx context.Context) ([]*domain.GoalReport, error) {
	goals := s.ActiveGoals()
	reports := make([]*domain.GoalReport, 0, len(goals))
	for _, goal := range goals {
		report, err := s.GenerateGoalReport(ctx, goal.ID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// GenerateGoalsSummary aggregates the cached analyses of every tracked goal
func (s *Service) GenerateGoalsSummary() *domain.GoalsSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &domain.GoalsSummary{
		TotalGoals:                len(s.goals),
		TotalTargetAmount:         decimal.Zero,
		TotalCurrentAmount:        decimal.Zero,
		OverallProgressPercentage: decimal.Zero,
		GoalsByRisk:               make(map[domain.RiskLevel]int, len(domain.RiskLevels)),
		GeneratedDate:             s.now(),
	}
	for _, level := range domain.RiskLevels {
		summary.GoalsByRisk[level] = 0
	}

	for _, id := range s.order {
		analysis, ok := s.analyses[id]
		if !ok {
			continue
		}
		cp := analysis.CurrentProgress
		summary.TotalTargetAmount = summary.TotalTargetAmount.Add(cp.TargetAmount)
		summary.TotalCurrentAmount = summary.TotalCurrentAmount.Add(cp.CurrentAmount)
		if cp.IsAchieved() {
			summary.AchievedGoals++
		}
		summary.GoalsByRisk[analysis.RiskAssessment.OverallRiskLevel]++
	}

	if summary.TotalTargetAmount.IsPositive() {
		summary.OverallProgressPercentage = summary.TotalCurrentAmount.
			Mul(decimal.NewFromInt(100)).
			DivRound(summary.TotalTargetAmount, 4)
	}
	return summary
}
