package tracking

import (
	"sort"

	"github.com/rgehrsitz/goalpath/internal/calculation"
	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/shopspring/decimal"
)

// contributionTiers are the multiples of the base contribution the optimiser evaluates
var contributionTiers = []struct {
	label      string
	multiplier decimal.Decimal
}{
	{"reduced", decimal.NewFromFloat(0.5)},
	{"moderate", decimal.NewFromFloat(0.75)},
	{"required", decimal.NewFromInt(1)},
	{"accelerated", decimal.NewFromFloat(1.25)},
	{"aggressive", decimal.NewFromFloat(1.5)},
}

const currentTierLabel = "current"

// CalculateOptimalContributionStrategy evaluates a ladder of monthly
// contribution levels around the amount the goal needs and recommends the
// cheapest one that reaches the configured target probability.
func (s *Service) CalculateOptimalContributionStrategy(id string) (*domain.ContributionOptimizationResult, error) {
	s.mu.RLock()
	stored, ok := s.goals[id]
	if !ok {
		s.mu.RUnlock()
		return nil, goalNotFound(id)
	}
	goal := stored.DeepCopy()
	current := s.balances.CurrentBalance(goal)
	s.mu.RUnlock()

	expectedReturn, volatility := s.assumptions(goal)
	analysis := s.calc.CalculateGoalProgress(goal, current, goal.Contributions, expectedReturn, volatility)
	years := decimal.Max(analysis.CurrentProgress.YearsRemaining, decimal.Zero)
	runRate := analysis.CurrentProgress.RunRate

	required := calculation.CalculateRequiredContribution(goal.TargetAmount, current, expectedReturn, years, calculation.Monthly)
	base := baseContribution(required, runRate, goal.TargetAmount.Sub(current), years)

	scenario := func(label string, monthly decimal.Decimal) domain.ContributionScenario {
		projected, probability := s.calc.ProjectProbability(goal, current, monthly, expectedReturn, volatility)
		return domain.ContributionScenario{
			Label:                label,
			MonthlyContribution:  monthly,
			ProjectedFinalAmount: projected,
			ProbabilityOfSuccess: probability,
		}
	}

	var scenarios []domain.ContributionScenario
	if base.IsZero() {
		scenarios = append(scenarios, scenario("required", decimal.Zero))
	} else {
		for _, tier := range contributionTiers {
			scenarios = append(scenarios, scenario(tier.label, base.Mul(tier.multiplier).RoundBank(2)))
		}
	}
	if runRate.IsPositive() && !containsContribution(scenarios, runRate) {
		scenarios = append(scenarios, scenario(currentTierLabel, runRate))
	}

	sort.SliceStable(scenarios, func(i, j int) bool {
		return scenarios[i].MonthlyContribution.LessThan(scenarios[j].MonthlyContribution)
	})

	result := &domain.ContributionOptimizationResult{
		GoalID:               goal.ID,
		Scenarios:            scenarios,
		Recommended:          recommendScenario(scenarios, s.cfg.TargetProbability),
		RequiredContribution: required,
		TargetProbability:    s.cfg.TargetProbability,
	}

	s.logger.Debugf("Goal %s: %d contribution scenarios, recommending %s at %s",
		goal.ID, len(scenarios), result.Recommended.Label, result.Recommended.MonthlyContribution.StringFixed(2))
	return result, nil
}

// baseContribution picks the amount the tier ladder is built around: the
// analytic requirement, else the current run rate, else a straight-line split
// of what remains.
func baseContribution(required *decimal.Decimal, runRate, remaining, years decimal.Decimal) decimal.Decimal {
	if required != nil && required.IsPositive() {
		return *required
	}
	if runRate.IsPositive() {
		return runRate
	}
	months := years.Mul(decimal.NewFromInt(12))
	if remaining.IsPositive() && months.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return remaining.DivRound(months, 2)
	}
	return decimal.Zero
}

func containsContribution(scenarios []domain.ContributionScenario, monthly decimal.Decimal) bool {
	for _, sc := range scenarios {
		if sc.MonthlyContribution.Equal(monthly) {
			return true
		}
	}
	return false
}

// recommendScenario returns the cheapest scenario meeting target, or the most
// likely scenario when none does. scenarios must be sorted by contribution.
func recommendScenario(scenarios []domain.ContributionScenario, target decimal.Decimal) domain.ContributionScenario {
	if len(scenarios) == 0 {
		return domain.ContributionScenario{}
	}
	for _, sc := range scenarios {
		if sc.ProbabilityOfSuccess.GreaterThanOrEqual(target) {
			return sc
		}
	}
	best := scenarios[0]
	for _, sc := range scenarios[1:] {
		if sc.ProbabilityOfSuccess.GreaterThan(best.ProbabilityOfSuccess) {
			best = sc
		}
	}
	return best
}
