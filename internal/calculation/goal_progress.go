package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/shopspring/decimal"
)

// Thresholds used by the risk table and recommendation rules
var (
	onTrackProgress      = decimal.NewFromInt(95)
	onTrackProbability   = decimal.NewFromFloat(0.80)
	monitorProbability   = decimal.NewFromFloat(0.60)
	lowProbability       = decimal.NewFromFloat(0.50)
	highVolatility       = decimal.NewFromFloat(0.20)
	lowProgress          = decimal.NewFromInt(25)
	diversifyWindowYears = decimal.NewFromInt(3)
	shortRunwayYears     = decimal.NewFromFloat(0.5)
	maxSuggestedYears    = decimal.NewFromInt(200)
)

// runRateWindowMonths is the trailing window the contribution run rate is measured over
const runRateWindowMonths = 3

// riskTable is indexed by [progress bucket][time bucket]. Progress buckets are
// >=75, >=50, >=25 and below 25 percent; time buckets are >=2, >=1, >=0.5 and
// below 0.5 years remaining.
var riskTable = [4][4]domain.RiskLevel{
	{domain.RiskLow, domain.RiskLow, domain.RiskLow, domain.RiskModerate},
	{domain.RiskLow, domain.RiskModerate, domain.RiskModerate, domain.RiskHigh},
	{domain.RiskModerate, domain.RiskModerate, domain.RiskHigh, domain.RiskCritical},
	{domain.RiskModerate, domain.RiskHigh, domain.RiskCritical, domain.RiskCritical},
}

// GoalProgressCalculator produces progress analyses for goals
type GoalProgressCalculator struct {
	Now           func() time.Time
	InflationRate decimal.Decimal
	Logger        Logger
}

// NewGoalProgressCalculator creates a calculator using the wall clock and 3% inflation
func NewGoalProgressCalculator() *GoalProgressCalculator {
	return &GoalProgressCalculator{
		Now:           time.Now,
		InflationRate: decimal.NewFromFloat(0.03),
		Logger:        NopLogger{},
	}
}

// SetLogger sets the logger; nil installs a no-op logger
func (c *GoalProgressCalculator) SetLogger(l Logger) {
	if l == nil {
		c.Logger = NopLogger{}
		return
	}
	c.Logger = l
}

func (c *GoalProgressCalculator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *GoalProgressCalculator) logger() Logger {
	if c.Logger == nil {
		return NopLogger{}
	}
	return c.Logger
}

// CalculateGoalProgress analyses goal as of now. currentAmount is the goal's
// balance, which may differ from the sum of contributions by accrued returns.
// It never fails: degenerate inputs produce a well-formed analysis.
func (c *GoalProgressCalculator) CalculateGoalProgress(goal *domain.Goal, currentAmount decimal.Decimal, contributions []domain.Contribution, expectedReturn, volatility decimal.Decimal) *domain.GoalProgressAnalysis {
	if goal == nil {
		goal = &domain.Goal{}
	}
	asOf := c.now()

	current := c.currentProgress(goal, currentAmount, contributions, asOf)
	projected, scenarios := c.projectedProgress(current, expectedReturn, volatility)
	milestones := milestoneStatus(goal.Milestones, currentAmount, asOf)
	risk := assessRisk(goal, current, projected, milestones, len(contributions), volatility, asOf)
	recommendations := recommend(current, projected, milestones, expectedReturn, volatility, asOf)

	c.logger().Debugf("goal %s: progress %s%%, projected %s, probability %s, risk %s",
		goal.ID, current.ProgressPercentage.StringFixed(2), projected.ProjectedFinalAmount.StringFixed(2),
		projected.ProbabilityOfSuccess.String(), risk.OverallRiskLevel)

	return &domain.GoalProgressAnalysis{
		GoalID:            goal.ID,
		AsOf:              asOf,
		CurrentProgress:   current,
		ProjectedProgress: projected,
		MilestoneStatus:   milestones,
		RiskAssessment:    risk,
		Recommendations:   recommendations,
		Scenarios:         scenarios,
	}
}

// ProjectProbability projects the goal forward with the given monthly
// contribution and returns the nominal projected amount and success probability.
func (c *GoalProgressCalculator) ProjectProbability(goal *domain.Goal, currentAmount, monthly, expectedReturn, volatility decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if goal == nil {
		goal = &domain.Goal{}
	}
	years := decimal.Max(YearsBetween(c.now(), goal.Deadline), decimal.Zero)

	projection := CalculateInvestmentProjection(currentAmount, monthly, expectedReturn, years, c.InflationRate)
	if goal.TargetAmount.IsPositive() && currentAmount.GreaterThanOrEqual(goal.TargetAmount) {
		return projection.NominalValue, one
	}
	scenarios := CalculateScenarioAnalysis(currentAmount, monthly, goal.TargetAmount, years, expectedReturn, volatility)
	return projection.NominalValue, CollapseScenarios(scenarios)
}

func (c *GoalProgressCalculator) currentProgress(goal *domain.Goal, currentAmount decimal.Decimal, contributions []domain.Contribution, asOf time.Time) domain.CurrentProgress {
	total := domain.SumContributions(contributions)
	sorted := domain.SortContributions(contributions)

	return domain.CurrentProgress{
		CurrentAmount:              currentAmount,
		TargetAmount:               goal.TargetAmount,
		ProgressPercentage:         percentOf(currentAmount, goal.TargetAmount),
		TotalContributions:         total,
		TotalReturns:               currentAmount.Sub(total),
		RunRate:                    runRate(sorted, asOf),
		AverageMonthlyContribution: averageMonthly(sorted, total, asOf),
		TimeRemaining:              goal.Deadline.Sub(asOf),
		YearsRemaining:             YearsBetween(asOf, goal.Deadline),
	}
}

func (c *GoalProgressCalculator) projectedProgress(current domain.CurrentProgress, expectedReturn, volatility decimal.Decimal) (domain.ProjectedProgress, []domain.ScenarioProjection) {
	monthly := current.RunRate
	if !monthly.IsPositive() {
		monthly = current.AverageMonthlyContribution
	}
	monthly = decimal.Max(monthly, decimal.Zero)
	years := decimal.Max(current.YearsRemaining, decimal.Zero)

	projection := CalculateInvestmentProjection(current.CurrentAmount, monthly, expectedReturn, years, c.InflationRate)
	scenarios := CalculateScenarioAnalysis(current.CurrentAmount, monthly, current.TargetAmount, years, expectedReturn, volatility)

	probability := CollapseScenarios(scenarios)
	if current.TargetAmount.IsPositive() && current.IsAchieved() {
		probability = one
	}

	return domain.ProjectedProgress{
		ProjectedFinalAmount:       projection.NominalValue,
		ProjectedRealAmount:        projection.RealValue,
		ProjectedShortfall:         decimal.Max(current.TargetAmount.Sub(projection.NominalValue), decimal.Zero),
		ProbabilityOfSuccess:       probability,
		MonthlyContributionAssumed: monthly,
		ExpectedReturn:             expectedReturn,
	}, scenarios
}

// runRate is the monthly average of contributions in the trailing window
func runRate(sorted []domain.Contribution, asOf time.Time) decimal.Decimal {
	windowStart := asOf.AddDate(0, -runRateWindowMonths, 0)
	recent := decimal.Zero
	for i := len(sorted) - 1; i >= 0; i-- {
		c := sorted[i]
		if c.Date.After(asOf) {
			continue
		}
		if !c.Date.After(windowStart) {
			break
		}
		recent = recent.Add(c.Amount)
	}
	return roundCurrency(div(recent, decimal.NewFromInt(runRateWindowMonths)))
}

// averageMonthly spreads total over the months since the first contribution, at least one
func averageMonthly(sorted []domain.Contribution, total decimal.Decimal, asOf time.Time) decimal.Decimal {
	if len(sorted) == 0 {
		return decimal.Zero
	}
	months := YearsBetween(sorted[0].Date, asOf).Mul(twelve)
	months = decimal.Max(months, one)
	return roundCurrency(div(total, months))
}

// YearsBetween returns the signed span from one instant to another in years
func YearsBetween(from, to time.Time) decimal.Decimal {
	return yearsFromSeconds(to.Unix() - from.Unix())
}

func milestoneStatus(milestones []domain.Milestone, currentAmount decimal.Decimal, asOf time.Time) domain.MilestoneStatus {
	status := domain.MilestoneStatus{
		TotalMilestones: len(milestones),
		CompletionRate:  decimal.Zero,
	}
	if len(milestones) == 0 {
		return status
	}

	ordered := make([]domain.Milestone, len(milestones))
	copy(ordered, milestones)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].TargetDate.Equal(ordered[j].TargetDate) {
			return ordered[i].TargetDate.Before(ordered[j].TargetDate)
		}
		return ordered[i].TargetAmount.LessThan(ordered[j].TargetAmount)
	})

	for _, m := range ordered {
		if m.Achieved || currentAmount.GreaterThanOrEqual(m.TargetAmount) {
			status.MilestonesAchieved++
			continue
		}
		if status.NextMilestone == nil {
			status.NextMilestone = &domain.NextMilestone{
				Milestone:          m,
				ProgressPercentage: percentOf(currentAmount, m.TargetAmount),
				Overdue:            m.TargetDate.Before(asOf),
			}
		}
	}

	status.CompletionRate = percentOf(decimal.NewFromInt(int64(status.MilestonesAchieved)), decimal.NewFromInt(int64(status.TotalMilestones)))
	return status
}

func progressBucket(pct decimal.Decimal) int {
	switch {
	case pct.GreaterThanOrEqual(decimal.NewFromInt(75)):
		return 0
	case pct.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return 1
	case pct.GreaterThanOrEqual(lowProgress):
		return 2
	default:
		return 3
	}
}

func timeBucket(years decimal.Decimal) int {
	switch {
	case years.GreaterThanOrEqual(decimal.NewFromInt(2)):
		return 0
	case years.GreaterThanOrEqual(one):
		return 1
	case years.GreaterThanOrEqual(shortRunwayYears):
		return 2
	default:
		return 3
	}
}

// assessRisk rates the goal from riskTable. A goal that has reached its
// target is low risk even past its deadline; an unreached goal past its
// deadline is critical.
func assessRisk(goal *domain.Goal, current domain.CurrentProgress, projected domain.ProjectedProgress, milestones domain.MilestoneStatus, contributionCount int, volatility decimal.Decimal, asOf time.Time) domain.RiskAssessment {
	achieved := current.IsAchieved()
	pastDeadline := goal.IsPastDeadline(asOf)

	var level domain.RiskLevel
	switch {
	case achieved:
		level = domain.RiskLow
	case pastDeadline:
		level = domain.RiskCritical
	default:
		level = riskTable[progressBucket(current.ProgressPercentage)][timeBucket(current.YearsRemaining)]
	}

	factors := []string{}
	if !achieved {
		if pastDeadline {
			factors = append(factors, "Deadline has passed before reaching the target")
		} else if current.YearsRemaining.LessThan(shortRunwayYears) {
			factors = append(factors, "Less than six months remaining")
		}
	}
	if current.ProgressPercentage.LessThan(lowProgress) {
		factors = append(factors, fmt.Sprintf("Progress is only %s%% of target", current.ProgressPercentage.StringFixed(1)))
	}
	if projected.ProjectedShortfall.IsPositive() {
		factors = append(factors, fmt.Sprintf("Projected shortfall of %s", projected.ProjectedShortfall.StringFixed(2)))
	}
	if projected.ProbabilityOfSuccess.LessThan(lowProbability) {
		factors = append(factors, "Probability of success is below 50%")
	}
	if milestones.NextMilestone != nil && milestones.NextMilestone.Overdue {
		factors = append(factors, fmt.Sprintf("Milestone %q is overdue", milestones.NextMilestone.Milestone.Description))
	}
	if contributionCount == 0 {
		factors = append(factors, "No contributions recorded")
	}
	if volatility.Abs().GreaterThanOrEqual(highVolatility) {
		factors = append(factors, "High market volatility")
	}

	assessment := domain.RiskAssessment{
		OverallRiskLevel: level,
		RiskFactors:      factors,
	}
	if level.IsElevated() {
		assessment.MitigationStrategies = []string{
			"Increase monthly contributions to close the projected gap",
			"Extend the deadline or reduce the target amount",
			"Diversify into lower-volatility investments as the deadline approaches",
		}
		if milestones.NextMilestone != nil && milestones.NextMilestone.Overdue {
			assessment.MitigationStrategies = append(assessment.MitigationStrategies, "Make a catch-up contribution for the overdue milestone")
		}
	}
	return assessment
}

func recommend(current domain.CurrentProgress, projected domain.ProjectedProgress, milestones domain.MilestoneStatus, expectedReturn, volatility decimal.Decimal, asOf time.Time) domain.Recommendations {
	recs := domain.Recommendations{}
	p := projected.ProbabilityOfSuccess
	years := decimal.Max(current.YearsRemaining, decimal.Zero)

	switch {
	case current.ProgressPercentage.GreaterThanOrEqual(onTrackProgress) || p.GreaterThanOrEqual(onTrackProbability):
		recs = append(recs, domain.OnTrack{})
	case p.GreaterThanOrEqual(monitorProbability):
		recs = append(recs, domain.MonitorProgress{})
	case years.GreaterThanOrEqual(one):
		recs = append(recs, domain.IncreaseContributions{
			SuggestedMonthlyContribution: CalculateRequiredContribution(current.TargetAmount, current.CurrentAmount, expectedReturn, years, Monthly),
		})
	default:
		recs = append(recs, domain.AdjustTimeline{
			SuggestedDeadline: suggestedDeadline(current, projected.MonthlyContributionAssumed, expectedReturn, asOf),
		})
	}

	if volatility.Abs().GreaterThanOrEqual(highVolatility) && years.LessThan(diversifyWindowYears) && !current.IsAchieved() {
		recs = append(recs, domain.Diversify{
			Reason: fmt.Sprintf("volatility of %s%% with under three years remaining", volatility.Abs().Mul(hundred).StringFixed(0)),
		})
	}

	if next := milestones.NextMilestone; next != nil && next.Overdue {
		recs = append(recs, domain.CatchUpMilestone{
			MilestoneID: next.Milestone.ID,
			Shortfall:   decimal.Max(next.Milestone.TargetAmount.Sub(current.CurrentAmount), decimal.Zero),
		})
	}
	return recs
}

// suggestedDeadline is when the current plan would reach the target, or nil
// when that is unreachable or implausibly far away
func suggestedDeadline(current domain.CurrentProgress, monthly, expectedReturn decimal.Decimal, asOf time.Time) *time.Time {
	years := CalculateTimeToGoal(current.TargetAmount, current.CurrentAmount, monthly, expectedReturn)
	if years == nil || years.GreaterThan(maxSuggestedYears) {
		return nil
	}
	seconds := years.Mul(decimal.NewFromInt(secondsPerYear)).IntPart()
	deadline := asOf.Add(time.Duration(seconds) * time.Second)
	return &deadline
}
