package calculation

import (
	"sort"

	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/shopspring/decimal"
)

// FutureValueResult holds the growth of a single sum
type FutureValueResult struct {
	FutureValue      decimal.Decimal `json:"futureValue"`
	TotalGrowth      decimal.Decimal `json:"totalGrowth"`
	AnnualizedReturn decimal.Decimal `json:"annualizedReturn"`
}

// AnnuityFutureValueResult holds the accumulated value of level payments
type AnnuityFutureValueResult struct {
	FutureValue        decimal.Decimal `json:"futureValue"`
	TotalContributions decimal.Decimal `json:"totalContributions"`
	TotalInterest      decimal.Decimal `json:"totalInterest"`
}

// InvestmentProjection combines a lump sum with monthly contributions
type InvestmentProjection struct {
	NominalValue       decimal.Decimal `json:"nominalValue"`
	RealValue          decimal.Decimal `json:"realValue"`
	TotalContributions decimal.Decimal `json:"totalContributions"`
	InvestmentGains    decimal.Decimal `json:"investmentGains"`
}

// GrowingContributionProjection compares a rising contribution schedule with a flat one
type GrowingContributionProjection struct {
	FinalValue         decimal.Decimal `json:"finalValue"`
	TotalContributions decimal.Decimal `json:"totalContributions"`
	GrowthBenefit      decimal.Decimal `json:"growthBenefit"`
	FlatFinalValue     decimal.Decimal `json:"flatFinalValue"`
}

// scenarioOffsets are the volatility multiples applied to the expected return
// for each tier, best to worst
var scenarioOffsets = []decimal.Decimal{
	decimal.NewFromInt(1),
	decimal.NewFromFloat(0.5),
	decimal.Zero,
	decimal.NewFromFloat(-0.5),
	decimal.NewFromInt(-1),
}

// CalculateFutureValue grows presentValue at rate for periods
func CalculateFutureValue(presentValue, rate, periods decimal.Decimal) FutureValueResult {
	base := one.Add(rate)
	growth := one
	if periods.IsPositive() {
		growth = pow(base, periods)
	}
	fv := roundCurrency(presentValue.Mul(growth))

	annualized := rate
	if periods.IsPositive() && growth.IsPositive() {
		annualized = pow(growth, div(one, periods)).Sub(one).RoundBank(8)
	}

	return FutureValueResult{
		FutureValue:      fv,
		TotalGrowth:      fv.Sub(presentValue),
		AnnualizedReturn: annualized,
	}
}

// CalculateAnnuityFutureValue accumulates periods end-of-period payments at rate
func CalculateAnnuityFutureValue(payment, rate decimal.Decimal, periods int) AnnuityFutureValueResult {
	if periods <= 0 {
		return AnnuityFutureValueResult{FutureValue: decimal.Zero, TotalContributions: decimal.Zero, TotalInterest: decimal.Zero}
	}

	n := decimal.NewFromInt(int64(periods))
	total := payment.Mul(n)
	fv := roundCurrency(payment.Mul(annuityFactor(rate, n)))

	return AnnuityFutureValueResult{
		FutureValue:        fv,
		TotalContributions: total,
		TotalInterest:      fv.Sub(total),
	}
}

// CalculateInvestmentProjection projects initialAmount plus monthly
// contributions over years at annualReturn/12 per month, and deflates the
// result by inflationRate. Fractional years are allowed.
func CalculateInvestmentProjection(initialAmount, monthlyContribution, annualReturn, years, inflationRate decimal.Decimal) InvestmentProjection {
	if !years.IsPositive() {
		return InvestmentProjection{
			NominalValue:       initialAmount,
			RealValue:          initialAmount,
			TotalContributions: initialAmount,
			InvestmentGains:    decimal.Zero,
		}
	}

	months := years.Mul(twelve)
	monthlyRate := div(annualReturn, twelve)
	base := one.Add(monthlyRate)

	var nominal decimal.Decimal
	if base.IsPositive() {
		nominal = initialAmount.Mul(pow(base, months)).Add(monthlyContribution.Mul(annuityFactor(monthlyRate, months)))
	} else {
		nominal = decimal.Zero
	}
	nominal = roundCurrency(nominal)

	real := nominal
	if inflationBase := one.Add(inflationRate); inflationBase.IsPositive() {
		real = roundCurrency(div(nominal, pow(inflationBase, years)))
	}

	contributions := initialAmount.Add(monthlyContribution.Mul(months))
	return InvestmentProjection{
		NominalValue:       nominal,
		RealValue:          real,
		TotalContributions: roundCurrency(contributions),
		InvestmentGains:    nominal.Sub(roundCurrency(contributions)),
	}
}

// CalculateGrowingContributionProjection accumulates a monthly contribution
// that rises by contributionGrowthRate each year, month by month, and
// reports the benefit over keeping the first year's contribution flat.
func CalculateGrowingContributionProjection(initialContribution, contributionGrowthRate, investmentReturn decimal.Decimal, years int) GrowingContributionProjection {
	if years <= 0 {
		return GrowingContributionProjection{FinalValue: decimal.Zero, TotalContributions: decimal.Zero, GrowthBenefit: decimal.Zero, FlatFinalValue: decimal.Zero}
	}

	monthlyGrowth := one.Add(div(investmentReturn, twelve))
	contributionStep := one.Add(contributionGrowthRate)

	balance := decimal.Zero
	flat := decimal.Zero
	total := decimal.Zero
	contribution := initialContribution

	for year := 0; year < years; year++ {
		if year > 0 {
			contribution = contribution.Mul(contributionStep).Round(internalPrecision)
		}
		for month := 0; month < 12; month++ {
			balance = balance.Mul(monthlyGrowth).Add(contribution).Round(internalPrecision)
			flat = flat.Mul(monthlyGrowth).Add(initialContribution).Round(internalPrecision)
			total = total.Add(contribution)
		}
	}

	final := roundCurrency(balance)
	flatFinal := roundCurrency(flat)
	return GrowingContributionProjection{
		FinalValue:         final,
		TotalContributions: roundCurrency(total),
		GrowthBenefit:      final.Sub(flatFinal),
		FlatFinalValue:     flatFinal,
	}
}

// CalculateScenarioAnalysis projects the goal under five return assumptions
// spread around expectedReturn by volatility. The result is ordered
// optimistic to pessimistic and never increases in projected value.
func CalculateScenarioAnalysis(currentAmount, monthlyContribution, targetAmount, timeHorizon, expectedReturn, volatility decimal.Decimal) []domain.ScenarioProjection {
	vol := volatility.Abs()

	projections := make([]domain.ScenarioProjection, 0, len(scenarioOffsets))
	for _, k := range scenarioOffsets {
		rate := floorReturn(expectedReturn.Add(k.Mul(vol)))
		p := CalculateInvestmentProjection(currentAmount, monthlyContribution, rate, timeHorizon, decimal.Zero)
		projections = append(projections, domain.ScenarioProjection{
			AssumedReturn:  rate,
			ProjectedValue: p.NominalValue,
		})
	}

	// A negative balance can invert the rate ordering, so rank by outcome
	sort.SliceStable(projections, func(i, j int) bool {
		return projections[i].ProjectedValue.GreaterThan(projections[j].ProjectedValue)
	})

	for i := range projections {
		projections[i].Tier = domain.ScenarioTiers[i]
		projections[i].ProbabilityOfSuccess = SuccessProbability(projections[i].ProjectedValue, targetAmount, vol, timeHorizon)
	}
	return projections
}
