package calculation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CompoundingFrequency is how often interest is applied per year
type CompoundingFrequency int

const (
	Annually CompoundingFrequency = iota
	SemiAnnually
	Quarterly
	Monthly
	Weekly
	Daily
	Continuous
)

// PeriodsPerYear returns the number of compounding periods per year (0 for continuous)
func (f CompoundingFrequency) PeriodsPerYear() int64 {
	switch f {
	case SemiAnnually:
		return 2
	case Quarterly:
		return 4
	case Monthly:
		return 12
	case Weekly:
		return 52
	case Daily:
		return 365
	case Continuous:
		return 0
	default:
		return 1
	}
}

func (f CompoundingFrequency) String() string {
	switch f {
	case Annually:
		return "annually"
	case SemiAnnually:
		return "semi-annually"
	case Quarterly:
		return "quarterly"
	case Monthly:
		return "monthly"
	case Weekly:
		return "weekly"
	case Daily:
		return "daily"
	case Continuous:
		return "continuous"
	default:
		return fmt.Sprintf("CompoundingFrequency(%d)", int(f))
	}
}

// ParseCompoundingFrequency converts a name such as "monthly" into a frequency
func ParseCompoundingFrequency(s string) (CompoundingFrequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "annually", "annual", "yearly":
		return Annually, nil
	case "semi-annually", "semiannually", "semi-annual":
		return SemiAnnually, nil
	case "quarterly":
		return Quarterly, nil
	case "monthly":
		return Monthly, nil
	case "weekly":
		return Weekly, nil
	case "daily":
		return Daily, nil
	case "continuous", "continuously":
		return Continuous, nil
	default:
		return Annually, fmt.Errorf("unknown compounding frequency: %s", s)
	}
}

// CompoundInterestResult holds the outcome of compounding a principal
type CompoundInterestResult struct {
	FinalAmount         decimal.Decimal `json:"finalAmount"`
	TotalInterest       decimal.Decimal `json:"totalInterest"`
	EffectiveAnnualRate decimal.Decimal `json:"effectiveAnnualRate"`
}

// growthFactor returns the multiplier applied to a principal over years
func growthFactor(annualRate, years decimal.Decimal, frequency CompoundingFrequency) decimal.Decimal {
	if !years.IsPositive() {
		return one
	}
	if frequency == Continuous {
		return expOf(annualRate.Mul(years))
	}

	n := decimal.NewFromInt(frequency.PeriodsPerYear())
	base := one.Add(div(annualRate, n))
	if !base.IsPositive() {
		return decimal.Zero
	}
	return pow(base, n.Mul(years))
}

// effectiveAnnualRate returns the annual yield implied by a nominal rate
func effectiveAnnualRate(annualRate decimal.Decimal, frequency CompoundingFrequency) decimal.Decimal {
	if frequency == Continuous {
		return roundRate(expOf(annualRate).Sub(one))
	}
	n := decimal.NewFromInt(frequency.PeriodsPerYear())
	base := one.Add(div(annualRate, n))
	if !base.IsPositive() {
		return one.Neg()
	}
	return roundRate(powInt(base, frequency.PeriodsPerYear()).Sub(one))
}

// CalculateCompoundInterest grows principal at annualRate for years.
// Zero principal, zero rate and non-positive years all return identity results.
func CalculateCompoundInterest(principal, annualRate, years decimal.Decimal, frequency CompoundingFrequency) CompoundInterestResult {
	ear := effectiveAnnualRate(annualRate, frequency)
	if principal.IsZero() {
		return CompoundInterestResult{FinalAmount: decimal.Zero, TotalInterest: decimal.Zero, EffectiveAnnualRate: ear}
	}

	final := roundCurrency(principal.Mul(growthFactor(annualRate, years, frequency)))
	return CompoundInterestResult{
		FinalAmount:         final,
		TotalInterest:       final.Sub(principal),
		EffectiveAnnualRate: ear,
	}
}

// CalculateRequiredContribution solves for the level monthly contribution that,
// together with currentAmount grown to maturity, reaches targetAmount.
// The current amount compounds at frequency; contributions form an ordinary
// monthly annuity at annualRate/12. Returns nil when there are no periods to
// contribute over or the annuity factor is not positive.
func CalculateRequiredContribution(targetAmount, currentAmount, annualRate, years decimal.Decimal, frequency CompoundingFrequency) *decimal.Decimal {
	months := years.Mul(twelve)
	if !months.IsPositive() {
		return nil
	}

	grownCurrent := currentAmount.Mul(growthFactor(annualRate, years, frequency))
	remaining := targetAmount.Sub(grownCurrent)
	if !remaining.IsPositive() {
		zero := decimal.Zero
		return &zero
	}

	monthlyRate := div(annualRate, twelve)
	if !one.Add(monthlyRate).IsPositive() {
		return nil
	}
	factor := annuityFactor(monthlyRate, months)
	if !factor.IsPositive() {
		return nil
	}

	payment := roundCurrency(div(remaining, factor))
	return &payment
}

// CalculateTimeToGoal solves for the number of years a fixed monthly
// contribution needs to grow currentAmount into targetAmount. It returns zero
// when the target is already met and nil when the target is unreachable.
func CalculateTimeToGoal(targetAmount, currentAmount, monthlyContribution, annualRate decimal.Decimal) *decimal.Decimal {
	if currentAmount.GreaterThanOrEqual(targetAmount) {
		zero := decimal.Zero
		return &zero
	}

	monthlyRate := div(annualRate, twelve)
	if monthlyRate.IsZero() {
		if !monthlyContribution.IsPositive() {
			return nil
		}
		months := div(targetAmount.Sub(currentAmount), monthlyContribution)
		years := div(months, twelve).RoundBank(6)
		return &years
	}

	growth := one.Add(monthlyRate)
	if !growth.IsPositive() {
		return nil
	}

	// (1+r)^n * (C + P/r) = T + P/r; with r < 0 both sides may be negative
	// and the balance converges on -P/r, so the sign of n decides reachability
	k := div(monthlyContribution, monthlyRate)
	ratio := div(targetAmount.Add(k), currentAmount.Add(k))
	lnRatio, ok := lnOf(ratio)
	if !ok {
		return nil
	}
	lnGrowth, ok := lnOf(growth)
	if !ok || lnGrowth.IsZero() {
		return nil
	}

	months := div(lnRatio, lnGrowth)
	if !months.IsPositive() {
		return nil
	}
	years := div(months, twelve).RoundBank(6)
	return &years
}
