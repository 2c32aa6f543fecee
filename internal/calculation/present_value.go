package calculation

import (
	"github.com/shopspring/decimal"
)

// AnnuityType distinguishes payments at period end from period start
type AnnuityType int

const (
	AnnuityOrdinary AnnuityType = iota // paid at the end of each period
	AnnuityDue                         // paid at the start of each period
)

func (a AnnuityType) String() string {
	if a == AnnuityDue {
		return "due"
	}
	return "ordinary"
}

// NPVResult holds the outcome of a discounted cash flow analysis
type NPVResult struct {
	NPV                decimal.Decimal  `json:"npv"`
	ProfitabilityIndex decimal.Decimal  `json:"profitabilityIndex"`
	PaybackPeriod      *decimal.Decimal `json:"paybackPeriod,omitempty"` // nil when never recovered
}

// AnnuityPresentValueResult holds the present value of a payment stream
type AnnuityPresentValueResult struct {
	PresentValue  decimal.Decimal `json:"presentValue"`
	TotalPayments decimal.Decimal `json:"totalPayments"`
}

// GoalPresentValueResult holds the amount needed today to fund a future goal
type GoalPresentValueResult struct {
	PresentValue   decimal.Decimal `json:"presentValue"`
	DiscountFactor decimal.Decimal `json:"discountFactor"`
}

// discountBase returns 1+rate, or 1 when the rate would make discounting undefined
func discountBase(rate decimal.Decimal) decimal.Decimal {
	base := one.Add(rate)
	if !base.IsPositive() {
		return one
	}
	return base
}

// CalculateNetPresentValue discounts cashFlows (received at the end of periods
// 1..n) and adds the signed initial investment, which is normally negative.
func CalculateNetPresentValue(initialInvestment decimal.Decimal, cashFlows []decimal.Decimal, discountRate decimal.Decimal) NPVResult {
	base := discountBase(discountRate)

	pvInflows := decimal.Zero
	factor := one
	for _, cf := range cashFlows {
		factor = factor.Mul(base).Round(internalPrecision)
		pvInflows = pvInflows.Add(div(cf, factor))
	}

	npv := roundCurrency(initialInvestment.Add(pvInflows))

	pi := decimal.Zero
	if !initialInvestment.IsZero() {
		pi = div(pvInflows, initialInvestment.Abs()).RoundBank(6)
	}

	return NPVResult{
		NPV:                npv,
		ProfitabilityIndex: pi,
		PaybackPeriod:      paybackPeriod(initialInvestment, cashFlows),
	}
}

// paybackPeriod finds when cumulative undiscounted cash flow recovers the
// initial outlay, interpolating within the recovering period.
func paybackPeriod(initialInvestment decimal.Decimal, cashFlows []decimal.Decimal) *decimal.Decimal {
	if !initialInvestment.IsNegative() {
		zero := decimal.Zero
		return &zero
	}

	cumulative := initialInvestment
	for i, cf := range cashFlows {
		previous := cumulative
		cumulative = cumulative.Add(cf)
		if cumulative.Sign() >= 0 && cf.IsPositive() {
			period := decimal.NewFromInt(int64(i)).Add(div(previous.Neg(), cf)).RoundBank(4)
			return &period
		}
	}
	return nil
}

// CalculateAnnuityPresentValue returns the present value of periods equal payments
func CalculateAnnuityPresentValue(payment, rate decimal.Decimal, periods int, annuityType AnnuityType) AnnuityPresentValueResult {
	if periods <= 0 {
		return AnnuityPresentValueResult{PresentValue: decimal.Zero, TotalPayments: decimal.Zero}
	}

	n := decimal.NewFromInt(int64(periods))
	total := payment.Mul(n)

	if rate.IsZero() || !one.Add(rate).IsPositive() {
		return AnnuityPresentValueResult{PresentValue: roundCurrency(total), TotalPayments: total}
	}

	base := one.Add(rate)
	ordinary := payment.Mul(div(one.Sub(powInt(base, -int64(periods))), rate))
	if annuityType == AnnuityDue {
		ordinary = ordinary.Mul(base)
	}

	return AnnuityPresentValueResult{PresentValue: roundCurrency(ordinary), TotalPayments: total}
}

// CalculateGoalPresentValue discounts a future goal amount back to today
func CalculateGoalPresentValue(futureValue, discountRate, years decimal.Decimal) GoalPresentValueResult {
	factor := pow(discountBase(discountRate), years.Neg())
	return GoalPresentValueResult{
		PresentValue:   roundCurrency(futureValue.Mul(factor)),
		DiscountFactor: roundRate(factor),
	}
}
