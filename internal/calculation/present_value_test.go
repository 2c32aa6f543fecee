package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateNetPresentValue_InvestmentExample(t *testing.T) {
	cashFlows := []decimal.Decimal{d("200000"), d("300000"), d("400000"), d("500000")}
	result := CalculateNetPresentValue(d("-1000000"), cashFlows, d("0.10"))

	assert.True(t, result.NPV.IsPositive(), "npv %s", result.NPV)
	assertNear(t, d("71784.71"), result.NPV, "0.01")
	assert.True(t, result.ProfitabilityIndex.GreaterThan(d("1")), "pi %s", result.ProfitabilityIndex)
	assertNear(t, d("1.071785"), result.ProfitabilityIndex, "0.000001")

	require.NotNil(t, result.PaybackPeriod)
	assert.True(t, result.PaybackPeriod.LessThan(d("4")))
	assert.True(t, result.PaybackPeriod.Equal(d("3.2")), "payback %s", result.PaybackPeriod)
}

func TestCalculateNetPresentValue_EdgeCases(t *testing.T) {
	t.Run("never recovered", func(t *testing.T) {
		result := CalculateNetPresentValue(d("-1000"), []decimal.Decimal{d("100"), d("100")}, d("0.05"))
		assert.Nil(t, result.PaybackPeriod)
		assert.True(t, result.NPV.IsNegative())
	})

	t.Run("no outlay", func(t *testing.T) {
		result := CalculateNetPresentValue(d("0"), []decimal.Decimal{d("100")}, d("0.05"))
		assert.True(t, result.ProfitabilityIndex.IsZero())
		require.NotNil(t, result.PaybackPeriod)
		assert.True(t, result.PaybackPeriod.IsZero())
	})

	t.Run("no cash flows", func(t *testing.T) {
		result := CalculateNetPresentValue(d("-500"), nil, d("0.05"))
		assert.True(t, result.NPV.Equal(d("-500")))
		assert.Nil(t, result.PaybackPeriod)
	})

	t.Run("rate at minus one hundred percent is undiscounted", func(t *testing.T) {
		result := CalculateNetPresentValue(d("-100"), []decimal.Decimal{d("60"), d("60")}, d("-1"))
		assert.True(t, result.NPV.Equal(d("20")), "npv %s", result.NPV)
	})
}

func TestCalculateAnnuityPresentValue(t *testing.T) {
	ordinary := CalculateAnnuityPresentValue(d("1000"), d("0.05"), 10, AnnuityOrdinary)
	due := CalculateAnnuityPresentValue(d("1000"), d("0.05"), 10, AnnuityDue)

	assertNear(t, d("7721.73"), ordinary.PresentValue, "0.01")
	assertNear(t, d("8107.82"), due.PresentValue, "0.01")
	assert.True(t, ordinary.TotalPayments.Equal(d("10000")))

	ratio := due.PresentValue.Div(ordinary.PresentValue)
	assertNear(t, d("1.05"), ratio, "0.01")
}

func TestCalculateAnnuityPresentValue_Degenerate(t *testing.T) {
	zeroRate := CalculateAnnuityPresentValue(d("250"), d("0"), 12, AnnuityDue)
	assert.True(t, zeroRate.PresentValue.Equal(d("3000")))

	noPeriods := CalculateAnnuityPresentValue(d("250"), d("0.05"), 0, AnnuityOrdinary)
	assert.True(t, noPeriods.PresentValue.IsZero())
	assert.True(t, noPeriods.TotalPayments.IsZero())
}

func TestCalculateGoalPresentValue(t *testing.T) {
	result := CalculateGoalPresentValue(d("176234.17"), d("0.12"), d("5"))
	assertNear(t, d("100000"), result.PresentValue, "0.01")
	assertNear(t, d("0.5674268557"), result.DiscountFactor, "0.0000000001")

	undiscounted := CalculateGoalPresentValue(d("1000"), d("-1.5"), d("3"))
	assert.True(t, undiscounted.PresentValue.Equal(d("1000")))
	assert.True(t, undiscounted.DiscountFactor.Equal(d("1")))

	now := CalculateGoalPresentValue(d("1000"), d("0.08"), d("0"))
	assert.True(t, now.PresentValue.Equal(d("1000")))
}

func TestAnnuityTypeString(t *testing.T) {
	assert.Equal(t, "ordinary", AnnuityOrdinary.String())
	assert.Equal(t, "due", AnnuityDue.String())
}
