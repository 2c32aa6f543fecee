package calculation

import (
	"github.com/shopspring/decimal"
)

// internalPrecision is the scale intermediate products are rounded to. It keeps
// repeated compounding from growing the mantissa without bound.
const internalPrecision int32 = 28

// maxIntegerExponent bounds the square-and-multiply path
const maxIntegerExponent = 1 << 20

const secondsPerYear = 31557600 // 365.25 days

var (
	one         = decimal.NewFromInt(1)
	twelve      = decimal.NewFromInt(12)
	hundred     = decimal.NewFromInt(100)
	returnFloor = decimal.NewFromFloat(-0.99)
)

// powInt raises base to an integer exponent
func powInt(base decimal.Decimal, exp int64) decimal.Decimal {
	if exp == 0 {
		return one
	}
	negative := exp < 0
	if negative {
		exp = -exp
	}

	result := one
	n := base
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(n).Round(internalPrecision)
		}
		exp >>= 1
		if exp > 0 {
			n = n.Mul(n).Round(internalPrecision)
		}
	}

	if negative {
		if result.IsZero() {
			return decimal.Zero
		}
		return one.DivRound(result, internalPrecision)
	}
	return result
}

// pow raises base to a possibly fractional exponent. Fractional powers of
// non-positive bases are undefined and return zero.
func pow(base, exp decimal.Decimal) decimal.Decimal {
	whole := exp.Truncate(0)
	if exp.Equal(whole) && whole.Abs().LessThan(decimal.NewFromInt(maxIntegerExponent)) {
		return powInt(base, whole.IntPart())
	}
	if !base.IsPositive() {
		return decimal.Zero
	}

	lnBase, err := base.Ln(internalPrecision)
	if err != nil {
		return decimal.Zero
	}
	if whole.Abs().GreaterThanOrEqual(decimal.NewFromInt(maxIntegerExponent)) {
		return expOf(lnBase.Mul(exp))
	}

	frac := exp.Sub(whole)
	return powInt(base, whole.IntPart()).Mul(expOf(lnBase.Mul(frac))).Round(internalPrecision)
}

// expOf returns e^x, or zero when the series cannot be evaluated
func expOf(x decimal.Decimal) decimal.Decimal {
	v, err := x.ExpTaylor(internalPrecision)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// lnOf returns ln(x) and whether it is defined
func lnOf(x decimal.Decimal) (decimal.Decimal, bool) {
	if !x.IsPositive() {
		return decimal.Zero, false
	}
	v, err := x.Ln(internalPrecision)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// div divides at internal precision; division by zero yields zero
func div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, internalPrecision)
}

// annuityFactor returns ((1+r)^n - 1) / r, or n when r is zero
func annuityFactor(rate, periods decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return periods
	}
	growth := pow(one.Add(rate), periods)
	return div(growth.Sub(one), rate)
}

// percentOf returns part/whole*100 at four places. A zero whole counts as
// complete when part is non-negative.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		if part.IsNegative() {
			return decimal.Zero
		}
		return hundred
	}
	return div(part.Mul(hundred), whole).RoundBank(4)
}

// yearsFromSeconds converts a span in seconds into fractional years
func yearsFromSeconds(seconds int64) decimal.Decimal {
	return decimal.NewFromInt(seconds).DivRound(decimal.NewFromInt(secondsPerYear), 6)
}

func roundCurrency(d decimal.Decimal) decimal.Decimal { return d.RoundBank(2) }

func roundRate(d decimal.Decimal) decimal.Decimal { return d.RoundBank(10) }

func floorReturn(rate decimal.Decimal) decimal.Decimal {
	return decimal.Max(rate, returnFloor)
}
