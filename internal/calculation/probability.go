package calculation

import (
	"math"

	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/distuv"
)

// minSpread keeps the probability curve from collapsing into a step function
// for short horizons or zero volatility.
const minSpread = 0.05

// scenarioWeights are the tier weights used to collapse a scenario set into
// one probability, optimistic to pessimistic.
var scenarioWeights = []float64{0.1, 0.2, 0.4, 0.2, 0.1}

// SuccessProbability maps a projected value to the likelihood of reaching
// target. The shortfall or surplus relative to target is scaled by the
// return dispersion over the horizon and passed through the standard normal
// CDF, so the result rises monotonically with the projected value.
func SuccessProbability(projected, target, volatility, years decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		if projected.GreaterThanOrEqual(target) {
			return one
		}
		return decimal.Zero
	}

	ratio, _ := div(projected, target).Sub(one).Float64()
	vol, _ := volatility.Abs().Float64()
	y, _ := decimal.Max(years, decimal.Zero).Float64()

	spread := math.Max(vol*math.Sqrt(y), minSpread)
	p := distuv.UnitNormal.CDF(ratio / spread)
	return clampProbability(decimal.NewFromFloat(p))
}

// CollapseScenarios weights each tier's probability into a single figure
func CollapseScenarios(scenarios []domain.ScenarioProjection) decimal.Decimal {
	if len(scenarios) == 0 {
		return decimal.Zero
	}

	total := 0.0
	weightSum := 0.0
	for i, s := range scenarios {
		w := 1.0 / float64(len(scenarios))
		if len(scenarios) == len(scenarioWeights) {
			w = scenarioWeights[i]
		}
		p, _ := s.ProbabilityOfSuccess.Float64()
		total += w * p
		weightSum += w
	}
	return clampProbability(decimal.NewFromFloat(total / weightSum))
}

func clampProbability(p decimal.Decimal) decimal.Decimal {
	p = p.RoundBank(4)
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(one) {
		return one
	}
	return p
}
