package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// SimulationParams configures a Monte Carlo run for a single goal
type SimulationParams struct {
	Current        decimal.Decimal
	Monthly        decimal.Decimal
	Target         decimal.Decimal
	Years          decimal.Decimal
	ExpectedReturn decimal.Decimal
	Volatility     decimal.Decimal
	Simulations    int
	Seed           uint64
}

// reportedPercentiles are the outcome percentiles included in every summary
var reportedPercentiles = []struct {
	label string
	p     float64
}{
	{"10th", 0.10},
	{"25th", 0.25},
	{"50th", 0.50},
	{"75th", 0.75},
	{"90th", 0.90},
}

// cancelCheckInterval is how many paths run between context checks
const cancelCheckInterval = 64

// SimulateGoalOutcomes draws a yearly return from N(expected, volatility) for
// every year of the horizon, compounds it monthly alongside the contribution,
// and summarises the final balances. The same seed always yields the same summary.
func SimulateGoalOutcomes(ctx context.Context, params SimulationParams) (*domain.SimulationSummary, error) {
	if params.Simulations <= 0 {
		return nil, fmt.Errorf("simulations must be positive, got %d", params.Simulations)
	}

	current, _ := params.Current.Float64()
	monthly, _ := params.Monthly.Float64()
	target, _ := params.Target.Float64()
	expected, _ := params.ExpectedReturn.Float64()
	vol, _ := params.Volatility.Abs().Float64()
	years, _ := decimal.Max(params.Years, decimal.Zero).Float64()
	floor, _ := returnFloor.Float64()

	months := int(math.Round(years * 12))
	rng := rand.New(rand.NewPCG(params.Seed, params.Seed^0x9e3779b97f4a7c15))

	outcomes := make([]float64, params.Simulations)
	successes := 0
	for i := range outcomes {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("simulation cancelled after %d paths: %w", i, err)
			}
		}

		balance := current
		monthlyRate := 0.0
		for m := 0; m < months; m++ {
			if m%12 == 0 {
				annual := math.Max(expected+vol*rng.NormFloat64(), floor)
				monthlyRate = annual / 12
			}
			balance = balance*(1+monthlyRate) + monthly
		}

		outcomes[i] = balance
		if balance >= target {
			successes++
		}
	}

	sort.Float64s(outcomes)

	percentiles := make(map[string]decimal.Decimal, len(reportedPercentiles))
	for _, rp := range reportedPercentiles {
		percentiles[rp.label] = roundCurrency(decimal.NewFromFloat(stat.Quantile(rp.p, stat.Empirical, outcomes, nil)))
	}

	return &domain.SimulationSummary{
		Simulations: params.Simulations,
		SuccessRate: decimal.NewFromInt(int64(successes)).DivRound(decimal.NewFromInt(int64(params.Simulations)), 4),
		Mean:        roundCurrency(decimal.NewFromFloat(stat.Mean(outcomes, nil))),
		Percentiles: percentiles,
	}, nil
}
