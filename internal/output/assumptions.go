package output

import (
	"fmt"

	"github.com/rgehrsitz/goalpath/internal/domain"
)

// DescribeAssumptions lists the tracking defaults rendered in detailed outputs
func DescribeAssumptions(cfg domain.TrackingConfig) []string {
	assumptions := []string{
		fmt.Sprintf("Expected annual return: %s (per-goal overrides apply)", FormatRate(cfg.DefaultExpectedReturn)),
		fmt.Sprintf("Market volatility: %s annual standard deviation", FormatRate(cfg.DefaultMarketVolatility)),
		fmt.Sprintf("Inflation: %s annually", FormatRate(cfg.DefaultInflationRate)),
		fmt.Sprintf("Contribution optimiser target probability: %s", FormatRate(cfg.TargetProbability)),
	}
	if cfg.Simulations > 0 {
		assumptions = append(assumptions, fmt.Sprintf("Monte Carlo: %d paths, seed %d", cfg.Simulations, cfg.Seed))
	}
	return assumptions
}
