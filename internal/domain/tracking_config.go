package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrackingConfig holds the defaults the tracking service applies to every goal
type TrackingConfig struct {
	DefaultExpectedReturn   decimal.Decimal `yaml:"default_expected_return" json:"default_expected_return"`
	DefaultMarketVolatility decimal.Decimal `yaml:"default_market_volatility" json:"default_market_volatility"`
	DefaultInflationRate    decimal.Decimal `yaml:"default_inflation_rate" json:"default_inflation_rate"`
	UpdateInterval          time.Duration   `yaml:"-" json:"update_interval"`
	EnableAutomaticUpdates  bool            `yaml:"enable_automatic_updates" json:"enable_automatic_updates"`

	// Probability the contribution optimiser aims for
	TargetProbability decimal.Decimal `yaml:"target_probability" json:"target_probability"`

	// Monte Carlo settings used by goal reports; zero simulations disables them
	Simulations int    `yaml:"simulations" json:"simulations"`
	Seed        uint64 `yaml:"seed" json:"seed"`

	// ISO 4217 code used when amounts are displayed
	Currency string `yaml:"currency" json:"currency"`
}

// DefaultTrackingConfig returns the documented defaults
func DefaultTrackingConfig() TrackingConfig {
	return TrackingConfig{
		DefaultExpectedReturn:   decimal.NewFromFloat(0.12),
		DefaultMarketVolatility: decimal.NewFromFloat(0.15),
		DefaultInflationRate:    decimal.NewFromFloat(0.03),
		UpdateInterval:          time.Hour,
		EnableAutomaticUpdates:  false,
		TargetProbability:       decimal.NewFromFloat(0.80),
		Simulations:             500,
		Seed:                    42,
		Currency:                "INR",
	}
}
