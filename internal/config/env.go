package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/shopspring/decimal"
)

// Environment variables that override the tracking block
const (
	EnvExpectedReturn        = "GOALPATH_EXPECTED_RETURN"
	EnvMarketVolatility      = "GOALPATH_MARKET_VOLATILITY"
	EnvInflationRate         = "GOALPATH_INFLATION_RATE"
	EnvUpdateIntervalSeconds = "GOALPATH_UPDATE_INTERVAL_SECONDS"
	EnvAutoUpdate            = "GOALPATH_AUTO_UPDATE"
	EnvCurrency              = "GOALPATH_CURRENCY"
)

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are ignored; variables already set are not overwritten.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

// ApplyEnvOverrides applies GOALPATH_* variables found through lookup to cfg
func ApplyEnvOverrides(cfg *domain.TrackingConfig, lookup func(string) (string, bool)) error {
	decimals := []struct {
		key    string
		target *decimal.Decimal
	}{
		{EnvExpectedReturn, &cfg.DefaultExpectedReturn},
		{EnvMarketVolatility, &cfg.DefaultMarketVolatility},
		{EnvInflationRate, &cfg.DefaultInflationRate},
	}
	for _, o := range decimals {
		raw, ok := lookupTrimmed(lookup, o.key)
		if !ok {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return invalid(o.key, "not a decimal: %q", raw)
		}
		*o.target = v
	}

	if raw, ok := lookupTrimmed(lookup, EnvUpdateIntervalSeconds); ok {
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || secs < 0 {
			return invalid(EnvUpdateIntervalSeconds, "not a non-negative integer: %q", raw)
		}
		cfg.UpdateInterval = time.Duration(secs) * time.Second
	}

	if raw, ok := lookupTrimmed(lookup, EnvAutoUpdate); ok {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return invalid(EnvAutoUpdate, "not a boolean: %q", raw)
		}
		cfg.EnableAutomaticUpdates = enabled
	}

	if raw, ok := lookupTrimmed(lookup, EnvCurrency); ok {
		cfg.Currency = strings.ToUpper(raw)
	}
	return nil
}

func lookupTrimmed(lookup func(string) (string, bool), key string) (string, bool) {
	raw, ok := lookup(key)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
