package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// GoalsFile is the on-disk layout of a goals file
type GoalsFile struct {
	Tracking TrackingSection `yaml:"tracking"`
	Goals    []GoalEntry     `yaml:"goals"`
}

// TrackingSection overrides tracking defaults; absent keys keep the default
type TrackingSection struct {
	DefaultExpectedReturn   *decimal.Decimal `yaml:"default_expected_return,omitempty"`
	DefaultMarketVolatility *decimal.Decimal `yaml:"default_market_volatility,omitempty"`
	DefaultInflationRate    *decimal.Decimal `yaml:"default_inflation_rate,omitempty"`
	UpdateIntervalSeconds   *int64           `yaml:"update_interval_seconds,omitempty"`
	EnableAutomaticUpdates  *bool            `yaml:"enable_automatic_updates,omitempty"`
	TargetProbability       *decimal.Decimal `yaml:"target_probability,omitempty"`
	Simulations             *int             `yaml:"simulations,omitempty"`
	Seed                    *uint64          `yaml:"seed,omitempty"`
	Currency                *string          `yaml:"currency,omitempty"`
}

// GoalEntry is a goal plus the balance reported for it
type GoalEntry struct {
	domain.Goal   `yaml:",inline"`
	CurrentAmount *decimal.Decimal `yaml:"current_amount,omitempty"`
}

// Settings is a validated goals file resolved against defaults and environment
type Settings struct {
	Tracking domain.TrackingConfig
	Goals    []*domain.Goal
	// Balances holds reported balances by goal ID; goals without one are valued
	// at their contribution total
	Balances map[string]decimal.Decimal
}

// ValidationError describes a single invalid field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InputParser loads goals files
type InputParser struct {
	// LookupEnv resolves environment overrides; nil disables them
	LookupEnv func(string) (string, bool)
}

// NewInputParser creates a parser that reads overrides from the process environment
func NewInputParser() *InputParser {
	return &InputParser{LookupEnv: os.LookupEnv}
}

// LoadFromFile loads, resolves and validates a goals file
func (ip *InputParser) LoadFromFile(filename string) (*Settings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse resolves and validates goals file contents
func (ip *InputParser) Parse(data []byte) (*Settings, error) {
	var file GoalsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	tracking := file.Tracking.resolve(domain.DefaultTrackingConfig())
	if ip.LookupEnv != nil {
		if err := ApplyEnvOverrides(&tracking, ip.LookupEnv); err != nil {
			return nil, fmt.Errorf("environment override failed: %w", err)
		}
	}

	settings := &Settings{
		Tracking: tracking,
		Balances: make(map[string]decimal.Decimal),
	}
	for i := range file.Goals {
		entry := file.Goals[i]
		goal := entry.Goal.DeepCopy()
		// missing IDs are derived from position so repeated loads agree
		if goal.ID == "" {
			goal.ID = domain.DerivedID(fmt.Sprintf("goal/%d/%s", i, goal.Title))
		}
		for j := range goal.Contributions {
			if goal.Contributions[j].ID == "" {
				goal.Contributions[j].ID = domain.DerivedID(fmt.Sprintf("%s/contribution/%d", goal.ID, j))
			}
		}
		for j := range goal.Milestones {
			if goal.Milestones[j].ID == "" {
				goal.Milestones[j].ID = domain.DerivedID(fmt.Sprintf("%s/milestone/%d", goal.ID, j))
			}
		}
		if entry.CurrentAmount != nil {
			settings.Balances[goal.ID] = *entry.CurrentAmount
		}
		settings.Goals = append(settings.Goals, goal)
	}

	if err := ip.ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

// resolve layers the section over defaults
func (t TrackingSection) resolve(cfg domain.TrackingConfig) domain.TrackingConfig {
	if t.DefaultExpectedReturn != nil {
		cfg.DefaultExpectedReturn = *t.DefaultExpectedReturn
	}
	if t.DefaultMarketVolatility != nil {
		cfg.DefaultMarketVolatility = *t.DefaultMarketVolatility
	}
	if t.DefaultInflationRate != nil {
		cfg.DefaultInflationRate = *t.DefaultInflationRate
	}
	if t.UpdateIntervalSeconds != nil {
		cfg.UpdateInterval = time.Duration(*t.UpdateIntervalSeconds) * time.Second
	}
	if t.EnableAutomaticUpdates != nil {
		cfg.EnableAutomaticUpdates = *t.EnableAutomaticUpdates
	}
	if t.TargetProbability != nil {
		cfg.TargetProbability = *t.TargetProbability
	}
	if t.Simulations != nil {
		cfg.Simulations = *t.Simulations
	}
	if t.Seed != nil {
		cfg.Seed = *t.Seed
	}
	if t.Currency != nil {
		cfg.Currency = strings.ToUpper(strings.TrimSpace(*t.Currency))
	}
	return cfg
}

// ValidateSettings validates the tracking block and every goal
func (ip *InputParser) ValidateSettings(settings *Settings) error {
	if err := ValidateTrackingConfig(settings.Tracking); err != nil {
		return fmt.Errorf("tracking validation failed: %w", err)
	}

	seen := make(map[string]int, len(settings.Goals))
	for i, goal := range settings.Goals {
		if prev, dup := seen[goal.ID]; dup {
			return fmt.Errorf("goal %d (%s) validation failed: %w", i, goal.Title,
				invalid("id", "duplicates goal %d", prev))
		}
		seen[goal.ID] = i

		if err := ip.validateGoal(goal); err != nil {
			return fmt.Errorf("goal %d (%s) validation failed: %w", i, goal.Title, err)
		}
	}
	return nil
}

var minusOne = decimal.NewFromInt(-1)

// ValidateTrackingConfig checks the tracking defaults are usable
func ValidateTrackingConfig(cfg domain.TrackingConfig) error {
	if cfg.DefaultExpectedReturn.LessThanOrEqual(minusOne) {
		return invalid("default_expected_return", "must be greater than -1, got %s", cfg.DefaultExpectedReturn)
	}
	if cfg.DefaultMarketVolatility.IsNegative() {
		return invalid("default_market_volatility", "cannot be negative")
	}
	if cfg.DefaultInflationRate.LessThanOrEqual(minusOne) {
		return invalid("default_inflation_rate", "must be greater than -1, got %s", cfg.DefaultInflationRate)
	}
	if cfg.EnableAutomaticUpdates && cfg.UpdateInterval < time.Second {
		return invalid("update_interval_seconds", "must be at least 1 when automatic updates are enabled")
	}
	if !cfg.TargetProbability.IsPositive() || cfg.TargetProbability.GreaterThan(decimal.NewFromInt(1)) {
		return invalid("target_probability", "must be in (0, 1], got %s", cfg.TargetProbability)
	}
	if cfg.Simulations < 0 {
		return invalid("simulations", "cannot be negative")
	}
	if money.GetCurrency(cfg.Currency) == nil {
		return invalid("currency", "unknown ISO 4217 code %q", cfg.Currency)
	}
	return nil
}

// validateGoal validates a single goal
func (ip *InputParser) validateGoal(goal *domain.Goal) error {
	if strings.TrimSpace(goal.Title) == "" {
		return invalid("title", "is required")
	}
	if goal.TargetAmount.IsNegative() {
		return invalid("target_amount", "cannot be negative")
	}
	if goal.Deadline.IsZero() {
		return invalid("deadline", "is required")
	}
	if goal.ExpectedReturn != nil && goal.ExpectedReturn.LessThanOrEqual(minusOne) {
		return invalid("expected_return", "must be greater than -1")
	}
	if goal.Volatility != nil && goal.Volatility.IsNegative() {
		return invalid("volatility", "cannot be negative")
	}

	for i, c := range goal.Contributions {
		if c.Date.IsZero() {
			return fmt.Errorf("contribution %d validation failed: %w", i, invalid("date", "is required"))
		}
	}
	for i, m := range goal.Milestones {
		if strings.TrimSpace(m.Description) == "" {
			return fmt.Errorf("milestone %d validation failed: %w", i, invalid("description", "is required"))
		}
		if !m.TargetAmount.IsPositive() {
			return fmt.Errorf("milestone %d (%s) validation failed: %w", i, m.Description, invalid("target_amount", "must be positive"))
		}
	}
	return nil
}

// MarshalGoalsFile renders settings back into goals file form
func MarshalGoalsFile(settings *Settings) ([]byte, error) {
	cfg := settings.Tracking
	interval := int64(cfg.UpdateInterval / time.Second)
	file := GoalsFile{
		Tracking: TrackingSection{
			DefaultExpectedReturn:   &cfg.DefaultExpectedReturn,
			DefaultMarketVolatility: &cfg.DefaultMarketVolatility,
			DefaultInflationRate:    &cfg.DefaultInflationRate,
			UpdateIntervalSeconds:   &interval,
			EnableAutomaticUpdates:  &cfg.EnableAutomaticUpdates,
			TargetProbability:       &cfg.TargetProbability,
			Simulations:             &cfg.Simulations,
			Seed:                    &cfg.Seed,
			Currency:                &cfg.Currency,
		},
	}
	for _, goal := range settings.Goals {
		entry := GoalEntry{Goal: *goal.DeepCopy()}
		if balance, ok := settings.Balances[goal.ID]; ok {
			b := balance
			entry.CurrentAmount = &b
		}
		file.Goals = append(file.Goals, entry)
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to encode goals file: %w", err)
	}
	return data, nil
}
