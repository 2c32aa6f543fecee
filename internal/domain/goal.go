package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goal represents a savings or investment target tracked over time
type Goal struct {
	ID            string          `yaml:"id" json:"id"`
	Title         string          `yaml:"title" json:"title"`
	TargetAmount  decimal.Decimal `yaml:"target_amount" json:"target_amount"`
	StartDate     time.Time       `yaml:"start_date" json:"start_date"`
	Deadline      time.Time       `yaml:"deadline" json:"deadline"`
	Milestones    []Milestone     `yaml:"milestones,omitempty" json:"milestones,omitempty"`
	Contributions []Contribution  `yaml:"contributions,omitempty" json:"contributions,omitempty"`

	// Per-goal assumptions; nil falls back to the tracking defaults
	ExpectedReturn *decimal.Decimal `yaml:"expected_return,omitempty" json:"expected_return,omitempty"`
	Volatility     *decimal.Decimal `yaml:"volatility,omitempty" json:"volatility,omitempty"`
}

// Contribution is a single deposit recorded against a goal
type Contribution struct {
	ID          string          `yaml:"id" json:"id"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	Date        time.Time       `yaml:"date" json:"date"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
}

// Milestone is an intermediate sub-target of a goal
type Milestone struct {
	ID           string          `yaml:"id" json:"id"`
	Description  string          `yaml:"description" json:"description"`
	TargetAmount decimal.Decimal `yaml:"target_amount" json:"target_amount"`
	TargetDate   time.Time       `yaml:"target_date" json:"target_date"`
	Achieved     bool            `yaml:"achieved,omitempty" json:"achieved,omitempty"`
}

// NewID returns a fresh identifier for goals, contributions and milestones
func NewID() string {
	return uuid.NewString()
}

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("goalpath"))

// DerivedID returns an identifier that is stable for the same name, for
// entries loaded without one
func DerivedID(name string) string {
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

// NewGoal creates a goal with a generated identifier
func NewGoal(title string, target decimal.Decimal, start, deadline time.Time) *Goal {
	return &Goal{
		ID:           NewID(),
		Title:        title,
		TargetAmount: target,
		StartDate:    start,
		Deadline:     deadline,
	}
}

// NewContribution creates a contribution with a generated identifier
func NewContribution(amount decimal.Decimal, date time.Time, description string) Contribution {
	return Contribution{
		ID:          NewID(),
		Amount:      amount,
		Date:        date,
		Description: description,
	}
}

// NewMilestone creates a milestone with a generated identifier
func NewMilestone(description string, target decimal.Decimal, date time.Time) Milestone {
	return Milestone{
		ID:           NewID(),
		Description:  description,
		TargetAmount: target,
		TargetDate:   date,
	}
}

// DeepCopy creates a copy of the goal that shares no slices or pointers with the original
func (g *Goal) DeepCopy() *Goal {
	if g == nil {
		return nil
	}

	copied := *g
	if g.Milestones != nil {
		copied.Milestones = make([]Milestone, len(g.Milestones))
		copy(copied.Milestones, g.Milestones)
	}
	if g.Contributions != nil {
		copied.Contributions = make([]Contribution, len(g.Contributions))
		copy(copied.Contributions, g.Contributions)
	}
	if g.ExpectedReturn != nil {
		v := *g.ExpectedReturn
		copied.ExpectedReturn = &v
	}
	if g.Volatility != nil {
		v := *g.Volatility
		copied.Volatility = &v
	}
	return &copied
}

// TotalContributions sums every recorded contribution
func (g *Goal) TotalContributions() decimal.Decimal {
	return SumContributions(g.Contributions)
}

// SortedContributions returns the contributions in chronological order.
// Contributions on the same date keep their insertion order.
func (g *Goal) SortedContributions() []Contribution {
	return SortContributions(g.Contributions)
}

// SortContributions returns a chronologically ordered copy of contributions
func SortContributions(contributions []Contribution) []Contribution {
	sorted := make([]Contribution, len(contributions))
	copy(sorted, contributions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// SumContributions adds up contribution amounts
func SumContributions(contributions []Contribution) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contributions {
		total = total.Add(c.Amount)
	}
	return total
}

// IsPastDeadline reports whether the deadline is at or before asOf
func (g *Goal) IsPastDeadline(asOf time.Time) bool {
	return !g.Deadline.After(asOf)
}

// ReturnOr returns the goal's expected return override or the fallback
func (g *Goal) ReturnOr(fallback decimal.Decimal) decimal.Decimal {
	if g.ExpectedReturn != nil {
		return *g.ExpectedReturn
	}
	return fallback
}

// VolatilityOr returns the goal's volatility override or the fallback
func (g *Goal) VolatilityOr(fallback decimal.Decimal) decimal.Decimal {
	if g.Volatility != nil {
		return *g.Volatility
	}
	return fallback
}
