package output

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/shopspring/decimal"
)

// Report is the document every formatter renders. Any combination of
// sections may be present; formatters skip the ones that are nil or empty.
type Report struct {
	Title         string               `json:"title" yaml:"title"`
	Currency      string               `json:"currency" yaml:"currency"`
	GeneratedDate time.Time            `json:"generatedDate" yaml:"generated_date"`
	Assumptions   []string             `json:"assumptions,omitempty" yaml:"assumptions,omitempty"`
	Summary       *domain.GoalsSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Goals         []*domain.GoalReport `json:"goals,omitempty" yaml:"goals,omitempty"`
	Calculation   *Calculation         `json:"calculation,omitempty" yaml:"calculation,omitempty"`
}

// ValueKind tells formatters how to display a calculation field
type ValueKind string

const (
	KindMoney   ValueKind = "money"
	KindPercent ValueKind = "percent" // already scaled to 0-100
	KindRate    ValueKind = "rate"    // a fraction, displayed as a percentage
	KindYears   ValueKind = "years"
	KindNumber  ValueKind = "number"
)

// Calculation is the result of a single standalone calculator run
type Calculation struct {
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field is one labelled calculator output; a nil Value means not applicable
type Field struct {
	Label string           `json:"label" yaml:"label"`
	Value *decimal.Decimal `json:"value,omitempty" yaml:"value,omitempty"`
	Kind  ValueKind        `json:"kind" yaml:"kind"`
	Note  string           `json:"note,omitempty" yaml:"note,omitempty"`
}

// NewField builds a field holding v
func NewField(label string, v decimal.Decimal, kind ValueKind) Field {
	return Field{Label: label, Value: &v, Kind: kind}
}

// Add appends a field and returns the calculation for chaining
func (c *Calculation) Add(f Field) *Calculation {
	c.Fields = append(c.Fields, f)
	return c
}

// Display renders the field value for humans
func (f Field) Display(currency string) string {
	if f.Value == nil {
		if f.Note != "" {
			return f.Note
		}
		return "n/a"
	}
	switch f.Kind {
	case KindMoney:
		return FormatCurrency(*f.Value, currency)
	case KindPercent:
		return FormatPercentage(*f.Value)
	case KindRate:
		return FormatRate(*f.Value)
	case KindYears:
		return f.Value.StringFixed(2) + " years"
	default:
		return f.Value.String()
	}
}

var hundred = decimal.NewFromInt(100)

// FormatCurrency formats an amount in the given ISO 4217 currency, falling
// back to the code and two decimals when the currency is unknown
func FormatCurrency(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		if code == "" {
			return amount.StringFixed(2)
		}
		return code + " " + amount.StringFixed(2)
	}
	minor := amount.RoundBank(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return money.New(minor.IntPart(), cur.Code).Display()
}

// FormatPercentage formats a value already expressed in percent
func FormatPercentage(pct decimal.Decimal) string {
	return pct.StringFixed(2) + "%"
}

// FormatRate formats a fractional rate as a percentage
func FormatRate(rate decimal.Decimal) string {
	return rate.Mul(hundred).StringFixed(1) + "%"
}

// recommendedContribution returns the optimiser's pick for a report, if any
func recommendedContribution(r *domain.GoalReport) (decimal.Decimal, bool) {
	if r.Optimization == nil || r.Optimization.Recommended.Label == "" {
		return decimal.Zero, false
	}
	return r.Optimization.Recommended.MonthlyContribution, true
}
