package tracking

import (
	"sync"

	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/shopspring/decimal"
)

// BalanceSource supplies the current balance of a goal. Balances come from
// outside the engine, such as an account feed or a goals file.
type BalanceSource interface {
	CurrentBalance(goal *domain.Goal) decimal.Decimal
}

// BalanceRecorder is implemented by balance sources that must be told about
// contributions the service records
type BalanceRecorder interface {
	Credit(goalID string, amount decimal.Decimal)
}

// ContributionBalance treats the sum of recorded contributions as the balance
type ContributionBalance struct{}

// CurrentBalance returns the goal's total contributions
func (ContributionBalance) CurrentBalance(goal *domain.Goal) decimal.Decimal {
	if goal == nil {
		return decimal.Zero
	}
	return goal.TotalContributions()
}

// StaticBalances holds externally reported balances by goal ID. Goals with no
// reported balance fall back to their contribution total.
type StaticBalances struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal
}

// NewStaticBalances creates a balance source seeded with balances
func NewStaticBalances(balances map[string]decimal.Decimal) *StaticBalances {
	copied := make(map[string]decimal.Decimal, len(balances))
	for id, amount := range balances {
		copied[id] = amount
	}
	return &StaticBalances{balances: copied}
}

// CurrentBalance returns the reported balance for goal
func (s *StaticBalances) CurrentBalance(goal *domain.Goal) decimal.Decimal {
	if goal == nil {
		return decimal.Zero
	}
	s.mu.RLock()
	amount, ok := s.balances[goal.ID]
	s.mu.RUnlock()
	if !ok {
		return goal.TotalContributions()
	}
	return amount
}

// Set replaces the reported balance for a goal
func (s *StaticBalances) Set(goalID string, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[goalID] = amount
}

// Credit adds a newly recorded contribution to a reported balance
func (s *StaticBalances) Credit(goalID string, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.balances[goalID]; ok {
		s.balances[goalID] = current.Add(amount)
	}
}
