package tracking

import (
	"sync"
	"time"

	"github.com/rgehrsitz/goalpath/internal/calculation"
	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/shopspring/decimal"
)

// Service tracks a set of active goals and keeps a progress analysis for each.
// Mutations are serialised by a single write lock; queries share a read lock.
// Analyses handed out are read-only views.
type Service struct {
	mu          sync.RWMutex
	cfg         domain.TrackingConfig
	calc        *calculation.GoalProgressCalculator
	balances    BalanceSource
	clock       func() time.Time
	logger      calculation.Logger
	goals       map[string]*domain.Goal
	order       []string
	analyses    map[string]*domain.GoalProgressAnalysis
	lastUpdated time.Time

	schedMu   sync.Mutex
	scheduler *Scheduler
}

// Option configures a Service
type Option func(*Service)

// WithBalanceSource sets where current balances come from
func WithBalanceSource(src BalanceSource) Option {
	return func(s *Service) {
		if src != nil {
			s.balances = src
		}
	}
}

// WithClock replaces the wall clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithLogger sets the service logger
func WithLogger(l calculation.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a tracking service with cfg as the default assumptions
func NewService(cfg domain.TrackingConfig, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		balances: ContributionBalance{},
		clock:    time.Now,
		logger:   calculation.NopLogger{},
		goals:    make(map[string]*domain.Goal),
		analyses: make(map[string]*domain.GoalProgressAnalysis),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.calc = calculation.NewGoalProgressCalculator()
	s.calc.Now = s.clock
	s.calc.InflationRate = cfg.DefaultInflationRate
	s.calc.SetLogger(s.logger)
	return s
}

// Config returns the service defaults
func (s *Service) Config() domain.TrackingConfig {
	return s.cfg
}

func (s *Service) now() time.Time {
	return s.clock()
}

// StartTrackingGoal begins tracking a copy of goal and returns its first
// analysis. Tracking a goal ID that is already active replaces it.
func (s *Service) StartTrackingGoal(goal *domain.Goal) *domain.GoalProgressAnalysis {
	if goal == nil {
		return nil
	}
	copied := goal.DeepCopy()
	if copied.ID == "" {
		copied.ID = domain.NewID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.goals[copied.ID]; exists {
		s.logger.Infof("Goal %s is already tracked; replacing it", copied.ID)
	} else {
		s.order = append(s.order, copied.ID)
		s.logger.Infof("Started tracking goal %s (%s)", copied.ID, copied.Title)
	}
	s.goals[copied.ID] = copied
	return s.refreshLocked(copied)
}

// StopTrackingGoal removes a goal and its cached analysis
func (s *Service) StopTrackingGoal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[id]; !ok {
		return goalNotFound(id)
	}
	delete(s.goals, id)
	delete(s.analyses, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.logger.Infof("Stopped tracking goal %s", id)
	return nil
}

// UpdateGoal applies mutate to a copy of the goal, stores it and refreshes
// its analysis. The goal ID cannot be changed.
func (s *Service) UpdateGoal(id string, mutate func(*domain.Goal)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.goals[id]
	if !ok {
		return goalNotFound(id)
	}
	updated := existing.DeepCopy()
	if mutate != nil {
		mutate(updated)
	}
	updated.ID = id
	s.goals[id] = updated
	s.refreshLocked(updated)
	return nil
}

// ContributionOption customises a recorded contribution
type ContributionOption func(*domain.Contribution)

// WithContributionDate records the contribution at date instead of now
func WithContributionDate(date time.Time) ContributionOption {
	return func(c *domain.Contribution) {
		c.Date = date
	}
}

// WithDescription attaches a note to the contribution
func WithDescription(description string) ContributionOption {
	return func(c *domain.Contribution) {
		c.Description = description
	}
}

// AddContribution records a contribution against a goal and refreshes its analysis
func (s *Service) AddContribution(id string, amount decimal.Decimal, opts ...ContributionOption) (domain.Contribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[id]
	if !ok {
		return domain.Contribution{}, goalNotFound(id)
	}

	contribution := domain.NewContribution(amount, s.now(), "")
	for _, opt := range opts {
		opt(&contribution)
	}

	updated := goal.DeepCopy()
	updated.Contributions = append(updated.Contributions, contribution)
	s.goals[id] = updated

	if recorder, ok := s.balances.(BalanceRecorder); ok {
		recorder.Credit(id, amount)
	}

	s.logger.Infof("Recorded contribution of %s to goal %s", amount.StringFixed(2), id)
	s.refreshLocked(updated)
	return contribution, nil
}

// UpdateGoalProgress recomputes and caches the analysis for one goal
func (s *Service) UpdateGoalProgress(id string) (*domain.GoalProgressAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[id]
	if !ok {
		return nil, goalNotFound(id)
	}
	return s.refreshLocked(goal), nil
}

// UpdateAllGoalProgress recomputes every tracked goal and returns how many were refreshed
func (s *Service) UpdateAllGoalProgress() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		s.refreshLocked(s.goals[id])
	}
	s.logger.Debugf("Refreshed %d goals", len(s.order))
	return len(s.order)
}

// Analysis returns the cached analysis for a goal
func (s *Service) Analysis(id string) (*domain.GoalProgressAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analysis, ok := s.analyses[id]
	if !ok {
		return nil, goalNotFound(id)
	}
	return analysis, nil
}

// Goal returns a copy of a tracked goal
func (s *Service) Goal(id string) (*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goal, ok := s.goals[id]
	if !ok {
		return nil, goalNotFound(id)
	}
	return goal.DeepCopy(), nil
}

// ActiveGoals returns copies of the tracked goals in the order tracking began
func (s *Service) ActiveGoals() []*domain.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := make([]*domain.Goal, 0, len(s.order))
	for _, id := range s.order {
		goals = append(goals, s.goals[id].DeepCopy())
	}
	return goals
}

// ActiveGoalCount returns the number of tracked goals
func (s *Service) ActiveGoalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.goals)
}

// LastUpdated returns when an analysis was last recomputed
func (s *Service) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// CurrentBalance returns the balance the service uses for a goal
func (s *Service) CurrentBalance(id string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goal, ok := s.goals[id]
	if !ok {
		return decimal.Zero, goalNotFound(id)
	}
	return s.balances.CurrentBalance(goal), nil
}

// assumptions resolves the return and volatility for a goal
func (s *Service) assumptions(goal *domain.Goal) (decimal.Decimal, decimal.Decimal) {
	return goal.ReturnOr(s.cfg.DefaultExpectedReturn), goal.VolatilityOr(s.cfg.DefaultMarketVolatility)
}

// refreshLocked recomputes a goal's analysis; the caller holds the write lock
func (s *Service) refreshLocked(goal *domain.Goal) *domain.GoalProgressAnalysis {
	expectedReturn, volatility := s.assumptions(goal)
	analysis := s.calc.CalculateGoalProgress(goal, s.balances.CurrentBalance(goal), goal.Contributions, expectedReturn, volatility)
	s.analyses[goal.ID] = analysis
	s.lastUpdated = s.now()
	return analysis
}
