package tui

import (
	"time"

	"github.com/rgehrsitz/goalpath/internal/domain"
)

// Scene represents the screens of the dashboard
type Scene int

const (
	SceneDashboard Scene = iota
	SceneGoal
	SceneOptimize
)

func (s Scene) String() string {
	switch s {
	case SceneDashboard:
		return "Dashboard"
	case SceneGoal:
		return "Goal"
	case SceneOptimize:
		return "Contributions"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ReportsLoadedMsg carries freshly generated goal reports
type ReportsLoadedMsg struct {
	Reports []*domain.GoalReport
	Summary *domain.GoalsSummary
	Err     error
}

// RefreshTickMsg asks the dashboard to recompute every goal
type RefreshTickMsg struct {
	At time.Time
}
