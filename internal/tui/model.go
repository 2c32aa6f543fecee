// Package tui is the terminal dashboard over a live tracking service.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/rgehrsitz/goalpath/internal/tracking"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	service      *tracking.Service
	currency     string
	refreshEvery time.Duration

	reports []*domain.GoalReport
	summary *domain.GoalsSummary
	cursor  int

	bar  progress.Model
	keys keyMap
	help help.Model

	err            error
	loading        bool
	loadingMessage string
	lastRefresh    time.Time
}

// NewModel creates a dashboard over service. A positive refreshEvery
// recomputes every goal on that interval while the dashboard is open.
func NewModel(service *tracking.Service, currency string, refreshEvery time.Duration) Model {
	return Model{
		currentScene:   SceneDashboard,
		service:        service,
		currency:       currency,
		refreshEvery:   refreshEvery,
		bar:            progress.New(progress.WithDefaultGradient(), progress.WithWidth(24)),
		keys:           defaultKeyMap(),
		help:           help.New(),
		loading:        true,
		loadingMessage: "Analysing goals...",
		width:          100,
		height:         30,
	}
}

// Init loads the first set of reports and starts the refresh ticker
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadReportsCmd(m.service), tickCmd(m.refreshEvery))
}

// loadReportsCmd generates a report for every tracked goal
func loadReportsCmd(service *tracking.Service) tea.Cmd {
	return func() tea.Msg {
		reports, err := service.GenerateGoalReports(context.Background())
		return ReportsLoadedMsg{
			Reports: reports,
			Summary: service.GenerateGoalsSummary(),
			Err:     err,
		}
	}
}

// refreshCmd recomputes every goal before reloading the reports
func refreshCmd(service *tracking.Service) tea.Cmd {
	return func() tea.Msg {
		service.UpdateAllGoalProgress()
		return loadReportsCmd(service)()
	}
}

func tickCmd(every time.Duration) tea.Cmd {
	if every <= 0 {
		return nil
	}
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return RefreshTickMsg{At: t}
	})
}

// selected returns the report under the cursor
func (m Model) selected() *domain.GoalReport {
	if m.cursor < 0 || m.cursor >= len(m.reports) {
		return nil
	}
	return m.reports[m.cursor]
}
