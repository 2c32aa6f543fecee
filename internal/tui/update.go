package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = max(10, msg.Width/4)
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case ReportsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.reports = msg.Reports
		m.summary = msg.Summary
		if msg.Summary != nil {
			m.lastRefresh = msg.Summary.GeneratedDate
		}
		if m.cursor >= len(m.reports) {
			m.cursor = max(0, len(m.reports)-1)
		}
		return m, nil

	case RefreshTickMsg:
		return m, tea.Batch(refreshCmd(m.service), tickCmd(m.refreshEvery))
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.loadingMessage = "Refreshing goals..."
		return m, refreshCmd(m.service)

	case key.Matches(msg, m.keys.Up):
		if m.currentScene == SceneDashboard && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.currentScene == SceneDashboard && m.cursor < len(m.reports)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.selected() != nil {
			return m, navigate(SceneGoal)
		}
		return m, nil

	case key.Matches(msg, m.keys.Optimize):
		if m.selected() != nil {
			return m, navigate(SceneOptimize)
		}
		return m, nil

	case key.Matches(msg, m.keys.Home):
		return m, navigate(SceneDashboard)

	case key.Matches(msg, m.keys.Back):
		if m.currentScene == SceneDashboard {
			return m, nil
		}
		target := SceneDashboard
		if m.previousScene != m.currentScene {
			target = m.previousScene
		}
		return m, navigate(target)
	}
	return m, nil
}

func navigate(scene Scene) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Scene: scene} }
}
