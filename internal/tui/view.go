package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/rgehrsitz/goalpath/internal/output"
	"github.com/rgehrsitz/goalpath/internal/tui/components"
	"github.com/rgehrsitz/goalpath/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return tuistyles.InfoStyle.Render(m.loadingMessage)
	}
	if m.err != nil {
		return tuistyles.ErrorStyle.Render("Error: " + m.err.Error())
	}

	var content string
	switch m.currentScene {
	case SceneDashboard:
		content = m.renderDashboard()
	case SceneGoal:
		content = m.renderGoal()
	case SceneOptimize:
		content = m.renderOptimize()
	default:
		content = "Unknown scene"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitleBar(),
		content,
		tuistyles.StatusBarStyle.Width(m.width).Render(m.help.View(m.keys)),
	)
}

func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render("goalpath")
	crumb := m.currentScene.String()
	if r := m.selected(); r != nil && m.currentScene != SceneDashboard {
		crumb += " / " + r.Goal.Title
	}
	if !m.lastRefresh.IsZero() {
		crumb += "  (updated " + m.lastRefresh.Format("15:04:05") + ")"
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, tuistyles.SubtitleStyle.Render(crumb))
}

func (m Model) renderDashboard() string {
	if len(m.reports) == 0 {
		return tuistyles.InfoStyle.Render("No goals are being tracked.")
	}

	var b strings.Builder
	if s := m.summary; s != nil {
		cards := []*components.MetricCard{
			components.NewMetricCard("Goals", fmt.Sprintf("%d", s.TotalGoals)).
				WithDescription(fmt.Sprintf("%d achieved", s.AchievedGoals)),
			components.NewMetricCard("Saved", output.FormatCurrency(s.TotalCurrentAmount, m.currency)).
				WithDescription("of " + output.FormatCurrency(s.TotalTargetAmount, m.currency)),
			components.NewMetricCard("Overall progress", output.FormatPercentage(s.OverallProgressPercentage)).
				WithDescription(riskBreakdown(s)),
		}
		b.WriteString(components.MetricGrid(cards, 3))
		b.WriteString("\n\n")
	}

	for i, r := range m.reports {
		detail := ""
		if a := r.Analysis; a != nil {
			detail = "p=" + output.FormatRate(a.ProjectedProgress.ProbabilityOfSuccess)
		}
		row := components.NewGoalRow(r.Goal.Title, r.Analysis, detail)
		row.Selected = i == m.cursor
		b.WriteString(row.Render(m.bar))
		b.WriteString("\n")
	}
	return b.String()
}

func riskBreakdown(s *domain.GoalsSummary) string {
	parts := make([]string, 0, len(domain.RiskLevels))
	for _, level := range domain.RiskLevels {
		if n := s.GoalsByRisk[level]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, level))
		}
	}
	return strings.Join(parts, ", ")
}

func (m Model) renderGoal() string {
	r := m.selected()
	if r == nil || r.Analysis == nil {
		return tuistyles.InfoStyle.Render("No goal selected.")
	}
	a := r.Analysis
	cur := m.currency

	var b strings.Builder
	cards := []*components.MetricCard{
		components.NewMetricCard("Saved", output.FormatCurrency(a.CurrentProgress.CurrentAmount, cur)).
			WithDescription(output.FormatPercentage(a.CurrentProgress.ProgressPercentage) + " of " + output.FormatCurrency(r.Goal.TargetAmount, cur)),
		components.NewMetricCard("Projected", output.FormatCurrency(a.ProjectedProgress.ProjectedFinalAmount, cur)).
			WithDescription("by " + r.Goal.Deadline.Format("2006-01-02")),
		components.NewMetricCard("Success", output.FormatRate(a.ProjectedProgress.ProbabilityOfSuccess)).
			WithDescription(tuistyles.RiskStyle(a.RiskAssessment.OverallRiskLevel).Render(string(a.RiskAssessment.OverallRiskLevel) + " risk")),
	}
	b.WriteString(components.MetricGrid(cards, 3))
	b.WriteString("\n")

	if len(a.RiskAssessment.RiskFactors) > 0 {
		b.WriteString(tuistyles.SectionStyle.Render("Risk factors") + "\n")
		for _, f := range a.RiskAssessment.RiskFactors {
			b.WriteString("  • " + f + "\n")
		}
	}
	if len(a.Recommendations) > 0 {
		b.WriteString(tuistyles.SectionStyle.Render("Recommendations") + "\n")
		for _, rec := range a.Recommendations {
			b.WriteString("  • " + rec.Message() + "\n")
		}
	}
	if len(a.Scenarios) > 0 {
		b.WriteString(tuistyles.SectionStyle.Render("Market scenarios") + "\n")
		b.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("  %-14s %8s %20s %9s", "Scenario", "Return", "Projected", "Success")) + "\n")
		for _, sc := range a.Scenarios {
			b.WriteString(fmt.Sprintf("  %-14s %8s %20s %9s\n", sc.Tier, output.FormatRate(sc.AssumedReturn),
				output.FormatCurrency(sc.ProjectedValue, cur), output.FormatRate(sc.ProbabilityOfSuccess)))
		}
	}
	if sim := r.Simulation; sim != nil {
		b.WriteString(tuistyles.SectionStyle.Render("Monte Carlo") + "\n")
		b.WriteString(fmt.Sprintf("  %d paths, success %s, median %s\n", sim.Simulations,
			output.FormatRate(sim.SuccessRate), output.FormatCurrency(sim.Percentiles["50th"], cur)))
	}
	return b.String()
}

func (m Model) renderOptimize() string {
	r := m.selected()
	if r == nil || r.Optimization == nil {
		return tuistyles.InfoStyle.Render("No contribution options available.")
	}
	opt := r.Optimization
	cur := m.currency

	var b strings.Builder
	b.WriteString(tuistyles.SectionStyle.Render("Contribution options") + "\n")
	b.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("  %-12s %18s %20s %9s", "Option", "Monthly", "Projected", "Success")) + "\n")
	for _, sc := range opt.Scenarios {
		line := fmt.Sprintf("  %-12s %18s %20s %9s", sc.Label, output.FormatCurrency(sc.MonthlyContribution, cur),
			output.FormatCurrency(sc.ProjectedFinalAmount, cur), output.FormatRate(sc.ProbabilityOfSuccess))
		if sc.Label == opt.Recommended.Label {
			line = tuistyles.HighlightStyle.Render(line + "  ← recommended")
		}
		b.WriteString(line + "\n")
	}
	if opt.RequiredContribution != nil {
		b.WriteString("\n  Required monthly contribution: " + output.FormatCurrency(*opt.RequiredContribution, cur) + "\n")
	}
	b.WriteString("  Target probability: " + output.FormatRate(opt.TargetProbability) + "\n")
	return b.String()
}
