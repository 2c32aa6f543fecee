package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/rgehrsitz/goalpath/internal/tui/tuistyles"
)

// GoalRow renders one goal as a line of the dashboard list
type GoalRow struct {
	Title      string
	Progress   float64 // 0..1
	Detail     string
	Risk       domain.RiskLevel
	Selected   bool
	TitleWidth int
}

// NewGoalRow builds a row from a goal's latest analysis
func NewGoalRow(title string, analysis *domain.GoalProgressAnalysis, detail string) GoalRow {
	row := GoalRow{Title: title, Detail: detail, TitleWidth: 24}
	if analysis != nil {
		pct, _ := analysis.CurrentProgress.ProgressPercentage.Float64()
		row.Progress = clamp01(pct / 100)
		row.Risk = analysis.RiskAssessment.OverallRiskLevel
	}
	return row
}

// Render draws the row with bar as the progress renderer
func (r GoalRow) Render(bar progress.Model) string {
	cursor := "  "
	titleStyle := tuistyles.UnselectedItemStyle
	if r.Selected {
		cursor = "▸ "
		titleStyle = tuistyles.SelectedItemStyle
	}

	title := truncate(r.Title, r.TitleWidth)
	title = titleStyle.Render(title + strings.Repeat(" ", r.TitleWidth-lipgloss.Width(title)))

	risk := ""
	if r.Risk != "" {
		risk = tuistyles.RiskStyle(r.Risk).Render(fmt.Sprintf("%-8s", r.Risk))
	}
	return cursor + title + " " + bar.ViewAs(r.Progress) + " " + risk + " " + r.Detail
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 || len(runes) <= 1 {
		return string(runes[:1])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
