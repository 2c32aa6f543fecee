// Package tuistyles holds the colour palette and lipgloss styles shared by the
// dashboard and its components.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/goalpath/internal/domain"
)

var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorBorder)

	SelectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	UnselectedItemStyle = lipgloss.NewStyle()

	MetricLabelStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	MetricValueStyle = lipgloss.NewStyle().Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary).
			MarginTop(1)

	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorMuted)
	HighlightStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	ErrorStyle       = lipgloss.NewStyle().Bold(true).Foreground(ColorDanger).Padding(1, 2)
	InfoStyle        = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true).Padding(1, 2)
)

// RiskStyle colours a risk level badge
func RiskStyle(level domain.RiskLevel) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch level {
	case domain.RiskLow:
		return base.Foreground(ColorSuccess)
	case domain.RiskModerate:
		return base.Foreground(ColorPrimary)
	case domain.RiskHigh:
		return base.Foreground(ColorWarning)
	case domain.RiskCritical:
		return base.Foreground(ColorDanger)
	default:
		return base.Foreground(ColorMuted)
	}
}
