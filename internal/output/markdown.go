package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rgehrsitz/goalpath/internal/domain"
)

// MarkdownFormatter renders the report as Markdown. With Render set the
// Markdown is laid out for the terminal by glamour using Style, which is a
// glamour standard style name or "auto" to follow the terminal background.
type MarkdownFormatter struct {
	Render   bool
	Style    string
	WordWrap int
}

func (m MarkdownFormatter) Name() string {
	if m.Render {
		return "markdown"
	}
	return "markdown-raw"
}

func (m MarkdownFormatter) Format(report *Report) ([]byte, error) {
	var sb strings.Builder
	writeMarkdown(&sb, report)
	if !m.Render {
		return []byte(sb.String()), nil
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(m.wordWrap())}
	switch m.Style {
	case "auto":
		opts = append(opts, glamour.WithAutoStyle())
	case "":
		opts = append(opts, glamour.WithStandardStyle("notty"))
	default:
		opts = append(opts, glamour.WithStandardStyle(m.Style))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := renderer.Render(sb.String())
	if err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return []byte(out), nil
}

func (m MarkdownFormatter) wordWrap() int {
	if m.WordWrap <= 0 {
		return 80
	}
	return m.WordWrap
}

func writeMarkdown(w io.Writer, report *Report) {
	cur := report.Currency
	title := report.Title
	if title == "" {
		title = "Goal Progress Report"
	}
	fmt.Fprintf(w, "# %s\n\n", title)
	if !report.GeneratedDate.IsZero() {
		fmt.Fprintf(w, "_Generated %s_\n\n", report.GeneratedDate.Format("2006-01-02 15:04"))
	}

	if len(report.Assumptions) > 0 {
		fmt.Fprintln(w, "## Assumptions")
		fmt.Fprintln(w)
		for _, a := range report.Assumptions {
			fmt.Fprintf(w, "- %s\n", a)
		}
		fmt.Fprintln(w)
	}

	if s := report.Summary; s != nil {
		fmt.Fprintln(w, "## Summary")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Goals | Achieved | Target | Saved | Progress |")
		fmt.Fprintln(w, "|---:|---:|---:|---:|---:|")
		fmt.Fprintf(w, "| %d | %d | %s | %s | %s |\n\n", s.TotalGoals, s.AchievedGoals,
			FormatCurrency(s.TotalTargetAmount, cur), FormatCurrency(s.TotalCurrentAmount, cur),
			FormatPercentage(s.OverallProgressPercentage))

		parts := make([]string, 0, len(domain.RiskLevels))
		for _, level := range domain.RiskLevels {
			parts = append(parts, fmt.Sprintf("%s: %d", level, s.GoalsByRisk[level]))
		}
		fmt.Fprintf(w, "Risk: %s\n\n", strings.Join(parts, ", "))
	}

	for _, r := range report.Goals {
		writeMarkdownGoal(w, r, cur)
	}

	if c := report.Calculation; c != nil {
		fmt.Fprintf(w, "## %s\n\n", c.Name)
		fmt.Fprintln(w, "| Field | Value |")
		fmt.Fprintln(w, "|---|---:|")
		for _, f := range c.Fields {
			fmt.Fprintf(w, "| %s | %s |\n", f.Label, f.Display(cur))
		}
		fmt.Fprintln(w)
	}
}

func writeMarkdownGoal(w io.Writer, r *domain.GoalReport, cur string) {
	fmt.Fprintf(w, "## %s\n\n", r.Goal.Title)
	fmt.Fprintf(w, "Target **%s** by %s\n\n", FormatCurrency(r.Goal.TargetAmount, cur), r.Goal.Deadline.Format("2006-01-02"))

	if a := r.Analysis; a != nil {
		p, proj := a.CurrentProgress, a.ProjectedProgress
		fmt.Fprintln(w, "| Measure | Value |")
		fmt.Fprintln(w, "|---|---:|")
		fmt.Fprintf(w, "| Current amount | %s |\n", FormatCurrency(p.CurrentAmount, cur))
		fmt.Fprintf(w, "| Progress | %s |\n", FormatPercentage(p.ProgressPercentage))
		fmt.Fprintf(w, "| Monthly run rate | %s |\n", FormatCurrency(p.RunRate, cur))
		fmt.Fprintf(w, "| Years remaining | %s |\n", p.YearsRemaining.StringFixed(1))
		fmt.Fprintf(w, "| Projected amount | %s |\n", FormatCurrency(proj.ProjectedFinalAmount, cur))
		fmt.Fprintf(w, "| Probability of success | %s |\n", FormatRate(proj.ProbabilityOfSuccess))
		fmt.Fprintf(w, "| Risk | %s |\n\n", a.RiskAssessment.OverallRiskLevel)

		if len(a.RiskAssessment.RiskFactors) > 0 {
			fmt.Fprintln(w, "**Risk factors**")
			fmt.Fprintln(w)
			for _, f := range a.RiskAssessment.RiskFactors {
				fmt.Fprintf(w, "- %s\n", f)
			}
			fmt.Fprintln(w)
		}
		if len(a.Recommendations) > 0 {
			fmt.Fprintln(w, "**Recommendations**")
			fmt.Fprintln(w)
			for _, rec := range a.Recommendations {
				fmt.Fprintf(w, "- %s\n", rec.Message())
			}
			fmt.Fprintln(w)
		}
	}

	if opt := r.Optimization; opt != nil && len(opt.Scenarios) > 0 {
		fmt.Fprintln(w, "| Option | Monthly | Projected | Success |")
		fmt.Fprintln(w, "|---|---:|---:|---:|")
		for _, sc := range opt.Scenarios {
			label := sc.Label
			if sc.Label == opt.Recommended.Label {
				label = "**" + label + "**"
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n", label, FormatCurrency(sc.MonthlyContribution, cur),
				FormatCurrency(sc.ProjectedFinalAmount, cur), FormatRate(sc.ProbabilityOfSuccess))
		}
		fmt.Fprintln(w)
	}

	if sim := r.Simulation; sim != nil {
		fmt.Fprintf(w, "Monte Carlo over %d paths: success %s, median %s\n\n", sim.Simulations,
			FormatRate(sim.SuccessRate), FormatCurrency(sim.Percentiles["50th"], cur))
	}
}
