package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/goalpath/internal/domain"
)

const rule = "================================================================================"

// ConsoleFormatter renders the full plain-text report
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	cur := report.Currency

	title := report.Title
	if title == "" {
		title = "GOAL PROGRESS REPORT"
	}
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, strings.ToUpper(title))
	fmt.Fprintln(&buf, rule)
	if !report.GeneratedDate.IsZero() {
		fmt.Fprintf(&buf, "Generated: %s\n", report.GeneratedDate.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(&buf)

	if len(report.Assumptions) > 0 {
		fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
		for _, a := range report.Assumptions {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
		fmt.Fprintln(&buf)
	}

	if report.Summary != nil {
		writeConsoleSummary(&buf, report.Summary, cur)
	}

	for i, goal := range report.Goals {
		fmt.Fprintf(&buf, "GOAL %d: %s\n", i+1, goal.Goal.Title)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		writeConsoleGoal(&buf, goal, cur)
	}

	if report.Calculation != nil {
		writeConsoleCalculation(&buf, report.Calculation, cur)
	}
	return buf.Bytes(), nil
}

func writeConsoleSummary(w io.Writer, s *domain.GoalsSummary, cur string) {
	fmt.Fprintln(w, "PORTFOLIO SUMMARY")
	fmt.Fprintln(w, "-----------------")
	fmt.Fprintf(w, "  Goals tracked:          %d (%d achieved)\n", s.TotalGoals, s.AchievedGoals)
	fmt.Fprintf(w, "  Total target:           %s\n", FormatCurrency(s.TotalTargetAmount, cur))
	fmt.Fprintf(w, "  Total saved:            %s\n", FormatCurrency(s.TotalCurrentAmount, cur))
	fmt.Fprintf(w, "  Overall progress:       %s\n", FormatPercentage(s.OverallProgressPercentage))
	fmt.Fprint(w, "  Goals by risk:         ")
	for _, level := range domain.RiskLevels {
		fmt.Fprintf(w, " %s=%d", level, s.GoalsByRisk[level])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
}

func writeConsoleGoal(w io.Writer, r *domain.GoalReport, cur string) {
	goal := r.Goal
	fmt.Fprintf(w, "  Target:                 %s by %s\n", FormatCurrency(goal.TargetAmount, cur), goal.Deadline.Format("2006-01-02"))

	if a := r.Analysis; a != nil {
		p := a.CurrentProgress
		fmt.Fprintln(w)
		fmt.Fprintln(w, "CURRENT PROGRESS:")
		fmt.Fprintf(w, "  Current amount:         %s (%s)\n", FormatCurrency(p.CurrentAmount, cur), FormatPercentage(p.ProgressPercentage))
		fmt.Fprintf(w, "  Contributions:          %s\n", FormatCurrency(p.TotalContributions, cur))
		fmt.Fprintf(w, "  Investment returns:     %s\n", FormatCurrency(p.TotalReturns, cur))
		fmt.Fprintf(w, "  Monthly run rate:       %s\n", FormatCurrency(p.RunRate, cur))
		fmt.Fprintf(w, "  Average monthly:        %s\n", FormatCurrency(p.AverageMonthlyContribution, cur))
		fmt.Fprintf(w, "  Time remaining:         %s years\n", p.YearsRemaining.StringFixed(1))

		proj := a.ProjectedProgress
		fmt.Fprintln(w)
		fmt.Fprintln(w, "PROJECTION AT DEADLINE:")
		fmt.Fprintf(w, "  Projected amount:       %s\n", FormatCurrency(proj.ProjectedFinalAmount, cur))
		fmt.Fprintf(w, "  In today's money:       %s\n", FormatCurrency(proj.ProjectedRealAmount, cur))
		if proj.ProjectedShortfall.IsPositive() {
			fmt.Fprintf(w, "  Shortfall:              %s\n", FormatCurrency(proj.ProjectedShortfall, cur))
		}
		fmt.Fprintf(w, "  Probability of success: %s\n", FormatRate(proj.ProbabilityOfSuccess))
		fmt.Fprintf(w, "  Assumed return:         %s\n", FormatRate(proj.ExpectedReturn))

		if ms := a.MilestoneStatus; ms.TotalMilestones > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "MILESTONES:")
			fmt.Fprintf(w, "  Achieved:               %d of %d (%s)\n", ms.MilestonesAchieved, ms.TotalMilestones, FormatPercentage(ms.CompletionRate))
			if next := ms.NextMilestone; next != nil {
				status := ""
				if next.Overdue {
					status = " OVERDUE"
				}
				fmt.Fprintf(w, "  Next:                   %s, %s by %s (%s)%s\n",
					next.Milestone.Description,
					FormatCurrency(next.Milestone.TargetAmount, cur),
					next.Milestone.TargetDate.Format("2006-01-02"),
					FormatPercentage(next.ProgressPercentage),
					status)
			}
		}

		risk := a.RiskAssessment
		fmt.Fprintln(w)
		fmt.Fprintf(w, "RISK: %s\n", strings.ToUpper(string(risk.OverallRiskLevel)))
		for _, f := range risk.RiskFactors {
			fmt.Fprintf(w, "  - %s\n", f)
		}
		for _, m := range risk.MitigationStrategies {
			fmt.Fprintf(w, "  > %s\n", m)
		}

		if len(a.Recommendations) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "RECOMMENDATIONS:")
			for _, rec := range a.Recommendations {
				fmt.Fprintf(w, "  • %s\n", rec.Message())
			}
		}

		if len(a.Scenarios) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "MARKET SCENARIOS:")
			fmt.Fprintf(w, "  %-14s %10s %22s %12s\n", "Scenario", "Return", "Projected", "Success")
			for _, sc := range a.Scenarios {
				fmt.Fprintf(w, "  %-14s %10s %22s %12s\n", sc.Tier, FormatRate(sc.AssumedReturn),
					FormatCurrency(sc.ProjectedValue, cur), FormatRate(sc.ProbabilityOfSuccess))
			}
		}
	}

	if opt := r.Optimization; opt != nil && len(opt.Scenarios) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "CONTRIBUTION OPTIONS:")
		fmt.Fprintf(w, "  %-14s %18s %22s %12s\n", "Option", "Monthly", "Projected", "Success")
		for _, sc := range opt.Scenarios {
			marker := ""
			if sc.Label == opt.Recommended.Label {
				marker = "  <- recommended"
			}
			fmt.Fprintf(w, "  %-14s %18s %22s %12s%s\n", sc.Label, FormatCurrency(sc.MonthlyContribution, cur),
				FormatCurrency(sc.ProjectedFinalAmount, cur), FormatRate(sc.ProbabilityOfSuccess), marker)
		}
		if opt.RequiredContribution != nil {
			fmt.Fprintf(w, "  Required monthly contribution: %s\n", FormatCurrency(*opt.RequiredContribution, cur))
		}
	}

	if sim := r.Simulation; sim != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "MONTE CARLO (%d paths):\n", sim.Simulations)
		fmt.Fprintf(w, "  Success rate:           %s\n", FormatRate(sim.SuccessRate))
		fmt.Fprintf(w, "  Mean outcome:           %s\n", FormatCurrency(sim.Mean, cur))
		for _, key := range percentileKeys {
			if v, ok := sim.Percentiles[key]; ok {
				fmt.Fprintf(w, "  %-24s%s\n", key+" percentile:", FormatCurrency(v, cur))
			}
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
}

var percentileKeys = []string{"10th", "25th", "50th", "75th", "90th"}

func writeConsoleCalculation(w io.Writer, c *Calculation, cur string) {
	fmt.Fprintln(w, strings.ToUpper(c.Name))
	fmt.Fprintln(w, strings.Repeat("-", len(c.Name)))
	width := 0
	for _, f := range c.Fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}
	for _, f := range c.Fields {
		fmt.Fprintf(w, "  %-*s  %s\n", width+1, f.Label+":", f.Display(cur))
	}
	fmt.Fprintln(w)
}

// ConsoleLiteFormatter renders one line per goal
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	cur := report.Currency

	if s := report.Summary; s != nil {
		fmt.Fprintf(&buf, "%d goals, %d achieved, %s of %s saved (%s)\n", s.TotalGoals, s.AchievedGoals,
			FormatCurrency(s.TotalCurrentAmount, cur), FormatCurrency(s.TotalTargetAmount, cur),
			FormatPercentage(s.OverallProgressPercentage))
	}
	for _, r := range report.Goals {
		line := fmt.Sprintf("%-24s %s", r.Goal.Title, FormatCurrency(r.Goal.TargetAmount, cur))
		if a := r.Analysis; a != nil {
			line += fmt.Sprintf("  %s  p=%s  risk=%s",
				FormatPercentage(a.CurrentProgress.ProgressPercentage),
				FormatRate(a.ProjectedProgress.ProbabilityOfSuccess),
				a.RiskAssessment.OverallRiskLevel)
		}
		if monthly, ok := recommendedContribution(r); ok {
			line += "  monthly=" + FormatCurrency(monthly, cur)
		}
		fmt.Fprintln(&buf, line)
	}
	if c := report.Calculation; c != nil {
		for _, f := range c.Fields {
			fmt.Fprintf(&buf, "%s: %s\n", f.Label, f.Display(cur))
		}
	}
	return buf.Bytes(), nil
}
