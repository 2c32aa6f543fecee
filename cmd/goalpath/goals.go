package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rgehrsitz/goalpath/internal/config"
	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/rgehrsitz/goalpath/internal/output"
	"github.com/rgehrsitz/goalpath/internal/tracking"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// resolveGoalID accepts a goal ID or a case-insensitive title
func resolveGoalID(svc *tracking.Service, ref string) string {
	for _, goal := range svc.ActiveGoals() {
		if goal.ID == ref {
			return ref
		}
	}
	for _, goal := range svc.ActiveGoals() {
		if strings.EqualFold(goal.Title, ref) {
			return goal.ID
		}
	}
	return ref
}

// goalReports returns the report for one goal, or for all of them when ref is empty
func goalReports(ctx context.Context, svc *tracking.Service, ref string) ([]*domain.GoalReport, error) {
	if ref == "" {
		return svc.GenerateGoalReports(ctx)
	}
	report, err := svc.GenerateGoalReport(ctx, resolveGoalID(svc, ref))
	if err != nil {
		return nil, err
	}
	return []*domain.GoalReport{report}, nil
}

func analyzeCmd(opts *rootOptions) *cobra.Command {
	var goalRef string
	cmd := &cobra.Command{
		Use:   "analyze [goals-file]",
		Short: "Analyse progress, projections and risk for every goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd, args[0])
			if err != nil {
				return err
			}
			reports, err := goalReports(cmd.Context(), svc, goalRef)
			if err != nil {
				return err
			}

			report := &output.Report{
				Title:       "Goal Progress Report",
				Currency:    svc.Config().Currency,
				Assumptions: output.DescribeAssumptions(svc.Config()),
				Goals:       reports,
			}
			if goalRef == "" {
				report.Summary = svc.GenerateGoalsSummary()
				report.GeneratedDate = report.Summary.GeneratedDate
			} else {
				report.GeneratedDate = reports[0].GeneratedDate
			}
			return opts.write(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVarP(&goalRef, "goal", "g", "", "Only analyse the goal with this ID or title")
	return cmd
}

func summaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [goals-file]",
		Short: "Show totals across all goals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd, args[0])
			if err != nil {
				return err
			}
			summary := svc.GenerateGoalsSummary()
			return opts.write(cmd.OutOrStdout(), &output.Report{
				Title:         "Goals Summary",
				Currency:      svc.Config().Currency,
				GeneratedDate: summary.GeneratedDate,
				Summary:       summary,
			})
		},
	}
}

func optimizeCmd(opts *rootOptions) *cobra.Command {
	var goalRef string
	cmd := &cobra.Command{
		Use:   "optimize [goals-file]",
		Short: "Compare monthly contribution levels for each goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd, args[0])
			if err != nil {
				return err
			}

			goals := svc.ActiveGoals()
			if goalRef != "" {
				goal, err := svc.Goal(resolveGoalID(svc, goalRef))
				if err != nil {
					return err
				}
				goals = []*domain.Goal{goal}
			}

			report := &output.Report{
				Title:       "Contribution Options",
				Currency:    svc.Config().Currency,
				Assumptions: output.DescribeAssumptions(svc.Config()),
			}
			for _, goal := range goals {
				result, err := svc.CalculateOptimalContributionStrategy(goal.ID)
				if err != nil {
					return err
				}
				report.Goals = append(report.Goals, &domain.GoalReport{
					Goal:          *goal,
					Optimization:  result,
					GeneratedDate: svc.LastUpdated(),
				})
			}
			report.GeneratedDate = svc.LastUpdated()
			return opts.write(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVarP(&goalRef, "goal", "g", "", "Only optimise the goal with this ID or title")
	return cmd
}

func contributeCmd(opts *rootOptions) *cobra.Command {
	var (
		goalRef     string
		amount      string
		on          string
		description string
		write       bool
	)
	cmd := &cobra.Command{
		Use:   "contribute [goals-file]",
		Short: "Record a contribution and print the updated goals file",
		Long: "Record a contribution against a goal. The updated goals file is printed to stdout, " +
			"or written back in place with --write. A reported current_amount is credited by the same amount.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}
			if !value.IsPositive() {
				return fmt.Errorf("--amount must be positive, got %s", value)
			}

			settings, err := opts.loadSettings(args[0])
			if err != nil {
				return err
			}
			svc, balances := newService(settings, opts.logger(cmd))
			id := resolveGoalID(svc, goalRef)

			contribOpts := []tracking.ContributionOption{tracking.WithDescription(description)}
			if on != "" {
				when, err := time.Parse("2006-01-02", on)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", on, err)
				}
				contribOpts = append(contribOpts, tracking.WithContributionDate(when))
			}
			if _, err := svc.AddContribution(id, value, contribOpts...); err != nil {
				return err
			}
			// AddContribution already credited the reported balance
			if _, ok := settings.Balances[id]; ok {
				goal, err := svc.Goal(id)
				if err != nil {
					return err
				}
				settings.Balances[id] = balances.CurrentBalance(goal)
			}

			settings.Goals = svc.ActiveGoals()
			data, err := config.MarshalGoalsFile(settings)
			if err != nil {
				return err
			}
			if !write {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s against %s in %s\n",
				output.FormatCurrency(value, svc.Config().Currency), goalRef, args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&goalRef, "goal", "g", "", "Goal ID or title")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Contribution amount")
	cmd.Flags().StringVar(&on, "date", "", "Contribution date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&description, "description", "", "Optional note")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the updated goals file in place")
	_ = cmd.MarkFlagRequired("goal")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func watchCmd(opts *rootOptions) *cobra.Command {
	var (
		interval time.Duration
		runFor   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch [goals-file]",
		Short: "Refresh every goal on an interval and print a summary each time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.loadSettings(args[0])
			if err != nil {
				return err
			}
			if interval > 0 {
				settings.Tracking.UpdateInterval = interval
			}
			settings.Tracking.EnableAutomaticUpdates = true
			if err := config.ValidateTrackingConfig(settings.Tracking); err != nil {
				return err
			}

			log := opts.logger(cmd)
			svc, _ := newService(settings, log)
			if err := svc.StartAutomaticUpdates(); err != nil {
				return err
			}
			defer svc.StopAutomaticUpdates()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if runFor > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, runFor)
				defer cancel()
			}

			format := opts.format
			if !cmd.Flags().Changed("format") {
				format = "console-lite"
			}
			f := output.GetFormatterByName(format)
			render := func() error {
				summary := svc.GenerateGoalsSummary()
				reports, err := svc.GenerateGoalReports(ctx)
				if err != nil {
					return err
				}
				return output.Write(cmd.OutOrStdout(), f, &output.Report{
					Currency:      svc.Config().Currency,
					GeneratedDate: summary.GeneratedDate,
					Summary:       summary,
					Goals:         reports,
				})
			}

			if err := render(); err != nil {
				return err
			}
			ticker := time.NewTicker(svc.Config().UpdateInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					log.Infof("watch stopped")
					return nil
				case <-ticker.C:
					if err := render(); err != nil && ctx.Err() == nil {
						return err
					}
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (default from the goals file)")
	cmd.Flags().DurationVar(&runFor, "for", 0, "Stop after this long (default: until interrupted)")
	return cmd
}

func validateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [goals-file]",
		Short: "Validate a goals file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.loadSettings(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Goals file %s is valid (%d goals)\n", args[0], len(settings.Goals))
			return nil
		},
	}
}
