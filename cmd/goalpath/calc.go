package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/goalpath/internal/calculation"
	"github.com/rgehrsitz/goalpath/internal/config"
	"github.com/rgehrsitz/goalpath/internal/domain"
	"github.com/rgehrsitz/goalpath/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// decimalValue is a flag value holding a decimal
type decimalValue struct {
	v *decimal.Decimal
}

func newDecimalValue(p *decimal.Decimal, def string) *decimalValue {
	*p = decimal.RequireFromString(def)
	return &decimalValue{v: p}
}

func (d *decimalValue) String() string {
	if d.v == nil {
		return "0"
	}
	return d.v.String()
}

func (d *decimalValue) Set(s string) error {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a decimal: %q", s)
	}
	*d.v = v
	return nil
}

func (d *decimalValue) Type() string { return "decimal" }

// decimalListValue is a comma separated list of decimals
type decimalListValue struct {
	v *[]decimal.Decimal
}

func (d *decimalListValue) String() string {
	parts := make([]string, 0, len(*d.v))
	for _, v := range *d.v {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ",")
}

func (d *decimalListValue) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		v, err := decimal.NewFromString(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("not a decimal: %q", part)
		}
		*d.v = append(*d.v, v)
	}
	return nil
}

func (d *decimalListValue) Type() string { return "decimals" }

// calcCurrency resolves the display currency for calculator output
func calcCurrency(opts *rootOptions, flag string) (string, error) {
	if flag != "" {
		return strings.ToUpper(flag), nil
	}
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return "", err
	}
	cfg := domain.DefaultTrackingConfig()
	if err := config.ApplyEnvOverrides(&cfg, os.LookupEnv); err != nil {
		return "", err
	}
	return cfg.Currency, nil
}

func calcCmd(opts *rootOptions) *cobra.Command {
	var currency string
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Standalone financial calculators",
	}
	cmd.PersistentFlags().StringVar(&currency, "currency", "", "ISO 4217 display currency (default from GOALPATH_CURRENCY)")

	// run wraps a calculator so its result goes through the selected formatter
	run := func(build func() (*output.Calculation, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			calc, err := build()
			if err != nil {
				return err
			}
			cur, err := calcCurrency(opts, currency)
			if err != nil {
				return err
			}
			return opts.write(cmd.OutOrStdout(), &output.Report{Currency: cur, Calculation: calc})
		}
	}

	cmd.AddCommand(
		calcCompoundCmd(run),
		calcRequiredCmd(run),
		calcTimeToGoalCmd(run),
		calcNPVCmd(run),
		calcAnnuityPVCmd(run),
		calcGoalPVCmd(run),
		calcFutureValueCmd(run),
		calcProjectionCmd(run),
		calcScenariosCmd(run),
		calcSimulateCmd(run),
	)
	return cmd
}

type calcRunner func(build func() (*output.Calculation, error)) func(*cobra.Command, []string) error

func calcCompoundCmd(run calcRunner) *cobra.Command {
	var principal, rate, years decimal.Decimal
	var frequency string
	cmd := &cobra.Command{
		Use:   "compound",
		Short: "Grow a lump sum with compound interest",
		Args:  cobra.NoArgs,
		RunE: run(func() (*output.Calculation, error) {
			freq, err := calculation.ParseCompoundingFrequency(frequency)
			if err != nil {
				return nil, err
			}
			r := calculation.CalculateCompoundInterest(principal, rate, years, freq)
			c := &output.Calculation{Name: "Compound Interest"}
			c.Add(output.NewField("Principal", principal, output.KindMoney)).
				Add(output.NewField("Final amount", r.FinalAmount, output.KindMoney)).
				Add(output.NewField("Total interest", r.TotalInterest, output.KindMoney)).
				Add(output.NewField("Effective annual rate", r.EffectiveAnnualRate, output.KindRate))
			return c, nil
		}),
	}
	cmd.Flags().Var(newDecimalValue(&principal, "0"), "principal", "Starting amount")
	cmd.Flags().Var(newDecimalValue(&rate, "0.12"), "rate", "Nominal annual rate as a fraction")
	cmd.Flags().Var(newDecimalValue(&years, "1"), "years", "Years to compound (fractions allowed)")
	cmd.Flags().StringVar(&frequency, "frequency", "monthly", "annually, semi-annually, quarterly, monthly, weekly, daily or continuous")
	return cmd
}

func calcRequiredCmd(run calcRunner) *cobra.Command {
	var target, current, rate, years decimal.Decimal
	var frequency string
	cmd := &cobra.Command{
		Use:   "required",
		Short: "Monthly contribution needed to reach a target",
		Args:  cobra.NoArgs,
		RunE: run(func() (*output.Calculation, error) {
			freq, err := calculation.ParseCompoundingFrequency(frequency)
			if err != nil {
				return nil, err
			}
			c := &output.Calculation{Name: "Required Contribution"}
			c.Add(output.NewField("Target", target, output.KindMoney)).
				Add(output.NewField("Current amount", current, output.KindMoney))
			required := output.Field{Label: "Required monthly contribution", Kind: output.KindMoney, Note: "not achievable"}
			if p := calculation.CalculateRequiredContribution(target, current, rate, years, freq); p != nil {
				required.Value = p
			}
			c.Add(required)
			return c, nil
		}),
	}
	cmd.Flags().Var(newDecimalValue(&target, "0"), "target", "Target amount")
	cmd.Flags().Var(newDecimalValue(&current, "0"), "current", "Amount saved so far")
	cmd.Flags().Var(newDecimalValue(&rate, "0.12"), "rate", "Expected annual return as a fraction")
	cmd.Flags().Var(newDecimalValue(&years, "1"), "years", "Years until the deadline")
	cmd.Flags().StringVar(&frequency, "frequency", "monthly", "Compounding frequency of the current amount")
	return cmd
}

func calcTimeToGoalCmd(run calcRunner) *cobra.Command {
	var target, current, monthly, rate decimal.Decimal
	cmd := &cobra.Command{
		Use:   "time-to-goal",
		Short: "Years a monthly contribution needs to reach a target",
		Args:  cobra.NoArgs,
		RunE: run(func() (*output.Calculation, error) {
			c := &output.Calculation{Name: "Time To Goal"}
			field := output.Field{Label: "Time to goal", Kind: output.KindYears, Note: "unreachable"}
			if years := calculation.CalculateTimeToGoal(target, current, monthly, rate); years != nil {
				field.Value = years
			}
			c.Add(output.NewField("Target", target, output.KindMoney)).
				Add(output.NewField("Monthly contribution", monthly, output.KindMoney)).
				Add(field)
			return c, nil
		}),
	}
	cmd.Flags().Var(newDecimalValue(&target, "0"), "target", "Target amount")
	cmd.Flags().Var(newDecimalValue(&current, "0"), "current", "Amount saved so far")
	cmd.Flags().Var(newDecimalValue(&monthly, "0"), "monthly", "Monthly contribution")
	cmd.Flags().Var(newDecimalValue(&rate, "0.12"), "rate", "Expected annual return as a fraction")
	return cmd
}

func calcNPVCmd(run calcRunner) *cobra.Command {
	var initial, rate decimal.Decimal
	var flows []decimal.Decimal
	cmd := &cobra.Command{
		Use:   "npv",
		Short: "Net present value, profitability index and payback of cash flows",
		Args:  cobra.NoArgs,
		RunE: run(func() (*output.Calculation, error) {
			r := calculation.CalculateNetPresentValue(initial, flows, rate)
			c := &output.Calculation{Name: "Net Present Value"}
			c.Add(output.NewField("Net present value", r.NPV, output.KindMoney)).
				Add(output.NewField("Profitability index", r.ProfitabilityIndex, output.KindNumber)).
				Add(output.Field{Label: "Payback period", Value: r.PaybackPeriod, Kind: output.KindYears, Note: "never recovered"})
			return c, nil
		}),
	}
	cmd.Flags().Var(newDecimalValue(&initial, "0"), "initial", "Initial investment, normally negative")
	cmd.Flags().Var(newDecimalValue(&rate, "0.1"), "rate", "Discount rate per period as a fraction")
	cmd.Flags().Var(&decimalListValue{v: &flows}, "cash-flows", "Comma separated cash flows for periods 1..n")
	return cmd
}

func calcAnnuityPVCmd(run calcRunner) *cobra.Command {
	var payment, rate decimal.Decimal
	var periods int
	var due bool
	cmd := &cobra.Command{
		Use:   "annuity-pv",
		Short: "Present value of a stream of equal payments",
		Args:  cobra.NoArgs,
		RunE: run(func() (*output.Calculation, error) {
			kind := calculation.AnnuityOrdinary
			if due {
				kind = calculation.AnnuityDue
			}
			r := calculation.CalculateAnnuityPresentValue(payment, rate, periods, kind)
			c := &output.Calculation{Name: "Annuity Present Value (" + kind.String() + ")"}
			c.Add(output.NewField("Present value", r.PresentValue, output.KindMoney)).
				Add(output.NewField("Total payments", r.TotalPayments, output.KindMoney))
			return c, nil
		}),
	}
	cmd.Flags().Var(newDecimalValue(&payment, "0"), "payment", "Payment per period")
	cmd.Flags().Var(newDecimalValue(&rate, "0"), "rate", "Rate per period as a fraction")
	cmd.Flags().IntVar(&periods, "periods", 0, "Number of payments")
	cmd.Flags().BoolVar(&due, "due", false, "Payments at the start of each period")
	return cmd
}

func calcGoalPVCmd(run calcRunner) *cobra.Command {
	var future, rate, years decimal.Decimal
	cmd := &cobra.Command{
		Use:   "goal-pv",
		Short: "Amount needed today to fund a future goal",
		Args:  cobra.NoArgs,
		RunE: run(func() (*output.Calculation, error) {
			r := calculation.CalculateGoalPresentValue(future, rate, years)
			c := &output.Calculation{Name: "Goal Present Value"}
			c.Add(output.NewField("Future amount", future, output.KindMoney)).
				Add(output.NewField("Present value", r.PresentValue, output.KindMoney)).
				Add(output.NewField("Discount factor", r.DiscountFactor, output.KindNumber))
			return c, nil
		}),
	}
	cmd.Flags().Var(newDecimalValue(&future, "0"), "future", "Goal amount at the deadline")
	cmd.Flags().Var(newDecimalValue(&rate, "0.12"), "rate", "Annual discount rate as a fraction")
	cmd.Flags().Var(newDecimalValue(&years, "1"), "years", "Years until the deadline")
	return cmd
}

func calcFutureValueCmd(run calcRunner) *cobra.Command {
	var present, payment, rate, periods decimal.Decimal
	cmd := &cobra.Command{
		Use:   "future-value",
		Short: "Future value of a lump sum and optional level payments",
		Args:  cobra.NoArgs,
		RunE: run(func() (*output.Calculation, error) {
			c := &output.Calculation{Name: "Future Value"}
			fv := calculation.CalculateFutureValue(present, rate, periods)
			c.Add(output.NewField("Future value", fv.FutureValue, output.KindMoney)).
				Add(output.NewField("Total growth", fv.TotalGrowth, output.KindMoney)).
				Add(output.NewField("Annualized return", fv.AnnualizedReturn, output.KindRate))

			if !payment.IsZero() {
				afv := calculation.CalculateAnnuityFutureValue(payment, rate, int(periods.IntPart()))
				c.Add(output.NewField("Payments future value", afv.FutureValue, output.KindMoney)).
					Add(output.NewField("Total payments", afv.TotalContributions, output.KindMoney)).
					Add(output.NewField("Interest on payments", afv.TotalInterest, output.KindMoney))
			}
			return c, nil
		}),
	}
	cmd.Flags().Var(newDecimalValue(&present, "0"), "present", "Present value")
	cmd.Flags().Var(newDecimalValue(&payment, "0"), "payment", "Optional end-of-period payment")
	cmd.Flags().Var(newDecimalValue(&rate, "0.12"), "rate", "Rate per period as a fraction")
	cmd.Flags().Var(newDecimalValue(&periods, "1"), "periods", "Number of periods")
	return cmd
}

func calcProjectionCmd(run calcRunner) *cobra.Command {
	var initial, monthly, rate, years, inflation, growth decimal.Decimal
	cmd := &cobra.Command{
		Use:   "projection",
		Short: "Project a lump sum plus monthly contributions",
		Args:  cobra.NoArgs,
		RunE: run(func() (*output.Calculation, error) {
			p := calculation.CalculateInvestmentProjection(initial, monthly, rate, years, inflation)
			c := &output.Calculation{Name: "Investment Projection"}
			c.Add(output.NewField("Nominal value", p.NominalValue, output.KindMoney)).
				Add(output.NewField("Value in today's money", p.RealValue, output.KindMoney)).
				Add(output.NewField("Total contributions", p.TotalContributions, output.KindMoney)).
				Add(output.NewField("Investment gains", p.InvestmentGains, output.KindMoney))

			if !growth.IsZero() {
				g := calculation.CalculateGrowingContributionProjection(monthly, growth, rate, int(years.IntPart()))
				c.Add(output.NewField("Growing contributions value", g.FinalValue, output.KindMoney)).
					Add(output.NewField("Growing contributions total", g.TotalContributions, output.KindMoney)).
					Add(output.NewField("Benefit over flat contributions", g.GrowthBenefit, output.KindMoney))
			}
			return c, nil
		}),
	}
	cmd.Flags().Var(newDecimalValue(&initial, "0"), "initial", "Starting amount")
	cmd.Flags().Var(newDecimalValue(&monthly, "0"), "monthly", "Monthly contribution")
	cmd.Flags().Var(newDecimalValue(&rate, "0.12"), "rate", "Expected annual return as a fraction")
	cmd.Flags().Var(newDecimalValue(&years, "1"), "years", "Years to project (fractions allowed)")
	cmd.Flags().Var(newDecimalValue(&inflation, "0.03"), "inflation", "Annual inflation as a fraction")
	cmd.Flags().Var(newDecimalValue(&growth, "0"), "contribution-growth", "Yearly step-up of the contribution, compared with staying flat over whole years")
	return cmd
}

func calcScenariosCmd(run calcRunner) *cobra.Command {
	var current, monthly, target, years, rate, volatility decimal.Decimal
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Project a goal under five market scenarios",
		Args:  cobra.NoArgs,
		RunE: run(func() (*output.Calculation, error) {
			scenarios := calculation.CalculateScenarioAnalysis(current, monthly, target, years, rate, volatility)
			c := &output.Calculation{Name: "Market Scenarios"}
			for _, sc := range scenarios {
				c.Add(output.NewField(string(sc.Tier)+" return", sc.AssumedReturn, output.KindRate)).
					Add(output.NewField(string(sc.Tier)+" projected", sc.ProjectedValue, output.KindMoney)).
					Add(output.NewField(string(sc.Tier)+" success", sc.ProbabilityOfSuccess, output.KindRate))
			}
			c.Add(output.NewField("Overall success", calculation.CollapseScenarios(scenarios), output.KindRate))
			return c, nil
		}),
	}
	cmd.Flags().Var(newDecimalValue(&current, "0"), "current", "Amount saved so far")
	cmd.Flags().Var(newDecimalValue(&monthly, "0"), "monthly", "Monthly contribution")
	cmd.Flags().Var(newDecimalValue(&target, "0"), "target", "Target amount")
	cmd.Flags().Var(newDecimalValue(&years, "1"), "years", "Years until the deadline")
	cmd.Flags().Var(newDecimalValue(&rate, "0.12"), "rate", "Expected annual return as a fraction")
	cmd.Flags().Var(newDecimalValue(&volatility, "0.15"), "volatility", "Annual volatility as a fraction")
	return cmd
}

func calcSimulateCmd(run calcRunner) *cobra.Command {
	var params calculation.SimulationParams
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Monte Carlo distribution of a goal's final balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func() (*output.Calculation, error) {
				sim, err := calculation.SimulateGoalOutcomes(cmd.Context(), params)
				if err != nil {
					return nil, err
				}
				c := &output.Calculation{Name: fmt.Sprintf("Monte Carlo (%d paths)", sim.Simulations)}
				c.Add(output.NewField("Success rate", sim.SuccessRate, output.KindRate)).
					Add(output.NewField("Mean outcome", sim.Mean, output.KindMoney))
				for _, key := range []string{"10th", "25th", "50th", "75th", "90th"} {
					if v, ok := sim.Percentiles[key]; ok {
						c.Add(output.NewField(key+" percentile", v, output.KindMoney))
					}
				}
				return c, nil
			})(cmd, args)
		},
	}
	cmd.Flags().Var(newDecimalValue(&params.Current, "0"), "current", "Amount saved so far")
	cmd.Flags().Var(newDecimalValue(&params.Monthly, "0"), "monthly", "Monthly contribution")
	cmd.Flags().Var(newDecimalValue(&params.Target, "0"), "target", "Target amount")
	cmd.Flags().Var(newDecimalValue(&params.Years, "1"), "years", "Years until the deadline")
	cmd.Flags().Var(newDecimalValue(&params.ExpectedReturn, "0.12"), "rate", "Expected annual return as a fraction")
	cmd.Flags().Var(newDecimalValue(&params.Volatility, "0.15"), "volatility", "Annual volatility as a fraction")
	cmd.Flags().IntVar(&params.Simulations, "simulations", 1000, "Number of paths")
	cmd.Flags().Uint64Var(&params.Seed, "seed", 42, "Random seed")
	return cmd
}
