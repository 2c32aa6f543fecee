package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/goalpath/internal/config"
	"github.com/rgehrsitz/goalpath/internal/logging"
	"github.com/rgehrsitz/goalpath/internal/output"
	"github.com/rgehrsitz/goalpath/internal/tracking"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	format   string
	logLevel string
	debug    bool
	envFile  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "goalpath",
		Short: "Financial goal tracking and projection CLI",
		Long: "Track savings goals, project them to their deadlines, estimate the chance of " +
			"reaching each one and find the monthly contribution that gets you there.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.debug {
				opts.logLevel = "debug"
			}
			if output.GetFormatterByName(opts.format) == nil {
				return fmt.Errorf("unknown format %q (available: %s)", opts.format,
					strings.Join(output.AvailableFormatterNames(), ", "))
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.format, "format", "f", "console",
		"Output format: "+strings.Join(output.AvailableFormatterNames(), ", ")+
			" (aliases: "+strings.Join(output.AvailableFormatAliases(), ", ")+")")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Optional .env file with GOALPATH_* overrides")

	root.AddCommand(
		analyzeCmd(opts),
		summaryCmd(opts),
		optimizeCmd(opts),
		contributeCmd(opts),
		watchCmd(opts),
		validateCmd(opts),
		calcCmd(opts),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "goalpath %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

// logger builds the zerolog-backed logger for a command; logs go to stderr
func (o *rootOptions) logger(cmd *cobra.Command) *logging.Adapter {
	return logging.NewAdapter(logging.New(logging.Config{
		Level:  o.logLevel,
		Pretty: true,
		Output: cmd.ErrOrStderr(),
	}))
}

// loadSettings reads the optional .env file and then the goals file
func (o *rootOptions) loadSettings(path string) (*config.Settings, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, err
	}
	return config.NewInputParser().LoadFromFile(path)
}

// newService starts tracking every goal in settings
func newService(settings *config.Settings, log *logging.Adapter) (*tracking.Service, *tracking.StaticBalances) {
	balances := tracking.NewStaticBalances(settings.Balances)
	svc := tracking.NewService(settings.Tracking,
		tracking.WithBalanceSource(balances),
		tracking.WithLogger(log.With("tracking")),
	)
	for _, goal := range settings.Goals {
		svc.StartTrackingGoal(goal)
	}
	log.Infof("tracking %d goals", svc.ActiveGoalCount())
	return svc, balances
}

// loadService combines loadSettings and newService
func (o *rootOptions) loadService(cmd *cobra.Command, path string) (*tracking.Service, error) {
	settings, err := o.loadSettings(path)
	if err != nil {
		return nil, err
	}
	svc, _ := newService(settings, o.logger(cmd))
	return svc, nil
}

// write renders report to w with the selected formatter
func (o *rootOptions) write(w io.Writer, report *output.Report) error {
	f := output.GetFormatterByName(o.format)
	if f == nil {
		return fmt.Errorf("unknown format %q", o.format)
	}
	return output.Write(w, f, report)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
