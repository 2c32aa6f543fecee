package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/goalpath/internal/config"
	"github.com/rgehrsitz/goalpath/internal/logging"
	"github.com/rgehrsitz/goalpath/internal/tracking"
	"github.com/rgehrsitz/goalpath/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: goalpath-tui <goals-file>")
		os.Exit(1)
	}
	goalsPath := os.Args[1]

	if _, err := os.Stat(goalsPath); os.IsNotExist(err) {
		fmt.Printf("Error: goals file not found: %s\n", goalsPath)
		os.Exit(1)
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	settings, err := config.NewInputParser().LoadFromFile(goalsPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns the terminal, so logs go to a file when asked for
	var logOut io.Writer = io.Discard
	if path := os.Getenv("GOALPATH_TUI_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log := logging.NewAdapter(logging.New(logging.Config{Level: "debug", Output: logOut}))

	svc := tracking.NewService(settings.Tracking,
		tracking.WithBalanceSource(tracking.NewStaticBalances(settings.Balances)),
		tracking.WithLogger(log.With("tracking")),
	)
	for _, goal := range settings.Goals {
		svc.StartTrackingGoal(goal)
	}

	// Automatic updates refresh the dashboard on the configured interval
	cfg := svc.Config()
	refresh := cfg.UpdateInterval
	if !cfg.EnableAutomaticUpdates {
		refresh = 0
	}

	p := tea.NewProgram(
		tui.NewModel(svc, cfg.Currency, refresh),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
