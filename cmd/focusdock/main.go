package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"focusdock/internal/shell"
	"focusdock/internal/timer"
	"focusdock/internal/ui"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "focusdock"})

	app := &cli.Command{
		Name:    "focusdock",
		Usage:   "Terminal focus dashboard: pomodoro timer and companions",
		Version: "0.3.0",
		Commands: []*cli.Command{
			widgetCommand(logger),
			timerCommand(logger),
			listCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// registry builds the widget set available to this binary. Session logging is
// wired only when an API endpoint is configured; the timer works offline.
func registry(logger *log.Logger, apiURL, token string) *shell.Registry {
	var sink timer.SessionSink
	if apiURL != "" {
		sink = timer.NewHTTPSink(apiURL, token)
	} else {
		logger.Debug("no --api configured; completed sessions will not be logged")
	}

	reg := shell.NewRegistry()
	widgets := []shell.Widget{
		{
			ID:    "timer",
			Title: "Focus Timer",
			New: func() tea.Model {
				return ui.NewTimerModel(timer.New(sink, timer.WithManualTick()))
			},
		},
		{
			ID:    "music",
			Title: "Focus Sounds",
			New:   func() tea.Model { return ui.NewMusicModel() },
		},
	}
	for _, w := range widgets {
		if err := reg.Register(w); err != nil {
			logger.Fatalf("register widget %s: %v", w.ID, err)
		}
	}
	return reg
}

func apiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api",
			Usage:   "Base URL of the focusdock server for session logging",
			Sources: cli.EnvVars("FOCUSDOCK_API"),
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "Bearer token for the server",
			Sources: cli.EnvVars("FOCUSDOCK_TOKEN"),
		},
	}
}

func runWidget(logger *log.Logger, cmd *cli.Command, id string) error {
	reg := registry(logger, cmd.String("api"), cmd.String("token"))
	w, ok := reg.Lookup(id)
	if !ok {
		return fmt.Errorf("unknown widget %q (known: %v)", id, reg.IDs())
	}

	p := tea.NewProgram(w.New())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running %s: %w", w.Title, err)
	}
	return nil
}

func widgetCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Open a dashboard widget",
		ArgsUsage: "[widget id, default timer]",
		Flags:     apiFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				id = "timer"
			}
			return runWidget(logger, cmd, id)
		},
	}
}

func timerCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "timer",
		Usage: "Open the focus timer",
		Flags: apiFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runWidget(logger, cmd, "timer")
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "widgets",
		Usage: "List available widgets",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg := registry(log.New(os.Stderr), "", "")
			for _, id := range reg.IDs() {
				w, _ := reg.Lookup(id)
				fmt.Printf("%-10s %s\n", id, w.Title)
			}
			return nil
		},
	}
}
