package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/weeklymix/internal/repositories"
	"github.com/desertthunder/weeklymix/internal/shared"
	"github.com/desertthunder/weeklymix/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for playlist runs.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: engine not configured", shared.ErrGatewayConnection)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/weeklymix-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	var store *repositories.RunRepository
	if db, err := r.openDatabase(); err == nil {
		defer db.Close()
		store = repositories.NewRunRepository(db)
	} else {
		fileLogger.Warn("history unavailable", "error", err)
	}

	model := ui.NewModel(ctx, r.engine, store, r.config)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// tuiCommand returns the top-level TUI command for interactive runs.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist runs",
		Action:  r.TUI,
	}
}
