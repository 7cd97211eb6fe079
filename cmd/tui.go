package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/desertthunder/readtrack/internal/tasks"
	"github.com/desertthunder/readtrack/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive reading tracker.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	client, err := r.api()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logFile := r.cfg().Log.File
	if logFile == "" {
		logFile = "readtrack.log"
	}
	fileLogger, closer, err := shared.NewFileLogger(logFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer closer.Close()
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, ui.Deps{
		Catalog:   tasks.NewCatalog(client, r.validator),
		Progress:  tasks.NewProgressTracker(client),
		Goals:     tasks.NewGoalTracker(client, r.validator, models.Yearly(r.now().Year())),
		Reviews:   tasks.NewReviewCollector(client, r.validator, r.session),
		Dashboard: client,
		Auth:      client,
		Session:   r.session,
		Validator: r.validator,
		Logger:    shared.WithLogger(fileLogger, "component", "tui"),
		Now:       r.now,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
