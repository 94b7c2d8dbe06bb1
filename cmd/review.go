package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/wkelton/jellytrek/internal/shared"
	"github.com/wkelton/jellytrek/internal/ui"
)

const reviewLogFile = "./tmp/jellytrek-review.log"

// Review launches the interactive terminal UI over a reconciliation of the manifest.
func (r *Runner) Review(ctx context.Context, cmd *cli.Command) error {
	entries, err := r.loadManifest(cmd)
	if err != nil {
		return err
	}
	if err := r.authenticate(cmd); err != nil {
		return err
	}

	// logs go to a file while the UI owns the terminal
	logConfig := r.config.Log
	if logConfig.File == "" {
		logConfig.File = reviewLogFile
	}
	fileLogger, err := shared.NewFileLogger(logConfig)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	previous := r.logger
	r.SetLogger(fileLogger)
	defer r.SetLogger(previous)

	model := ui.NewModel(ctx, r.engine, entries)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if report := model.Report(); report != nil {
		return r.writePlain("%s\n", report.Summary())
	}
	return model.Err()
}
