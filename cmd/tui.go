package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lagu/internal/shared"
	"github.com/desertthunder/lagu/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive recommendation form.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}
	variant, err := r.variant()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.config.Log.Level)
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, ui.Options{
		Client:  r.client,
		Loader:  r.loader,
		Variant: variant,
		Policy:  r.racePolicy(),
		Count:   r.config.Form.DefaultCount,
		Logger:  r.logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
