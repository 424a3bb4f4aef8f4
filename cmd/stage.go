package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/gigbuilder/internal/repositories"
	"github.com/desertthunder/gigbuilder/internal/shared"
	"github.com/desertthunder/gigbuilder/internal/ui"
	"github.com/urfave/cli/v3"
)

// Stage launches the interactive stage view for a saved set.
//
// Without a name the last built or opened set is used.
func (r *Runner) Stage(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Stage.LogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	session, err := r.newSession(ctx)
	if err != nil {
		return err
	}

	name := shared.NormalizeName(cmd.StringArg("name"))
	if name == "" {
		pref, err := r.prefs.Get(repositories.PrefLastSet)
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("%w: set name (no previous set to reopen)", shared.ErrMissingArgument)
		}
		if err != nil {
			return fmt.Errorf("failed to read last set: %w", err)
		}
		name = pref.Value()
	}

	if _, err := session.Load(name); err != nil {
		return err
	}
	if err := r.prefs.Put(repositories.PrefLastSet, name); err != nil {
		r.logger.Warn("failed to remember last set", "error", err)
	}

	model := ui.NewModel(session, ui.ModelOpts{
		Title:  name,
		Prefs:  r.prefs,
		Logger: shared.WithLogger(r.logger, "component", "stage"),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running stage view: %w", err)
	}

	return nil
}
