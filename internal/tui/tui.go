// Package tui implements the interactive full-screen mode.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/credential"
	"taskdeck/internal/session"
	"taskdeck/internal/tasks"
)

// App carries the wired client stack into the interactive mode.
type App struct {
	Config  *config.Config
	Store   *credential.Store
	Session *session.Controller
	Auth    *api.AuthClient
	Manager *tasks.Manager
	Editor  *tasks.Editor

	// Routes delivers session navigation events. The event loop switches
	// between the login and tasks views on them.
	Routes <-chan string
}

// Run starts the interactive mode and blocks until the user quits or ctx is
// canceled. The credential watcher runs for the whole session, so a login or
// logout by another process moves this one too.
func Run(ctx context.Context, app App) error {
	applyColorPreference()
	app.Session.WatchExternal(ctx)

	_, err := tea.NewProgram(newAppModel(ctx, app), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		// A canceled context is a normal shutdown, not a failure.
		return nil
	}
	return err
}
