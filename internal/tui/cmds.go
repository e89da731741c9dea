package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
)

// routeMsg is a session navigation event read off App.Routes.
type routeMsg string

// loginDoneMsg reports the outcome of a login attempt.
type loginDoneMsg struct{ err error }

// opDoneMsg reports the outcome of a collection operation. The collection
// itself is read back from the manager, never carried in the message.
type opDoneMsg struct{ err error }

// listen waits for the next session navigation event. The handler re-arms it
// after every event.
func (m appModel) listen() tea.Cmd {
	ch := m.app.Routes
	return func() tea.Msg {
		route, ok := <-ch
		if !ok {
			return nil
		}
		return routeMsg(route)
	}
}

func (m appModel) login(email, password string, remember bool) tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		token, err := app.Auth.Login(ctx, email, password)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		identity := ""
		if remember {
			identity = email
		}
		// A successful LoggedIn emits the tasks route; the view switch
		// rides in on that event.
		return loginDoneMsg{err: app.Session.LoggedIn(token, identity)}
	}
}

func (m appModel) reload() tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: app.Manager.Load(ctx)}
	}
}

func (m appModel) add(title, description string) tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: app.Manager.Create(ctx, title, description, false)}
	}
}

func (m appModel) saveEdit() tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: app.Editor.Save(ctx)}
	}
}

func (m appModel) remove(id model.ID) tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: app.Manager.Delete(ctx, id)}
	}
}

func (m appModel) setCompleted(id model.ID, completed bool) tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		if err := app.Editor.Start(id); err != nil {
			return opDoneMsg{err: err}
		}
		_, draft, _ := app.Editor.Editing()
		draft.Completed = completed
		app.Editor.SetDraft(draft)
		return opDoneMsg{err: app.Editor.Save(ctx)}
	}
}

// loginErrorText renders a login failure for the login view.
func loginErrorText(err error) string {
	var sErr *api.ServerError
	if errors.As(err, &sErr) {
		return sErr.Message
	}
	var tErr *api.TransportError
	if errors.As(err, &tErr) {
		return "cannot reach the server, check your connection"
	}
	return err.Error()
}
