package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/session"
	"taskdeck/internal/tasks"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case routeMsg:
		return m.handleRoute(string(msg))

	case loginDoneMsg:
		m.loggingIn = false
		if msg.err != nil {
			m.loginErr = loginErrorText(msg.err)
			m.passwordInput.SetValue("")
			return m, nil
		}
		// The tasks route arrives on its own; nothing to do here.
		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, tasks.ErrBusy) {
				m.note = "another operation is in progress"
			}
			// Auth failures route back to the login view on their
			// own; everything else is in the manager's message slot.
			return m, nil
		}
		m.note = ""
		m.cursor = clampCursor(m.cursor, len(m.app.Manager.Tasks()))
		return m, nil

	case tea.KeyMsg:
		if m.view == viewLogin {
			return m.updateLogin(msg)
		}
		if m.overlay != overlayNone {
			return m.updateOverlay(msg)
		}
		return m.updateTasks(msg)
	}

	return m, nil
}

func (m appModel) handleRoute(route string) (tea.Model, tea.Cmd) {
	switch route {
	case session.RouteTasks:
		m.view = viewTasks
		m.overlay = overlayNone
		m.loginErr = ""
		m.loginNote = ""
		m.passwordInput.SetValue("")
		m.cursor = 0
		return m, tea.Batch(m.listen(), m.reload())

	case session.RouteLogin:
		m.view = viewLogin
		m.overlay = overlayNone
		m.loggingIn = false
		if m.loggingOut {
			m.loginNote = "logged out"
		} else {
			m.loginNote = "session expired, log in again"
		}
		m.loggingOut = false
		m.passwordInput.SetValue("")
		if m.emailInput.Value() == "" {
			m.emailInput.SetValue(m.app.Store.Identity())
		}
		m.focusLogin(fieldEmail)
		return m, m.listen()
	}

	return m, m.listen()
}

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		if m.loginFocus == fieldEmail {
			m.focusLogin(fieldPassword)
		} else {
			m.focusLogin(fieldEmail)
		}
		return m, textinput.Blink

	case "ctrl+r":
		m.remember = !m.remember
		return m, nil

	case "enter":
		if m.loggingIn {
			return m, nil
		}
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passwordInput.Value()
		if email == "" {
			m.loginErr = "email required"
			m.focusLogin(fieldEmail)
			return m, nil
		}
		if password == "" {
			m.loginErr = "password required"
			m.focusLogin(fieldPassword)
			return m, nil
		}
		m.loggingIn = true
		m.loginErr = ""
		return m, m.login(email, password, m.remember)
	}

	var cmd tea.Cmd
	if m.loginFocus == fieldEmail {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.app.Manager.Tasks()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "j", "down":
		m.cursor = clampCursor(m.cursor+1, len(items))
		return m, nil

	case "k", "up":
		m.cursor = clampCursor(m.cursor-1, len(items))
		return m, nil

	case "g", "home":
		m.cursor = 0
		return m, nil

	case "G", "end":
		m.cursor = clampCursor(len(items)-1, len(items))
		return m, nil

	case "r":
		return m, m.reload()

	case "a":
		m.overlay = overlayAdd
		m.titleInput.SetValue("")
		m.descInput.SetValue("")
		m.focusForm(0)
		return m, textinput.Blink

	case "e":
		if len(items) == 0 {
			return m, nil
		}
		if err := m.app.Editor.Start(items[m.cursor].ID); err != nil {
			m.note = err.Error()
			return m, nil
		}
		_, draft, _ := m.app.Editor.Editing()
		m.overlay = overlayEdit
		m.titleInput.SetValue(draft.Title)
		m.descInput.SetValue(draft.Description)
		m.focusForm(0)
		return m, textinput.Blink

	case "x", " ":
		if len(items) == 0 {
			return m, nil
		}
		task := items[m.cursor]
		return m, m.setCompleted(task.ID, !task.Completed)

	case "d":
		if len(items) == 0 {
			return m, nil
		}
		m.overlay = overlayConfirmDelete
		return m, nil

	case "L":
		m.loggingOut = true
		_ = m.app.Session.Logout()
		return m, nil
	}

	return m, nil
}

func (m appModel) updateOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay == overlayConfirmDelete {
		switch msg.String() {
		case "y", "enter":
			m.overlay = overlayNone
			items := m.app.Manager.Tasks()
			if m.cursor < len(items) {
				return m, m.remove(items[m.cursor].ID)
			}
			return m, nil
		case "n", "esc", "ctrl+c":
			m.overlay = overlayNone
			return m, nil
		}
		return m, nil
	}

	// The add and edit overlays share the title/description form.
	switch msg.String() {
	case "esc", "ctrl+c":
		if m.overlay == overlayEdit {
			m.app.Editor.Cancel()
		}
		m.overlay = overlayNone
		return m, nil

	case "tab", "shift+tab", "up", "down":
		m.focusForm(1 - m.formFocus)
		return m, textinput.Blink

	case "enter":
		title := strings.TrimSpace(m.titleInput.Value())
		description := strings.TrimSpace(m.descInput.Value())
		if m.overlay == overlayAdd {
			m.overlay = overlayNone
			return m, m.add(title, description)
		}
		_, draft, ok := m.app.Editor.Editing()
		if !ok {
			m.overlay = overlayNone
			return m, nil
		}
		draft.Title = title
		draft.Description = description
		m.app.Editor.SetDraft(draft)
		m.overlay = overlayNone
		return m, m.saveEdit()
	}

	var cmd tea.Cmd
	if m.formFocus == 0 {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.descInput, cmd = m.descInput.Update(msg)
	}
	return m, cmd
}
