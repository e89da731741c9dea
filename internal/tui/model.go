package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/session"
)

type view int

const (
	viewLogin view = iota
	viewTasks
)

type overlay int

const (
	overlayNone overlay = iota
	overlayAdd
	overlayEdit
	overlayConfirmDelete
)

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
)

type appModel struct {
	ctx context.Context
	app App

	width  int
	height int

	view    view
	overlay overlay

	spinner spinner.Model

	// login view
	emailInput    textinput.Model
	passwordInput textinput.Model
	loginFocus    loginField
	remember      bool
	loggingIn     bool
	loginErr      string
	loginNote     string

	// tasks view
	cursor     int
	note       string
	loggingOut bool

	// shared form for the add and edit overlays
	titleInput textinput.Model
	descInput  textinput.Model
	formFocus  int
}

func newAppModel(ctx context.Context, app App) appModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Width = 40
	if stored := app.Store.Identity(); stored != "" {
		email.SetValue(stored)
	}

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	password.Width = 40

	title := textinput.New()
	title.Placeholder = "what needs doing?"
	title.CharLimit = 256
	title.Width = 48

	desc := textinput.New()
	desc.Placeholder = "details (optional)"
	desc.CharLimit = 1024
	desc.Width = 48

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styleAccent()

	m := appModel{
		ctx:           ctx,
		app:           app,
		view:          viewLogin,
		spinner:       sp,
		emailInput:    email,
		passwordInput: password,
		titleInput:    title,
		descInput:     desc,
	}
	if app.Session.State() == session.Authenticated {
		m.view = viewTasks
	} else {
		m.focusLogin(fieldEmail)
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.listen(), textinput.Blink}
	if m.view == viewTasks {
		cmds = append(cmds, m.reload())
	}
	return tea.Batch(cmds...)
}

func (m *appModel) focusLogin(f loginField) {
	m.loginFocus = f
	m.emailInput.Blur()
	m.passwordInput.Blur()
	if f == fieldEmail {
		m.emailInput.Focus()
	} else {
		m.passwordInput.Focus()
	}
}

func (m *appModel) focusForm(f int) {
	m.formFocus = f
	m.titleInput.Blur()
	m.descInput.Blur()
	if f == 0 {
		m.titleInput.Focus()
	} else {
		m.descInput.Focus()
	}
}

// statusText picks the line for the status row. The collection manager's
// message slot wins; transient UI notes fill the gaps it never covers.
func (m appModel) statusText() string {
	if msg := m.app.Manager.Message(); msg != "" {
		return msg
	}
	return m.note
}

func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
