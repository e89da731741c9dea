package tui

import (
	"fmt"
	"strings"

	"taskdeck/internal/model"
)

const (
	helpTasks = "a: add   e: edit   x: toggle   d: delete   r: reload   L: logout   q: quit"
	helpLogin = "enter: sign in   tab: next field   ctrl+r: remember me   esc: quit"
	helpForm  = "enter: save   tab: next field   esc: cancel"
)

func (m appModel) View() string {
	if m.view == viewLogin {
		return m.viewLogin()
	}
	return m.viewTasks()
}

func (m appModel) viewLogin() string {
	var b strings.Builder

	b.WriteString(styleTitle().Render("taskdeck") + "\n")
	b.WriteString(styleMuted().Render(m.app.Config.ServerURL) + "\n\n")

	b.WriteString(styleMuted().Render("email") + "\n")
	b.WriteString(m.emailInput.View() + "\n\n")
	b.WriteString(styleMuted().Render("password") + "\n")
	b.WriteString(m.passwordInput.View() + "\n\n")

	check := "[ ]"
	if m.remember {
		check = "[x]"
	}
	b.WriteString(check + " remember me\n")

	if m.loggingIn {
		b.WriteString("\n" + m.spinner.View() + " signing in\n")
	}
	if m.loginErr != "" {
		b.WriteString("\n" + styleError().Render(m.loginErr) + "\n")
	} else if m.loginNote != "" {
		b.WriteString("\n" + styleMuted().Render(m.loginNote) + "\n")
	}

	b.WriteString("\n" + styleMuted().Render(helpLogin) + "\n")
	return b.String()
}

func (m appModel) viewTasks() string {
	var b strings.Builder

	header := styleTitle().Render("taskdeck")
	if m.app.Manager.Busy() {
		header += " " + m.spinner.View()
	}
	b.WriteString(header + "\n")

	pending, completed := m.app.Manager.Counts()
	b.WriteString(styleMuted().Render(fmt.Sprintf("%d pending, %d completed", pending, completed)) + "\n\n")

	switch m.overlay {
	case overlayAdd:
		b.WriteString(m.renderForm("add task"))
	case overlayEdit:
		b.WriteString(m.renderForm("edit task"))
	case overlayConfirmDelete:
		b.WriteString(m.renderConfirm())
	default:
		b.WriteString(m.renderList())
	}

	if status := m.statusText(); status != "" {
		b.WriteString("\n" + styleError().Render(status) + "\n")
	}
	b.WriteString("\n" + styleMuted().Render(helpTasks) + "\n")
	return b.String()
}

func (m appModel) renderList() string {
	items := m.app.Manager.Tasks()
	if len(items) == 0 {
		return styleMuted().Render("no tasks yet, press a to add one") + "\n"
	}

	var b strings.Builder
	for i, task := range items {
		line := fmt.Sprintf("[%s] %s", checkGlyph(task), task.Title)
		switch {
		case i == m.cursor:
			b.WriteString(styleSelected().Render("▸ "+line) + "\n")
			if task.Description != "" {
				b.WriteString(styleMuted().Render("    "+task.Description) + "\n")
			}
		case task.Completed:
			b.WriteString(styleDone().Render("  "+line) + "\n")
		default:
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func (m appModel) renderForm(title string) string {
	body := strings.Join([]string{
		styleTitle().Render(title),
		"",
		styleMuted().Render("title"),
		m.titleInput.View(),
		"",
		styleMuted().Render("description"),
		m.descInput.View(),
		"",
		styleMuted().Render(helpForm),
	}, "\n")
	return styleBox().Render(body) + "\n"
}

func (m appModel) renderConfirm() string {
	items := m.app.Manager.Tasks()
	if m.cursor >= len(items) {
		return ""
	}
	body := fmt.Sprintf("delete %q?", items[m.cursor].Title) +
		"\n\n" + styleMuted().Render("y: delete   n: keep")
	return styleBox().Render(body) + "\n"
}

func checkGlyph(t model.Task) string {
	if t.Completed {
		return "x"
	}
	return " "
}
