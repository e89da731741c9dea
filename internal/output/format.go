// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/model"
)

const (
	// ListSeparator is the separator line above the summary.
	ListSeparator = "------------"
)

// FormatTask formats a task line.
// Format: "{N:>4}  [{X}] {TITLE}\n" (4-wide right-aligned number, checkbox, title)
func FormatTask(w io.Writer, num int, task model.Task) {
	fmt.Fprintf(w, "%4d  [%s] %s\n", num, checkbox(task), normalizeTitle(task.Title))
}

// FormatTaskLong formats a task line followed by its description, if any.
func FormatTaskLong(w io.Writer, num int, task model.Task) {
	FormatTask(w, num, task)
	if strings.TrimSpace(task.Description) != "" {
		fmt.Fprintf(w, "      %s\n", flattenLines(task.Description))
	}
}

// FormatSummary formats the separator and counts line under a task list.
func FormatSummary(w io.Writer, pending, completed int) {
	total := pending + completed
	noun := "tasks"
	if total == 1 {
		noun = "task"
	}
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "%d %s: %d pending, %d completed\n", total, noun, pending, completed)
}

func checkbox(task model.Task) string {
	if task.Completed {
		return "x"
	}
	return " "
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = flattenLines(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func flattenLines(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
