package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/exitcode"
	"taskdeck/internal/model"
)

func init() {
	Register(&EditCmd{})
}

// optionalString is a flag value that records whether it was set, so an
// explicit empty string can clear a field.
type optionalString struct {
	set   bool
	value string
}

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

func (o *optionalString) String() string { return o.value }

// EditCmd implements the edit command.
type EditCmd struct {
	title  optionalString
	desc   optionalString
	status optionalString
}

// SetTitle sets the title flag (for testing).
func (c *EditCmd) SetTitle(title string) {
	_ = c.title.Set(title)
}

// SetDesc sets the desc flag (for testing).
func (c *EditCmd) SetDesc(desc string) {
	_ = c.desc.Set(desc)
}

// SetStatus sets the status flag (for testing).
func (c *EditCmd) SetStatus(status string) {
	_ = c.status.Set(status)
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "taskdeck edit [--title <text>] [--desc <text>] [--status <status>] <number>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.title, "title", "")
	fs.Var(&c.desc, "desc", "")
	fs.Var(&c.status, "status", "")
}

func (c *EditCmd) Run(ctx context.Context, rt *Runtime, args []string, out, errOut io.Writer) int {
	if !c.title.set && !c.desc.set && !c.status.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title, --desc or --status)")
		return exitcode.UserError
	}

	completed := false
	if c.status.set {
		var err error
		completed, err = model.ParseStatus(c.status.value)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	task, code, ok := resolveTask(ctx, rt, args, errOut)
	if !ok {
		return code
	}

	if err := rt.Editor.Start(task.ID); err != nil {
		return fail(errOut, err)
	}

	_, draft, _ := rt.Editor.Editing()
	if c.title.set {
		draft.Title = c.title.value
	}
	if c.desc.set {
		draft.Description = c.desc.value
	}
	if c.status.set {
		draft.Completed = completed
	}
	rt.Editor.SetDraft(draft)

	if err := rt.Editor.Save(ctx); err != nil {
		return fail(errOut, err)
	}

	if !rt.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
