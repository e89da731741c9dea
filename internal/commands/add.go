package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/exitcode"
	"taskdeck/internal/model"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	desc   string
	status string
}

// SetDesc sets the desc flag (for testing).
func (c *AddCmd) SetDesc(desc string) {
	c.desc = desc
}

// SetStatus sets the status flag (for testing).
func (c *AddCmd) SetStatus(status string) {
	c.status = status
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Add a task" }
func (c *AddCmd) Usage() string     { return "taskdeck add [--desc <text>] [--status <status>] <title>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.status, "status", "", "")
}

func (c *AddCmd) Run(ctx context.Context, rt *Runtime, args []string, out, errOut io.Writer) int {
	// Join args to form the title; the manager rejects a blank one.
	title := strings.TrimSpace(strings.Join(args, " "))

	completed := false
	if c.status != "" {
		var err error
		completed, err = model.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if err := rt.Manager.Create(ctx, title, c.desc, completed); err != nil {
		return fail(errOut, err)
	}

	if !rt.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
