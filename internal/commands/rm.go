package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/exitcode"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *RmCmd) SetForce(force bool) {
	c.force = force
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"del"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskdeck rm [--force] <number>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *RmCmd) Run(ctx context.Context, rt *Runtime, args []string, out, errOut io.Writer) int {
	task, code, ok := resolveTask(ctx, rt, args, errOut)
	if !ok {
		return code
	}

	// Deletion is unrecoverable, so ask before touching the server.
	if !c.force {
		prompt := fmt.Sprintf("delete %q? [y/N] ", task.Title)
		if !rt.Input.Confirm(errOut, prompt) {
			if !rt.Config.Quiet {
				fmt.Fprintln(out, "aborted")
			}
			return exitcode.Success
		}
	}

	if err := rt.Manager.Delete(ctx, task.ID); err != nil {
		return fail(errOut, err)
	}

	if !rt.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
