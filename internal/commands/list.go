package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command. It is also the default command when
// taskdeck runs without arguments.
type ListCmd struct {
	long bool
}

// SetLong sets the long flag (for testing).
func (c *ListCmd) SetLong(long bool) {
	c.long = long
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "Print your tasks" }
func (c *ListCmd) Usage() string     { return "taskdeck list [--long]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.long, "long", false, "")
}

func (c *ListCmd) Run(ctx context.Context, rt *Runtime, args []string, out, errOut io.Writer) int {
	if err := rt.Manager.Load(ctx); err != nil {
		return fail(errOut, err)
	}

	items := rt.Manager.Tasks()
	if len(items) == 0 {
		if !rt.Config.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for i, task := range items {
		if c.long {
			output.FormatTaskLong(out, i+1, task)
		} else {
			output.FormatTask(out, i+1, task)
		}
	}

	if !rt.Config.Quiet {
		pending, completed := rt.Manager.Counts()
		output.FormatSummary(out, pending, completed)
	}

	return exitcode.Success
}
