package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/exitcode"
)

func init() {
	Register(&DoneCmd{})
	Register(&ReopenCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "taskdeck done <number>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, rt *Runtime, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, rt, args, true, out, errOut)
}

// ReopenCmd implements the reopen command.
type ReopenCmd struct{}

func (c *ReopenCmd) Name() string      { return "reopen" }
func (c *ReopenCmd) Aliases() []string { return []string{"undone"} }
func (c *ReopenCmd) Synopsis() string  { return "Mark a task pending again" }
func (c *ReopenCmd) Usage() string     { return "taskdeck reopen <number>" }
func (c *ReopenCmd) NeedsAuth() bool   { return true }

func (c *ReopenCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ReopenCmd) Run(ctx context.Context, rt *Runtime, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, rt, args, false, out, errOut)
}

// runSetCompleted is the shared implementation for done and reopen. Both are
// plain edits that only touch the completed flag.
func runSetCompleted(ctx context.Context, rt *Runtime, args []string, completed bool, out, errOut io.Writer) int {
	task, code, ok := resolveTask(ctx, rt, args, errOut)
	if !ok {
		return code
	}

	if err := rt.Editor.Start(task.ID); err != nil {
		return fail(errOut, err)
	}

	_, draft, _ := rt.Editor.Editing()
	draft.Completed = completed
	rt.Editor.SetDraft(draft)

	if err := rt.Editor.Save(ctx); err != nil {
		return fail(errOut, err)
	}

	if !rt.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
