package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/exitcode"
	"taskdeck/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command. It needs no stored session up front: the
// interactive mode opens on the login view when nobody is logged in.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Open the interactive UI" }
func (c *UICmd) Usage() string     { return "taskdeck ui" }
func (c *UICmd) NeedsAuth() bool   { return false }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, rt *Runtime, args []string, out, errOut io.Writer) int {
	app := tui.App{
		Config:  rt.Config,
		Store:   rt.Store,
		Session: rt.Session,
		Auth:    rt.Auth,
		Manager: rt.Manager,
		Editor:  rt.Editor,
		Routes:  rt.Routes.Subscribe(),
	}
	if err := tui.Run(ctx, app); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
