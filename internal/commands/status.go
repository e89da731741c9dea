package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/exitcode"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd implements the status command. It reports local state only and
// never talks to the server.
type StatusCmd struct{}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Show session and server info" }
func (c *StatusCmd) Usage() string     { return "taskdeck status" }
func (c *StatusCmd) NeedsAuth() bool   { return false }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, rt *Runtime, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "server:   %s\n", rt.Config.ServerURL)
	fmt.Fprintf(out, "session:  %s\n", rt.Session.State())
	if identity := rt.Store.Identity(); identity != "" {
		fmt.Fprintf(out, "identity: %s\n", identity)
	}
	return exitcode.Success
}
