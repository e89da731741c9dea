package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

const helpText = `taskdeck - manage your tasks from the command line

Usage:
  taskdeck [command] [flags] [args]

Running taskdeck with no command prints your task list.

Commands:
  list                    Print your tasks (alias: ls)
  add <title>             Add a task
  edit <number>           Edit a task
  done <number>           Mark a task completed
  reopen <number>         Mark a task pending again (alias: undone)
  rm <number>             Delete a task (alias: del)
  ui                      Open the interactive UI
  status                  Show session and server info
  login                   Log in and store a session token
  logout                  Log out and clear the session token
  register                Create a new account (alias: signup)
  forgot [email]          Request a password reset email
  reset <token>           Set a new password with a reset token
  help                    Show this help
  version                 Show version

Command flags:
  add:     --desc <text>  --status pending|completed
  edit:    --title <text>  --desc <text>  --status pending|completed
  list:    --long
  login:   --email <address>  --remember
  logout:  --forget
  rm:      --force

Common flags:
  --config <dir>   Config directory (default: ~/.config/taskdeck)
  --server <url>   Server base URL (default: http://localhost:8080)
  --quiet          Suppress non-essential output
  --debug          Verbose logging
`

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Show help" }
func (c *HelpCmd) Usage() string     { return "taskdeck help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, rt *Runtime, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}
