package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/exitcode"
)

func init() {
	Register(&ForgotCmd{})
}

// ForgotCmd implements the forgot command.
type ForgotCmd struct{}

func (c *ForgotCmd) Name() string      { return "forgot" }
func (c *ForgotCmd) Aliases() []string { return nil }
func (c *ForgotCmd) Synopsis() string  { return "Request a password reset email" }
func (c *ForgotCmd) Usage() string     { return "taskdeck forgot [email]" }
func (c *ForgotCmd) NeedsAuth() bool   { return false }

func (c *ForgotCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ForgotCmd) Run(ctx context.Context, rt *Runtime, args []string, out, errOut io.Writer) int {
	email := strings.TrimSpace(strings.Join(args, " "))
	if email == "" {
		var err error
		email, err = rt.Input.Line(errOut, "Email: ")
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if email == "" {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}

	if err := rt.Auth.ForgotPassword(ctx, email); err != nil {
		return fail(errOut, err)
	}

	if !rt.Config.Quiet {
		fmt.Fprintln(out, "ok, check your email for a reset token")
	}
	return exitcode.Success
}
