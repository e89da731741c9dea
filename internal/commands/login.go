package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"

	"taskdeck/internal/api"
	"taskdeck/internal/exitcode"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	remember bool
}

// SetEmail sets the email flag (for testing).
func (c *LoginCmd) SetEmail(email string) {
	c.email = email
}

// SetRemember sets the remember flag (for testing).
func (c *LoginCmd) SetRemember(remember bool) {
	c.remember = remember
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in and store a session token" }
func (c *LoginCmd) Usage() string     { return "taskdeck login [--email <address>] [--remember]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.BoolVar(&c.remember, "remember", false, "")
}

func (c *LoginCmd) Run(ctx context.Context, rt *Runtime, args []string, out, errOut io.Writer) int {
	email := c.email
	if email == "" {
		// A remembered address becomes the prompt default; an empty
		// answer accepts it.
		stored := rt.Store.Identity()
		prompt := "Email: "
		if stored != "" {
			prompt = fmt.Sprintf("Email [%s]: ", stored)
		}
		line, err := rt.Input.Line(errOut, prompt)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		if line == "" {
			line = stored
		}
		email = line
	}
	if email == "" {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}

	password, err := rt.Input.Secret(errOut, "Password: ")
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if password == "" {
		fmt.Fprintln(errOut, "error: password required")
		return exitcode.UserError
	}

	token, err := rt.Auth.Login(ctx, email, password)
	if err != nil {
		var sErr *api.ServerError
		if errors.As(err, &sErr) && (sErr.Status == http.StatusUnauthorized || sErr.Status == http.StatusForbidden) {
			fmt.Fprintf(errOut, "error: %s\n", sErr.Message)
			return exitcode.AuthError
		}
		return fail(errOut, err)
	}

	identity := ""
	if c.remember {
		identity = email
	}
	if err := rt.Session.LoggedIn(token, identity); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !rt.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
