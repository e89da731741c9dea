package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/credential"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/logging"
	"taskdeck/internal/session"
	"taskdeck/internal/tasks"
)

// Runtime bundles everything a command needs: configuration, the credential
// store, the session controller, the API clients and the task state. The
// dispatcher builds one per invocation.
type Runtime struct {
	Config  *config.Config
	Store   *credential.Store
	Session *session.Controller
	Auth    *api.AuthClient
	Manager *tasks.Manager
	Editor  *tasks.Editor
	Routes  *RouteRelay
	Input   *Input
}

// NewRuntime wires the full client stack over cfg. stdin feeds interactive
// prompts and confirmations.
func NewRuntime(cfg *config.Config, stdin io.Reader) *Runtime {
	store := credential.New(cfg)
	routes := NewRouteRelay()
	ctrl := session.NewController(store, routes)
	gw := api.NewGateway(cfg, store, ctrl)
	mgr := tasks.NewManager(api.NewClient(gw))
	return &Runtime{
		Config:  cfg,
		Store:   store,
		Session: ctrl,
		Auth:    api.NewAuthClient(cfg),
		Manager: mgr,
		Editor:  tasks.NewEditor(mgr),
		Routes:  routes,
		Input:   NewInput(stdin),
	}
}

// RouteRelay carries session navigation events to whichever surface is
// active. One-shot commands have no views, so unclaimed events are only
// logged; the interactive UI subscribes and switches views on them.
type RouteRelay struct {
	mu  sync.Mutex
	ch  chan string
	log *logrus.Entry
}

// NewRouteRelay creates a relay with no subscriber.
func NewRouteRelay() *RouteRelay {
	return &RouteRelay{log: logging.WithComponent("nav")}
}

// Navigate implements session.Navigator.
func (r *RouteRelay) Navigate(route string) {
	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()
	if ch == nil {
		r.log.WithField("route", route).Debug("no active view")
		return
	}
	select {
	case ch <- route:
	default:
		// The UI drains this channel on every event loop pass; a full
		// buffer means it is gone, not slow.
		r.log.WithField("route", route).Warn("dropped navigation event")
	}
}

// Subscribe returns the channel the interactive UI listens on.
func (r *RouteRelay) Subscribe() <-chan string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ch == nil {
		r.ch = make(chan string, 8)
	}
	return r.ch
}

// Input wraps stdin for prompts. Reads are line oriented; Secret masks the
// echo when stdin is a terminal and falls back to a plain line read when it
// is a pipe.
type Input struct {
	r   *bufio.Reader
	fd  int
	tty bool
}

// NewInput wraps r for interactive prompts.
func NewInput(r io.Reader) *Input {
	in := &Input{r: bufio.NewReader(r)}
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		in.fd = int(f.Fd())
		in.tty = true
	}
	return in
}

// Line prints prompt to w and reads one trimmed line.
func (in *Input) Line(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := in.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Secret is Line without echo on terminals.
func (in *Input) Secret(w io.Writer, prompt string) (string, error) {
	if !in.tty {
		return in.Line(w, prompt)
	}
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(in.fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Confirm asks a yes/no question. Only "y" and "yes" count as yes; end of
// input counts as a decline.
func (in *Input) Confirm(w io.Writer, prompt string) bool {
	line, err := in.Line(w, prompt)
	if err != nil {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

// fail prints err the way every command reports failures and picks the
// matching exit code.
func fail(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, api.ErrNoCredential):
		fmt.Fprintln(errOut, "error: not logged in (run: taskdeck login)")
		return exitcode.AuthError
	case errors.Is(err, api.ErrUnauthorized):
		fmt.Fprintln(errOut, "error: session expired (run: taskdeck login)")
		return exitcode.AuthError
	case errors.Is(err, tasks.ErrBusy):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	var vErr *tasks.ValidationError
	if errors.As(err, &vErr) {
		fmt.Fprintf(errOut, "error: %v\n", vErr)
		return exitcode.UserError
	}

	var sErr *api.ServerError
	if errors.As(err, &sErr) {
		// 4xx replies carry a message meant for the user; 5xx is the
		// server's problem and keeps the status for bug reports.
		if sErr.Status >= 500 {
			fmt.Fprintf(errOut, "error: %v\n", sErr)
			return exitcode.BackendError
		}
		fmt.Fprintf(errOut, "error: %s\n", sErr.Message)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.BackendError
}
