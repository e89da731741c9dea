// Package session tracks whether the client is signed in and drives the
// route changes that come with signing in and out.
package session

import (
	"context"
	"sync"

	"taskdeck/internal/credential"
	"taskdeck/internal/logging"
)

// Routes the controller navigates to.
const (
	RouteLogin = "login"
	RouteTasks = "tasks"
)

// State is the authentication state of the client.
type State int

const (
	// Unauthenticated means no session credential is stored.
	Unauthenticated State = iota

	// Authenticated means a session credential is stored.
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Navigator moves the user interface to a route after a session transition.
// The interactive mode switches views; the one-shot CLI has nowhere to go,
// so its navigator only records the event.
type Navigator interface {
	Navigate(route string)
}

// Controller owns the session state machine. Transitions happen on login, on
// logout, when the server rejects the credential, and when another process
// changes the stored token. The controller never decides routes by itself
// beyond the fixed login/tasks pair.
type Controller struct {
	store *credential.Store
	nav   Navigator

	mu    sync.Mutex
	state State
}

// NewController derives the initial state from the credential store.
func NewController(store *credential.Store, nav Navigator) *Controller {
	state := Unauthenticated
	if _, ok := store.Token(); ok {
		state = Authenticated
	}
	return &Controller{store: store, nav: nav, state: state}
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LoggedIn stores the fresh token, remembers the sign-in email when one is
// given, and routes to the task view.
func (c *Controller) LoggedIn(token, rememberEmail string) error {
	if err := c.store.SetToken(token); err != nil {
		return err
	}
	if rememberEmail != "" {
		if err := c.store.SetIdentity(rememberEmail); err != nil {
			return err
		}
	}
	c.mu.Lock()
	c.state = Authenticated
	c.mu.Unlock()
	logging.WithComponent("session").Info("logged in")
	c.nav.Navigate(RouteTasks)
	return nil
}

// Logout ends the session on the user's request. Logging out while already
// logged out is a no-op.
func (c *Controller) Logout() error {
	return c.end("logout")
}

// Expire force-ends the session after the credential was rejected or
// removed. Concurrent expiries collapse into one transition: the credential
// is cleared once and login is navigated to once.
func (c *Controller) Expire(reason string) {
	if err := c.end(reason); err != nil {
		logging.WithComponent("session").WithError(err).Warn("credential clear failed")
	}
}

func (c *Controller) end(reason string) error {
	c.mu.Lock()
	if c.state == Unauthenticated {
		c.mu.Unlock()
		return nil
	}
	c.state = Unauthenticated
	c.mu.Unlock()

	// clear first, then navigate; a clear failure still lands on login
	err := c.store.Clear()
	logging.WithComponent("session").WithField("reason", reason).Info("session ended")
	c.nav.Navigate(RouteLogin)
	return err
}

// HandleTokenChange reacts to a token change made by another process. A
// removed token expires this session; a token appearing while logged out
// means another process logged in, and this one adopts the session.
func (c *Controller) HandleTokenChange(token string, present bool) {
	if !present {
		c.Expire("token removed by another process")
		return
	}
	c.mu.Lock()
	if c.state == Authenticated {
		// replaced token, same session
		c.mu.Unlock()
		return
	}
	c.state = Authenticated
	c.mu.Unlock()
	logging.WithComponent("session").Info("session adopted from another process")
	c.nav.Navigate(RouteTasks)
}

// WatchExternal feeds external token changes into the controller until ctx
// is done.
func (c *Controller) WatchExternal(ctx context.Context) {
	c.store.Watch(ctx, c.HandleTokenChange)
}
