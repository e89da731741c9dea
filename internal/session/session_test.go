package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/config"
	"taskdeck/internal/credential"
	"taskdeck/internal/session"
)

type recordingNav struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNav) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *recordingNav) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

func newController(t *testing.T) (*session.Controller, *credential.Store, *recordingNav) {
	t.Helper()
	store := credential.New(&config.Config{Dir: t.TempDir()})
	nav := &recordingNav{}
	return session.NewController(store, nav), store, nav
}

func TestInitialStateFromStore(t *testing.T) {
	store := credential.New(&config.Config{Dir: t.TempDir()})
	require.NoError(t, store.SetToken("tok"))

	ctrl := session.NewController(store, &recordingNav{})
	assert.Equal(t, session.Authenticated, ctrl.State())

	empty := credential.New(&config.Config{Dir: t.TempDir()})
	ctrl = session.NewController(empty, &recordingNav{})
	assert.Equal(t, session.Unauthenticated, ctrl.State())
}

func TestLoggedIn(t *testing.T) {
	ctrl, store, nav := newController(t)

	require.NoError(t, ctrl.LoggedIn("tok-1", "me@example.com"))

	assert.Equal(t, session.Authenticated, ctrl.State())
	tok, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, "me@example.com", store.Identity())
	assert.Equal(t, []string{session.RouteTasks}, nav.all())
}

func TestLoggedInWithoutRemember(t *testing.T) {
	ctrl, store, _ := newController(t)

	require.NoError(t, ctrl.LoggedIn("tok-1", ""))
	assert.Empty(t, store.Identity())
}

func TestLogoutClearsAndRoutesOnce(t *testing.T) {
	ctrl, store, nav := newController(t)
	require.NoError(t, ctrl.LoggedIn("tok", ""))

	require.NoError(t, ctrl.Logout())
	assert.Equal(t, session.Unauthenticated, ctrl.State())
	_, ok := store.Token()
	assert.False(t, ok)

	// a second logout changes nothing
	require.NoError(t, ctrl.Logout())
	assert.Equal(t, []string{session.RouteTasks, session.RouteLogin}, nav.all())
}

func TestLogoutKeepsIdentity(t *testing.T) {
	ctrl, store, _ := newController(t)
	require.NoError(t, ctrl.LoggedIn("tok", "me@example.com"))

	require.NoError(t, ctrl.Logout())
	assert.Equal(t, "me@example.com", store.Identity(), "remembered email survives logout")
}

func TestConcurrentExpireCollapses(t *testing.T) {
	ctrl, store, nav := newController(t)
	require.NoError(t, ctrl.LoggedIn("tok", ""))
	nav.mu.Lock()
	nav.routes = nil
	nav.mu.Unlock()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctrl.Expire("server returned 401")
		}()
	}
	wg.Wait()

	assert.Equal(t, session.Unauthenticated, ctrl.State())
	_, ok := store.Token()
	assert.False(t, ok)
	assert.Equal(t, []string{session.RouteLogin}, nav.all(), "concurrent expiries must navigate exactly once")
}

func TestHandleTokenChangeRemoval(t *testing.T) {
	ctrl, _, nav := newController(t)
	require.NoError(t, ctrl.LoggedIn("tok", ""))

	ctrl.HandleTokenChange("", false)

	assert.Equal(t, session.Unauthenticated, ctrl.State())
	assert.Equal(t, []string{session.RouteTasks, session.RouteLogin}, nav.all())
}

func TestHandleTokenChangeAdoptsExternalLogin(t *testing.T) {
	ctrl, _, nav := newController(t)

	ctrl.HandleTokenChange("external-tok", true)

	assert.Equal(t, session.Authenticated, ctrl.State())
	assert.Equal(t, []string{session.RouteTasks}, nav.all())

	// a replaced token while authenticated is the same session
	ctrl.HandleTokenChange("rotated-tok", true)
	assert.Equal(t, []string{session.RouteTasks}, nav.all())
}

func TestWatchExternalEndToEnd(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	store := credential.New(cfg)
	store.Interval = 10 * time.Millisecond
	nav := &recordingNav{}
	ctrl := session.NewController(store, nav)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrl.WatchExternal(ctx)

	// a second process logs in
	other := credential.New(cfg)
	require.NoError(t, other.SetToken("from-other-terminal"))

	require.Eventually(t, func() bool {
		return ctrl.State() == session.Authenticated
	}, 2*time.Second, 10*time.Millisecond, "controller should adopt the external login")
	assert.Equal(t, []string{session.RouteTasks}, nav.all())

	// and logs out again
	require.NoError(t, other.Clear())
	require.Eventually(t, func() bool {
		return ctrl.State() == session.Unauthenticated
	}, 2*time.Second, 10*time.Millisecond, "controller should expire after the external logout")
}
