package credential_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"taskdeck/internal/config"
	"taskdeck/internal/credential"
)

func newStore(t *testing.T) (*credential.Store, *config.Config) {
	t.Helper()
	cfg := &config.Config{Dir: t.TempDir()}
	return credential.New(cfg), cfg
}

func TestSetTokenRoundTrip(t *testing.T) {
	store, cfg := newStore(t)

	require.NoError(t, store.SetToken("tok-123"))

	got, ok := store.Token()
	require.True(t, ok, "token should be present after SetToken")
	assert.Equal(t, "tok-123", got)

	// the file on disk is an oauth2 token document with tight permissions
	data, err := os.ReadFile(cfg.TokenPath())
	require.NoError(t, err)
	var tok oauth2.Token
	require.NoError(t, json.Unmarshal(data, &tok))
	assert.Equal(t, "tok-123", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)

	info, err := os.Stat(cfg.TokenPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestTokenAbsent(t *testing.T) {
	store, _ := newStore(t)

	_, ok := store.Token()
	assert.False(t, ok)
}

func TestTokenUnreadableReadsAsLoggedOut(t *testing.T) {
	store, cfg := newStore(t)
	require.NoError(t, os.MkdirAll(cfg.Dir, 0700))
	require.NoError(t, os.WriteFile(cfg.TokenPath(), []byte("not json"), 0600))

	_, ok := store.Token()
	assert.False(t, ok, "corrupt token file must read as no credential")
}

func TestClearIsIdempotent(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.SetToken("tok"))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, ok := store.Token()
	assert.False(t, ok)
}

func TestIdentityRoundTrip(t *testing.T) {
	store, _ := newStore(t)

	assert.Empty(t, store.Identity())
	require.NoError(t, store.SetIdentity("me@example.com"))
	assert.Equal(t, "me@example.com", store.Identity())

	require.NoError(t, store.ClearIdentity())
	require.NoError(t, store.ClearIdentity())
	assert.Empty(t, store.Identity())
}

func TestWatchSeesExternalChange(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	store := credential.New(cfg)
	store.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan bool, 4)
	store.Watch(ctx, func(_ string, ok bool) { events <- ok })

	// another process logs in: write the token file behind the store's back
	other := credential.New(cfg)
	require.NoError(t, other.SetToken("external"))

	select {
	case ok := <-events:
		assert.True(t, ok, "external login should report a present token")
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not report external token write")
	}

	// and logs out again
	require.NoError(t, other.Clear())
	select {
	case ok := <-events:
		assert.False(t, ok, "external logout should report an absent token")
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not report external token removal")
	}
}

func TestWatchIgnoresOwnWrites(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	store := credential.New(cfg)
	store.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan bool, 4)
	store.Watch(ctx, func(_ string, ok bool) { events <- ok })

	require.NoError(t, store.SetToken("mine"))
	require.NoError(t, store.Clear())

	select {
	case <-events:
		t.Fatal("watch reported the store's own writes")
	case <-time.After(100 * time.Millisecond):
	}
}
