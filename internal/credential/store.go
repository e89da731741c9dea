// Package credential stores the session token and the remembered sign-in
// email under the config directory, and reports token changes made by other
// processes.
package credential

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"taskdeck/internal/config"
	"taskdeck/internal/logging"
)

// WatchInterval is the default poll interval for external token changes.
const WatchInterval = 500 * time.Millisecond

// Store persists the session credential. A non-empty stored token is the
// single source of truth for "a session is active". All taskdeck processes
// of one user share the same files, so a login or logout in one process is
// visible to the others.
type Store struct {
	cfg *config.Config

	// Interval is the poll interval used by Watch.
	Interval time.Duration

	mu   sync.Mutex
	last state
}

type state struct {
	token string
	ok    bool
}

// New creates a Store over cfg's token and identity files. The current token
// state is recorded so Watch only reports changes made after construction.
func New(cfg *config.Config) *Store {
	s := &Store{cfg: cfg, Interval: WatchInterval}
	tok, ok := s.readToken()
	s.last = state{tok, ok}
	return s
}

// Token returns the stored session token. Missing or unreadable token files
// read as "no credential"; the store never reports a session it cannot prove.
func (s *Store) Token() (string, bool) {
	return s.readToken()
}

func (s *Store) readToken() (string, bool) {
	data, err := os.ReadFile(s.cfg.TokenPath())
	if err != nil {
		return "", false
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return "", false
	}
	if tok.AccessToken == "" {
		return "", false
	}
	return tok.AccessToken, true
}

// SetToken persists the session token with mode 0600.
func (s *Store) SetToken(token string) error {
	if err := s.cfg.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}, "", "  ")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.cfg.TokenPath(), data, 0600); err != nil {
		return err
	}
	s.last = state{token, true}
	logging.WithComponent("credential").Debug("token stored")
	return nil
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.cfg.TokenPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	s.last = state{}
	logging.WithComponent("credential").Debug("token cleared")
	return nil
}

// Identity returns the remembered sign-in email, or "" if none is stored.
func (s *Store) Identity() string {
	data, err := os.ReadFile(s.cfg.IdentityPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetIdentity remembers the sign-in email across logins.
func (s *Store) SetIdentity(email string) error {
	if err := s.cfg.EnsureDir(); err != nil {
		return err
	}
	return os.WriteFile(s.cfg.IdentityPath(), []byte(email+"\n"), 0600)
}

// ClearIdentity forgets the remembered sign-in email.
func (s *Store) ClearIdentity() error {
	if err := os.Remove(s.cfg.IdentityPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Watch polls the token file until ctx is done and invokes onChange for every
// change made by another process. Writes through this store are recorded
// before they reach disk, so they never come back as change events. onChange
// receives the new token state and runs on the watch goroutine.
func (s *Store) Watch(ctx context.Context, onChange func(token string, ok bool)) {
	go func() {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tok, ok, changed := s.poll()
				if changed {
					logging.WithComponent("credential").WithField("present", ok).
						Info("token changed externally")
					onChange(tok, ok)
				}
			}
		}
	}()
}

func (s *Store) poll() (string, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.readToken()
	if tok == s.last.token && ok == s.last.ok {
		return "", false, false
	}
	s.last = state{tok, ok}
	return tok, ok, true
}
