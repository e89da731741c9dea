package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
)

type staticToken struct {
	token string
	ok    bool
}

func (s staticToken) Token() (string, bool) { return s.token, s.ok }

type recordingExpirer struct {
	reasons []string
}

func (r *recordingExpirer) Expire(reason string) { r.reasons = append(r.reasons, reason) }

func newGateway(t *testing.T, url string, tokens api.TokenSource) (*api.Gateway, *recordingExpirer) {
	t.Helper()
	exp := &recordingExpirer{}
	cfg := &config.Config{ServerURL: url, Timeout: 2 * time.Second}
	return api.NewGateway(cfg, tokens, exp), exp
}

func TestDoAttachesBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	gw, exp := newGateway(t, srv.URL, staticToken{"tok-1", true})
	data, err := gw.Do(context.Background(), http.MethodGet, "/api/tasks", nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
	assert.Empty(t, exp.reasons)
}

func TestDoWithoutCredentialNeverSends(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached the server without a credential")
	}))
	defer srv.Close()

	gw, exp := newGateway(t, srv.URL, staticToken{})
	_, err := gw.Do(context.Background(), http.MethodGet, "/api/tasks", nil)
	require.ErrorIs(t, err, api.ErrNoCredential)
	assert.Len(t, exp.reasons, 1)
}

func TestDoUnauthorizedExpiresSession(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid token", status)
		}))

		gw, exp := newGateway(t, srv.URL, staticToken{"stale", true})
		_, err := gw.Do(context.Background(), http.MethodGet, "/api/tasks", nil)
		require.ErrorIs(t, err, api.ErrUnauthorized, "status %d", status)
		assert.Len(t, exp.reasons, 1, "status %d", status)
		srv.Close()
	}
}

func TestDoServerErrorJSONMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"database unavailable"}`))
	}))
	defer srv.Close()

	gw, exp := newGateway(t, srv.URL, staticToken{"tok", true})
	_, err := gw.Do(context.Background(), http.MethodGet, "/api/tasks", nil)

	var serverErr *api.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusInternalServerError, serverErr.Status)
	assert.Equal(t, "database unavailable", serverErr.Message)
	assert.Empty(t, exp.reasons, "a server error must not expire the session")
}

func TestDoServerErrorTextBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "title too long", http.StatusBadRequest)
	}))
	defer srv.Close()

	gw, _ := newGateway(t, srv.URL, staticToken{"tok", true})
	_, err := gw.Do(context.Background(), http.MethodPost, "/api/tasks", map[string]string{"title": "x"})

	var serverErr *api.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "title too long", serverErr.Message)
}

func TestDoServerErrorEmptyBodyFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	gw, _ := newGateway(t, srv.URL, staticToken{"tok", true})
	_, err := gw.Do(context.Background(), http.MethodDelete, "/api/tasks/9", nil)

	var serverErr *api.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "Not Found", serverErr.Message)
}

func TestDoJSONEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	gw, _ := newGateway(t, srv.URL, staticToken{"tok", true})
	var out []string
	require.NoError(t, gw.DoJSON(context.Background(), http.MethodGet, "/api/tasks", nil, &out))
	assert.Nil(t, out)
}

func TestDoJSONMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{broken`))
	}))
	defer srv.Close()

	gw, exp := newGateway(t, srv.URL, staticToken{"tok", true})
	var out []string
	err := gw.DoJSON(context.Background(), http.MethodGet, "/api/tasks", nil, &out)

	var transportErr *api.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Empty(t, exp.reasons)
}

func TestDoTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	gw, exp := newGateway(t, srv.URL, staticToken{"tok", true})
	_, err := gw.Do(context.Background(), http.MethodGet, "/api/tasks", nil)

	var transportErr *api.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Empty(t, exp.reasons, "a transport error must not expire the session")
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	gw, _ := newGateway(t, srv.URL, staticToken{"tok", true})
	for i := 0; i < 4; i++ {
		_, err := gw.Do(context.Background(), http.MethodGet, "/api/tasks", nil)
		require.Error(t, err)
		require.False(t, errors.Is(err, gobreaker.ErrOpenState), "breaker opened early on call %d", i+1)
	}

	_, err := gw.Do(context.Background(), http.MethodGet, "/api/tasks", nil)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)

	var transportErr *api.TransportError
	assert.ErrorAs(t, err, &transportErr, "an open breaker still reads as a transport failure")
}
