package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"taskdeck/internal/config"
	"taskdeck/internal/logging"
)

// TokenSource yields the current session token.
type TokenSource interface {
	Token() (string, bool)
}

// Expirer is told when a request finds no usable session, either because no
// credential is stored or because the server rejected it. Implementations
// clear the stored credential and route the user back to login.
type Expirer interface {
	Expire(reason string)
}

// Gateway builds every authenticated request: it attaches the bearer
// credential, bounds the call with the configured timeout, and classifies
// the response into the package's error taxonomy. Nothing else in the client
// attaches credentials.
type Gateway struct {
	base    string
	timeout time.Duration
	http    *http.Client
	tokens  TokenSource
	session Expirer
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Entry
}

// NewGateway creates a Gateway for cfg's server. session may not be nil;
// every credential rejection is reported to it.
func NewGateway(cfg *config.Config, tokens TokenSource, session Expirer) *Gateway {
	log := logging.WithComponent("gateway")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "task-api",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state change")
		},
	})
	return &Gateway{
		base:    strings.TrimRight(cfg.ServerURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
		tokens:  tokens,
		session: session,
		breaker: breaker,
		log:     log,
	}
}

// Do performs one authenticated request and returns the raw response body.
//
// Classification:
//   - no stored credential: ErrNoCredential, the request is never sent
//   - network failure or open breaker: *TransportError
//   - 401/403: ErrUnauthorized, after the session has been expired
//   - other non-2xx: *ServerError with the extracted message
//   - 2xx: the body, which may be empty
func (g *Gateway) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	tok, ok := g.tokens.Token()
	if !ok {
		g.session.Expire("no stored credential")
		return nil, ErrNoCredential
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, g.base+path, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.New().String()
	log := g.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
	})

	start := time.Now()
	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.http.Do(req)
	})
	if err != nil {
		log.WithError(err).Warn("request failed")
		return nil, &TransportError{Err: err}
	}
	resp := result.(*http.Response)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Warn("response read failed")
		return nil, &TransportError{Err: err}
	}

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("request done")

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		g.session.Expire(fmt.Sprintf("server returned %d", resp.StatusCode))
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &ServerError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}
	return data, nil
}

// DoJSON performs one authenticated request and decodes a JSON response into
// out. An empty 2xx body leaves out untouched; a malformed one classifies as
// a transport failure.
func (g *Gateway) DoJSON(ctx context.Context, method, path string, body, out any) error {
	data, err := g.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}
