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

	"taskdeck/internal/config"
	"taskdeck/internal/logging"
)

// AuthClient calls the auth endpoints. These requests carry no credential and
// a rejection here never touches the stored session, so they bypass the
// Gateway entirely.
type AuthClient struct {
	base    string
	timeout time.Duration
	http    *http.Client
}

// NewAuthClient creates an AuthClient for cfg's server.
func NewAuthClient(cfg *config.Config) *AuthClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &AuthClient{
		base:    strings.TrimRight(cfg.ServerURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Login exchanges an email and password for a session token. A rejected
// login comes back as a *ServerError carrying the service's message.
func (a *AuthClient) Login(ctx context.Context, email, password string) (string, error) {
	var res loginResponse
	if err := a.post(ctx, "/api/auth/login", loginRequest{Email: email, Password: password}, &res); err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", &TransportError{Err: fmt.Errorf("login response carried no token")}
	}
	return res.Token, nil
}

// Register creates a new account.
func (a *AuthClient) Register(ctx context.Context, name, email, password string) error {
	return a.post(ctx, "/api/auth/register", registerRequest{Name: name, Email: email, Password: password}, nil)
}

// ForgotPassword asks the service to mail a reset token to email.
func (a *AuthClient) ForgotPassword(ctx context.Context, email string) error {
	return a.post(ctx, "/api/auth/forgot-password", forgotRequest{Email: email}, nil)
}

// ResetPassword sets a new password using a mailed reset token.
func (a *AuthClient) ResetPassword(ctx context.Context, token, password string) error {
	return a.post(ctx, "/api/auth/reset-password", resetRequest{Token: token, Password: password}, nil)
}

func (a *AuthClient) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		logging.WithComponent("auth").WithError(err).Warn("request failed")
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}
