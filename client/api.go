package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/dmitrymomot/chatkit/core/user"
	"github.com/dmitrymomot/chatkit/transport/httpapi"
)

// defaultRequestTimeout is the conservative bound on session validation and
// other API calls; a request that neither succeeds nor fails within it is a
// transient failure.
const defaultRequestTimeout = 10 * time.Second

// API is the low-level HTTP client for the auth endpoints. It carries a
// cookie jar so the session cookie round-trips automatically, and mirrors
// the token into the Authorization header for cookie-less deployments.
type API struct {
	baseURL string
	http    *http.Client
}

// APIOption configures the API client.
type APIOption func(*API)

// WithHTTPClient replaces the underlying HTTP client. The replacement
// should carry its own timeout.
func WithHTTPClient(c *http.Client) APIOption {
	return func(a *API) {
		if c != nil {
			a.http = c
		}
	}
}

// WithRequestTimeout overrides the per-request timeout.
func WithRequestTimeout(d time.Duration) APIOption {
	return func(a *API) {
		if d > 0 {
			a.http.Timeout = d
		}
	}
}

// NewAPI creates an API client for the given base URL (scheme://host[:port]).
func NewAPI(baseURL string, opts ...APIOption) (*API, error) {
	if baseURL == "" {
		return nil, errors.New("client: base URL is required")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	a := &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: defaultRequestTimeout,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Signup registers a new account and returns the auth envelope.
func (a *API) Signup(ctx context.Context, fullName, email, password string) (httpapi.AuthResponse, error) {
	var out httpapi.AuthResponse
	err := a.do(ctx, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"fullName": fullName,
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

// Login exchanges credentials for a session and returns the auth envelope.
func (a *API) Login(ctx context.Context, email, password string) (httpapi.AuthResponse, error) {
	var out httpapi.AuthResponse
	err := a.do(ctx, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

// Logout notifies the server. The session cookie is cleared by the response.
func (a *API) Logout(ctx context.Context, token string) error {
	return a.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
}

// Check validates the carried credential and returns the resolved profile.
func (a *API) Check(ctx context.Context, token string) (user.User, error) {
	var u user.User
	err := a.do(ctx, http.MethodGet, "/api/auth/check", token, nil, &u)
	return u, err
}

// UpdateProfile uploads a new profile picture (data URL or base64 payload)
// and returns the updated profile.
func (a *API) UpdateProfile(ctx context.Context, token, profilePic string) (user.User, error) {
	var u user.User
	err := a.do(ctx, http.MethodPut, "/api/auth/update-profile", token, map[string]string{
		"profilePic": profilePic,
	}, &u)
	return u, err
}

// do executes one request. Non-2xx responses decode the server's {message}
// body into an *APIError carrying the text verbatim; transport faults wrap
// ErrTransient.
func (a *API) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return errors.Join(ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg httpapi.MessageResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&msg); decodeErr != nil {
			return &APIError{Status: resp.StatusCode}
		}
		return &APIError{Status: resp.StatusCode, Message: msg.Message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("client: decode response: %w", err)
		}
	}
	return nil
}
