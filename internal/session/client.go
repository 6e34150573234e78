// Package session is the client side of the credential service: it submits
// the signup and login forms, keeps the issued token and attaches it to
// later calls.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"contract-scanner/internal/shared/telemetry"
	"contract-scanner/internal/users"
)

// Client talks to /api/users. Tokens are never refreshed.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Store      TokenStore
}

func NewClient(baseURL string, store TokenStore) *Client {
	if store == nil {
		store = &MemoryStore{}
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
		Store:      store,
	}
}

// Signup validates the form locally, creates the account and stores the
// returned token. Nothing is sent when the form is invalid.
func (c *Client) Signup(ctx context.Context, form SignupForm) (users.User, error) {
	if errs := ValidateSignup(form); errs != nil {
		return users.User{}, errs
	}
	body := users.SignupInput{Name: form.Name, Email: form.Email, Password: form.Password}
	return c.authenticate(ctx, "/signup", body, false)
}

// Login validates locally, signs in and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (users.User, error) {
	if errs := ValidateLogin(email, password); errs != nil {
		return users.User{}, errs
	}
	return c.authenticate(ctx, "/login", users.LoginInput{Email: email, Password: password}, true)
}

// Logout tells the server and drops the local token whether or not the
// request succeeds.
func (c *Client) Logout(ctx context.Context) error {
	reqErr := c.do(ctx, http.MethodPost, "/logout", nil, nil, false)
	if err := c.Store.ClearToken(); err != nil {
		return err
	}
	if reqErr != nil {
		telemetry.Warn("session.logout_failed", map[string]any{"error": reqErr.Error()})
	}
	return reqErr
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (users.User, error) {
	token, err := c.Store.Token()
	if err != nil {
		return users.User{}, err
	}
	if token == "" {
		return users.User{}, ErrUnauthenticated
	}
	var out struct {
		User users.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out, false); err != nil {
		return users.User{}, err
	}
	return out.User, nil
}

// LoggedIn reports whether a token is stored. It does not contact the server.
func (c *Client) LoggedIn() bool {
	token, err := c.Store.Token()
	return err == nil && token != ""
}

func (c *Client) authenticate(ctx context.Context, path string, body any, login bool) (users.User, error) {
	var session users.Session
	if err := c.do(ctx, http.MethodPost, path, body, &session, login); err != nil {
		return users.User{}, err
	}
	if session.Token == "" {
		return users.User{}, fmt.Errorf("%s: response carried no token", path)
	}
	if err := c.Store.SetToken(session.Token); err != nil {
		return users.User{}, err
	}
	return session.User, nil
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, login bool) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := c.Store.Token()
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, login: login}
		var env errorEnvelope
		if json.Unmarshal(data, &env) == nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// FieldErrorsFrom returns the per-field messages carried by err, from local
// validation or from a server validation_error.
func FieldErrorsFrom(err error) FieldErrors {
	var fields FieldErrors
	if errors.As(err, &fields) {
		return fields
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && len(apiErr.Details) > 0 {
		return FieldErrors(apiErr.Details)
	}
	return nil
}
