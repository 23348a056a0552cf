// Package api is the HTTP client for the fleet manager REST API.
// It owns request plumbing only: the bearer token is read from a TokenSource
// once per request, bodies are JSON, and server error bodies are surfaced
// as *APIError values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/service"
)

// TokenSource supplies the current access token, or "" when logged out.
// It is consulted once at the start of each request.
type TokenSource func() string

// Client is an HTTP client for the fleet manager API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      TokenSource
}

// NewClient creates an API client for the given base URL, e.g.
// "http://localhost:8080". Pass a nil token source for unauthenticated use.
func NewClient(baseURL string, token TokenSource) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Token:      token,
	}
}

// APIError is a non-2xx answer from the server with its decoded message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsConflict reports whether the error is an HTTP 409. Finishing a trip that
// another finish already won races into this, and callers treat it as benign.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}

// IsUnauthorized reports whether the error is an HTTP 401, meaning the
// access token is missing, expired, or revoked.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// wireError mirrors the two error body shapes the server produces:
// {"error": ...} for validation and conflicts, {"detail": ...} for auth.
type wireError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// do sends one request and decodes a successful JSON answer into out.
// Pass a nil out for endpoints that answer 204.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != nil {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into an *APIError, preferring the
// "error" field, then "detail", then a generic message.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: "erro inesperado do servidor"}

	var we wireError
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&we); err == nil {
		switch {
		case we.Error != "":
			apiErr.Message = we.Error
		case we.Detail != "":
			apiErr.Message = we.Detail
		}
	}
	return apiErr
}

// ---- auth ----

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (service.TokenPair, error) {
	var pair service.TokenPair
	body := map[string]string{"username": username, "password": password}
	err := c.do(ctx, http.MethodPost, "/api/auth/token/", body, &pair)
	return pair, err
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked server-side.
func (c *Client) Refresh(ctx context.Context, refresh string) (service.TokenPair, error) {
	var pair service.TokenPair
	err := c.do(ctx, http.MethodPost, "/api/auth/token/refresh/", map[string]string{"refresh": refresh}, &pair)
	return pair, err
}

// Register creates a new account. No tokens are issued; log in afterwards.
func (c *Client) Register(ctx context.Context, in service.RegisterInput) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodPost, "/api/auth/register/", in, &user)
	return user, err
}

// Me returns the profile behind the current access token.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me/", nil, &user)
	return user, err
}

// Summary returns the aggregate counts behind the dashboard cards.
func (c *Client) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	var s domain.DashboardSummary
	err := c.do(ctx, http.MethodGet, "/api/dashboard/resumo/", nil, &s)
	return s, err
}
