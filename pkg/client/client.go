// Package client talks to the hr-service REST API on behalf of a signed-in
// actor. Every endpoint returns a Result instead of an untyped payload.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andressep95/hr-service/pkg/rbac"
	"github.com/andressep95/hr-service/pkg/session"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client calls the API. Bearer tokens are read from the session registry so a
// login performed through another Client is picked up immediately.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Registry
	log      *slog.Logger
}

func New(cfg Config, sessions *session.Registry) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	l := cfg.Logger
	if l == nil {
		l = slog.Default()
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     httpClient,
		sessions: sessions,
		log:      l.With("component", "api-client"),
	}, nil
}

// Credentials are posted to every login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginData struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   session.Profile `json:"profile"`
}

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func do[T any](ctx context.Context, c *Client, method, path, token string, body any) Result[T] {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return failed[T](0, fmt.Sprintf("failed to encode request: %v", err))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return failed[T](0, fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "error", err)
		return networkFailure[T](err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkFailure[T](fmt.Errorf("read response: %w", err))
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return failed[T](resp.StatusCode, fmt.Sprintf("failed to decode response: %v", err))
		}
	}

	if resp.StatusCode >= 300 || (len(raw) > 0 && !env.Success) {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		return failed[T](resp.StatusCode, msg)
	}

	var data T
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return failed[T](resp.StatusCode, fmt.Sprintf("failed to decode data: %v", err))
		}
	}
	return ok(resp.StatusCode, data)
}

func (c *Client) tokenFor(ctx context.Context, classes ...session.Class) string {
	token, err := c.sessions.FirstToken(ctx, classes...)
	if err != nil {
		c.log.Warn("failed to read session token", "error", err)
		return ""
	}
	return token
}

// Login posts credentials to the login endpoint of class.
func (c *Client) Login(ctx context.Context, class session.Class, creds Credentials) Result[LoginData] {
	return do[LoginData](ctx, c, http.MethodPost, "/api/v1/"+string(class)+"/login", "", creds)
}

// Logout asks the server to invalidate the current token of class.
func (c *Client) Logout(ctx context.Context, class session.Class) Result[Empty] {
	return do[Empty](ctx, c, http.MethodPost, "/api/v1/"+string(class)+"/logout", c.tokenFor(ctx, class), nil)
}

// Profile fetches the profile of the actor signed in as class.
func (c *Client) Profile(ctx context.Context, class session.Class) Result[session.Profile] {
	return do[session.Profile](ctx, c, http.MethodGet, "/api/v1/"+string(class)+"/profile", c.tokenFor(ctx, class), nil)
}

func (c *Client) LoginAdmin(ctx context.Context, creds Credentials) Result[LoginData] {
	return c.Login(ctx, session.ClassAdmin, creds)
}

func (c *Client) LoginCompany(ctx context.Context, creds Credentials) Result[LoginData] {
	return c.Login(ctx, session.ClassCompany, creds)
}

func (c *Client) LoginEmployee(ctx context.Context, creds Credentials) Result[LoginData] {
	return c.Login(ctx, session.ClassEmployee, creds)
}

func (c *Client) LogoutAdmin(ctx context.Context) Result[Empty] {
	return c.Logout(ctx, session.ClassAdmin)
}

func (c *Client) LogoutCompany(ctx context.Context) Result[Empty] {
	return c.Logout(ctx, session.ClassCompany)
}

func (c *Client) LogoutEmployee(ctx context.Context) Result[Empty] {
	return c.Logout(ctx, session.ClassEmployee)
}

// GetProfile returns the admin profile.
func (c *Client) GetProfile(ctx context.Context) Result[session.Profile] {
	return c.Profile(ctx, session.ClassAdmin)
}

func (c *Client) GetCurrentCompanyProfile(ctx context.Context) Result[session.Profile] {
	return c.Profile(ctx, session.ClassCompany)
}

func (c *Client) GetCurrentEmployeeProfile(ctx context.Context) Result[session.Profile] {
	return c.Profile(ctx, session.ClassEmployee)
}

// GetEmployeeRoles lists the roles of an employee, authenticated as that
// employee or, failing that, as its company.
func (c *Client) GetEmployeeRoles(ctx context.Context, actorID string) Result[[]Role] {
	path := "/api/v1/employees/" + url.PathEscape(actorID) + "/roles"
	return do[[]Role](ctx, c, http.MethodGet, path, c.tokenFor(ctx, session.ClassEmployee, session.ClassCompany), nil)
}

// ListPermissions returns the effective permission records of an employee.
func (c *Client) ListPermissions(ctx context.Context, actorID string) Result[[]rbac.PermissionRecord] {
	path := "/api/v1/employees/" + url.PathEscape(actorID) + "/permissions"
	return do[[]rbac.PermissionRecord](ctx, c, http.MethodGet, path, c.tokenFor(ctx, session.ClassEmployee, session.ClassCompany), nil)
}

// EndSession calls the logout endpoint of class and reports the outcome as an error.
func (c *Client) EndSession(ctx context.Context, class session.Class) error {
	return c.Logout(ctx, class).Err()
}

// FetchProfile returns the server profile of class.
func (c *Client) FetchProfile(ctx context.Context, class session.Class) (*session.Profile, error) {
	p, err := c.Profile(ctx, class).Unwrap()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FetchPermissions makes Client usable as an rbac.Source.
func (c *Client) FetchPermissions(ctx context.Context, actorID string) ([]rbac.PermissionRecord, error) {
	return c.ListPermissions(ctx, actorID).Unwrap()
}
