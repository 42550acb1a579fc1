// Package transkribus is a session-scoped client for the Transkribus REST API.
package transkribus

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/acdh-oeaw/transkribus-utils/internal/config"
	"github.com/acdh-oeaw/transkribus-utils/internal/errs"
)

// DefaultBaseURL is the public Transkribus REST endpoint.
const DefaultBaseURL = "https://transkribus.eu/TrpServer/rest"

const sessionCookie = "JSESSIONID"

// Session is the result of one login exchange. It is never refreshed.
type Session struct {
	BaseURL string
	Token   string
}

// Client holds an authenticated session and performs every API call with it.
type Client struct {
	session      Session
	goobiBaseURL string
	httpClient   *http.Client
	fs           afero.Fs
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithFs sets the filesystem used for METS and image-name files.
func WithFs(fs afero.Fs) Option {
	return func(c *Client) { c.fs = fs }
}

// loginResponse is the trpUserLogin document returned by /auth/login.
type loginResponse struct {
	SessionID string `xml:"sessionId"`
}

// Authenticate logs in and returns the session.
func Authenticate(ctx context.Context, hc *http.Client, user, password, baseURL string) (Session, error) {
	if user == "" || password == "" || baseURL == "" {
		return Session{}, errs.Config("user, password and base URL are required to log in")
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")
	loginURL := baseURL + "/auth/login"

	form := url.Values{}
	form.Set("user", user)
	form.Set("pw", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := hc.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("failed to log in: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read login response: %w", err)
	}

	if !ok(resp.StatusCode) {
		apiErr := &errs.APIError{Op: "login", URL: loginURL, StatusCode: resp.StatusCode, Body: string(body)}
		slog.Error("Login rejected", "user", user, "status", resp.StatusCode)
		return Session{}, fmt.Errorf("%w: %w", errs.ErrAuth, apiErr)
	}

	var login loginResponse
	if err := xml.Unmarshal(body, &login); err != nil {
		return Session{}, fmt.Errorf("%w: failed to decode login response: %w", errs.ErrAuth, err)
	}
	if login.SessionID == "" {
		return Session{}, fmt.Errorf("%w: login response carries no session id", errs.ErrAuth)
	}

	slog.Debug("Logged in to Transkribus", "user", user, "base_url", baseURL)
	return Session{BaseURL: baseURL, Token: login.SessionID}, nil
}

// NewClient resolves settings against the environment, logs in once and
// returns a client bound to that session.
func NewClient(ctx context.Context, settings config.Settings, opts ...Option) (*Client, error) {
	resolved, err := config.Resolve(settings)
	if err != nil {
		return nil, err
	}

	c := &Client{
		goobiBaseURL: resolved.GoobiBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		fs: afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(c)
	}

	session, err := Authenticate(ctx, c.httpClient, resolved.User, resolved.Password, resolved.BaseURL)
	if err != nil {
		return nil, err
	}
	c.session = session

	return c, nil
}

// NewClientWithSession binds an existing session without logging in.
func NewClientWithSession(session Session, goobiBaseURL string, opts ...Option) *Client {
	c := &Client{
		session:      session,
		goobiBaseURL: goobiBaseURL,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		fs:           afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the client was built with.
func (c *Client) Session() Session {
	return c.session
}

// BaseURL returns the Transkribus REST base URL.
func (c *Client) BaseURL() string {
	return c.session.BaseURL
}

// GoobiBaseURL returns the Goobi viewer prefix used to compose upload URLs.
func (c *Client) GoobiBaseURL() string {
	return c.goobiBaseURL
}

func ok(status int) bool {
	return status >= 200 && status < 300
}

func asAPIError(err error) (*errs.APIError, bool) {
	var apiErr *errs.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.session.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do performs an authenticated request against rawURL and returns the body
// of a successful response.
func (c *Client) do(ctx context.Context, op, method, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.session.Token})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	if !ok(resp.StatusCode) {
		return nil, &errs.APIError{Op: op, URL: rawURL, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func (c *Client) getJSON(ctx context.Context, op, rawURL string, v any) error {
	body, err := c.do(ctx, op, http.MethodGet, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}
