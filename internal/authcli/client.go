package authcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tickpulse/tickpulse/internal/common"
)

// ErrUnavailable indicates the server could not be reached at the transport
// level, as opposed to an application-level rejection.
var ErrUnavailable = errors.New("server unavailable")

// Identity mirrors the user object returned by the API.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type apiResponse struct {
	Success      bool      `json:"success"`
	Error        string    `json:"error"`
	User         *Identity `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}

// Client is an HTTP client for the auth server. It remembers the token pair
// from the most recent login or refresh; methods that hit gated endpoints
// attach the stored access token automatically.
type Client struct {
	baseURL      string
	http         *http.Client
	accessToken  string
	refreshToken string
}

// NewClient constructs a Client for the given base URL.
func NewClient(cfg *Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.ServerURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// LoggedIn reports whether the client currently holds an access token.
func (c *Client) LoggedIn() bool {
	return c.accessToken != ""
}

func (c *Client) do(ctx context.Context, method, path string, body any, authorize bool) (*apiResponse, int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authorize && c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	out := &apiResponse{}
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, resp.StatusCode, fmt.Errorf("malformed response: %w", err)
		}
	}
	return out, resp.StatusCode, nil
}

// Register creates a new account. It does not log the user in.
func (c *Client) Register(ctx context.Context, email string, password []byte) (*Identity, error) {
	resp, status, err := c.do(ctx, http.MethodPost, "/auth/register",
		map[string]string{"email": email, "password": string(password)}, false)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusCreated:
		return resp.User, nil
	case http.StatusBadRequest:
		if resp.Error != "" {
			return nil, errors.New(resp.Error)
		}
		return nil, common.ErrDuplicateEmail
	default:
		return nil, fmt.Errorf("unexpected status %d", status)
	}
}

// Login exchanges credentials for a token pair and stores it on the client.
func (c *Client) Login(ctx context.Context, email string, password []byte) (*Identity, error) {
	resp, status, err := c.do(ctx, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": string(password)}, false)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		c.accessToken = resp.AccessToken
		c.refreshToken = resp.RefreshToken
		return resp.User, nil
	case http.StatusUnauthorized:
		return nil, common.ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("unexpected status %d", status)
	}
}

// Refresh rotates the stored refresh token for a fresh pair.
func (c *Client) Refresh(ctx context.Context) error {
	if c.refreshToken == "" {
		return common.ErrNoToken
	}
	resp, status, err := c.do(ctx, http.MethodPost, "/auth/token",
		map[string]string{"token": c.refreshToken}, false)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		c.accessToken = resp.AccessToken
		c.refreshToken = resp.RefreshToken
		return nil
	case http.StatusUnauthorized:
		return common.ErrNoToken
	case http.StatusForbidden:
		// the session is gone; drop the stale pair
		c.accessToken = ""
		c.refreshToken = ""
		return common.ErrTokenRevoked
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}

// Logout revokes the stored token pair on the server and forgets it locally.
// The local state is cleared even if the server cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	_, _, err := c.do(ctx, http.MethodDelete, "/auth/logout",
		map[string]string{"token": c.refreshToken}, true)
	c.accessToken = ""
	c.refreshToken = ""
	return err
}

// VerifyToken asks the server who the stored access token belongs to.
func (c *Client) VerifyToken(ctx context.Context) (*Identity, error) {
	if c.accessToken == "" {
		return nil, common.ErrNoToken
	}
	resp, status, err := c.do(ctx, http.MethodGet, "/auth/verify-token", nil, true)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return resp.User, nil
	case http.StatusUnauthorized:
		return nil, common.ErrNoToken
	case http.StatusForbidden:
		return nil, common.ErrInvalidToken
	default:
		return nil, fmt.Errorf("unexpected status %d", status)
	}
}

// HomeData fetches the gated home payload and returns the server time it
// reports.
func (c *Client) HomeData(ctx context.Context) (*Identity, time.Time, error) {
	if c.accessToken == "" {
		return nil, time.Time{}, common.ErrNoToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/home-data", nil)
	if err != nil {
		return nil, time.Time{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, time.Time{}, common.ErrNoToken
	case http.StatusForbidden:
		return nil, time.Time{}, common.ErrInvalidToken
	default:
		return nil, time.Time{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out struct {
		User       *Identity `json:"user"`
		ServerTime int64     `json:"serverTime"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, time.Time{}, fmt.Errorf("malformed response: %w", err)
	}
	return out.User, time.UnixMilli(out.ServerTime), nil
}
