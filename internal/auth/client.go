// Package auth talks to the streaming service's user/token endpoints and
// keeps a refreshed access token available for the catalog client.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// User is the signed-in account profile.
type User struct {
	ID       int64  `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Tokens is an access/refresh token pair.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

const defaultBaseURL = "https://webdev-music-003b5b991590.herokuapp.com"

// Client is an auth API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates an auth client. An empty baseURL selects the public
// service.
func New(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Signin authenticates with email and password, returning the account
// profile and a token pair.
func (c *Client) Signin(ctx context.Context, email, password string) (*User, *Tokens, error) {
	creds := map[string]string{"email": email, "password": password}

	var user User
	if err := c.post(ctx, "/user/login/", creds, &user); err != nil {
		return nil, nil, err
	}

	var tokens Tokens
	if err := c.post(ctx, "/user/token/", creds, &tokens); err != nil {
		return nil, nil, err
	}

	c.log.Info().Str("username", user.Username).Msg("signed in")
	return &user, &tokens, nil
}

// Signup registers a new account. The service responds with field-level
// validation errors which surface as *APIError.
func (c *Client) Signup(ctx context.Context, email, password, username string) (*User, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
		"username": username,
	}
	var resp struct {
		Result User `json:"result"`
	}
	if err := c.post(ctx, "/user/signup/", payload, &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var resp struct {
		Access string `json:"access"`
	}
	err := c.post(ctx, "/user/token/refresh/", map[string]string{"refresh": refreshToken}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Access, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
