package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotAuthenticated is returned when no session is active.
var ErrNotAuthenticated = errors.New("not authenticated")

// expirySlack refreshes tokens slightly before their exp claim so a
// request issued right at the boundary does not race the server clock.
const expirySlack = 30 * time.Second

// TokenSource hands out a valid access token, refreshing through the API
// when the current one has expired. Safe for concurrent use.
type TokenSource struct {
	mu      sync.Mutex
	client  *Client
	access  string
	refresh string

	// onRefresh is called with the new access token after a successful
	// refresh, so the session store can persist it.
	onRefresh func(access string)
}

// NewTokenSource creates a token source seeded with an existing pair.
// Both tokens may be empty (anonymous session).
func NewTokenSource(client *Client, tokens Tokens, onRefresh func(access string)) *TokenSource {
	return &TokenSource{
		client:    client,
		access:    tokens.Access,
		refresh:   tokens.Refresh,
		onRefresh: onRefresh,
	}
}

// SetTokens replaces the current pair (after sign-in).
func (s *TokenSource) SetTokens(t Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = t.Access
	s.refresh = t.Refresh
}

// Clear drops the session (sign-out).
func (s *TokenSource) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
}

// Authenticated reports whether a session is active. The access token may
// still be expired; AccessToken refreshes it on demand.
func (s *TokenSource) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access != "" || s.refresh != ""
}

// AccessToken returns a usable access token, refreshing it first when the
// exp claim has passed.
func (s *TokenSource) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.access == "" && s.refresh == "" {
		return "", ErrNotAuthenticated
	}

	if s.access != "" && !tokenExpired(s.access) {
		return s.access, nil
	}

	if s.refresh == "" {
		return "", ErrNotAuthenticated
	}
	access, err := s.client.Refresh(ctx, s.refresh)
	if err != nil {
		return "", err
	}
	s.access = access
	if s.onRefresh != nil {
		s.onRefresh(access)
	}
	return s.access, nil
}

// tokenExpired checks the exp claim of a JWT. The signature is the
// server's business; the client only needs the expiry, so the token is
// parsed unverified. Tokens without a readable exp claim are treated as
// expired so a refresh is attempted rather than a doomed request.
func tokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return true
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return time.Now().Add(expirySlack).After(exp.Time)
}
