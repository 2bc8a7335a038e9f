package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://webdev-music-003b5b991590.herokuapp.com"

// TokenSource supplies a bearer token for auth-guarded endpoints.
// Implementations refresh expired tokens transparently.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client is a catalog API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        zerolog.Logger
}

// New creates a catalog client. tokens may be nil for anonymous access;
// auth-guarded calls will then fail with ErrAuthRequired.
func New(baseURL string, tokens TokenSource, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		tokens: tokens,
		log:    log,
	}
}

// AllTracks fetches the full track catalog.
func (c *Client) AllTracks(ctx context.Context) ([]Track, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/catalog/track/all/", false, &raw); err != nil {
		return nil, err
	}
	tracks, err := decodeTrackList(raw)
	if err != nil {
		return nil, &FetchError{Operation: "load catalog", Err: err}
	}
	c.log.Debug().Int("count", len(tracks)).Msg("catalog loaded")
	return transformTracks(tracks), nil
}

// FavoriteTracks fetches the signed-in user's favorites.
func (c *Client) FavoriteTracks(ctx context.Context) ([]Track, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/catalog/track/favorite/all/", true, &raw); err != nil {
		return nil, err
	}
	tracks, err := decodeTrackList(raw)
	if err != nil {
		return nil, &FetchError{Operation: "load favorites", Err: err}
	}
	out := transformTracks(tracks)
	// The favorites endpoint does not echo stared_user; everything it
	// returns is a favorite by definition.
	for i := range out {
		out[i].IsFavorite = true
	}
	return out, nil
}

// Selection fetches a curated selection by id.
func (c *Client) Selection(ctx context.Context, id int) (*Selection, error) {
	var sel apiSelection
	if err := c.get(ctx, fmt.Sprintf("/catalog/selection/%d/", id), false, &sel); err != nil {
		return nil, err
	}
	return &Selection{
		Title:  sel.Title,
		Tracks: transformTracks(sel.Items),
	}, nil
}

// AddFavorite marks a track as favorite on the server.
func (c *Client) AddFavorite(ctx context.Context, trackID string) error {
	return c.mutateFavorite(ctx, http.MethodPost, trackID)
}

// RemoveFavorite removes a track from the server-side favorites.
func (c *Client) RemoveFavorite(ctx context.Context, trackID string) error {
	return c.mutateFavorite(ctx, http.MethodDelete, trackID)
}

func (c *Client) mutateFavorite(ctx context.Context, method, trackID string) error {
	path := fmt.Sprintf("/catalog/track/%s/favorite/", trackID)
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return &FetchError{Operation: "update favorites", Err: err}
	}
	if err := c.authorize(ctx, req, true); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Operation: "update favorites", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrAuthRequired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Operation: "update favorites", Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, authed bool, out any) error {
	op := "fetch " + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return &FetchError{Operation: op, Err: err}
	}
	if err := c.authorize(ctx, req, authed); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("catalog request failed")
		return &FetchError{Operation: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrAuthRequired
	}
	if resp.StatusCode != http.StatusOK {
		return &FetchError{Operation: op, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Operation: op, Err: err}
	}
	if err := json.Unmarshal(unwrapEnvelope(body), out); err != nil {
		return &FetchError{Operation: op, Err: err}
	}
	return nil
}

// unwrapEnvelope extracts the payload from the service's response wrapper.
// Endpoints answer inconsistently: {success, data}, {results}, or a bare
// payload with no wrapper at all.
func unwrapEnvelope(body []byte) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Data != nil {
			return env.Data
		}
		if env.Results != nil {
			return env.Results
		}
	}
	return body
}

func (c *Client) authorize(ctx context.Context, req *http.Request, required bool) error {
	if c.tokens == nil {
		if required {
			return ErrAuthRequired
		}
		return nil
	}
	token, err := c.tokens.AccessToken(ctx)
	if err != nil || token == "" {
		if required {
			return ErrAuthRequired
		}
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}
