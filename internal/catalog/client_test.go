package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

type staticTokens string

func (s staticTokens) AccessToken(context.Context) (string, error) {
	return string(s), nil
}

const sampleTrack = `{
	"_id": 8,
	"name": "Chase",
	"author": "Alexander Nakarada",
	"genre": "Electronic",
	"duration_in_seconds": 205,
	"album": "Chase",
	"track_file": "https://example.com/chase.mp3",
	"stared_user": []
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, tokens, zerolog.Nop())
}

func TestAllTracks_BareArrayResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog/track/all/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte("[" + sampleTrack + "]"))
	}, nil)

	tracks, err := c.AllTracks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks", len(tracks))
	}
	got := tracks[0]
	if got.TrackID != "8" || got.Title != "Chase" || got.DurationLabel != "3:25" {
		t.Errorf("track = %+v", got)
	}
	if !got.Playable() {
		t.Error("expected playable track")
	}
}

func TestAllTracks_DataEnvelopeResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": [` + sampleTrack + `]}`))
	}, nil)

	tracks, err := c.AllTracks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks", len(tracks))
	}
}

func TestAllTracks_ResultsEnvelopeResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [` + sampleTrack + `]}`))
	}, nil)

	tracks, err := c.AllTracks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks", len(tracks))
	}
}

func TestAllTracks_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, nil)

	_, err := c.AllTracks(context.Background())

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FetchError", err)
	}
	if fe.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", fe.Status)
	}
}

func TestFavoriteTracks_SendsBearerAndForcesFavorite(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte("[" + sampleTrack + "]"))
	}, staticTokens("tok"))

	tracks, err := c.FavoriteTracks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 || !tracks[0].IsFavorite {
		t.Error("favorites endpoint results must be marked favorite")
	}
}

func TestFavoriteTracks_WithoutTokens_AuthRequired(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the server without a token")
	}, nil)

	_, err := c.FavoriteTracks(context.Background())

	if !errors.Is(err, ErrAuthRequired) {
		t.Errorf("err = %v, want ErrAuthRequired", err)
	}
}

func TestFavoriteTracks_RejectedToken_AuthRequired(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, staticTokens("expired"))

	_, err := c.FavoriteTracks(context.Background())

	if !errors.Is(err, ErrAuthRequired) {
		t.Errorf("err = %v, want ErrAuthRequired", err)
	}
}

func TestSelection_DecodesTitleAndItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog/selection/3/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"success": true, "data": {"name": "100 dance hits", "items": [` + sampleTrack + `]}}`))
	}, nil)

	sel, err := c.Selection(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Title != "100 dance hits" {
		t.Errorf("Title = %q", sel.Title)
	}
	if len(sel.Tracks) != 1 {
		t.Errorf("got %d tracks", len(sel.Tracks))
	}
}

func TestAddFavorite_PostsToTrackEndpoint(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Write([]byte(`{"success": true}`))
	}, staticTokens("tok"))

	if err := c.AddFavorite(context.Background(), "8"); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPost || gotPath != "/catalog/track/8/favorite/" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestRemoveFavorite_DeletesFromTrackEndpoint(t *testing.T) {
	var gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{"success": true}`))
	}, staticTokens("tok"))

	if err := c.RemoveFavorite(context.Background(), "8"); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %s", gotMethod)
	}
}

func TestMutateFavorite_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, staticTokens("tok"))

	err := c.AddFavorite(context.Background(), "8")

	if !errors.Is(err, ErrAuthRequired) {
		t.Errorf("err = %v, want ErrAuthRequired", err)
	}
}
