package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestSignin_FetchesProfileThenTokens(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatal(err)
		}
		if creds["email"] != "a@b.c" || creds["password"] != "secret" {
			t.Errorf("credentials = %v", creds)
		}
		switch r.URL.Path {
		case "/user/login/":
			w.Write([]byte(`{"_id": 42, "username": "alice", "email": "a@b.c"}`))
		case "/user/token/":
			w.Write([]byte(`{"access": "acc", "refresh": "ref"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()
	c := New(srv.URL, zerolog.Nop())

	user, tokens, err := c.Signin(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != 42 || user.Username != "alice" {
		t.Errorf("user = %+v", user)
	}
	if tokens.Access != "acc" || tokens.Refresh != "ref" {
		t.Errorf("tokens = %+v", tokens)
	}
	if len(paths) != 2 || paths[0] != "/user/login/" || paths[1] != "/user/token/" {
		t.Errorf("paths = %v", paths)
	}
}

func TestSignin_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "No active account found with the given credentials"}`))
	}))
	defer srv.Close()
	c := New(srv.URL, zerolog.Nop())

	_, _, err := c.Signin(context.Background(), "a@b.c", "wrong")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.Status)
	}
	if apiErr.Message != "No active account found with the given credentials" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestSignup_ReturnsProfileFromResultEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/signup/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"success": true, "result": {"_id": 7, "username": "bob", "email": "b@c.d"}}`))
	}))
	defer srv.Close()
	c := New(srv.URL, zerolog.Nop())

	user, err := c.Signup(context.Background(), "b@c.d", "pw", "bob")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != 7 || user.Username != "bob" {
		t.Errorf("user = %+v", user)
	}
}

func TestSignup_FieldValidationErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "Signup failed", "errors": {"email": ["Enter a valid email address."], "password": ["This password is too short."]}}`))
	}))
	defer srv.Close()
	c := New(srv.URL, zerolog.Nop())

	_, err := c.Signup(context.Background(), "bad", "x", "bob")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if len(apiErr.FieldErrors["email"]) != 1 || len(apiErr.FieldErrors["password"]) != 1 {
		t.Errorf("field errors = %v", apiErr.FieldErrors)
	}
}

func TestRefresh_ReturnsNewAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/token/refresh/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["refresh"] != "ref" {
			t.Errorf("refresh = %q", body["refresh"])
		}
		w.Write([]byte(`{"access": "fresh"}`))
	}))
	defer srv.Close()
	c := New(srv.URL, zerolog.Nop())

	access, err := c.Refresh(context.Background(), "ref")
	if err != nil {
		t.Fatal(err)
	}
	if access != "fresh" {
		t.Errorf("access = %q", access)
	}
}

func TestParseAPIError_ErrorsNestedUnderData(t *testing.T) {
	body := []byte(`{"data": {"errors": {"username": "Already taken"}}}`)

	apiErr := parseAPIError(http.StatusBadRequest, body)

	if got := apiErr.FieldErrors["username"]; len(got) != 1 || got[0] != "Already taken" {
		t.Errorf("field errors = %v", apiErr.FieldErrors)
	}
	if apiErr.Message != "Already taken" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestParseAPIError_UnparsableBody(t *testing.T) {
	apiErr := parseAPIError(http.StatusBadGateway, []byte("<html>gateway</html>"))

	if apiErr.Status != http.StatusBadGateway || apiErr.Message != "" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if apiErr.Error() != "request failed with status 502" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}
