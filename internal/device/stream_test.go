package device

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchAndDecode_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, _, err := fetchAndDecode(context.Background(), srv.Client(), srv.URL+"/missing.mp3")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestFetchAndDecode_NotAnMP3(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not audio"))
	}))
	defer srv.Close()

	_, _, err := fetchAndDecode(context.Background(), srv.Client(), srv.URL+"/bogus.mp3")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decode source")
}

func TestFetchAndDecode_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not go out on a canceled context")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := fetchAndDecode(ctx, srv.Client(), srv.URL+"/track.mp3")

	assert.Error(t, err)
}
