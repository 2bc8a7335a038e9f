package session

import (
	"path/filepath"
	"testing"

	"github.com/jmorand/stratus/internal/auth"
)

// setupTestManager creates a manager backed by a temp-file database.
func setupTestManager(t *testing.T) *Manager {
	t.Helper()

	m, err := openAt(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("openAt failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestGetSession_Empty(t *testing.T) {
	m := setupTestManager(t)

	s, err := m.GetSession()
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil session on empty db, got %+v", s)
	}
}

func TestSaveAndGetSession(t *testing.T) {
	m := setupTestManager(t)

	saved := Session{
		Tokens: auth.Tokens{Access: "access-token", Refresh: "refresh-token"},
		User:   auth.User{ID: 42, Username: "listener", Email: "listener@example.com"},
	}
	if err := m.SaveSession(saved); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	got, err := m.GetSession()
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetSession returned nil after save")
	}
	if *got != saved {
		t.Errorf("session = %+v, want %+v", *got, saved)
	}
}

func TestSaveAccessToken(t *testing.T) {
	m := setupTestManager(t)

	if err := m.SaveSession(Session{
		Tokens: auth.Tokens{Access: "old", Refresh: "refresh"},
		User:   auth.User{ID: 1, Username: "u", Email: "u@example.com"},
	}); err != nil {
		t.Fatal(err)
	}

	if err := m.SaveAccessToken("new"); err != nil {
		t.Fatalf("SaveAccessToken failed: %v", err)
	}

	got, err := m.GetSession()
	if err != nil {
		t.Fatal(err)
	}
	if got.Tokens.Access != "new" {
		t.Errorf("access = %q, want new", got.Tokens.Access)
	}
	if got.Tokens.Refresh != "refresh" {
		t.Errorf("refresh = %q, want unchanged", got.Tokens.Refresh)
	}
}

func TestClearSession(t *testing.T) {
	m := setupTestManager(t)

	if err := m.SaveSession(Session{
		Tokens: auth.Tokens{Access: "a", Refresh: "r"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := m.ClearSession(); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}

	got, err := m.GetSession()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected nil session after clear, got %+v", got)
	}
}

func TestPlayerSettings_Empty(t *testing.T) {
	m := setupTestManager(t)

	s, err := m.GetPlayerSettings()
	if err != nil {
		t.Fatalf("GetPlayerSettings failed: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil settings on empty db, got %+v", s)
	}
}

func TestSaveAndGetPlayerSettings(t *testing.T) {
	m := setupTestManager(t)

	saved := PlayerSettings{Volume: 0.7, RepeatMode: 2, Shuffle: true}
	if err := m.SavePlayerSettings(saved); err != nil {
		t.Fatalf("SavePlayerSettings failed: %v", err)
	}

	got, err := m.GetPlayerSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("GetPlayerSettings returned nil after save")
	}
	if *got != saved {
		t.Errorf("settings = %+v, want %+v", *got, saved)
	}
}
