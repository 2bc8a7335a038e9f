package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) < 1 {
		t.Fatal("getConfigPaths() returned no paths")
	}
	if paths[len(paths)-1] != "config.toml" {
		t.Errorf("last path = %q, want config.toml (pwd has highest priority)", paths[len(paths)-1])
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Run from a temp dir so no local config.toml interferes.
	tmp := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", tmp)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DefaultVolume != 0.5 {
		t.Errorf("DefaultVolume = %v, want 0.5", cfg.DefaultVolume)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if len(cfg.Selections) != 3 {
		t.Errorf("len(Selections) = %d, want 3 defaults", len(cfg.Selections))
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmp := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", tmp)

	content := `
api_base_url = "https://music.example.com/"
default_volume = 0.8
log_level = "debug"

[[selections]]
id = 7
title = "Late night"
`
	if err := os.WriteFile(filepath.Join(tmp, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIBaseURL != "https://music.example.com" {
		t.Errorf("APIBaseURL = %q, want trailing slash trimmed", cfg.APIBaseURL)
	}
	if cfg.DefaultVolume != 0.8 {
		t.Errorf("DefaultVolume = %v, want 0.8", cfg.DefaultVolume)
	}
	if len(cfg.Selections) != 1 || cfg.Selections[0].ID != 7 {
		t.Errorf("Selections = %+v, want single id=7", cfg.Selections)
	}
}

func TestLoad_ClampsVolume(t *testing.T) {
	tmp := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", tmp)

	content := "default_volume = 2.5\n"
	if err := os.WriteFile(filepath.Join(tmp, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultVolume != 1 {
		t.Errorf("DefaultVolume = %v, want clamped to 1", cfg.DefaultVolume)
	}
}
