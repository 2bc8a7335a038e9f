package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	APIBaseURL    string  `koanf:"api_base_url"`   // streaming service base URL
	DefaultVolume float64 `koanf:"default_volume"` // initial volume [0,1]
	LogLevel      string  `koanf:"log_level"`      // zerolog level name

	Selections []SelectionConfig `koanf:"selections"` // curated selections shown on the selections page
}

// SelectionConfig names a curated selection exposed by the service.
type SelectionConfig struct {
	ID    int    `koanf:"id"`
	Title string `koanf:"title"`
}

// defaultSelections mirrors the selections the service ships with.
func defaultSelections() []SelectionConfig {
	return []SelectionConfig{
		{ID: 2, Title: "Playlist of the day"},
		{ID: 3, Title: "100 dance hits"},
		{ID: 4, Title: "Indie charge"},
	}
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		DefaultVolume: 0.5,
		LogLevel:      "info",
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.APIBaseURL = strings.TrimSuffix(cfg.APIBaseURL, "/")

	if cfg.DefaultVolume < 0 {
		cfg.DefaultVolume = 0
	}
	if cfg.DefaultVolume > 1 {
		cfg.DefaultVolume = 1
	}

	if len(cfg.Selections) == 0 {
		cfg.Selections = defaultSelections()
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/stratus/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "stratus", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}
