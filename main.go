package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmorand/stratus/internal/app"
	"github.com/jmorand/stratus/internal/auth"
	"github.com/jmorand/stratus/internal/catalog"
	"github.com/jmorand/stratus/internal/config"
	"github.com/jmorand/stratus/internal/device"
	"github.com/jmorand/stratus/internal/logging"
	"github.com/jmorand/stratus/internal/playback"
	"github.com/jmorand/stratus/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, logCloser, err := logging.Open(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logCloser.Close()

	sessions, err := session.Open()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer sessions.Close()

	authClient := auth.New(cfg.APIBaseURL, log)

	// Restore the saved sign-in, if any. A stale token pair is fine: the
	// token source refreshes on first use and persists the new access
	// token back.
	var user *auth.User
	var savedTokens auth.Tokens
	if saved, err := sessions.GetSession(); err != nil {
		log.Warn().Err(err).Msg("restoring session failed")
	} else if saved != nil {
		savedTokens = saved.Tokens
		u := saved.User
		user = &u
	}
	tokens := auth.NewTokenSource(authClient, savedTokens, func(access string) {
		if err := sessions.SaveAccessToken(access); err != nil {
			log.Warn().Err(err).Msg("persisting refreshed token failed")
		}
	})

	catalogClient := catalog.New(cfg.APIBaseURL, tokens, log)

	volume := cfg.DefaultVolume
	settings, err := sessions.GetPlayerSettings()
	if err != nil {
		log.Warn().Err(err).Msg("restoring player settings failed")
	}
	if settings != nil {
		volume = settings.Volume
	}

	store := playback.NewStore(volume)
	defer store.Close()
	if settings != nil {
		store.RestoreModes(playback.RepeatMode(settings.RepeatMode), settings.Shuffle)
	}

	speaker, err := device.NewSpeaker(log)
	if err != nil {
		return fmt.Errorf("initialize audio: %w", err)
	}
	defer speaker.Close()

	syncer := device.NewSynchronizer(store, speaker, log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go syncer.Run(ctx)

	m := app.New(app.Deps{
		Config:   cfg,
		Log:      log,
		Catalog:  catalogClient,
		Auth:     authClient,
		Tokens:   tokens,
		Sessions: sessions,
		Store:    store,
		Sync:     syncer,
		User:     user,
	})

	log.Info().Msg("starting")
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
