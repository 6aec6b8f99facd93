package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinemaweb/internal/api"
	"cinemaweb/internal/catalog"
	"cinemaweb/internal/config"
	"cinemaweb/internal/session"
	"cinemaweb/internal/storage"
	"cinemaweb/internal/web"
	"cinemaweb/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal().Err(err).Msg("invalid config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	persist, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("storage open failed")
	}
	defer persist.Close()

	client, err := api.New(cfg.APIBaseURL,
		api.WithTimeout(cfg.APITimeout),
		api.WithLogger(log.With().Str("component", "api").Logger()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("api client")
	}

	store := session.NewStore(client, persist,
		session.WithNamespace(cfg.Namespace),
		session.WithLogger(log.With().Str("component", "session").Logger()),
	)
	defer store.Close()
	store.Subscribe(func(s session.Snapshot) {
		ev := log.Debug().Uint64("version", s.Version).Str("status", string(s.Status))
		if s.User != nil {
			ev = ev.Int64("user_id", s.User.ID).Str("role", s.User.Role)
		}
		ev.Msg("session changed")
	})
	started := store.Start(ctx)
	go func() {
		if err := <-started; err != nil {
			log.Info().Str("reason", api.Message(err, "")).Msg("no active session")
			return
		}
		log.Info().Msg("session restored")
	}()

	movies := catalog.NewStore(client,
		catalog.WithTTL(cfg.CatalogCacheTTL),
		catalog.WithPageSize(cfg.CatalogPageSize),
		catalog.WithLogger(log.With().Str("component", "catalog").Logger()),
	)

	srv := web.NewServer(store, client, movies, cfg.Routes, log.With().Str("component", "web").Logger())
	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("api", cfg.APIBaseURL).Str("storage", cfg.Storage.Driver).Msg("web console listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
