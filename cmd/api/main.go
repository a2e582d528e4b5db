package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jaskrrish/go-qbridge/internal/config"
	"github.com/jaskrrish/go-qbridge/internal/handlers"
	"github.com/jaskrrish/go-qbridge/internal/jobs"
	"github.com/jaskrrish/go-qbridge/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})
	log.Info().Str("backend", cfg.DefaultBackend).Msg("Starting qbridge")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	store, err := jobs.Open(cfg.JobsDBPath, log)
	if err != nil {
		return fmt.Errorf("opening jobs database: %w", err)
	}
	defer store.Close()

	// Daily pruning of old execution records.
	cleanup := jobs.NewCleanupJob(store, time.Duration(cfg.JobsMaxAgeDays)*24*time.Hour, log)
	scheduler := cron.New()
	if _, err := scheduler.AddJob("@daily", cleanup); err != nil {
		return fmt.Errorf("scheduling cleanup job: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	h := handlers.NewHandler(cfg, store, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
