// Package main provides the long-running server entrypoint: collection cycles
// on a fixed schedule plus an HTTP API serving the persisted data to the
// dashboard.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgweather/sgweather/internal/api"
	"github.com/sgweather/sgweather/internal/config"
	"github.com/sgweather/sgweather/internal/pipeline"
	"github.com/sgweather/sgweather/internal/scheduler"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "sgweather-server"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Info().
		Str("build_time", BuildTime).
		Str("data_dir", config.DataDir()).
		Dur("collect_interval", config.CollectInterval()).
		Msg("starting server")

	p := pipeline.Build(log)

	runCycle := func(ctx context.Context) error {
		reading := p.Chain.Collect(ctx)
		return p.Store.Save(reading)
	}

	// Collect once at startup so the API has data immediately.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 5*time.Minute)
	if err := runCycle(startupCtx); err != nil {
		log.Error().Err(err).Msg("initial collection cycle failed")
	}
	cancelStartup()

	sched := scheduler.New(config.CollectInterval(), log, runCycle)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	router := api.NewRouter(api.RouterConfig{
		Version:   Version,
		BuildTime: BuildTime,
		Logger:    log,
		Store:     p.Store,
		Registry:  p.Registry,
	})

	server := &http.Server{
		Addr:         ":" + config.AppPort(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
