// Package main provides the one-shot collector entrypoint: run one collection
// cycle, persist the result, and exit. An external timer (cron, systemd) is
// expected to invoke it periodically.
//
// Exit codes: 0 when a Reading was written (including an emergency baseline),
// 1 on unrecoverable write failure.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgweather/sgweather/internal/config"
	"github.com/sgweather/sgweather/internal/pipeline"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "sgweather-collector"

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
		Msg("starting collection cycle")

	p := pipeline.Build(log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	reading := p.Chain.Collect(ctx)

	if err := p.Store.Save(reading); err != nil {
		log.Error().Err(err).Msg("unrecoverable write failure")
		os.Exit(1)
	}

	log.Info().
		Str("cycle_id", reading.CycleID).
		Str("source", reading.Source).
		Str("reliability", string(reading.Reliability)).
		Msg("collection cycle completed")
}
