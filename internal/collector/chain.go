package collector

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sgweather/sgweather/internal/weather"
)

// SecondarySource is the fallback provider tried when the primary source
// fails entirely.
type SecondarySource interface {
	FetchCurrent(ctx context.Context) (*weather.Reading, error)
	Name() string
}

// ChainConfig holds configuration for the fallback chain.
type ChainConfig struct {
	// Primary is the multi-endpoint collector (required).
	Primary *Collector

	// Secondary is the fallback provider. Nil means not configured.
	Secondary SecondarySource

	// Logger for chain operations.
	Logger zerolog.Logger
}

// Chain tries the primary collector, then the secondary provider, then
// synthesizes an emergency baseline. It always produces a Reading, so
// downstream consumers never see a hard outage; degradation is visible in
// the Source and Reliability fields.
type Chain struct {
	primary   *Collector
	secondary SecondarySource
	logger    zerolog.Logger
	now       func() time.Time
}

// NewChain creates a fallback chain.
func NewChain(cfg ChainConfig) *Chain {
	return &Chain{
		primary:   cfg.Primary,
		secondary: cfg.Secondary,
		logger:    cfg.Logger,
		now:       time.Now,
	}
}

// Collect returns the best available Reading for this cycle. It never fails:
// if both real sources are down, the result is a clearly-tagged emergency
// baseline carrying the failure reasons.
func (c *Chain) Collect(ctx context.Context) *weather.Reading {
	start := c.now()

	reading, primaryErr := c.primary.CollectPrimary(ctx)
	if primaryErr == nil {
		return reading
	}

	c.logger.Error().
		Err(primaryErr).
		Msg("primary source failed entirely, trying secondary")

	var errs weather.ReadingErrors
	errs.Primary = primaryErr.Error()

	if c.secondary != nil {
		secondary, secondaryErr := c.secondary.FetchCurrent(ctx)
		if secondaryErr == nil {
			secondary.CycleID = uuid.New().String()
			secondary.CollectionTimeMS = c.now().Sub(start).Milliseconds()
			secondary.SuccessfulCalls = 1
			secondary.Errors = &weather.ReadingErrors{Primary: errs.Primary}
			c.logger.Warn().
				Str("source", c.secondary.Name()).
				Msg("serving reading from secondary provider")
			return secondary
		}
		errs.Secondary = secondaryErr.Error()
		c.logger.Error().
			Err(secondaryErr).
			Msg("secondary source failed")
	} else {
		errs.Secondary = "not configured"
	}

	baseline := weather.NewEmergencyBaseline(c.now(), errs)
	baseline.CycleID = uuid.New().String()
	baseline.CollectionTimeMS = c.now().Sub(start).Milliseconds()
	baseline.FailedCalls = 1

	c.logger.Error().
		Str("cycle_id", baseline.CycleID).
		Msg("all sources unavailable, synthesized emergency baseline")

	return baseline
}
