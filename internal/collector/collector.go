// Package collector runs one collection cycle: sequential fetches from the
// primary endpoints with partial-failure tolerance, then tiered fallback to
// the secondary provider and the emergency baseline.
package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sgweather/sgweather/internal/weather"
)

// ErrAllEndpointsFailed is returned when every primary endpoint failed in a
// cycle. Callers must distinguish this from an empty dataset.
var ErrAllEndpointsFailed = errors.New("all primary endpoints failed")

// PrimarySource is the set of endpoint fetches one collection cycle issues.
type PrimarySource interface {
	FetchTemperature(ctx context.Context) ([]weather.StationReading, error)
	FetchHumidity(ctx context.Context) ([]weather.StationReading, error)
	FetchRainfall(ctx context.Context) ([]weather.StationReading, error)
	FetchForecast(ctx context.Context) (*weather.ForecastBlock, error)
	Name() string
}

// Config holds configuration for the collector.
type Config struct {
	// Source is the primary provider (required).
	Source PrimarySource

	// EndpointDelay is the fixed courtesy pause between endpoint calls.
	// Default: 1 second. Endpoints are queried strictly in sequence to stay
	// within a conservative rate toward the upstream API.
	EndpointDelay time.Duration

	// Logger for collection operations.
	Logger zerolog.Logger
}

// Collector assembles one Reading per invocation from the primary endpoints.
type Collector struct {
	source PrimarySource
	delay  time.Duration
	logger zerolog.Logger
}

// New creates a collector for the given primary source.
func New(cfg Config) *Collector {
	delay := cfg.EndpointDelay
	if delay == 0 {
		delay = time.Second
	}
	return &Collector{
		source: cfg.Source,
		delay:  delay,
		logger: cfg.Logger,
	}
}

// endpointResult is one settled endpoint outcome. Failures are collected, not
// propagated, so a single endpoint failing never aborts the others.
type endpointResult struct {
	metric weather.Metric
	err    error
}

// CollectPrimary queries the four metric endpoints in fixed order
// (temperature, humidity, rainfall, forecast) with a fixed inter-call delay,
// tolerating per-endpoint failure, and assembles whatever succeeded into a
// Reading. If every endpoint failed it returns (nil, ErrAllEndpointsFailed)
// rather than an empty Reading.
func (c *Collector) CollectPrimary(ctx context.Context) (*weather.Reading, error) {
	start := time.Now()
	var (
		data    weather.ReadingData
		settled []endpointResult
	)

	fetches := []struct {
		metric weather.Metric
		run    func(context.Context) error
	}{
		{weather.MetricTemperature, func(ctx context.Context) error {
			readings, err := c.source.FetchTemperature(ctx)
			if err != nil {
				return err
			}
			data.Temperature = weather.NewAverageBlock(readings, "°C")
			return nil
		}},
		{weather.MetricHumidity, func(ctx context.Context) error {
			readings, err := c.source.FetchHumidity(ctx)
			if err != nil {
				return err
			}
			data.Humidity = weather.NewAverageBlock(readings, "%")
			return nil
		}},
		{weather.MetricRainfall, func(ctx context.Context) error {
			readings, err := c.source.FetchRainfall(ctx)
			if err != nil {
				return err
			}
			data.Rainfall = weather.NewTotalBlock(readings, "mm")
			return nil
		}},
		{weather.MetricForecast, func(ctx context.Context) error {
			forecast, err := c.source.FetchForecast(ctx)
			if err != nil {
				return err
			}
			data.Forecast = forecast
			return nil
		}},
	}

	for i, f := range fetches {
		if i > 0 {
			if err := sleepCtx(ctx, c.delay); err != nil {
				settled = append(settled, endpointResult{metric: f.metric, err: err})
				continue
			}
		}

		err := f.run(ctx)
		settled = append(settled, endpointResult{metric: f.metric, err: err})
		if err != nil {
			c.logger.Warn().
				Str("metric", string(f.metric)).
				Err(err).
				Msg("endpoint fetch failed")
		}
	}

	succeeded, failed := 0, 0
	var failures []string
	for _, r := range settled {
		if r.err != nil {
			failed++
			failures = append(failures, fmt.Sprintf("%s: %s", r.metric, r.err.Error()))
		} else {
			succeeded++
		}
	}

	if succeeded == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAllEndpointsFailed, strings.Join(failures, "; "))
	}

	reliability := weather.ReliabilityHigh
	if failed > 0 {
		reliability = weather.ReliabilityPartial
	}

	reading := &weather.Reading{
		CycleID:          uuid.New().String(),
		Timestamp:        time.Now().UTC(),
		Source:           c.source.Name(),
		CollectionTimeMS: time.Since(start).Milliseconds(),
		Data:             data,
		SuccessfulCalls:  succeeded,
		FailedCalls:      failed,
		Reliability:      reliability,
		DataQuality:      weather.QualityMeasured,
	}

	c.logger.Info().
		Str("cycle_id", reading.CycleID).
		Int("successful_calls", succeeded).
		Int("failed_calls", failed).
		Int64("collection_time_ms", reading.CollectionTimeMS).
		Msg("primary collection completed")

	return reading, nil
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
