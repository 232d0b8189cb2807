package collector_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgweather/sgweather/internal/collector"
	"github.com/sgweather/sgweather/internal/weather"
)

type stubSecondary struct {
	reading *weather.Reading
	err     error
	called  bool
}

func (s *stubSecondary) FetchCurrent(_ context.Context) (*weather.Reading, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return s.reading, nil
}

func (s *stubSecondary) Name() string { return "stub-secondary" }

func downSource() *stubSource {
	down := errors.New("connection refused")
	return &stubSource{
		temperatureErr: down,
		humidityErr:    down,
		rainfallErr:    down,
		forecastErr:    down,
	}
}

func newChain(primary collector.PrimarySource, secondary collector.SecondarySource) *collector.Chain {
	return collector.NewChain(collector.ChainConfig{
		Primary:   newTestCollector(primary),
		Secondary: secondary,
		Logger:    zerolog.Nop(),
	})
}

func TestChain_PrimarySucceeds(t *testing.T) {
	secondary := &stubSecondary{}
	chain := newChain(healthySource(), secondary)

	reading := chain.Collect(context.Background())
	require.NotNil(t, reading)
	assert.Equal(t, "stub", reading.Source)
	assert.False(t, secondary.called, "secondary must not be consulted when primary succeeds")
}

func TestChain_FallsBackToSecondary(t *testing.T) {
	secondary := &stubSecondary{
		reading: &weather.Reading{
			Timestamp:   time.Now().UTC(),
			Source:      "stub-secondary",
			Reliability: weather.ReliabilitySecondary,
			DataQuality: weather.QualityMeasured,
			Data: weather.ReadingData{
				Temperature: weather.NewAverageBlock([]weather.StationReading{
					{Station: "stub-secondary", Value: 28.0},
				}, "°C"),
			},
		},
	}
	chain := newChain(downSource(), secondary)

	reading := chain.Collect(context.Background())
	require.NotNil(t, reading)
	assert.True(t, secondary.called)
	assert.Equal(t, "stub-secondary", reading.Source)
	assert.Equal(t, weather.ReliabilitySecondary, reading.Reliability)
	assert.NotEmpty(t, reading.CycleID)
	require.NotNil(t, reading.Errors)
	assert.NotEmpty(t, reading.Errors.Primary, "primary failure reason must be carried")
}

func TestChain_EmergencyBaselineWhenAllFail(t *testing.T) {
	secondary := &stubSecondary{err: errors.New("secondary down too")}
	chain := newChain(downSource(), secondary)

	reading := chain.Collect(context.Background())
	require.NotNil(t, reading, "the chain never produces nothing")

	assert.Equal(t, weather.ReliabilityEmergency, reading.Reliability)
	assert.Equal(t, weather.QualityEstimated, reading.DataQuality)
	assert.Equal(t, "emergency_baseline", reading.Source)
	assert.NotEmpty(t, reading.CycleID)

	require.NotNil(t, reading.Errors)
	assert.NotEmpty(t, reading.Errors.Primary)
	assert.Equal(t, "secondary down too", reading.Errors.Secondary)

	require.NotNil(t, reading.Data.Temperature)
	require.NotNil(t, reading.Data.Temperature.Average)
}

func TestChain_EmergencyBaselineWhenSecondaryNotConfigured(t *testing.T) {
	chain := newChain(downSource(), nil)

	reading := chain.Collect(context.Background())
	require.NotNil(t, reading)
	assert.Equal(t, weather.ReliabilityEmergency, reading.Reliability)
	require.NotNil(t, reading.Errors)
	assert.Equal(t, "not configured", reading.Errors.Secondary)
}
