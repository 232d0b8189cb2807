package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgweather/sgweather/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	require.NoError(t, config.Load())

	assert.Equal(t, 10*time.Second, config.RequestTimeout())
	assert.Equal(t, uint64(3), config.MaxRetries())
	assert.Equal(t, time.Second, config.EndpointDelay())
	assert.Equal(t, uint32(5), config.BreakerFailureThreshold())
	assert.Equal(t, 60*time.Second, config.BreakerCooldown())
	assert.Equal(t, "data/weather", config.DataDir())
	assert.Equal(t, 15*time.Minute, config.CollectInterval())
	assert.Equal(t, "8080", config.AppPort())
	assert.Empty(t, config.WeatherAPIKey())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "2500")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("WEATHER_API_KEY", "secret")

	require.NoError(t, config.Load())

	assert.Equal(t, 2500*time.Millisecond, config.RequestTimeout())
	assert.Equal(t, uint64(5), config.MaxRetries())
	assert.Equal(t, "secret", config.WeatherAPIKey())
}
