package openweathermap_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgweather/sgweather/internal/resilience"
	"github.com/sgweather/sgweather/internal/weather"
	"github.com/sgweather/sgweather/internal/weather/openweathermap"
)

func TestClient_FetchCurrent_Normalization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		_, _ = w.Write([]byte(`{
			"weather": [{"main": "Rain", "description": "light rain"}],
			"main": {"temp": 28.4, "temp_min": 26.0, "temp_max": 31.0, "humidity": 88},
			"rain": {"1h": 0.4},
			"dt": 1767158400
		}`))
	}))
	defer server.Close()

	client := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name:            "owm-test",
			Timeout:         time.Second,
			MaxAttempts:     1,
			InitialInterval: time.Millisecond,
		}),
	})

	reading, err := client.FetchCurrent(context.Background())
	require.NoError(t, err)

	assert.Equal(t, openweathermap.ProviderName, reading.Source)
	assert.Equal(t, weather.ReliabilitySecondary, reading.Reliability)
	assert.Equal(t, weather.QualityMeasured, reading.DataQuality)

	// The provider reports one city-wide observation, normalized to a single
	// synthetic station per metric.
	require.NotNil(t, reading.Data.Temperature)
	require.Len(t, reading.Data.Temperature.Readings, 1)
	assert.Equal(t, 28.4, reading.Data.Temperature.Readings[0].Value)
	require.NotNil(t, reading.Data.Temperature.Average)
	assert.Equal(t, 28.4, *reading.Data.Temperature.Average)

	require.NotNil(t, reading.Data.Humidity)
	assert.Equal(t, 88.0, *reading.Data.Humidity.Average)

	require.NotNil(t, reading.Data.Rainfall)
	assert.Equal(t, 0.4, *reading.Data.Rainfall.Total)

	require.NotNil(t, reading.Data.Forecast)
	assert.Equal(t, "light rain", reading.Data.Forecast.Summary)
	assert.Equal(t, 26.0, reading.Data.Forecast.LowTempC)
}

func TestClient_FetchCurrent_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:  "bad-key",
		BaseURL: server.URL,
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name:            "owm-test",
			Timeout:         time.Second,
			MaxAttempts:     1,
			InitialInterval: time.Millisecond,
		}),
	})

	_, err := client.FetchCurrent(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 401")
}
