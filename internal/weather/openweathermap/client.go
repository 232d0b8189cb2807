// Package openweathermap provides the secondary weather provider, used when
// the primary NEA endpoints are entirely unavailable.
package openweathermap

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgweather/sgweather/internal/resilience"
	"github.com/sgweather/sgweather/internal/weather"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// Singapore city-center coordinates queried for the islandwide reading.
	singaporeLat = 1.3521
	singaporeLon = 103.8198
)

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the resilient fetcher to use (optional).
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client normalizing responses into the same
// Reading structure the primary source produces.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchCurrent fetches current Singapore weather and normalizes it into a
// Reading. The provider reports a single city-wide observation, so each
// metric block carries one synthetic station.
func (c *Client) FetchCurrent(ctx context.Context) (*weather.Reading, error) {
	url := fmt.Sprintf("%s/weather?lat=%.4f&lon=%.4f&appid=%s&units=metric",
		c.baseURL, singaporeLat, singaporeLon, c.apiKey)

	var payload currentWeatherResponse
	if err := c.httpClient.GetJSON(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("fetching current weather: %w", err)
	}

	station := ProviderName
	tempBlock := weather.NewAverageBlock(
		[]weather.StationReading{{Station: station, Value: payload.Main.Temp}}, "°C")
	humBlock := weather.NewAverageBlock(
		[]weather.StationReading{{Station: station, Value: payload.Main.Humidity}}, "%")
	rainBlock := weather.NewTotalBlock(
		[]weather.StationReading{{Station: station, Value: payload.Rain.OneHour}}, "mm")

	reading := &weather.Reading{
		Timestamp:   time.Unix(payload.Dt, 0).UTC(),
		Source:      ProviderName,
		Data:        weather.ReadingData{Temperature: tempBlock, Humidity: humBlock, Rainfall: rainBlock},
		Reliability: weather.ReliabilitySecondary,
		DataQuality: weather.QualityMeasured,
	}

	if len(payload.Weather) > 0 {
		reading.Data.Forecast = &weather.ForecastBlock{
			Summary:   payload.Weather[0].Description,
			LowTempC:  payload.Main.TempMin,
			HighTempC: payload.Main.TempMax,
		}
	}

	return reading, nil
}

// OpenWeatherMap API response structures.

type currentWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Dt int64 `json:"dt"`
}
