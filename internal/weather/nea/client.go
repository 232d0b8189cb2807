// Package nea provides a client for the Singapore NEA realtime environment
// endpoints on data.gov.sg.
package nea

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgweather/sgweather/internal/resilience"
	"github.com/sgweather/sgweather/internal/weather"
)

const (
	// ProviderName identifies this provider in logs and registry entries.
	ProviderName = "nea"

	// DefaultBaseURL is the data.gov.sg realtime environment API base URL.
	DefaultBaseURL = "https://api.data.gov.sg/v1/environment"
)

// ClientConfig holds configuration for the NEA client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to data.gov.sg).
	BaseURL string

	// HTTPClient is the resilient fetcher to use (optional).
	// If nil, uses a resilient client with defaults. All four endpoints share
	// one client, so they share one circuit breaker: consecutive failures
	// across endpoints trip it together, since they hit the same upstream.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches NEA station readings and the 24-hour forecast.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new NEA client.
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
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchTemperature fetches per-station air temperature in °C.
func (c *Client) FetchTemperature(ctx context.Context) ([]weather.StationReading, error) {
	return c.fetchStationReadings(ctx, "air-temperature")
}

// FetchHumidity fetches per-station relative humidity in %.
func (c *Client) FetchHumidity(ctx context.Context) ([]weather.StationReading, error) {
	return c.fetchStationReadings(ctx, "relative-humidity")
}

// FetchRainfall fetches per-station rainfall in mm over the last 5 minutes.
func (c *Client) FetchRainfall(ctx context.Context) ([]weather.StationReading, error) {
	return c.fetchStationReadings(ctx, "rainfall")
}

// fetchStationReadings fetches one realtime endpoint and validates its shape.
// A payload with no items or no readings is an error, not an empty result:
// the ingestion boundary fails loudly on shape mismatch.
func (c *Client) fetchStationReadings(ctx context.Context, endpoint string) ([]weather.StationReading, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)

	var payload realtimeResponse
	if err := c.httpClient.GetJSON(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", endpoint, err)
	}

	if len(payload.Items) == 0 {
		return nil, fmt.Errorf("%s: %w: no items", endpoint, weather.ErrShapeMismatch)
	}
	item := payload.Items[0]
	if len(item.Readings) == 0 {
		return nil, fmt.Errorf("%s: %w", endpoint, weather.ErrNoReadings)
	}

	readings := make([]weather.StationReading, 0, len(item.Readings))
	for _, r := range item.Readings {
		if r.StationID == "" {
			return nil, fmt.Errorf("%s: %w: reading without station_id", endpoint, weather.ErrShapeMismatch)
		}
		readings = append(readings, weather.StationReading{
			Station: r.StationID,
			Value:   r.Value,
		})
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("stations", len(readings)).
		Msg("fetched station readings")

	return readings, nil
}

// FetchForecast fetches the islandwide 24-hour forecast.
func (c *Client) FetchForecast(ctx context.Context) (*weather.ForecastBlock, error) {
	url := fmt.Sprintf("%s/24-hour-weather-forecast", c.baseURL)

	var payload forecastResponse
	if err := c.httpClient.GetJSON(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("fetching 24-hour forecast: %w", err)
	}

	if len(payload.Items) == 0 {
		return nil, fmt.Errorf("24-hour forecast: %w: no items", weather.ErrShapeMismatch)
	}
	item := payload.Items[0]
	if item.General.Forecast == "" {
		return nil, fmt.Errorf("24-hour forecast: %w: empty general forecast", weather.ErrShapeMismatch)
	}

	return &weather.ForecastBlock{
		Summary:     item.General.Forecast,
		LowTempC:    item.General.Temperature.Low,
		HighTempC:   item.General.Temperature.High,
		LowHumidity: item.General.RelativeHumidity.Low,
		MaxHumidity: item.General.RelativeHumidity.High,
		ValidFrom:   item.ValidPeriod.Start,
		ValidTo:     item.ValidPeriod.End,
	}, nil
}

// data.gov.sg realtime API response structures.

type realtimeResponse struct {
	Items []struct {
		Timestamp string `json:"timestamp"`
		Readings  []struct {
			StationID string  `json:"station_id"`
			Value     float64 `json:"value"`
		} `json:"readings"`
	} `json:"items"`
}

type forecastResponse struct {
	Items []struct {
		ValidPeriod struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		} `json:"valid_period"`
		General struct {
			Forecast    string `json:"forecast"`
			Temperature struct {
				Low  float64 `json:"low"`
				High float64 `json:"high"`
			} `json:"temperature"`
			RelativeHumidity struct {
				Low  float64 `json:"low"`
				High float64 `json:"high"`
			} `json:"relative_humidity"`
		} `json:"general"`
	} `json:"items"`
}
