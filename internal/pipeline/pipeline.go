// Package pipeline wires the resilient provider clients, fallback chain, and
// store from configuration. Both binaries share this wiring.
package pipeline

import (
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/sgweather/sgweather/internal/collector"
	"github.com/sgweather/sgweather/internal/config"
	"github.com/sgweather/sgweather/internal/resilience"
	"github.com/sgweather/sgweather/internal/store"
	"github.com/sgweather/sgweather/internal/weather/nea"
	"github.com/sgweather/sgweather/internal/weather/openweathermap"
)

// Pipeline bundles the wired collection components.
type Pipeline struct {
	Chain    *collector.Chain
	Store    *store.Store
	Registry *resilience.Registry
}

// Build constructs the full pipeline from the loaded configuration.
func Build(log zerolog.Logger) *Pipeline {
	registry := resilience.NewRegistry()

	primary := collector.New(collector.Config{
		Source:        newNEAClient(log, registry),
		EndpointDelay: config.EndpointDelay(),
		Logger:        log,
	})

	var secondary collector.SecondarySource
	if apiKey := config.WeatherAPIKey(); apiKey != "" {
		secondary = newOWMClient(log, registry, apiKey)
		log.Info().Msg("secondary provider enabled")
	} else {
		log.Info().Msg("no WEATHER_API_KEY set, secondary provider disabled")
	}

	chain := collector.NewChain(collector.ChainConfig{
		Primary:   primary,
		Secondary: secondary,
		Logger:    log,
	})

	st := store.New(store.Config{
		Root:   config.DataDir(),
		Logger: log,
	})

	return &Pipeline{Chain: chain, Store: st, Registry: registry}
}

func newNEAClient(log zerolog.Logger, registry *resilience.Registry) *nea.Client {
	breaker := resilience.DefaultCircuitBreakerConfig(nea.ProviderName)
	breaker.FailureThreshold = config.BreakerFailureThreshold()
	breaker.Cooldown = config.BreakerCooldown()
	breaker.OnStateChange = logStateChange(log)

	return nea.NewClient(nea.ClientConfig{
		BaseURL: config.NEABaseURL(),
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name:           nea.ProviderName,
			Timeout:        config.RequestTimeout(),
			MaxAttempts:    config.MaxRetries(),
			CircuitBreaker: &breaker,
			Registry:       registry,
			Logger:         log,
		}),
		Logger: log,
	})
}

func newOWMClient(log zerolog.Logger, registry *resilience.Registry, apiKey string) *openweathermap.Client {
	breaker := resilience.DefaultCircuitBreakerConfig(openweathermap.ProviderName)
	breaker.OnStateChange = logStateChange(log)

	return openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey: apiKey,
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name:           openweathermap.ProviderName,
			Timeout:        config.RequestTimeout(),
			MaxAttempts:    config.MaxRetries(),
			CircuitBreaker: &breaker,
			Registry:       registry,
			Logger:         log,
		}),
		Logger: log,
	})
}

func logStateChange(log zerolog.Logger) func(name string, from, to gobreaker.State) {
	return func(name string, from, to gobreaker.State) {
		log.Warn().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("circuit breaker state changed")
	}
}
