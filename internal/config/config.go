// Package config centralizes environment configuration for the collector.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Load registers defaults and binds environment variables.
func Load() error {
	// HTTP fetch behavior
	viper.SetDefault("REQUEST_TIMEOUT", 10000) // ms, per attempt
	viper.SetDefault("MAX_RETRIES", 3)         // attempts per logical call
	viper.SetDefault("ENDPOINT_DELAY", 1000)   // ms between primary endpoints

	// Circuit breaker
	viper.SetDefault("CB_FAILURE_THRESHOLD", 5)
	viper.SetDefault("CB_COOLDOWN", 60) // seconds

	// Providers
	viper.SetDefault("NEA_BASE_URL", "https://api.data.gov.sg/v1/environment")
	viper.SetDefault("WEATHER_API_KEY", "") // enables the secondary provider when set

	// Persistence
	viper.SetDefault("DATA_DIR", "data/weather")

	// Server mode
	viper.SetDefault("COLLECT_INTERVAL", 15) // minutes
	viper.SetDefault("APP_PORT", "8080")

	viper.AutomaticEnv()
	return nil
}

func RequestTimeout() time.Duration {
	return time.Duration(viper.GetInt("REQUEST_TIMEOUT")) * time.Millisecond
}
func MaxRetries() uint64 { return viper.GetUint64("MAX_RETRIES") }

func EndpointDelay() time.Duration {
	return time.Duration(viper.GetInt("ENDPOINT_DELAY")) * time.Millisecond
}
func BreakerFailureThreshold() uint32 { return viper.GetUint32("CB_FAILURE_THRESHOLD") }
func BreakerCooldown() time.Duration {
	return time.Duration(viper.GetInt("CB_COOLDOWN")) * time.Second
}
func NEABaseURL() string    { return viper.GetString("NEA_BASE_URL") }
func WeatherAPIKey() string { return viper.GetString("WEATHER_API_KEY") }
func DataDir() string       { return viper.GetString("DATA_DIR") }
func CollectInterval() time.Duration {
	return time.Duration(viper.GetInt("COLLECT_INTERVAL")) * time.Minute
}
func AppPort() string { return viper.GetString("APP_PORT") }
