package resilience

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// Predefined errors for resilient fetches.
var (
	// ErrCircuitOpen is returned when the circuit breaker blocks the call.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrMaxRetriesExceeded is returned when all retry attempts have been exhausted.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// ClientConfig holds configuration for the resilient fetcher.
type ClientConfig struct {
	// Name identifies this client for circuit breaker naming and registry entries.
	Name string

	// Timeout is the hard timeout applied to each individual HTTP attempt.
	// Default: 10 seconds
	Timeout time.Duration

	// MaxAttempts is the maximum number of attempts per logical call,
	// including the first. Default: 3
	MaxAttempts uint64

	// InitialInterval is the backoff before the first retry. Subsequent waits
	// double, with jitter, so retries spread out instead of hammering the
	// upstream in lockstep. Default: 1 second
	InitialInterval time.Duration

	// MaxInterval caps the backoff interval. Default: 30 seconds
	MaxInterval time.Duration

	// CircuitBreaker configures the breaker guarding this client.
	// If nil, uses DefaultCircuitBreakerConfig.
	CircuitBreaker *CircuitBreakerConfig

	// Registry, if set, receives success/failure outcomes for health reporting.
	Registry *Registry

	// Logger for fetch operations.
	Logger zerolog.Logger
}

// DefaultClientConfig returns sensible defaults for the resilient fetcher.
func DefaultClientConfig(name string) ClientConfig {
	cbConfig := DefaultCircuitBreakerConfig(name)
	return ClientConfig{
		Name:            name,
		Timeout:         10 * time.Second,
		MaxAttempts:     3,
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		CircuitBreaker:  &cbConfig,
	}
}

// Client fetches JSON payloads with circuit breaker protection and retries.
//
// The whole retry loop for one logical call runs inside a single breaker
// execution, so a call that exhausts its retries counts as exactly one failure
// against the breaker's consecutive-failure tally. Bursts of retries inside one
// call cannot trip the breaker on their own.
type Client struct {
	name       string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	config     ClientConfig
	logger     zerolog.Logger
}

// NewClient creates a new resilient fetcher.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = time.Second
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 30 * time.Second
	}

	cbConfig := cfg.CircuitBreaker
	if cbConfig == nil {
		defaultCB := DefaultCircuitBreakerConfig(cfg.Name)
		cbConfig = &defaultCB
	}

	c := &Client{
		name: cfg.Name,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: NewCircuitBreaker[[]byte](*cbConfig),
		config:  cfg,
		logger:  cfg.Logger,
	}

	if cfg.Registry != nil {
		cfg.Registry.Register(cfg.Name, c)
	}

	return c
}

// GetJSON fetches the URL and decodes the response body into out.
// Fails immediately with ErrCircuitOpen if the breaker blocks the call.
// Transient failures (network errors, non-2xx, a 2xx body that does not
// decode) are retried with exponential backoff and jitter up to MaxAttempts;
// the last failure's message is embedded in the returned error. The call only
// counts as a success, toward the breaker and the registry, once a body has
// been decoded.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return c.fetchWithRetry(ctx, url, out)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = ErrCircuitOpen
		}
		if c.config.Registry != nil {
			c.config.Registry.RecordFailure(c.name, err)
		}
		return err
	}

	if c.config.Registry != nil {
		c.config.Registry.RecordSuccess(c.name)
	}
	return nil
}

// fetchWithRetry runs the attempt loop for one logical call, decoding the body
// into out on the attempt that succeeds. It returns the raw body, or the last
// attempt's error once retries are exhausted.
func (c *Client) fetchWithRetry(ctx context.Context, url string, out any) ([]byte, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.Multiplier = 2.0
	bo.RandomizationFactor = 0.5
	bo.MaxElapsedTime = 0 // attempts are bounded by WithMaxRetries

	retries := backoff.WithMaxRetries(bo, c.config.MaxAttempts-1)
	boCtx := backoff.WithContext(retries, ctx)

	var body []byte
	attempt := 0

	operation := func() error {
		attempt++
		b, err := c.fetchOnce(ctx, url)
		if err == nil {
			if decodeErr := json.Unmarshal(b, out); decodeErr != nil {
				err = fmt.Errorf("decoding response from %s: %w", url, decodeErr)
			}
		}
		if err != nil {
			c.logger.Warn().
				Str("client", c.name).
				Str("url", url).
				Int("attempt", attempt).
				Err(err).
				Msg("fetch attempt failed")
			return err
		}
		body = b
		return nil
	}

	if err := backoff.Retry(operation, boCtx); err != nil {
		return nil, fmt.Errorf("%w after %d attempts: %s", ErrMaxRetriesExceeded, attempt, err.Error())
	}
	return body, nil
}

// fetchOnce performs a single HTTP attempt with the configured timeout.
func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// CircuitBreakerState returns the current state of the circuit breaker.
func (c *Client) CircuitBreakerState() gobreaker.State {
	return c.breaker.State()
}

// CircuitBreakerCounts returns the current counts of the circuit breaker.
func (c *Client) CircuitBreakerCounts() gobreaker.Counts {
	return c.breaker.Counts()
}
