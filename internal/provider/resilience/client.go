package resilience

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the circuit breaker is open and the
// upstream is not being contacted at all.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// RetryPolicy configures exponential-backoff retries for transient
// failures (network errors and 5xx responses).
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first.
	MaxRetries uint64

	// InitialInterval is the first backoff delay. Default: 100ms
	InitialInterval time.Duration

	// MaxInterval caps the backoff delay. Default: 5 seconds
	MaxInterval time.Duration
}

// ClientConfig holds configuration for the resilient HTTP client.
type ClientConfig struct {
	// Name identifies this client for circuit breaker naming.
	Name string

	// Timeout is the per-request timeout. Default: 10 seconds.
	// Every call carries it; an unresponsive upstream must never stall
	// a refresh cycle.
	Timeout time.Duration

	// Retry enables retries on transient failures. When nil the client
	// makes exactly one attempt per call, which is how status fetches
	// run: a failed provider simply shows as an outage until the next
	// refresh.
	Retry *RetryPolicy

	// CircuitBreaker configures the breaker.
	// If nil, uses DefaultCircuitBreakerConfig.
	CircuitBreaker *CircuitBreakerConfig
}

// DefaultClientConfig returns the single-attempt configuration used for
// status-page fetches.
func DefaultClientConfig(name string) ClientConfig {
	cbConfig := DefaultCircuitBreakerConfig(name)
	return ClientConfig{
		Name:           name,
		Timeout:        10 * time.Second,
		CircuitBreaker: &cbConfig,
	}
}

// Client is an HTTP client with circuit breaker protection and an
// optional retry policy.
type Client struct {
	httpClient     *http.Client
	circuitBreaker *gobreaker.CircuitBreaker[*http.Response]
	config         ClientConfig
}

// NewClient creates a new resilient HTTP client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retry != nil {
		if cfg.Retry.InitialInterval == 0 {
			cfg.Retry.InitialInterval = 100 * time.Millisecond
		}
		if cfg.Retry.MaxInterval == 0 {
			cfg.Retry.MaxInterval = 5 * time.Second
		}
	}

	var cb *gobreaker.CircuitBreaker[*http.Response]
	if cfg.CircuitBreaker != nil {
		cb = NewCircuitBreaker[*http.Response](*cfg.CircuitBreaker) //nolint:bodyclose // type param, not response
	} else {
		defaultCB := DefaultCircuitBreakerConfig(cfg.Name)
		cb = NewCircuitBreaker[*http.Response](defaultCB) //nolint:bodyclose // type param, not response
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		circuitBreaker: cb,
		config:         cfg,
	}
}

// Do executes an HTTP request through the circuit breaker, retrying per
// the configured policy. Returns ErrCircuitOpen without contacting the
// upstream when the breaker is open.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := c.newBackOff(ctx)

	var lastResp *http.Response

	operation := func() error {
		// 5xx responses are returned as errors so they count against
		// the breaker and are eligible for retry.
		resp, err := c.circuitBreaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			reqClone := req.Clone(ctx)
			r, doErr := c.httpClient.Do(reqClone)
			if doErr != nil {
				return nil, doErr
			}
			if r.StatusCode >= 500 {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}

		lastResp = resp
		return nil
	}

	err := backoff.Retry(operation, bo)
	if err != nil {
		// A 5xx that exhausted all attempts still yields the response;
		// the caller decides how to present it.
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}

	return lastResp, nil
}

// newBackOff builds the retry schedule: zero extra attempts unless a
// retry policy is configured.
func (c *Client) newBackOff(ctx context.Context) backoff.BackOffContext {
	if c.config.Retry == nil {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.Retry.InitialInterval
	bo.MaxInterval = c.config.Retry.MaxInterval
	bo.MaxElapsedTime = 0 // attempts are bounded by MaxRetries, not wall time

	return backoff.WithContext(backoff.WithMaxRetries(bo, c.config.Retry.MaxRetries), ctx)
}

// ServerError represents an HTTP 5xx server error.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}

// CircuitBreakerState returns the current state of the circuit breaker.
func (c *Client) CircuitBreakerState() gobreaker.State {
	return c.circuitBreaker.State()
}

// CircuitBreakerCounts returns the current counts of the circuit breaker.
func (c *Client) CircuitBreakerCounts() gobreaker.Counts {
	return c.circuitBreaker.Counts()
}
