package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/statusdeck/statusdeck/internal/provider/resilience"
)

// maxBodySize caps status payload reads. Status APIs return documents
// in the tens of kilobytes; anything near this limit is broken.
const maxBodySize = 4 << 20

// FetcherConfig holds configuration for a Fetcher.
type FetcherConfig struct {
	// Name identifies the upstream for breaker naming and health
	// bookkeeping.
	Name string

	// HTTPClient is the resilient client to use. If nil, a
	// single-attempt client with defaults is created.
	HTTPClient *resilience.Client

	// Registry records fetch outcomes for the ops surface (optional).
	Registry *resilience.Registry

	// Metrics records fetch durations and counts (optional).
	Metrics *FetchMetrics

	// Logger for fetch diagnostics.
	Logger zerolog.Logger
}

// Fetcher performs the HTTP GET against one upstream's status endpoint.
// It knows nothing about payload shapes; parsers receive the raw bytes.
type Fetcher struct {
	name       string
	httpClient *resilience.Client
	registry   *resilience.Registry
	metrics    *FetchMetrics
	logger     zerolog.Logger
}

// NewFetcher creates a Fetcher for one upstream.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(cfg.Name))
	}

	if cfg.Registry != nil {
		cfg.Registry.Register(cfg.Name, httpClient)
	}

	return &Fetcher{
		name:       cfg.Name,
		httpClient: httpClient,
		registry:   cfg.Registry,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Fetch retrieves the raw status payload from url. Any non-2xx
// response, network failure or timeout is returned as an error; the
// caller presents it as an outage for this upstream only.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	body, err := f.fetch(ctx, url)
	if f.metrics != nil {
		f.metrics.RecordFetch(f.name, time.Since(start), err)
	}
	return body, err
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.recordFailure(err)
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		f.recordFailure(err)
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		f.recordFailure(err)
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	f.recordSuccess()
	return body, nil
}

func (f *Fetcher) recordSuccess() {
	if f.registry != nil {
		f.registry.RecordSuccess(f.name)
	}
}

func (f *Fetcher) recordFailure(err error) {
	f.logger.Warn().Str("upstream", f.name).Err(err).Msg("status fetch failed")
	if f.registry != nil {
		f.registry.RecordFailure(f.name, err)
	}
}
