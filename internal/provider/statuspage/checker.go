package statuspage

import (
	"context"
	"fmt"

	"github.com/statusdeck/statusdeck/internal/provider"
)

// Checker fetches a Statuspage summary endpoint and parses it.
type Checker struct {
	endpoint string
	fetcher  *provider.Fetcher
}

// NewChecker builds a statuspage Checker. Its signature matches
// provider.Factory for registry wiring.
func NewChecker(cfg provider.CheckerConfig) provider.Checker {
	return &Checker{
		endpoint: cfg.Endpoint,
		fetcher:  cfg.Fetcher,
	}
}

// Check fetches and normalizes the upstream's current status.
func (c *Checker) Check(ctx context.Context) (provider.Check, error) {
	data, err := c.fetcher.Fetch(ctx, c.endpoint)
	if err != nil {
		return provider.Check{}, fmt.Errorf("fetching status: %w", err)
	}
	return Parse(data)
}
