package componentpage

import (
	"context"
	"fmt"

	"github.com/statusdeck/statusdeck/internal/provider"
)

// Checker fetches a component-tree status page and resolves one
// component's status.
type Checker struct {
	endpoint string
	key      string
	fetcher  *provider.Fetcher
}

// NewChecker builds a component-page Checker. Its signature matches
// provider.Factory for registry wiring.
func NewChecker(cfg provider.CheckerConfig) provider.Checker {
	return &Checker{
		endpoint: cfg.Endpoint,
		key:      cfg.Params.Component,
		fetcher:  cfg.Fetcher,
	}
}

// Check fetches and normalizes the configured component's status.
func (c *Checker) Check(ctx context.Context) (provider.Check, error) {
	data, err := c.fetcher.Fetch(ctx, c.endpoint)
	if err != nil {
		return provider.Check{}, fmt.Errorf("fetching component page: %w", err)
	}
	return Parse(data, c.key)
}
