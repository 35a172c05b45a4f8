package incidentfeed

import (
	"context"
	"fmt"
	"time"

	"github.com/statusdeck/statusdeck/internal/provider"
)

// Checker fetches an incident feed and filters it for one component
// and region.
type Checker struct {
	endpoint  string
	component string
	region    string
	fetcher   *provider.Fetcher

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewChecker builds an incident-feed Checker. Its signature matches
// provider.Factory for registry wiring.
func NewChecker(cfg provider.CheckerConfig) provider.Checker {
	return &Checker{
		endpoint:  cfg.Endpoint,
		component: cfg.Params.Component,
		region:    cfg.Params.Region,
		fetcher:   cfg.Fetcher,
		now:       time.Now,
	}
}

// Check fetches the feed and reduces it to the component's status.
func (c *Checker) Check(ctx context.Context) (provider.Check, error) {
	data, err := c.fetcher.Fetch(ctx, c.endpoint)
	if err != nil {
		return provider.Check{}, fmt.Errorf("fetching incident feed: %w", err)
	}
	return Parse(data, c.component, c.region, c.now())
}
