// Package worker provides background status refresh processing for
// StatusDeck.
package worker

import (
	"time"
)

// RefreshConfig holds configuration for the status refresh job.
type RefreshConfig struct {
	// Interval between periodic refresh cycles.
	// Default: 5 minutes
	Interval time.Duration

	// Timeout bounds one full refresh cycle.
	// Default: 2 minutes
	Timeout time.Duration

	// MaxSnapshotAge is how stale the current snapshot may get before
	// the health check job reports failure.
	// Default: 3x Interval
	MaxSnapshotAge time.Duration
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	interval := 5 * time.Minute
	return RefreshConfig{
		Interval:       interval,
		Timeout:        2 * time.Minute,
		MaxSnapshotAge: 3 * interval,
	}
}

// withDefaults fills zero fields with defaults.
func (c RefreshConfig) withDefaults() RefreshConfig {
	defaults := DefaultRefreshConfig()
	if c.Interval <= 0 {
		c.Interval = defaults.Interval
	}
	if c.Timeout <= 0 {
		c.Timeout = defaults.Timeout
	}
	if c.MaxSnapshotAge <= 0 {
		c.MaxSnapshotAge = 3 * c.Interval
	}
	return c
}
