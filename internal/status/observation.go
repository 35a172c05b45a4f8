package status

import "time"

// Observation is the normalized result of checking one service during a
// refresh cycle.
type Observation struct {
	// Name is the stable identifier of the monitored service.
	Name string

	// Status is the canonical health state.
	Status Status

	// Message is a human-readable summary. Never empty: parsers
	// substitute a default when the upstream payload has no description.
	Message string

	// Incidents holds active incident descriptions in discovery order.
	// Empty means no active incidents. A non-empty list does not imply
	// an outage; providers may publish informational incidents.
	Incidents []string

	// ReferenceURL links to the provider's public status page, if known.
	ReferenceURL string

	// ObservedAt is when the orchestrator stored this observation,
	// not when the fetch began.
	ObservedAt time.Time
}

// Snapshot is the result of one full refresh cycle. It is rebuilt from
// scratch each cycle and replaces the previous snapshot wholesale.
type Snapshot struct {
	// Services maps service name to its observation for this cycle.
	Services map[string]Observation

	// Order lists service names in configuration order, for stable
	// presentation.
	Order []string

	// Overall is the worst-of reduction across all observations.
	Overall Status

	// RefreshedAt is when the cycle completed.
	RefreshedAt time.Time
}

// Overall reduces a set of observations to a single aggregate status:
// outage if any observation is an outage, else degraded if any is
// degraded, else operational. An empty set is operational.
func Overall(observations map[string]Observation) Status {
	overall := StatusOperational
	for _, obs := range observations {
		if obs.Status.Worse(overall) {
			overall = obs.Status
		}
	}
	return overall
}
