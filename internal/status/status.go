// Package status defines the canonical health model shared by all
// provider parsers and the refresh orchestrator.
package status

// Status is the normalized health state of a monitored service.
type Status string

const (
	// StatusOperational indicates the service reports no known problems.
	StatusOperational Status = "operational"

	// StatusDegraded indicates partial impairment (minor or major issues
	// short of a full outage).
	StatusDegraded Status = "degraded"

	// StatusOutage indicates a service disruption, a fetch failure, or an
	// unrecognized severity token.
	StatusOutage Status = "outage"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// severity orders statuses for the worst-of reduction.
// Higher is worse.
func (s Status) severity() int {
	switch s {
	case StatusOperational:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Worse reports whether s is a worse state than other.
func (s Status) Worse(other Status) bool {
	return s.severity() > other.severity()
}

// MapIndicator normalizes a raw Statuspage-style severity token into a
// canonical Status. The mapping is total: an empty token means the
// upstream reported no indicator at all, which is treated as healthy
// (a fetch failure is a separate concern handled by the orchestrator),
// while any token outside the known vocabulary maps to outage so that
// surprises surface on the dashboard rather than hide behind green.
//
// Token matching is case-sensitive, matching the Statuspage API vocab.
func MapIndicator(raw string) Status {
	switch raw {
	case "", "none", "operational":
		return StatusOperational
	case "minor", "major", "partial_outage":
		return StatusDegraded
	default:
		return StatusOutage
	}
}
