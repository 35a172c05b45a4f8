package models

// ServiceStatus is one monitored service's normalized status as shown
// on the dashboard.
type ServiceStatus struct {
	// Name is the service's display identifier.
	Name string `json:"name"`

	// Status is the canonical health state: operational, degraded or
	// outage.
	Status string `json:"status"`

	// Message is a human-readable summary. Never empty.
	Message string `json:"message"`

	// Incidents holds active incident descriptions in discovery order.
	Incidents []string `json:"incidents,omitempty"`

	// StatusPageURL links to the provider's public status page.
	StatusPageURL string `json:"statusPageUrl,omitempty"`

	// ObservedAt is when this status was collected.
	ObservedAt Timestamp `json:"observedAt"`
}

// StatusSummary is the full dashboard payload: every monitored service
// plus the worst-of aggregate.
type StatusSummary struct {
	// Overall is the aggregate status across all services.
	Overall string `json:"overall"`

	// RefreshedAt is when the underlying refresh cycle completed.
	RefreshedAt Timestamp `json:"refreshedAt"`

	// Services lists every monitored service in configuration order.
	Services []ServiceStatus `json:"services"`
}
