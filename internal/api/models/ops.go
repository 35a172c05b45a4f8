package models

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// UpstreamStatus describes the transport-level health of one monitored
// upstream's status API, as tracked by its circuit breaker. This is
// about reaching the upstream, not about the status it reports.
type UpstreamStatus struct {
	Upstream      string     `json:"upstream"`
	CircuitState  string     `json:"circuitState"`
	Reachable     bool       `json:"reachable"`
	LastSuccessAt *Timestamp `json:"lastSuccessAt,omitempty"`
	LastFailureAt *Timestamp `json:"lastFailureAt,omitempty"`
	LastError     *string    `json:"lastError,omitempty"`
}

// UpstreamsReport lists the transport health of every monitored
// upstream.
type UpstreamsReport struct {
	Upstreams []UpstreamStatus `json:"upstreams"`
	Count     int              `json:"count"`
}
