// Package provider defines the contract between the refresh
// orchestrator and the per-upstream status parsers, plus the registry
// that maps a configured parser kind to its implementation.
package provider

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/statusdeck/statusdeck/internal/status"
)

// Kind selects which parser family handles a configured upstream.
type Kind string

const (
	// KindStatuspage handles Statuspage-compatible summary payloads
	// (status.indicator, status.description, incidents[]).
	KindStatuspage Kind = "statuspage"

	// KindIncidentFeed handles flat incident arrays in the Google Cloud
	// incidents.json style, filtered by component, region and time.
	KindIncidentFeed Kind = "incident_feed"

	// KindComponentPage handles component-tree status pages keyed by a
	// named sub-component, with a global fallback block.
	KindComponentPage Kind = "component_page"
)

// Params carries parser-specific parameters bound at configuration
// time. Which fields apply depends on the Kind; unused fields are
// ignored by parsers that do not need them.
type Params struct {
	// Component is the target component name (incident feeds match it
	// exactly; component pages match it as a case-insensitive substring).
	Component string

	// Region is the region marker substring for incident feeds.
	// Matched case-sensitively, no normalization.
	Region string
}

// Check is the normalized triple every parser produces.
type Check struct {
	Status    status.Status
	Message   string
	Incidents []string
}

// Checker fetches and parses one upstream's status payload.
// Implementations keep Check side-effect free beyond the fetch itself;
// any failure is reported through the error, never by panicking.
type Checker interface {
	Check(ctx context.Context) (Check, error)
}

// CheckerConfig is what a Factory needs to build a Checker for one
// configured upstream.
type CheckerConfig struct {
	// Endpoint is the status API URL to fetch.
	Endpoint string

	// Params are the parser-specific parameters.
	Params Params

	// Fetcher performs the HTTP GET.
	Fetcher *Fetcher

	// Logger for checker diagnostics.
	Logger zerolog.Logger
}

// Factory builds a Checker from its configuration.
type Factory func(cfg CheckerConfig) Checker

// Registry maps parser kinds to factories. Adding a provider family
// means registering one factory; dispatch never grows a branch.
type Registry struct {
	factories map[Kind]Factory
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// Register adds a factory for a parser kind, replacing any previous one.
func (r *Registry) Register(kind Kind, factory Factory) {
	r.factories[kind] = factory
}

// New builds a Checker for the given kind.
func (r *Registry) New(kind Kind, cfg CheckerConfig) (Checker, error) {
	factory, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown parser kind %q", kind)
	}
	return factory(cfg), nil
}

// Kinds returns the registered parser kinds, sorted for stable output.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
