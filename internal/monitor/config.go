// Package monitor orchestrates refresh cycles across the configured
// status upstreams and holds the current aggregate snapshot.
package monitor

import (
	"github.com/statusdeck/statusdeck/internal/provider"
	"github.com/statusdeck/statusdeck/internal/provider/componentpage"
	"github.com/statusdeck/statusdeck/internal/provider/incidentfeed"
	"github.com/statusdeck/statusdeck/internal/provider/statuspage"
)

// ServiceConfig describes one monitored service. The roster is static:
// it is defined at build time and never reconfigured at runtime.
type ServiceConfig struct {
	// Name is the display identifier, unique within the roster.
	Name string

	// EndpointURL is the status API to fetch.
	EndpointURL string

	// StatusPageURL links to the human-facing status page.
	StatusPageURL string

	// Parser selects the parser family for this upstream.
	Parser provider.Kind

	// Params carries the parser-specific parameters.
	Params provider.Params
}

// DefaultServices returns the default monitoring roster.
func DefaultServices() []ServiceConfig {
	return []ServiceConfig{
		{
			Name:          "Google Cloud",
			EndpointURL:   "https://status.cloud.google.com/incidents.json",
			StatusPageURL: "https://status.cloud.google.com/",
			Parser:        provider.KindIncidentFeed,
			Params: provider.Params{
				Component: "Google Cloud Console",
				Region:    "North America",
			},
		},
		{
			Name:          "OpenAI",
			EndpointURL:   "https://status.openai.com/api/v2/summary.json",
			StatusPageURL: "https://status.openai.com/",
			Parser:        provider.KindComponentPage,
			Params: provider.Params{
				Component: "API",
			},
		},
		{
			Name:          "Netlify",
			EndpointURL:   "https://www.netlifystatus.com/api/v2/status.json",
			StatusPageURL: "https://www.netlifystatus.com/",
			Parser:        provider.KindStatuspage,
		},
		{
			Name:          "Cloudflare",
			EndpointURL:   "https://www.cloudflarestatus.com/api/v2/summary.json",
			StatusPageURL: "https://www.cloudflarestatus.com/",
			Parser:        provider.KindStatuspage,
		},
	}
}

// DefaultRegistry returns a parser registry with all built-in parser
// families registered.
func DefaultRegistry() *provider.Registry {
	registry := provider.NewRegistry()
	registry.Register(provider.KindStatuspage, statuspage.NewChecker)
	registry.Register(provider.KindIncidentFeed, incidentfeed.NewChecker)
	registry.Register(provider.KindComponentPage, componentpage.NewChecker)
	return registry
}
