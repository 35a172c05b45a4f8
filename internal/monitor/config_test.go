package monitor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusdeck/statusdeck/internal/monitor"
	"github.com/statusdeck/statusdeck/internal/provider"
)

func TestDefaultServices(t *testing.T) {
	services := monitor.DefaultServices()
	require.Len(t, services, 4)

	names := make(map[string]monitor.ServiceConfig, len(services))
	for _, svc := range services {
		assert.NotEmpty(t, svc.EndpointURL, "%s needs an endpoint", svc.Name)
		assert.NotEmpty(t, svc.StatusPageURL, "%s needs a reference page", svc.Name)
		names[svc.Name] = svc
	}
	require.Len(t, names, len(services), "service names must be unique")

	gcp := names["Google Cloud"]
	assert.Equal(t, provider.KindIncidentFeed, gcp.Parser)
	assert.Equal(t, "North America", gcp.Params.Region)
	assert.NotEmpty(t, gcp.Params.Component)

	openai := names["OpenAI"]
	assert.Equal(t, provider.KindComponentPage, openai.Parser)
	assert.Equal(t, "API", openai.Params.Component)

	assert.Equal(t, provider.KindStatuspage, names["Netlify"].Parser)
	assert.Equal(t, provider.KindStatuspage, names["Cloudflare"].Parser)
}

func TestDefaultRegistry_CoversAllRosterKinds(t *testing.T) {
	registry := monitor.DefaultRegistry()
	kinds := registry.Kinds()

	assert.ElementsMatch(t, []provider.Kind{
		provider.KindStatuspage,
		provider.KindIncidentFeed,
		provider.KindComponentPage,
	}, kinds)

	for _, svc := range monitor.DefaultServices() {
		_, err := registry.New(svc.Parser, provider.CheckerConfig{
			Endpoint: svc.EndpointURL,
			Params:   svc.Params,
			Fetcher:  provider.NewFetcher(provider.FetcherConfig{Name: svc.Name}),
		})
		assert.NoError(t, err, "roster entry %s must resolve to a registered parser", svc.Name)
	}
}
