package incidentfeed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusdeck/statusdeck/internal/provider"
	"github.com/statusdeck/statusdeck/internal/provider/incidentfeed"
	"github.com/statusdeck/statusdeck/internal/status"
)

var refNow = time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)

func TestParse_ActiveIncidentMatchingAllFilters(t *testing.T) {
	data := []byte(`[
		{
			"external_desc": "Elevated error rates in North America",
			"begin": "2025-06-12T09:00:00Z",
			"affected_products": [{"title": "Cloud Storage"}, {"title": "Compute Engine"}],
			"updates": [{"text": "We are investigating."}]
		}
	]`)

	check, err := incidentfeed.Parse(data, "Cloud Storage", "North America", refNow)
	require.NoError(t, err)

	assert.Equal(t, status.StatusOutage, check.Status)
	assert.Equal(t, "1 incident(s) affecting Cloud Storage in North America", check.Message)
	assert.Equal(t, []string{"Elevated error rates in North America"}, check.Incidents)
}

func TestParse_EndedIncidentExcludedRegardlessOfMatch(t *testing.T) {
	data := []byte(`[
		{
			"external_desc": "Resolved outage in North America",
			"end": "2025-06-12T10:00:00Z",
			"affected_products": [{"title": "Cloud Storage"}]
		}
	]`)

	check, err := incidentfeed.Parse(data, "Cloud Storage", "North America", refNow)
	require.NoError(t, err)

	assert.Equal(t, status.StatusOperational, check.Status)
	assert.Equal(t, "No active incidents for Cloud Storage in North America", check.Message)
	assert.Empty(t, check.Incidents)
}

func TestParse_EndExactlyNowIsStillActive(t *testing.T) {
	data := []byte(`[
		{
			"external_desc": "Ongoing issue in North America",
			"end": "2025-06-12T12:00:00Z",
			"affected_products": [{"title": "Cloud Storage"}]
		}
	]`)

	check, err := incidentfeed.Parse(data, "Cloud Storage", "North America", refNow)
	require.NoError(t, err)

	assert.Equal(t, status.StatusOutage, check.Status, "only strictly past end times are excluded")
}

func TestParse_MissingEndIsAlwaysEligible(t *testing.T) {
	data := []byte(`[
		{
			"external_desc": "Open incident in North America",
			"affected_products": [{"title": "Cloud Storage"}]
		}
	]`)

	check, err := incidentfeed.Parse(data, "Cloud Storage", "North America", refNow)
	require.NoError(t, err)
	assert.Equal(t, status.StatusOutage, check.Status)
}

func TestParse_UnparsableEndKeepsIncidentOpen(t *testing.T) {
	data := []byte(`[
		{
			"external_desc": "Issue in North America",
			"end": "not-a-timestamp",
			"affected_products": [{"title": "Cloud Storage"}]
		}
	]`)

	check, err := incidentfeed.Parse(data, "Cloud Storage", "North America", refNow)
	require.NoError(t, err)
	assert.Equal(t, status.StatusOutage, check.Status)
}

func TestParse_ComponentMustMatchExactly(t *testing.T) {
	data := []byte(`[
		{
			"external_desc": "Problem in North America",
			"affected_products": [{"title": "Cloud Storage US"}]
		}
	]`)

	check, err := incidentfeed.Parse(data, "Cloud Storage", "North America", refNow)
	require.NoError(t, err)
	assert.Equal(t, status.StatusOperational, check.Status, "substring product titles do not match")
}

func TestParse_RegionMarkerRequired(t *testing.T) {
	data := []byte(`[
		{
			"external_desc": "Problem in Europe",
			"affected_products": [{"title": "Cloud Storage"}],
			"updates": [{"text": "Investigating impact in Europe."}]
		}
	]`)

	check, err := incidentfeed.Parse(data, "Cloud Storage", "North America", refNow)
	require.NoError(t, err)
	assert.Equal(t, status.StatusOperational, check.Status)
}

func TestParse_RegionMarkerInUpdateText(t *testing.T) {
	data := []byte(`[
		{
			"external_desc": "Elevated latency",
			"affected_products": [{"title": "Cloud Storage"}],
			"updates": [
				{"text": "Investigating."},
				{"text": "Impact confirmed in North America."}
			]
		}
	]`)

	check, err := incidentfeed.Parse(data, "Cloud Storage", "North America", refNow)
	require.NoError(t, err)
	assert.Equal(t, status.StatusOutage, check.Status)
	assert.Equal(t, []string{"Elevated latency"}, check.Incidents)
}

func TestParse_RegionMatchIsCaseSensitive(t *testing.T) {
	data := []byte(`[
		{
			"external_desc": "Problem in north america",
			"affected_products": [{"title": "Cloud Storage"}]
		}
	]`)

	check, err := incidentfeed.Parse(data, "Cloud Storage", "North America", refNow)
	require.NoError(t, err)
	assert.Equal(t, status.StatusOperational, check.Status, "no case normalization on region markers")
}

func TestParse_DescriptionFallbackChain(t *testing.T) {
	data := []byte(`[
		{
			"affected_products": [{"title": "Cloud Storage"}],
			"updates": [
				{"text": "First update: North America impact."},
				{"text": "Latest update."}
			]
		},
		{
			"external_desc": "",
			"affected_products": [{"title": "Cloud Storage"}],
			"updates": [{"text": "North America"}, {"text": ""}]
		}
	]`)

	check, err := incidentfeed.Parse(data, "Cloud Storage", "North America", refNow)
	require.NoError(t, err)

	assert.Equal(t, status.StatusOutage, check.Status)
	assert.Equal(t, "2 incident(s) affecting Cloud Storage in North America", check.Message)
	assert.Equal(t, []string{"Latest update.", "No details"}, check.Incidents)
}

func TestParse_EmptyFeed(t *testing.T) {
	check, err := incidentfeed.Parse([]byte(`[]`), "Cloud Storage", "North America", refNow)
	require.NoError(t, err)

	assert.Equal(t, status.StatusOperational, check.Status)
	assert.Empty(t, check.Incidents)
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := incidentfeed.Parse([]byte(`{"not":"an array"}`), "Cloud Storage", "North America", refNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding incident feed")
}

func TestChecker_Check(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"external_desc": "Disruption in North America",
				"affected_products": [{"title": "Cloud Storage"}]
			}
		]`))
	}))
	defer server.Close()

	checker := incidentfeed.NewChecker(provider.CheckerConfig{
		Endpoint: server.URL,
		Params:   provider.Params{Component: "Cloud Storage", Region: "North America"},
		Fetcher:  provider.NewFetcher(provider.FetcherConfig{Name: "test"}),
	})

	check, err := checker.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, status.StatusOutage, check.Status)
}

func TestChecker_FetchFailure(t *testing.T) {
	checker := incidentfeed.NewChecker(provider.CheckerConfig{
		Endpoint: "http://127.0.0.1:1/incidents.json",
		Params:   provider.Params{Component: "Cloud Storage", Region: "North America"},
		Fetcher:  provider.NewFetcher(provider.FetcherConfig{Name: "test-down"}),
	})

	_, err := checker.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching incident feed")
}
