package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusdeck/statusdeck/internal/provider"
	"github.com/statusdeck/statusdeck/internal/provider/resilience"
)

func TestFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":{"indicator":"none"}}`))
	}))
	defer server.Close()

	fetcher := provider.NewFetcher(provider.FetcherConfig{
		Name:   "test",
		Logger: zerolog.Nop(),
	})

	body, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":{"indicator":"none"}}`, string(body))
}

func TestFetcher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := provider.NewFetcher(provider.FetcherConfig{
		Name:   "test-404",
		Logger: zerolog.Nop(),
	})

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 404")
}

func TestFetcher_RecordsHealthInRegistry(t *testing.T) {
	okServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer okServer.Close()

	registry := resilience.NewRegistry()
	fetcher := provider.NewFetcher(provider.FetcherConfig{
		Name:     "tracked",
		Registry: registry,
		Logger:   zerolog.Nop(),
	})

	require.Equal(t, 1, registry.Count(), "fetcher registers its upstream")

	_, err := fetcher.Fetch(context.Background(), okServer.URL)
	require.NoError(t, err)

	health := registry.Health("tracked")
	require.NotNil(t, health)
	assert.NotNil(t, health.LastSuccessAt)
	assert.Nil(t, health.LastFailureAt)

	_, err = fetcher.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")
	require.Error(t, err)

	health = registry.Health("tracked")
	require.NotNil(t, health)
	assert.NotNil(t, health.LastFailureAt)
	assert.NotEmpty(t, health.LastError)
}

func TestFetcher_TransportError(t *testing.T) {
	fetcher := provider.NewFetcher(provider.FetcherConfig{
		Name:   "test-down",
		Logger: zerolog.Nop(),
	})

	_, err := fetcher.Fetch(context.Background(), "http://127.0.0.1:1/nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing request")
}
