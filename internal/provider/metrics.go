package provider

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/statusdeck/statusdeck/internal/provider"

// FetchMetrics holds metrics for upstream status fetches. One instance
// is shared across all fetchers; the upstream name travels as an
// attribute.
type FetchMetrics struct {
	fetchDuration metric.Float64Histogram
	fetchTotal    metric.Int64Counter
}

// NewFetchMetrics creates metrics for monitoring upstream fetches.
func NewFetchMetrics() (*FetchMetrics, error) {
	meter := otel.Meter(meterName)

	fetchDuration, err := meter.Float64Histogram(
		"upstream.fetch.duration",
		metric.WithDescription("Duration of upstream status fetches in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	fetchTotal, err := meter.Int64Counter(
		"upstream.fetch.total",
		metric.WithDescription("Total number of upstream status fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}

	return &FetchMetrics{
		fetchDuration: fetchDuration,
		fetchTotal:    fetchTotal,
	}, nil
}

// RecordFetch records one fetch attempt against an upstream.
func (m *FetchMetrics) RecordFetch(upstream string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("upstream.name", upstream),
	}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	// Use a background context so refresh cancellation never drops the
	// measurement.
	ctx := context.Background()
	m.fetchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.fetchTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
