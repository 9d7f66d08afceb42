package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records pipeline meters through OpenTelemetry. A zero value
// is usable and records nothing.
type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	refreshCounter  otelmetric.Int64Counter
	refreshDuration otelmetric.Float64Histogram
	jobsRefreshed   otelmetric.Int64Counter
}

func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	refreshCounter, _ := meter.Int64Counter(
		"feed.refreshes",
		otelmetric.WithDescription("Number of feed refresh cycles"),
	)

	refreshDuration, _ := meter.Float64Histogram(
		"feed.refresh.duration",
		otelmetric.WithDescription("Feed refresh duration"),
		otelmetric.WithUnit("ms"),
	)

	jobsRefreshed, _ := meter.Int64Counter(
		"feed.jobs",
		otelmetric.WithDescription("Jobs handled by refresh, by outcome"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		refreshCounter:  refreshCounter,
		refreshDuration: refreshDuration,
		jobsRefreshed:   jobsRefreshed,
	}, nil
}

func (o *Observability) RecordRefresh(ctx context.Context, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("status", status))
	if o.refreshCounter != nil {
		o.refreshCounter.Add(ctx, 1, attrs)
	}
	if o.refreshDuration != nil {
		o.refreshDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

// RecordJobs adds n to the per-outcome job counter (created, updated,
// deactivated, dropped).
func (o *Observability) RecordJobs(ctx context.Context, outcome string, n int) {
	if o == nil || o.jobsRefreshed == nil || n <= 0 {
		return
	}
	o.jobsRefreshed.Add(ctx, int64(n), otelmetric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
