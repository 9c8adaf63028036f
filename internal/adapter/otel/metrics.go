package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "lodestar"

// Metrics holds all Lodestar metric instruments.
type Metrics struct {
	EnrichmentsStarted   metric.Int64Counter
	EnrichmentsCompleted metric.Int64Counter
	EnrichmentsFailed    metric.Int64Counter
	DealStageChanges     metric.Int64Counter
	EnrichmentDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.EnrichmentsStarted, err = meter.Int64Counter("crm.enrichment.started",
		metric.WithDescription("Number of enrichment runs started"))
	if err != nil {
		return nil, err
	}

	m.EnrichmentsCompleted, err = meter.Int64Counter("crm.enrichment.completed",
		metric.WithDescription("Number of enrichment runs completed"))
	if err != nil {
		return nil, err
	}

	m.EnrichmentsFailed, err = meter.Int64Counter("crm.enrichment.failed",
		metric.WithDescription("Number of enrichment runs failed"))
	if err != nil {
		return nil, err
	}

	m.DealStageChanges, err = meter.Int64Counter("crm.deals.stage_changes",
		metric.WithDescription("Number of deal stage transitions"))
	if err != nil {
		return nil, err
	}

	m.EnrichmentDuration, err = meter.Float64Histogram("crm.enrichment.duration_seconds",
		metric.WithDescription("Enrichment run duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RegisterBreakerState exports the enrichment breaker's state as an
// observable gauge named after the instrument conventions above. state is
// polled at collection time and must be safe for concurrent use.
func RegisterBreakerState(state func() string) error {
	meter := otel.Meter(meterName)
	gauge, err := meter.Int64ObservableGauge("crm.enrichment.breaker_open",
		metric.WithDescription("1 when the enrichment circuit breaker is not closed"))
	if err != nil {
		return err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		var v int64
		s := state()
		if s != "closed" {
			v = 1
		}
		o.ObserveInt64(gauge, v, metric.WithAttributes(attribute.String("state", s)))
		return nil
	}, gauge)
	return err
}

// RecordEnrichmentFailure counts a failed run tagged with its error kind.
func (m *Metrics) RecordEnrichmentFailure(ctx context.Context, kind string) {
	m.EnrichmentsFailed.Add(ctx, 1,
		metric.WithAttributes(attribute.String("error_kind", kind)))
}

// RecordEnrichmentSuccess counts a completed run and its duration.
func (m *Metrics) RecordEnrichmentSuccess(ctx context.Context, elapsed time.Duration) {
	m.EnrichmentsCompleted.Add(ctx, 1)
	m.EnrichmentDuration.Record(ctx, elapsed.Seconds())
}
