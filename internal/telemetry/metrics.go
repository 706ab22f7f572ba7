package telemetry

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-sync/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetricsMeterName is the name used for the sync engine meter.
const SyncMetricsMeterName = "github.com/MKhiriev/go-vault-sync/sync"

// SyncMetrics holds the instruments recording sync attempts. A nil
// *SyncMetrics records nothing.
type SyncMetrics struct {
	duration  metric.Float64Histogram
	attempts  metric.Int64Counter
	conflicts metric.Int64Counter
	items     metric.Int64Counter
}

// NewSyncMetrics creates the sync instruments on provider. A nil provider
// yields nil metrics.
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	duration, err := meter.Float64Histogram(
		"vault_sync_duration_seconds",
		metric.WithDescription("Duration of sync attempts in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	attempts, err := meter.Int64Counter(
		"vault_sync_attempts_total",
		metric.WithDescription("Number of sync attempts by outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	conflicts, err := meter.Int64Counter(
		"vault_sync_conflicts_total",
		metric.WithDescription("Number of version conflicts detected"),
		metric.WithUnit("{conflict}"),
	)
	if err != nil {
		return nil, err
	}

	items, err := meter.Int64Counter(
		"vault_sync_items_total",
		metric.WithDescription("Number of vault items changed by sync, per type and action"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		duration:  duration,
		attempts:  attempts,
		conflicts: conflicts,
		items:     items,
	}, nil
}

// ObserveSync records one finished sync attempt.
func (m *SyncMetrics) ObserveSync(ctx context.Context, status models.SyncStatus, stats models.SyncStats, duration time.Duration) {
	if m == nil {
		return
	}

	statusAttr := metric.WithAttributes(attribute.String("status", string(status)))
	m.duration.Record(ctx, duration.Seconds(), statusAttr)
	m.attempts.Add(ctx, 1, statusAttr)

	if stats.ConflictsDetected > 0 {
		m.conflicts.Add(ctx, int64(stats.ConflictsDetected))
	}

	for _, itemType := range models.ItemTypes {
		ts := stats.For(itemType)
		m.addItems(ctx, itemType, "created", ts.Created)
		m.addItems(ctx, itemType, "updated", ts.Updated)
		m.addItems(ctx, itemType, "deleted", ts.Deleted)
	}
}

func (m *SyncMetrics) addItems(ctx context.Context, itemType models.ItemType, action string, n int) {
	if n == 0 {
		return
	}
	m.items.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("type", itemType.String()),
		attribute.String("action", action),
	))
}
