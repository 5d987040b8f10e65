package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// AuditMetricsMeterName is the name used for the audit metrics meter
	AuditMetricsMeterName = "github.com/forgeo/crm-audit-server/audit"

	// SyncMetricsMeterName is the name used for the sync metrics meter
	SyncMetricsMeterName = "github.com/forgeo/crm-audit-server/sync"
)

var runDurationBuckets = []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1800}

// AuditMetrics holds the OpenTelemetry instruments for audit runs
type AuditMetrics struct {
	auditDuration metric.Float64Histogram
	categoryScore metric.Float64Gauge
}

// NewAuditMetrics creates a new AuditMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewAuditMetrics(provider metric.MeterProvider) (*AuditMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(AuditMetricsMeterName)

	auditDuration, err := meter.Float64Histogram(
		"crm_audit_run_duration_seconds",
		metric.WithDescription("Duration of audit runs in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(runDurationBuckets...),
	)
	if err != nil {
		return nil, err
	}

	categoryScore, err := meter.Float64Gauge(
		"crm_audit_category_score",
		metric.WithDescription("Data quality score of the last audit per category (0-100)"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	return &AuditMetrics{
		auditDuration: auditDuration,
		categoryScore: categoryScore,
	}, nil
}

// RecordAuditDuration records the duration of an audit run
func (m *AuditMetrics) RecordAuditDuration(ctx context.Context, duration time.Duration, success bool) {
	if m == nil || m.auditDuration == nil {
		return
	}

	m.auditDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.Bool("success", success),
	))
}

// RecordCategoryScore records the score computed for one category of a finished audit
func (m *AuditMetrics) RecordCategoryScore(ctx context.Context, category string, score float64) {
	if m == nil || m.categoryScore == nil {
		return
	}

	m.categoryScore.Record(ctx, score, metric.WithAttributes(
		attribute.String("category", category),
	))
}

// SyncMetrics holds the OpenTelemetry instruments for sync runs
type SyncMetrics struct {
	syncDuration  metric.Float64Histogram
	objectsSynced metric.Int64Counter
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	syncDuration, err := meter.Float64Histogram(
		"crm_audit_sync_duration_seconds",
		metric.WithDescription("Duration of sync runs in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(runDurationBuckets...),
	)
	if err != nil {
		return nil, err
	}

	objectsSynced, err := meter.Int64Counter(
		"crm_audit_sync_objects_total",
		metric.WithDescription("Number of CRM objects written to snapshots"),
		metric.WithUnit("{object}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		syncDuration:  syncDuration,
		objectsSynced: objectsSynced,
	}, nil
}

// RecordSyncDuration records the duration of a sync run
func (m *SyncMetrics) RecordSyncDuration(ctx context.Context, duration time.Duration, success bool) {
	if m == nil || m.syncDuration == nil {
		return
	}

	m.syncDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.Bool("success", success),
	))
}

// RecordObjectsSynced adds the number of objects written for one object type
func (m *SyncMetrics) RecordObjectsSynced(ctx context.Context, objectType string, count int64) {
	if m == nil || m.objectsSynced == nil {
		return
	}

	m.objectsSynced.Add(ctx, count, metric.WithAttributes(
		attribute.String("object_type", objectType),
	))
}
