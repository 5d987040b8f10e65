package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectMetricNames(t *testing.T, reader *sdkmetric.ManualReader, scopeName string) []string {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var names []string
	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name != scopeName {
			continue
		}
		for _, m := range scope.Metrics {
			names = append(names, m.Name)
		}
	}
	return names
}

func TestNewAuditMetrics(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when provider is nil", func(t *testing.T) {
		t.Parallel()

		metrics, err := NewAuditMetrics(nil)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("no-op when metrics is nil", func(t *testing.T) {
		t.Parallel()

		var metrics *AuditMetrics
		metrics.RecordAuditDuration(context.Background(), time.Second, true)
		metrics.RecordCategoryScore(context.Background(), "contact", 87.5)
	})

	t.Run("records duration and score", func(t *testing.T) {
		t.Parallel()

		reader := sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer func() { _ = mp.Shutdown(context.Background()) }()

		metrics, err := NewAuditMetrics(mp)
		require.NoError(t, err)
		require.NotNil(t, metrics)

		metrics.RecordAuditDuration(context.Background(), 3*time.Second, true)
		metrics.RecordCategoryScore(context.Background(), "deal", 42)

		names := collectMetricNames(t, reader, AuditMetricsMeterName)
		assert.ElementsMatch(t, []string{"crm_audit_run_duration_seconds", "crm_audit_category_score"}, names)
	})
}

func TestNewSyncMetrics(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when provider is nil", func(t *testing.T) {
		t.Parallel()

		metrics, err := NewSyncMetrics(nil)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("no-op when metrics is nil", func(t *testing.T) {
		t.Parallel()

		var metrics *SyncMetrics
		metrics.RecordSyncDuration(context.Background(), time.Second, false)
		metrics.RecordObjectsSynced(context.Background(), "contacts", 12)
	})

	t.Run("records duration and object count", func(t *testing.T) {
		t.Parallel()

		reader := sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer func() { _ = mp.Shutdown(context.Background()) }()

		metrics, err := NewSyncMetrics(mp)
		require.NoError(t, err)
		require.NotNil(t, metrics)

		metrics.RecordSyncDuration(context.Background(), 1500*time.Millisecond, true)
		metrics.RecordObjectsSynced(context.Background(), "contacts", 120)
		metrics.RecordObjectsSynced(context.Background(), "deals", 7)

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))

		var total int64
		for _, scope := range rm.ScopeMetrics {
			if scope.Scope.Name != SyncMetricsMeterName {
				continue
			}
			for _, m := range scope.Metrics {
				if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
					for _, dp := range sum.DataPoints {
						total += dp.Value
					}
				}
			}
		}
		assert.Equal(t, int64(127), total)
	})
}
