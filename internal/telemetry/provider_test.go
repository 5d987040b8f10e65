package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/forgeo/crm-audit-server/internal/versions"
)

func TestProviderOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg := newProviderConfig(nil)
		assert.Equal(t, DefaultServiceName, cfg.serviceName)
		assert.Equal(t, versions.Get().Version, cfg.serviceVersion)
		assert.Equal(t, DefaultEndpoint, cfg.endpoint)
		assert.False(t, cfg.insecure)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()
		tracing := &TracingConfig{Enabled: true}
		metrics := &MetricsConfig{Enabled: true}
		reg := prometheus.NewRegistry()

		cfg := newProviderConfig([]ProviderOption{
			WithServiceName("my-service"),
			WithServiceVersion("2.0.0"),
			WithEndpoint("collector.example.com:4318"),
			WithInsecure(true),
			WithTracingConfig(tracing),
			WithMetricsConfig(metrics),
			WithPrometheusRegisterer(reg),
		})
		assert.Equal(t, "my-service", cfg.serviceName)
		assert.Equal(t, "2.0.0", cfg.serviceVersion)
		assert.Equal(t, "collector.example.com:4318", cfg.endpoint)
		assert.True(t, cfg.insecure)
		assert.Same(t, tracing, cfg.tracing)
		assert.Same(t, metrics, cfg.metrics)
		assert.Equal(t, reg, cfg.registerer)
	})

	t.Run("from telemetry config", func(t *testing.T) {
		t.Parallel()
		c := &Config{
			Enabled:  true,
			Endpoint: "otel:4318",
			Insecure: true,
			Tracing:  &TracingConfig{Enabled: true, Sampling: 0.2},
		}
		cfg := newProviderConfig(c.providerOptions())
		assert.Equal(t, DefaultServiceName, cfg.serviceName)
		assert.Equal(t, "otel:4318", cfg.endpoint)
		assert.True(t, cfg.insecure)
		assert.Same(t, c.Tracing, cfg.tracing)
		assert.Nil(t, cfg.metrics)
	})
}

func TestNewTracerProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []ProviderOption
		expectNoOp bool
	}{
		{
			name:       "no-op without tracing config",
			expectNoOp: true,
		},
		{
			name:       "no-op when tracing disabled",
			opts:       []ProviderOption{WithTracingConfig(&TracingConfig{Enabled: false})},
			expectNoOp: true,
		},
		{
			name: "no-op when only metrics are configured",
			opts: []ProviderOption{
				WithMetricsConfig(&MetricsConfig{Enabled: true}),
			},
			expectNoOp: true,
		},
		{
			name: "SDK provider when tracing enabled",
			opts: []ProviderOption{
				WithTracingConfig(&TracingConfig{Enabled: true, Sampling: 0.5}),
				WithInsecure(true),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			tp, err := NewTracerProvider(ctx, tt.opts...)
			require.NoError(t, err)
			require.NotNil(t, tp)

			if tt.expectNoOp {
				_, ok := tp.(tracenoop.TracerProvider)
				assert.True(t, ok, "expected no-op tracer provider")
				return
			}
			sdkTP, ok := tp.(*sdktrace.TracerProvider)
			require.True(t, ok, "expected SDK tracer provider")
			require.NoError(t, sdkTP.Shutdown(ctx))
		})
	}
}

func TestNewMeterProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []ProviderOption
		expectNoOp bool
	}{
		{
			name:       "no-op without metrics config",
			expectNoOp: true,
		},
		{
			name:       "no-op when metrics disabled",
			opts:       []ProviderOption{WithMetricsConfig(&MetricsConfig{Enabled: false})},
			expectNoOp: true,
		},
		{
			name: "SDK provider for the OTLP exporter",
			opts: []ProviderOption{
				WithMetricsConfig(&MetricsConfig{Enabled: true}),
				WithInsecure(true),
			},
		},
		{
			name: "SDK provider for the prometheus exporter",
			opts: []ProviderOption{
				WithMetricsConfig(&MetricsConfig{Enabled: true, Exporter: ExporterPrometheus}),
				WithPrometheusRegisterer(prometheus.NewRegistry()),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			mp, err := NewMeterProvider(ctx, tt.opts...)
			require.NoError(t, err)
			require.NotNil(t, mp)

			if tt.expectNoOp {
				_, ok := mp.(metricnoop.MeterProvider)
				assert.True(t, ok, "expected no-op meter provider")
				return
			}
			sdkMP, ok := mp.(*sdkmetric.MeterProvider)
			require.True(t, ok, "expected SDK meter provider")
			// The OTLP exporter fails to flush without a collector
			_ = sdkMP.Shutdown(ctx)
		})
	}
}

func TestNewMeterProvider_PrometheusRegistersCollector(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := prometheus.NewRegistry()
	mp, err := NewMeterProvider(ctx,
		WithMetricsConfig(&MetricsConfig{Enabled: true, Exporter: ExporterPrometheus}),
		WithPrometheusRegisterer(reg),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.(*sdkmetric.MeterProvider).Shutdown(ctx) })

	counter, err := mp.Meter("test").Int64Counter("crm_audit_test_total")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "crm_audit_test_total")
}
