package telemetry_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/mock/gomock"

	"github.com/forgeo/crm-audit-server/internal/api"
	"github.com/forgeo/crm-audit-server/internal/audit"
	"github.com/forgeo/crm-audit-server/internal/runlock"
	"github.com/forgeo/crm-audit-server/internal/service/mocks"
	pkgsync "github.com/forgeo/crm-audit-server/internal/sync"
	"github.com/forgeo/crm-audit-server/internal/telemetry"
)

var auditID = uuid.MustParse("0b7f2a4e-5c1d-4e8a-9f3b-2d6c8e1a4b70")

// newAPI wires the v1 and probe routes around a mock service
func newAPI(t *testing.T, setup func(*mocks.MockService), mw ...func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	if setup != nil {
		setup(svc)
	}
	return api.NewServer(svc, api.WithMiddlewares(mw...))
}

func do(handler http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader, mp
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

// counts flattens an int64 sum into "k=v,k=v" -> value
func counts(t *testing.T, m metricdata.Metrics, keys ...string) map[string]int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	out := map[string]int64{}
	for _, dp := range sum.DataPoints {
		label := ""
		for i, k := range keys {
			v, _ := dp.Attributes.Value(attribute.Key(k))
			if i > 0 {
				label += ","
			}
			label += k + "=" + v.Emit()
		}
		out[label] += dp.Value
	}
	return out
}

func TestMetricsMiddleware_NilProvider(t *testing.T) {
	t.Parallel()

	mw, err := telemetry.MetricsMiddleware(nil)
	require.NoError(t, err)

	rr := do(newAPI(t, nil, mw), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMetricsMiddleware_LabelsRoutes(t *testing.T) {
	t.Parallel()

	reader, mp := newTestMeter(t)
	mw, err := telemetry.MetricsMiddleware(mp)
	require.NoError(t, err)

	handler := newAPI(t, func(m *mocks.MockService) {
		m.EXPECT().GetAuditScores(gomock.Any(), auditID).Return(&audit.Scores{Overall: 87.5}, nil).Times(2)
		m.EXPECT().Freshness(gomock.Any(), "alice").Return(&pkgsync.Assessment{ShouldSync: true}, nil)
		m.EXPECT().GetIssueDetails(gomock.Any(), auditID, audit.CategoryContact, "missing_email").
			Return(&audit.DetailPage{Page: 1, Limit: audit.DefaultDetailLimit}, nil)
	}, mw)

	require.Equal(t, http.StatusOK, do(handler, http.MethodGet, "/health").Code)
	require.Equal(t, http.StatusOK, do(handler, http.MethodGet, "/v1/audits/"+auditID.String()+"/scores").Code)
	require.Equal(t, http.StatusOK, do(handler, http.MethodGet, "/v1/audits/"+auditID.String()+"/scores").Code)
	require.Equal(t, http.StatusOK, do(handler, http.MethodGet, "/v1/users/alice/freshness").Code)
	require.Equal(t, http.StatusOK,
		do(handler, http.MethodGet, "/v1/audits/"+auditID.String()+"/results/contact/missing_email/items").Code)

	metrics := collect(t, reader)
	got := counts(t, metrics["crm_audit_http_requests_total"], "route", "resource", "status_code")
	assert.Len(t, got, 4)
	assert.EqualValues(t, 1, got["route=/health,resource=system,status_code=200"])
	assert.EqualValues(t, 2, got["route=/v1/audits/{auditID}/scores,resource=audit,status_code=200"])
	assert.EqualValues(t, 1, got["route=/v1/users/{userID}/freshness,resource=freshness,status_code=200"])
	assert.EqualValues(t, 1,
		got["route=/v1/audits/{auditID}/results/{category}/{criterion}/items,resource=audit,status_code=200"])

	duration, ok := metrics["crm_audit_http_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, duration.DataPoints, 4)

	_, counted := metrics["crm_audit_http_run_requests_total"]
	assert.False(t, counted, "reads are not run requests")
}

func TestMetricsMiddleware_CountsRunRequests(t *testing.T) {
	t.Parallel()

	reader, mp := newTestMeter(t)
	mw, err := telemetry.MetricsMiddleware(mp)
	require.NoError(t, err)

	handler := newAPI(t, func(m *mocks.MockService) {
		m.EXPECT().StartAudit(gomock.Any(), "alice", gomock.Any()).Return(&audit.Run{ID: uuid.New(), UserID: "alice"}, nil)
		gomock.InOrder(
			m.EXPECT().StartSync(gomock.Any(), "alice").Return(nil, runlock.ErrRunInProgress),
			m.EXPECT().StartSync(gomock.Any(), "alice").Return(nil, errors.New("pool exhausted")),
		)
	}, mw)

	assert.Equal(t, http.StatusAccepted, do(handler, http.MethodPost, "/v1/users/alice/audits").Code)
	assert.Equal(t, http.StatusConflict, do(handler, http.MethodPost, "/v1/users/alice/syncs").Code)
	assert.Equal(t, http.StatusInternalServerError, do(handler, http.MethodPost, "/v1/users/alice/syncs").Code)

	got := counts(t, collect(t, reader)["crm_audit_http_run_requests_total"], "kind", "outcome")
	assert.Equal(t, map[string]int64{
		"kind=audit,outcome=accepted":   1,
		"kind=sync,outcome=in_progress": 1,
		"kind=sync,outcome=error":       1,
	}, got)
}

func TestRouteResource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    telemetry.Resource
	}{
		{"/health", telemetry.ResourceSystem},
		{"/metrics", telemetry.ResourceSystem},
		{"/v1/users/{userID}/audits", telemetry.ResourceAudit},
		{"/v1/users/{userID}/syncs/latest", telemetry.ResourceSync},
		{"/v1/users/{userID}/freshness", telemetry.ResourceFreshness},
		{"/v1/users/{userID}/login", telemetry.ResourceLogin},
		{"/v1/audits/{auditID}", telemetry.ResourceAudit},
		{"/v1/audits/{auditID}/export", telemetry.ResourceAudit},
		{"/v1/scheduler/trigger", telemetry.ResourceScheduler},
		{"/v1/users/{userID}/settings", telemetry.ResourceUnknown},
		{"unknown_route", telemetry.ResourceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, telemetry.RouteResource(tt.pattern))
		})
	}
}
