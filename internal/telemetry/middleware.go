package telemetry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/forgeo/crm-audit-server/internal/status"
)

const (
	// HTTPMetricsMeterName is the name used for the HTTP metrics meter
	HTTPMetricsMeterName = "github.com/forgeo/crm-audit-server/http"

	unknownRoute = "unknown_route"
)

// Resource groups routes by the part of the audit server they act on
type Resource string

const (
	ResourceAudit     Resource = "audit"
	ResourceSync      Resource = "sync"
	ResourceFreshness Resource = "freshness"
	ResourceLogin     Resource = "login"
	ResourceScheduler Resource = "scheduler"
	ResourceSystem    Resource = "system"
	ResourceUnknown   Resource = "unknown"
)

// HTTPMetrics holds the request instruments of the REST API
type HTTPMetrics struct {
	requestDuration metric.Float64Histogram
	requestsTotal   metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	runRequests     metric.Int64Counter
}

// NewHTTPMetrics creates the request instruments. A nil provider yields nil metrics.
func NewHTTPMetrics(provider metric.MeterProvider) (*HTTPMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(HTTPMetricsMeterName)

	requestDuration, err := meter.Float64Histogram(
		"crm_audit_http_request_duration_seconds",
		metric.WithDescription("Duration of REST API requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	requestsTotal, err := meter.Int64Counter(
		"crm_audit_http_requests_total",
		metric.WithDescription("Total number of REST API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"crm_audit_http_active_requests",
		metric.WithDescription("Number of in-flight REST API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	runRequests, err := meter.Int64Counter(
		"crm_audit_http_run_requests_total",
		metric.WithDescription("Audit and sync start requests by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		requestDuration: requestDuration,
		requestsTotal:   requestsTotal,
		activeRequests:  activeRequests,
		runRequests:     runRequests,
	}, nil
}

// Middleware records duration and count of every request, labelled by route and
// resource. Start requests for audits and syncs are also counted per run kind.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// r.Context() may be cancelled once ServeHTTP returns
		ctx := r.Context()
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		m.activeRequests.Add(ctx, 1)
		next.ServeHTTP(ww, r)
		m.activeRequests.Add(ctx, -1)

		route := getRoutePattern(r)
		resource := RouteResource(route)
		code := strconv.Itoa(ww.Status())
		attrs := metric.WithAttributes(
			attribute.String("method", r.Method),
			attribute.String("route", route),
			attribute.String("resource", string(resource)),
			attribute.String("status_code", code),
		)

		m.requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		m.requestsTotal.Add(ctx, 1, attrs)

		if kind, ok := startedRunKind(r.Method, resource); ok {
			m.runRequests.Add(ctx, 1, metric.WithAttributes(
				attribute.String("kind", string(kind)),
				attribute.String("outcome", runOutcome(ww.Status())),
			))
		}
	})
}

// RouteResource maps a chi route pattern of the REST API to its resource
func RouteResource(pattern string) Resource {
	if pattern == unknownRoute || pattern == "" {
		return ResourceUnknown
	}
	rest, ok := strings.CutPrefix(pattern, "/v1/")
	if !ok {
		return ResourceSystem
	}

	if user, ok := strings.CutPrefix(rest, "users/{userID}/"); ok {
		switch {
		case strings.HasPrefix(user, "audits"):
			return ResourceAudit
		case strings.HasPrefix(user, "syncs"):
			return ResourceSync
		case strings.HasPrefix(user, "freshness"):
			return ResourceFreshness
		case strings.HasPrefix(user, "login"):
			return ResourceLogin
		}
		return ResourceUnknown
	}

	switch {
	case strings.HasPrefix(rest, "audits/"):
		return ResourceAudit
	case strings.HasPrefix(rest, "scheduler/"):
		return ResourceScheduler
	}
	return ResourceUnknown
}

func startedRunKind(method string, resource Resource) (status.RunKind, bool) {
	if method != http.MethodPost {
		return "", false
	}
	switch resource {
	case ResourceAudit:
		return status.RunKindAudit, true
	case ResourceSync:
		return status.RunKindSync, true
	default:
		return "", false
	}
}

func runOutcome(code int) string {
	switch {
	case code == http.StatusAccepted:
		return "accepted"
	case code == http.StatusConflict:
		return "in_progress"
	case code == http.StatusUnauthorized:
		return "unauthorized"
	case code >= http.StatusInternalServerError:
		return "error"
	default:
		return "rejected"
	}
}

// getRoutePattern returns the chi pattern of a routed request, or unknownRoute so
// that unmatched paths cannot grow the label set
func getRoutePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return unknownRoute
}

// MetricsMiddleware combines NewHTTPMetrics and Middleware
func MetricsMiddleware(provider metric.MeterProvider) (func(http.Handler) http.Handler, error) {
	metrics, err := NewHTTPMetrics(provider)
	if err != nil {
		return nil, err
	}
	return metrics.Middleware, nil
}
