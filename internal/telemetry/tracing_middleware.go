package telemetry

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the name used for the HTTP tracer
	TracerName = "github.com/forgeo/crm-audit-server/http"

	// MaxUserAgentLength caps the user agent recorded on spans
	MaxUserAgentLength = 256
)

// Span attributes describing the CRM entities a request acts on
const (
	AttrResource = attribute.Key("crm.resource")
	AttrUserID   = attribute.Key("crm.user_id")
	AttrAuditID  = attribute.Key("crm.audit_id")
	AttrCategory = attribute.Key("crm.audit.category")
	AttrCriteria = attribute.Key("crm.audit.criterion")
)

// routeParams maps chi URL parameters of the v1 routes to span attributes
var routeParams = []struct {
	name string
	key  attribute.Key
}{
	{"userID", AttrUserID},
	{"auditID", AttrAuditID},
	{"category", AttrCategory},
	{"criterion", AttrCriteria},
}

// untracedPaths are probe and scrape endpoints that would only add noise
var untracedPaths = map[string]bool{
	"/health":    true,
	"/readiness": true,
	"/metrics":   true,
}

// TracingMiddleware creates HTTP middleware for distributed tracing.
// If provider is nil, it returns a pass-through middleware that does nothing.
func TracingMiddleware(provider trace.TracerProvider) func(http.Handler) http.Handler {
	if provider == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	tracer := provider.Tracer(TracerName)
	propagator := otel.GetTextMapPropagator()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if untracedPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			// Continue the caller's trace when W3C headers are present
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// Renamed to the route pattern once chi has routed the request
			ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.URL.Path),
					semconv.UserAgentOriginal(truncateUserAgent(r.UserAgent())),
				),
			)
			defer span.End()

			next.ServeHTTP(ww, r.WithContext(ctx))

			routePattern := getRoutePattern(r)
			span.SetName(fmt.Sprintf("%s %s", r.Method, routePattern))
			span.SetAttributes(
				semconv.HTTPRouteKey.String(routePattern),
				semconv.HTTPResponseStatusCode(ww.Status()),
				AttrResource.String(string(RouteResource(routePattern))),
			)
			span.SetAttributes(routeParamAttributes(r)...)

			// Client errors leave the server span unset
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				span.SetStatus(codes.Error, http.StatusText(ww.Status()))
			case ww.Status() < http.StatusBadRequest:
				span.SetStatus(codes.Ok, "")
			}
		})
	}
}

// routeParamAttributes reads the URL parameters chi captured while routing r
func routeParamAttributes(r *http.Request) []attribute.KeyValue {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}
	var attrs []attribute.KeyValue
	for _, p := range routeParams {
		if v := rctx.URLParam(p.name); v != "" {
			attrs = append(attrs, p.key.String(v))
		}
	}
	return attrs
}

func truncateUserAgent(ua string) string {
	if len(ua) > MaxUserAgentLength {
		return ua[:MaxUserAgentLength]
	}
	return ua
}
