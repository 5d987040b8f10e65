// Package otel provides OpenTelemetry span helpers shared by the fetcher and the run orchestrators.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on spans across the application
const (
	AttrUserID      = attribute.Key("crm.user_id")
	AttrObjectType  = attribute.Key("crm.object_type")
	AttrRunID       = attribute.Key("run.id")
	AttrRunKind     = attribute.Key("run.kind")
	AttrCategory    = attribute.Key("audit.category")
	AttrPageSize    = attribute.Key("pagination.limit")
	AttrResultCount = attribute.Key("result.count")
	AttrHasCursor   = attribute.Key("pagination.has_cursor")
)

// StartSpan starts a new span if the tracer is non-nil, otherwise returns a no-op span.
// This provides graceful degradation when tracing is disabled.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on the span and marks the span failed. Nil spans and nil
// errors are ignored. The status description stays generic; details live in the event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
