package observability

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// Span attributes shared by the chat and intake spans.
const (
	AttrSessionID      = attribute.Key("masterclass.session_id")
	AttrMessageLength  = attribute.Key("masterclass.message_length")
	AttrStarter        = attribute.Key("masterclass.starter")
	AttrIntakeState    = attribute.Key("masterclass.intake.state")
	AttrUserTurns      = attribute.Key("masterclass.intake.user_turns")
	AttrResponseTimeMs = attribute.Key("masterclass.completion.response_time_ms")
)

// StartSpan starts an internal span named spanName with the given attributes.
func StartSpan(ctx context.Context, serviceName, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(serviceName).Start(ctx, spanName, trace.WithAttributes(attrs...))
}

func Annotate(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}

// MarkEvent adds an intake flow event, such as collection_started, to the span.
func MarkEvent(ctx context.Context, name string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent(name)
	}
}

// FailSpan records err on the span. Only server-side failures set the error status;
// a rejected request is the caller's problem, not a fault of the turn.
func FailSpan(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	if pe := platformerrors.GetPlatformError(err); pe != nil &&
		platformerrors.ErrorTypeToHTTPStatus(pe.Type) < http.StatusInternalServerError {
		return
	}
	span.SetStatus(codes.Error, err.Error())
}
