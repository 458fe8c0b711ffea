package middleware

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TraceContextExtraction extracts W3C trace context from Traceparent and
// Tracestate headers and adds trace_id/span_id to the request log and the
// request context. No spans are created; the relay only participates in
// traces its callers started.
func TraceContextExtraction(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		propagator := otel.GetTextMapPropagator()
		ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		// SpanContextFromContext works without an active span.
		spanCtx := trace.SpanContextFromContext(ctx)
		if spanCtx.IsValid() {
			// SetLogAttrs is a no-op when the Logging middleware is absent.
			SetLogAttrs(ctx,
				slog.String("trace_id", spanCtx.TraceID().String()),
				slog.String("span_id", spanCtx.SpanID().String()),
			)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
