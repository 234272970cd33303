package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("careclarity/http")

// Tracing открывает серверный span на каждый запрос
// Контекст трассировки клиента извлекается из заголовков
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		route := routeTemplate(r)

		ctx, span := tracer.Start(ctx, r.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		sw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ctx))
		span.SetAttributes(attribute.Int("http.response.status_code", sw.status))
	})
}

// RequestLogger пишет строку лога на каждый запрос вместе с trace id
func RequestLogger(logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			traceID := "-"
			if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
				traceID = sc.TraceID().String()
			}
			elapsed := time.Since(start)

			switch {
			case sw.status >= http.StatusInternalServerError:
				logger.Error("%s %s -> %d (%s) trace=%s", r.Method, r.URL.Path, sw.status, elapsed, traceID)
			case sw.status >= http.StatusBadRequest:
				logger.Warn("%s %s -> %d (%s) trace=%s", r.Method, r.URL.Path, sw.status, elapsed, traceID)
			default:
				logger.Info("%s %s -> %d (%s) trace=%s", r.Method, r.URL.Path, sw.status, elapsed, traceID)
			}
		})
	}
}
