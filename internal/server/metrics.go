package server

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RequestMetrics records a request counter and a latency histogram through
// the global MeterProvider. With the no-op provider this costs nothing.
func RequestMetrics(next http.Handler) http.Handler {
	meter := otel.Meter("event-platform/identity/server")
	requests, _ := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests handled"))
	latency, _ := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("ms"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		attrs := metric.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", r.URL.Path),
			attribute.Int("http.status_code", rec.status),
		)
		requests.Add(r.Context(), 1, attrs)
		latency.Record(r.Context(), float64(time.Since(start).Milliseconds()), attrs)
	})
}
