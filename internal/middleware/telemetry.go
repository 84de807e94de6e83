package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "blogAPI/internal/middleware"
	meterName  = "blogAPI/internal/middleware"
)

// Telemetry держит инструменты OpenTelemetry для HTTP-слоя. Провайдеры
// берутся глобальные: без настроенного экспортера все вызовы no-op.
type Telemetry struct {
	tracer          trace.Tracer
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
}

func NewTelemetry() *Telemetry {
	meter := otel.Meter(meterName)

	requestCount, _ := meter.Int64Counter("http.server.request.count",
		metric.WithDescription("Total number of handled HTTP requests"),
		metric.WithUnit("{request}"),
	)

	requestDuration, _ := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)

	requestErrors, _ := meter.Int64Counter("http.server.request.errors",
		metric.WithDescription("Total number of HTTP responses with status >= 500"),
		metric.WithUnit("{error}"),
	)

	return &Telemetry{
		tracer:          otel.Tracer(tracerName),
		requestCount:    requestCount,
		requestDuration: requestDuration,
		requestErrors:   requestErrors,
	}
}

func (t *Telemetry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := t.tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r.WithContext(ctx))

		duration := time.Since(start)
		attrs := metric.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.Int("http.response.status_code", recorder.status),
		)

		t.requestCount.Add(ctx, 1, attrs)
		t.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)

		span.SetAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.URL.Path),
			attribute.Int("http.response.status_code", recorder.status),
		)

		if recorder.status >= http.StatusInternalServerError {
			t.requestErrors.Add(ctx, 1, attrs)
			span.SetStatus(codes.Error, http.StatusText(recorder.status))
		}
	})
}
