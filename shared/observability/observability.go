package observability

import (
	"context"
	"net/http"

	"bilingual-chat-demo/backend/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// SetupTracing initializes OpenTelemetry tracing with a stdout exporter
// (for demo; replace with OTLP in prod). The returned func flushes and shuts
// the provider down.
func SetupTracing(serviceName string, log *logger.Logger) (func(), error) {
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	res, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	provider := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	return func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.Warn("tracer provider shutdown failed", "error", err.Error())
		}
	}, nil
}

// SetupPrometheusMetrics initializes the Prometheus exporter and serves
// /metrics on its own listener so scraping stays off the API port
func SetupPrometheusMetrics(addr string, log *logger.Logger) (*metric.MeterProvider, error) {
	exp, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exp))
	otel.SetMeterProvider(mp)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		log.Info("metrics listener starting", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("metrics listener stopped", "error", err.Error())
		}
	}()
	return mp, nil
}
