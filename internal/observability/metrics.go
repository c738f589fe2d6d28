package observability

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/spec-kit/grievance-service/internal/config"
)

const meterName = "github.com/spec-kit/grievance-service"

// Metrics holds the service's OpenTelemetry instruments.
type Metrics struct {
	provider    *sdkmetric.MeterProvider
	requests    metric.Int64Counter
	errors      metric.Int64Counter
	latency     metric.Float64Histogram
	transitions metric.Int64Counter
}

// NewMetrics builds a meter provider. Metrics are exported to stdout when
// enabled; otherwise they are only collected by the extra readers.
func NewMetrics(cfg config.TelemetryConfig, readers ...sdkmetric.Reader) (*Metrics, error) {
	opts := make([]sdkmetric.Option, 0, len(readers)+1)
	if cfg.MetricsStdout {
		exp, err := stdoutmetric.New()
		if err != nil {
			return nil, err
		}
		interval := time.Duration(cfg.ExportIntervalSeconds) * time.Second
		if interval <= 0 {
			interval = 30 * time.Second
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(interval))))
	}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	provider := sdkmetric.NewMeterProvider(opts...)
	meter := provider.Meter(meterName)

	m := &Metrics{provider: provider}
	var err error
	if m.requests, err = meter.Int64Counter("http.server.requests",
		metric.WithDescription("HTTP requests served")); err != nil {
		return nil, err
	}
	if m.errors, err = meter.Int64Counter("http.server.errors",
		metric.WithDescription("HTTP requests that ended in an error envelope")); err != nil {
		return nil, err
	}
	if m.latency, err = meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request latency"), metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	if m.transitions, err = meter.Int64Counter("grievance.transitions",
		metric.WithDescription("Grievance workflow operations by event and outcome")); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordRequest counts a served request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.route", path),
		attribute.String("http.method", method),
		attribute.String("http.status_code", strconv.Itoa(status)),
	)
	ctx := context.Background()
	m.requests.Add(ctx, 1, attrs)
	m.latency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordError counts an error response by failure kind.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("http.route", path),
		attribute.String("http.method", method),
		attribute.String("error.code", code),
	))
}

// RecordTransition counts a workflow operation. outcome is "ok" or a failure kind.
func (m *Metrics) RecordTransition(ctx context.Context, event, outcome string) {
	if m == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("grievance.event", event),
		attribute.String("outcome", outcome),
	))
}

// Shutdown flushes pending exports.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
