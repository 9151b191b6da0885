package http

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type serverMetrics struct {
	requests metric.Int64Counter
	failures metric.Int64Counter
	active   metric.Int64UpDownCounter
	duration metric.Float64Histogram
}

func newServerMetrics(meter metric.Meter) (*serverMetrics, error) {
	requests, err := meter.Int64Counter("hearth.server.requests",
		metric.WithDescription("Requests dispatched, by method and status"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("hearth.server.failures",
		metric.WithDescription("Connections dropped before dispatch, by reason"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}
	active, err := meter.Int64UpDownCounter("hearth.server.active_connections",
		metric.WithDescription("Connections being served"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("hearth.server.duration",
		metric.WithDescription("Time from accept to response written"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &serverMetrics{
		requests: requests,
		failures: failures,
		active:   active,
		duration: duration,
	}, nil
}

func (m *serverMetrics) request(ctx context.Context, req *Request, res *Response) {
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.request.method", req.Method().String()),
		attribute.Int("http.response.status_code", int(res.Status())),
	))
}

func (m *serverMetrics) failure(ctx context.Context, reason string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *serverMetrics) observe(ctx context.Context, start time.Time) {
	m.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000)
}
