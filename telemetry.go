// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package odoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/luxfi/odoo"

// telemetry opens one client span per call and records request counts and
// durations. With the global no-op providers it costs next to nothing.
type telemetry struct {
	tracer            trace.Tracer
	requestCounter    metric.Int64Counter
	durationHistogram metric.Float64Histogram
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *telemetry {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	t := &telemetry{tracer: tp.Tracer(instrumentationName)}

	meter := mp.Meter(instrumentationName)
	t.requestCounter, _ = meter.Int64Counter("rpc.client.requests",
		metric.WithUnit("{request}"),
		metric.WithDescription("Number of execute_kw calls"),
	)
	t.durationHistogram, _ = meter.Float64Histogram("rpc.client.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of execute_kw calls"),
	)
	return t
}

// callInfo describes one call for spans and metrics.
type callInfo struct {
	Model    string
	Method   string
	Database string
	URL      string
}

type callSpan struct {
	span      trace.Span
	info      callInfo
	startTime time.Time
}

func (t *telemetry) start(ctx context.Context, info callInfo) (context.Context, *callSpan) {
	attrs := []attribute.KeyValue{
		attribute.String("rpc.system", "jsonrpc"),
		attribute.String("rpc.service", serviceObject),
		attribute.String("rpc.method", executeKW),
		attribute.String("odoo.model", info.Model),
		attribute.String("odoo.method", info.Method),
		attribute.String("odoo.database", info.Database),
	}
	if u, err := url.Parse(info.URL); err == nil && u.Host != "" {
		attrs = append(attrs, attribute.String("server.address", u.Hostname()))
	}

	ctx, span := t.tracer.Start(ctx, fmt.Sprintf("odoo/%s.%s", info.Model, info.Method),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	return ctx, &callSpan{span: span, info: info, startTime: time.Now()}
}

// end closes the span. fault is the server error member of an otherwise
// successful call, or nil.
func (t *telemetry) end(ctx context.Context, cs *callSpan, err error, fault *ServerError) {
	duration := time.Since(cs.startTime)

	status := "ok"
	switch {
	case err != nil:
		status = "error"
	case fault != nil:
		status = "fault"
	}

	metricAttrs := metric.WithAttributes(
		attribute.String("odoo.model", cs.info.Model),
		attribute.String("odoo.method", cs.info.Method),
		attribute.String("status", status),
	)
	if t.requestCounter != nil {
		t.requestCounter.Add(ctx, 1, metricAttrs)
	}
	if t.durationHistogram != nil {
		t.durationHistogram.Record(ctx, duration.Seconds(), metricAttrs)
	}

	if err != nil {
		cs.span.SetStatus(codes.Error, err.Error())
		cs.span.RecordError(err)
		cs.span.SetAttributes(attribute.String("odoo.error_type", fmt.Sprintf("%T", err)))
	} else if fault != nil {
		cs.span.SetStatus(codes.Error, fault.Message)
		cs.span.SetAttributes(
			attribute.Bool("odoo.fault", true),
			attribute.Int("odoo.fault.code", fault.Code),
		)
		cs.span.AddEvent("odoo.fault", trace.WithAttributes(
			attribute.String("odoo.fault.message", fault.Message),
		))
	} else {
		cs.span.SetStatus(codes.Ok, "")
	}
	cs.span.End()
}

// injectTraceContext propagates the active span to the server.
func injectTraceContext(ctx context.Context, header http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(header))
}
