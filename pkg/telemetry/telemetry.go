// Package telemetry names the spans and attributes recorded for state
// transitions.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	InstrumentationName = "github.com/stateforward/go-fsm"
	TransitionSpan      = "fsm.transition"
)

const (
	MachineKey = attribute.Key("fsm.machine")
	FromKey    = attribute.Key("fsm.from")
	ToKey      = attribute.Key("fsm.to")
	KindKey    = attribute.Key("fsm.kind")
)

// Tracer returns a tracer from the global provider. Spans record nothing
// until the application installs a provider with otel.SetTracerProvider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// Attributes builds the span attributes attached to a transition span.
func Attributes(machine, from, to, kind string) []attribute.KeyValue {
	return []attribute.KeyValue{
		MachineKey.String(machine),
		FromKey.String(from),
		ToKey.String(to),
		KindKey.String(kind),
	}
}

func StartTransition(ctx context.Context, tracer trace.Tracer, machine, from, to, kind string) (context.Context, trace.Span) {
	return tracer.Start(ctx, TransitionSpan,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(Attributes(machine, from, to, kind)...),
	)
}

// Fail marks span as failed with err.
func Fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
