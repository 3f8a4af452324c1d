package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/stateforward/go-fsm/pkg/telemetry"
)

func TestAttributes(t *testing.T) {
	attrs := telemetry.Attributes("m1", "Idle", "Walking", "immediate")
	assert.Len(t, attrs, 4)
	assert.Equal(t, telemetry.MachineKey, attrs[0].Key)
	assert.Equal(t, "m1", attrs[0].Value.AsString())
	assert.Equal(t, "Walking", attrs[2].Value.AsString())
	assert.Equal(t, "immediate", attrs[3].Value.AsString())
}

func TestDefaultTracer(t *testing.T) {
	ctx, span := telemetry.StartTransition(context.Background(), telemetry.Tracer(), "m", "a", "b", "immediate")
	assert.NotNil(t, ctx)
	assert.False(t, span.IsRecording())
	assert.NotPanics(t, func() {
		telemetry.Fail(span, errors.New("blocked"))
		span.End()
	})
}

func TestStartTransition(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	_, span := telemetry.StartTransition(context.Background(), tracer, "m", "a", "b", "timed")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
}
