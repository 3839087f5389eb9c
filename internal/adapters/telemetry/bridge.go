package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/sift/internal/core/ports"
)

// failedTask describes a failed span that recorded no description.
const failedTask = "task failed"

// Bridge is the span processor behind sift's progress output. An experiment run opens one root span
// named after the experiment and one child span per task; the bridge turns each span start into a
// progress line and each span end into a completion or failure line on the renderer.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge reporting to renderer. A nil renderer drops every span.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// NewProvider returns the tracer provider of one experiment run, reporting every span to renderer.
func NewProvider(renderer ports.Renderer) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewBridge(renderer)))
}

// OnStart reports a task start. Task spans carry the experiment span as parent, which the renderer
// uses for indentation.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	id, ok := b.spanID(s.SpanContext())
	if !ok {
		return
	}
	var parentID string
	if pc := trace.SpanFromContext(parent).SpanContext(); pc.IsValid() {
		parentID = pc.SpanID().String()
	}
	b.renderer.OnTaskStart(id, parentID, s.Name(), s.StartTime())
}

// OnEnd reports a task completion, with the recorded error when the span status is Error.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	id, ok := b.spanID(s.SpanContext())
	if !ok {
		return
	}
	b.renderer.OnTaskComplete(id, s.EndTime(), taskError(s.Status()))
}

// ForceFlush is a no-op: spans are rendered as they start and end.
func (b *Bridge) ForceFlush(context.Context) error {
	return nil
}

// Shutdown is a no-op: the bridge holds no buffered spans.
func (b *Bridge) Shutdown(context.Context) error {
	return nil
}

func (b *Bridge) spanID(sc trace.SpanContext) (string, bool) {
	if b.renderer == nil || !sc.IsValid() {
		return "", false
	}
	return sc.SpanID().String(), true
}

func taskError(status sdktrace.Status) error {
	if status.Code != codes.Error {
		return nil
	}
	if status.Description == "" {
		return errors.New(failedTask)
	}
	return errors.New(status.Description)
}
