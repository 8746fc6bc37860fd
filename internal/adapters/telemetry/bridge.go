package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/memo/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor to surface span lifecycles in the
// log stream. Spans are reported at debug level.
type Bridge struct {
	log ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(log ports.Logger) *Bridge {
	return &Bridge{log: log}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.log == nil {
		return
	}
	b.log.Debug(fmt.Sprintf("span %s started", s.Name()))
}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.log == nil {
		return
	}

	took := s.EndTime().Sub(s.StartTime()).Round(time.Microsecond)
	if s.Status().Code == codes.Error {
		b.log.Debug(fmt.Sprintf("span %s failed after %s: %s", s.Name(), took, s.Status().Description))
		return
	}
	b.log.Debug(fmt.Sprintf("span %s finished in %s", s.Name(), took))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(ctx context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(ctx context.Context) error {
	return nil
}
