package core

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

var _ Logger = (*slog.Logger)(nil)

func TestClockFuncNilFallsBackToWallClock(t *testing.T) {
	got := ClockFunc(nil).Now()
	if got.IsZero() {
		t.Fatal("expected non-zero time from nil ClockFunc")
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", got.Location())
	}
}

func TestClockFuncDelegates(t *testing.T) {
	expected := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	clock := ClockFunc(func() time.Time { return expected })
	if !clock.Now().Equal(expected) {
		t.Fatalf("expected delegated time, got %v", clock.Now())
	}
}

func TestNoopImplementations(t *testing.T) {
	var logger noopLogger
	logger.Debug("noop")
	logger.Info("noop")
	logger.Warn("noop")
	logger.Error("noop")

	var audit noopAuditRecorder
	audit.Record(context.Background(), AuditEntry{})

	var metrics noopMetricsRecorder
	metrics.Observe(context.Background(), "noop", true, 0)

	tracer := noopTracer{}
	ctx, span := tracer.Start(context.Background(), "op")
	if ctx == nil {
		t.Fatal("expected context from tracer")
	}
	span.End(nil)
}
