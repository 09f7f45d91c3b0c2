package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedContext(level zapcore.Level) (context.Context, *observer.ObservedLogs) {
	core, recorded := observer.New(level)
	return ContextWithLogger(context.Background(), zap.New(core)), recorded
}

func TestTraceIDFromContext(t *testing.T) {
	if got := TraceIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty trace ID, got %q", got)
	}
	ctx := contextWithTraceID(context.Background(), "trace-abc")
	if got := TraceIDFromContext(ctx); got != "trace-abc" {
		t.Fatalf("expected trace-abc, got %q", got)
	}
	if got := contextWithTraceID(context.Background(), ""); TraceIDFromContext(got) != "" {
		t.Fatal("expected empty trace ID to leave context untouched")
	}
}

func TestLogErrorAppendsErrorField(t *testing.T) {
	ctx, recorded := observedContext(zapcore.DebugLevel)

	LogError(ctx, "upstream failed", errors.New("boom"), zap.Int("status", 500))

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level, got %v", entries[0].Level)
	}
	fields := entries[0].ContextMap()
	if fields["error"] != "boom" {
		t.Fatalf("expected error field, got %+v", fields)
	}
	if fields["status"] != int64(500) {
		t.Fatalf("expected status field, got %+v", fields)
	}
}

func TestLogErrorNilError(t *testing.T) {
	ctx, recorded := observedContext(zapcore.DebugLevel)

	LogError(ctx, "no error", nil)

	if _, ok := recorded.All()[0].ContextMap()["error"]; ok {
		t.Fatal("did not expect error field for nil error")
	}
}

func TestLevelHelpers(t *testing.T) {
	ctx, recorded := observedContext(zapcore.DebugLevel)

	LogDebug(ctx, "debug")
	LogInfo(ctx, "info")
	LogWarn(ctx, "warn")

	want := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel}
	entries := recorded.All()
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, lvl := range want {
		if entries[i].Level != lvl {
			t.Fatalf("entry %d: expected %v, got %v", i, lvl, entries[i].Level)
		}
	}
}

func TestLoggerFromContextFallbacks(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	if LoggerFromContext(nil) != Logger() {
		t.Fatal("expected global logger for nil context")
	}
	ctx := context.WithValue(context.Background(), ctxLoggerKey{}, (*zap.Logger)(nil))
	if LoggerFromContext(ctx) != Logger() {
		t.Fatal("expected global logger for nil logger value")
	}
}

func TestContextWithLoggerNilContext(t *testing.T) {
	logger := zap.NewNop()
	//nolint:staticcheck // nil context is part of the contract
	ctx := ContextWithLogger(nil, logger)
	if LoggerFromContext(ctx) != logger {
		t.Fatal("expected logger stored on fresh context")
	}
}
