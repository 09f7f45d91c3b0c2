package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func withRequestID(id string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), chimiddleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func TestAccessLoggerUsesRequestLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	access := AccessLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/question/question_list", nil)
	req = req.WithContext(ContextWithLogger(req.Context(), logger))
	resp := httptest.NewRecorder()

	access.ServeHTTP(resp, req)

	entries := recorded.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if got := fields["status"]; got != int64(http.StatusTeapot) {
		t.Fatalf("expected status 418, got %v", got)
	}
	if got := fields["path"]; got != "/question/question_list" {
		t.Fatalf("unexpected path: %v", got)
	}
	if got := fields["bytes"]; got != int64(3) {
		t.Fatalf("expected 3 bytes, got %v", got)
	}
	if _, ok := fields["duration"]; !ok {
		t.Fatalf("expected duration field, got %+v", fields)
	}
}

func TestRequestLoggerWithTraceHeader(t *testing.T) {
	var traceID string
	handler := withRequestID("req-1", RequestLogger("test-project")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID = TraceIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("traceparent", "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-01")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if traceID != "projects/test-project/traces/3d23d071b5bfd6579171efce907685cb" {
		t.Fatalf("unexpected trace id: %q", traceID)
	}
}

func TestRequestLoggerFallsBackToRequestID(t *testing.T) {
	var traceID string
	handler := withRequestID("test-request-id", RequestLogger("")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID = TraceIDFromContext(r.Context())
			if LoggerFromContext(r.Context()) == Logger() {
				t.Error("expected request-scoped logger, got global logger")
			}
			w.WriteHeader(http.StatusOK)
		}),
	))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("traceparent", "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-01")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if traceID != "test-request-id" {
		t.Fatalf("expected trace ID to be request ID, got %q", traceID)
	}
}

func TestRequestLoggerWithoutRequestIDUsesGlobalLogger(t *testing.T) {
	handler := RequestLogger("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := TraceIDFromContext(r.Context()); got != "" {
			t.Errorf("expected no trace id, got %q", got)
		}
		if LoggerFromContext(r.Context()) != Logger() {
			t.Error("expected global logger when no correlation fields exist")
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
