package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func captureRequestID(t *testing.T, incoming string) (ctxID, headerID string) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/question/question_list", nil)
	if incoming != "" {
		req.Header.Set(chimiddleware.RequestIDHeader, incoming)
	}
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = chimiddleware.GetReqID(r.Context())
	}))
	h.ServeHTTP(rec, req)
	return ctxID, rec.Header().Get(chimiddleware.RequestIDHeader)
}

func TestRequestIDGeneratesUUIDv4(t *testing.T) {
	captured, header := captureRequestID(t, "")

	if captured == "" {
		t.Fatalf("expected generated request ID")
	}
	if header != captured {
		t.Fatalf("expected response header %q, got %q", captured, header)
	}
	parsed, err := uuid.Parse(captured)
	if err != nil {
		t.Fatalf("request ID %q is not a valid UUID: %v", captured, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected UUIDv4, got version %d", parsed.Version())
	}
}

func TestRequestIDPreservesIncomingHeader(t *testing.T) {
	captured, header := captureRequestID(t, "external-id")

	if captured != "external-id" {
		t.Fatalf("expected request ID to remain external-id, got %q", captured)
	}
	if header != "external-id" {
		t.Fatalf("expected header external-id, got %q", header)
	}
}

func TestRequestIDRejectsInvalidHeaders(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "newline injection", id: "abc\nforged=1"},
		{name: "control character", id: "abc\x07"},
		{name: "high byte", id: "caf\xc3\xa9"},
		{name: "too long", id: strings.Repeat("a", maxRequestIDLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured, _ := captureRequestID(t, tt.id)
			if captured == tt.id {
				t.Fatalf("expected invalid id to be replaced")
			}
			if _, err := uuid.Parse(captured); err != nil {
				t.Fatalf("expected generated UUID, got %q", captured)
			}
		})
	}
}

func TestIsValidRequestID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"", false},
		{" ", true},
		{"~", true},
		{"\x7f", false},
		{"00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-01", true},
		{strings.Repeat("x", maxRequestIDLength), true},
		{strings.Repeat("x", maxRequestIDLength+1), false},
	}
	for _, tt := range tests {
		if got := isValidRequestID(tt.id); got != tt.want {
			t.Errorf("isValidRequestID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
