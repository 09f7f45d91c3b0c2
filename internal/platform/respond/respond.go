// Package respond writes RFC 9457 problem responses for the router fallbacks
// and panics, and hooks huma's error constructors so every error response is
// logged through the request-scoped logger.
package respond

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/negotiation"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	applog "github.com/janisto/question-list/internal/platform/logging"
)

const (
	msgNotFound            = "resource not found"
	msgInternalServerError = "internal server error"
	schemaPath             = "/schemas/ErrorModel.json"
)

var installOnce sync.Once

// Install replaces huma's error constructor so error responses are logged.
// Server-side failures keep their cause out of the response body.
func Install() {
	installOnce.Do(func() {
		base := huma.NewError
		huma.NewErrorWithContext = func(hctx huma.Context, status int, msg string, errs ...error) huma.StatusError {
			ctx := context.Background()
			if hctx != nil {
				ctx = hctx.Context()
			}
			logWithStatus(ctx, status, msg, errors.Join(errs...))
			if status >= http.StatusInternalServerError {
				return base(status, msg)
			}
			return base(status, msg, errs...)
		}
	})
}

// problem mirrors huma.ErrorModel plus the $schema link huma adds to its own
// problem bodies.
type problem struct {
	Schema string `json:"$schema,omitempty" cbor:"$schema,omitempty"`
	Title  string `json:"title,omitempty" cbor:"title,omitempty"`
	Status int    `json:"status,omitempty" cbor:"status,omitempty"`
	Detail string `json:"detail,omitempty" cbor:"detail,omitempty"`
}

// WriteProblem renders a problem document in JSON or CBOR, chosen from the
// request's Accept header, and logs it according to status.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string, cause error) {
	logWithStatus(r.Context(), status, detail, cause)

	schema := schemaURL(r)
	body := problem{
		Schema: schema,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}

	var (
		payload     []byte
		contentType string
		err         error
	)
	if selectFormat(r.Header.Get("Accept")) {
		contentType = "application/problem+cbor"
		payload, err = cbor.Marshal(body)
	} else {
		contentType = "application/problem+json"
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		err = enc.Encode(body)
		payload = buf.Bytes()
	}
	if err != nil {
		applog.LogError(r.Context(), "failed to encode problem", err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	h := w.Header()
	ensureVary(h, "Accept")
	h.Set("Content-Type", contentType)
	h.Set("Link", "<"+schema+">; rel=\"describedBy\"")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// NotFoundHandler emits a 404 problem response.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteProblem(w, r, http.StatusNotFound, msgNotFound, nil)
	}
}

// MethodNotAllowedHandler emits a 405 problem response with an Allow header.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		WriteProblem(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method), nil)
	}
}

// responseWriter records whether the response has been started.
type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Recoverer converts panics into 500 problem responses. http.ErrAbortHandler
// is re-panicked so net/http can abort the connection. Responses that have
// already started are left as they are.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				var err error
				switch v := rec.(type) {
				case error:
					err = v
				default:
					err = fmt.Errorf("%v", v)
				}
				if rw.wroteHeader {
					applog.LogError(r.Context(), "panic after response started", err,
						zap.ByteString("stack", debug.Stack()))
					return
				}
				WriteProblem(rw, r, http.StatusInternalServerError, msgInternalServerError,
					fmt.Errorf("%w\n%s", err, debug.Stack()))
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}

	routePath := rctx.RoutePath
	if routePath == "" {
		if r.URL.RawPath != "" {
			routePath = r.URL.RawPath
		} else {
			routePath = r.URL.Path
		}
		if routePath == "" {
			routePath = "/"
		}
	}

	var allowed []string
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		if rctx.Routes.Match(chi.NewRouteContext(), method, routePath) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

func schemaURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + schemaPath
}

func ensureVary(h http.Header, value string) {
	for _, v := range h.Values("Vary") {
		for part := range strings.SplitSeq(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), value) {
				return
			}
		}
	}
	h.Add("Vary", value)
}

// problemFormats lists the media types a problem can be negotiated to. Ties
// go to the first entry.
var problemFormats = []string{
	"application/problem+json",
	"application/json",
	"application/problem+cbor",
	"application/cbor",
}

// selectFormat reports whether the client prefers CBOR over JSON. Wildcards,
// unknown types and missing headers resolve to JSON, matching huma's own
// negotiation.
func selectFormat(accept string) bool {
	return strings.HasSuffix(negotiation.SelectQValueFast(accept, problemFormats), "cbor")
}

func logWithStatus(ctx context.Context, status int, msg string, err error) {
	if msg == "" {
		msg = "request failed"
	}
	fields := []zap.Field{zap.Int("status", status)}
	switch {
	case status >= http.StatusInternalServerError:
		applog.LogError(ctx, msg, err, fields...)
	case status >= http.StatusBadRequest:
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		applog.LogWarn(ctx, msg, fields...)
	default:
		applog.LogInfo(ctx, msg, fields...)
	}
}
