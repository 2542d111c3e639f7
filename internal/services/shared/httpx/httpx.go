// Package httpx provides HTTP middleware and response helpers shared by the
// companion's HTTP surfaces.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	apperrors "github.com/louisbranch/dualidade/internal/platform/errors"
	platformi18n "github.com/louisbranch/dualidade/internal/platform/i18n"
	"github.com/louisbranch/dualidade/internal/platform/requestctx"
)

const htmxHeader = "HX-Request"

// Middleware wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

var requestIDCounter atomic.Uint64

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine code and a localized message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Chain applies middleware in declaration order.
func Chain(handler http.Handler, middleware ...Middleware) http.Handler {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	wrapped := handler
	for idx := len(middleware) - 1; idx >= 0; idx-- {
		if middleware[idx] == nil {
			continue
		}
		wrapped = middleware[idx](wrapped)
	}
	return wrapped
}

// RequestID injects and echoes a request id for correlation.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = fmt.Sprintf("companion-%d-%d", time.Now().UnixNano(), requestIDCounter.Add(1))
				r.Header.Set("X-Request-ID", requestID)
			}
			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r)
		})
	}
}

// RecoverPanic converts panics into HTTP 500 responses.
func RecoverPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					log.Printf(
						"panic recovered method=%s path=%s request_id=%s panic=%v stack=%s",
						r.Method,
						r.URL.Path,
						r.Header.Get("X-Request-ID"),
						recovered,
						strings.TrimSpace(string(debug.Stack())),
					)
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WriteJSON writes a JSON response with the provided status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return fmt.Errorf("response writer is required")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// WriteError writes err as a JSON envelope. Domain errors keep their status
// and get a message in the request's language; anything else is a 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if w == nil {
		return
	}
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	domainErr, ok := apperrors.As(err)
	if !ok {
		log.Printf("request failed method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		domainErr = apperrors.Wrap(apperrors.CodeUnknown, "internal error", err)
	}
	locale := platformi18n.Locale(platformi18n.DefaultTag())
	if tag, ok := requestctx.LocaleFromContext(RequestContext(r)); ok {
		locale = platformi18n.Locale(tag)
	}
	_ = WriteJSON(w, domainErr.HTTPStatus(), ErrorBody{Error: ErrorDetail{
		Code:    string(domainErr.Code),
		Message: domainErr.LocalizedMessage(locale),
	}})
}

// RequestContext returns r.Context() with a nil-safe fallback to context.Background().
func RequestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}

// IsHTMXRequest reports whether the current request came from HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return r.Header.Get(htmxHeader) == "true"
}

// WantsJSON reports whether the client asked for JSON over HTML.
func WantsJSON(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
