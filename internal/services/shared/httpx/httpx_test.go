package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/dualidade/internal/platform/errors"
	"github.com/louisbranch/dualidade/internal/platform/requestctx"
	"golang.org/x/text/language"
)

func TestChainAppliesInOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }), mark("a"), nil, mark("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.Join(order, ",") != "a,b,handler" {
		t.Fatalf("order = %v", order)
	}
}

func TestRequestIDEchoesOrGenerates(t *testing.T) {
	h := Chain(http.NotFoundHandler(), RequestID())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc" {
		t.Fatalf("request id = %q", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get("X-Request-ID"); !strings.HasPrefix(got, "companion-") {
		t.Fatalf("generated request id = %q", got)
	}
}

func TestRecoverPanic(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), RecoverPanic())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWriteErrorLocalizesDomainErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/roll/duality", nil)
	req = req.WithContext(requestctx.WithLocale(req.Context(), language.BrazilianPortuguese))
	rec := httptest.NewRecorder()

	WriteError(rec, req, apperrors.New(apperrors.CodeRollInProgress, "busy"))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "ROLL_IN_PROGRESS" || body.Error.Message != "Os dados ainda estão rolando." {
		t.Fatalf("body = %+v", body)
	}
}

func TestWriteErrorHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("disk on fire"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk on fire") {
		t.Fatalf("internal error leaked: %s", rec.Body.String())
	}
}

func TestWantsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if WantsJSON(req) {
		t.Fatal("plain request should not want JSON")
	}
	req.Header.Set("Accept", "application/json")
	if !WantsJSON(req) {
		t.Fatal("expected JSON preference")
	}
}
