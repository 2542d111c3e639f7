package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("handler: %w", WithMetadata(CodeRollInvalidPoolSize, "pool size 0", map[string]string{"Size": "0"}))
	if !stderrors.Is(err, New(CodeRollInvalidPoolSize, "")) {
		t.Fatal("expected errors.Is to match by code")
	}
	if stderrors.Is(err, New(CodeRollInProgress, "")) {
		t.Fatal("expected different codes not to match")
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeUnknown, "save sheet", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	if err.Error() != "save sheet" {
		t.Fatalf("error = %q", err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("x: %w", New(CodeNotFound, "missing"))); got != CodeNotFound {
		t.Fatalf("CodeOf = %q, want %q", got, CodeNotFound)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf = %q, want %q", got, CodeUnknown)
	}
}

func TestHTTPStatus(t *testing.T) {
	tcs := map[Code]int{
		CodeRollInvalidDieFaces:    http.StatusBadRequest,
		CodeRollInProgress:         http.StatusConflict,
		CodeCharacterEntryNotFound: http.StatusNotFound,
		CodeNotesTooLarge:          http.StatusRequestEntityTooLarge,
		CodeUnknown:                http.StatusInternalServerError,
	}
	for code, want := range tcs {
		if got := code.HTTPStatus(); got != want {
			t.Fatalf("%s status = %d, want %d", code, got, want)
		}
	}
}

func TestEveryCodeHasLocalizedMessages(t *testing.T) {
	for _, locale := range []string{"en-US", "pt-BR"} {
		for _, code := range KnownCodes {
			msg := New(code, "internal").LocalizedMessage(locale)
			if msg == "" || msg == string(code) {
				t.Fatalf("%s has no %s message", code, locale)
			}
		}
	}
}

func TestLocalizedMessageUsesMetadata(t *testing.T) {
	err := WithMetadata(CodeRollUnknownAttribute, "unknown", map[string]string{"Name": "charisma"})
	if got := err.LocalizedMessage("en-US"); !strings.Contains(got, "charisma") {
		t.Fatalf("message = %q, want attribute name", got)
	}
}
