// Package htmx renders templ components for full-page and HTMX requests.
package htmx

import (
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

const (
	// RequestHeaderKey is the HTMX request header used to detect partial updates.
	RequestHeaderKey = "HX-Request"
	// TriggerHeaderKey asks HTMX to fire client-side events.
	TriggerHeaderKey = "HX-Trigger"
)

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeaderKey), "true")
}

// TitleTag formats an escaped `<title>` element.
func TitleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

// Trigger sets the HX-Trigger header so HTMX dispatches event on the client.
func Trigger(w http.ResponseWriter, event string) {
	if w == nil || strings.TrimSpace(event) == "" {
		return
	}
	w.Header().Set(TriggerHeaderKey, event)
}

// RenderPage renders full for normal requests. HTMX requests get fragment,
// or full when fragment is nil, preceded by a title tag so hx-boost keeps
// the document title current.
func RenderPage(w http.ResponseWriter, r *http.Request, status int, fragment templ.Component, full templ.Component, title string) {
	if status == 0 {
		status = http.StatusOK
	}
	useFragment := fragment != nil && (IsHTMXRequest(r) || full == nil)
	target := full
	if useFragment {
		target = fragment
	}
	if target == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if useFragment && IsHTMXRequest(r) {
		if tag := TitleTag(title); tag != "" {
			_, _ = io.WriteString(w, tag)
		}
	}
	if err := target.Render(r.Context(), w); err != nil {
		_, _ = io.WriteString(w, "<!-- render failed -->")
	}
}
