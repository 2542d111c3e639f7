package companion

import (
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/dualidade/internal/notes"
	apperrors "github.com/louisbranch/dualidade/internal/platform/errors"
	"github.com/louisbranch/dualidade/internal/services/companion/templates"
	"github.com/louisbranch/dualidade/internal/services/shared/domainerr"
	"github.com/louisbranch/dualidade/internal/services/shared/httpx"
)

type notesInput struct {
	Content  string `json:"content"`
	FontSize int    `json:"fontSize"`
	// Font steps the size: "grow" or "shrink".
	Font string `json:"font,omitempty"`
}

func (in *notesInput) bindForm(values url.Values) error {
	if raw, ok := values["content"]; ok && len(raw) > 0 {
		in.Content = raw[0]
	}
	formString(values, "font", &in.Font)
	return formInt(values, "fontSize", &in.FontSize)
}

func (in notesInput) notes() notes.Notes {
	size := in.FontSize
	switch in.Font {
	case "grow":
		size = notes.Grow(size)
	case "shrink":
		size = notes.Shrink(size)
	}
	return notes.Notes{Content: in.Content, FontSize: size}
}

func (h *handlers) handleGetNotes(w http.ResponseWriter, r *http.Request) {
	n, err := h.notes.get(r.Context())
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, n)
}

func (h *handlers) handlePutNotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "companion.notes.put")
	defer span.End()

	current, err := h.notes.get(ctx)
	if err != nil {
		h.fail(w, r, span, err)
		return
	}
	in := notesInput{Content: current.Content, FontSize: current.FontSize}
	if err := bind(w, r, &in, apperrors.CodeNotesTooLarge); err != nil {
		h.fail(w, r, span, err)
		return
	}
	span.SetAttributes(attribute.Int("notes.bytes", len(in.Content)))
	saved, err := h.notes.put(ctx, in.notes())
	if err != nil {
		h.fail(w, r, span, domainerr.Wrap(err, nil))
		return
	}
	h.respondSheet(w, r, http.StatusOK, templates.TabNotes, saved)
}
