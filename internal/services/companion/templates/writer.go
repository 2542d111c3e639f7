package templates

import (
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/louisbranch/dualidade/internal/platform/icons"
)

// html accumulates the first write error so components read top to bottom.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) int(n int) {
	h.raw(strconv.Itoa(n))
}

func (h *html) attr(name, value string) {
	h.raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

func (h *html) icon(id icons.ID) {
	h.raw(`<svg class="icon" aria-hidden="true"><use href="#`)
	h.raw(templ.EscapeString(icons.LucideSymbolID(icons.LucideNameOrDefault(id))))
	h.raw(`"></use></svg>`)
}

func signed(n int) string {
	if n >= 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
