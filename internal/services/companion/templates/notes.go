package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/louisbranch/dualidade/internal/platform/icons"
)

// NotesPanel renders the rich text notebook. Content is sanitized before it
// is stored, so it is written as markup.
func NotesPanel(view PageView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section id="notes" class="notes"><h2>`)
		h.icon(icons.Note)
		h.text(T(view.Loc, "sheet.notes"))
		h.raw(`</h2><form hx-put="/notes" hx-target="#main" hx-vals='js:{content: document.getElementById("notes-editor").innerHTML}'>`)
		h.raw(`<input type="hidden" name="fontSize"`)
		h.attr("value", strconv.Itoa(view.Notes.FontSize))
		h.raw(`><button type="submit" name="font" value="shrink">A-</button>`)
		h.raw(`<button type="submit" name="font" value="grow">A+</button>`)
		h.raw(`<div id="notes-editor" contenteditable="true"`)
		h.attr("style", "font-size: "+strconv.Itoa(view.Notes.FontSize)+"px")
		h.raw(`>`)
		h.raw(view.Notes.Content)
		h.raw(`</div><button type="submit">`)
		h.text(T(view.Loc, "core.action.save"))
		h.raw(`</button></form></section>`)
		return h.err
	})
}
