package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/louisbranch/dualidade/internal/platform/branding"
	"github.com/louisbranch/dualidade/internal/platform/icons"
)

// Page renders the full document around the active tab.
func Page(view PageView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<!doctype html><html`)
		h.attr("lang", view.Lang)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(PageTitle(view))
		h.raw(`</title><script src="https://unpkg.com/htmx.org@2.0.4"></script>`)
		h.raw(`<script src="https://unpkg.com/lucide@latest/dist/umd/lucide.min.js"></script>`)
		h.raw(`</head><body hx-boost="true"><header class="app-header"><h1>`)
		h.text(branding.AppName)
		h.raw(`</h1>`)
		writeLanguages(h, view)
		h.raw(`</header>`)
		writeTabs(h, view)
		h.raw(`<main id="main">`)
		if h.err != nil {
			return h.err
		}
		if err := Main(view).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main>`)
		h.raw(`<script>` + liveScript + `</script></body></html>`)
		return h.err
	})
}

// Main renders the active tab's panel. HTMX navigations swap only this.
func Main(view PageView) templ.Component {
	switch view.Tab {
	case TabSheet:
		return SheetPanel(view)
	case TabAbilities:
		return AbilitiesPanel(view)
	case TabInventory:
		return InventoryPanel(view)
	case TabNotes:
		return NotesPanel(view)
	default:
		return RollerPanel(view)
	}
}

// PageTitle is the document title for view.
func PageTitle(view PageView) string {
	if view.Title != "" {
		return view.Title + " | " + branding.AppName
	}
	return branding.AppName
}

func writeLanguages(h *html, view PageView) {
	if len(view.Languages) == 0 {
		return
	}
	h.raw(`<nav class="languages"`)
	h.attr("aria-label", T(view.Loc, "core.lang.label"))
	h.raw(`>`)
	for _, option := range view.Languages {
		h.raw(`<a`)
		h.attr("href", option.URL)
		if option.Active {
			h.raw(` aria-current="true"`)
		}
		h.raw(`>`)
		h.text(option.Label)
		h.raw(`</a>`)
	}
	h.raw(`</nav>`)
}

var tabIcons = map[Tab]icons.ID{
	TabDuality:   icons.Roll,
	TabStandard:  icons.Roll,
	TabSheet:     icons.Character,
	TabAbilities: icons.Ability,
	TabInventory: icons.Item,
	TabNotes:     icons.Note,
}

var tabLabels = map[Tab]string{
	TabDuality:   "roller.mode.duality",
	TabStandard:  "roller.mode.standard",
	TabSheet:     "sheet.heading",
	TabAbilities: "sheet.abilities",
	TabInventory: "sheet.inventory",
	TabNotes:     "sheet.notes",
}

// TabLabelKey returns the catalog key naming tab.
func TabLabelKey(tab Tab) string {
	return tabLabels[tab]
}

func writeTabs(h *html, view PageView) {
	h.raw(`<nav class="tabs" hx-target="#main" hx-push-url="true">`)
	for _, tab := range Tabs {
		h.raw(`<a`)
		h.attr("href", "/?tab="+string(tab))
		h.attr("hx-get", "/?tab="+string(tab))
		if tab == view.Tab {
			h.raw(` aria-current="page"`)
		}
		h.raw(`>`)
		h.icon(tabIcons[tab])
		h.raw(`<span>`)
		h.text(T(view.Loc, tabLabels[tab]))
		h.raw(`</span></a>`)
	}
	h.raw(`</nav>`)
}

// liveScript keeps the roller panel in sync with the websocket feed: every
// frame updates the dice faces and a result refreshes the panel.
const liveScript = `(function(){
var scheme = location.protocol === "https:" ? "wss://" : "ws://";
var ws = new WebSocket(scheme + location.host + "/roll/ws");
ws.onmessage = function(ev){
  var msg = JSON.parse(ev.data);
  if (msg.type === "frame") {
    var d = msg.payload.display || {};
    var hope = document.getElementById("die-hope"); if (hope) hope.textContent = d.hope;
    var fear = document.getElementById("die-fear"); if (fear) fear.textContent = d.fear;
    (d.rolls || []).forEach(function(v, i){
      var el = document.getElementById("die-" + i); if (el) el.textContent = v;
    });
  } else if (msg.type === "result" || msg.type === "history_cleared") {
    var panel = document.getElementById("roller");
    if (panel) htmx.ajax("GET", location.pathname + location.search, {target: "#main"});
  }
};
})();`
