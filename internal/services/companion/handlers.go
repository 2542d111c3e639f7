package companion

import (
	"net/http"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/dualidade/internal/dice"
	platformi18n "github.com/louisbranch/dualidade/internal/platform/i18n"
	"github.com/louisbranch/dualidade/internal/roller"
	"github.com/louisbranch/dualidade/internal/services/companion/templates"
	"github.com/louisbranch/dualidade/internal/services/shared/htmx"
	"github.com/louisbranch/dualidade/internal/services/shared/httpx"
	"github.com/louisbranch/dualidade/internal/services/shared/i18nhttp"
)

type handlers struct {
	controller *roller.Controller
	sheets     *sheetService
	notes      *notesService
	tracer     trace.Tracer
}

// localizer returns the printer for the request's language.
func (h *handlers) localizer(r *http.Request) templates.Localizer {
	return platformi18n.Printer(i18nhttp.TagFromRequest(r))
}

// fail records err on span and writes the error envelope.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, span trace.Span, err error) {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	httpx.WriteError(w, r, err)
}

func (h *handlers) handleUp(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *handlers) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != routeRoot {
		http.NotFound(w, r)
		return
	}
	h.renderTab(w, r, http.StatusOK, templates.ParseTab(r.URL.Query().Get("tab")))
}

// renderTab renders tab as a full page, or as the main fragment for HTMX.
func (h *handlers) renderTab(w http.ResponseWriter, r *http.Request, status int, tab templates.Tab) {
	view, err := h.pageView(r, tab)
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	htmx.RenderPage(w, r, status, templates.Main(view), templates.Page(view), templates.PageTitle(view))
}

func (h *handlers) pageView(r *http.Request, tab templates.Tab) (templates.PageView, error) {
	ctx := r.Context()
	sheet, err := h.sheets.get(ctx)
	if err != nil {
		return templates.PageView{}, err
	}
	notes, err := h.notes.get(ctx)
	if err != nil {
		return templates.PageView{}, err
	}
	tag := i18nhttp.TagFromRequest(r)
	loc := platformi18n.Printer(tag)
	options := i18nhttp.BuildLanguageOptions(tag, r.URL.Path, r.URL.RawQuery, func(key string) string {
		return loc.Sprintf(key)
	})
	languages := make([]templates.LanguageOption, 0, len(options))
	for _, option := range options {
		languages = append(languages, templates.LanguageOption{Label: option.Label, URL: option.URL, Active: option.Active})
	}
	return templates.PageView{
		Lang:      platformi18n.Locale(tag),
		Title:     templates.T(loc, templates.TabLabelKey(tab)),
		Tab:       tab,
		Loc:       loc,
		Languages: languages,
		Roller:    newRollerView(loc, h.controller.Snapshot()),
		Sheet:     sheet,
		Notes:     notes,
		Faces:     append([]int(nil), dice.StandardFaces...),
		Logics:    append([]string(nil), aggregationLabels...),
	}, nil
}
