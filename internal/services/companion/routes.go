package companion

import (
	"net/http"

	"golang.org/x/net/websocket"
)

const (
	routeRoot              = "/"
	routeUp                = "/up"
	routeRollDuality       = "/roll/duality"
	routeRollPool          = "/roll/pool"
	routeRollState         = "/roll/state"
	routeRollSettings      = "/roll/settings"
	routeRollHistoryClear  = "/roll/history/clear"
	routeRollWS            = "/roll/ws"
	routeCharacter         = "/character"
	routeCharacterExport   = "/character/export"
	routeCharacterImport   = "/character/import"
	routeCharacterModifier = "/character/modifier"
	routeCharacterEntries  = "/character/{kind}"
	routeCharacterEntry    = "/character/{kind}/{id}"
	routeNotes             = "/notes"
)

func registerRoutes(mux *http.ServeMux, h *handlers) {
	mux.HandleFunc(http.MethodGet+" "+routeUp, h.handleUp)
	mux.HandleFunc(http.MethodGet+" "+routeRoot, h.handlePage)

	mux.HandleFunc(http.MethodPost+" "+routeRollDuality, h.handleDualityRoll)
	mux.HandleFunc(http.MethodPost+" "+routeRollPool, h.handlePoolRoll)
	mux.HandleFunc(http.MethodGet+" "+routeRollState, h.handleRollState)
	mux.HandleFunc(http.MethodPut+" "+routeRollSettings, h.handlePoolSettings)
	mux.HandleFunc(http.MethodPost+" "+routeRollHistoryClear, h.handleClearHistory)
	mux.Handle(http.MethodGet+" "+routeRollWS, websocket.Handler(h.handleWSConn))

	mux.HandleFunc(http.MethodGet+" "+routeCharacter, h.handleGetCharacter)
	mux.HandleFunc(http.MethodPut+" "+routeCharacter, h.handlePutCharacter)
	mux.HandleFunc(http.MethodGet+" "+routeCharacterExport, h.handleExportCharacter)
	mux.HandleFunc(http.MethodPost+" "+routeCharacterImport, h.handleImportCharacter)
	mux.HandleFunc(http.MethodGet+" "+routeCharacterModifier, h.handleModifier)
	mux.HandleFunc(http.MethodPost+" "+routeCharacterEntries, h.handleAddEntry)
	mux.HandleFunc(http.MethodPut+" "+routeCharacterEntry, h.handleUpdateEntry)
	mux.HandleFunc(http.MethodDelete+" "+routeCharacterEntry, h.handleRemoveEntry)

	mux.HandleFunc(http.MethodGet+" "+routeNotes, h.handleGetNotes)
	mux.HandleFunc(http.MethodPut+" "+routeNotes, h.handlePutNotes)
}
