package templates

import (
	"github.com/louisbranch/dualidade/internal/character"
	"github.com/louisbranch/dualidade/internal/notes"
)

// Tab names the visible panel; values match the original mode names.
type Tab string

const (
	TabDuality   Tab = "duality"
	TabStandard  Tab = "standard"
	TabSheet     Tab = "sheet"
	TabAbilities Tab = "abilities"
	TabInventory Tab = "inventory"
	TabNotes     Tab = "notes"
)

// Tabs lists the navigation order.
var Tabs = []Tab{TabDuality, TabStandard, TabSheet, TabAbilities, TabInventory, TabNotes}

// ParseTab returns the tab named by value, defaulting to duality.
func ParseTab(value string) Tab {
	for _, t := range Tabs {
		if string(t) == value {
			return t
		}
	}
	return TabDuality
}

// RollView is one completed roll as shown in the result card, the history
// list and the JSON API.
type RollView struct {
	ID            string `json:"id"`
	Timestamp     int64  `json:"timestamp"`
	Time          string `json:"time"`
	Mode          string `json:"mode"`
	Modifier      int    `json:"modifier"`
	Total         int    `json:"total"`
	HopeValue     int    `json:"hopeValue,omitempty"`
	FearValue     int    `json:"fearValue,omitempty"`
	Outcome       string `json:"outcome,omitempty"`
	OutcomeLabel  string `json:"outcomeLabel,omitempty"`
	OutcomeDetail string `json:"outcomeDetail,omitempty"`
	DiceCount     int    `json:"diceCount,omitempty"`
	DieType       int    `json:"dieType,omitempty"`
	Rolls         []int  `json:"rolls,omitempty"`
	Used          []bool `json:"used,omitempty"`
	RollLogic     string `json:"rollLogic,omitempty"`
	LogicLabel    string `json:"rollLogicLabel,omitempty"`
}

// DisplayView is the dice currently on screen.
type DisplayView struct {
	Hope  int   `json:"hope"`
	Fear  int   `json:"fear"`
	Rolls []int `json:"rolls"`
}

// SettingsView is the roll configuration.
type SettingsView struct {
	Modifier  int    `json:"modifier"`
	DieType   int    `json:"dieType"`
	DiceCount int    `json:"diceCount"`
	RollLogic string `json:"rollLogic"`
}

// RollerView is the full roller state.
type RollerView struct {
	State        string       `json:"state"`
	Rolling      bool         `json:"rolling"`
	Mode         string       `json:"mode,omitempty"`
	Display      DisplayView  `json:"display"`
	Settings     SettingsView `json:"settings"`
	Last         *RollView    `json:"last,omitempty"`
	LastDuality  *RollView    `json:"lastDuality,omitempty"`
	LastStandard *RollView    `json:"lastStandard,omitempty"`
	History      []RollView   `json:"history"`
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Label  string
	URL    string
	Active bool
}

// PageView carries everything the page layout renders.
type PageView struct {
	Lang      string
	Title     string
	Tab       Tab
	Loc       Localizer
	Languages []LanguageOption
	Roller    RollerView
	Sheet     character.Character
	Notes     notes.Notes
	// Faces lists the die types offered by the pool form.
	Faces []int
	// Logics lists the pool aggregation labels.
	Logics []string
}
