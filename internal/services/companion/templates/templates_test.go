package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/louisbranch/dualidade/internal/character"
	"github.com/louisbranch/dualidade/internal/notes"
)

func render(t *testing.T, view PageView) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Page(view).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func baseView(tab Tab) PageView {
	return PageView{
		Lang:   "en-US",
		Tab:    tab,
		Sheet:  character.Default(),
		Notes:  notes.Default(),
		Faces:  []int{4, 6, 8, 10, 12, 20},
		Logics: []string{"sum", "keepHighest", "keepLowest"},
		Roller: RollerView{
			State:    "idle",
			Display:  DisplayView{Hope: 1, Fear: 1, Rolls: []int{1}},
			Settings: SettingsView{DieType: 20, DiceCount: 1, RollLogic: "sum"},
		},
	}
}

func TestParseTab(t *testing.T) {
	if got := ParseTab("notes"); got != TabNotes {
		t.Fatalf("ParseTab(notes) = %q", got)
	}
	if got := ParseTab("nope"); got != TabDuality {
		t.Fatalf("ParseTab(nope) = %q, want duality", got)
	}
}

func TestPageEscapesSheetValues(t *testing.T) {
	view := baseView(TabSheet)
	view.Sheet.Name = `<script>alert(1)</script>`
	out := render(t, view)
	if strings.Contains(out, "<script>alert(1)") {
		t.Fatal("expected sheet name to be escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("expected escaped name in output")
	}
}

func TestRollerPanelShowsOutcome(t *testing.T) {
	view := baseView(TabDuality)
	last := &RollView{Mode: "duality", Total: 12, HopeValue: 7, FearValue: 5, Outcome: "hope", OutcomeLabel: "Hope", OutcomeDetail: "Gain a Hope."}
	view.Roller.Last = last
	view.Roller.LastDuality = last
	view.Roller.History = []RollView{*last}
	out := render(t, view)
	for _, want := range []string{`data-outcome="hope"`, "Gain a Hope.", "7 / 5", `<strong>12</strong>`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
}

func TestRollerPanelDisablesButtonWhileRolling(t *testing.T) {
	view := baseView(TabStandard)
	view.Roller.Rolling = true
	view.Roller.State = "rolling"
	view.Roller.LastStandard = &RollView{Mode: "standard", Total: 3}
	out := render(t, view)
	if !strings.Contains(out, `<button type="submit" disabled>`) {
		t.Fatal("expected disabled roll button")
	}
	if strings.Contains(out, `class="result"`) {
		t.Fatal("expected no result card while rolling")
	}
}

func TestPoolFormHasCountSteps(t *testing.T) {
	out := render(t, baseView(TabStandard))
	for _, want := range []string{`hx-put="/roll/settings"`, `hx-vals="{&#34;step&#34;:&#34;inc&#34;}"`, `hx-vals="{&#34;step&#34;:&#34;dec&#34;}"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in pool form", want)
		}
	}
}

func TestHistoryEmpty(t *testing.T) {
	out := render(t, baseView(TabDuality))
	if !strings.Contains(out, `class="empty"`) {
		t.Fatal("expected empty history marker")
	}
}

func TestNotesPanelWritesContent(t *testing.T) {
	view := baseView(TabNotes)
	view.Notes = notes.Notes{Content: "<b>bold</b>", FontSize: 18}
	out := render(t, view)
	if !strings.Contains(out, "<b>bold</b>") || !strings.Contains(out, "font-size: 18px") {
		t.Fatal("expected notes content and font size")
	}
}

func TestInventoryGroupsByType(t *testing.T) {
	view := baseView(TabInventory)
	view.Sheet.Inventory = []character.InventoryItem{
		{ID: "a", Type: character.ItemWeaponMain, Name: "Sword", Damage: "d8"},
		{ID: "b", Type: character.ItemGeneral, Name: "Rope"},
	}
	out := render(t, view)
	if !strings.Contains(out, `hx-put="/character/inventory/a"`) || !strings.Contains(out, `value="d8"`) {
		t.Fatal("expected weapon form with damage")
	}
}

func TestTFallsBackToKey(t *testing.T) {
	if got := T(nil, "roller.total"); got != "roller.total" {
		t.Fatalf("T = %q", got)
	}
}
