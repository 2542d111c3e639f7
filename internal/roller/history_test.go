package roller

import (
	"strconv"
	"testing"

	"github.com/louisbranch/dualidade/internal/dice"
)

func resultWithID(n int) dice.RollResult {
	return dice.RollResult{ID: strconv.Itoa(n), Rolls: []int{n}}
}

func TestHistoryKeepsNewestFirst(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 2; i++ {
		h.Push(resultWithID(i))
	}
	items := h.Items()
	if len(items) != 2 || items[0].ID != "2" || items[1].ID != "1" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 7; i++ {
		h.Push(resultWithID(i))
	}
	if h.Len() != 3 || h.Cap() != 3 {
		t.Fatalf("len/cap = %d/%d, want 3/3", h.Len(), h.Cap())
	}
	items := h.Items()
	for i, want := range []string{"7", "6", "5"} {
		if items[i].ID != want {
			t.Fatalf("items[%d] = %q, want %q", i, items[i].ID, want)
		}
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(2)
	h.Push(resultWithID(1))
	h.Clear()
	if h.Len() != 0 || len(h.Items()) != 0 {
		t.Fatalf("expected empty history, got %d", h.Len())
	}
	h.Push(resultWithID(2))
	if items := h.Items(); len(items) != 1 || items[0].ID != "2" {
		t.Fatalf("unexpected items after clear: %+v", items)
	}
}

func TestHistoryItemsAreCopies(t *testing.T) {
	h := NewHistory(2)
	h.Push(resultWithID(4))
	items := h.Items()
	items[0].Rolls[0] = 99
	if got := h.Items()[0].Rolls[0]; got != 4 {
		t.Fatalf("stored roll mutated to %d", got)
	}
}

func TestNewHistoryDefaultsCapacity(t *testing.T) {
	if got := NewHistory(0).Cap(); got != HistoryCapacity {
		t.Fatalf("cap = %d, want %d", got, HistoryCapacity)
	}
}
