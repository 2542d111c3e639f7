package roller

import "github.com/louisbranch/dualidade/internal/dice"

// HistoryCapacity is the number of results kept in the roll log.
const HistoryCapacity = 50

// History is a fixed-capacity ring of roll results. Pushing past capacity
// overwrites the oldest entry. History is not safe for concurrent use; the
// Controller owns it under its lock.
type History struct {
	items []dice.RollResult
	head  int // index of the next write
	size  int
}

// NewHistory returns an empty ring holding up to capacity results.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = HistoryCapacity
	}
	return &History{items: make([]dice.RollResult, capacity)}
}

// Push records result as the newest entry.
func (h *History) Push(result dice.RollResult) {
	h.items[h.head] = result
	h.head = (h.head + 1) % len(h.items)
	if h.size < len(h.items) {
		h.size++
	}
}

// Items returns the stored results newest first.
func (h *History) Items() []dice.RollResult {
	out := make([]dice.RollResult, 0, h.size)
	for i := 1; i <= h.size; i++ {
		idx := (h.head - i + len(h.items)) % len(h.items)
		out = append(out, cloneResult(h.items[idx]))
	}
	return out
}

// Len reports how many results are stored.
func (h *History) Len() int {
	return h.size
}

// Cap reports the ring capacity.
func (h *History) Cap() int {
	return len(h.items)
}

// Clear drops every stored result.
func (h *History) Clear() {
	clear(h.items)
	h.head = 0
	h.size = 0
}

func cloneResult(result dice.RollResult) dice.RollResult {
	if result.Rolls != nil {
		result.Rolls = append([]int(nil), result.Rolls...)
	}
	if result.Used != nil {
		result.Used = append([]bool(nil), result.Used...)
	}
	return result
}
