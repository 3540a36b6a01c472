package models

// History is a bounded undo stack of match snapshots. Each entry is a deep
// value copy; restoring one can never alias the live state.
type History struct {
	stack []*MatchState
}

// NewHistory creates an empty undo stack.
func NewHistory() *History {
	return &History{stack: make([]*MatchState, 0, MaxHistory)}
}

// Push stores a snapshot of state. Beyond MaxHistory entries the oldest
// snapshot is evicted.
func (h *History) Push(state *MatchState) {
	h.stack = append(h.stack, state.Clone())
	if len(h.stack) > MaxHistory {
		h.stack = h.stack[1:]
	}
}

// Pop removes and returns the most recent snapshot, or nil when empty.
func (h *History) Pop() *MatchState {
	if len(h.stack) == 0 {
		return nil
	}
	s := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]
	return s
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return len(h.stack)
}

// Clear drops all snapshots.
func (h *History) Clear() {
	h.stack = h.stack[:0]
}
