package app

import "venue-designer/internal/shape"

// DefaultHistoryLimit bounds the number of undo snapshots kept.
const DefaultHistoryLimit = 100

// History is a linear undo stack of shape-list snapshots.
//
// Shapes held by the store are never mutated in place (updates replace a
// shape with a modified clone), so a snapshot is a copy of the slice header
// and the entries share unchanged shapes with each other.
type History struct {
	entries [][]shape.Shape
	index   int
	limit   int
}

// NewHistory returns a history holding at most limit snapshots.
func NewHistory(limit int) *History {
	if limit < 2 {
		limit = 2
	}
	h := &History{limit: limit}
	h.Reset(nil)
	return h
}

// Reset discards every entry and starts over from snapshot.
func (h *History) Reset(snapshot []shape.Shape) {
	h.entries = [][]shape.Shape{copyList(snapshot)}
	h.index = 0
}

// Push records snapshot as the newest state, dropping any redo entries. A
// snapshot identical to the current entry is ignored. It reports whether an
// entry was added.
func (h *History) Push(snapshot []shape.Shape) bool {
	if sameList(h.entries[h.index], snapshot) {
		return false
	}
	h.entries = append(h.entries[:h.index+1], copyList(snapshot))
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.index = len(h.entries) - 1
	return true
}

// Undo steps back and returns the snapshot to restore.
func (h *History) Undo() ([]shape.Shape, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.index--
	return copyList(h.entries[h.index]), true
}

// Redo steps forward and returns the snapshot to restore.
func (h *History) Redo() ([]shape.Shape, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.index++
	return copyList(h.entries[h.index]), true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.entries) }

func copyList(s []shape.Shape) []shape.Shape {
	return append([]shape.Shape{}, s...)
}

func sameList(a, b []shape.Shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
