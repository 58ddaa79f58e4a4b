package editor

import (
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/resolve"
)

// State is an immutable snapshot of the editable content.
type State struct {
	Tree      mindmap.Tree
	Overrides resolve.Overrides
}

// History is a bounded undo/redo log of [State] values. Because trees and
// override maps are replaced wholesale on every edit, a State is stored by
// value without copying.
//
// History is not safe for concurrent use; [Editor] guards it with its own
// lock.
type History struct {
	limit int
	undo  []State
	redo  []State
}

// NewHistory returns a history keeping at most limit undo steps. A
// non-positive limit records nothing.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Record stores before as an undo step and clears the redo log.
func (h *History) Record(before State) {
	if h.limit <= 0 {
		return
	}
	h.undo = append(h.undo, before)
	if over := len(h.undo) - h.limit; over > 0 {
		h.undo = append(h.undo[:0:0], h.undo[over:]...)
	}
	h.redo = nil
}

// Undo returns the previous state and records current for [History.Redo].
func (h *History) Undo(current State) (State, bool) {
	if len(h.undo) == 0 {
		return State{}, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return prev, true
}

// Redo returns the state most recently undone and records current for
// [History.Undo].
func (h *History) Redo(current State) (State, bool) {
	if len(h.redo) == 0 {
		return State{}, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return next, true
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Clear drops all steps.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
