package editor

import (
	"github.com/matzehuels/mindtower/pkg/observability"
	"github.com/matzehuels/mindtower/pkg/resolve"
)

// drag tracks one begin/move/end pointer interaction on a node.
type drag struct {
	id      string
	origin  resolve.Point // node position when the drag began
	pointer resolve.Point // pointer position when the drag began

	// override held by the node before the drag, restored on cancel
	prev    resolve.Point
	hadPrev bool

	moved bool
}

// BeginDrag starts dragging node id with the pointer at pointer. A drag
// already in progress is cancelled. Nodes without any position cannot be
// dragged.
func (e *Editor) BeginDrag(id string, pointer resolve.Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelDragLocked()
	p, ok := e.placements(e.tree, e.overrides)[id]
	if !ok {
		return false
	}
	prev, hadPrev := e.overrides[id]
	e.drag = &drag{
		id:      id,
		origin:  p.Point(),
		pointer: pointer,
		prev:    prev,
		hadPrev: hadPrev,
	}
	e.selected = id
	e.logger.Debug("drag begin", "id", id, "x", p.X, "y", p.Y)
	return true
}

// MoveDrag moves the dragged node by the pointer's offset from where the
// drag began, snapped to the grid, and returns the new position. It reports
// false when no drag is active or the node no longer exists.
func (e *Editor) MoveDrag(pointer resolve.Point) (resolve.Point, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.drag
	if d == nil {
		return resolve.Point{}, false
	}
	if !e.tree.Has(d.id) {
		e.drag = nil
		return resolve.Point{}, false
	}

	p := resolve.Snap(d.origin.Add(pointer.Sub(d.pointer)), e.opts.GridSize)
	if cur, ok := e.overrides[d.id]; ok && cur == p {
		return p, true
	}
	e.overrides = e.overrides.Set(d.id, p)
	d.moved = true
	e.revision++
	return p, true
}

// EndDrag finishes the drag and records it as one undo step. It reports
// whether the node was moved.
func (e *Editor) EndDrag() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.drag
	if d == nil {
		return false
	}
	e.drag = nil
	if d.moved && e.tree.Has(d.id) {
		e.history.Record(State{Tree: e.tree, Overrides: d.restore(e.overrides)})
	}
	e.logger.Debug("drag end", "id", d.id, "moved", d.moved)
	observability.Editor().OnDrag(d.id, false)
	return d.moved
}

// CancelDrag aborts the drag and puts the node back where it was.
func (e *Editor) CancelDrag() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancelDragLocked()
}

// Dragging returns the ID of the node being dragged.
func (e *Editor) Dragging() (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.drag == nil {
		return "", false
	}
	return e.drag.id, true
}

// cancelDragLocked aborts an active drag. Callers hold the write lock.
func (e *Editor) cancelDragLocked() bool {
	d := e.drag
	if d == nil {
		return false
	}
	e.drag = nil
	if d.moved && e.tree.Has(d.id) {
		e.overrides = d.restore(e.overrides)
		e.revision++
	}
	e.logger.Debug("drag cancelled", "id", d.id)
	observability.Editor().OnDrag(d.id, true)
	return true
}

// restore returns o with the dragged node's override as it was before the
// drag.
func (d *drag) restore(o resolve.Overrides) resolve.Overrides {
	if d.hadPrev {
		return o.Set(d.id, d.prev)
	}
	return o.Delete(d.id)
}
