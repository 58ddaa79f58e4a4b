package editor

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindtower/pkg/document"
	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/observability"
	"github.com/matzehuels/mindtower/pkg/resolve"
)

// Editor owns the state of one open mind map.
//
// All methods are safe for concurrent use. Mutations are serialized; readers
// such as the autosaver only take a read lock. Values returned by the
// accessors are never modified afterwards.
type Editor struct {
	mu sync.RWMutex

	tree      mindmap.Tree
	overrides resolve.Overrides
	view      document.View
	selected  string
	drag      *drag
	history   *History
	revision  uint64

	opts   Options
	logger *log.Logger
}

// New returns an editor holding the seed tree.
func New(opts Options) *Editor {
	opts.SetDefaults()
	e := &Editor{
		tree:      mindmap.SeedWithPrefix(opts.IDPrefix),
		overrides: resolve.Overrides{},
		view:      document.DefaultView,
		selected:  mindmap.RootID,
		history:   NewHistory(opts.HistoryLimit),
		opts:      opts,
		logger:    opts.Logger,
	}
	return e
}

// Tree returns the current tree.
func (e *Editor) Tree() mindmap.Tree {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree
}

// Overrides returns a copy of the manual positions.
func (e *Editor) Overrides() resolve.Overrides {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.overrides.Clone()
}

// View returns the current view transform.
func (e *Editor) View() document.View {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.view
}

// SetView replaces the view transform. It is not recorded in the history.
func (e *Editor) SetView(v document.View) {
	if v.Scale <= 0 {
		v.Scale = 1
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if v != e.view {
		e.view = v
		e.revision++
	}
}

// Selected returns the ID of the selected node.
func (e *Editor) Selected() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selected
}

// Select changes the selection. Unknown IDs are ignored.
func (e *Editor) Select(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.tree.Has(id) {
		return false
	}
	e.selected = id
	return true
}

// Revision increases on every change of tree, overrides or view.
func (e *Editor) Revision() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revision
}

// Layout computes the automatic layout of the current tree.
func (e *Editor) Layout() layout.Map {
	tree := e.Tree()
	return layout.Compute(tree.LayoutNodes(), layout.WithLevelSpacing(e.opts.LevelSpacing))
}

// Positions computes the layout and merges the manual positions into it.
func (e *Editor) Positions() resolve.Map {
	e.mu.RLock()
	tree, overrides := e.tree, e.overrides
	e.mu.RUnlock()
	return e.placements(tree, overrides)
}

func (e *Editor) placements(tree mindmap.Tree, overrides resolve.Overrides) resolve.Map {
	nodes := tree.LayoutNodes()
	return resolve.Resolve(nodes, layout.Compute(nodes, layout.WithLevelSpacing(e.opts.LevelSpacing)), overrides)
}

// Snapshot returns the current state as a document.
func (e *Editor) Snapshot() *document.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	view := e.view
	return document.New(e.tree, e.overrides, &view)
}

// SetLabel replaces the label of node id.
func (e *Editor) SetLabel(id, text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, ok := e.tree.SetLabel(id, text)
	if ok {
		e.commit(next, e.overrides)
	}
	e.emit("set_label", ok, "id", id)
	return ok
}

// AddChild adds an empty node under parentID, selects it and returns its ID.
func (e *Editor) AddChild(parentID string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, id, ok := e.tree.AddChild(parentID)
	if ok {
		e.commit(next, e.overrides)
		e.selected = id
	}
	e.emit("add_child", ok, "parent", parentID, "id", id)
	return id, ok
}

// DeleteBranch removes id and its descendants. The root, or the first node
// of a tree without one, is refused. Their manual positions are
// dropped, a drag of any of them is cancelled and the selection moves to
// the parent of id when it was inside the branch.
func (e *Editor) DeleteBranch(id string) ([]string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, _ := e.tree.Node(id)
	next, deleted, ok := e.tree.DeleteBranch(id)
	if ok {
		e.commit(next, e.overrides.Delete(deleted...))
		if e.drag != nil && !next.Has(e.drag.id) {
			e.logger.Debug("drag cancelled by delete", "id", e.drag.id)
			observability.Editor().OnDrag(e.drag.id, true)
			e.drag = nil
		}
		if !next.Has(e.selected) {
			e.selected = n.ParentID
		}
	}
	e.emit("delete_branch", ok, "id", id, "deleted", len(deleted))
	return deleted, ok
}

// MoveSibling moves id by delta places among its siblings.
func (e *Editor) MoveSibling(id string, delta int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, ok := e.tree.MoveSibling(id, delta)
	if ok {
		e.commit(next, e.overrides)
	}
	e.emit("move_sibling", ok, "id", id, "delta", delta)
	return ok
}

// SetPosition pins id at p, snapped to the grid.
func (e *Editor) SetPosition(id string, p resolve.Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ok := e.tree.Has(id)
	if ok {
		e.commit(e.tree, e.overrides.Set(id, resolve.Snap(p, e.opts.GridSize)))
	}
	e.emit("set_position", ok, "id", id, "x", p.X, "y", p.Y)
	return ok
}

// ResetPosition drops the manual position of id.
func (e *Editor) ResetPosition(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.overrides[id]
	if ok {
		e.commit(e.tree, e.overrides.Delete(id))
	}
	e.emit("reset_position", ok, "id", id)
	return ok
}

// Load replaces the whole state with d. The ID counter is reseeded from the
// loaded nodes, overrides for unknown IDs are dropped and any drag and
// history are discarded. A document without nodes loads as the seed tree;
// one without a root is laid out from its first node.
func (e *Editor) Load(d *document.Document) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tree := d.Tree(e.opts.IDPrefix)
	overrides := d.Overrides()
	if tree.Empty() {
		e.logger.Warn("document has no nodes, loading seed tree")
		tree = mindmap.SeedWithPrefix(e.opts.IDPrefix)
		overrides = resolve.Overrides{}
	} else if _, ok := tree.Root(); !ok {
		e.logger.Warn("document has no root, laying out from the first node")
	}
	for _, issue := range tree.Check() {
		e.logger.Warn("document integrity", "issue", issue.String())
	}

	e.replace(tree, overrides)
	e.view = d.View()
	e.emit("load", true, "skipped", d.Skipped)
}

// Reset replaces the state with the seed tree.
func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.replace(mindmap.SeedWithPrefix(e.opts.IDPrefix), resolve.Overrides{})
	e.view = document.DefaultView
	e.emit("reset", true)
}

// Undo restores the state before the last edit.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelDragLocked()
	prev, ok := e.history.Undo(e.state())
	if ok {
		e.restore(prev)
	}
	e.emit("undo", ok)
	return ok
}

// Redo reapplies the last undone edit.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelDragLocked()
	next, ok := e.history.Redo(e.state())
	if ok {
		e.restore(next)
	}
	e.emit("redo", ok)
	return ok
}

// CanUndo reports whether [Editor.Undo] would change anything.
func (e *Editor) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanUndo()
}

// CanRedo reports whether [Editor.Redo] would change anything.
func (e *Editor) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanRedo()
}

func (e *Editor) state() State {
	return State{Tree: e.tree, Overrides: e.overrides}
}

// commit records the current state in the history and installs the new one.
// Callers hold the write lock.
func (e *Editor) commit(tree mindmap.Tree, overrides resolve.Overrides) {
	e.history.Record(e.state())
	e.tree = tree
	e.overrides = overrides
	e.revision++
}

// replace installs a new state without history. Callers hold the write lock.
func (e *Editor) replace(tree mindmap.Tree, overrides resolve.Overrides) {
	e.cancelDragLocked()
	e.history.Clear()
	e.tree = tree
	e.overrides = overrides
	e.selected = ""
	if r, ok := tree.DisplayRoot(); ok {
		e.selected = r.ID
	}
	e.revision++
}

// restore installs a state from the history. Callers hold the write lock.
func (e *Editor) restore(s State) {
	e.tree = s.Tree
	e.overrides = s.Overrides
	if !e.tree.Has(e.selected) {
		e.selected = ""
		if r, ok := e.tree.DisplayRoot(); ok {
			e.selected = r.ID
		}
	}
	e.revision++
}

func (e *Editor) emit(op string, changed bool, keyvals ...any) {
	e.logger.Debug(op, append([]any{"changed", changed, "nodes", e.tree.Len()}, keyvals...)...)
	observability.Editor().OnMutation(op, changed, e.tree.Len())
}
