// Package editor is the state owner of an open mind map.
//
// An [Editor] holds the current [mindmap.Tree], the manual position
// overrides, the view transform, the selection and any drag in progress.
// Every edit replaces the tree or override map with a new value, so values
// handed out earlier stay valid and unchanged.
//
// # Editing
//
// Structural edits delegate to the tree and keep the overrides consistent:
// [Editor.DeleteBranch] drops the override of every removed node and
// cancels a drag on any of them. Edits that do not apply (unknown IDs,
// deleting the root) report false and change nothing.
//
// # Dragging
//
// A drag is a begin/move/end lifecycle:
//
//	ed.BeginDrag("node-2", pointer)
//	ed.MoveDrag(pointer2)   // node-2 at start + (pointer2 - pointer), snapped
//	ed.EndDrag()            // one undo step
//
// [Editor.CancelDrag] restores the position the node had before the drag.
//
// # History
//
// Each committed edit records the previous state in a bounded [History].
// [Editor.Undo] and [Editor.Redo] restore tree and overrides together.
// [Editor.Load] and [Editor.Reset] start a fresh history.
package editor
