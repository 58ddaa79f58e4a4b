// Package mindmap provides the node collection of a mind map and the edit
// operations that keep it a well-formed tree.
//
// # Overview
//
// A mind map is stored as a flat, ordered list of [Node] values. Each node has
// an ID, a free-form label and the ID of its parent. Exactly one node has no
// parent: the root. The order of the list is significant, because siblings
// are laid out in the order they appear.
//
// # Immutability
//
// [Tree] is a value type. Every edit ([Tree.SetLabel], [Tree.AddChild],
// [Tree.DeleteBranch], [Tree.MoveSibling]) returns a new Tree backed by a new
// slice and leaves the receiver untouched. Holders of an older Tree (history
// stacks, autosave snapshots, renderers) can keep using it safely.
//
// Edits that would break the tree are silent no-ops: adding a child to an
// unknown parent, relabeling an unknown node and deleting the root all return
// the receiver unchanged with changed == false.
//
// # Identifiers
//
// New nodes get IDs of the form "<prefix>-<n>" (default prefix "node"). The
// counter is seeded from the highest n found in the existing IDs, see
// [NextID], so trees loaded from files never collide with new nodes:
//
//	t := mindmap.Seed()          // root, node-1, node-2
//	t, id, _ := t.AddChild("root") // id == "node-3"
//
// # Integrity
//
// Trees loaded from external data may be malformed. [Tree.Check] reports
// missing or duplicate roots, dangling parents, duplicate IDs and parent
// cycles without modifying anything.
package mindmap
