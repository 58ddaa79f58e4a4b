package mindmap

import "slices"

// Tree is an immutable, ordered collection of nodes.
//
// The zero value is an empty tree using [DefaultPrefix]. Edit methods return
// a new Tree; the receiver is never modified.
type Tree struct {
	nodes  []Node
	prefix string
	next   int // counter for the next generated ID
}

// New returns an empty tree that generates IDs with the given prefix.
// An empty prefix selects [DefaultPrefix].
func New(prefix string) Tree {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Tree{prefix: prefix, next: 1}
}

// Seed returns the default tree: a root with two empty-labeled children.
func Seed() Tree {
	return SeedWithPrefix(DefaultPrefix)
}

// SeedWithPrefix returns the default tree using prefix for its child IDs.
func SeedWithPrefix(prefix string) Tree {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return FromNodes([]Node{
		{ID: RootID, Label: "Main idea"},
		{ID: FormatID(prefix, 1), Label: "Idea A", ParentID: RootID},
		{ID: FormatID(prefix, 2), Label: "Idea B", ParentID: RootID},
	}, prefix)
}

// FromNodes builds a tree from externally loaded nodes, preserving their
// order. Nodes with an empty ID are dropped, as are later duplicates of an
// ID already seen. The ID counter is seeded with [NextID] so future
// [Tree.AddChild] calls never reuse an ID present in nodes.
func FromNodes(nodes []Node, prefix string) Tree {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	seen := make(map[string]bool, len(nodes))
	kept := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.ID == "" || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		kept = append(kept, n)
	}
	return Tree{nodes: kept, prefix: prefix, next: NextID(kept, prefix)}
}

// Prefix returns the ID prefix used for generated nodes.
func (t Tree) Prefix() string {
	if t.prefix == "" {
		return DefaultPrefix
	}
	return t.prefix
}

// Len returns the number of nodes.
func (t Tree) Len() int { return len(t.nodes) }

// Empty reports whether the tree has no nodes.
func (t Tree) Empty() bool { return len(t.nodes) == 0 }

// Nodes returns a copy of the node list in collection order.
func (t Tree) Nodes() []Node { return slices.Clone(t.nodes) }

// Node returns the node with the given ID.
func (t Tree) Node(id string) (Node, bool) {
	if i := t.index(id); i >= 0 {
		return t.nodes[i], true
	}
	return Node{}, false
}

// Has reports whether a node with the given ID exists.
func (t Tree) Has(id string) bool { return t.index(id) >= 0 }

// Root returns the first node without a parent.
func (t Tree) Root() (Node, bool) {
	for _, n := range t.nodes {
		if n.IsRoot() {
			return n, true
		}
	}
	return Node{}, false
}

// DisplayRoot returns the root, or the first node when the collection has
// no root (for example after a bad import). It returns false only for an
// empty tree.
func (t Tree) DisplayRoot() (Node, bool) {
	if r, ok := t.Root(); ok {
		return r, true
	}
	if len(t.nodes) == 0 {
		return Node{}, false
	}
	return t.nodes[0], true
}

// LayoutNodes returns the nodes to lay out. When the collection has no
// root, the display root is returned as one so the rest of its subtree can
// still be placed. The tree itself is not changed.
func (t Tree) LayoutNodes() []Node {
	nodes := t.Nodes()
	if _, ok := t.Root(); ok || len(nodes) == 0 {
		return nodes
	}
	nodes[0].ParentID = ""
	return nodes
}

// isDisplayRoot reports whether id is the node [Tree.DisplayRoot] returns.
func (t Tree) isDisplayRoot(id string) bool {
	r, ok := t.DisplayRoot()
	return ok && r.ID == id
}

// Children returns the direct children of id in collection order.
func (t Tree) Children(id string) []Node {
	var out []Node
	for _, n := range t.nodes {
		if n.ParentID == id && id != "" {
			out = append(out, n)
		}
	}
	return out
}

// Descendants returns the IDs of all transitive descendants of id, not
// including id itself, in collection order.
func (t Tree) Descendants(id string) []string {
	if !t.Has(id) {
		return nil
	}
	branch := t.branch(id)
	out := make([]string, 0, len(branch)-1)
	for _, n := range t.nodes {
		if n.ID != id && branch[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// Ancestors returns the parent chain of id, nearest first. The walk stops
// at the root, at a missing parent, or when a parent cycle is detected.
func (t Tree) Ancestors(id string) []string {
	n, ok := t.Node(id)
	if !ok {
		return nil
	}
	var out []string
	seen := map[string]bool{id: true}
	for !n.IsRoot() {
		if seen[n.ParentID] {
			break
		}
		p, ok := t.Node(n.ParentID)
		if !ok {
			break
		}
		seen[p.ID] = true
		out = append(out, p.ID)
		n = p
	}
	return out
}

// PendingID returns the ID the next successful [Tree.AddChild] will assign.
func (t Tree) PendingID() string {
	next := max(t.next, 1)
	for t.Has(FormatID(t.Prefix(), next)) {
		next++
	}
	return FormatID(t.Prefix(), next)
}

// SetLabel replaces the label of node id. Unknown IDs leave the tree
// unchanged and report false.
func (t Tree) SetLabel(id, text string) (Tree, bool) {
	i := t.index(id)
	if i < 0 {
		return t, false
	}
	out := t.with(slices.Clone(t.nodes))
	out.nodes[i].Label = text
	return out, true
}

// AddChild appends a new empty-labeled node under parentID and returns the
// new tree and the new node's ID. An unknown parent leaves the tree
// unchanged and reports false.
func (t Tree) AddChild(parentID string) (Tree, string, bool) {
	if parentID == "" || !t.Has(parentID) {
		return t, "", false
	}
	next := max(t.next, 1)
	for t.Has(FormatID(t.Prefix(), next)) {
		next++
	}
	id := FormatID(t.Prefix(), next)

	nodes := make([]Node, len(t.nodes), len(t.nodes)+1)
	copy(nodes, t.nodes)
	nodes = append(nodes, Node{ID: id, ParentID: parentID})

	out := t.with(nodes)
	out.next = next + 1
	return out, id, true
}

// DeleteBranch removes id and all of its transitive descendants and returns
// the removed IDs in collection order. The root, or the display root of a
// tree without one, cannot be deleted; deleting it or an unknown ID leaves
// the tree unchanged and reports false.
func (t Tree) DeleteBranch(id string) (Tree, []string, bool) {
	n, ok := t.Node(id)
	if !ok || n.IsRoot() || t.isDisplayRoot(id) {
		return t, nil, false
	}
	branch := t.branch(id)

	kept := make([]Node, 0, len(t.nodes)-len(branch))
	deleted := make([]string, 0, len(branch))
	for _, n := range t.nodes {
		if branch[n.ID] {
			deleted = append(deleted, n.ID)
			continue
		}
		kept = append(kept, n)
	}
	return t.with(kept), deleted, true
}

// MoveSibling moves node id by delta positions among its siblings, which
// changes its angular slot in the layout. The root, unknown IDs and moves
// past either end are no-ops.
func (t Tree) MoveSibling(id string, delta int) (Tree, bool) {
	n, ok := t.Node(id)
	if !ok || n.IsRoot() || delta == 0 {
		return t, false
	}
	var slots []int // collection indices of the siblings, in order
	pos := -1
	for i, s := range t.nodes {
		if s.ParentID != n.ParentID {
			continue
		}
		if s.ID == id {
			pos = len(slots)
		}
		slots = append(slots, i)
	}
	target := pos + delta
	if target < 0 || target >= len(slots) {
		return t, false
	}
	// Shift the siblings in between so their relative order is kept.
	nodes := slices.Clone(t.nodes)
	moved := nodes[slots[pos]]
	step := 1
	if delta < 0 {
		step = -1
	}
	for k := pos; k != target; k += step {
		nodes[slots[k]] = nodes[slots[k+step]]
	}
	nodes[slots[target]] = moved
	return t.with(nodes), true
}

// branch collects id and its descendants using an explicit work list, so
// arbitrarily deep trees cannot exhaust the stack.
func (t Tree) branch(id string) map[string]bool {
	children := make(map[string][]string, len(t.nodes))
	for _, n := range t.nodes {
		if !n.IsRoot() {
			children[n.ParentID] = append(children[n.ParentID], n.ID)
		}
	}

	visited := map[string]bool{id: true}
	work := []string{id}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		for _, c := range children[cur] {
			if !visited[c] {
				visited[c] = true
				work = append(work, c)
			}
		}
	}
	return visited
}

func (t Tree) index(id string) int {
	if id == "" {
		return -1
	}
	for i, n := range t.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// with returns a copy of t that uses nodes as its collection.
func (t Tree) with(nodes []Node) Tree {
	return Tree{nodes: nodes, prefix: t.prefix, next: t.next}
}
