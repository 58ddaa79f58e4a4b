package mindmap

import (
	"fmt"
	"slices"
	"testing"
)

func ids(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func countRoots(t Tree) int {
	n := 0
	for _, node := range t.Nodes() {
		if node.IsRoot() {
			n++
		}
	}
	return n
}

func TestSeed(t *testing.T) {
	tr := Seed()
	if got, want := ids(tr.Nodes()), []string{"root", "node-1", "node-2"}; !slices.Equal(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	root, ok := tr.Root()
	if !ok || root.ID != RootID {
		t.Fatalf("Root() = %v, %v", root, ok)
	}
	if got := ids(tr.Children(RootID)); !slices.Equal(got, []string{"node-1", "node-2"}) {
		t.Errorf("children = %v", got)
	}
}

func TestSetLabel(t *testing.T) {
	tr := Seed()

	next, changed := tr.SetLabel("node-1", "Alpha")
	if !changed {
		t.Fatal("SetLabel on existing node reported no change")
	}
	n, _ := next.Node("node-1")
	if n.Label != "Alpha" {
		t.Errorf("label = %q, want Alpha", n.Label)
	}
	if orig, _ := tr.Node("node-1"); orig.Label != "Idea A" {
		t.Errorf("receiver mutated: label = %q", orig.Label)
	}

	same, changed := tr.SetLabel("missing", "x")
	if changed {
		t.Error("SetLabel on unknown id reported a change")
	}
	if !slices.Equal(same.Nodes(), tr.Nodes()) {
		t.Error("SetLabel on unknown id altered the tree")
	}
}

func TestAddChild(t *testing.T) {
	tests := []struct {
		name    string
		tree    Tree
		parent  string
		wantID  string
		wantOK  bool
		wantLen int
	}{
		{name: "SeedRoot", tree: Seed(), parent: "root", wantID: "node-3", wantOK: true, wantLen: 4},
		{name: "Nested", tree: Seed(), parent: "node-2", wantID: "node-3", wantOK: true, wantLen: 4},
		{name: "UnknownParent", tree: Seed(), parent: "nope", wantOK: false, wantLen: 3},
		{name: "EmptyParent", tree: Seed(), parent: "", wantOK: false, wantLen: 3},
		{
			name:    "SeededFromImport",
			tree:    FromNodes([]Node{{ID: "root"}, {ID: "node-7", ParentID: "root"}, {ID: "x-99", ParentID: "root"}}, ""),
			parent:  "root",
			wantID:  "node-8",
			wantOK:  true,
			wantLen: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, id, ok := tt.tree.AddChild(tt.parent)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
			if got.Len() != tt.wantLen {
				t.Errorf("len = %d, want %d", got.Len(), tt.wantLen)
			}
			if ok {
				n, _ := got.Node(id)
				if n.ParentID != tt.parent || n.Label != "" {
					t.Errorf("new node = %+v", n)
				}
			}
		})
	}
}

func TestAddChildMonotonicIDs(t *testing.T) {
	tr := FromNodes([]Node{{ID: "root"}, {ID: "node-4", ParentID: "root"}}, "")
	const k = 5
	var got []string
	for range k {
		var id string
		tr, id, _ = tr.AddChild("root")
		got = append(got, id)
	}
	want := []string{"node-5", "node-6", "node-7", "node-8", "node-9"}
	if !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestAddChildDoesNotReuseDeletedID(t *testing.T) {
	tr := Seed()
	tr, id, _ := tr.AddChild("root")
	tr, _, _ = tr.DeleteBranch(id)
	_, again, _ := tr.AddChild("root")
	if again == id {
		t.Errorf("id %q reused after delete", id)
	}
}

func TestAddChildSharesNoBackingArray(t *testing.T) {
	base := Seed()
	a, idA, _ := base.AddChild("root")
	b, idB, _ := base.AddChild("node-1")
	if idA != idB {
		t.Fatalf("siblings of the same base should get the same pending id: %q vs %q", idA, idB)
	}
	na, _ := a.Node(idA)
	nb, _ := b.Node(idB)
	if na.ParentID != "root" || nb.ParentID != "node-1" {
		t.Errorf("branches interfere: %+v / %+v", na, nb)
	}
}

func TestDeleteBranch(t *testing.T) {
	// root → a → (a1 → a11), a2 ; root → b
	tr := FromNodes([]Node{
		{ID: "root"},
		{ID: "a", ParentID: "root"},
		{ID: "b", ParentID: "root"},
		{ID: "a1", ParentID: "a"},
		{ID: "a2", ParentID: "a"},
		{ID: "a11", ParentID: "a1"},
	}, "")

	tests := []struct {
		name        string
		target      string
		wantOK      bool
		wantDeleted []string
		wantLeft    []string
	}{
		{name: "Leaf", target: "b", wantOK: true, wantDeleted: []string{"b"}, wantLeft: []string{"root", "a", "a1", "a2", "a11"}},
		{name: "Subtree", target: "a", wantOK: true, wantDeleted: []string{"a", "a1", "a2", "a11"}, wantLeft: []string{"root", "b"}},
		{name: "Inner", target: "a1", wantOK: true, wantDeleted: []string{"a1", "a11"}, wantLeft: []string{"root", "a", "b", "a2"}},
		{name: "Root", target: "root", wantOK: false, wantLeft: []string{"root", "a", "b", "a1", "a2", "a11"}},
		{name: "Unknown", target: "zzz", wantOK: false, wantLeft: []string{"root", "a", "b", "a1", "a2", "a11"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, deleted, ok := tr.DeleteBranch(tt.target)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !slices.Equal(deleted, tt.wantDeleted) {
				t.Errorf("deleted = %v, want %v", deleted, tt.wantDeleted)
			}
			if left := ids(got.Nodes()); !slices.Equal(left, tt.wantLeft) {
				t.Errorf("left = %v, want %v", left, tt.wantLeft)
			}
			for _, n := range got.Nodes() {
				if slices.Contains(deleted, n.ParentID) {
					t.Errorf("node %s still points at deleted parent %s", n.ID, n.ParentID)
				}
			}
			if countRoots(got) != 1 {
				t.Errorf("roots = %d, want 1", countRoots(got))
			}
		})
	}
}

func TestDeleteBranchDeepChain(t *testing.T) {
	const depth = 100000
	nodes := make([]Node, 0, depth+1)
	nodes = append(nodes, Node{ID: "root"})
	parent := "root"
	for i := 1; i <= depth; i++ {
		id := fmt.Sprintf("node-%d", i)
		nodes = append(nodes, Node{ID: id, ParentID: parent})
		parent = id
	}
	tr := FromNodes(nodes, "")

	got, deleted, ok := tr.DeleteBranch("node-1")
	if !ok {
		t.Fatal("DeleteBranch reported no change")
	}
	if len(deleted) != depth {
		t.Errorf("deleted %d nodes, want %d", len(deleted), depth)
	}
	if got.Len() != 1 {
		t.Errorf("len = %d, want 1", got.Len())
	}
}

func TestRootUniquenessUnderEdits(t *testing.T) {
	tr := Seed()
	ops := []func(Tree) Tree{
		func(t Tree) Tree { t, _, _ = t.AddChild("root"); return t },
		func(t Tree) Tree { t, _, _ = t.AddChild("node-1"); return t },
		func(t Tree) Tree { t, _, _ = t.AddChild("node-4"); return t },
		func(t Tree) Tree { t, _, _ = t.DeleteBranch("node-1"); return t },
		func(t Tree) Tree { t, _, _ = t.DeleteBranch("root"); return t },
		func(t Tree) Tree { t, _, _ = t.AddChild("node-2"); return t },
		func(t Tree) Tree { t, _, _ = t.DeleteBranch("node-2"); return t },
	}
	for i, op := range ops {
		tr = op(tr)
		if n := countRoots(tr); n != 1 {
			t.Fatalf("after op %d: roots = %d", i, n)
		}
		if issues := tr.Check(); len(issues) != 0 {
			t.Fatalf("after op %d: issues = %v", i, issues)
		}
	}
}

func TestDescendantsAndAncestors(t *testing.T) {
	tr := FromNodes([]Node{
		{ID: "root"},
		{ID: "a", ParentID: "root"},
		{ID: "b", ParentID: "a"},
		{ID: "c", ParentID: "b"},
	}, "")
	if got := tr.Descendants("a"); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Descendants(a) = %v", got)
	}
	if got := tr.Ancestors("c"); !slices.Equal(got, []string{"b", "a", "root"}) {
		t.Errorf("Ancestors(c) = %v", got)
	}
	if got := tr.Descendants("missing"); got != nil {
		t.Errorf("Descendants(missing) = %v, want nil", got)
	}
}

func TestMoveSibling(t *testing.T) {
	tr := FromNodes([]Node{
		{ID: "root"},
		{ID: "a", ParentID: "root"},
		{ID: "x", ParentID: "a"},
		{ID: "b", ParentID: "root"},
		{ID: "c", ParentID: "root"},
	}, "")

	tests := []struct {
		name   string
		id     string
		delta  int
		wantOK bool
		want   []string
	}{
		{name: "Forward", id: "a", delta: 1, wantOK: true, want: []string{"b", "a", "c"}},
		{name: "Backward", id: "c", delta: -1, wantOK: true, want: []string{"a", "c", "b"}},
		{name: "Jump", id: "a", delta: 2, wantOK: true, want: []string{"b", "c", "a"}},
		{name: "PastEnd", id: "c", delta: 1, wantOK: false, want: []string{"a", "b", "c"}},
		{name: "Root", id: "root", delta: 1, wantOK: false, want: []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tr.MoveSibling(tt.id, tt.delta)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if order := ids(got.Children("root")); !slices.Equal(order, tt.want) {
				t.Errorf("order = %v, want %v", order, tt.want)
			}
			if got.Len() != tr.Len() {
				t.Errorf("len changed: %d", got.Len())
			}
		})
	}
}

func TestFromNodesDropsInvalid(t *testing.T) {
	tr := FromNodes([]Node{
		{ID: "root"},
		{ID: "", Label: "no id"},
		{ID: "a", Label: "first", ParentID: "root"},
		{ID: "a", Label: "second", ParentID: "root"},
	}, "")
	if got := ids(tr.Nodes()); !slices.Equal(got, []string{"root", "a"}) {
		t.Fatalf("ids = %v", got)
	}
	if n, _ := tr.Node("a"); n.Label != "first" {
		t.Errorf("kept label = %q, want first", n.Label)
	}
}

func TestDisplayRoot(t *testing.T) {
	rootless := FromNodes([]Node{{ID: "a", ParentID: "ghost"}, {ID: "b", ParentID: "a"}}, "")
	if _, ok := rootless.Root(); ok {
		t.Fatal("Root() found a root in a rootless tree")
	}
	n, ok := rootless.DisplayRoot()
	if !ok || n.ID != "a" {
		t.Errorf("DisplayRoot() = %v, %v; want a", n, ok)
	}
	if _, ok := New("").DisplayRoot(); ok {
		t.Error("DisplayRoot() on empty tree returned ok")
	}
}

func TestLayoutNodesRootless(t *testing.T) {
	rootless := FromNodes([]Node{{ID: "a", ParentID: "ghost"}, {ID: "b", ParentID: "a"}}, "")
	nodes := rootless.LayoutNodes()
	if !nodes[0].IsRoot() || nodes[1].ParentID != "a" {
		t.Errorf("LayoutNodes() = %v, want a as root", nodes)
	}
	if n, _ := rootless.Node("a"); n.ParentID != "ghost" {
		t.Error("LayoutNodes changed the tree")
	}

	seed := Seed()
	if got := seed.LayoutNodes(); len(got) != 3 || got[0].ID != RootID || !got[0].IsRoot() {
		t.Errorf("LayoutNodes() on a rooted tree = %v", got)
	}
}

func TestDeleteBranchRefusesDisplayRoot(t *testing.T) {
	rootless := FromNodes([]Node{{ID: "a", ParentID: "ghost"}, {ID: "b", ParentID: "a"}}, "")
	same, deleted, ok := rootless.DeleteBranch("a")
	if ok || deleted != nil || same.Len() != 2 {
		t.Errorf("DeleteBranch(a) = %v, %v; len %d", deleted, ok, same.Len())
	}
	next, deleted, ok := rootless.DeleteBranch("b")
	if !ok || len(deleted) != 1 || next.Len() != 1 {
		t.Errorf("DeleteBranch(b) = %v, %v; len %d", deleted, ok, next.Len())
	}
}
