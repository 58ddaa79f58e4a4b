package resolve

import (
	"testing"

	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/mindmap"
)

func TestResolvePrecedence(t *testing.T) {
	nodes := []mindmap.Node{
		{ID: "root"},
		{ID: "a", ParentID: "root"},
		{ID: "b", ParentID: "root"},
		{ID: "orphan", ParentID: "ghost"},
		{ID: "lost", ParentID: "ghost"},
	}
	positions := layout.Compute(nodes)
	overrides := Overrides{
		"a":      {X: 500, Y: -40},
		"orphan": {X: 7, Y: 8},
		"gone":   {X: 1, Y: 1},
	}

	got := Resolve(nodes, positions, overrides)

	t.Run("layout and override", func(t *testing.T) {
		p := got["a"]
		if p.X != 500 || p.Y != -40 {
			t.Errorf("a = (%v, %v), want (500, -40)", p.X, p.Y)
		}
		if !p.HasLayout || !p.Manual {
			t.Errorf("a HasLayout=%v Manual=%v, want true/true", p.HasLayout, p.Manual)
		}
		want := positions["a"]
		if p.Depth != want.Depth || p.AngleStart != want.AngleStart || p.AngleEnd != want.AngleEnd {
			t.Errorf("a metadata = %+v, want layout metadata %+v", p.Position, want)
		}
	})

	t.Run("layout only", func(t *testing.T) {
		p := got["b"]
		if p.Position != positions["b"] || !p.HasLayout || p.Manual {
			t.Errorf("b = %+v, want layout position %+v", p, positions["b"])
		}
	})

	t.Run("override only", func(t *testing.T) {
		p, ok := got["orphan"]
		if !ok {
			t.Fatal("orphan with override should be placed")
		}
		if p.X != 7 || p.Y != 8 || p.HasLayout || !p.Manual {
			t.Errorf("orphan = %+v", p)
		}
		if p.Depth != 0 || p.AngleStart != 0 || p.AngleEnd != 0 {
			t.Errorf("orphan should carry no layout metadata, got %+v", p.Position)
		}
	})

	t.Run("neither", func(t *testing.T) {
		if _, ok := got["lost"]; ok {
			t.Error("lost has neither layout nor override and should be absent")
		}
	})

	t.Run("unknown override ignored", func(t *testing.T) {
		if _, ok := got["gone"]; ok {
			t.Error("override for an id outside the collection should be ignored")
		}
	})

	if len(got) != 4 {
		t.Errorf("len = %d, want 4", len(got))
	}
}

func TestResolveAfterDelete(t *testing.T) {
	tree := mindmap.Seed()
	tree, child, _ := tree.AddChild("node-1")
	overrides := Overrides{}.Set(child, Point{X: 1, Y: 2}).Set("node-1", Point{X: 3, Y: 4})

	tree, deleted, ok := tree.DeleteBranch("node-1")
	if !ok {
		t.Fatal("DeleteBranch failed")
	}
	overrides = overrides.Delete(deleted...)
	if len(overrides) != 0 {
		t.Errorf("overrides after delete = %v, want empty", overrides)
	}

	got := Resolve(tree.Nodes(), layout.Compute(tree.Nodes()), overrides)
	for _, id := range deleted {
		if _, ok := got[id]; ok {
			t.Errorf("%s should not be resolved after deletion", id)
		}
	}
}

func TestOverridesCopyOnWrite(t *testing.T) {
	base := Overrides{"a": {X: 1, Y: 1}}

	set := base.Set("b", Point{X: 2, Y: 2})
	if _, ok := base["b"]; ok {
		t.Error("Set modified the receiver")
	}
	if len(set) != 2 {
		t.Errorf("Set len = %d, want 2", len(set))
	}

	del := set.Delete("a", "missing")
	if _, ok := set["a"]; !ok {
		t.Error("Delete modified the receiver")
	}
	if len(del) != 1 {
		t.Errorf("Delete len = %d, want 1", len(del))
	}

	pruned := set.Prune(func(id string) bool { return id == "b" })
	if len(pruned) != 1 || len(set) != 2 {
		t.Errorf("Prune = %v, receiver = %v", pruned, set)
	}

	var nilMap Overrides
	if c := nilMap.Clone(); c == nil || len(c) != 0 {
		t.Errorf("nil Clone() = %v, want empty non-nil map", c)
	}
	if s := nilMap.Set("x", Point{}); len(s) != 1 {
		t.Errorf("nil Set() = %v", s)
	}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		name string
		in   Point
		grid float64
		want Point
	}{
		{name: "no grid", in: Point{X: 13.3, Y: -7.9}, grid: 0, want: Point{X: 13.3, Y: -7.9}},
		{name: "negative grid", in: Point{X: 13.3, Y: 2}, grid: -5, want: Point{X: 13.3, Y: 2}},
		{name: "round down", in: Point{X: 12, Y: 21}, grid: 10, want: Point{X: 10, Y: 20}},
		{name: "round up", in: Point{X: 16, Y: 29}, grid: 10, want: Point{X: 20, Y: 30}},
		{name: "negative coords", in: Point{X: -16, Y: -4}, grid: 10, want: Point{X: -20, Y: 0}},
		{name: "already aligned", in: Point{X: 40, Y: -80}, grid: 20, want: Point{X: 40, Y: -80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Snap(tt.in, tt.grid)
			if got != tt.want {
				t.Errorf("Snap(%v, %v) = %v, want %v", tt.in, tt.grid, got, tt.want)
			}
		})
	}
}

func TestPointArithmetic(t *testing.T) {
	start := Point{X: 10, Y: 20}
	delta := Point{X: 15, Y: -5}.Sub(Point{X: 5, Y: 5})
	if got := start.Add(delta); got != (Point{X: 20, Y: 10}) {
		t.Errorf("start + delta = %v, want {20 10}", got)
	}
}

func TestMapBounds(t *testing.T) {
	m := Map{
		"a": {Position: layout.Position{X: -3, Y: 4}},
		"b": {Position: layout.Position{X: 9, Y: -2}},
	}
	minX, minY, maxX, maxY := m.Bounds()
	if minX != -3 || minY != -2 || maxX != 9 || maxY != 4 {
		t.Errorf("Bounds() = %v %v %v %v", minX, minY, maxX, maxY)
	}
}
