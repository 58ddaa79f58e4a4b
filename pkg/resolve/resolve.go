package resolve

import (
	"maps"
	"math"

	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/mindmap"
)

// Point is a manually chosen node position.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{X: p.X + d.X, Y: p.Y + d.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Snap rounds p to the nearest multiple of grid on both axes. A
// non-positive grid returns p unchanged.
func Snap(p Point, grid float64) Point {
	if grid <= 0 {
		return p
	}
	return Point{
		X: math.Round(p.X/grid) * grid,
		Y: math.Round(p.Y/grid) * grid,
	}
}

// Overrides maps node IDs to manual positions.
type Overrides map[string]Point

// Clone returns an independent copy. A nil receiver yields an empty map.
func (o Overrides) Clone() Overrides {
	out := make(Overrides, len(o))
	maps.Copy(out, o)
	return out
}

// Set returns a copy of o with id placed at p.
func (o Overrides) Set(id string, p Point) Overrides {
	out := o.Clone()
	out[id] = p
	return out
}

// Delete returns a copy of o without the given IDs.
func (o Overrides) Delete(ids ...string) Overrides {
	out := o.Clone()
	for _, id := range ids {
		delete(out, id)
	}
	return out
}

// Prune returns a copy of o holding only the entries whose ID satisfies keep.
func (o Overrides) Prune(keep func(id string) bool) Overrides {
	out := make(Overrides, len(o))
	for id, p := range o {
		if keep(id) {
			out[id] = p
		}
	}
	return out
}

// Get returns the override for id.
func (o Overrides) Get(id string) (Point, bool) {
	p, ok := o[id]
	return p, ok
}

// Placement is the final position of one node.
//
// HasLayout is false for nodes placed only by an override; their depth and
// sector fields are zero. Manual is true when an override supplied X and Y.
type Placement struct {
	layout.Position
	HasLayout bool `json:"hasLayout"`
	Manual    bool `json:"manual"`
}

// Point returns the placement's coordinates.
func (p Placement) Point() Point { return Point{X: p.X, Y: p.Y} }

// Map holds one Placement per resolved node, keyed by node ID.
type Map map[string]Placement

// Resolve computes the final placement of every node in nodes. Node IDs with
// neither a layout position nor an override are absent from the result, and
// overrides for IDs not in nodes are ignored.
func Resolve(nodes []mindmap.Node, positions layout.Map, overrides Overrides) Map {
	out := make(Map, len(nodes))
	for _, n := range nodes {
		if _, done := out[n.ID]; done {
			continue
		}
		pos, hasLayout := positions[n.ID]
		ov, hasOverride := overrides[n.ID]

		switch {
		case hasLayout && hasOverride:
			pos.X, pos.Y = ov.X, ov.Y
			out[n.ID] = Placement{Position: pos, HasLayout: true, Manual: true}
		case hasLayout:
			out[n.ID] = Placement{Position: pos, HasLayout: true}
		case hasOverride:
			out[n.ID] = Placement{Position: layout.Position{X: ov.X, Y: ov.Y}, Manual: true}
		}
	}
	return out
}

// Bounds returns the axis-aligned bounding box of all placements. It
// returns zeros for an empty map.
func (m Map) Bounds() (minX, minY, maxX, maxY float64) {
	first := true
	for _, p := range m {
		if first {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			first = false
			continue
		}
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
