package layout

import (
	"math"
	"time"

	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/observability"
)

// DefaultLevelSpacing is the radial distance between consecutive depths.
const DefaultLevelSpacing = 220.0

// FullCircle is the angular sector owned by the root.
const FullCircle = 2 * math.Pi

// Position is the computed placement of one node.
//
// AngleStart and AngleEnd bound the sector reserved for the node and its
// descendants; they are layout metadata and not needed for drawing.
type Position struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Depth      int     `json:"depth"`
	AngleStart float64 `json:"angleStart"`
	AngleEnd   float64 `json:"angleEnd"`
}

// Angle returns the midpoint of the node's sector.
func (p Position) Angle() float64 { return (p.AngleStart + p.AngleEnd) / 2 }

// Map holds one Position per laid-out node, keyed by node ID.
type Map map[string]Position

// Option configures [Compute].
type Option func(*options)

type options struct {
	levelSpacing float64
}

// WithLevelSpacing sets the radial distance between depths. Non-positive
// values are ignored.
func WithLevelSpacing(d float64) Option {
	return func(o *options) {
		if d > 0 {
			o.levelSpacing = d
		}
	}
}

// Compute lays out nodes radially around the first node without a parent.
// It returns an empty map when there is no root.
func Compute(nodes []mindmap.Node, opts ...Option) Map {
	o := options{levelSpacing: DefaultLevelSpacing}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	out := compute(nodes, o)
	observability.Layout().OnLayout(len(nodes), len(out), time.Since(start))
	return out
}

func compute(nodes []mindmap.Node, o options) Map {
	root := -1
	for i, n := range nodes {
		if n.IsRoot() {
			root = i
			break
		}
	}
	if root < 0 {
		return Map{}
	}

	children := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		if !n.IsRoot() {
			children[n.ParentID] = append(children[n.ParentID], n.ID)
		}
	}

	rootID := nodes[root].ID
	out := make(Map, len(nodes))
	out[rootID] = Position{AngleStart: 0, AngleEnd: FullCircle}

	w := walker{children: children, spacing: o.levelSpacing, out: out}
	w.place(rootID, 0, FullCircle, 1)
	return out
}

type walker struct {
	children map[string][]string
	spacing  float64
	out      Map
}

// place positions the children of parent inside [start, end) at depth and
// recurses into each of them. Recursion depth equals tree depth.
func (w *walker) place(parent string, start, end float64, depth int) {
	kids := w.children[parent]
	n := len(kids)
	if n == 0 {
		return
	}
	span := end - start
	radius := float64(depth) * w.spacing
	for i, id := range kids {
		if _, done := w.out[id]; done {
			continue // duplicate ID; the first occurrence wins
		}
		s := start + span*float64(i)/float64(n)
		e := start + span*float64(i+1)/float64(n)
		angle := (s + e) / 2
		w.out[id] = Position{
			X:          radius * math.Cos(angle),
			Y:          radius * math.Sin(angle),
			Depth:      depth,
			AngleStart: s,
			AngleEnd:   e,
		}
		w.place(id, s, e, depth+1)
	}
}

// Bounds returns the axis-aligned bounding box of all positions. It
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
