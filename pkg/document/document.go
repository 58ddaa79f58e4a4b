package document

import (
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/resolve"
)

// View is the pan and zoom state of an editor view.
type View struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Scale float64 `json:"scale" yaml:"scale"`
}

// DefaultView is the identity transform.
var DefaultView = View{Scale: 1}

// Document is the persisted state of a mind map.
type Document struct {
	Nodes           []mindmap.Node    `json:"nodes" yaml:"nodes"`
	CustomPositions resolve.Overrides `json:"customPositions" yaml:"customPositions"`
	ViewTransform   *View             `json:"viewTransform,omitempty" yaml:"viewTransform,omitempty"`

	// Title is the OPML head title. It is not part of the JSON or YAML shape.
	Title string `json:"-" yaml:"-"`

	// Skipped counts node records dropped while decoding.
	Skipped int `json:"-" yaml:"-"`
}

// New builds a document from a tree and its overrides. Overrides for IDs
// not in the tree are left out.
func New(tree mindmap.Tree, overrides resolve.Overrides, view *View) *Document {
	d := &Document{
		Nodes:           tree.Nodes(),
		CustomPositions: overrides.Prune(tree.Has),
	}
	if view != nil {
		v := *view
		d.ViewTransform = &v
	}
	return d
}

// Tree builds a tree from the document's nodes. The ID counter is seeded
// from the loaded IDs so new nodes never collide with them.
func (d *Document) Tree(prefix string) mindmap.Tree {
	return mindmap.FromNodes(d.Nodes, prefix)
}

// Overrides returns a copy of the document's overrides restricted to IDs
// present in its nodes.
func (d *Document) Overrides() resolve.Overrides {
	ids := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		ids[n.ID] = true
	}
	return d.CustomPositions.Prune(func(id string) bool { return ids[id] })
}

// View returns the document's view transform, or [DefaultView].
func (d *Document) View() View {
	if d.ViewTransform == nil {
		return DefaultView
	}
	return *d.ViewTransform
}

// normalize drops empty and duplicate node IDs, prunes overrides for
// unknown IDs and replaces nil collections with empty ones so encoders
// write [] and {} instead of null.
func (d *Document) normalize() {
	seen := make(map[string]bool, len(d.Nodes))
	kept := make([]mindmap.Node, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" || seen[n.ID] {
			d.Skipped++
			continue
		}
		seen[n.ID] = true
		kept = append(kept, n)
	}
	d.Nodes = kept
	d.CustomPositions = d.CustomPositions.Prune(func(id string) bool { return seen[id] })
	if d.ViewTransform != nil && d.ViewTransform.Scale <= 0 {
		d.ViewTransform.Scale = 1
	}
}
