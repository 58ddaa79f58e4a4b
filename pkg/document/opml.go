package document

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/mindmap"
)

type opml struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    opmlHead `xml:"head"`
	Body    opmlBody `xml:"body"`
}

type opmlHead struct {
	Title string `xml:"title,omitempty"`
}

type opmlBody struct {
	Outlines []outline `xml:"outline"`
}

type outline struct {
	Text     string    `xml:"text,attr"`
	Outlines []outline `xml:"outline,omitempty"`
}

// DefaultTitle labels the synthetic root of an OPML import with several
// top-level outlines and no head title.
const DefaultTitle = "Main idea"

// decodeOPML converts nested outlines to a node collection in document
// order. A single top-level outline becomes the root. Several are wrapped
// in a root labeled with the head title.
func decodeOPML(r io.Reader, prefix string) (*Document, error) {
	var doc opml
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode opml")
	}

	d := &Document{Title: doc.Head.Title}
	top := doc.Body.Outlines
	if len(top) != 1 {
		title := doc.Head.Title
		if title == "" {
			title = DefaultTitle
		}
		top = []outline{{Text: title, Outlines: top}}
	}

	type frame struct {
		o      *outline
		parent string
	}
	next := 1
	stack := []frame{{o: &top[0]}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := mindmap.RootID
		if f.parent != "" {
			id = mindmap.FormatID(prefix, next)
			next++
		}
		d.Nodes = append(d.Nodes, mindmap.Node{ID: id, Label: f.o.Text, ParentID: f.parent})

		// Push in reverse so children pop in document order.
		for i := len(f.o.Outlines) - 1; i >= 0; i-- {
			stack = append(stack, frame{o: &f.o.Outlines[i], parent: id})
		}
	}
	d.normalize()
	return d, nil
}

// encodeOPML writes the tree under the document's root as nested outlines.
// Nodes outside that tree and all positions are left out.
func encodeOPML(w io.Writer, d *Document) error {
	tree := mindmap.FromNodes(d.Nodes, "")
	doc := opml{Version: "2.0"}

	if root, ok := tree.DisplayRoot(); ok {
		doc.Head.Title = root.Label
		if d.Title != "" {
			doc.Head.Title = d.Title
		}
		children := make(map[string][]mindmap.Node, tree.Len())
		for _, n := range tree.Nodes() {
			if !n.IsRoot() {
				children[n.ParentID] = append(children[n.ParentID], n)
			}
		}
		doc.Body.Outlines = []outline{buildOutline(children, root, map[string]bool{})}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func buildOutline(children map[string][]mindmap.Node, n mindmap.Node, seen map[string]bool) outline {
	seen[n.ID] = true
	o := outline{Text: n.Label}
	for _, c := range children[n.ID] {
		if seen[c.ID] {
			continue
		}
		o.Outlines = append(o.Outlines, buildOutline(children, c, seen))
	}
	return o
}
