package render

import (
	"bytes"
	"context"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/resolve"
)

func place(tree mindmap.Tree, overrides resolve.Overrides) resolve.Map {
	nodes := tree.Nodes()
	return resolve.Resolve(nodes, layout.Compute(nodes), overrides)
}

func testTree() mindmap.Tree {
	return mindmap.FromNodes([]mindmap.Node{
		{ID: "root", Label: "Plan <A> & B"},
		{ID: "node-1", Label: "", ParentID: "root"},
		{ID: "node-2", Label: "Second", ParentID: "root"},
		{ID: "lost", Label: "Lost", ParentID: "ghost"},
		{ID: "pinned", Label: "Pinned", ParentID: "ghost"},
	}, "")
}

func TestSVG(t *testing.T) {
	tree := testTree()
	placed := place(tree, resolve.Overrides{"pinned": {X: 400, Y: 400}})

	out := SVG(tree, placed, WithTitle("My <map>"))

	if err := xml.Unmarshal(out, new(struct{})); err != nil {
		t.Fatalf("SVG is not well-formed XML: %v\n%s", err, out)
	}

	s := string(out)
	tests := []struct {
		name   string
		substr string
		want   bool
	}{
		{"escaped label", "Plan &lt;A&gt; &amp; B", true},
		{"placeholder", ">" + Placeholder + "<", true},
		{"title", "<title>My &lt;map&gt;</title>", true},
		{"unplaced node", "Lost", false},
		{"override-only node", `id="node-pinned"`, true},
		{"override-only fill", detachedFill, true},
		{"pinned class", `class="node pinned"`, true},
		{"root fill", depthFills[0], true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strings.Contains(s, tt.substr); got != tt.want {
				t.Errorf("contains %q = %v, want %v", tt.substr, got, tt.want)
			}
		})
	}

	if n := strings.Count(s, "<line "); n != 2 {
		t.Errorf("edges = %d, want 2", n)
	}
	if n := strings.Count(s, "<rect "); n != 4 {
		t.Errorf("nodes = %d, want 4", n)
	}
}

func TestSVGViewBox(t *testing.T) {
	tree := mindmap.FromNodes([]mindmap.Node{{ID: "root"}}, "")
	out := SVG(tree, place(tree, nil), WithMargin(10), WithNodeSize(100, 20))
	if !bytes.Contains(out, []byte(`viewBox="-60.0 -20.0 120.0 40.0"`)) {
		t.Errorf("unexpected viewBox:\n%s", out)
	}
}

func TestSVGTruncatesLongLabels(t *testing.T) {
	long := strings.Repeat("é", 200)
	tree := mindmap.FromNodes([]mindmap.Node{{ID: "root", Label: long}}, "")
	out := string(SVG(tree, place(tree, nil)))
	if strings.Contains(out, long) {
		t.Error("long label should be truncated")
	}
	if !strings.Contains(out, "é…<") {
		t.Error("truncated label should end with an ellipsis")
	}
}

func TestSVGEmptyTree(t *testing.T) {
	out := SVG(mindmap.Tree{}, resolve.Map{})
	if err := xml.Unmarshal(out, new(struct{})); err != nil {
		t.Fatalf("empty SVG is not well-formed: %v", err)
	}
}

func TestToDOT(t *testing.T) {
	tree := testTree()
	placed := place(tree, resolve.Overrides{"node-2": {X: 10, Y: 20}})
	dot := ToDOT(tree, placed)

	for _, want := range []string{
		`"root" [label="Plan <A> & B", pos="0.00,0.00!"`,
		`"node-2" [label="Second", pos="10.00,-20.00!"`,
		`"node-1" [label="` + Placeholder + `"`,
		`"root" -- "node-1";`,
		`"root" -- "node-2";`,
		"layout=neato;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"lost"`) {
		t.Error("unplaced node should not appear in DOT")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "svg", want: FormatSVG},
		{in: ".PNG", want: FormatPNG},
		{in: "gv", want: FormatDOT},
		{in: "dot", want: FormatDOT},
		{in: "pdf", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderDOT(t *testing.T) {
	tree := mindmap.Seed()
	dot := ToDOT(tree, place(tree, nil))
	ctx := context.Background()

	t.Run("dot passthrough", func(t *testing.T) {
		out, err := RenderDOT(ctx, dot, FormatDOT)
		if err != nil || string(out) != dot {
			t.Errorf("RenderDOT(dot) = %q, %v", out, err)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := RenderDOT(ctx, dot, Format("pdf"))
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("error = %v, want %s", err, errors.ErrCodeUnsupported)
		}
	})

	t.Run("svg", func(t *testing.T) {
		out, err := RenderDOT(ctx, dot, FormatSVG)
		if err != nil {
			t.Fatalf("RenderDOT(svg) error = %v", err)
		}
		if !bytes.Contains(out, []byte("<svg")) || !bytes.Contains(out, []byte("Idea A")) {
			t.Errorf("unexpected SVG output:\n%s", out)
		}
	})
}
