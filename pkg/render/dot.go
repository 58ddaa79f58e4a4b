package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/resolve"
)

// Format is an output format of the renderers.
type Format string

const (
	FormatSVG Format = "svg"
	FormatDOT Format = "dot"
	FormatPNG Format = "png"
)

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatDOT, "gv":
		return FormatDOT, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported output format: %q (use svg, dot or png)", s)
	}
}

// ToDOT converts a tree and its placements to Graphviz DOT. Every placed
// node is pinned at its coordinates (in points, y flipped to Graphviz's
// upward axis) so that neato keeps the layout as is.
func ToDOT(tree mindmap.Tree, placed resolve.Map) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"sans-serif\", fontsize=14, fontcolor=white];\n")
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=2];\n", edgeStroke)
	buf.WriteString("\n")

	nodes := tree.Nodes()
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		p, ok := placed[n.ID]
		if !ok || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		y := -p.Y
		if y == 0 {
			y = 0 // avoid "-0.00"
		}
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%.2f,%.2f!\", fillcolor=%q];\n",
			n.ID, DisplayLabel(n), p.X, y, fillFor(p))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		if n.IsRoot() {
			continue
		}
		_, okC := placed[n.ID]
		_, okP := placed[n.ParentID]
		if okC && okP {
			fmt.Fprintf(&buf, "  %q -- %q;\n", n.ParentID, n.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOT renders a DOT graph to SVG or PNG with Graphviz's neato engine.
func RenderDOT(ctx context.Context, dot string, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	case FormatDOT:
		return []byte(dot), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "graphviz cannot render %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
