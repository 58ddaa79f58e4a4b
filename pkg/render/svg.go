package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/resolve"
)

// Placeholder is drawn for nodes with an empty label.
const Placeholder = "…"

// Default drawing sizes.
const (
	DefaultMargin     = 40.0
	DefaultNodeWidth  = 140.0
	DefaultNodeHeight = 44.0
)

const (
	fontSize     = 14.0
	fontCharWide = 0.6
	cornerRadius = 10.0
)

// depthFills cycles by depth; the root uses the first entry.
var depthFills = []string{"#2b2d42", "#4361ee", "#4cc9f0", "#80ed99", "#ffd166", "#ef476f"}

const (
	detachedFill = "#adb5bd"
	edgeStroke   = "#8d99ae"
)

// SVGOption configures [SVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margin     float64
	nodeWidth  float64
	nodeHeight float64
	title      string
}

// WithMargin sets the blank border around the drawing.
func WithMargin(m float64) SVGOption {
	return func(r *svgRenderer) {
		if m >= 0 {
			r.margin = m
		}
	}
}

// WithNodeSize sets the size of node boxes. Non-positive values are ignored.
func WithNodeSize(w, h float64) SVGOption {
	return func(r *svgRenderer) {
		if w > 0 {
			r.nodeWidth = w
		}
		if h > 0 {
			r.nodeHeight = h
		}
	}
}

// WithTitle sets the SVG <title>.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// SVG draws every placed node of tree. Nodes missing from placed are left
// out, as are edges to them.
func SVG(tree mindmap.Tree, placed resolve.Map, opts ...SVGOption) []byte {
	r := svgRenderer{margin: DefaultMargin, nodeWidth: DefaultNodeWidth, nodeHeight: DefaultNodeHeight}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY := Bounds(placed)
	padX := r.margin + r.nodeWidth/2
	padY := r.margin + r.nodeHeight/2
	vx, vy := minX-padX, minY-padY
	w, h := maxX-minX+2*padX, maxY-minY+2*padY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		vx, vy, w, h, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	buf.WriteString("  <style>text { font-family: sans-serif; font-size: 14px; }</style>\n")

	nodes := tree.Nodes()

	buf.WriteString(`  <g class="edges">` + "\n")
	for _, n := range nodes {
		if n.IsRoot() {
			continue
		}
		c, okC := placed[n.ID]
		p, okP := placed[n.ParentID]
		if !okC || !okP {
			continue
		}
		fmt.Fprintf(&buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
			p.X, p.Y, c.X, c.Y, edgeStroke)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		p, ok := placed[n.ID]
		if !ok || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		r.renderNode(&buf, n, p)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n mindmap.Node, p resolve.Placement) {
	fill := fillFor(p)
	textFill := "#ffffff"
	if p.HasLayout && p.Depth%len(depthFills) >= 3 {
		textFill = "#1b1b1b"
	}
	class := "node"
	if p.Manual {
		class += " pinned"
	}

	fmt.Fprintf(buf, `    <g class="%s" id="node-%s">`+"\n", class, escapeXML(n.ID))
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s"/>`+"\n",
		p.X-r.nodeWidth/2, p.Y-r.nodeHeight/2, r.nodeWidth, r.nodeHeight, cornerRadius, fill)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`+"\n",
		p.X, p.Y, textFill, escapeXML(r.truncate(DisplayLabel(n))))
	buf.WriteString("    </g>\n")
}

// truncate shortens s to fit the node box, counting runes.
func (r *svgRenderer) truncate(s string) string {
	maxChars := max(3, int((r.nodeWidth-2*cornerRadius)/(fontSize*fontCharWide)))
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars-1]) + "…"
}

func fillFor(p resolve.Placement) string {
	if !p.HasLayout {
		return detachedFill
	}
	return depthFills[p.Depth%len(depthFills)]
}

// DisplayLabel returns the label to draw for n.
func DisplayLabel(n mindmap.Node) string {
	if n.Label == "" {
		return Placeholder
	}
	return n.Label
}

// Bounds returns the bounding box of the placements, or zeros when empty.
func Bounds(placed resolve.Map) (minX, minY, maxX, maxY float64) {
	return placed.Bounds()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
