// Package render draws resolved mind-map positions.
//
// # Overview
//
// Renderers take a [mindmap.Tree] together with the [resolve.Map] produced
// by the position resolver and never compute positions themselves:
//
//	nodes := tree.Nodes()
//	placed := resolve.Resolve(nodes, layout.Compute(nodes), overrides)
//	svg := render.SVG(tree, placed, render.WithTitle("Plan"))
//
// # Native SVG
//
// [SVG] writes edges from each parent to its children, a rounded box per
// node filled by depth, and the label centered in the box. Empty labels are
// drawn as [Placeholder]. Nodes placed only by a manual position are drawn
// in a neutral color. The viewBox is the bounding box of all placements
// grown by the margin and half a node on every side. SVG uses the same
// coordinate system as the layout, so positive y points down.
//
// # Graphviz
//
// [ToDOT] emits a DOT graph whose nodes are pinned at their resolved
// coordinates. [RenderDOT] renders it with the neato engine of
// goccy/go-graphviz, which honors pinned positions, to SVG or PNG.
package render
