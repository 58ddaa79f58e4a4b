// Package layout computes radial positions for mind-map trees.
//
// # Algorithm
//
// The root sits at the origin and owns the full circle [0, 2π). Each node
// splits its angular sector evenly among its children, in the order the
// children appear in the node collection. A child is placed at the midpoint
// of its sub-sector, at radius depth × level spacing:
//
//	child i of n in [s, e):  [s + (e-s)·i/n, s + (e-s)·(i+1)/n)
//	angle  = midpoint of the sub-sector
//	radius = depth × LevelSpacing
//	x, y   = radius·cos(angle), radius·sin(angle)
//
// The sub-sectors of a node's children tile its sector exactly, so subtrees
// never overlap angularly.
//
// # Purity
//
// [Compute] is a pure function of the node list: it keeps no state between
// calls and recomputes everything each time. Identical inputs (same IDs,
// parents and order) give identical output. Nodes that are not reachable
// from the root (dangling parents, parent cycles, extra roots) receive no
// position.
package layout
