// Package resolve merges computed layout positions with manual overrides.
//
// A node's final placement follows four rules:
//
//	layout + override  → layout metadata, override coordinates (Manual)
//	layout only        → layout position unchanged
//	override only      → override coordinates, no metadata (!HasLayout)
//	neither            → no placement
//
// Overrides are a sparse map of node ID to [Point]. Every helper on
// [Overrides] returns a new map, so a value handed to a consumer never changes
// underneath it.
package resolve
