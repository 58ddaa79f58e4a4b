// Package document reads and writes mind-map documents.
//
// # Document Shape
//
// A document holds the node collection, the sparse manual position
// overrides and an optional view transform:
//
//	{
//	  "nodes": [
//	    {"id": "root", "label": "Main idea", "parentId": null},
//	    {"id": "node-1", "label": "Idea A", "parentId": "root"}
//	  ],
//	  "customPositions": {"node-1": {"x": 120, "y": -40}},
//	  "viewTransform": {"x": 0, "y": 0, "scale": 1}
//	}
//
// The same shape is used for YAML. OPML documents carry structure and labels
// only; node IDs are generated on import and positions are not stored.
//
// # Tolerant Decoding
//
// Node records are normalized one at a time so that a single bad record
// never fails the whole import:
//
//   - A missing or non-string label becomes "" (numbers are stringified)
//   - A missing, null or empty parentId makes the node a root
//   - Numeric IDs are converted to strings
//   - Records without an ID, and later duplicates of an ID, are skipped and
//     counted in [Document.Skipped]
//   - Overrides with non-numeric coordinates or unknown node IDs are dropped
//
// Only a "nodes" value that is not an array, or input that is not a document
// at all, fails with [errors.ErrCodeInvalidDocument].
//
// A top-level array is accepted as a bare node list.
//
// # Formats
//
// [FormatFromPath] picks the format by file extension: .json, .yaml or .yml,
// and .opml. [ReadFile] and [WriteFile] use it; [Decode] and [Encode] take the
// format explicitly.
package document
