// Package pkg provides the core libraries for Mindtower mind maps.
//
// # Overview
//
// Mindtower keeps a mind map as a flat list of nodes that point at their
// parent, places the nodes on concentric rings around the main idea and
// renders the result. The pkg directory is organized into three areas:
//
//  1. Model - [mindmap] (the node tree) and [document] (files on disk)
//  2. Placement - [layout] (radial positions) and [resolve] (manual overrides)
//  3. Surfaces - [editor], [render], [autosave] and [api]
//
// # Architecture
//
// The typical data flow through Mindtower:
//
//	JSON / YAML / OPML document
//	         ↓
//	    [document] package (decode, skip broken records)
//	         ↓
//	    [mindmap] package (tree queries + edits)
//	         ↓
//	    [layout] package (radial positions by depth)
//	         ↓
//	    [resolve] package (pinned positions win)
//	         ↓
//	    SVG/DOT/PNG output
//
// # Quick Start
//
// Load a document and render it to SVG:
//
//	doc, _ := document.ReadFile("trip.json")
//	tree := doc.Tree("")
//	placed := resolve.Resolve(tree.Nodes(), layout.Compute(tree.LayoutNodes()), doc.CustomPositions)
//	svg := render.SVG(tree, placed, render.WithTitle("Trip"))
//
// Edit interactively with undo:
//
//	ed := editor.New(editor.Options{})
//	id, _ := ed.AddChild("root")
//	ed.SetLabel(id, "Budget")
//	ed.Undo()
//
// # Main Packages
//
// [mindmap] - Immutable node tree with ID generation and consistency
// checks. Every edit returns a new tree.
//
// [layout] - Radial layout. Each depth sits on its own ring and each node
// splits its angular sector evenly among its children.
//
// [resolve] - Merges computed positions with manual overrides and snaps
// dragged points to a grid.
//
// [editor] - Stateful editing session: selection, drag lifecycle and bounded
// undo/redo history. Safe for concurrent use.
//
// [document] - The on-disk format in JSON, YAML or OPML.
//
// [render] - SVG output and Graphviz DOT, with PNG through go-graphviz.
//
// [autosave] - Periodic compressed snapshots of an editing session.
//
// [api] - HTTP handlers for layout, render and check.
//
// [observability] - Hooks for editor operations and HTTP requests.
//
// [errors] - Error codes shared by all packages.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//	go test -run Example        # Examples only
//
// [mindmap]: https://pkg.go.dev/github.com/matzehuels/mindtower/pkg/mindmap
// [document]: https://pkg.go.dev/github.com/matzehuels/mindtower/pkg/document
// [layout]: https://pkg.go.dev/github.com/matzehuels/mindtower/pkg/layout
// [resolve]: https://pkg.go.dev/github.com/matzehuels/mindtower/pkg/resolve
// [editor]: https://pkg.go.dev/github.com/matzehuels/mindtower/pkg/editor
// [render]: https://pkg.go.dev/github.com/matzehuels/mindtower/pkg/render
// [autosave]: https://pkg.go.dev/github.com/matzehuels/mindtower/pkg/autosave
// [api]: https://pkg.go.dev/github.com/matzehuels/mindtower/pkg/api
// [observability]: https://pkg.go.dev/github.com/matzehuels/mindtower/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/mindtower/pkg/errors
package pkg
