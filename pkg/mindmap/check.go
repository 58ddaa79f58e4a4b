package mindmap

import (
	"fmt"
	"slices"
)

// IssueKind classifies a structural problem found by [Tree.Check].
type IssueKind string

const (
	// IssueNoRoot means no node lacks a parent. Consumers fall back to the
	// first node (see [Tree.DisplayRoot]); the layout positions nothing.
	IssueNoRoot IssueKind = "no_root"
	// IssueMultipleRoots means more than one node lacks a parent. Only the
	// first is laid out; the others are unreachable.
	IssueMultipleRoots IssueKind = "multiple_roots"
	// IssueDanglingParent means a node references a parent that does not
	// exist. The node and its subtree are never positioned by the layout.
	IssueDanglingParent IssueKind = "dangling_parent"
	// IssueCycle means a chain of parent references loops back on itself.
	// Nodes on the cycle are unreachable from the root.
	IssueCycle IssueKind = "cycle"
	// IssueDuplicateID means two records share an ID. [FromNodes] keeps the
	// first; raw collections passed to Check may still contain both.
	IssueDuplicateID IssueKind = "duplicate_id"
)

// Issue is a single integrity finding.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	NodeID string    `json:"node_id,omitempty"`
	Detail string    `json:"detail"`
}

func (i Issue) String() string {
	if i.NodeID == "" {
		return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
	}
	return fmt.Sprintf("%s [%s]: %s", i.Kind, i.NodeID, i.Detail)
}

// Check reports structural problems in the tree without modifying it.
// A tree built only through the edit methods from [Seed] reports nothing.
func (t Tree) Check() []Issue {
	return CheckNodes(t.nodes)
}

// CheckNodes runs the integrity checks of [Tree.Check] on a raw node list,
// which may still contain duplicate IDs.
func CheckNodes(nodes []Node) []Issue {
	var issues []Issue

	parent := make(map[string]string, len(nodes))
	for _, n := range nodes {
		if _, dup := parent[n.ID]; dup {
			issues = append(issues, Issue{Kind: IssueDuplicateID, NodeID: n.ID, Detail: "id appears more than once"})
			continue
		}
		parent[n.ID] = n.ParentID
	}

	var roots []string
	for _, n := range nodes {
		if n.IsRoot() && !slices.Contains(roots, n.ID) {
			roots = append(roots, n.ID)
		}
	}
	switch {
	case len(nodes) > 0 && len(roots) == 0:
		issues = append(issues, Issue{Kind: IssueNoRoot, Detail: "no node without a parent"})
	case len(roots) > 1:
		for _, id := range roots[1:] {
			issues = append(issues, Issue{Kind: IssueMultipleRoots, NodeID: id, Detail: fmt.Sprintf("additional root besides %q", roots[0])})
		}
	}

	for _, n := range nodes {
		if n.IsRoot() {
			continue
		}
		if _, ok := parent[n.ParentID]; !ok {
			issues = append(issues, Issue{Kind: IssueDanglingParent, NodeID: n.ID, Detail: fmt.Sprintf("parent %q does not exist", n.ParentID)})
		}
	}

	return append(issues, findCycles(nodes, parent)...)
}

// findCycles walks each parent chain once, coloring nodes as in-progress
// and done, and reports every cycle by its first member in collection order.
func findCycles(nodes []Node, parent map[string]string) []Issue {
	const (
		unvisited = iota
		active
		done
	)
	order := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, ok := order[n.ID]; !ok {
			order[n.ID] = i
		}
	}

	var issues []Issue
	state := make(map[string]int, len(nodes))
	for _, n := range nodes {
		var path []string
		cur := n.ID
		for {
			if state[cur] == done {
				break
			}
			if state[cur] == active {
				cycle := path[slices.Index(path, cur):]
				first := slices.MinFunc(cycle, func(a, b string) int { return order[a] - order[b] })
				issues = append(issues, Issue{Kind: IssueCycle, NodeID: first, Detail: fmt.Sprintf("parent chain loops through %d nodes", len(cycle))})
				break
			}
			state[cur] = active
			path = append(path, cur)
			p := parent[cur]
			if p == "" {
				break
			}
			if _, ok := parent[p]; !ok {
				break
			}
			cur = p
		}
		for _, id := range path {
			state[id] = done
		}
	}
	return issues
}
