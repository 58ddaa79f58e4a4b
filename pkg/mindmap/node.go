package mindmap

import "encoding/json"

// Node is a single mind-map entry.
//
// ParentID is empty for the root. In serialized form an empty parent is
// written as null, matching the persisted document shape.
type Node struct {
	ID       string
	Label    string
	ParentID string
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool { return n.ParentID == "" }

// wireNode is the serialized form of a Node.
type wireNode struct {
	ID       string  `json:"id" yaml:"id"`
	Label    string  `json:"label" yaml:"label"`
	ParentID *string `json:"parentId" yaml:"parentId"`
}

func (n Node) wire() wireNode {
	w := wireNode{ID: n.ID, Label: n.Label}
	if n.ParentID != "" {
		parent := n.ParentID
		w.ParentID = &parent
	}
	return w
}

// MarshalJSON encodes the node as {"id","label","parentId"} with a null
// parent for the root.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.wire())
}

// UnmarshalJSON decodes the wire form. A null or missing parentId yields a
// root node.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	n.ID = w.ID
	n.Label = w.Label
	n.ParentID = ""
	if w.ParentID != nil {
		n.ParentID = *w.ParentID
	}
	return nil
}

// MarshalYAML encodes the node with the same field names as JSON.
func (n Node) MarshalYAML() (any, error) {
	return n.wire(), nil
}
