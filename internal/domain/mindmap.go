package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
)

// RootNodeID is the id the graphical surface gives the root of every map
const RootNodeID = "me-root"

// CodeReference points a node at a snippet of source text and the line it
// started on when the link was made.
type CodeReference struct {
	FilePath    string
	TopLine     int
	SnippetText string
}

// NodeData is the code link payload carried by a node in the link store
type NodeData struct {
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
	TopLine  int    `json:"topLine"`
}

// NewNodeData builds the node payload for a file path and 1-based line
func NewNodeData(filePath string, topLine int) NodeData {
	return NodeData{
		FileName: filepath.Base(filePath),
		FilePath: filePath,
		TopLine:  topLine,
	}
}

// Reference combines the node payload with the node topic, which holds the
// snippet text that was linked.
func (d NodeData) Reference(topic string) CodeReference {
	return CodeReference{
		FilePath:    d.FilePath,
		TopLine:     d.TopLine,
		SnippetText: topic,
	}
}

// MindMapNode is a node of the link store tree. Fields the core does not
// interpret (style, tags, direction, expanded...) are kept in Extra so a
// load/save cycle does not drop them.
type MindMapNode struct {
	ID       string
	Topic    string
	Children []*MindMapNode
	Data     *NodeData
	Extra    map[string]json.RawMessage
}

var knownNodeFields = map[string]bool{"id": true, "topic": true, "children": true, "data": true}

// MarshalJSON writes the node with its preserved extra fields
func (n *MindMapNode) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Extra)+4)
	for k, v := range n.Extra {
		out[k] = v
	}
	out["id"] = n.ID
	out["topic"] = n.Topic
	children := n.Children
	if children == nil {
		children = []*MindMapNode{}
	}
	out["children"] = children
	if n.Data != nil {
		out["data"] = n.Data
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a node, keeping unknown fields in Extra
func (n *MindMapNode) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*n = MindMapNode{}
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &n.ID); err != nil {
			return fmt.Errorf("node id: %w", err)
		}
	}
	if v, ok := raw["topic"]; ok {
		if err := json.Unmarshal(v, &n.Topic); err != nil {
			return fmt.Errorf("node %s topic: %w", n.ID, err)
		}
	}
	if v, ok := raw["children"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &n.Children); err != nil {
			return fmt.Errorf("node %s children: %w", n.ID, err)
		}
		for i, c := range n.Children {
			if c == nil {
				return fmt.Errorf("node %s child %d: %w", n.ID, i, ErrNullChild)
			}
		}
	}
	if v, ok := raw["data"]; ok && !isNull(v) {
		var d NodeData
		if err := json.Unmarshal(v, &d); err != nil {
			return fmt.Errorf("node %s data: %w", n.ID, err)
		}
		n.Data = &d
	}

	for k, v := range raw {
		if knownNodeFields[k] {
			continue
		}
		if n.Extra == nil {
			n.Extra = make(map[string]json.RawMessage)
		}
		n.Extra[k] = v
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// MindMap is the serialized link store: a single root plus optional theme
type MindMap struct {
	NodeData  *MindMapNode    `json:"nodeData"`
	Theme     json.RawMessage `json:"theme,omitempty"`
	Direction *int            `json:"direction,omitempty"`
}

// Errors returned by ParseMindMap
var (
	ErrMissingRoot = errors.New("mind map has no root node")
	ErrDuplicateID = errors.New("duplicate node id")
	ErrNullChild   = errors.New("null child node")
)

// ParseMindMap decodes and validates link store data
func ParseMindMap(data []byte) (*MindMap, error) {
	var m MindMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode mind map: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the root is present and ids are unique across the tree
func (m *MindMap) Validate() error {
	if m.NodeData == nil || m.NodeData.ID == "" {
		return ErrMissingRoot
	}

	seen := make(map[string]bool)
	var err error
	m.Walk(func(n *MindMapNode, _ int) bool {
		if n.ID == "" {
			err = fmt.Errorf("node %q has no id", n.Topic)
			return false
		}
		if seen[n.ID] {
			err = fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
			return false
		}
		seen[n.ID] = true
		return true
	})
	return err
}

// Marshal serializes the map in link store format
func (m *MindMap) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Walk visits nodes depth-first, pre-order. Returning false stops the walk.
func (m *MindMap) Walk(fn func(n *MindMapNode, depth int) bool) {
	if m.NodeData == nil {
		return
	}
	walk(m.NodeData, 0, fn)
}

func walk(n *MindMapNode, depth int, fn func(*MindMapNode, int) bool) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if !walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}

// FindNode returns the node with the given id, or nil
func (m *MindMap) FindNode(id string) *MindMapNode {
	var found *MindMapNode
	m.Walk(func(n *MindMapNode, _ int) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// AddChild appends child under parentID, or under the root when parentID is
// unknown. It refuses ids that already exist in the tree.
func (m *MindMap) AddChild(parentID string, child *MindMapNode) error {
	if m.NodeData == nil {
		return ErrMissingRoot
	}
	if m.FindNode(child.ID) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateID, child.ID)
	}
	parent := m.FindNode(parentID)
	if parent == nil {
		parent = m.NodeData
	}
	parent.Children = append(parent.Children, child)
	return nil
}

// LinkedNode is a node carrying a code link
type LinkedNode struct {
	NodeID    string
	Reference CodeReference
}

// References lists every linked node in tree order
func (m *MindMap) References() []LinkedNode {
	var out []LinkedNode
	m.Walk(func(n *MindMapNode, _ int) bool {
		if n.Data != nil {
			out = append(out, LinkedNode{NodeID: n.ID, Reference: n.Data.Reference(n.Topic)})
		}
		return true
	})
	return out
}
