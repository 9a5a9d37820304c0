package config

import "fmt"

// NodeIdx addresses a node inside its Data. Indices are never reused.
type NodeIdx int

// NoNode marks the absence of a node (the root's parent, unset frames)
const NoNode NodeIdx = -1

// NodeType is the fixed shape of a node
type NodeType int

const (
	// MapNode holds labeled values and labeled child nodes
	MapNode NodeType = iota
	// ArrayNode holds an ordered sequence of item nodes
	ArrayNode
	// ValueNode is an array item holding a single scalar
	ValueNode
)

// String returns the shape name used in diagnostics
func (t NodeType) String() string {
	switch t {
	case MapNode:
		return "group"
	case ArrayNode:
		return "array"
	case ValueNode:
		return "value"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Node is one element of the document tree. Which fields are populated
// depends on typ; the shape never changes after the first write, except
// that an untouched array item may still become a ValueNode.
type Node struct {
	typ    NodeType
	name   string
	parent NodeIdx
	label  Label // label under which the parent map holds this node, -1 for items

	// MapNode
	values   map[Label]Variant
	children map[Label]NodeIdx
	keys     []Label // insertion order of values and children

	// ArrayNode
	items []NodeIdx

	// ValueNode
	value Variant
}

func newNode(typ NodeType, parent NodeIdx, label Label) *Node {
	n := &Node{typ: typ, parent: parent, label: label}
	if typ == MapNode {
		n.values = make(map[Label]Variant)
		n.children = make(map[Label]NodeIdx)
	}
	return n
}

// Type returns the node shape
func (n *Node) Type() NodeType { return n.typ }

// Name returns the diagnostic name, empty when unset
func (n *Node) Name() string { return n.name }

// SetName sets the diagnostic name
func (n *Node) SetName(name string) { n.name = name }

// Parent returns the parent index, NoNode for the root
func (n *Node) Parent() NodeIdx { return n.parent }

// Value looks up a scalar entry of a map node
func (n *Node) Value(l Label) (Variant, bool) {
	if n.typ != MapNode {
		return Variant{}, false
	}
	v, ok := n.values[l]
	return v, ok
}

// Child looks up a child node of a map node
func (n *Node) Child(l Label) (NodeIdx, bool) {
	if n.typ != MapNode {
		return NoNode, false
	}
	idx, ok := n.children[l]
	return idx, ok
}

// Keys returns the labels of a map node in insertion order
func (n *Node) Keys() []Label {
	out := make([]Label, len(n.keys))
	copy(out, n.keys)
	return out
}

// Items returns the item indices of an array node
func (n *Node) Items() []NodeIdx {
	out := make([]NodeIdx, len(n.items))
	copy(out, n.items)
	return out
}

// Len returns the number of entries (map) or items (array)
func (n *Node) Len() int {
	switch n.typ {
	case MapNode:
		return len(n.keys)
	case ArrayNode:
		return len(n.items)
	}
	return 0
}

// ItemValue returns the scalar of a ValueNode
func (n *Node) ItemValue() (Variant, bool) {
	if n == nil || n.typ != ValueNode {
		return Variant{}, false
	}
	return n.value, true
}

func (n *Node) empty() bool {
	return n.typ == MapNode && len(n.keys) == 0
}

func (n *Node) clone() *Node {
	c := &Node{
		typ:    n.typ,
		name:   n.name,
		parent: n.parent,
		label:  n.label,
		value:  n.value,
	}
	if n.typ == MapNode {
		c.values = make(map[Label]Variant, len(n.values))
		for k, v := range n.values {
			c.values[k] = v
		}
		c.children = make(map[Label]NodeIdx, len(n.children))
		for k, v := range n.children {
			c.children[k] = v
		}
		c.keys = append([]Label(nil), n.keys...)
	}
	if n.typ == ArrayNode {
		c.items = append([]NodeIdx(nil), n.items...)
	}
	return c
}
