package config

import (
	"fmt"
	"strings"
)

// Data owns every node of one configuration tree plus its label table.
// Nodes live in an append-only arena addressed by NodeIdx; the root map is
// always index 0. Data has no internal locking: one goroutine at a time.
type Data struct {
	nodes  []*Node
	labels *LabelTable
	source string

	// generation counts tree replacements; cursors compare it to drop
	// positions into a replaced tree
	generation uint64
}

// NewData creates an empty document holding only the root map
func NewData() *Data {
	return &Data{
		nodes:  []*Node{newNode(MapNode, NoNode, -1)},
		labels: NewLabelTable(),
	}
}

// Root returns the index of the root map
func (d *Data) Root() NodeIdx { return 0 }

// Len returns the number of nodes ever created
func (d *Data) Len() int { return len(d.nodes) }

// Node returns the node at idx, or nil when idx is out of range
func (d *Data) Node(idx NodeIdx) *Node {
	if idx < 0 || int(idx) >= len(d.nodes) {
		return nil
	}
	return d.nodes[idx]
}

// Labels returns the label table
func (d *Data) Labels() *LabelTable { return d.labels }

// Source returns the origin tag (usually a file path)
func (d *Data) Source() string { return d.source }

// SetSource sets the origin tag
func (d *Data) SetSource(source string) { d.source = source }

// GetLabel looks up an interned name
func (d *Data) GetLabel(name string) (Label, bool) { return d.labels.Get(name) }

// GetOrAddLabel interns name
func (d *Data) GetOrAddLabel(name string) Label { return d.labels.GetOrAdd(name) }

// LabelName returns the string for l, or a placeholder for unknown labels
func (d *Data) LabelName(l Label) string {
	if name, ok := d.labels.Name(l); ok {
		return name
	}
	return fmt.Sprintf("<label %d>", int(l))
}

func (d *Data) addNode(typ NodeType, parent NodeIdx, label Label) NodeIdx {
	idx := NodeIdx(len(d.nodes))
	d.nodes = append(d.nodes, newNode(typ, parent, label))
	return idx
}

func (d *Data) mapNode(idx NodeIdx) (*Node, error) {
	n := d.Node(idx)
	if n == nil {
		return nil, NewMissingError(fmt.Sprintf("node %d does not exist", idx), "")
	}
	if n.typ != MapNode {
		return nil, NewMismatchError(fmt.Sprintf("expected a group, found %s", n.typ), d.Path(idx))
	}
	return n, nil
}

// Value returns the scalar stored under name in the map at idx
func (d *Data) Value(idx NodeIdx, name string) (Variant, bool) {
	l, ok := d.labels.Get(name)
	if !ok {
		return Variant{}, false
	}
	n := d.Node(idx)
	if n == nil {
		return Variant{}, false
	}
	return n.Value(l)
}

// Child returns the child registered under name in the map at idx
func (d *Data) Child(idx NodeIdx, name string) (NodeIdx, bool) {
	l, ok := d.labels.Get(name)
	if !ok {
		return NoNode, false
	}
	n := d.Node(idx)
	if n == nil {
		return NoNode, false
	}
	return n.Child(l)
}

// SetValue stores v under l in the map at idx, overwriting an existing
// scalar. A label already holding a child node is a mismatch.
func (d *Data) SetValue(idx NodeIdx, l Label, v Variant) error {
	n, err := d.mapNode(idx)
	if err != nil {
		return err
	}
	if _, isChild := n.children[l]; isChild {
		return NewMismatchError(fmt.Sprintf("'%s' holds a %s, not a value", d.LabelName(l), d.nodes[n.children[l]].typ), d.Path(idx))
	}
	if _, exists := n.values[l]; !exists {
		n.keys = append(n.keys, l)
	}
	n.values[l] = v
	return nil
}

// EnsureChild returns the child of type typ under l in the map at idx,
// creating it when absent. The bool reports whether it was created.
func (d *Data) EnsureChild(idx NodeIdx, l Label, typ NodeType) (NodeIdx, bool, error) {
	n, err := d.mapNode(idx)
	if err != nil {
		return NoNode, false, err
	}
	if child, ok := n.children[l]; ok {
		if got := d.nodes[child].typ; got != typ {
			return NoNode, false, NewMismatchError(fmt.Sprintf("'%s' is a %s, not a %s", d.LabelName(l), got, typ), d.Path(idx))
		}
		return child, false, nil
	}
	if _, isValue := n.values[l]; isValue {
		return NoNode, false, NewMismatchError(fmt.Sprintf("'%s' is a value, not a %s", d.LabelName(l), typ), d.Path(idx))
	}
	child := d.addNode(typ, idx, l)
	// d.nodes may have been reallocated; n still points at the same Node
	n.children[l] = child
	n.keys = append(n.keys, l)
	return child, true, nil
}

// AddItem appends a fresh item to the array at idx
func (d *Data) AddItem(idx NodeIdx) (NodeIdx, error) {
	n := d.Node(idx)
	if n == nil {
		return NoNode, NewMissingError(fmt.Sprintf("node %d does not exist", idx), "")
	}
	if n.typ != ArrayNode {
		return NoNode, NewMismatchError(fmt.Sprintf("expected an array, found %s", n.typ), d.Path(idx))
	}
	item := d.addNode(MapNode, idx, -1)
	n.items = append(n.items, item)
	return item, nil
}

// SetItemValue turns the array item at idx into a scalar item. Only an
// untouched item or an existing scalar item accepts a value.
func (d *Data) SetItemValue(idx NodeIdx, v Variant) error {
	n := d.Node(idx)
	if n == nil {
		return NewMissingError(fmt.Sprintf("node %d does not exist", idx), "")
	}
	parent := d.Node(n.parent)
	if parent == nil || parent.typ != ArrayNode {
		return NewMismatchError("only array items can hold a bare value", d.Path(idx))
	}
	switch {
	case n.typ == ValueNode:
	case n.empty():
		n.typ = ValueNode
		n.values = nil
		n.children = nil
		n.keys = nil
	default:
		return NewMismatchError(fmt.Sprintf("array item is a %s, not a value", n.typ), d.Path(idx))
	}
	n.value = v
	return nil
}

// Keys returns the entry names of the map at idx in insertion order
func (d *Data) Keys(idx NodeIdx) []string {
	n := d.Node(idx)
	if n == nil || n.typ != MapNode {
		return nil
	}
	out := make([]string, 0, len(n.keys))
	for _, l := range n.keys {
		out = append(out, d.LabelName(l))
	}
	return out
}

// Path renders a diagnostic location such as "robot.joints[1].name".
// Node names set via SetName replace the label segment.
func (d *Data) Path(idx NodeIdx) string {
	var segs []string
	for cur := idx; cur > 0; {
		n := d.Node(cur)
		if n == nil {
			break
		}
		parent := d.Node(n.parent)
		seg := n.name
		if seg == "" {
			if parent != nil && parent.typ == ArrayNode {
				seg = fmt.Sprintf("[%d]", indexOf(parent.items, cur))
			} else {
				seg = d.LabelName(n.label)
			}
		}
		segs = append(segs, seg)
		cur = n.parent
	}
	var b strings.Builder
	for i := len(segs) - 1; i >= 0; i-- {
		if b.Len() > 0 && !strings.HasPrefix(segs[i], "[") {
			b.WriteByte('.')
		}
		b.WriteString(segs[i])
	}
	return b.String()
}

func indexOf(items []NodeIdx, idx NodeIdx) int {
	for i, it := range items {
		if it == idx {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy sharing nothing with d
func (d *Data) Clone() *Data {
	c := &Data{
		nodes:  make([]*Node, len(d.nodes)),
		labels: d.labels.clone(),
		source: d.source,
	}
	for i, n := range d.nodes {
		c.nodes[i] = n.clone()
	}
	return c
}

// replaceWith swaps in the content of o. Holders of d observe the new tree.
func (d *Data) replaceWith(o *Data) {
	d.nodes = o.nodes
	d.labels = o.labels
	d.source = o.source
	d.generation++
}

// Generation returns the number of times the tree has been replaced by a
// load or sync
func (d *Data) Generation() uint64 { return d.generation }
