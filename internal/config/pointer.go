package config

// DataPointer is a copyable (document, node) position with write access
type DataPointer struct {
	Data *Data
	Idx  NodeIdx
}

// NewDataPointer points at the root of d
func NewDataPointer(d *Data) DataPointer {
	return DataPointer{Data: d, Idx: d.Root()}
}

// Const narrows p to a read-only position
func (p DataPointer) Const() DataConstPointer {
	return DataConstPointer{data: p.Data, idx: p.Idx}
}

// Node returns the node p points at
func (p DataPointer) Node() *Node {
	if p.Data == nil {
		return nil
	}
	return p.Data.Node(p.Idx)
}

// DataConstPointer is a read-only (document, node) position. Format
// encoders and queries walk the tree through it.
type DataConstPointer struct {
	data *Data
	idx  NodeIdx
}

// NewDataConstPointer points at the root of d
func NewDataConstPointer(d *Data) DataConstPointer {
	return DataConstPointer{data: d, idx: d.Root()}
}

// Valid reports whether p resolves to a node
func (p DataConstPointer) Valid() bool {
	return p.data != nil && p.data.Node(p.idx) != nil
}

// Idx returns the node index
func (p DataConstPointer) Idx() NodeIdx { return p.idx }

// Source returns the owning document's source
func (p DataConstPointer) Source() string {
	if p.data == nil {
		return ""
	}
	return p.data.source
}

// Type returns the shape of the node
func (p DataConstPointer) Type() NodeType {
	return p.data.Node(p.idx).typ
}

// Name returns the diagnostic name of the node
func (p DataConstPointer) Name() string {
	if !p.Valid() {
		return ""
	}
	return p.data.Node(p.idx).name
}

// Path returns the diagnostic path of the node
func (p DataConstPointer) Path() string {
	return p.data.Path(p.idx)
}

// Keys returns the entry names of a map node in insertion order
func (p DataConstPointer) Keys() []string {
	return p.data.Keys(p.idx)
}

// Value looks up a scalar entry of a map node
func (p DataConstPointer) Value(name string) (Variant, bool) {
	return p.data.Value(p.idx, name)
}

// Child looks up a child node of a map node
func (p DataConstPointer) Child(name string) (DataConstPointer, bool) {
	idx, ok := p.data.Child(p.idx, name)
	if !ok {
		return DataConstPointer{}, false
	}
	return DataConstPointer{data: p.data, idx: idx}, true
}

// Items returns the items of an array node in order
func (p DataConstPointer) Items() []DataConstPointer {
	n := p.data.Node(p.idx)
	if n == nil || n.typ != ArrayNode {
		return nil
	}
	out := make([]DataConstPointer, len(n.items))
	for i, item := range n.items {
		out[i] = DataConstPointer{data: p.data, idx: item}
	}
	return out
}

// ItemValue returns the scalar of a value item
func (p DataConstPointer) ItemValue() (Variant, bool) {
	return p.data.Node(p.idx).ItemValue()
}

// Labels returns the owning document's label table
func (p DataConstPointer) Labels() *LabelTable {
	return p.data.labels
}

// Interface converts the subtree into map[string]any, []any and scalars.
// Map key order is lost; use Keys for ordered walks.
func (p DataConstPointer) Interface() any {
	n := p.data.Node(p.idx)
	if n == nil {
		return nil
	}
	switch n.typ {
	case ValueNode:
		return n.value.Interface()
	case ArrayNode:
		out := make([]any, 0, len(n.items))
		for _, item := range p.Items() {
			out = append(out, item.Interface())
		}
		return out
	default:
		out := make(map[string]any, len(n.keys))
		for _, l := range n.keys {
			name := p.data.LabelName(l)
			if v, ok := n.values[l]; ok {
				out[name] = v.Interface()
				continue
			}
			out[name] = DataConstPointer{data: p.data, idx: n.children[l]}.Interface()
		}
		return out
	}
}
