package config

// Reader is a read-only cursor over a document. It never records errors;
// every operation reports success as a bool.
type Reader struct {
	cursor
}

// NewReader creates a reader rooted at p
func NewReader(p DataConstPointer) *Reader {
	return &Reader{cursor: newCursor(p.data, p.idx)}
}

// Read descends into the named group or array
func (r *Reader) Read(name string, opt RequiredOrOptional) bool {
	child, ok := r.childOf(name)
	if !ok {
		return false
	}
	kind := groupScope
	if r.data.Node(child).typ == ArrayNode {
		kind = arrayScope
	}
	r.push(kind, child)
	return true
}

// ReadGroup is Read
func (r *Reader) ReadGroup(name string, opt RequiredOrOptional) bool { return r.Read(name, opt) }

// ReadArray is Read
func (r *Reader) ReadArray(name string, opt RequiredOrOptional) bool { return r.Read(name, opt) }

// Enter is Read returning a scope token
func (r *Reader) Enter(name string, opt RequiredOrOptional) (*Scope, bool) {
	if !r.Read(name, opt) {
		return nil, false
	}
	f := *r.top()
	r.pop()
	return r.enter(f.kind, f.node), true
}

// End leaves the innermost scope. It returns false when no scope is open.
func (r *Reader) End() bool { return r.pop() }

// EndGroup is End
func (r *Reader) EndGroup() bool { return r.End() }

// EndArray is End
func (r *Reader) EndArray() bool { return r.End() }

// Next moves to the next item of the innermost array scope
func (r *Reader) Next() bool { return r.next() }

// NextArrayItem is Next
func (r *Reader) NextArrayItem() bool { return r.Next() }

// Value extracts the scalar name of the current group into out. The
// cursor does not move.
func (r *Reader) Value(name string, out any, opt RequiredOrOptional) bool {
	v, ok := r.value(name)
	if !ok {
		return false
	}
	return v.Get(out)
}

// ItemValue extracts the scalar of the current array item
func (r *Reader) ItemValue(out any) bool {
	n := r.node()
	if n == nil {
		return false
	}
	v, ok := n.ItemValue()
	if !ok {
		return false
	}
	return v.Get(out)
}

// Has reports whether the current group holds an entry called name
func (r *Reader) Has(name string) bool {
	if _, ok := r.childOf(name); ok {
		return true
	}
	_, ok := r.value(name)
	return ok
}

// Data snapshots the current position
func (r *Reader) Data() DataConstPointer {
	return DataConstPointer{data: r.data, idx: r.at()}
}

// Source returns the document source
func (r *Reader) Source() string { return r.data.source }
