package config

// RequiredOrOptional marks whether a missing entry is a diagnostic
type RequiredOrOptional int

const (
	// Optional lookups fail silently
	Optional RequiredOrOptional = iota
	// Required lookups record an error on ReaderWriter when they fail
	Required
)

type scopeKind int

const (
	groupScope scopeKind = iota
	arrayScope
	itemScope
)

func (k scopeKind) String() string {
	switch k {
	case groupScope:
		return "group"
	case arrayScope:
		return "array"
	default:
		return "array item"
	}
}

// frame records one entered scope. parent is the cursor position to
// restore on end; item tracks iteration for array scopes. serial is unique
// per push so scope tokens can tell a re-entered scope from their own.
type frame struct {
	kind   scopeKind
	parent NodeIdx
	node   NodeIdx
	item   int
	serial uint64
}

// cursor is the navigation state shared by Reader and ReaderWriter
type cursor struct {
	data       *Data
	root       NodeIdx
	idx        NodeIdx
	stack      []frame
	generation uint64
	serial     uint64
}

func newCursor(d *Data, root NodeIdx) cursor {
	return cursor{data: d, root: root, idx: root, generation: d.generation}
}

// refresh drops every position taken before the document was reloaded. A
// cursor rooted at the document root restarts there; a cursor limited to a
// subtree is detached, since its subtree no longer exists, and every later
// operation on it fails.
func (c *cursor) refresh() {
	if c.generation == c.data.generation {
		return
	}
	c.generation = c.data.generation
	c.stack = nil
	if c.root != c.data.Root() {
		c.root = NoNode
	}
	c.idx = c.root
}

// at returns the current position after refresh
func (c *cursor) at() NodeIdx {
	c.refresh()
	return c.idx
}

// limited reports whether the cursor is confined below the document root
func (c *cursor) limited() bool {
	c.refresh()
	return c.root != c.data.Root()
}

func (c *cursor) node() *Node {
	return c.data.Node(c.at())
}

func (c *cursor) top() *frame {
	c.refresh()
	if len(c.stack) == 0 {
		return nil
	}
	return &c.stack[len(c.stack)-1]
}

func (c *cursor) push(kind scopeKind, node NodeIdx) {
	c.serial++
	c.stack = append(c.stack, frame{kind: kind, parent: c.idx, node: node, item: -1, serial: c.serial})
	c.idx = node
}

// pop leaves the innermost scope. With no open scope it does nothing and
// returns false, so a stray end can never climb above the cursor root.
func (c *cursor) pop() bool {
	f := c.top()
	if f == nil {
		return false
	}
	c.idx = f.parent
	c.stack = c.stack[:len(c.stack)-1]
	return true
}

// next advances the innermost array scope. On exhaustion the cursor rests
// on the array node itself; the scope stays open until end.
func (c *cursor) next() bool {
	f := c.top()
	if f == nil || f.kind != arrayScope {
		return false
	}
	arr := c.data.Node(f.node)
	if arr == nil {
		return false
	}
	if f.item+1 < len(arr.items) {
		f.item++
		c.idx = arr.items[f.item]
		return true
	}
	f.item = len(arr.items)
	c.idx = f.node
	return false
}

func (c *cursor) childOf(name string) (NodeIdx, bool) {
	n := c.node()
	if n == nil || n.typ != MapNode {
		return NoNode, false
	}
	return c.data.Child(c.idx, name)
}

func (c *cursor) value(name string) (Variant, bool) {
	return c.data.Value(c.at(), name)
}

// Depth returns the number of open scopes
func (c *cursor) Depth() int {
	c.refresh()
	return len(c.stack)
}

// Position returns the index of the node under the cursor, NoNode for a
// detached cursor
func (c *cursor) Position() NodeIdx { return c.at() }

// Path returns the diagnostic path of the node under the cursor
func (c *cursor) Path() string { return c.data.Path(c.at()) }

// Scope is the token returned by Enter methods. Closing it ends exactly the
// scope it was issued for; closing twice or out of order is rejected and
// leaves the cursor where it is.
type Scope struct {
	c      *cursor
	depth  int
	serial uint64
	closed bool
}

func (c *cursor) enter(kind scopeKind, node NodeIdx) *Scope {
	c.push(kind, node)
	return &Scope{c: c, depth: len(c.stack), serial: c.serial}
}

// Close ends the scope
func (s *Scope) Close() error {
	if s == nil || s.c == nil {
		return NewScopeError("close of nil scope")
	}
	if s.closed {
		return NewScopeError("scope already closed")
	}
	s.c.refresh()
	if len(s.c.stack) < s.depth || s.c.stack[s.depth-1].serial != s.serial {
		return NewScopeError("scope is no longer open")
	}
	if len(s.c.stack) != s.depth {
		return NewScopeError("scope closed while an inner scope is still open")
	}
	s.c.pop()
	s.closed = true
	return nil
}

// Closed reports whether Close succeeded
func (s *Scope) Closed() bool { return s.closed }

type valuer interface {
	Value(name string, out any, opt RequiredOrOptional) bool
}

// Get reads a typed value through a Reader or ReaderWriter:
//
//	id, ok := config.Get[int](rw, "id", config.Required)
func Get[T Scalar](c valuer, name string, opt RequiredOrOptional) (T, bool) {
	var out T
	ok := c.Value(name, &out, opt)
	return out, ok
}
