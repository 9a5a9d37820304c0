package config

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// errorLog is the append-only message buffer shared by a ReaderWriter and
// every ReaderWriter derived from it through LimitScope.
type errorLog struct {
	messages []string
}

// ReaderWriter is a read/write cursor over a document. Failed required
// lookups and invalid writes are accumulated rather than returned, so a
// caller can perform a batch of reads and check HasError once.
type ReaderWriter struct {
	cursor

	errs         *errorLog
	errorContext string

	// sync state, set by LoadFromFile
	filename string
	modTime  time.Time
	decoder  Decoder
}

// NewReaderWriter creates a cursor over a new empty document
func NewReaderWriter() *ReaderWriter {
	return NewReaderWriterFrom(NewDataPointer(NewData()))
}

// NewReaderWriterFrom creates a cursor rooted at p, sharing p's document
func NewReaderWriterFrom(p DataPointer) *ReaderWriter {
	return &ReaderWriter{
		cursor: newCursor(p.Data, p.Idx),
		errs:   &errorLog{},
	}
}

// Value extracts the scalar name of the current group into out. With
// Required, a miss or an unconvertible kind is recorded as an error.
func (rw *ReaderWriter) Value(name string, out any, opt RequiredOrOptional) bool {
	v, ok := rw.value(name)
	if !ok {
		if opt == Required {
			rw.AddError(fmt.Sprintf("Expected property '%s', not found.", name))
		}
		return false
	}
	if !v.Get(out) {
		if opt == Required {
			rw.AddError(fmt.Sprintf("Property '%s' has invalid type.", name))
		}
		return false
	}
	return true
}

// ItemValue extracts the scalar of the current array item
func (rw *ReaderWriter) ItemValue(out any, opt RequiredOrOptional) bool {
	n := rw.node()
	var v Variant
	ok := n != nil
	if ok {
		v, ok = n.ItemValue()
	}
	if !ok {
		if opt == Required {
			rw.AddError("Expected a value array item.")
		}
		return false
	}
	if !v.Get(out) {
		if opt == Required {
			rw.AddError("Array item has invalid type.")
		}
		return false
	}
	return true
}

func (rw *ReaderWriter) read(name string, typ NodeType, opt RequiredOrOptional) bool {
	child, ok := rw.childOf(name)
	if !ok {
		if opt == Required {
			rw.AddError(fmt.Sprintf("Expected %s '%s', not found.", typ, name))
		}
		return false
	}
	if got := rw.data.Node(child).typ; got != typ {
		if opt == Required {
			rw.AddError(fmt.Sprintf("Expected '%s' to be a %s, found %s.", name, typ, got))
		}
		return false
	}
	kind := groupScope
	if typ == ArrayNode {
		kind = arrayScope
	}
	rw.push(kind, child)
	return true
}

// ReadGroup descends into the named group
func (rw *ReaderWriter) ReadGroup(name string, opt RequiredOrOptional) bool {
	return rw.read(name, MapNode, opt)
}

// ReadArray descends into the named array; use Next to visit its items
func (rw *ReaderWriter) ReadArray(name string, opt RequiredOrOptional) bool {
	return rw.read(name, ArrayNode, opt)
}

// EnterGroup is ReadGroup returning a scope token
func (rw *ReaderWriter) EnterGroup(name string, opt RequiredOrOptional) (*Scope, bool) {
	return rw.enterRead(name, MapNode, opt)
}

// EnterArray is ReadArray returning a scope token
func (rw *ReaderWriter) EnterArray(name string, opt RequiredOrOptional) (*Scope, bool) {
	return rw.enterRead(name, ArrayNode, opt)
}

func (rw *ReaderWriter) enterRead(name string, typ NodeType, opt RequiredOrOptional) (*Scope, bool) {
	if !rw.read(name, typ, opt) {
		return nil, false
	}
	f := *rw.top()
	rw.pop()
	return rw.enter(f.kind, f.node), true
}

func (rw *ReaderWriter) endScope(kind scopeKind) bool {
	f := rw.top()
	if f == nil {
		rw.AddError(fmt.Sprintf("End of %s without an open scope.", kind))
		return false
	}
	if f.kind != kind {
		rw.AddError(fmt.Sprintf("End of %s, but the innermost scope is %s.", kind, f.kind))
		return false
	}
	return rw.pop()
}

// End leaves the innermost scope, whatever its kind
func (rw *ReaderWriter) End() bool {
	if !rw.pop() {
		rw.AddError("End without an open scope.")
		return false
	}
	return true
}

// EndGroup leaves the innermost scope, which must be a group
func (rw *ReaderWriter) EndGroup() bool { return rw.endScope(groupScope) }

// EndArray leaves the innermost scope, which must be an array
func (rw *ReaderWriter) EndArray() bool { return rw.endScope(arrayScope) }

// Next moves to the next item of the innermost array scope
func (rw *ReaderWriter) Next() bool { return rw.next() }

// NextArrayItem is Next
func (rw *ReaderWriter) NextArrayItem() bool { return rw.Next() }

func (rw *ReaderWriter) hasChild(name string, typ NodeType) bool {
	child, ok := rw.childOf(name)
	return ok && rw.data.Node(child).typ == typ
}

// HasGroup reports whether the current group holds a group called name
func (rw *ReaderWriter) HasGroup(name string) bool { return rw.hasChild(name, MapNode) }

// HasArray reports whether the current group holds an array called name
func (rw *ReaderWriter) HasArray(name string) bool { return rw.hasChild(name, ArrayNode) }

// HasValue reports whether the current group holds a scalar called name
func (rw *ReaderWriter) HasValue(name string) bool {
	_, ok := rw.value(name)
	return ok
}

// Source returns the document source
func (rw *ReaderWriter) Source() string { return rw.data.source }

func (rw *ReaderWriter) write(name string, typ NodeType) bool {
	l := rw.data.GetOrAddLabel(name)
	child, _, err := rw.data.EnsureChild(rw.at(), l, typ)
	if err != nil {
		rw.AddError(fmt.Sprintf("Cannot write %s '%s': %s", typ, name, messageOf(err)))
		return false
	}
	kind := groupScope
	if typ == ArrayNode {
		kind = arrayScope
	}
	rw.push(kind, child)
	return true
}

// WriteGroup starts writing a group, or extends it if it already exists
func (rw *ReaderWriter) WriteGroup(name string) bool { return rw.write(name, MapNode) }

// WriteArray starts writing an array, or extends it if it already exists
func (rw *ReaderWriter) WriteArray(name string) bool { return rw.write(name, ArrayNode) }

// SetValue sets the scalar name in the current group. value must be a Go
// scalar or a Variant.
func (rw *ReaderWriter) SetValue(name string, value any) bool {
	v, ok := NewVariant(value)
	if !ok {
		rw.AddError(fmt.Sprintf("Property '%s': unsupported value type %T.", name, value))
		return false
	}
	l := rw.data.GetOrAddLabel(name)
	if err := rw.data.SetValue(rw.at(), l, v); err != nil {
		rw.AddError(fmt.Sprintf("Cannot set property '%s': %s", name, messageOf(err)))
		return false
	}
	return true
}

// SetString sets a string property
func (rw *ReaderWriter) SetString(name, value string) bool { return rw.SetValue(name, NewString(value)) }

// SetInt sets an integer property
func (rw *ReaderWriter) SetInt(name string, value int64) bool { return rw.SetValue(name, NewInt(value)) }

// SetFloat sets a floating point property
func (rw *ReaderWriter) SetFloat(name string, value float64) bool {
	return rw.SetValue(name, NewFloat(value))
}

// SetBool sets a boolean property
func (rw *ReaderWriter) SetBool(name string, value bool) bool { return rw.SetValue(name, NewBool(value)) }

// AddArrayItem appends an item to the innermost array scope and enters it
func (rw *ReaderWriter) AddArrayItem() bool {
	f := rw.top()
	if f == nil || f.kind != arrayScope {
		rw.AddError("AddArrayItem outside of an array.")
		return false
	}
	item, err := rw.data.AddItem(f.node)
	if err != nil {
		rw.AddError(messageOf(err))
		return false
	}
	rw.push(itemScope, item)
	return true
}

// EndArrayItem leaves the item entered by AddArrayItem
func (rw *ReaderWriter) EndArrayItem() bool { return rw.endScope(itemScope) }

// SetItemValue makes the current array item a scalar item holding value
func (rw *ReaderWriter) SetItemValue(value any) bool {
	v, ok := NewVariant(value)
	if !ok {
		rw.AddError(fmt.Sprintf("Array item: unsupported value type %T.", value))
		return false
	}
	if err := rw.data.SetItemValue(rw.at(), v); err != nil {
		rw.AddError(fmt.Sprintf("Cannot set array item: %s", messageOf(err)))
		return false
	}
	return true
}

// SetSource sets the document source
func (rw *ReaderWriter) SetSource(source string) { rw.data.source = source }

// LimitScope returns a cursor rooted at the current node. It shares the
// document and the error buffer but cannot end above its root.
func (rw *ReaderWriter) LimitScope() *ReaderWriter {
	return &ReaderWriter{
		cursor:       newCursor(rw.data, rw.at()),
		errs:         rw.errs,
		errorContext: rw.errorContext,
	}
}

// Data snapshots the current position
func (rw *ReaderWriter) Data() DataPointer {
	return DataPointer{Data: rw.data, Idx: rw.at()}
}

// SetErrorContext prefixes subsequent error messages with context
func (rw *ReaderWriter) SetErrorContext(context string) {
	rw.errorContext = context
}

// SetShortErrorContext names the current node; paths in error messages
// use the name instead of the label.
func (rw *ReaderWriter) SetShortErrorContext(context string) {
	if n := rw.node(); n != nil {
		n.SetName(context)
	}
}

// AddError records msg together with the cursor location and source
func (rw *ReaderWriter) AddError(msg string) {
	var b strings.Builder
	if rw.errorContext != "" {
		b.WriteString(rw.errorContext)
		b.WriteString(": ")
	}
	b.WriteString(msg)
	if path := rw.Path(); path != "" {
		fmt.Fprintf(&b, " [at %s]", path)
	}
	if rw.data.source != "" {
		fmt.Fprintf(&b, " [source: %s]", rw.data.source)
	}
	rw.errs.messages = append(rw.errs.messages, b.String())
}

// HasError reports whether any error has been recorded
func (rw *ReaderWriter) HasError() bool { return len(rw.errs.messages) > 0 }

// ErrorMessage returns all recorded messages, one per line
func (rw *ReaderWriter) ErrorMessage() string { return strings.Join(rw.errs.messages, "\n") }

// Err returns the recorded messages as an error, nil when there are none
func (rw *ReaderWriter) Err() error {
	if !rw.HasError() {
		return nil
	}
	return &ConfigError{Type: ErrTypeDocument, Message: rw.ErrorMessage(), Source: rw.data.source}
}

// Errors returns a copy of the recorded messages
func (rw *ReaderWriter) Errors() []string {
	return append([]string(nil), rw.errs.messages...)
}

// ClearErrors empties the shared error buffer
func (rw *ReaderWriter) ClearErrors() { rw.errs.messages = nil }

// Print writes the YAML rendering of the current subtree to w
func (rw *ReaderWriter) Print(w io.Writer) error {
	out, err := EncodeYAML(rw.Data().Const())
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// String implements fmt.Stringer
func (rw *ReaderWriter) String() string { return rw.ToYAMLString() }

func messageOf(err error) string {
	if ce, ok := err.(*ConfigError); ok {
		return ce.Message
	}
	return err.Error()
}
