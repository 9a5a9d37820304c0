package xmlfmt

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/muurk/confdoc/internal/config"
)

// DefaultTextKey names the value holding the character data of an element
// that also has attributes or child elements.
const DefaultTextKey = "_text"

// Options controls how elements map onto the document shape
type Options struct {
	// ArrayElements are always decoded as arrays, even when they occur once
	ArrayElements map[string]bool
	// TextKey overrides DefaultTextKey
	TextKey string
	// Attributes, when set, limits which values are encoded as attributes;
	// other values are written as text-only child elements
	Attributes map[string]bool
	// Expand rewrites an element before it is decoded
	Expand func(*Element) *Element
	// Collapse rewrites an element after it is built for encoding
	Collapse func(*Element) *Element
}

func (o Options) textKey() string {
	if o.TextKey != "" {
		return o.TextKey
	}
	return DefaultTextKey
}

// Decoder reads XML into a document. The root element becomes a group
// named after it. Attributes and text-only children become values,
// repeated children become arrays and everything else becomes a group.
type Decoder struct {
	Options Options
}

// FormatName implements the logging hook
func (Decoder) FormatName() string { return "xml" }

// Decode implements config.Decoder
func (d Decoder) Decode(raw []byte, rw *config.ReaderWriter) error {
	root, err := Parse(raw)
	if err != nil {
		return config.NewAdapterError("invalid XML", err)
	}
	if d.Options.Expand != nil {
		root = d.Options.Expand(root)
	}
	if root.IsLeaf() && root.Text != "" {
		rw.SetValue(root.Name, config.ParseScalar(root.Text))
		return nil
	}
	if !rw.WriteGroup(root.Name) {
		return nil
	}
	if err := d.Options.DecodeContent(root, rw); err != nil {
		return err
	}
	rw.EndGroup()
	return nil
}

// DecodeContent writes the attributes, text and children of el into the
// group rw is positioned on. A child element named like an attribute of
// el is an error; other shape conflicts are recorded on rw.
func (o Options) DecodeContent(el *Element, rw *config.ReaderWriter) error {
	for _, a := range el.Attrs {
		rw.SetValue(a.Name.Local, config.ParseScalar(a.Value))
	}
	if el.Text != "" && !el.IsLeaf() {
		rw.SetValue(o.textKey(), config.ParseScalar(el.Text))
	}

	var order []string
	groups := make(map[string][]*Element)
	for _, c := range el.Children {
		if o.Expand != nil {
			c = o.Expand(c)
		}
		if _, seen := groups[c.Name]; !seen {
			order = append(order, c.Name)
		}
		groups[c.Name] = append(groups[c.Name], c)
	}

	for _, name := range order {
		list := groups[name]
		if _, clash := el.Attr(name); clash {
			return config.NewAdapterError(fmt.Sprintf("line %d: attribute '%s' clashes with child element", list[0].Line, name), nil)
		}
		if len(list) > 1 || o.ArrayElements[name] {
			if !rw.WriteArray(name) {
				continue
			}
			for _, c := range list {
				rw.AddArrayItem()
				if c.IsLeaf() {
					rw.SetItemValue(config.ParseScalar(c.Text))
				} else if err := o.DecodeContent(c, rw); err != nil {
					return err
				}
				rw.EndArrayItem()
			}
			rw.EndArray()
			continue
		}
		c := list[0]
		if c.IsLeaf() {
			rw.SetValue(name, config.ParseScalar(c.Text))
			continue
		}
		if !rw.WriteGroup(name) {
			continue
		}
		if err := o.DecodeContent(c, rw); err != nil {
			return err
		}
		rw.EndGroup()
	}
	return nil
}

// Encoder writes a document as XML. A root holding a single group is
// written as that element; any other root is wrapped in Root.
type Encoder struct {
	Options Options
	// Root names the wrapping element, "config" when empty
	Root string
	// Indent defaults to two spaces
	Indent string
}

// Encode implements config.Encoder
func (e Encoder) Encode(p config.DataConstPointer) ([]byte, error) {
	if !p.Valid() {
		return nil, config.NewAdapterError("cannot encode an invalid position", nil)
	}
	if p.Type() != config.MapNode {
		return nil, config.NewAdapterError(fmt.Sprintf("cannot encode a %s as an XML element", p.Type()), nil)
	}
	var root *Element
	keys := p.Keys()
	if len(keys) == 1 && e.Root == "" {
		if child, ok := p.Child(keys[0]); ok && child.Type() == config.MapNode {
			root = e.Options.BuildElement(keys[0], child)
		}
	}
	if root == nil {
		name := e.Root
		if name == "" {
			name = "config"
		}
		root = e.Options.BuildElement(name, p)
	}

	indent := e.Indent
	if indent == "" {
		indent = "  "
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := root.Write(&buf, indent); err != nil {
		return nil, config.NewAdapterError("failed to encode XML", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// BuildElement renders the group at p as an element called name
func (o Options) BuildElement(name string, p config.DataConstPointer) *Element {
	el := &Element{Name: name}
	for _, key := range p.Keys() {
		if v, ok := p.Value(key); ok {
			if key == o.textKey() {
				el.Text = FormatScalar(v)
				continue
			}
			if o.Attributes != nil && !o.Attributes[key] {
				el.Children = append(el.Children, o.collapse(&Element{Name: key, Text: FormatScalar(v)}))
				continue
			}
			el.Attrs = append(el.Attrs, xml.Attr{Name: xml.Name{Local: key}, Value: FormatScalar(v)})
			continue
		}
		child, _ := p.Child(key)
		switch child.Type() {
		case config.ArrayNode:
			for _, item := range child.Items() {
				if v, ok := item.ItemValue(); ok {
					el.Children = append(el.Children, o.collapse(&Element{Name: key, Text: FormatScalar(v)}))
					continue
				}
				el.Children = append(el.Children, o.BuildElement(key, item))
			}
		default:
			el.Children = append(el.Children, o.BuildElement(key, child))
		}
	}
	return o.collapse(el)
}

func (o Options) collapse(el *Element) *Element {
	if o.Collapse == nil {
		return el
	}
	return o.Collapse(el)
}

// FormatScalar renders v so that ParseScalar reads back the same kind
func FormatScalar(v config.Variant) string {
	if v.Kind() != config.KindFloat {
		return v.String()
	}
	var f float64
	v.GetFloat(&f)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return v.String()
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// LoadFile loads an XML file into rw; Sync keeps using the XML decoder
func LoadFile(rw *config.ReaderWriter, path string) bool {
	return rw.LoadFromFile(path, Decoder{})
}

// ToString renders the current subtree of rw as XML. Failures are recorded
// on rw and yield an empty string.
func ToString(rw *config.ReaderWriter) string {
	out, err := Encoder{}.Encode(rw.Data().Const())
	if err != nil {
		rw.AddError(err.Error())
		return ""
	}
	return string(out)
}
