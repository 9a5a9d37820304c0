package xmlfmt

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Element is a generic XML element: a name, attributes in document order,
// child elements and the concatenated character data.
type Element struct {
	Name     string
	Attrs    []xml.Attr
	Children []*Element
	Text     string
	Line     int
}

// IsLeaf reports whether the element carries only character data
func (e *Element) IsLeaf() bool {
	return len(e.Attrs) == 0 && len(e.Children) == 0
}

// Attr returns the value of the attribute called name
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Parse reads raw into an element tree and returns the root element
func Parse(raw []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var stack []*Element
	var root *Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			line, _ := dec.InputPos()
			el := &Element{Name: t.Name.Local, Line: line}
			for _, a := range t.Attr {
				// namespace declarations carry no configuration
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				el.Attrs = append(el.Attrs, a)
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("line %d: more than one root element", line)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			top := stack[len(stack)-1]
			top.Text = strings.TrimSpace(top.Text)
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	return root, nil
}

// Write serializes e with the given indent
func (e *Element) Write(w io.Writer, indent string) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", indent)
	if err := e.encode(enc); err != nil {
		return err
	}
	return enc.Flush()
}

func (e *Element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Name}, Attr: e.Attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := c.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
