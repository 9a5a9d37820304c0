package config

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLDecoder reads YAML documents. The root must be a mapping; nested
// mappings become groups, sequences become arrays, and scalars keep their
// resolved YAML type. Merge keys (<<) are applied before explicit keys.
type YAMLDecoder struct{}

// FormatName implements the logging hook
func (YAMLDecoder) FormatName() string { return "yaml" }

// Decode implements Decoder
func (YAMLDecoder) Decode(raw []byte, rw *ReaderWriter) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return NewAdapterError("invalid YAML", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		root = root.Content[0]
	}
	root = resolveAlias(root)
	switch {
	case root.Kind == 0:
		return nil
	case root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null":
		return nil
	case root.Kind != yaml.MappingNode:
		return NewAdapterError(fmt.Sprintf("line %d: document root must be a mapping", root.Line), nil)
	}
	return decodeYAMLMapping(root, rw)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func decodeYAMLMapping(n *yaml.Node, rw *ReaderWriter) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], resolveAlias(n.Content[i+1])
		if k.ShortTag() != "!!merge" {
			continue
		}
		sources := []*yaml.Node{v}
		if v.Kind == yaml.SequenceNode {
			sources = v.Content
		}
		for _, src := range sources {
			src = resolveAlias(src)
			if src.Kind != yaml.MappingNode {
				return NewAdapterError(fmt.Sprintf("line %d: merge value must be a mapping", src.Line), nil)
			}
			if err := decodeYAMLMapping(src, rw); err != nil {
				return err
			}
		}
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], resolveAlias(n.Content[i+1])
		if k.ShortTag() == "!!merge" {
			continue
		}
		if err := decodeYAMLEntry(k.Value, v, rw); err != nil {
			return err
		}
	}
	return nil
}

func decodeYAMLEntry(key string, v *yaml.Node, rw *ReaderWriter) error {
	switch v.Kind {
	case yaml.ScalarNode:
		if variant, ok := yamlScalar(v); ok {
			rw.SetValue(key, variant)
		}
		return nil
	case yaml.MappingNode:
		if !rw.WriteGroup(key) {
			return nil
		}
		if err := decodeYAMLMapping(v, rw); err != nil {
			return err
		}
		rw.EndGroup()
		return nil
	case yaml.SequenceNode:
		if !rw.WriteArray(key) {
			return nil
		}
		for _, item := range v.Content {
			if err := decodeYAMLItem(resolveAlias(item), rw); err != nil {
				return err
			}
		}
		rw.EndArray()
		return nil
	}
	return NewAdapterError(fmt.Sprintf("line %d: unsupported node for '%s'", v.Line, key), nil)
}

func decodeYAMLItem(item *yaml.Node, rw *ReaderWriter) error {
	if item.Kind == yaml.SequenceNode {
		return NewAdapterError(fmt.Sprintf("line %d: nested sequences are not supported", item.Line), nil)
	}
	rw.AddArrayItem()
	switch item.Kind {
	case yaml.MappingNode:
		if err := decodeYAMLMapping(item, rw); err != nil {
			return err
		}
	case yaml.ScalarNode:
		if variant, ok := yamlScalar(item); ok {
			rw.SetItemValue(variant)
		}
	}
	rw.EndArrayItem()
	return nil
}

func yamlScalar(n *yaml.Node) (Variant, bool) {
	switch n.ShortTag() {
	case "!!null":
		return Variant{}, false
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return NewInt(i), true
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			return NewFloat(f), true
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return NewFloat(f), true
		}
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return NewBool(b), true
		}
	}
	return NewString(n.Value), true
}

// YAMLEncoder writes documents as YAML with two-space indentation
type YAMLEncoder struct{}

// Encode implements Encoder
func (YAMLEncoder) Encode(p DataConstPointer) ([]byte, error) { return EncodeYAML(p) }

// EncodeYAML renders the subtree at p as YAML
func EncodeYAML(p DataConstPointer) ([]byte, error) {
	if !p.Valid() {
		return nil, NewAdapterError("cannot encode an invalid position", nil)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(p)); err != nil {
		return nil, NewAdapterError("failed to encode YAML", err)
	}
	if err := enc.Close(); err != nil {
		return nil, NewAdapterError("failed to encode YAML", err)
	}
	return buf.Bytes(), nil
}

func yamlNode(p DataConstPointer) *yaml.Node {
	switch p.Type() {
	case ValueNode:
		v, _ := p.ItemValue()
		return yamlScalarNode(v)
	case ArrayNode:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range p.Items() {
			seq.Content = append(seq.Content, yamlNode(item))
		}
		return seq
	default:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range p.Keys() {
			k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
			if v, ok := p.Value(key); ok {
				m.Content = append(m.Content, k, yamlScalarNode(v))
				continue
			}
			child, _ := p.Child(key)
			m.Content = append(m.Content, k, yamlNode(child))
		}
		return m
	}
}

func yamlScalarNode(v Variant) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: v.String()}
	switch v.Kind() {
	case KindInt:
		n.Tag = "!!int"
	case KindFloat:
		n.Tag = "!!float"
		var f float64
		v.GetFloat(&f)
		n.Value = yamlFloat(f)
	case KindBool:
		n.Tag = "!!bool"
	default:
		n.Tag = "!!str"
	}
	return n
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// LoadFromYAMLFile loads a YAML file into the document
func (rw *ReaderWriter) LoadFromYAMLFile(path string) bool {
	return rw.LoadFromFile(path, YAMLDecoder{})
}

// LoadFromYAMLString loads YAML text into the document
func (rw *ReaderWriter) LoadFromYAMLString(text string) bool {
	return rw.LoadFromBytes([]byte(text), rw.data.source, YAMLDecoder{})
}

// ToYAMLString renders the current subtree as YAML. Encoding failures are
// recorded as errors and yield an empty string.
func (rw *ReaderWriter) ToYAMLString() string {
	out, err := EncodeYAML(rw.Data().Const())
	if err != nil {
		rw.AddError(messageOf(err))
		return ""
	}
	return string(out)
}
