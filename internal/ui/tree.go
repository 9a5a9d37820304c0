package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/muurk/confdoc/internal/config"
)

// RenderTree draws the subtree at p with branch lines. rootName labels
// the top node; groups list their keys in insertion order and arrays show
// their item count and indices.
func RenderTree(p config.DataConstPointer, rootName string) string {
	if !p.Valid() {
		return ""
	}
	t := buildTree(p, nodeLabel(p, rootName))
	return t.String()
}

func buildTree(p config.DataConstPointer, label string) *tree.Tree {
	t := tree.Root(label).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(TreeEnumeratorStyle)

	switch p.Type() {
	case config.ArrayNode:
		for i, item := range p.Items() {
			index := TreeArrayStyle.Render(fmt.Sprintf("[%d]", i))
			if v, ok := item.ItemValue(); ok {
				t.Child(index + " " + RenderValue(v))
				continue
			}
			t.Child(buildTree(item, index))
		}
	default:
		for _, key := range p.Keys() {
			if v, ok := p.Value(key); ok {
				t.Child(key + ": " + RenderValue(v))
				continue
			}
			child, _ := p.Child(key)
			t.Child(buildTree(child, nodeLabel(child, key)))
		}
	}
	return t
}

func nodeLabel(p config.DataConstPointer, name string) string {
	switch p.Type() {
	case config.ArrayNode:
		return TreeArrayStyle.Render(fmt.Sprintf("%s [%d]", name, len(p.Items())))
	case config.MapNode:
		if len(p.Keys()) == 0 {
			return TreeKeyStyle.Render(name) + " {}"
		}
	}
	return TreeKeyStyle.Render(name)
}

// RenderValue colors a scalar by its kind. Strings are quoted so that
// "12" and 12 stay distinguishable.
func RenderValue(v config.Variant) string {
	switch v.Kind() {
	case config.KindString:
		return StringValueStyle.Render(fmt.Sprintf("%q", v.String()))
	case config.KindInt, config.KindFloat:
		return NumberValueStyle.Render(v.String())
	case config.KindBool:
		return BoolValueStyle.Render(v.String())
	}
	return ""
}
