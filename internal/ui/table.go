package ui

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/muurk/confdoc/internal/config"
)

// LabelUsage counts how a label is used below a node
type LabelUsage struct {
	Label  config.Label
	Name   string
	Values int
	Groups int
	Arrays int
}

// CountLabels returns one entry per interned label, in label order, with
// its uses in the subtree at p. Labels that were interned but are no
// longer used keep zero counts.
func CountLabels(p config.DataConstPointer) []LabelUsage {
	names := p.Labels().Names()
	out := make([]LabelUsage, len(names))
	index := make(map[string]int, len(names))
	for i, name := range names {
		out[i] = LabelUsage{Label: config.Label(i), Name: name}
		index[name] = i
	}

	var walk func(n config.DataConstPointer)
	walk = func(n config.DataConstPointer) {
		switch n.Type() {
		case config.ArrayNode:
			for _, item := range n.Items() {
				walk(item)
			}
		case config.MapNode:
			for _, key := range n.Keys() {
				u := &out[index[key]]
				if _, ok := n.Value(key); ok {
					u.Values++
					continue
				}
				child, _ := n.Child(key)
				if child.Type() == config.ArrayNode {
					u.Arrays++
				} else {
					u.Groups++
				}
				walk(child)
			}
		}
	}
	if p.Valid() {
		walk(p)
	}
	return out
}

// RenderLabels renders the label table of a document
func RenderLabels(p config.DataConstPointer) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("LABEL"),
		text.FgHiCyan.Sprint("NAME"),
		text.FgHiCyan.Sprint("VALUES"),
		text.FgHiCyan.Sprint("GROUPS"),
		text.FgHiCyan.Sprint("ARRAYS"),
	})
	usage := CountLabels(p)
	for _, u := range usage {
		t.AppendRow(table.Row{int(u.Label), u.Name, u.Values, u.Groups, u.Arrays})
	}
	t.AppendFooter(table.Row{"", "TOTAL", len(usage)})
	return t.Render()
}
