package diff

import (
	"reflect"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/muurk/confdoc/internal/config"
)

// Op is the kind of a diff line
type Op int

const (
	// Equal lines appear in both documents
	Equal Op = iota
	// Insert lines appear only in the new document
	Insert
	// Delete lines appear only in the old document
	Delete
)

// Prefix returns the unified diff marker for the op
func (o Op) Prefix() string {
	switch o {
	case Insert:
		return "+"
	case Delete:
		return "-"
	default:
		return " "
	}
}

// Line is one line of a diff, without its trailing newline
type Line struct {
	Op   Op
	Text string
}

// Lines diffs the YAML renderings of two subtrees line by line
func Lines(from, to config.DataConstPointer) ([]Line, error) {
	a, err := config.EncodeYAML(from)
	if err != nil {
		return nil, err
	}
	b, err := config.EncodeYAML(to)
	if err != nil {
		return nil, err
	}
	return Text(string(a), string(b)), nil
}

// Text diffs two texts line by line
func Text(a, b string) []Line {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var out []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffpatch.DiffInsert:
			op = Insert
		case diffpatch.DiffDelete:
			op = Delete
		}
		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text == "" {
				continue
			}
			out = append(out, Line{Op: op, Text: strings.TrimSuffix(text, "\n")})
		}
	}
	return out
}

// Changed reports whether any line differs
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

// Stats counts inserted and deleted lines
func Stats(lines []Line) (inserted, deleted int) {
	for _, l := range lines {
		switch l.Op {
		case Insert:
			inserted++
		case Delete:
			deleted++
		}
	}
	return inserted, deleted
}

// Unified renders lines with ---/+++ headers and full context
func Unified(lines []Line, fromName, toName string) string {
	var b strings.Builder
	b.WriteString("--- " + fromName + "\n")
	b.WriteString("+++ " + toName + "\n")
	for _, l := range lines {
		b.WriteString(l.Op.Prefix())
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Same reports whether two subtrees hold the same content. Key order is
// ignored; value kinds are not.
func Same(from, to config.DataConstPointer) bool {
	return reflect.DeepEqual(from.Interface(), to.Interface())
}
