package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theory/jsonpath"

	"github.com/muurk/confdoc/internal/config"
)

// ErrSyntax is returned for malformed path or JSONPath expressions
var ErrSyntax = errors.New("invalid query")

type segment struct {
	name  string
	index int
}

func (s segment) String() string {
	if s.name != "" {
		return s.name
	}
	return fmt.Sprintf("[%d]", s.index)
}

// Match is the node or value a path resolved to
type Match struct {
	Path    string
	Node    config.DataConstPointer
	Value   config.Variant
	IsValue bool
}

// Interface returns the match as plain Go values
func (m Match) Interface() any {
	if m.IsValue {
		return m.Value.Interface()
	}
	return m.Node.Interface()
}

// parsePath splits "robot.joints[1].id" into name and index segments.
// An empty path or "." addresses the starting node.
func parsePath(expr string) ([]segment, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == "." {
		return nil, nil
	}
	var segs []segment
	for _, part := range strings.Split(expr, ".") {
		name := part
		rest := ""
		if i := strings.IndexByte(part, '['); i >= 0 {
			name, rest = part[:i], part[i:]
		}
		if name == "" && (rest == "" || len(segs) == 0) {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrSyntax, expr)
		}
		if name != "" {
			segs = append(segs, segment{name: name, index: -1})
		}
		for rest != "" {
			end := strings.IndexByte(rest, ']')
			if rest[0] != '[' || end < 0 {
				return nil, fmt.Errorf("%w: bad index in %q", ErrSyntax, expr)
			}
			n, err := strconv.Atoi(rest[1:end])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrSyntax, rest[1:end], expr)
			}
			segs = append(segs, segment{index: n})
			rest = rest[end+1:]
		}
	}
	return segs, nil
}

// Find resolves a dotted path such as "robot.joints[1].id" from p
func Find(p config.DataConstPointer, expr string) (Match, error) {
	segs, err := parsePath(expr)
	if err != nil {
		return Match{}, err
	}
	cur := p
	for i, s := range segs {
		at := joinPath(segs[:i+1])
		if s.name != "" {
			if cur.Type() != config.MapNode {
				return Match{}, config.NewMismatchError(fmt.Sprintf("'%s' is a %s, not a group", joinPath(segs[:i]), cur.Type()), at)
			}
			if v, ok := cur.Value(s.name); ok {
				if i != len(segs)-1 {
					return Match{}, config.NewMismatchError(fmt.Sprintf("'%s' is a value", at), at)
				}
				return Match{Path: at, Value: v, IsValue: true}, nil
			}
			child, ok := cur.Child(s.name)
			if !ok {
				return Match{}, config.NewMissingError(fmt.Sprintf("'%s' not found", at), at)
			}
			cur = child
			continue
		}
		if cur.Type() != config.ArrayNode {
			return Match{}, config.NewMismatchError(fmt.Sprintf("'%s' is a %s, not an array", joinPath(segs[:i]), cur.Type()), at)
		}
		items := cur.Items()
		if s.index >= len(items) {
			return Match{}, config.NewMissingError(fmt.Sprintf("index %d out of range, '%s' has %d items", s.index, joinPath(segs[:i]), len(items)), at)
		}
		cur = items[s.index]
		if v, ok := cur.ItemValue(); ok {
			if i != len(segs)-1 {
				return Match{}, config.NewMismatchError(fmt.Sprintf("'%s' is a value", at), at)
			}
			return Match{Path: at, Value: v, IsValue: true}, nil
		}
	}
	return Match{Path: joinPath(segs), Node: cur}, nil
}

func joinPath(segs []segment) string {
	var b strings.Builder
	for i, s := range segs {
		if i > 0 && s.name != "" {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Get resolves expr and returns the match as plain Go values
func Get(p config.DataConstPointer, expr string) (any, error) {
	m, err := Find(p, expr)
	if err != nil {
		return nil, err
	}
	return m.Interface(), nil
}

// JSONPath evaluates an RFC 9535 expression against the subtree at p. The
// subtree goes through a JSON round trip first, so numbers come back as
// float64.
func JSONPath(p config.DataConstPointer, expr string) ([]any, error) {
	path, err := jsonpath.Parse(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	raw, err := json.Marshal(p.Interface())
	if err != nil {
		return nil, fmt.Errorf("failed to encode document as JSON: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode document JSON: %w", err)
	}
	return path.Select(data), nil
}

// IsJSONPath reports whether expr is a JSONPath expression
func IsJSONPath(expr string) bool {
	return strings.HasPrefix(strings.TrimSpace(expr), "$")
}

// Eval runs expr as JSONPath when it starts with "$" and as a dotted path
// otherwise
func Eval(p config.DataConstPointer, expr string) ([]any, error) {
	if IsJSONPath(expr) {
		return JSONPath(p, expr)
	}
	v, err := Get(p, expr)
	if err != nil {
		return nil, err
	}
	return []any{v}, nil
}
