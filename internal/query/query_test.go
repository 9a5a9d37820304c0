package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/confdoc/internal/config"
)

func document(t *testing.T) config.DataConstPointer {
	t.Helper()
	rw := config.NewReaderWriter()
	require.True(t, rw.LoadFromYAMLString(`
robot:
  name: arm
  joints:
    - id: 0
      limits:
        upper: 1.5
    - id: 1
  tags: [a, b]
`), rw.ErrorMessage())
	return rw.Data().Const()
}

func TestFind(t *testing.T) {
	doc := document(t)

	tests := []struct {
		expr string
		want any
	}{
		{"robot.name", "arm"},
		{"robot.joints[1].id", int64(1)},
		{"robot.joints[0].limits.upper", 1.5},
		{"robot.tags[1]", "b"},
		{"robot.joints[1]", map[string]any{"id": int64(1)}},
		{"robot.tags", []any{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Get(doc, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindRoot(t *testing.T) {
	doc := document(t)
	m, err := Find(doc, "")
	require.NoError(t, err)
	assert.False(t, m.IsValue)
	assert.Equal(t, doc.Idx(), m.Node.Idx())
}

func TestFindMatchPath(t *testing.T) {
	m, err := Find(document(t), "robot.joints[0].limits")
	require.NoError(t, err)
	assert.Equal(t, "robot.joints[0].limits", m.Path)
	assert.Equal(t, config.MapNode, m.Node.Type())
}

func TestFindErrors(t *testing.T) {
	doc := document(t)

	tests := []struct {
		expr     string
		notFound bool
		mismatch bool
		syntax   bool
	}{
		{expr: "robot.missing", notFound: true},
		{expr: "robot.joints[5]", notFound: true},
		{expr: "robot.name.first", mismatch: true},
		{expr: "robot[0]", mismatch: true},
		{expr: "robot.tags.x", mismatch: true},
		{expr: "robot.tags[0].x", mismatch: true},
		{expr: "robot..name", syntax: true},
		{expr: "[0]", syntax: true},
		{expr: "robot.joints[x]", syntax: true},
		{expr: "robot.joints[1", syntax: true},
		{expr: "robot.joints[-1]", syntax: true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Find(doc, tt.expr)
			require.Error(t, err)
			assert.Equal(t, tt.notFound, config.IsNotFound(err), err.Error())
			assert.Equal(t, tt.mismatch, config.IsMismatch(err), err.Error())
			assert.Equal(t, tt.syntax, errors.Is(err, ErrSyntax), err.Error())
		})
	}
}

func TestJSONPath(t *testing.T) {
	doc := document(t)

	ids, err := JSONPath(doc, "$.robot.joints[*].id")
	require.NoError(t, err)
	assert.Equal(t, []any{float64(0), float64(1)}, ids)

	names, err := JSONPath(doc, "$..name")
	require.NoError(t, err)
	assert.Equal(t, []any{"arm"}, names)

	filtered, err := JSONPath(doc, "$.robot.joints[?@.limits].id")
	require.NoError(t, err)
	assert.Equal(t, []any{float64(0)}, filtered)

	none, err := JSONPath(doc, "$.robot.absent")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = JSONPath(doc, "$.robot[")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestEval(t *testing.T) {
	doc := document(t)

	got, err := Eval(doc, "robot.joints[0].id")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(0)}, got)

	got, err = Eval(doc, " $.robot.tags[0]")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, got)

	assert.True(t, IsJSONPath("$"))
	assert.False(t, IsJSONPath("robot"))
}
