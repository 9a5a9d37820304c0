package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJoints(t *testing.T, rw *ReaderWriter, n int) {
	t.Helper()
	require.True(t, rw.WriteArray("joints"))
	for i := 0; i < n; i++ {
		require.True(t, rw.AddArrayItem())
		require.True(t, rw.SetValue("id", i))
		require.True(t, rw.EndArrayItem())
	}
	require.True(t, rw.EndArray())
}

func TestWriteThenReadGroup(t *testing.T) {
	rw := NewReaderWriter()
	require.True(t, rw.WriteGroup("robot"))
	require.True(t, rw.SetValue("name", "arm"))
	require.True(t, rw.EndGroup())

	require.True(t, rw.ReadGroup("robot", Required))
	var out string
	require.True(t, rw.Value("name", &out, Required))
	assert.Equal(t, "arm", out)
	require.True(t, rw.EndGroup())
	assert.False(t, rw.HasError())
}

func TestArrayOrder(t *testing.T) {
	rw := NewReaderWriter()
	writeJoints(t, rw, 3)

	require.True(t, rw.ReadArray("joints", Required))
	var ids []int
	for i := 0; i < 3; i++ {
		require.True(t, rw.Next(), "item %d", i)
		var id int
		require.True(t, rw.Value("id", &id, Required))
		ids = append(ids, id)
	}
	assert.False(t, rw.Next(), "fourth Next must report exhaustion")
	assert.Equal(t, []int{0, 1, 2}, ids)
	require.True(t, rw.EndArray())
	assert.Equal(t, 0, rw.Depth())
	assert.False(t, rw.HasError())
}

func TestRequiredMissingValue(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteGroup("robot")
	rw.SetValue("name", "arm")

	var out string
	assert.False(t, rw.Value("missing_field", &out, Required))
	require.True(t, rw.HasError())
	assert.Len(t, rw.Errors(), 1, "exactly one error per failed required read")
	assert.Contains(t, rw.ErrorMessage(), "missing_field")
	assert.Contains(t, rw.ErrorMessage(), "Expected property 'missing_field', not found.")
	assert.Contains(t, rw.ErrorMessage(), "[at robot]")
}

func TestOptionalAbsentGroup(t *testing.T) {
	rw := NewReaderWriter()
	assert.False(t, rw.ReadGroup("absent", Optional))
	assert.False(t, rw.HasError())
	assert.Equal(t, 0, rw.Depth())
}

func TestOptionalLookupsAreSilent(t *testing.T) {
	rw := NewReaderWriter()
	rw.SetValue("flag", true)
	writeJoints(t, rw, 1)

	var s string
	assert.False(t, rw.Value("absent", &s, Optional))
	assert.False(t, rw.Value("flag", &s, Optional), "wrong kind")
	assert.False(t, rw.ReadArray("absent", Optional))
	assert.False(t, rw.ReadGroup("joints", Optional), "wrong shape")
	assert.False(t, rw.HasError())
}

func TestRequiredInvalidType(t *testing.T) {
	rw := NewReaderWriter()
	rw.SetValue("flag", true)

	var n int
	assert.False(t, rw.Value("flag", &n, Required))
	assert.Equal(t, 0, n)
	assert.Contains(t, rw.ErrorMessage(), "Property 'flag' has invalid type.")
}

func TestErrorsAccumulateAcrossReads(t *testing.T) {
	rw := NewReaderWriter()
	rw.SetSource("robot.yaml")

	var a, b string
	rw.Value("first", &a, Required)
	rw.Value("second", &b, Required)
	rw.ReadGroup("third", Required)

	errs := rw.Errors()
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "first")
	assert.Contains(t, errs[1], "second")
	assert.Contains(t, errs[2], "Expected group 'third', not found.")
	assert.Contains(t, errs[0], "[source: robot.yaml]")

	err := rw.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second")

	rw.ClearErrors()
	assert.False(t, rw.HasError())
	assert.NoError(t, rw.Err())
}

func TestWriteGroupOnArrayFails(t *testing.T) {
	rw := NewReaderWriter()
	writeJoints(t, rw, 2)

	assert.False(t, rw.WriteGroup("joints"))
	assert.True(t, rw.HasError())
	assert.Equal(t, 0, rw.Depth(), "failed write must not enter a scope")

	rw.ClearErrors()
	require.True(t, rw.ReadArray("joints", Required))
	count := 0
	for rw.Next() {
		count++
	}
	rw.EndArray()
	assert.Equal(t, 2, count, "existing array must be unchanged")
	assert.False(t, rw.HasError())
}

func TestWriteExtendsExistingGroup(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteGroup("robot")
	rw.SetValue("name", "arm")
	rw.EndGroup()

	rw.WriteGroup("robot")
	rw.SetValue("dof", 6)
	rw.EndGroup()

	writeJoints(t, rw, 1)
	require.True(t, rw.WriteArray("joints"))
	rw.AddArrayItem()
	rw.SetValue("id", 7)
	rw.EndArrayItem()
	rw.EndArray()

	require.True(t, rw.ReadGroup("robot", Required))
	name, _ := Get[string](rw, "name", Required)
	dof, _ := Get[int](rw, "dof", Required)
	rw.EndGroup()
	assert.Equal(t, "arm", name)
	assert.Equal(t, 6, dof)

	rw.ReadArray("joints", Required)
	var ids []int
	for rw.Next() {
		id, _ := Get[int](rw, "id", Required)
		ids = append(ids, id)
	}
	rw.EndArray()
	assert.Equal(t, []int{0, 7}, ids)
	assert.False(t, rw.HasError(), rw.ErrorMessage())
}

func TestSetValueOverwritesAndRejectsBadTypes(t *testing.T) {
	rw := NewReaderWriter()
	rw.SetValue("x", 1)
	rw.SetValue("x", "one")

	var s string
	require.True(t, rw.Value("x", &s, Required))
	assert.Equal(t, "one", s)

	assert.False(t, rw.SetValue("y", []string{"a"}))
	assert.Contains(t, rw.ErrorMessage(), "unsupported value type []string")
	assert.False(t, rw.HasValue("y"))
}

func TestScopeRoundTrip(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteGroup("a")
	rw.WriteGroup("b")
	rw.EndGroup()
	rw.EndGroup()
	writeJoints(t, rw, 2)

	before := rw.Position()
	require.True(t, rw.ReadGroup("a", Required))
	require.True(t, rw.ReadGroup("b", Required))
	require.True(t, rw.EndGroup())
	require.True(t, rw.EndGroup())
	assert.Equal(t, before, rw.Position())

	require.True(t, rw.ReadArray("joints", Required))
	rw.Next()
	require.True(t, rw.EndArray(), "early termination")
	assert.Equal(t, before, rw.Position())
}

func TestEndWithoutScope(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteGroup("a")
	rw.EndGroup()
	before := rw.Position()

	assert.False(t, rw.End())
	assert.False(t, rw.EndGroup())
	assert.Equal(t, before, rw.Position(), "stray end must not move the cursor")
	assert.Len(t, rw.Errors(), 2)
}

func TestEndOfWrongKind(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteArray("items")
	assert.False(t, rw.EndGroup())
	assert.Equal(t, 1, rw.Depth())
	assert.Contains(t, rw.ErrorMessage(), "End of group, but the innermost scope is array.")
	assert.True(t, rw.EndArray())
}

func TestNextOutsideArray(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteGroup("robot")
	before := rw.Position()
	assert.False(t, rw.Next())
	assert.Equal(t, before, rw.Position())
	assert.False(t, rw.HasError())
}

func TestAddArrayItemOutsideArray(t *testing.T) {
	rw := NewReaderWriter()
	assert.False(t, rw.AddArrayItem())
	assert.True(t, rw.HasError())
	assert.False(t, rw.EndArrayItem())
}

func TestScalarArrayItems(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteArray("ids")
	for _, v := range []float64{0.5, 1.5} {
		rw.AddArrayItem()
		rw.SetItemValue(v)
		rw.EndArrayItem()
	}
	rw.EndArray()

	rw.ReadArray("ids", Required)
	var got []float64
	for rw.Next() {
		var f float64
		require.True(t, rw.ItemValue(&f, Required))
		got = append(got, f)
	}
	rw.EndArray()
	assert.Equal(t, []float64{0.5, 1.5}, got)
	assert.False(t, rw.HasError(), rw.ErrorMessage())
}

func TestHasChecks(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteGroup("g")
	rw.EndGroup()
	rw.WriteArray("a")
	rw.EndArray()
	rw.SetValue("v", 1)

	assert.True(t, rw.HasGroup("g"))
	assert.False(t, rw.HasArray("g"))
	assert.True(t, rw.HasArray("a"))
	assert.False(t, rw.HasGroup("a"))
	assert.True(t, rw.HasValue("v"))
	assert.False(t, rw.HasGroup("v"))
	assert.False(t, rw.HasGroup("missing"))
	assert.Equal(t, 0, rw.Depth(), "Has* must not descend")
}

func TestLimitScope(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteGroup("robot")
	rw.SetValue("name", "arm")
	rw.WriteGroup("arm")
	rw.EndGroup()

	sub := rw.LimitScope()
	assert.False(t, sub.End(), "limited cursor cannot leave its root")
	assert.True(t, sub.HasGroup("arm"))
	assert.False(t, sub.HasGroup("robot"))

	sub.WriteGroup("arm")
	sub.SetValue("links", 3)
	sub.EndGroup()

	var s string
	sub.Value("absent", &s, Required)

	// the parent shares the document and the error buffer
	assert.True(t, rw.HasError())
	rw.ReadGroup("arm", Required)
	links, ok := Get[int](rw, "links", Required)
	assert.True(t, ok)
	assert.Equal(t, 3, links)
}

func TestErrorContext(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteGroup("robot")
	rw.SetErrorContext("robot loader")
	rw.SetShortErrorContext("amigo")

	var s string
	rw.Value("name", &s, Required)
	msg := rw.ErrorMessage()
	assert.True(t, strings.HasPrefix(msg, "robot loader: "), msg)
	assert.Contains(t, msg, "[at amigo]")
}

func TestScopeToken(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteGroup("a")
	rw.WriteGroup("b")
	rw.EndGroup()
	rw.EndGroup()

	outer, ok := rw.EnterGroup("a", Required)
	require.True(t, ok)
	inner, ok := rw.EnterGroup("b", Required)
	require.True(t, ok)

	err := outer.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScope)
	assert.Equal(t, 2, rw.Depth(), "rejected close must not move the cursor")

	require.NoError(t, inner.Close())
	assert.ErrorIs(t, inner.Close(), ErrScope, "double close")
	require.NoError(t, outer.Close())
	assert.Equal(t, 0, rw.Depth())
	assert.True(t, outer.Closed())

	_, ok = rw.EnterArray("a", Optional)
	assert.False(t, ok)

	var nilScope *Scope
	assert.ErrorIs(t, nilScope.Close(), ErrScope)
}

func TestDataPointerSharesDocument(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteGroup("robot")
	ptr := rw.Data()
	rw.EndGroup()

	other := NewReaderWriterFrom(ptr)
	other.SetValue("name", "arm")

	rw.ReadGroup("robot", Required)
	name, ok := Get[string](rw, "name", Required)
	assert.True(t, ok)
	assert.Equal(t, "arm", name)
}

func TestPrintAndString(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteGroup("robot")
	rw.SetValue("name", "arm")
	rw.EndGroup()

	var buf bytes.Buffer
	require.NoError(t, rw.Print(&buf))
	assert.Equal(t, "robot:\n  name: arm\n", buf.String())
	assert.Equal(t, buf.String(), rw.String())

	rw.ReadGroup("robot", Required)
	assert.Equal(t, "name: arm\n", rw.ToYAMLString())
}

func TestStaleScopeTokenAfterReentry(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteGroup("a")
	rw.EndGroup()

	token, ok := rw.EnterGroup("a", Required)
	require.True(t, ok)
	require.True(t, rw.End())
	require.True(t, rw.ReadGroup("a", Required))

	err := token.Close()
	assert.ErrorIs(t, err, ErrScope)
	assert.Equal(t, 1, rw.Depth(), "a stale token must not close the re-entered scope")
	assert.False(t, token.Closed())

	fresh, ok := rw.EnterGroup("missing", Optional)
	assert.False(t, ok)
	assert.Nil(t, fresh)
	assert.True(t, rw.EndGroup())
}
