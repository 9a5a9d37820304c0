package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/confdoc/internal/config"
)

func doc(t *testing.T, text string) config.DataConstPointer {
	t.Helper()
	rw := config.NewReaderWriter()
	require.True(t, rw.LoadFromYAMLString(text), rw.ErrorMessage())
	return rw.Data().Const()
}

func TestLines(t *testing.T) {
	lines, err := Lines(doc(t, "a: 1\nb: 2\n"), doc(t, "a: 1\nb: 3\nc: 4\n"))
	require.NoError(t, err)

	want := []Line{
		{Equal, "a: 1"},
		{Delete, "b: 2"},
		{Insert, "b: 3"},
		{Insert, "c: 4"},
	}
	assert.Equal(t, want, lines)
	assert.True(t, Changed(lines))

	inserted, deleted := Stats(lines)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 1, deleted)
}

func TestUnified(t *testing.T) {
	lines := Text("x: 1\n", "x: 2\n")
	want := "--- old.yaml\n+++ new.yaml\n-x: 1\n+x: 2\n"
	assert.Equal(t, want, Unified(lines, "old.yaml", "new.yaml"))
}

func TestIdentical(t *testing.T) {
	lines, err := Lines(doc(t, "a: [1, 2]\n"), doc(t, "a: [1, 2]\n"))
	require.NoError(t, err)
	assert.False(t, Changed(lines))
	assert.Equal(t, []Line{{Equal, "a:"}, {Equal, "  - 1"}, {Equal, "  - 2"}}, lines)
}

func TestSame(t *testing.T) {
	assert.True(t, Same(doc(t, "a: 1\nb: x\n"), doc(t, "b: x\na: 1\n")))
	assert.False(t, Same(doc(t, "a: 1\n"), doc(t, "a: 1.0\n")), "value kinds differ")
	assert.False(t, Same(doc(t, "a: [1]\n"), doc(t, "a: [2]\n")))
}

func TestOpPrefix(t *testing.T) {
	assert.Equal(t, " ", Equal.Prefix())
	assert.Equal(t, "+", Insert.Prefix())
	assert.Equal(t, "-", Delete.Prefix())
}
