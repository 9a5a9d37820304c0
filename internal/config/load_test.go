package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestLoadFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robot.yaml")
	writeFile(t, path, "robot:\n  name: arm\n", time.Now())

	rw := NewReaderWriter()
	require.True(t, rw.LoadFromYAMLFile(path), rw.ErrorMessage())
	assert.Equal(t, path, rw.Source())
	assert.Equal(t, path, rw.Filename())

	rw.ReadGroup("robot", Required)
	name, _ := Get[string](rw, "name", Required)
	assert.Equal(t, "arm", name)

	var missing int
	rw.Value("dof", &missing, Required)
	assert.Contains(t, rw.ErrorMessage(), "[source: "+path+"]")
}

func TestLoadMissingFile(t *testing.T) {
	rw := NewReaderWriter()
	rw.SetValue("keep", true)
	assert.False(t, rw.LoadFromYAMLFile(filepath.Join(t.TempDir(), "absent.yaml")))
	assert.True(t, rw.HasError())
	assert.True(t, rw.HasValue("keep"))
	assert.False(t, rw.Sync(), "nothing to sync after a failed stat")
}

func TestLoadResetsCursor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.yaml")
	writeFile(t, path, "a: 1\n", time.Now())

	rw := NewReaderWriter()
	rw.WriteGroup("x")
	rw.WriteGroup("y")
	require.True(t, rw.LoadFromYAMLFile(path))
	assert.Equal(t, 0, rw.Depth())
	assert.True(t, rw.HasValue("a"))
}

func TestSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robot.yaml")
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	writeFile(t, path, "dof: 6\n", base)

	rw := NewReaderWriter()
	require.True(t, rw.LoadFromYAMLFile(path))
	assert.False(t, rw.Sync(), "unchanged file must not reload")

	writeFile(t, path, "dof: 7\n", base.Add(time.Minute))
	require.True(t, rw.Sync(), rw.ErrorMessage())
	dof, _ := Get[int](rw, "dof", Required)
	assert.Equal(t, 7, dof)
	assert.False(t, rw.Sync())

	writeFile(t, path, "dof: [1\n", base.Add(2*time.Minute))
	assert.False(t, rw.Sync())
	assert.True(t, rw.HasError())
	dof, _ = Get[int](rw, "dof", Required)
	assert.Equal(t, 7, dof, "broken reload keeps the previous tree")

	rw.ClearErrors()
	assert.False(t, rw.Sync(), "a broken file is reported once per change")
	assert.False(t, rw.HasError())

	writeFile(t, path, "dof: 8\n", base.Add(3*time.Minute))
	assert.True(t, rw.Sync())
	dof, _ = Get[int](rw, "dof", Required)
	assert.Equal(t, 8, dof)
}

func TestSyncWithoutFile(t *testing.T) {
	rw := NewReaderWriter()
	assert.False(t, rw.Sync())
	assert.False(t, rw.HasError())
}

func TestSyncSharedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robot.yaml")
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	writeFile(t, path, "dof: 6\n", base)

	rw := NewReaderWriter()
	require.True(t, rw.LoadFromYAMLFile(path))
	other := NewReaderWriterFrom(NewDataPointer(rw.Data().Data))

	writeFile(t, path, "dof: 9\n", base.Add(time.Minute))
	require.True(t, rw.Sync())
	dof, _ := Get[int](other, "dof", Required)
	assert.Equal(t, 9, dof, "every holder of the document sees the reload")
}

func TestDecoderFunc(t *testing.T) {
	dec := DecoderFunc(func(raw []byte, rw *ReaderWriter) error {
		rw.SetValue("raw", string(raw))
		return nil
	})
	rw := NewReaderWriter()
	require.True(t, rw.LoadFromBytes([]byte("payload"), "inline", dec))
	raw, _ := Get[string](rw, "raw", Required)
	assert.Equal(t, "payload", raw)
	assert.Equal(t, "inline", rw.Source())

	failing := DecoderFunc(func(raw []byte, rw *ReaderWriter) error {
		return errors.New("boom")
	})
	assert.False(t, rw.LoadFromBytes(nil, "inline", failing))
	assert.Contains(t, rw.ErrorMessage(), "Cannot parse 'inline': boom")
}

func TestReloadResetsOtherCursors(t *testing.T) {
	rw := NewReaderWriter()
	rw.WriteGroup("a")
	rw.WriteGroup("b")
	rw.WriteGroup("c")
	rw.WriteArray("items")
	for i := 0; i < 3; i++ {
		rw.AddArrayItem()
		rw.SetValue("id", i)
		rw.EndArrayItem()
	}
	rw.EndArray()
	rw.EndGroup()
	rw.EndGroup()
	rw.EndGroup()

	r := NewReader(rw.Data().Const())
	for _, name := range []string{"a", "b", "c", "items"} {
		require.True(t, r.Read(name, Required), name)
	}
	require.True(t, r.Next())

	other := NewReaderWriterFrom(rw.Data())
	require.True(t, other.ReadGroup("a", Required))
	scope, ok := other.EnterGroup("b", Required)
	require.True(t, ok)
	sub := other.LimitScope()

	require.True(t, rw.LoadFromYAMLString("x: 1\n"), rw.ErrorMessage())
	assert.Equal(t, uint64(1), rw.Data().Data.Generation())

	assert.False(t, r.Next(), "array scope is gone after the reload")
	assert.Equal(t, 0, r.Depth())
	assert.Equal(t, rw.Data().Data.Root(), r.Position())
	x, ok := Get[int](r, "x", Required)
	assert.True(t, ok)
	assert.Equal(t, 1, x)

	assert.ErrorIs(t, scope.Close(), ErrScope)
	assert.Equal(t, 0, other.Depth())
	other.SetShortErrorContext("document")
	assert.True(t, other.HasValue("x"))

	// the limited cursor's subtree no longer exists
	assert.Equal(t, NoNode, sub.Position())
	assert.False(t, sub.HasValue("x"))
	assert.False(t, sub.SetValue("y", 2))
	sub.SetShortErrorContext("gone")
	assert.False(t, rw.HasValue("y"))
	assert.False(t, sub.Data().Const().Valid())
}

func TestLoadFromLimitedScope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub.yaml")
	writeFile(t, path, "y: 2\n", time.Now())

	rw := NewReaderWriter()
	rw.WriteGroup("outside")
	rw.EndGroup()
	rw.WriteGroup("sub")
	sub := rw.LimitScope()
	before := sub.Position()

	assert.False(t, sub.LoadFromYAMLString("y: 2\n"))
	assert.False(t, sub.LoadFromFile(path, YAMLDecoder{}))
	assert.Empty(t, sub.Filename())
	assert.Contains(t, rw.ErrorMessage(), "Cannot load from a limited scope.")
	assert.Equal(t, before, sub.Position())
	assert.False(t, sub.HasValue("y"))

	root := NewReader(NewDataConstPointer(rw.Data().Data))
	assert.True(t, root.Has("outside"))
	assert.True(t, root.Has("sub"))

	nested := NewReaderWriterFrom(rw.Data())
	assert.False(t, nested.LoadFromYAMLString("y: 2\n"), "a cursor created on a subtree is limited too")
}
