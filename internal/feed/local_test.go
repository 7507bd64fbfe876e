package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Disabled(t *testing.T) {
	data, ok, err := NewLocal("").Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestLocal_MissingIsAbsent(t *testing.T) {
	data, ok, err := NewLocal(filepath.Join(t.TempDir(), "local.json")).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestLocal_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleFeed), 0o644))

	data, ok, err := NewLocal(path).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sampleFeed, string(data))
}

func TestLocal_RisorScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extensions.risor")
	src := "sigs := {\"Internal\": descriptor(\"InternalLib\", [\"Internal.version\"])}\nsigs\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	l := NewLocal(path)
	assert.Equal(t, path, l.Path())

	data, ok, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"Internal":{"bowername":"InternalLib","extractors":{"func":["Internal.version"]}}}`, string(data))
}

func TestLocal_RisorScriptError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.risor")
	require.NoError(t, os.WriteFile(path, []byte(`descriptor(1, 2)`), 0o644))

	_, ok, err := NewLocal(path).Load(context.Background())
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "local feed")
}

func TestLocal_FromFS(t *testing.T) {
	script := "import lib\nsigs := {\"s\": descriptor(lib.alias(), [\"Shared.v\"])}\nsigs\n"
	fsys := fstest.MapFS{
		"ext/local.json":  &fstest.MapFile{Data: []byte(sampleFeed)},
		"ext/local.risor": &fstest.MapFile{Data: []byte(script)},
		"lib.risor":       &fstest.MapFile{Data: []byte("func alias() { return \"Shared\" }\n")},
	}

	data, ok, err := NewLocal("ext/local.json", WithFS(fsys)).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sampleFeed, string(data))

	data, ok, err = NewLocal("/ext/local.risor", WithFS(fsys)).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"s":{"bowername":"Shared","extractors":{"func":["Shared.v"]}}}`, string(data))

	data, ok, err = NewLocal("ext/missing.json", WithFS(fsys)).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}
