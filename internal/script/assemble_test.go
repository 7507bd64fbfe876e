package script

import (
	"strings"
	"testing"

	"github.com/jward/libreveal/internal/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_Empty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Header, Assemble(signature.NewExtractorMap()))
}

func TestAssemble_AlternationEndToEnd(t *testing.T) {
	t.Parallel()
	doc, err := signature.ParseDocument([]byte(`{"Foo":{"extractors":{"func":["(a|b).version"]}}}`))
	require.NoError(t, err)
	m, _ := signature.Normalize(doc)

	want := `// libreveal.js

// Foo
if (typeof a !== "undefined" && typeof a.version !== "undefined")
{
	console.log("libreveal.js: Foo @ " + a.version);
}
else if (typeof b !== "undefined" && typeof b.version !== "undefined")
{
	console.log("libreveal.js: Foo @ " + b.version);
}`
	assert.Equal(t, want, Assemble(m))
}

func TestAssemble_EachLibraryStartsItsOwnChain(t *testing.T) {
	t.Parallel()
	m := signature.NewExtractorMap()
	m.Append("One", "one.v", "uno.v", "eins.v")
	m.Append("Two", "two.v")

	got := Assemble(m)
	assert.Equal(t, 2, strings.Count(got, "\nif "))
	assert.Equal(t, 2, strings.Count(got, "\nelse if "))
	assert.Less(t, strings.Index(got, "// One"), strings.Index(got, "// Two"))
	assert.Contains(t, got, "// Two\nif (typeof two !== \"undefined\" && typeof two.v !== \"undefined\")")
}

func TestAssemble_HeaderOnlyLibrary(t *testing.T) {
	t.Parallel()
	m := signature.NewExtractorMap()
	m.Append("Empty")

	assert.Equal(t, "// libreveal.js\n\n// Empty", Assemble(m))
}

func TestAssemble_LogsLiteralExpression(t *testing.T) {
	t.Parallel()
	m := signature.NewExtractorMap()
	m.Append("Dojo", "dojo.version.toString()")

	got := Assemble(m)
	assert.Contains(t, got, `console.log("libreveal.js: Dojo @ " + dojo.version.toString());`)
	assert.False(t, strings.HasSuffix(got, "\n"))
}

func TestAssemble_Idempotent(t *testing.T) {
	t.Parallel()
	build := func() string {
		m := signature.NewExtractorMap()
		m.Append("A", "a.b", "c.d()")
		m.Append("B", "getB().version")
		return Assemble(m)
	}
	assert.Equal(t, build(), build())
}
