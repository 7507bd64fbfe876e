package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, data string) Document {
	t.Helper()
	doc, err := ParseDocument([]byte(data))
	require.NoError(t, err)
	return doc
}

func TestNormalize_RawKeyWithoutAlias(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `{"Foo":{"extractors":{"func":["Foo.VERSION"]}}}`)

	m, rep := Normalize(doc)
	assert.Equal(t, []string{"Foo"}, m.Libraries())
	assert.Equal(t, []string{"Foo.VERSION"}, m.Expressions("Foo"))
	assert.Equal(t, 1, rep.Entries)
	assert.Equal(t, 1, rep.AtomicExpressions)
}

func TestNormalize_AliasListFirstWins(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `{
		"jquery": {"bowername": ["jQuery", "jquery", "jq"], "extractors": {"func": ["jQuery.fn.jquery"]}},
		"one": {"bowername": ["Only"], "extractors": {"func": ["Only.v"]}}
	}`)

	m, _ := Normalize(doc)
	assert.Equal(t, []string{"jQuery", "Only"}, m.Libraries())
	assert.Equal(t, []string{"jQuery.fn.jquery"}, m.Expressions("jQuery"))
}

func TestNormalize_ScalarAlias(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `{"dojo":{"bowername":"Dojo","extractors":{"func":["dojo.version.toString()"]}}}`)

	m, _ := Normalize(doc)
	assert.Equal(t, []string{"Dojo"}, m.Libraries())
}

func TestNormalize_DeniedRawKeyAnyCase(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `{
		"retire-example": {"extractors": {"func": ["a.b"]}},
		"Retire-EXAMPLE": {"extractors": {"func": ["c.d"]}},
		"kept": {"extractors": {"func": ["e.f"]}}
	}`)

	m, rep := Normalize(doc)
	assert.Equal(t, []string{"kept"}, m.Libraries())
	assert.Equal(t, 2, rep.Denied)
}

// The deny check uses the raw key; an alias pointing at the denied name is
// compiled like any other library.
func TestNormalize_AliasToDeniedNameIsKept(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `{"sample":{"bowername":"retire-example","extractors":{"func":["x.y"]}}}`)

	m, rep := Normalize(doc)
	assert.Equal(t, []string{"retire-example"}, m.Libraries())
	assert.Equal(t, []string{"x.y"}, m.Expressions("retire-example"))
	assert.Zero(t, rep.Denied)
}

func TestNormalize_DeniedRawKeyWithAliasIsSkipped(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `{"retire-example":{"bowername":"Legit","extractors":{"func":["x.y"]}}}`)

	m, _ := Normalize(doc)
	assert.Zero(t, m.Len())
}

func TestNormalize_MissingExtractorsContributesNothing(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `{
		"a": {"bowername": "A"},
		"b": {"extractors": {"uri": ["/b.js"]}},
		"c": {"extractors": {"func": []}}
	}`)

	m, rep := Normalize(doc)
	assert.Zero(t, m.Len())
	assert.Equal(t, 3, rep.WithoutExtractors)
}

func TestNormalize_ExpandsCompoundExpressions(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `{"Foo":{"extractors":{"func":["(a|b).version","Foo.v"]}}}`)

	m, rep := Normalize(doc)
	assert.Equal(t, []string{"a.version", "b.version", "Foo.v"}, m.Expressions("Foo"))
	assert.Equal(t, 2, rep.RawExpressions)
	assert.Equal(t, 3, rep.AtomicExpressions)
}

func TestNormalize_ConstructorOnlyLibraryKeepsHeader(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `{"Ctor":{"extractors":{"func":["new Ctor().version"]}}}`)

	m, rep := Normalize(doc)
	assert.Equal(t, []string{"Ctor"}, m.Libraries())
	assert.Empty(t, m.Expressions("Ctor"))
	assert.Equal(t, 1, rep.Discarded)
}

func TestNormalize_DocumentsConcatenateInOrder(t *testing.T) {
	t.Parallel()
	first := mustParse(t, `{"lib":{"bowername":"Lib","extractors":{"func":["one.v"]}},"other":{"extractors":{"func":["o.v"]}}}`)
	second := mustParse(t, `{"Lib":{"extractors":{"func":["two.v"]}},"new":{"extractors":{"func":["n.v"]}}}`)

	m, rep := Normalize(first, second)
	assert.Equal(t, []string{"Lib", "other", "new"}, m.Libraries())
	assert.Equal(t, []string{"one.v", "two.v"}, m.Expressions("Lib"))
	assert.Equal(t, 2, rep.Documents)
	assert.Equal(t, 4, m.ExpressionCount())
}

func TestNormalize_NamesAreCaseSensitive(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `{"foo":{"extractors":{"func":["a"]}},"Foo":{"extractors":{"func":["b"]}}}`)

	m, _ := Normalize(doc)
	assert.Equal(t, []string{"foo", "Foo"}, m.Libraries())
}

func TestNormalize_NoDocuments(t *testing.T) {
	t.Parallel()
	m, rep := Normalize()
	assert.Zero(t, m.Len())
	assert.Zero(t, rep.Documents)
}

func TestExtractorMap_ReturnsCopies(t *testing.T) {
	t.Parallel()
	m := NewExtractorMap()
	m.Append("a", "x", "y")

	libs := m.Libraries()
	libs[0] = "mutated"
	exprs := m.Expressions("a")
	exprs[0] = "mutated"

	assert.Equal(t, []string{"a"}, m.Libraries())
	assert.Equal(t, []string{"x", "y"}, m.Expressions("a"))
}

func TestReport_Skipped(t *testing.T) {
	t.Parallel()
	rep := Report{Denied: 1, WithoutExtractors: 2, Malformed: 3, Discarded: 4, Entries: 10}
	assert.Equal(t, 10, rep.Skipped())
}
