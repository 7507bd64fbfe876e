package signature

import "strings"

// DeniedKey is the feed key of the RetireJS sample entry. It never describes
// a real library.
const DeniedKey = "retire-example"

// Report counts what a normalization run consumed and what it dropped.
type Report struct {
	Documents         int `json:"documents"`
	Entries           int `json:"entries"`
	Denied            int `json:"denied"`
	WithoutExtractors int `json:"without_extractors"`
	Malformed         int `json:"malformed"`
	RawExpressions    int `json:"raw_expressions"`
	AtomicExpressions int `json:"atomic_expressions"`
	Discarded         int `json:"discarded"`
}

// Skipped is the number of entries and values that contributed nothing.
func (r Report) Skipped() int {
	return r.Denied + r.WithoutExtractors + r.Malformed + r.Discarded
}

// ExtractorMap maps canonical library names to atomic expressions. Libraries
// iterate in the order they were first seen.
type ExtractorMap struct {
	order []string
	exprs map[string][]string
}

// NewExtractorMap returns an empty map.
func NewExtractorMap() *ExtractorMap {
	return &ExtractorMap{exprs: make(map[string][]string)}
}

// Append adds expressions to a library, creating the library entry if it does
// not exist yet. Calling Append with no expressions still creates the entry.
func (m *ExtractorMap) Append(library string, exprs ...string) {
	if _, ok := m.exprs[library]; !ok {
		m.order = append(m.order, library)
		m.exprs[library] = nil
	}
	m.exprs[library] = append(m.exprs[library], exprs...)
}

// Libraries returns library names in insertion order.
func (m *ExtractorMap) Libraries() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Expressions returns the atomic expressions of a library.
func (m *ExtractorMap) Expressions(library string) []string {
	exprs := m.exprs[library]
	out := make([]string, len(exprs))
	copy(out, exprs)
	return out
}

// Len returns the number of libraries.
func (m *ExtractorMap) Len() int {
	return len(m.order)
}

// ExpressionCount returns the number of atomic expressions across all
// libraries.
func (m *ExtractorMap) ExpressionCount() int {
	n := 0
	for _, exprs := range m.exprs {
		n += len(exprs)
	}
	return n
}

// Each calls fn for every library in insertion order.
func (m *ExtractorMap) Each(fn func(library string, exprs []string)) {
	for _, name := range m.order {
		fn(name, m.exprs[name])
	}
}

// Normalize builds the extractor map from documents processed in order.
// Later documents add to, and never replace, what earlier ones contributed.
//
// The deny check looks at the raw feed key, not the resolved alias, so an
// entry whose alias is "retire-example" is still compiled.
func Normalize(docs ...Document) (*ExtractorMap, Report) {
	m := NewExtractorMap()
	var rep Report

	for _, doc := range docs {
		rep.Documents++
		rep.Malformed += doc.Malformed

		for _, entry := range doc.Entries {
			rep.Entries++
			if isDenied(entry.Key) {
				rep.Denied++
				continue
			}

			name := CanonicalName(entry.Key, entry.Descriptor)
			if len(entry.Descriptor.Extractors) == 0 {
				rep.WithoutExtractors++
				continue
			}

			for _, raw := range entry.Descriptor.Extractors {
				rep.RawExpressions++
				atoms := Split(raw)
				if len(atoms) == 0 {
					rep.Discarded++
				}
				rep.AtomicExpressions += len(atoms)
				m.Append(name, atoms...)
			}
		}
	}

	return m, rep
}

// CanonicalName resolves the library name of an entry: the first alias when
// one exists, otherwise the raw key.
func CanonicalName(key string, desc Descriptor) string {
	if len(desc.Aliases) > 0 {
		return desc.Aliases[0]
	}
	return key
}

func isDenied(key string) bool {
	return strings.EqualFold(key, DeniedKey)
}
