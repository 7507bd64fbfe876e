package libreveal

import (
	"github.com/jward/libreveal/internal/script"
	"github.com/jward/libreveal/internal/signature"
)

// Compilation is the output of Compile.
type Compilation struct {
	Script string
	Map    *signature.ExtractorMap
	Report signature.Report
}

// Compile turns signature documents into the detection script. Documents are
// merged in the order given; later documents add to earlier ones and never
// override them. The same documents always produce the same script.
func Compile(docs ...signature.Document) Compilation {
	m, report := signature.Normalize(docs...)
	return Compilation{
		Script: script.Assemble(m),
		Map:    m,
		Report: report,
	}
}

// CompileJSON parses each feed and compiles them.
func CompileJSON(feeds ...[]byte) (Compilation, error) {
	docs := make([]signature.Document, 0, len(feeds))
	for _, data := range feeds {
		doc, err := signature.ParseDocument(data)
		if err != nil {
			return Compilation{}, err
		}
		docs = append(docs, doc)
	}
	return Compile(docs...), nil
}

// Expansion is one atomic expression produced from a raw extractor, with the
// guard the script will test before evaluating it.
type Expansion struct {
	Expression string `json:"expression"`
	Guard      string `json:"guard"`
}

// Expand shows how a single raw extractor is compiled.
func Expand(raw string) []Expansion {
	atoms := signature.Split(raw)
	out := make([]Expansion, 0, len(atoms))
	for _, atom := range atoms {
		out = append(out, Expansion{Expression: atom, Guard: script.Guard(atom)})
	}
	return out
}
