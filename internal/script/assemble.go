package script

import (
	"strings"

	"github.com/jward/libreveal/internal/signature"
)

// Header is the first line of every generated script.
const Header = "// libreveal.js"

// LogPrefix starts every detection message printed by the generated script.
const LogPrefix = "libreveal.js: "

// guardedBlock is one detection branch of a library's if/else-if chain.
type guardedBlock struct {
	library string
	expr    string
	guard   string
}

func (g guardedBlock) write(b *strings.Builder, first bool) {
	b.WriteString("\n")
	if first {
		b.WriteString("if ")
	} else {
		b.WriteString("else if ")
	}
	b.WriteString(g.guard)
	b.WriteString("\n{\n\tconsole.log(\"")
	b.WriteString(LogPrefix)
	b.WriteString(g.library)
	b.WriteString(` @ " + `)
	b.WriteString(g.expr)
	b.WriteString(");\n}")
}

// Assemble renders the detection script. Libraries appear in map order, each
// under a "// <library>" comment, and each library's expressions form one
// if/else-if chain so at most one detection per library is logged.
func Assemble(m *signature.ExtractorMap) string {
	var b strings.Builder
	b.WriteString(Header)

	m.Each(func(library string, exprs []string) {
		b.WriteString("\n\n// ")
		b.WriteString(library)
		for i, expr := range exprs {
			blk := guardedBlock{library: library, expr: expr, guard: Guard(expr)}
			blk.write(&b, i == 0)
		}
	})

	return b.String()
}
