// Package script generates the libreveal.js detection script from an
// extractor map and compacts it for the minified artifact.
package script

import "strings"

// Guard returns a JavaScript boolean expression that holds only when every
// dotted prefix of the expression's leading token is defined, e.g.
//
//	a.b.c -> (typeof a !== "undefined" && typeof a.b !== "undefined" && typeof a.b.c !== "undefined")
//
// Only the first space-delimited token is guarded. When the root of the
// chain is itself a call, as in getLib().version, the first clause tests the
// function name instead of its result.
func Guard(expr string) string {
	token, _, _ := strings.Cut(expr, " ")

	var (
		b      strings.Builder
		prefix string
	)
	b.WriteString("(")
	for i, part := range strings.Split(token, ".") {
		if i > 0 {
			b.WriteString(" && ")
			prefix += "."
		}
		prefix += part
		b.WriteString("typeof ")
		b.WriteString(prefix)
		b.WriteString(` !== "undefined"`)
	}
	b.WriteString(")")

	return guardRootCall(b.String())
}

// guardRootCall rewrites the first typeof operand when it contains a closing
// parenthesis, so "typeof getLib() !==" becomes "typeof getLib !==".
func guardRootCall(guard string) string {
	fields := strings.SplitN(guard, " ", 3)
	if len(fields) < 3 {
		return guard
	}
	root := fields[1]
	if !strings.Contains(root, ")") {
		return guard
	}
	name, _, _ := strings.Cut(root, "(")
	return strings.Replace(guard, root, name, 1)
}
