package signature

import (
	"regexp"
	"strings"
	"unicode"
)

// alternationPattern matches a leading alternation group followed by a
// member access, e.g. "(jQuery|$).fn". Only this shape is treated as compound.
var alternationPattern = regexp.MustCompile(`^\(([A-Za-z$|]+)\)\.`)

// constructorPrefix marks extractors that build an object. They cannot be
// guarded with typeof and are dropped.
const constructorPrefix = "new "

// Split expands a raw extractor expression into atomic expressions.
//
// "(a|b|$c).VERSION" yields "a.VERSION", "b.VERSION" and "$c.VERSION". Empty
// alternatives are dropped. Anything that is not a leading alternation group
// immediately followed by "." is returned unchanged as the only result,
// unless it starts with "new " (any case), in which case nothing is returned.
func Split(raw string) []string {
	stripped := stripSpace(raw)

	m := alternationPattern.FindStringSubmatch(stripped)
	if m == nil {
		if strings.HasPrefix(strings.ToLower(raw), constructorPrefix) {
			return nil
		}
		return []string{raw}
	}

	_, suffix, _ := strings.Cut(stripped, ")")
	var out []string
	for _, alt := range strings.Split(m[1], "|") {
		if alt == "" {
			continue
		}
		out = append(out, alt+suffix)
	}
	return out
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
