package script

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"go.uber.org/zap"
)

// Minifier compacts JavaScript by re-emitting its tree-sitter tokens without
// comments or layout whitespace.
type Minifier struct {
	logger *zap.SugaredLogger
}

// NewMinifier returns a Minifier. A nil logger disables logging.
func NewMinifier(logger *zap.SugaredLogger) *Minifier {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Minifier{logger: logger}
}

// atomicNodes are emitted verbatim because their inner whitespace matters.
var atomicNodes = map[string]bool{
	"string":          true,
	"template_string": true,
	"regex":           true,
	"number":          true,
}

// Minify returns src without comments and with whitespace kept only where
// two tokens would otherwise merge. Syntax errors are logged and the
// recovered token stream is still emitted.
func (m *Minifier) Minify(ctx context.Context, src string) (string, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	source := []byte(src)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return "", errors.Wrap(err, "minify: parse")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		m.logger.Warnw("generated script has syntax errors; minifying recovered tokens",
			"bytes", len(source))
	}

	var w tokenWriter
	collectTokens(root, source, &w)
	return w.String(), nil
}

func collectTokens(n *sitter.Node, src []byte, w *tokenWriter) {
	if n.IsMissing() {
		return
	}
	typ := n.Type()
	if typ == "comment" || typ == "html_comment" {
		return
	}
	count := int(n.ChildCount())
	if count == 0 || atomicNodes[typ] {
		w.write(n.Content(src), typ)
		return
	}
	for i := 0; i < count; i++ {
		collectTokens(n.Child(i), src, w)
	}
}

// tokenWriter joins tokens, inserting a single space only where the two
// tokens would otherwise read as one: word tokens, fusing operators
// ("+ +", "- -"), a slash before a regex or comment opener, and a number
// before a member dot.
type tokenWriter struct {
	b        strings.Builder
	last     rune
	lastType string
}

func (w *tokenWriter) write(tok, typ string) {
	if tok == "" {
		return
	}
	first, _ := utf8.DecodeRuneInString(tok)
	if w.b.Len() > 0 && (needsSpace(w.last, first) || (w.lastType == "number" && first == '.')) {
		w.b.WriteByte(' ')
	}
	w.b.WriteString(tok)
	w.last, _ = utf8.DecodeLastRuneInString(tok)
	w.lastType = typ
}

func (w *tokenWriter) String() string {
	return w.b.String()
}

func needsSpace(prev, next rune) bool {
	if isWordRune(prev) && isWordRune(next) {
		return true
	}
	if (prev == '+' || prev == '-') && prev == next {
		return true
	}
	return prev == '/' && (next == '/' || next == '*')
}

func isWordRune(r rune) bool {
	return r == '_' || r == '$' || r == '\\' || unicode.IsLetter(r) || unicode.IsDigit(r) || r >= utf8.RuneSelf
}
