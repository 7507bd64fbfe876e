package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "alternation keeps order",
			raw:  "(a|b|c).version",
			want: []string{"a.version", "b.version", "c.version"},
		},
		{
			name: "empty alternative dropped",
			raw:  "(|a).version",
			want: []string{"a.version"},
		},
		{
			name: "dollar identifiers",
			raw:  "(jQuery|$).fn.jquery",
			want: []string{"jQuery.fn.jquery", "$.fn.jquery"},
		},
		{
			name: "whitespace removed before matching",
			raw:  "( a | b ).VERSION",
			want: []string{"a.VERSION", "b.VERSION"},
		},
		{
			name: "suffix runs to end of expression",
			raw:  "(a|b).c.d()",
			want: []string{"a.c.d()", "b.c.d()"},
		},
		{
			name: "constructor discarded",
			raw:  "new Foo().bar",
			want: nil,
		},
		{
			name: "constructor check ignores case",
			raw:  "NEW Foo().bar",
			want: nil,
		},
		{
			name: "plain call passes through",
			raw:  "plain.expr()",
			want: []string{"plain.expr()"},
		},
		{
			name: "pass-through keeps original spacing",
			raw:  "a.b || c.d",
			want: []string{"a.b || c.d"},
		},
		{
			name: "only empty alternatives",
			raw:  "(||).x",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Split(tt.raw))
		})
	}
}

// A group that is not immediately followed by "." is not compound and keeps
// its pipes.
func TestSplit_AlternationWithoutDotIsLiteral(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"(a|b)[0].version"}, Split("(a|b)[0].version"))
	assert.Equal(t, []string{"(a|b)"}, Split("(a|b)"))
}

func TestSplit_GroupMustLeadExpression(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"x.(a|b).y"}, Split("x.(a|b).y"))
}

func TestSplit_GroupWithDigitsIsLiteral(t *testing.T) {
	t.Parallel()
	// Digits are outside the alternation alphabet.
	assert.Equal(t, []string{"(a1|b).v"}, Split("(a1|b).v"))
}
