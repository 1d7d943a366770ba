package lexer

import (
	"testing"

	"github.com/kolkov/ustep/internal/token"
)

// FuzzLexer checks that the lexer never panics, always terminates, and
// produces tokens with monotonically increasing offsets.
func FuzzLexer(f *testing.F) {
	seeds := []string{
		// Statements
		`var x = 1;`,
		`if (a < b) { a++; } else { b--; }`,
		`for (var k in obj) { total += obj[k]; }`,
		`switch (x) { case 1: y = 2; break; default: y = 3; }`,

		// Expressions
		`a.b[c](d, e).f`,
		`x >>>= 2; y = x === z ? p : q`,
		`new Point(1, 2)`,
		`function (a: Number, b) : String { return a + b; }`,

		// Numbers
		`123 456.789 .5 1e10 0x1A 2.e-3`,
		`1.2.3 12abc 0x`,

		// Strings
		`"hello" 'world' "tab\there" "\x41B"`,
		`"unterminated`,

		// Comments
		`// only a comment`,
		`/* block */ a /* never closed`,

		// Unicode and junk
		`"привет мир"`,
		`@#`,
		``,
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		l := New(data)
		last := -1
		for i := 0; i <= len(data)+1; i++ {
			tok, err := l.Next()
			if err != nil {
				return
			}
			if tok.Pos.Offset < last {
				t.Fatalf("offset went backwards: %d after %d", tok.Pos.Offset, last)
			}
			last = tok.Pos.Offset
			if tok.Type == token.EOF {
				return
			}
		}
		t.Fatalf("lexer did not reach EOF within %d tokens", len(data)+2)
	})
}
