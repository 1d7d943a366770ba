package lexer

import (
	"errors"
	"testing"

	"github.com/kolkov/ustep/internal/token"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error = %v", src, err)
	}
	return toks
}

func TestScanOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Token
	}{
		{"+", []token.Token{token.ADD, token.EOF}},
		{"++", []token.Token{token.INCR, token.EOF}},
		{"+++", []token.Token{token.INCR, token.ADD, token.EOF}},
		{"+=", []token.Token{token.ADD_ASSIGN, token.EOF}},
		{"-=", []token.Token{token.SUB_ASSIGN, token.EOF}},
		{"<<=", []token.Token{token.SHL_ASSIGN, token.EOF}},
		{">>", []token.Token{token.SHR, token.EOF}},
		{">>>", []token.Token{token.USHR, token.EOF}},
		{">>>=", []token.Token{token.USHR_ASSIGN, token.EOF}},
		{"==", []token.Token{token.EQUALS, token.EOF}},
		{"===", []token.Token{token.STRICT_EQ, token.EOF}},
		{"!==", []token.Token{token.STRICT_NE, token.EOF}},
		{"!=", []token.Token{token.NOT_EQUALS, token.EOF}},
		{"!", []token.Token{token.NOT, token.EOF}},
		{"&&", []token.Token{token.AND, token.EOF}},
		{"&=", []token.Token{token.AND_ASSIGN, token.EOF}},
		{"||", []token.Token{token.OR, token.EOF}},
		{"^", []token.Token{token.BIT_XOR, token.EOF}},
		{"~", []token.Token{token.TILDE, token.EOF}},
		{"a.b", []token.Token{token.IDENT, token.DOT, token.IDENT, token.EOF}},
		{"x /= 1", []token.Token{token.IDENT, token.DIV_ASSIGN, token.NUMBER, token.EOF}},
		{"a ? b : c", []token.Token{token.IDENT, token.QUESTION, token.IDENT, token.COLON, token.IDENT, token.EOF}},
		{"f(a, [1]);", []token.Token{
			token.IDENT, token.LPAREN, token.IDENT, token.COMMA, token.LBRACKET,
			token.NUMBER, token.RBRACKET, token.RPAREN, token.SEMICOLON, token.EOF,
		}},
		{"{}", []token.Token{token.LBRACE, token.RBRACE, token.EOF}},
		{"@", []token.Token{token.ILLEGAL, token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := scanAll(t, tt.input)
			if len(toks) != len(tt.expected) {
				t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tt.expected), toks)
			}
			for i, exp := range tt.expected {
				if toks[i].Type != exp {
					t.Errorf("token[%d]: expected %v, got %v", i, exp, toks[i].Type)
				}
			}
		})
	}
}

func TestScanKeywords(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Token
	}{
		{"var", token.VAR},
		{"if", token.IF},
		{"else", token.ELSE},
		{"while", token.WHILE},
		{"for", token.FOR},
		{"do", token.DO},
		{"break", token.BREAK},
		{"continue", token.CONTINUE},
		{"return", token.RETURN},
		{"switch", token.SWITCH},
		{"case", token.CASE},
		{"default", token.DEFAULT},
		{"function", token.FUNCTION},
		{"new", token.NEW},
		{"this", token.THIS},
		{"typeof", token.TYPEOF},
		{"instanceof", token.INSTANCEOF},
		{"in", token.IN},
		{"null", token.NULL},
		{"undefined", token.UNDEFINED},
		{"true", token.TRUE},
		{"false", token.FALSE},
		{"NaN", token.NAN},
		{"Infinity", token.INFINITY},
		{"class", token.RESERVED},
		{"variable", token.IDENT},
		{"$el", token.IDENT},
		{"_private", token.IDENT},
		{"x1", token.IDENT},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := scanAll(t, tt.input)
			if toks[0].Type != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, toks[0].Type)
			}
			if toks[0].Value != tt.input {
				t.Errorf("value = %q, want %q", toks[0].Value, tt.input)
			}
		})
	}
}

func TestScanNumbers(t *testing.T) {
	valid := []string{
		"0", "42", "3.14", ".5", "5.", "1e10", "1E10", "1e+5", "1e-5",
		"2.5e3", "2.5E+3", "2.5e-3", "2.e3", ".5e2", ".5e+2", ".5e-2",
		"0x1F", "0xff", "0XAB", "0x1e",
	}
	for _, src := range valid {
		t.Run(src, func(t *testing.T) {
			toks := scanAll(t, src)
			if toks[0].Type != token.NUMBER {
				t.Fatalf("type = %v, want number", toks[0].Type)
			}
			if toks[0].Value != src {
				t.Errorf("value = %q, want %q", toks[0].Value, src)
			}
			if toks[1].Type != token.EOF {
				t.Errorf("trailing token %v", toks[1])
			}
		})
	}
}

func TestScanNumberFollowedBySign(t *testing.T) {
	toks := scanAll(t, "1+2-3")
	want := []token.Token{token.NUMBER, token.ADD, token.NUMBER, token.SUB, token.NUMBER, token.EOF}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestScanMalformedNumbers(t *testing.T) {
	for _, src := range []string{"1.2.3", "12abc", "1e", "1e+", "0x", "5x3", "1xF"} {
		t.Run(src, func(t *testing.T) {
			_, err := Tokenize(src)
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("Tokenize(%q) error = %v, want *LexError", src, err)
			}
			if lexErr.Pos.Offset != 0 {
				t.Errorf("error offset = %d, want 0", lexErr.Pos.Offset)
			}
		})
	}
}

func TestScanStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`'single'`, "single"},
		{`"it's"`, "it's"},
		{`'say "hi"'`, `say "hi"`},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"q\"q"`, `q"q`},
		{`'q\'q'`, "q'q"},
		{`"back\\slash"`, `back\slash`},
		{`"\x41\x42"`, "AB"},
		{`"été"`, "été"},
		{`"\q"`, "q"},
		{`"multi
line"`, "multi\nline"},
		{`"привет"`, "привет"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := scanAll(t, tt.input)
			if toks[0].Type != token.STRING {
				t.Fatalf("type = %v, want string", toks[0].Type)
			}
			if toks[0].Value != tt.want {
				t.Errorf("value = %q, want %q", toks[0].Value, tt.want)
			}
		})
	}
}

func TestScanStringErrors(t *testing.T) {
	for _, src := range []string{`"open`, `'open\`, `"\x4"`, `"\uZZZZ"`} {
		t.Run(src, func(t *testing.T) {
			if _, err := Tokenize(src); err == nil {
				t.Errorf("Tokenize(%q) expected error", src)
			}
		})
	}
}

func TestSkipComments(t *testing.T) {
	src := "a // line comment\n/* block\ncomment */ b / c"
	toks := scanAll(t, src)
	want := []token.Token{token.IDENT, token.IDENT, token.DIV, token.IDENT, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %v", toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Type, w)
		}
	}
	if toks[1].Pos.Line != 3 {
		t.Errorf("b line = %d, want 3", toks[1].Pos.Line)
	}

	if _, err := Tokenize("a /* never closed"); err == nil {
		t.Error("expected error for unterminated comment")
	}
}

func TestPositions(t *testing.T) {
	toks := scanAll(t, "var x = 1;\n  x += 2;")
	tests := []struct {
		idx    int
		line   int
		column int
		offset int
	}{
		{0, 1, 1, 0},  // var
		{1, 1, 5, 4},  // x
		{3, 1, 9, 8},  // 1
		{5, 2, 3, 13}, // x
		{6, 2, 5, 15}, // +=
	}
	for _, tt := range tests {
		pos := toks[tt.idx].Pos
		if pos.Line != tt.line || pos.Column != tt.column || pos.Offset != tt.offset {
			t.Errorf("token[%d] %v at %d:%d@%d, want %d:%d@%d", tt.idx, toks[tt.idx].Type,
				pos.Line, pos.Column, pos.Offset, tt.line, tt.column, tt.offset)
		}
	}
}

func TestPeekIsIdempotent(t *testing.T) {
	l := NewFromString("a = b + 1")
	for i := 0; i < 3; i++ {
		tok, err := l.Peek(2)
		if err != nil {
			t.Fatalf("Peek(2) error = %v", err)
		}
		if tok.Type != token.IDENT || tok.Value != "b" {
			t.Fatalf("Peek(2) = %v, want identifier b", tok)
		}
	}
	first, err := l.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if first.Value != "a" {
		t.Errorf("Next() = %v, want a", first)
	}
	if l.Current().Value != "a" {
		t.Errorf("Current() = %v, want a", l.Current())
	}
	tok, _ := l.Peek(0)
	if tok.Type != token.ASSIGN {
		t.Errorf("Peek(0) = %v, want =", tok)
	}
}

func TestPeekPastEOF(t *testing.T) {
	l := NewFromString("x")
	for k := 1; k < 4; k++ {
		tok, err := l.Peek(k)
		if err != nil {
			t.Fatalf("Peek(%d) error = %v", k, err)
		}
		if tok.Type != token.EOF {
			t.Errorf("Peek(%d) = %v, want EOF", k, tok)
		}
	}
}

func TestErrorIsSticky(t *testing.T) {
	l := NewFromString(`a "open`)
	if _, err := l.Next(); err != nil {
		t.Fatalf("first Next() error = %v", err)
	}
	_, err1 := l.Next()
	_, err2 := l.Peek(0)
	if err1 == nil || err1 != err2 {
		t.Errorf("errors = %v, %v; want the same LexError twice", err1, err2)
	}
}
