// Package lexer provides on-demand tokenization of script source.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kolkov/ustep/internal/token"
)

// Lexer produces a lazy, peekable token stream. Tokens are scanned only
// when Peek or Next needs them; scanned tokens stay buffered until
// consumed.
type Lexer struct {
	src     []byte         // Source code
	ch      rune           // Current character (-1 at EOF)
	offset  int            // Byte offset after ch
	pos     token.Position // Position of ch
	nextPos token.Position // Position of the character after ch

	ahead []Token // Scanned but not yet consumed tokens
	cur   Token   // Last consumed token
	err   error   // First lexical error, sticky
}

// New creates a new Lexer for the given source code.
func New(src []byte) *Lexer {
	l := &Lexer{
		src: src,
		nextPos: token.Position{
			Line:   1,
			Column: 1,
		},
	}
	l.next()
	return l
}

// NewFromString creates a new Lexer from a string.
func NewFromString(src string) *Lexer {
	return New([]byte(src))
}

// SetFilename attaches a file name to every position produced from now on.
func (l *Lexer) SetFilename(name string) {
	l.pos.Filename = name
	l.nextPos.Filename = name
}

// Token represents a scanned token with its position and value.
// Value holds the source spelling, or the decoded text for strings.
type Token struct {
	Type  token.Token
	Pos   token.Position
	End   token.Position // Position just after the token
	Value string
}

// String returns a short description of the token for error messages.
func (t Token) String() string {
	switch t.Type {
	case token.IDENT, token.NUMBER:
		return t.Type.String() + " " + t.Value
	case token.STRING:
		return "string \"" + t.Value + "\""
	case token.ILLEGAL:
		return "illegal character " + t.Value
	}
	return t.Type.String()
}

// Peek returns the k-th token ahead of the cursor without consuming it.
// Peek(0) is the token the next call to Next will return.
func (l *Lexer) Peek(k int) (Token, error) {
	for len(l.ahead) <= k {
		if l.err != nil {
			return Token{}, l.err
		}
		tok, err := l.scan()
		if err != nil {
			l.err = err
			return Token{}, err
		}
		tok.End = l.pos
		l.ahead = append(l.ahead, tok)
	}
	return l.ahead[k], nil
}

// Next consumes and returns the token at the cursor.
func (l *Lexer) Next() (Token, error) {
	tok, err := l.Peek(0)
	if err != nil {
		return Token{}, err
	}
	l.ahead = l.ahead[1:]
	l.cur = tok
	return tok, nil
}

// Current returns the last token consumed by Next.
func (l *Lexer) Current() Token {
	return l.cur
}

// Tokenize scans the whole source and returns every token up to and
// including EOF.
func Tokenize(src string) ([]Token, error) {
	l := NewFromString(src)
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) scan() (Token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}

	pos := l.pos
	switch ch := l.ch; {
	case ch < 0:
		return Token{Type: token.EOF, Pos: pos}, nil
	case isIdentStart(ch):
		return l.scanIdent(pos), nil
	case isDigit(ch), ch == '.' && isDigit(l.peekByte(0)):
		return l.scanNumber(pos)
	case ch == '"' || ch == '\'':
		return l.scanString(pos)
	}
	return l.scanOperator(pos), nil
}

// scanOperator extends the operator greedily while the longer spelling is
// still a known operator.
func (l *Lexer) scanOperator(pos token.Position) Token {
	start := pos.Offset
	end := l.offset
	tok, ok := token.LookupOperator(string(l.src[start:end]))
	if !ok {
		illegal := string(l.ch)
		l.next()
		return Token{Type: token.ILLEGAL, Pos: pos, Value: illegal}
	}
	for end < len(l.src) {
		longer, ok := token.LookupOperator(string(l.src[start : end+1]))
		if !ok {
			break
		}
		tok = longer
		end++
	}
	for l.ch >= 0 && l.pos.Offset < end {
		l.next()
	}
	return Token{Type: tok, Pos: pos, Value: string(l.src[start:end])}
}

func (l *Lexer) scanIdent(pos token.Position) Token {
	start := pos.Offset
	for isIdentContinue(l.ch) {
		l.next()
	}
	name := string(l.src[start:l.endOffset()])
	return Token{Type: token.LookupIdent(name), Pos: pos, Value: name}
}

func (l *Lexer) scanString(pos token.Position) (Token, error) {
	quote := l.ch
	l.next()

	var sb strings.Builder
	for l.ch != quote {
		if l.ch < 0 {
			return Token{}, errorf(pos, "unterminated string literal")
		}
		if l.ch != '\\' {
			sb.WriteRune(l.ch)
			l.next()
			continue
		}

		escPos := l.pos
		l.next()
		switch l.ch {
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case 'x', 'u':
			digits := 2
			if l.ch == 'u' {
				digits = 4
			}
			r, ok := l.scanHex(digits)
			if !ok {
				return Token{}, errorf(escPos, "invalid \\%c escape", l.ch)
			}
			sb.WriteRune(r)
			continue
		case -1:
			return Token{}, errorf(pos, "unterminated string literal")
		default:
			sb.WriteRune(l.ch)
		}
		l.next()
	}
	l.next() // closing quote

	return Token{Type: token.STRING, Pos: pos, Value: sb.String()}, nil
}

// scanHex reads exactly n hex digits following the escape letter at l.ch.
func (l *Lexer) scanHex(n int) (rune, bool) {
	var r rune
	for i := 0; i < n; i++ {
		c := l.peekByte(i)
		if !isHexDigit(rune(c)) {
			return 0, false
		}
		r = r*16 + rune(hexValue(rune(c)))
	}
	for i := 0; i <= n; i++ {
		l.next()
	}
	return r, true
}

func (l *Lexer) skipSpaceAndComments() error {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v':
			l.next()
		case l.ch >= utf8.RuneSelf && unicode.IsSpace(l.ch):
			l.next()
		case l.ch == '/' && l.peekByte(0) == '/':
			for l.ch >= 0 && l.ch != '\n' {
				l.next()
			}
		case l.ch == '/' && l.peekByte(0) == '*':
			start := l.pos
			l.next()
			l.next()
			for !(l.ch == '*' && l.peekByte(0) == '/') {
				if l.ch < 0 {
					return errorf(start, "unterminated comment")
				}
				l.next()
			}
			l.next()
			l.next()
		default:
			return nil
		}
	}
}

// endOffset returns the byte offset just past the last consumed character.
func (l *Lexer) endOffset() int {
	if l.ch < 0 {
		return len(l.src)
	}
	return l.pos.Offset
}

// peekByte returns the byte i positions after the current character,
// or 0 past the end of input.
func (l *Lexer) peekByte(i int) byte {
	if l.offset+i < len(l.src) {
		return l.src[l.offset+i]
	}
	return 0
}

func (l *Lexer) next() {
	if l.offset >= len(l.src) {
		if l.ch >= 0 {
			l.pos = l.nextPos
		}
		l.ch = -1
		return
	}

	l.pos = l.nextPos

	r, size := rune(l.src[l.offset]), 1
	if r >= utf8.RuneSelf {
		r, size = utf8.DecodeRune(l.src[l.offset:])
	}
	l.ch = r
	l.offset += size
	l.nextPos.Offset = l.offset
	l.nextPos.Column++
	if r == '\n' {
		l.nextPos.Line++
		l.nextPos.Column = 1
	}
}

// Helper functions

func isDigit[T rune | byte](ch T) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch rune) int {
	if ch >= '0' && ch <= '9' {
		return int(ch - '0')
	}
	if ch >= 'a' && ch <= 'f' {
		return int(ch - 'a' + 10)
	}
	return int(ch - 'A' + 10)
}

func isIdentStart(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$' ||
		(ch >= utf8.RuneSelf && unicode.IsLetter(ch))
}

func isIdentContinue(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}
