package lexer

import (
	"github.com/coregx/coregex"

	"github.com/kolkov/ustep/internal/token"
)

// Numeric literals are validated by shape. Every character is mapped to a
// class (9 digit, F hex digit, . point, E exponent, x hex marker, + and -
// exponent sign), runs of 9 or F collapse, and the resulting pattern must
// be one of the accepted shapes below.
var numberShapes = mustCompile(`^(?:\.9(?:E[+-]?9)?|9\.9?(?:E[+-]?9)?|9(?:E[+-]?9)?|9xF)$`)

func mustCompile(pattern string) *coregex.Regexp {
	re, err := coregex.Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// numberClass returns the shape class of ch given the classes seen so far.
// It returns 0 when ch cannot continue the literal.
func numberClass(ch rune, shape []byte) byte {
	hex := len(shape) >= 2 && shape[1] == 'x'
	var last byte
	if len(shape) > 0 {
		last = shape[len(shape)-1]
	}
	switch {
	case isDigit(ch):
		if hex {
			return 'F'
		}
		return '9'
	case hex && isHexDigit(ch):
		return 'F'
	case ch == 'x' || ch == 'X':
		if len(shape) == 1 && shape[0] == '9' {
			return 'x'
		}
		return 0
	case ch == 'e' || ch == 'E':
		return 'E'
	case isHexDigit(ch):
		// Stray hex letters join the literal: 12abc is one malformed number.
		return 'F'
	case ch == '.':
		return '.'
	case ch == '+' || ch == '-':
		if last == 'E' {
			return byte(ch)
		}
	}
	return 0
}

func (l *Lexer) scanNumber(pos token.Position) (Token, error) {
	start := pos.Offset
	shape := make([]byte, 0, 8)
	for l.ch >= 0 {
		class := numberClass(l.ch, shape)
		if class == 0 {
			break
		}
		if n := len(shape); n == 0 || class != shape[n-1] || (class != '9' && class != 'F') {
			shape = append(shape, class)
		}
		l.next()
	}

	text := string(l.src[start:l.endOffset()])
	if !numberShapes.MatchString(string(shape)) {
		return Token{}, errorf(pos, "malformed number %q", text)
	}
	if shape[len(shape)-1] == 'F' && text[0] != '0' {
		return Token{}, errorf(pos, "malformed hex number %q", text)
	}
	return Token{Type: token.NUMBER, Pos: pos, Value: text}, nil
}
