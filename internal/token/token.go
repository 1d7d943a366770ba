// Package token defines the lexical tokens of the scripting language.
package token

import "strconv"

// Token represents a lexical token type.
type Token uint8

const (
	// Special tokens
	ILLEGAL Token = iota
	EOF

	// Operators and punctuation
	operatorStart
	ADD         // +
	ADD_ASSIGN  // +=
	SUB         // -
	SUB_ASSIGN  // -=
	MUL         // *
	MUL_ASSIGN  // *=
	DIV         // /
	DIV_ASSIGN  // /=
	MOD         // %
	MOD_ASSIGN  // %=
	SHL         // <<
	SHL_ASSIGN  // <<=
	SHR         // >>
	SHR_ASSIGN  // >>=
	USHR        // >>>
	USHR_ASSIGN // >>>=
	BIT_AND     // &
	AND_ASSIGN  // &=
	BIT_OR      // |
	OR_ASSIGN   // |=
	BIT_XOR     // ^
	XOR_ASSIGN  // ^=

	ASSIGN     // =
	EQUALS     // ==
	NOT_EQUALS // !=
	STRICT_EQ  // ===
	STRICT_NE  // !==
	LESS       // <
	LTE        // <=
	GREATER    // >
	GTE        // >=

	AND   // &&
	OR    // ||
	NOT   // !
	TILDE // ~
	INCR  // ++
	DECR  // --

	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	QUESTION  // ?
	DOT       // .
	operatorEnd

	// Keywords
	keywordStart
	BREAK
	CASE
	CATCH
	CONTINUE
	DEFAULT
	DELETE
	DO
	ELSE
	FINALLY
	FOR
	FUNCTION
	IF
	IN
	INSTANCEOF
	NEW
	RETURN
	SWITCH
	THIS
	THROW
	TRY
	TYPEOF
	VAR
	VOID
	WHILE
	WITH
	keywordEnd

	// RESERVED is a future reserved word; it is never a valid identifier.
	RESERVED

	// Literals
	IDENT
	NUMBER
	STRING
	NULL
	UNDEFINED
	TRUE
	FALSE
	NAN
	INFINITY
)

var tokenNames = [...]string{
	ILLEGAL: "illegal",
	EOF:     "end of file",

	ADD:         "+",
	ADD_ASSIGN:  "+=",
	SUB:         "-",
	SUB_ASSIGN:  "-=",
	MUL:         "*",
	MUL_ASSIGN:  "*=",
	DIV:         "/",
	DIV_ASSIGN:  "/=",
	MOD:         "%",
	MOD_ASSIGN:  "%=",
	SHL:         "<<",
	SHL_ASSIGN:  "<<=",
	SHR:         ">>",
	SHR_ASSIGN:  ">>=",
	USHR:        ">>>",
	USHR_ASSIGN: ">>>=",
	BIT_AND:     "&",
	AND_ASSIGN:  "&=",
	BIT_OR:      "|",
	OR_ASSIGN:   "|=",
	BIT_XOR:     "^",
	XOR_ASSIGN:  "^=",
	ASSIGN:      "=",
	EQUALS:      "==",
	NOT_EQUALS:  "!=",
	STRICT_EQ:   "===",
	STRICT_NE:   "!==",
	LESS:        "<",
	LTE:         "<=",
	GREATER:     ">",
	GTE:         ">=",
	AND:         "&&",
	OR:          "||",
	NOT:         "!",
	TILDE:       "~",
	INCR:        "++",
	DECR:        "--",
	LPAREN:      "(",
	RPAREN:      ")",
	LBRACE:      "{",
	RBRACE:      "}",
	LBRACKET:    "[",
	RBRACKET:    "]",
	COMMA:       ",",
	SEMICOLON:   ";",
	COLON:       ":",
	QUESTION:    "?",
	DOT:         ".",

	BREAK:      "break",
	CASE:       "case",
	CATCH:      "catch",
	CONTINUE:   "continue",
	DEFAULT:    "default",
	DELETE:     "delete",
	DO:         "do",
	ELSE:       "else",
	FINALLY:    "finally",
	FOR:        "for",
	FUNCTION:   "function",
	IF:         "if",
	IN:         "in",
	INSTANCEOF: "instanceof",
	NEW:        "new",
	RETURN:     "return",
	SWITCH:     "switch",
	THIS:       "this",
	THROW:      "throw",
	TRY:        "try",
	TYPEOF:     "typeof",
	VAR:        "var",
	VOID:       "void",
	WHILE:      "while",
	WITH:       "with",

	RESERVED:  "reserved word",
	IDENT:     "identifier",
	NUMBER:    "number",
	STRING:    "string",
	NULL:      "null",
	UNDEFINED: "undefined",
	TRUE:      "true",
	FALSE:     "false",
	NAN:       "NaN",
	INFINITY:  "Infinity",
}

// String returns the source spelling of operators and keywords, or a
// short description for other tokens.
func (t Token) String() string {
	if int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return "token(" + strconv.Itoa(int(t)) + ")"
}

// IsOperator returns true if the token is an operator or punctuation.
func (t Token) IsOperator() bool {
	return t > operatorStart && t < operatorEnd
}

// IsKeyword returns true if the token is a keyword.
func (t Token) IsKeyword() bool {
	return t > keywordStart && t < keywordEnd
}

// IsLiteral returns true for value-carrying tokens.
func (t Token) IsLiteral() bool {
	return t >= NUMBER && t <= INFINITY
}

// IsAssign returns true for = and the compound assignment operators.
func (t Token) IsAssign() bool {
	switch t {
	case ASSIGN, ADD_ASSIGN, SUB_ASSIGN, MUL_ASSIGN, DIV_ASSIGN, MOD_ASSIGN,
		SHL_ASSIGN, SHR_ASSIGN, USHR_ASSIGN, AND_ASSIGN, OR_ASSIGN, XOR_ASSIGN:
		return true
	}
	return false
}

// BinaryOf maps a compound assignment operator to its binary operator.
// It returns ILLEGAL for plain = and for non-assignment tokens.
func (t Token) BinaryOf() Token {
	switch t {
	case ADD_ASSIGN:
		return ADD
	case SUB_ASSIGN:
		return SUB
	case MUL_ASSIGN:
		return MUL
	case DIV_ASSIGN:
		return DIV
	case MOD_ASSIGN:
		return MOD
	case SHL_ASSIGN:
		return SHL
	case SHR_ASSIGN:
		return SHR
	case USHR_ASSIGN:
		return USHR
	case AND_ASSIGN:
		return BIT_AND
	case OR_ASSIGN:
		return BIT_OR
	case XOR_ASSIGN:
		return BIT_XOR
	}
	return ILLEGAL
}

// keywords maps keyword strings to their token types.
var keywords = map[string]Token{
	"break":      BREAK,
	"case":       CASE,
	"catch":      CATCH,
	"continue":   CONTINUE,
	"default":    DEFAULT,
	"delete":     DELETE,
	"do":         DO,
	"else":       ELSE,
	"finally":    FINALLY,
	"for":        FOR,
	"function":   FUNCTION,
	"if":         IF,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"new":        NEW,
	"return":     RETURN,
	"switch":     SWITCH,
	"this":       THIS,
	"throw":      THROW,
	"try":        TRY,
	"typeof":     TYPEOF,
	"var":        VAR,
	"void":       VOID,
	"while":      WHILE,
	"with":       WITH,

	"null":      NULL,
	"undefined": UNDEFINED,
	"true":      TRUE,
	"false":     FALSE,
	"NaN":       NAN,
	"Infinity":  INFINITY,
}

// reserved lists words kept back for future use.
var reserved = map[string]bool{
	"abstract": true, "boolean": true, "byte": true, "char": true,
	"class": true, "const": true, "debugger": true, "double": true,
	"enum": true, "export": true, "extends": true, "final": true,
	"float": true, "goto": true, "implements": true, "import": true,
	"int": true, "interface": true, "long": true, "native": true,
	"package": true, "private": true, "protected": true, "public": true,
	"short": true, "static": true, "super": true, "synchronized": true,
	"throws": true, "transient": true, "volatile": true,
}

// operators maps every operator spelling to its token. Each proper prefix
// of a multi-character operator is itself an operator, which the lexer
// relies on for maximal munch.
var operators = map[string]Token{}

func init() {
	for t := operatorStart + 1; t < operatorEnd; t++ {
		operators[tokenNames[t]] = t
	}
}

// LookupIdent returns the token type for an identifier-shaped word:
// a keyword or literal word, RESERVED, or IDENT.
func LookupIdent(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if reserved[ident] {
		return RESERVED
	}
	return IDENT
}

// LookupOperator returns the operator token spelled s.
func LookupOperator(s string) (Token, bool) {
	tok, ok := operators[s]
	return tok, ok
}
