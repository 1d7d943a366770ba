package ast

import "github.com/kolkov/ustep/internal/token"

// -----------------------------------------------------------------------------
// Literals
// -----------------------------------------------------------------------------

// Literal represents a constant.
// Kind is one of token.NUMBER, STRING, NULL, UNDEFINED, TRUE, FALSE, NAN
// or INFINITY.
// Examples: 42, 0x1F, "text", null, true, NaN
type Literal struct {
	BaseExpr
	Kind token.Token
	Num  float64 // Parsed value for NUMBER
	Str  string  // Decoded text for STRING
	Raw  string  // Original spelling
}

// ArrayLit represents an array literal.
// Example: [1, "two", x]
type ArrayLit struct {
	BaseExpr
	Elems []Expr
}

// Field is one key/value pair of an object literal. Keys are identifiers,
// strings or integers, stored in their property-name form.
type Field struct {
	Key    string
	KeyPos token.Position
	Value  Expr
}

// ObjectLit represents an object literal.
// Example: {x: 1, "y": 2, 3: "three"}
type ObjectLit struct {
	BaseExpr
	Fields []Field
}

// FuncLit represents a function expression. Name is optional and only used
// for display and by FuncDecl.
// Example: function (a, b) { return a + b; }
type FuncLit struct {
	BaseExpr
	Name   string
	Params []string
	Body   *BlockStmt
}

// -----------------------------------------------------------------------------
// References
// -----------------------------------------------------------------------------

// IdentExpr is a member-access/call chain: a base name, zero or more
// computed index accesses, an optional call, and an optional dotted
// continuation whose base is the value computed so far.
// Examples: x, this, a[i][j], f(x), obj.method(1).field
type IdentExpr struct {
	BaseExpr
	Name  string
	Index []Expr     // Computed index accesses, applied left to right
	Call  bool       // An argument list follows the indexes
	Args  []Expr     // Call arguments
	Sub   *IdentExpr // Dotted continuation, nil if none
}

// VarDecl declares one variable with an optional initializer.
// It appears inside VarStmt and, as an expression, in for-loop headers.
// Example: var i = 0
type VarDecl struct {
	BaseExpr
	Name string
	Init Expr // nil if absent
}

// -----------------------------------------------------------------------------
// Operations
// -----------------------------------------------------------------------------

// Level names a precedence level that produces a flat ListExpr.
type Level uint8

const (
	LevelLogicalOr Level = iota
	LevelLogicalAnd
	LevelBitOr
	LevelBitXor
	LevelBitAnd
	LevelShift
	LevelAdditive
	LevelMultiplicative
)

// ListExpr is a left-associative operator chain at a single precedence
// level, kept flat: Operands[i+1] is combined with the running result
// using Ops[i]. A level that matches no operator never builds one.
// Examples: a + b - c, x * y, p || q || r
type ListExpr struct {
	BaseExpr
	Level    Level
	Operands []Expr
	Ops      []token.Token // len(Ops) == len(Operands)-1
}

// BinaryExpr is a two-operand equality or relational expression.
// Examples: a == b, x !== y, i < n, p instanceof Point
type BinaryExpr struct {
	BaseExpr
	Left  Expr
	Op    token.Token
	Right Expr
}

// AssignExpr represents plain and compound assignment.
// Examples: x = 1, total += n, flags |= mask
type AssignExpr struct {
	BaseExpr
	Left  Expr
	Op    token.Token
	Right Expr
}

// CondExpr represents the conditional operator.
// Example: n > 0 ? n : -n
type CondExpr struct {
	BaseExpr
	Cond Expr
	Then Expr
	Else Expr
}

// UnaryExpr represents a prefix operator.
// Examples: -x, !ok, ++i, typeof v, delete o.k
type UnaryExpr struct {
	BaseExpr
	Op token.Token
	X  Expr
}

// PostfixExpr represents i++ and i--.
type PostfixExpr struct {
	BaseExpr
	X  Expr
	Op token.Token
}

// NewExpr constructs an object from a callable.
// Examples: new Point(1, 2), new ns.Widget
type NewExpr struct {
	BaseExpr
	Target *IdentExpr
}

// -----------------------------------------------------------------------------
// Grouping
// -----------------------------------------------------------------------------

// ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	BaseExpr
	X Expr
}

// SeqExpr represents a comma-separated expression list; its value is the
// value of the last item.
// Example: i = 0, j = n
type SeqExpr struct {
	BaseExpr
	Items []Expr
}

// Compile-time interface checks
var (
	_ Expr = (*Literal)(nil)
	_ Expr = (*ArrayLit)(nil)
	_ Expr = (*ObjectLit)(nil)
	_ Expr = (*FuncLit)(nil)
	_ Expr = (*IdentExpr)(nil)
	_ Expr = (*VarDecl)(nil)
	_ Expr = (*ListExpr)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*AssignExpr)(nil)
	_ Expr = (*CondExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*PostfixExpr)(nil)
	_ Expr = (*NewExpr)(nil)
	_ Expr = (*ParenExpr)(nil)
	_ Expr = (*SeqExpr)(nil)
)
