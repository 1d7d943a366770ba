package ast

// -----------------------------------------------------------------------------
// Basic statements
// -----------------------------------------------------------------------------

// ExprStmt represents an expression used as a statement.
// Examples: count++; draw(x, y);
type ExprStmt struct {
	BaseStmt
	X Expr
}

// VarStmt declares one or more variables in the innermost scope.
// Example: var a = 1, b;
type VarStmt struct {
	BaseStmt
	Decls []*VarDecl
}

// FuncDecl binds a named function in the innermost scope when reached.
// Example: function add(a, b) { return a + b; }
type FuncDecl struct {
	BaseStmt
	Func *FuncLit
}

// EmptyStmt is a lone semicolon.
type EmptyStmt struct {
	BaseStmt
}

// BlockStmt represents a braced statement list with its own scope.
// Example: { stmt1; stmt2 }
type BlockStmt struct {
	BaseStmt
	Stmts []Stmt
}

// -----------------------------------------------------------------------------
// Conditional statements
// -----------------------------------------------------------------------------

// IfStmt represents an if or if-else statement.
// Examples:
//   - if (cond) stmt
//   - if (cond) { stmts } else { stmts }
//   - if (cond) stmt else if (cond2) stmt2 else stmt3
type IfStmt struct {
	BaseStmt
	Cond Expr
	Then Stmt
	Else Stmt // nil if no else
}

// SwitchStmt evaluates Tag and runs the clauses from the first strictly
// equal case, or from default when none matches, until a break.
type SwitchStmt struct {
	BaseStmt
	Tag   Expr
	Cases []*CaseClause
}

// CaseClause is one case or default arm of a switch.
type CaseClause struct {
	BaseNode
	Value Expr // nil for default
	Body  []Stmt
}

// -----------------------------------------------------------------------------
// Loop statements
// -----------------------------------------------------------------------------

// WhileStmt represents a while loop.
// Example: while (cond) { body }
type WhileStmt struct {
	BaseStmt
	Cond Expr
	Body Stmt
}

// DoWhileStmt represents a do-while loop.
// Example: do { body } while (cond)
type DoWhileStmt struct {
	BaseStmt
	Body Stmt
	Cond Expr
}

// ForStmt represents a C-style for loop. Every clause is optional.
// Example: for (var i = 0; i < n; i++) { body }
type ForStmt struct {
	BaseStmt
	Init Expr
	Cond Expr
	Post Expr
	Body Stmt
}

// ForInStmt iterates over the keys of an object, writing each key through
// the Key expression's location.
// Example: for (var k in obj) { body }
type ForInStmt struct {
	BaseStmt
	Key    Expr
	Object Expr
	Body   Stmt
}

// -----------------------------------------------------------------------------
// Control statements
// -----------------------------------------------------------------------------

// BreakStmt exits the innermost loop or switch.
type BreakStmt struct {
	BaseStmt
}

// ContinueStmt skips to the next iteration of the innermost loop.
type ContinueStmt struct {
	BaseStmt
}

// ReturnStmt returns from the enclosing function.
// Example: return x * 2
type ReturnStmt struct {
	BaseStmt
	Value Expr // nil for bare return
}

// Program is the root of a parsed script. It owns a scope of its own,
// above the host-supplied global frames.
type Program struct {
	BaseNode
	Filename string
	Stmts    []Stmt
}

// Compile-time interface checks
var (
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*VarStmt)(nil)
	_ Stmt = (*FuncDecl)(nil)
	_ Stmt = (*EmptyStmt)(nil)
	_ Stmt = (*BlockStmt)(nil)
	_ Stmt = (*IfStmt)(nil)
	_ Stmt = (*SwitchStmt)(nil)
	_ Stmt = (*WhileStmt)(nil)
	_ Stmt = (*DoWhileStmt)(nil)
	_ Stmt = (*ForStmt)(nil)
	_ Stmt = (*ForInStmt)(nil)
	_ Stmt = (*BreakStmt)(nil)
	_ Stmt = (*ContinueStmt)(nil)
	_ Stmt = (*ReturnStmt)(nil)

	_ Node = (*CaseClause)(nil)
	_ Node = (*Program)(nil)
)
