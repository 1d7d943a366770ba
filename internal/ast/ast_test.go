package ast_test

import (
	"testing"

	"github.com/kolkov/ustep/internal/ast"
	"github.com/kolkov/ustep/internal/token"
)

func ident(name string) *ast.IdentExpr {
	return &ast.IdentExpr{Name: name}
}

func num(raw string, v float64) *ast.Literal {
	return &ast.Literal{Kind: token.NUMBER, Num: v, Raw: raw}
}

// TestNodeInterface verifies all node types carry identity and span.
func TestNodeInterface(t *testing.T) {
	pos := token.Position{Line: 1, Column: 1, Offset: 0}
	endPos := token.Position{Line: 1, Column: 10, Offset: 9}
	base := ast.MakeBaseExpr(7, pos, endPos)
	stmt := ast.MakeBaseStmt(8, pos, endPos)

	tests := []struct {
		name string
		node ast.Node
		id   ast.ID
	}{
		{"Literal", &ast.Literal{BaseExpr: base}, 7},
		{"ArrayLit", &ast.ArrayLit{BaseExpr: base}, 7},
		{"ObjectLit", &ast.ObjectLit{BaseExpr: base}, 7},
		{"IdentExpr", &ast.IdentExpr{BaseExpr: base, Name: "x"}, 7},
		{"ListExpr", &ast.ListExpr{BaseExpr: base}, 7},
		{"NewExpr", &ast.NewExpr{BaseExpr: base, Target: ident("F")}, 7},
		{"ExprStmt", &ast.ExprStmt{BaseStmt: stmt, X: ident("x")}, 8},
		{"BreakStmt", &ast.BreakStmt{BaseStmt: stmt}, 8},
		{"ReturnStmt", &ast.ReturnStmt{BaseStmt: stmt}, 8},
		{"Program", &ast.Program{BaseNode: ast.BaseNode{NodeID: 9, StartPos: pos, EndPos: endPos}}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.node.ID() != tt.id {
				t.Errorf("ID() = %d, want %d", tt.node.ID(), tt.id)
			}
			if tt.node.Pos() != pos || tt.node.End() != endPos {
				t.Errorf("span = %s..%s", tt.node.Pos(), tt.node.End())
			}
		})
	}
}

func TestIDAllocator(t *testing.T) {
	var a, b ast.IDAllocator
	if got := a.Next(); got != 1 {
		t.Errorf("first ID = %d, want 1", got)
	}
	a.Next()
	if got := a.Last(); got != 2 {
		t.Errorf("Last() = %d, want 2", got)
	}
	if got := b.Next(); got != 1 {
		t.Errorf("second allocator starts at %d, want 1", got)
	}
}

func TestIsAssignable(t *testing.T) {
	tests := []struct {
		name   string
		expr   ast.Expr
		expect bool
	}{
		{"name", ident("x"), true},
		{"index", &ast.IdentExpr{Name: "a", Index: []ast.Expr{num("1", 1)}}, true},
		{"member", &ast.IdentExpr{Name: "o", Sub: ident("k")}, true},
		{"call", &ast.IdentExpr{Name: "f", Call: true}, false},
		{"member call", &ast.IdentExpr{Name: "o", Sub: &ast.IdentExpr{Name: "m", Call: true}}, false},
		{"call then member", &ast.IdentExpr{Name: "f", Call: true, Sub: ident("k")}, true},
		{"var", &ast.VarDecl{Name: "v"}, true},
		{"paren", &ast.ParenExpr{X: ident("x")}, true},
		{"literal", num("42", 42), false},
		{"list", &ast.ListExpr{Operands: []ast.Expr{ident("a"), ident("b")}, Ops: []token.Token{token.ADD}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ast.IsAssignable(tt.expr); got != tt.expect {
				t.Errorf("IsAssignable(%s) = %v, want %v", tt.expr, got, tt.expect)
			}
		})
	}
}

func TestWalk(t *testing.T) {
	// x = y + 1; if (x) { return; }
	prog := &ast.Program{
		Stmts: []ast.Stmt{
			&ast.ExprStmt{X: &ast.AssignExpr{
				Left: ident("x"),
				Op:   token.ASSIGN,
				Right: &ast.ListExpr{
					Operands: []ast.Expr{ident("y"), num("1", 1)},
					Ops:      []token.Token{token.ADD},
				},
			}},
			&ast.IfStmt{
				Cond: ident("x"),
				Then: &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ReturnStmt{}}},
			},
		},
	}

	var idents, total int
	ast.Walk(prog, func(n ast.Node) bool {
		total++
		if _, ok := n.(*ast.IdentExpr); ok {
			idents++
		}
		return true
	})
	if idents != 3 {
		t.Errorf("idents = %d, want 3", idents)
	}
	// Program, ExprStmt, AssignExpr, x, ListExpr, y, 1, IfStmt, x, Block, Return
	if total != 11 {
		t.Errorf("total = %d, want 11", total)
	}

	total = 0
	ast.Walk(prog, func(n ast.Node) bool {
		total++
		_, isStmt := n.(ast.Stmt)
		return !isStmt
	})
	// Program plus the two top-level statements
	if total != 3 {
		t.Errorf("pruned total = %d, want 3", total)
	}
}

func TestPrinter(t *testing.T) {
	tests := []struct {
		name   string
		node   ast.Node
		expect string
	}{
		{"number", num("0x1F", 31), "0x1F"},
		{"string", &ast.Literal{Kind: token.STRING, Str: "a\"b\n"}, `"a\"b\n"`},
		{"null", &ast.Literal{Kind: token.NULL}, "null"},
		{"NaN", &ast.Literal{Kind: token.NAN}, "NaN"},
		{
			"list",
			&ast.ListExpr{
				Operands: []ast.Expr{ident("a"), ident("b"), ident("c")},
				Ops:      []token.Token{token.ADD, token.SUB},
			},
			"a + b - c",
		},
		{"unary", &ast.UnaryExpr{Op: token.NOT, X: ident("ok")}, "!ok"},
		{"typeof", &ast.UnaryExpr{Op: token.TYPEOF, X: ident("v")}, "typeof v"},
		{
			"negate negation",
			&ast.UnaryExpr{Op: token.SUB, X: &ast.UnaryExpr{Op: token.SUB, X: ident("x")}},
			"- -x",
		},
		{"postfix", &ast.PostfixExpr{X: ident("i"), Op: token.INCR}, "i++"},
		{
			"chain",
			&ast.IdentExpr{
				Name:  "a",
				Index: []ast.Expr{num("0", 0)},
				Sub:   &ast.IdentExpr{Name: "f", Call: true, Args: []ast.Expr{ident("x"), ident("y")}},
			},
			"a[0].f(x, y)",
		},
		{
			"object",
			&ast.ObjectLit{Fields: []ast.Field{
				{Key: "a", Value: num("1", 1)},
				{Key: "b c", Value: num("2", 2)},
				{Key: "3", Value: num("3", 3)},
				{Key: "if", Value: num("4", 4)},
				{Key: "007", Value: num("5", 5)},
			}},
			`{a: 1, "b c": 2, 3: 3, "if": 4, "007": 5}`,
		},
		{"array", &ast.ArrayLit{Elems: []ast.Expr{num("1", 1), ident("x")}}, "[1, x]"},
		{"new", &ast.NewExpr{Target: &ast.IdentExpr{Name: "F", Call: true}}, "new F()"},
		{"var", &ast.VarStmt{Decls: []*ast.VarDecl{{Name: "a", Init: num("1", 1)}, {Name: "b"}}}, "var a = 1, b;"},
		{"cond", &ast.CondExpr{Cond: ident("a"), Then: ident("b"), Else: ident("c")}, "a ? b : c"},
		{"paren", &ast.ParenExpr{X: ident("x")}, "(x)"},
		{"break", &ast.BreakStmt{}, "break;"},
		{"return", &ast.ReturnStmt{Value: ident("v")}, "return v;"},
		{
			"function",
			&ast.FuncLit{Name: "f", Params: []string{"a", "b"}, Body: &ast.BlockStmt{
				Stmts: []ast.Stmt{&ast.ReturnStmt{Value: ident("a")}},
			}},
			"function f(a, b) {\n    return a;\n}",
		},
		{
			"for",
			&ast.ForStmt{Cond: ident("c"), Body: &ast.BlockStmt{}},
			"for (; c; ) {}",
		},
		{
			"switch",
			&ast.SwitchStmt{Tag: ident("x"), Cases: []*ast.CaseClause{
				{Value: num("1", 1), Body: []ast.Stmt{&ast.BreakStmt{}}},
				{Body: nil},
			}},
			"switch (x) {\ncase 1:\n    break;\ndefault:\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ast.Format(tt.node); got != tt.expect {
				t.Errorf("Format() = %q, want %q", got, tt.expect)
			}
			if got := tt.node.String(); got != tt.expect {
				t.Errorf("String() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", `"plain"`},
		{`back\slash`, `"back\\slash"`},
		{"tab\there", `"tab\there"`},
		{"\x01", `"\x01"`},
		{"héllo", `"héllo"`},
		{"", `""`},
	}
	for _, tt := range tests {
		if got := ast.Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
