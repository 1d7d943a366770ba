package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kolkov/ustep/internal/ast"
	"github.com/kolkov/ustep/internal/lexer"
	"github.com/kolkov/ustep/internal/parser"
	"github.com/kolkov/ustep/internal/token"
)

// shape renders an expression with explicit grouping so precedence and
// associativity can be compared as text.
func shape(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.ListExpr:
		var sb strings.Builder
		sb.WriteString("(")
		sb.WriteString(shape(n.Operands[0]))
		for i, op := range n.Ops {
			fmt.Fprintf(&sb, " %s %s", op, shape(n.Operands[i+1]))
		}
		sb.WriteString(")")
		return sb.String()
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", shape(n.Left), n.Op, shape(n.Right))
	case *ast.AssignExpr:
		return fmt.Sprintf("(%s %s %s)", shape(n.Left), n.Op, shape(n.Right))
	case *ast.CondExpr:
		return fmt.Sprintf("(%s ? %s : %s)", shape(n.Cond), shape(n.Then), shape(n.Else))
	case *ast.UnaryExpr:
		return fmt.Sprintf("(%s %s)", n.Op, shape(n.X))
	case *ast.PostfixExpr:
		return fmt.Sprintf("(%s %s)", shape(n.X), n.Op)
	case *ast.ParenExpr:
		return shape(n.X)
	case *ast.SeqExpr:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = shape(item)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return e.String()
	}
}

func mustParseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	e, err := parser.ParseExpr(src, nil)
	if err != nil {
		t.Fatalf("ParseExpr(%q) error = %v", src, err)
	}
	return e
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}
	return prog
}

func TestParseEmpty(t *testing.T) {
	prog := mustParse(t, "")
	if len(prog.Stmts) != 0 {
		t.Errorf("Stmts = %d, want 0", len(prog.Stmts))
	}
	if prog.ID() == 0 {
		t.Error("Program has zero ID")
	}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"1 + 2 + 3", "(1 + 2 + 3)"},
		{"1 - 2 + 3", "(1 - 2 + 3)"},
		{"a || b && c", "(a || (b && c))"},
		{"a | b ^ c & d", "(a | (b ^ (c & d)))"},
		{"a == b < c", "(a == (b < c))"},
		{"a == b == c", "((a == b) == c)"},
		{"a < b << 1", "(a < (b << 1))"},
		{"x instanceof F", "(x instanceof F)"},
		{"a = b = c", "(a = (b = c))"},
		{"a += b ? c : d", "(a += (b ? c : d))"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"-a * b", "((- a) * b)"},
		{"!a && b", "((! a) && b)"},
		{"typeof a + 1", "((typeof a) + 1)"},
		{"i++ + 1", "((i ++) + 1)"},
		{"++i * 2", "((++ i) * 2)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a = 1, b = 2", "((a = 1), (b = 2))"},
		{"x >>> 2 >> 1", "(x >>> 2 >> 1)"},
		{"a !== b", "(a !== b)"},
		{"- -a", "(- (- a))"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := shape(mustParseExpr(t, tt.src))
			if got != tt.want {
				t.Errorf("shape = %s, want %s", got, tt.want)
			}
		})
	}
}

// TestCollapseRule checks that precedence levels that match no operator
// leave no wrapper nodes behind.
func TestCollapseRule(t *testing.T) {
	e := mustParseExpr(t, "x")
	if _, ok := e.(*ast.IdentExpr); !ok {
		t.Fatalf("x parsed as %T, want *ast.IdentExpr", e)
	}

	e = mustParseExpr(t, "42")
	if lit, ok := e.(*ast.Literal); !ok || lit.Num != 42 {
		t.Fatalf("42 parsed as %#v", e)
	}

	e = mustParseExpr(t, "1 + 2 + 3")
	list, ok := e.(*ast.ListExpr)
	if !ok {
		t.Fatalf("1 + 2 + 3 parsed as %T, want *ast.ListExpr", e)
	}
	if list.Level != ast.LevelAdditive {
		t.Errorf("Level = %d, want LevelAdditive", list.Level)
	}
	if len(list.Operands) != 3 || len(list.Ops) != 2 {
		t.Fatalf("got %d operands and %d ops, want 3 and 2", len(list.Operands), len(list.Ops))
	}
	for i, operand := range list.Operands {
		if _, ok := operand.(*ast.Literal); !ok {
			t.Errorf("operand %d is %T, want *ast.Literal", i, operand)
		}
	}

	e = mustParseExpr(t, "a * b + c")
	list = e.(*ast.ListExpr)
	if inner, ok := list.Operands[0].(*ast.ListExpr); !ok || inner.Level != ast.LevelMultiplicative {
		t.Errorf("first operand = %T, want multiplicative list", list.Operands[0])
	}
	if _, ok := list.Operands[1].(*ast.IdentExpr); !ok {
		t.Errorf("second operand = %T, want *ast.IdentExpr", list.Operands[1])
	}
}

func TestIdentChain(t *testing.T) {
	e := mustParseExpr(t, "a[1][i].b(x, y).c")
	n, ok := e.(*ast.IdentExpr)
	if !ok {
		t.Fatalf("parsed as %T", e)
	}
	if n.Name != "a" || len(n.Index) != 2 || n.Call {
		t.Errorf("base = %q index=%d call=%v", n.Name, len(n.Index), n.Call)
	}
	b := n.Sub
	if b == nil || b.Name != "b" || !b.Call || len(b.Args) != 2 {
		t.Fatalf("second segment = %+v", b)
	}
	if b.Sub == nil || b.Sub.Name != "c" || b.Sub.Call {
		t.Errorf("third segment = %+v", b.Sub)
	}
	if got := e.String(); got != "a[1][i].b(x, y).c" {
		t.Errorf("String() = %q", got)
	}
}

func TestKeywordPropertyNames(t *testing.T) {
	e := mustParseExpr(t, "o.default.new.null")
	n := e.(*ast.IdentExpr)
	var names []string
	for ; n != nil; n = n.Sub {
		names = append(names, n.Name)
	}
	if got := strings.Join(names, "."); got != "o.default.new.null" {
		t.Errorf("names = %s", got)
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Token
		num  float64
		str  string
	}{
		{"42", token.NUMBER, 42, ""},
		{"3.5", token.NUMBER, 3.5, ""},
		{".5", token.NUMBER, 0.5, ""},
		{"5.", token.NUMBER, 5, ""},
		{"1e3", token.NUMBER, 1000, ""},
		{"2.E2", token.NUMBER, 200, ""},
		{"1.5e-1", token.NUMBER, 0.15, ""},
		{"0x1F", token.NUMBER, 31, ""},
		{"0xff", token.NUMBER, 255, ""},
		{`"hi\n"`, token.STRING, 0, "hi\n"},
		{`'it\'s'`, token.STRING, 0, "it's"},
		{"null", token.NULL, 0, ""},
		{"undefined", token.UNDEFINED, 0, ""},
		{"true", token.TRUE, 0, ""},
		{"false", token.FALSE, 0, ""},
		{"NaN", token.NAN, 0, ""},
		{"Infinity", token.INFINITY, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			lit, ok := mustParseExpr(t, tt.src).(*ast.Literal)
			if !ok {
				t.Fatalf("not a literal")
			}
			if lit.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", lit.Kind, tt.kind)
			}
			if lit.Num != tt.num {
				t.Errorf("Num = %v, want %v", lit.Num, tt.num)
			}
			if lit.Str != tt.str {
				t.Errorf("Str = %q, want %q", lit.Str, tt.str)
			}
		})
	}
}

func TestCompositeLiterals(t *testing.T) {
	arr, ok := mustParseExpr(t, "[1, 'two', x,]").(*ast.ArrayLit)
	if !ok || len(arr.Elems) != 3 {
		t.Fatalf("array literal = %#v", arr)
	}

	obj, ok := mustParseExpr(t, `{a: 1, "b c": 2, 3: x, if: 4}`).(*ast.ObjectLit)
	if !ok {
		t.Fatal("not an object literal")
	}
	var keys []string
	for _, f := range obj.Fields {
		keys = append(keys, f.Key)
	}
	if got := strings.Join(keys, ","); got != "a,b c,3,if" {
		t.Errorf("keys = %s", got)
	}

	fn, ok := mustParseExpr(t, "function add(a: Number, b): Number { return a + b; }").(*ast.FuncLit)
	if !ok {
		t.Fatal("not a function literal")
	}
	if fn.Name != "add" || strings.Join(fn.Params, ",") != "a,b" || len(fn.Body.Stmts) != 1 {
		t.Errorf("function = %s", fn)
	}

	ne, ok := mustParseExpr(t, "new ns.Point(1, 2)").(*ast.NewExpr)
	if !ok {
		t.Fatal("not a new expression")
	}
	if ne.Target.Name != "ns" || ne.Target.Sub == nil || !ne.Target.Sub.Call {
		t.Errorf("new target = %s", ne.Target)
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		src  string
		want string // %T of each top-level statement
	}{
		{"var a = 1, b;", "*ast.VarStmt"},
		{"{ a; b }", "*ast.BlockStmt"},
		{"if (a) b; else c;", "*ast.IfStmt"},
		{"while (a) b++", "*ast.WhileStmt"},
		{"do { a-- } while (a > 0)", "*ast.DoWhileStmt"},
		{"for (var i = 0; i < 3; i++) {}", "*ast.ForStmt"},
		{"for (;;) break", "*ast.ForStmt"},
		{"for (var k in o) {}", "*ast.ForInStmt"},
		{"for (o.k in o) {}", "*ast.ForInStmt"},
		{"switch (x) { case 1: a; break; default: b }", "*ast.SwitchStmt"},
		{"function f(a) { return a }", "*ast.FuncDecl"},
		{"function (a) { return a };", "*ast.ExprStmt"},
		{";", "*ast.EmptyStmt"},
		{"a = 1", "*ast.ExprStmt"},
		{"a; b", "*ast.ExprStmt *ast.ExprStmt"},
		{"var x: Number = 1", "*ast.VarStmt"},
		{"var xs: a.List[][] = []", "*ast.VarStmt"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog := mustParse(t, tt.src)
			var types []string
			for _, s := range prog.Stmts {
				types = append(types, fmt.Sprintf("%T", s))
			}
			if got := strings.Join(types, " "); got != tt.want {
				t.Errorf("statements = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReturnValue(t *testing.T) {
	prog := mustParse(t, "function f() { return; } function g() { return 1 + 2 }")
	f := prog.Stmts[0].(*ast.FuncDecl).Func
	if ret := f.Body.Stmts[0].(*ast.ReturnStmt); ret.Value != nil {
		t.Errorf("bare return has value %s", ret.Value)
	}
	g := prog.Stmts[1].(*ast.FuncDecl).Func
	if ret := g.Body.Stmts[0].(*ast.ReturnStmt); ret.Value == nil || ret.Value.String() != "1 + 2" {
		t.Errorf("return value = %v", ret.Value)
	}
}

func TestSwitchClauses(t *testing.T) {
	prog := mustParse(t, "switch (x) { case 1: case 2: a; default: b; c; }")
	sw := prog.Stmts[0].(*ast.SwitchStmt)
	if len(sw.Cases) != 3 {
		t.Fatalf("cases = %d, want 3", len(sw.Cases))
	}
	if len(sw.Cases[0].Body) != 0 || len(sw.Cases[1].Body) != 1 || len(sw.Cases[2].Body) != 2 {
		t.Errorf("case bodies = %d %d %d", len(sw.Cases[0].Body), len(sw.Cases[1].Body), len(sw.Cases[2].Body))
	}
	if sw.Cases[2].Value != nil {
		t.Error("default clause has a value")
	}
}

func TestUniqueIDs(t *testing.T) {
	prog := mustParse(t, "var a = [1, {b: 2}]; function f(x) { return x * 2 + a[0]; } f(3);")
	seen := map[ast.ID]ast.Node{}
	ast.Walk(prog, func(n ast.Node) bool {
		if n.ID() == 0 {
			t.Errorf("%T has zero ID", n)
		}
		if prev, dup := seen[n.ID()]; dup {
			t.Errorf("ID %d shared by %T and %T", n.ID(), prev, n)
		}
		seen[n.ID()] = n
		return true
	})
}

func TestParseExprSharesAllocator(t *testing.T) {
	ids := &ast.IDAllocator{}
	ids.Next()
	ids.Next()
	e, err := parser.ParseExpr("a + b", ids)
	if err != nil {
		t.Fatal(err)
	}
	if e.ID() <= 2 {
		t.Errorf("ID = %d, want > 2", e.ID())
	}
	if ids.Last() < e.ID() {
		t.Errorf("allocator Last = %d behind node ID %d", ids.Last(), e.ID())
	}
}

func TestPositions(t *testing.T) {
	prog, err := parser.ParseFile("demo.js", "var a = 1;\n  a = a + 2;")
	if err != nil {
		t.Fatal(err)
	}
	s := prog.Stmts[1]
	if p := s.Pos(); p.Line != 2 || p.Column != 3 || p.Offset != 13 || p.Filename != "demo.js" {
		t.Errorf("Pos = %+v", p)
	}
	if end := s.End(); end.Offset != len("var a = 1;\n  a = a + 2;") {
		t.Errorf("End offset = %d", end.Offset)
	}
	rhs := s.(*ast.ExprStmt).X.(*ast.AssignExpr).Right
	if p := rhs.Pos(); p.Column != 7 {
		t.Errorf("rhs column = %d, want 7", p.Column)
	}
}

// TestRoundTrip checks that printing and reparsing gives the same tree.
func TestRoundTrip(t *testing.T) {
	sources := []string{
		"var a = 1; var b = a + 2; b;",
		"var x = x;",
		"while (true) { if (c) break; }",
		"for (var i = 0; i < 10; i++) { s += i * 2; }",
		"for (var k in o) print(k, o[k]);",
		"do { n--; } while (n > 0)",
		"switch (v) { case 1: case 'two': a(); break; default: b(); }",
		"function F(a, b) { this.a = a; return {x: 1, 'y z': [1, 2]}; }",
		"var p = new F(1, 2); p instanceof F;",
		"x = a ? b : c ? d : e;",
		"y = -(-a) + - -b + !c + ~d + typeof e + void 0;",
		"z = a || b && c | d ^ e & f == g < h << i + j * k;",
		"delete o.k; o.m(1).n(2);",
		"s = 'quote\"d' + \"tab\\t\" + 'nl\\n' + \"\\x01\";",
		"n = 0x1F + .5 + 5. + 1e3 + 2.E-2;",
		"f = function () { return; };",
		"a[i][j] >>>= 2, b ^= 1;",
		"if (a) { } else if (b) c; else { d; }",
		"for (;;) { continue; }",
		"x = NaN + Infinity + null + undefined;",
		"var q = {1: 'a', b: {c: []}};",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			first := mustParse(t, src)
			text := first.String()
			second, err := parser.Parse(text)
			if err != nil {
				t.Fatalf("reparse of %q failed: %v", text, err)
			}
			if got := second.String(); got != text {
				t.Errorf("round trip changed text:\nfirst:  %s\nsecond: %s", text, got)
			}
			if a, b := countNodes(first), countNodes(second); a != b {
				t.Errorf("node count %d != %d", a, b)
			}
		})
	}
}

func countNodes(n ast.Node) int {
	count := 0
	ast.Walk(n, func(ast.Node) bool {
		count++
		return true
	})
	return count
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"var = 1", "expected variable name"},
		{"if (a b", "expected )"},
		{"{ a", "expected }"},
		{"a +", "expected expression"},
		{"1 = 2", "invalid assignment target"},
		{"f() = 2", "invalid assignment target"},
		{"++1", "invalid operand"},
		{"x++ ++", "expected expression"},
		{"switch (x) { default: a; default: b; }", "multiple defaults"},
		{"switch (x) { a }", "expected case, default or }"},
		{"new 1", "expected constructor"},
		{"x = {a: 1, 1.5: 2}", "object key must be an integer"},
		{"for (1 in o) {}", "invalid for-in key"},
		{"for (var k = 0 in o) {}", "invalid for-in key"},
		{"function (a, 1) {}", "expected parameter name"},
		{"a @ b", "illegal character @"},
		{"(a", "expected )"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, err := parser.Parse(tt.src)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded: %s", tt.src, prog)
			}
			if prog != nil {
				t.Error("partial program returned with error")
			}
			var perr *parser.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *ParseError: %v", err, err)
			}
			if !strings.Contains(perr.Message, tt.want) {
				t.Errorf("Message = %q, want substring %q", perr.Message, tt.want)
			}
			if !perr.Pos.IsValid() {
				t.Error("error has no position")
			}
		})
	}
}

func TestExpectedErrorFields(t *testing.T) {
	_, err := parser.Parse("while x")
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v", err)
	}
	if perr.Want != "(" || perr.Got != "identifier x" {
		t.Errorf("Want = %q, Got = %q", perr.Want, perr.Got)
	}
	if perr.Pos.Line != 1 || perr.Pos.Column != 7 {
		t.Errorf("Pos = %s, want 1:7", perr.Pos)
	}
	if got := err.Error(); got != "1:7: expected (, got identifier x" {
		t.Errorf("Error() = %q", got)
	}
}

func TestLexErrorPassesThrough(t *testing.T) {
	for _, src := range []string{"x = 12abc;", "s = 'open", "/* never closed"} {
		_, err := parser.Parse(src)
		var lerr *lexer.LexError
		if !errors.As(err, &lerr) {
			t.Errorf("Parse(%q) error = %v, want *lexer.LexError", src, err)
		}
	}
}
