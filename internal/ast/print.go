package ast

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kolkov/ustep/internal/token"
)

// Printer renders nodes in canonical source form. Parsing the output
// yields a structurally equivalent tree; type annotations and original
// spacing are not preserved.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a new Printer that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes the canonical form of node to the writer.
func (p *Printer) Print(node Node) error {
	p.printNode(node)
	return p.err
}

// Format returns the canonical form of node.
func Format(node Node) string {
	var sb strings.Builder
	_ = NewPrinter(&sb).Print(node)
	return sb.String()
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *Printer) newline() {
	p.write("\n")
	for i := 0; i < p.indent; i++ {
		p.write("    ")
	}
}

func (p *Printer) printNode(node Node) {
	if node == nil {
		p.write("<nil>")
		return
	}

	switch n := node.(type) {
	case *Program:
		for i, s := range n.Stmts {
			if i > 0 {
				p.write("\n")
			}
			p.printStmt(s)
		}
	case *CaseClause:
		p.printCase(n)
	case Expr:
		p.printExpr(n)
	case Stmt:
		p.printStmt(n)
	default:
		p.printf("<%T>", node)
	}
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

func (p *Printer) printStmt(s Stmt) {
	switch n := s.(type) {
	case *ExprStmt:
		p.printExpr(n.X)
		p.write(";")

	case *VarStmt:
		p.write("var ")
		for i, d := range n.Decls {
			if i > 0 {
				p.write(", ")
			}
			p.printVarBinding(d)
		}
		p.write(";")

	case *FuncDecl:
		p.printFunc(n.Func)

	case *EmptyStmt:
		p.write(";")

	case *BlockStmt:
		p.printBlock(n)

	case *IfStmt:
		p.write("if (")
		p.printExpr(n.Cond)
		p.write(") ")
		p.printStmt(n.Then)
		if n.Else != nil {
			p.write(" else ")
			p.printStmt(n.Else)
		}

	case *SwitchStmt:
		p.write("switch (")
		p.printExpr(n.Tag)
		p.write(") {")
		for _, c := range n.Cases {
			p.newline()
			p.printCase(c)
		}
		p.newline()
		p.write("}")

	case *WhileStmt:
		p.write("while (")
		p.printExpr(n.Cond)
		p.write(") ")
		p.printStmt(n.Body)

	case *DoWhileStmt:
		p.write("do ")
		p.printStmt(n.Body)
		p.write(" while (")
		p.printExpr(n.Cond)
		p.write(");")

	case *ForStmt:
		p.write("for (")
		p.printOptExpr(n.Init)
		p.write("; ")
		p.printOptExpr(n.Cond)
		p.write("; ")
		p.printOptExpr(n.Post)
		p.write(") ")
		p.printStmt(n.Body)

	case *ForInStmt:
		p.write("for (")
		p.printExpr(n.Key)
		p.write(" in ")
		p.printExpr(n.Object)
		p.write(") ")
		p.printStmt(n.Body)

	case *BreakStmt:
		p.write("break;")

	case *ContinueStmt:
		p.write("continue;")

	case *ReturnStmt:
		p.write("return")
		if n.Value != nil {
			p.write(" ")
			p.printExpr(n.Value)
		}
		p.write(";")

	case nil:
		p.write("<nil>")

	default:
		p.printf("<%T>", s)
	}
}

func (p *Printer) printBlock(b *BlockStmt) {
	p.write("{")
	p.indent++
	for _, s := range b.Stmts {
		p.newline()
		p.printStmt(s)
	}
	p.indent--
	if len(b.Stmts) > 0 {
		p.newline()
	}
	p.write("}")
}

func (p *Printer) printCase(c *CaseClause) {
	if c.Value == nil {
		p.write("default:")
	} else {
		p.write("case ")
		p.printExpr(c.Value)
		p.write(":")
	}
	p.indent++
	for _, s := range c.Body {
		p.newline()
		p.printStmt(s)
	}
	p.indent--
}

func (p *Printer) printOptExpr(e Expr) {
	if e != nil {
		p.printExpr(e)
	}
}

// -----------------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------------

func (p *Printer) printExpr(e Expr) {
	switch n := e.(type) {
	case *Literal:
		p.printLiteral(n)

	case *ArrayLit:
		p.write("[")
		p.printList(n.Elems)
		p.write("]")

	case *ObjectLit:
		p.write("{")
		for i, f := range n.Fields {
			if i > 0 {
				p.write(", ")
			}
			p.write(propertyKey(f.Key))
			p.write(": ")
			p.printExpr(f.Value)
		}
		p.write("}")

	case *FuncLit:
		p.printFunc(n)

	case *IdentExpr:
		p.printIdent(n)

	case *VarDecl:
		p.write("var ")
		p.printVarBinding(n)

	case *ListExpr:
		for i, operand := range n.Operands {
			if i > 0 {
				p.printf(" %s ", n.Ops[i-1])
			}
			p.printExpr(operand)
		}

	case *BinaryExpr:
		p.printExpr(n.Left)
		p.printf(" %s ", n.Op)
		p.printExpr(n.Right)

	case *AssignExpr:
		p.printExpr(n.Left)
		p.printf(" %s ", n.Op)
		p.printExpr(n.Right)

	case *CondExpr:
		p.printExpr(n.Cond)
		p.write(" ? ")
		p.printExpr(n.Then)
		p.write(" : ")
		p.printExpr(n.Else)

	case *UnaryExpr:
		p.printUnary(n)

	case *PostfixExpr:
		p.printExpr(n.X)
		p.write(n.Op.String())

	case *NewExpr:
		p.write("new ")
		p.printIdent(n.Target)

	case *ParenExpr:
		p.write("(")
		p.printExpr(n.X)
		p.write(")")

	case *SeqExpr:
		p.printList(n.Items)

	case nil:
		p.write("<nil>")

	default:
		p.printf("<%T>", e)
	}
}

func (p *Printer) printLiteral(n *Literal) {
	switch n.Kind {
	case token.NUMBER:
		if n.Raw != "" {
			p.write(n.Raw)
		} else {
			p.printf("%v", n.Num)
		}
	case token.STRING:
		p.write(Quote(n.Str))
	default:
		p.write(n.Kind.String())
	}
}

func (p *Printer) printIdent(n *IdentExpr) {
	for ; n != nil; n = n.Sub {
		p.write(n.Name)
		for _, idx := range n.Index {
			p.write("[")
			p.printExpr(idx)
			p.write("]")
		}
		if n.Call {
			p.write("(")
			p.printList(n.Args)
			p.write(")")
		}
		if n.Sub != nil {
			p.write(".")
		}
	}
}

func (p *Printer) printUnary(n *UnaryExpr) {
	op := n.Op.String()
	p.write(op)
	switch n.Op {
	case token.TYPEOF, token.DELETE, token.VOID:
		p.write(" ")
	case token.ADD, token.SUB, token.INCR, token.DECR:
		// Keep "- -x" and "+ ++x" from fusing into another operator.
		if operand := Format(n.X); operand != "" && (operand[0] == '+' || operand[0] == '-') {
			p.write(" ")
		}
	}
	p.printExpr(n.X)
}

func (p *Printer) printFunc(f *FuncLit) {
	p.write("function ")
	if f.Name != "" {
		p.write(f.Name)
	}
	p.write("(")
	p.write(strings.Join(f.Params, ", "))
	p.write(") ")
	p.printBlock(f.Body)
}

func (p *Printer) printVarBinding(d *VarDecl) {
	p.write(d.Name)
	if d.Init != nil {
		p.write(" = ")
		p.printExpr(d.Init)
	}
}

func (p *Printer) printList(items []Expr) {
	for i, item := range items {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(item)
	}
}

// propertyKey renders an object-literal key: bare when it is an identifier
// or an integer, quoted otherwise.
func propertyKey(key string) string {
	if key == "" {
		return `""`
	}
	allDigits := true
	for _, r := range key {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	if allDigits && len(key) <= 15 && (key == "0" || key[0] != '0') {
		return key
	}
	if isIdentifier(key) && token.LookupIdent(key) == token.IDENT {
		return key
	}
	return Quote(key)
}

func isIdentifier(s string) bool {
	for i, r := range s {
		letter := r == '_' || r == '$' || unicode.IsLetter(r)
		if !letter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return s != ""
}

// Quote returns s as a double-quoted string literal using only escapes the
// lexer understands.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\v':
			sb.WriteString(`\v`)
		default:
			switch {
			case r < 0x20 || r == 0x7f:
				fmt.Fprintf(&sb, `\x%02x`, r)
			case r == utf8.RuneError || (!unicode.IsPrint(r) && r <= 0xffff):
				fmt.Fprintf(&sb, `\u%04x`, r)
			default:
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// -----------------------------------------------------------------------------
// String methods
// -----------------------------------------------------------------------------

func (n *Literal) String() string     { return Format(n) }
func (n *ArrayLit) String() string    { return Format(n) }
func (n *ObjectLit) String() string   { return Format(n) }
func (n *FuncLit) String() string     { return Format(n) }
func (n *IdentExpr) String() string   { return Format(n) }
func (n *VarDecl) String() string     { return Format(n) }
func (n *ListExpr) String() string    { return Format(n) }
func (n *BinaryExpr) String() string  { return Format(n) }
func (n *AssignExpr) String() string  { return Format(n) }
func (n *CondExpr) String() string    { return Format(n) }
func (n *UnaryExpr) String() string   { return Format(n) }
func (n *PostfixExpr) String() string { return Format(n) }
func (n *NewExpr) String() string     { return Format(n) }
func (n *ParenExpr) String() string   { return Format(n) }
func (n *SeqExpr) String() string     { return Format(n) }

func (n *ExprStmt) String() string     { return Format(n) }
func (n *VarStmt) String() string      { return Format(n) }
func (n *FuncDecl) String() string     { return Format(n) }
func (n *EmptyStmt) String() string    { return Format(n) }
func (n *BlockStmt) String() string    { return Format(n) }
func (n *IfStmt) String() string       { return Format(n) }
func (n *SwitchStmt) String() string   { return Format(n) }
func (n *CaseClause) String() string   { return Format(n) }
func (n *WhileStmt) String() string    { return Format(n) }
func (n *DoWhileStmt) String() string  { return Format(n) }
func (n *ForStmt) String() string      { return Format(n) }
func (n *ForInStmt) String() string    { return Format(n) }
func (n *BreakStmt) String() string    { return Format(n) }
func (n *ContinueStmt) String() string { return Format(n) }
func (n *ReturnStmt) String() string   { return Format(n) }
func (n *Program) String() string      { return Format(n) }
