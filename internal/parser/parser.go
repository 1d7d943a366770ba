// Package parser provides a recursive descent parser for scripts.
//
// There is one parse function per precedence level, from parseAssignment
// down to parsePrimary. A level that matches none of its operators returns
// its operand unchanged, so the tree never contains single-operand
// wrappers. Parsing stops at the first error; no partial tree is returned.
package parser

import (
	"strconv"
	"strings"

	"github.com/kolkov/ustep/internal/ast"
	"github.com/kolkov/ustep/internal/lexer"
	"github.com/kolkov/ustep/internal/token"
)

// Parser holds the state of one parse.
type Parser struct {
	lex *lexer.Lexer
	ids *ast.IDAllocator
}

// bailout carries the first error up to the entry point.
type bailout struct {
	err error
}

// New creates a parser over src. IDs for new nodes are taken from ids;
// a nil allocator gets a fresh one.
func New(src []byte, ids *ast.IDAllocator) *Parser {
	if ids == nil {
		ids = &ast.IDAllocator{}
	}
	return &Parser{lex: lexer.New(src), ids: ids}
}

// Parse parses a complete script.
func Parse(src string) (*ast.Program, error) {
	return ParseFile("", src)
}

// ParseFile parses a complete script, recording filename in positions.
func ParseFile(filename, src string) (*ast.Program, error) {
	p := New([]byte(src), nil)
	p.lex.SetFilename(filename)
	return p.ParseProgram()
}

// ParseExpr parses a single expression, as used by watches. The node IDs
// come from ids so they can share a state store with an existing tree.
func ParseExpr(src string, ids *ast.IDAllocator) (ast.Expr, error) {
	p := New([]byte(src), ids)
	return p.ParseExpression()
}

// ParseProgram parses statements up to end of input.
func (p *Parser) ParseProgram() (prog *ast.Program, err error) {
	defer p.recover(&err)

	start := p.peek(0).Pos
	var stmts []ast.Stmt
	for !p.at(token.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	end := p.peek(0).End
	prog = &ast.Program{
		BaseNode: ast.BaseNode{NodeID: p.ids.Next(), StartPos: start, EndPos: end},
		Filename: start.Filename,
		Stmts:    stmts,
	}
	return prog, nil
}

// ParseExpression parses one expression that must span the whole input.
func (p *Parser) ParseExpression() (expr ast.Expr, err error) {
	defer p.recover(&err)

	expr = p.parseExpression()
	p.expect(token.EOF, "end of expression")
	return expr, nil
}

func (p *Parser) recover(errp *error) {
	if r := recover(); r != nil {
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		*errp = b.err
	}
}

// -----------------------------------------------------------------------------
// Token helpers
// -----------------------------------------------------------------------------

func (p *Parser) peek(k int) lexer.Token {
	tok, err := p.lex.Peek(k)
	if err != nil {
		panic(bailout{err})
	}
	return tok
}

func (p *Parser) next() lexer.Token {
	tok, err := p.lex.Next()
	if err != nil {
		panic(bailout{err})
	}
	return tok
}

func (p *Parser) at(t token.Token) bool {
	return p.peek(0).Type == t
}

func (p *Parser) atAny(types ...token.Token) bool {
	tt := p.peek(0).Type
	for _, t := range types {
		if tt == t {
			return true
		}
	}
	return false
}

// match consumes the lookahead if it has type t.
func (p *Parser) match(t token.Token) bool {
	if p.at(t) {
		p.next()
		return true
	}
	return false
}

// expect consumes a token of type t or fails with want as the description.
func (p *Parser) expect(t token.Token, want string) lexer.Token {
	tok := p.peek(0)
	if tok.Type != t {
		panic(bailout{expectedError(tok.Pos, want, tok.String())})
	}
	return p.next()
}

func (p *Parser) fail(err *ParseError) {
	panic(bailout{err})
}

// endPos is the position just after the last consumed token.
func (p *Parser) endPos() token.Position {
	return p.lex.Current().End
}

func (p *Parser) exprBase(start token.Position) ast.BaseExpr {
	return ast.MakeBaseExpr(p.ids.Next(), start, p.endPos())
}

func (p *Parser) stmtBase(start token.Position) ast.BaseStmt {
	return ast.MakeBaseStmt(p.ids.Next(), start, p.endPos())
}

// skipSemicolon consumes an optional statement separator.
func (p *Parser) skipSemicolon() {
	p.match(token.SEMICOLON)
}

// skipTypeAnnotation consumes an optional ": TypeName" and discards it.
// Type names are dotted names with optional [] suffixes.
func (p *Parser) skipTypeAnnotation() {
	if !p.match(token.COLON) {
		return
	}
	p.expectName("type name")
	for p.match(token.DOT) {
		p.expectName("type name")
	}
	for p.at(token.LBRACKET) && p.peek(1).Type == token.RBRACKET {
		p.next()
		p.next()
	}
}

// expectName accepts an identifier or any word-shaped token, as allowed
// after a dot or in a type annotation.
func (p *Parser) expectName(want string) lexer.Token {
	tok := p.peek(0)
	switch {
	case tok.Type == token.IDENT, tok.Type == token.RESERVED,
		tok.Type.IsKeyword(), tok.Type.IsLiteral() && tok.Type != token.NUMBER && tok.Type != token.STRING:
		return p.next()
	}
	panic(bailout{expectedError(tok.Pos, want, tok.String())})
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

func (p *Parser) parseStatement() ast.Stmt {
	switch p.peek(0).Type {
	case token.VAR:
		return p.parseVarStmt()
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.DO:
		return p.parseDoWhileStmt()
	case token.SWITCH:
		return p.parseSwitchStmt()
	case token.CONTINUE:
		start := p.next().Pos
		p.skipSemicolon()
		return &ast.ContinueStmt{BaseStmt: p.stmtBase(start)}
	case token.BREAK:
		start := p.next().Pos
		p.skipSemicolon()
		return &ast.BreakStmt{BaseStmt: p.stmtBase(start)}
	case token.RETURN:
		return p.parseReturnStmt()
	case token.FUNCTION:
		if p.peek(1).Type == token.IDENT {
			start := p.peek(0).Pos
			fn := p.parseFuncLit()
			p.skipSemicolon()
			return &ast.FuncDecl{BaseStmt: p.stmtBase(start), Func: fn}
		}
	case token.SEMICOLON:
		start := p.next().Pos
		return &ast.EmptyStmt{BaseStmt: p.stmtBase(start)}
	}

	start := p.peek(0).Pos
	x := p.parseExpression()
	p.skipSemicolon()
	return &ast.ExprStmt{BaseStmt: p.stmtBase(start), X: x}
}

func (p *Parser) parseVarStmt() *ast.VarStmt {
	start := p.expect(token.VAR, "var").Pos
	var decls []*ast.VarDecl
	for {
		decls = append(decls, p.parseVarBinding(p.peek(0).Pos))
		if !p.match(token.COMMA) {
			break
		}
	}
	p.skipSemicolon()
	return &ast.VarStmt{BaseStmt: p.stmtBase(start), Decls: decls}
}

// parseVarBinding parses "name [: Type] [= init]" after the var keyword.
func (p *Parser) parseVarBinding(start token.Position) *ast.VarDecl {
	name := p.expect(token.IDENT, "variable name").Value
	p.skipTypeAnnotation()
	var init ast.Expr
	if p.match(token.ASSIGN) {
		init = p.parseAssignment()
	}
	return &ast.VarDecl{BaseExpr: p.exprBase(start), Name: name, Init: init}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.expect(token.LBRACE, "{").Pos
	var stmts []ast.Stmt
	for !p.at(token.RBRACE) {
		if p.at(token.EOF) {
			tok := p.peek(0)
			p.fail(expectedError(tok.Pos, "}", tok.String()))
		}
		stmts = append(stmts, p.parseStatement())
	}
	p.next()
	return &ast.BlockStmt{BaseStmt: p.stmtBase(start), Stmts: stmts}
}

func (p *Parser) parseCondition() ast.Expr {
	p.expect(token.LPAREN, "(")
	cond := p.parseExpression()
	p.expect(token.RPAREN, ")")
	return cond
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.expect(token.IF, "if").Pos
	cond := p.parseCondition()
	then := p.parseStatement()
	var els ast.Stmt
	if p.match(token.ELSE) {
		els = p.parseStatement()
	}
	return &ast.IfStmt{BaseStmt: p.stmtBase(start), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.expect(token.WHILE, "while").Pos
	cond := p.parseCondition()
	body := p.parseStatement()
	return &ast.WhileStmt{BaseStmt: p.stmtBase(start), Cond: cond, Body: body}
}

func (p *Parser) parseDoWhileStmt() *ast.DoWhileStmt {
	start := p.expect(token.DO, "do").Pos
	body := p.parseStatement()
	p.expect(token.WHILE, "while")
	cond := p.parseCondition()
	p.skipSemicolon()
	return &ast.DoWhileStmt{BaseStmt: p.stmtBase(start), Body: body, Cond: cond}
}

// parseForStmt handles both for (init; cond; post) and for (key in obj).
func (p *Parser) parseForStmt() ast.Stmt {
	start := p.expect(token.FOR, "for").Pos
	p.expect(token.LPAREN, "(")

	var init ast.Expr
	if !p.at(token.SEMICOLON) {
		init = p.parseExpression()
		if p.at(token.IN) {
			keyPos := p.peek(0).Pos
			if d, ok := init.(*ast.VarDecl); (ok && d.Init != nil) || !ast.IsAssignable(init) {
				p.fail(errorf(keyPos, "invalid for-in key %s", init))
			}
			p.next()
			obj := p.parseExpression()
			p.expect(token.RPAREN, ")")
			body := p.parseStatement()
			return &ast.ForInStmt{BaseStmt: p.stmtBase(start), Key: init, Object: obj, Body: body}
		}
	}
	p.expect(token.SEMICOLON, ";")

	var cond, post ast.Expr
	if !p.at(token.SEMICOLON) {
		cond = p.parseExpression()
	}
	p.expect(token.SEMICOLON, ";")
	if !p.at(token.RPAREN) {
		post = p.parseExpression()
	}
	p.expect(token.RPAREN, ")")
	body := p.parseStatement()
	return &ast.ForStmt{BaseStmt: p.stmtBase(start), Init: init, Cond: cond, Post: post, Body: body}
}

func (p *Parser) parseSwitchStmt() *ast.SwitchStmt {
	start := p.expect(token.SWITCH, "switch").Pos
	tag := p.parseCondition()
	p.expect(token.LBRACE, "{")

	var cases []*ast.CaseClause
	seenDefault := false
	for !p.match(token.RBRACE) {
		caseTok := p.peek(0)
		var value ast.Expr
		switch caseTok.Type {
		case token.CASE:
			p.next()
			value = p.parseExpression()
		case token.DEFAULT:
			if seenDefault {
				p.fail(errorf(caseTok.Pos, "multiple defaults in switch"))
			}
			seenDefault = true
			p.next()
		default:
			p.fail(expectedError(caseTok.Pos, "case, default or }", caseTok.String()))
		}
		p.expect(token.COLON, ":")

		var body []ast.Stmt
		for !p.atAny(token.CASE, token.DEFAULT, token.RBRACE, token.EOF) {
			body = append(body, p.parseStatement())
		}
		cases = append(cases, &ast.CaseClause{
			BaseNode: ast.BaseNode{NodeID: p.ids.Next(), StartPos: caseTok.Pos, EndPos: p.endPos()},
			Value:    value,
			Body:     body,
		})
	}
	return &ast.SwitchStmt{BaseStmt: p.stmtBase(start), Tag: tag, Cases: cases}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.expect(token.RETURN, "return").Pos
	var value ast.Expr
	if !p.atAny(token.SEMICOLON, token.RBRACE, token.EOF) {
		value = p.parseExpression()
	}
	p.skipSemicolon()
	return &ast.ReturnStmt{BaseStmt: p.stmtBase(start), Value: value}
}

// -----------------------------------------------------------------------------
// Expressions, lowest precedence first
// -----------------------------------------------------------------------------

// parseExpression parses a comma-separated sequence.
func (p *Parser) parseExpression() ast.Expr {
	start := p.peek(0).Pos
	first := p.parseAssignment()
	if !p.at(token.COMMA) {
		return first
	}
	items := []ast.Expr{first}
	for p.match(token.COMMA) {
		items = append(items, p.parseAssignment())
	}
	return &ast.SeqExpr{BaseExpr: p.exprBase(start), Items: items}
}

func (p *Parser) parseAssignment() ast.Expr {
	start := p.peek(0).Pos
	left := p.parseConditional()
	if !p.peek(0).Type.IsAssign() {
		return left
	}
	opTok := p.next()
	if !ast.IsAssignable(left) {
		p.fail(errorf(opTok.Pos, "invalid assignment target %s", left))
	}
	right := p.parseAssignment()
	return &ast.AssignExpr{BaseExpr: p.exprBase(start), Left: left, Op: opTok.Type, Right: right}
}

func (p *Parser) parseConditional() ast.Expr {
	start := p.peek(0).Pos
	cond := p.parseLogicalOr()
	if !p.match(token.QUESTION) {
		return cond
	}
	then := p.parseAssignment()
	p.expect(token.COLON, ":")
	els := p.parseAssignment()
	return &ast.CondExpr{BaseExpr: p.exprBase(start), Cond: cond, Then: then, Else: els}
}

// parseList parses operand (op operand)* at one precedence level into a
// flat ListExpr, or returns the lone operand.
func (p *Parser) parseList(level ast.Level, operand func() ast.Expr, ops ...token.Token) ast.Expr {
	start := p.peek(0).Pos
	first := operand()
	if !p.atAny(ops...) {
		return first
	}
	list := &ast.ListExpr{Level: level, Operands: []ast.Expr{first}}
	for p.atAny(ops...) {
		list.Ops = append(list.Ops, p.next().Type)
		list.Operands = append(list.Operands, operand())
	}
	list.BaseExpr = p.exprBase(start)
	return list
}

func (p *Parser) parseLogicalOr() ast.Expr {
	return p.parseList(ast.LevelLogicalOr, p.parseLogicalAnd, token.OR)
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	return p.parseList(ast.LevelLogicalAnd, p.parseBitwiseOr, token.AND)
}

func (p *Parser) parseBitwiseOr() ast.Expr {
	return p.parseList(ast.LevelBitOr, p.parseBitwiseXor, token.BIT_OR)
}

func (p *Parser) parseBitwiseXor() ast.Expr {
	return p.parseList(ast.LevelBitXor, p.parseBitwiseAnd, token.BIT_XOR)
}

func (p *Parser) parseBitwiseAnd() ast.Expr {
	return p.parseList(ast.LevelBitAnd, p.parseEquality, token.BIT_AND)
}

// parseBinary parses a left-associative chain of two-operand expressions.
func (p *Parser) parseBinary(operand func() ast.Expr, ops ...token.Token) ast.Expr {
	start := p.peek(0).Pos
	left := operand()
	for p.atAny(ops...) {
		op := p.next().Type
		right := operand()
		left = &ast.BinaryExpr{BaseExpr: p.exprBase(start), Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	return p.parseBinary(p.parseRelational,
		token.EQUALS, token.NOT_EQUALS, token.STRICT_EQ, token.STRICT_NE)
}

func (p *Parser) parseRelational() ast.Expr {
	return p.parseBinary(p.parseShift,
		token.LESS, token.LTE, token.GREATER, token.GTE, token.INSTANCEOF)
}

func (p *Parser) parseShift() ast.Expr {
	return p.parseList(ast.LevelShift, p.parseAdditive, token.SHL, token.SHR, token.USHR)
}

func (p *Parser) parseAdditive() ast.Expr {
	return p.parseList(ast.LevelAdditive, p.parseMultiplicative, token.ADD, token.SUB)
}

func (p *Parser) parseMultiplicative() ast.Expr {
	return p.parseList(ast.LevelMultiplicative, p.parseUnary, token.MUL, token.DIV, token.MOD)
}

func (p *Parser) parseUnary() ast.Expr {
	tok := p.peek(0)
	switch tok.Type {
	case token.INCR, token.DECR, token.DELETE:
		p.next()
		x := p.parseUnary()
		if !ast.IsAssignable(x) {
			p.fail(errorf(tok.Pos, "invalid operand for %s: %s", tok.Type, x))
		}
		return &ast.UnaryExpr{BaseExpr: p.exprBase(tok.Pos), Op: tok.Type, X: x}
	case token.ADD, token.SUB, token.TILDE, token.NOT, token.TYPEOF, token.VOID:
		p.next()
		x := p.parseUnary()
		return &ast.UnaryExpr{BaseExpr: p.exprBase(tok.Pos), Op: tok.Type, X: x}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	start := p.peek(0).Pos
	x := p.parsePrimary()
	if !p.atAny(token.INCR, token.DECR) {
		return x
	}
	opTok := p.next()
	if !ast.IsAssignable(x) {
		p.fail(errorf(opTok.Pos, "invalid operand for %s: %s", opTok.Type, x))
	}
	return &ast.PostfixExpr{BaseExpr: p.exprBase(start), X: x, Op: opTok.Type}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek(0)
	switch tok.Type {
	case token.NUMBER:
		p.next()
		return &ast.Literal{BaseExpr: p.exprBase(tok.Pos), Kind: token.NUMBER, Num: parseNumber(tok.Value), Raw: tok.Value}

	case token.STRING:
		p.next()
		return &ast.Literal{BaseExpr: p.exprBase(tok.Pos), Kind: token.STRING, Str: tok.Value, Raw: tok.Value}

	case token.NULL, token.UNDEFINED, token.TRUE, token.FALSE, token.NAN, token.INFINITY:
		p.next()
		return &ast.Literal{BaseExpr: p.exprBase(tok.Pos), Kind: tok.Type, Raw: tok.Value}

	case token.LPAREN:
		p.next()
		x := p.parseExpression()
		p.expect(token.RPAREN, ")")
		return &ast.ParenExpr{BaseExpr: p.exprBase(tok.Pos), X: x}

	case token.LBRACKET:
		return p.parseArrayLit()

	case token.LBRACE:
		return p.parseObjectLit()

	case token.FUNCTION:
		return p.parseFuncLit()

	case token.NEW:
		p.next()
		if !p.atAny(token.IDENT, token.THIS) {
			next := p.peek(0)
			p.fail(expectedError(next.Pos, "constructor", next.String()))
		}
		target := p.parseIdentChain(p.next())
		return &ast.NewExpr{BaseExpr: p.exprBase(tok.Pos), Target: target}

	case token.VAR:
		p.next()
		return p.parseVarBinding(tok.Pos)

	case token.IDENT, token.THIS:
		return p.parseIdentChain(p.next())
	}

	p.fail(expectedError(tok.Pos, "expression", tok.String()))
	return nil
}

// parseIdentChain parses the rest of name[idx]...(args).sub after the
// base name token has been consumed.
func (p *Parser) parseIdentChain(name lexer.Token) *ast.IdentExpr {
	n := &ast.IdentExpr{Name: name.Value}
	for p.match(token.LBRACKET) {
		n.Index = append(n.Index, p.parseExpression())
		p.expect(token.RBRACKET, "]")
	}
	if p.match(token.LPAREN) {
		n.Call = true
		n.Args = p.parseArgs(token.RPAREN, ")")
	}
	if p.match(token.DOT) {
		n.Sub = p.parseIdentChain(p.expectName("property name"))
	}
	n.BaseExpr = p.exprBase(name.Pos)
	return n
}

// parseArgs parses assignment expressions separated by commas up to and
// including the closing token. A trailing comma is allowed.
func (p *Parser) parseArgs(closing token.Token, want string) []ast.Expr {
	var args []ast.Expr
	for !p.at(closing) {
		args = append(args, p.parseAssignment())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(closing, want)
	return args
}

func (p *Parser) parseArrayLit() *ast.ArrayLit {
	start := p.expect(token.LBRACKET, "[").Pos
	elems := p.parseArgs(token.RBRACKET, "]")
	return &ast.ArrayLit{BaseExpr: p.exprBase(start), Elems: elems}
}

func (p *Parser) parseObjectLit() *ast.ObjectLit {
	start := p.expect(token.LBRACE, "{").Pos
	var fields []ast.Field
	for !p.at(token.RBRACE) {
		keyTok := p.peek(0)
		var key string
		switch keyTok.Type {
		case token.STRING:
			key = p.next().Value
		case token.NUMBER:
			p.next()
			n := parseNumber(keyTok.Value)
			if n != float64(int64(n)) || n < 0 {
				p.fail(errorf(keyTok.Pos, "object key must be an integer, got %s", keyTok.Value))
			}
			key = strconv.FormatInt(int64(n), 10)
		default:
			key = p.expectName("property name").Value
		}
		p.expect(token.COLON, ":")
		fields = append(fields, ast.Field{Key: key, KeyPos: keyTok.Pos, Value: p.parseAssignment()})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE, "}")
	return &ast.ObjectLit{BaseExpr: p.exprBase(start), Fields: fields}
}

func (p *Parser) parseFuncLit() *ast.FuncLit {
	start := p.expect(token.FUNCTION, "function").Pos
	var name string
	if p.at(token.IDENT) {
		name = p.next().Value
	}
	p.expect(token.LPAREN, "(")
	var params []string
	for !p.at(token.RPAREN) {
		params = append(params, p.expect(token.IDENT, "parameter name").Value)
		p.skipTypeAnnotation()
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN, ")")
	p.skipTypeAnnotation()
	body := p.parseBlock()
	return &ast.FuncLit{BaseExpr: p.exprBase(start), Name: name, Params: params, Body: body}
}

// parseNumber converts a literal already validated by the lexer.
func parseNumber(text string) float64 {
	if len(text) > 1 && (text[1] == 'x' || text[1] == 'X') {
		var n float64
		for _, c := range text[2:] {
			n = n*16 + float64(hexDigit(c))
		}
		return n
	}
	if strings.HasSuffix(text, ".") {
		text += "0"
	}
	text = strings.NewReplacer(".e", ".0e", ".E", ".0E").Replace(text)
	n, _ := strconv.ParseFloat(text, 64)
	return n
}

func hexDigit(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c - 'a' + 10)
	default:
		return int(c - 'A' + 10)
	}
}
