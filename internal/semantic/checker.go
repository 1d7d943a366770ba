package semantic

import (
	"github.com/kolkov/ustep/internal/ast"
)

// Checker validates statement placement in a parsed program.
type Checker struct {
	errors ErrorList

	// Context tracking; reset on entry to a function body.
	inLoop   int
	inSwitch int
	inFunc   int
}

// Check validates prog and returns an ErrorList, or nil if the program
// is well formed.
func Check(prog *ast.Program) error {
	c := &Checker{}
	for _, s := range prog.Stmts {
		c.checkStmt(s)
	}
	return c.errors.Err()
}

// CheckExpr validates a standalone expression, such as a watch, which
// runs outside any loop or function.
func CheckExpr(e ast.Expr) error {
	c := &Checker{}
	c.checkExpr(e)
	return c.errors.Err()
}

func (c *Checker) checkStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		c.checkStmt(s)
	}
}

func (c *Checker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case nil:

	case *ast.ExprStmt:
		c.checkExpr(s.X)

	case *ast.VarStmt:
		for _, d := range s.Decls {
			c.checkExpr(d)
		}

	case *ast.FuncDecl:
		c.checkFunc(s.Func)

	case *ast.EmptyStmt:

	case *ast.BlockStmt:
		c.checkStmts(s.Stmts)

	case *ast.IfStmt:
		c.checkExpr(s.Cond)
		c.checkStmt(s.Then)
		c.checkStmt(s.Else)

	case *ast.SwitchStmt:
		c.checkExpr(s.Tag)
		c.inSwitch++
		for _, cc := range s.Cases {
			c.checkExpr(cc.Value)
			c.checkStmts(cc.Body)
		}
		c.inSwitch--

	case *ast.WhileStmt:
		c.checkExpr(s.Cond)
		c.loopBody(s.Body)

	case *ast.DoWhileStmt:
		c.loopBody(s.Body)
		c.checkExpr(s.Cond)

	case *ast.ForStmt:
		c.checkExpr(s.Init)
		c.checkExpr(s.Cond)
		c.checkExpr(s.Post)
		c.loopBody(s.Body)

	case *ast.ForInStmt:
		c.checkExpr(s.Key)
		c.checkExpr(s.Object)
		c.loopBody(s.Body)

	case *ast.BreakStmt:
		if c.inLoop == 0 && c.inSwitch == 0 {
			c.errors.Add(s.Pos(), errBreakOutsideLoop)
		}

	case *ast.ContinueStmt:
		if c.inLoop == 0 {
			c.errors.Add(s.Pos(), errContinueOutsideLoop)
		}

	case *ast.ReturnStmt:
		if c.inFunc == 0 {
			c.errors.Add(s.Pos(), errReturnOutsideFunc)
		}
		c.checkExpr(s.Value)
	}
}

func (c *Checker) loopBody(body ast.Stmt) {
	c.inLoop++
	c.checkStmt(body)
	c.inLoop--
}

func (c *Checker) checkFunc(fn *ast.FuncLit) {
	seen := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		if seen[p] {
			name := fn.Name
			if name == "" {
				name = "literal"
			}
			c.errors.Add(fn.Pos(), errDuplicateParam, p, name)
		}
		seen[p] = true
	}

	loop, sw := c.inLoop, c.inSwitch
	c.inLoop, c.inSwitch = 0, 0
	c.inFunc++
	c.checkStmts(fn.Body.Stmts)
	c.inFunc--
	c.inLoop, c.inSwitch = loop, sw
}

// checkExpr descends into expressions only to reach function literals.
func (c *Checker) checkExpr(expr ast.Expr) {
	if expr == nil {
		return
	}
	ast.Walk(expr, func(n ast.Node) bool {
		if fn, ok := n.(*ast.FuncLit); ok {
			c.checkFunc(fn)
			return false
		}
		return true
	})
}
