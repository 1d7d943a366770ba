// Package interp runs a syntax tree in small resumable units.
//
// Each node follows the same protocol. beforeExecute creates its state
// record, step does one unit of work and reports whether the node is done,
// and afterExecute publishes the node's value to its parent and discards
// the state. A composite node drives one child at a time: it begins the
// child lazily, delegates steps to it, and on finding it complete harvests
// the value, advances its cursor and delegates to the next child within
// the same unit. Because all progress lives in the Context, a run can stop
// after any unit and resume later.
package interp

import (
	"github.com/kolkov/ustep/internal/ast"
	"github.com/kolkov/ustep/internal/types"
)

// Evaluator steps one root node, a program or a lone expression, in a
// Context.
type Evaluator struct {
	ctx   *Context
	root  ast.Node
	value types.Value
	done  bool
	err   error
}

// New returns an evaluator for root in ctx. Several evaluators may share a
// context one after another, as in a read-eval-print loop.
func New(root ast.Node, ctx *Context) *Evaluator {
	ctx.result = types.Undefined()
	return &Evaluator{ctx: ctx, root: root, value: types.Undefined()}
}

// Context returns the evaluator's context.
func (e *Evaluator) Context() *Context { return e.ctx }

// Done reports whether the root has finished, normally or with an error.
func (e *Evaluator) Done() bool { return e.done || e.err != nil }

// Err returns the error that stopped the run, if any.
func (e *Evaluator) Err() error { return e.err }

// Value returns the result: the root expression's value, or for a program
// the value of the last expression statement executed.
func (e *Evaluator) Value() types.Value {
	if _, ok := e.root.(*ast.Program); ok {
		return e.ctx.result
	}
	return e.value
}

// DoStep performs one unit of work and reports whether the root has
// finished. A tracer may pause the step before a statement runs, in which
// case no work is done. Once a step fails every later call returns the
// same error.
func (e *Evaluator) DoStep(kind StepKind) (bool, error) {
	if e.err != nil {
		return true, e.err
	}
	if e.done {
		return true, nil
	}
	c := e.ctx
	c.level = 0
	defer func() { c.level = len(c.frames) - 1 }()

	if err := c.tick(); err != nil {
		e.err = err
		return true, err
	}
	if !c.HasState(e.root) {
		e.beforeExecute(e.root)
	}
	done, out, err := e.doStep(e.root, kind)
	if err == nil && out.Kind != Normal {
		err = runtimeErrorf(e.root.Pos(), "%s outside of its construct", out.Kind)
	}
	if err != nil {
		e.err = err
		return true, err
	}
	if done {
		e.value = e.afterExecute(e.root).value
		e.done = true
	}
	return done, nil
}

// Run steps the root to completion with kind.
func (e *Evaluator) Run(kind StepKind) (types.Value, error) {
	for {
		done, err := e.DoStep(kind)
		if err != nil {
			return types.Undefined(), err
		}
		if done {
			return e.Value(), nil
		}
	}
}

// Eval evaluates expr to completion in ctx, running calls atomically.
func Eval(ctx *Context, expr ast.Expr) (types.Value, error) {
	return New(expr, ctx).Run(StepOver)
}

func (e *Evaluator) doStep(n ast.Node, kind StepKind) (bool, ControlOutcome, error) {
	done, out, err := e.step(n, kind)
	if err != nil {
		return false, out, err
	}
	if done && out.Kind == Normal {
		e.ctx.MarkComplete(n)
	}
	return done, out, nil
}

// advance drives child by one unit on behalf of the parent whose state is
// st. It reports ready once the child had already completed; the child has
// then been harvested and res holds its published result. A non-Normal
// outcome means the child finished abnormally and has been abandoned.
//
// Statements are reported to the tracer before they begin. A pause leaves
// the child unbegun and returns without doing any work.
func (e *Evaluator) advance(st *NodeState, child ast.Node, kind StepKind) (ready bool, res result, out ControlOutcome, err error) {
	c := e.ctx
	if !c.HasState(child) {
		if s, ok := traced(child); ok && !st.announced {
			st.announced = true
			if c.statementStart(s) {
				return false, result{}, normal, nil
			}
		}
		st.announced = false
		e.beforeExecute(child)
	} else if c.IsComplete(child) {
		res = e.afterExecute(child)
		if s, ok := traced(child); ok {
			c.statementEnd(s)
		}
		return true, res, normal, nil
	}

	_, out, err = e.doStep(child, kind)
	if err != nil {
		return false, result{}, out, err
	}
	if out.Kind != Normal {
		e.abandon(child)
		if s, ok := traced(child); ok {
			c.statementEnd(s)
		}
	}
	return false, result{}, out, nil
}

// traced reports whether n is a statement the tracer hears about. Blocks
// are not: their statements are.
func traced(n ast.Node) (ast.Stmt, bool) {
	switch s := n.(type) {
	case *ast.BlockStmt, *ast.EmptyStmt:
		return nil, false
	case ast.Stmt:
		return s, true
	}
	return nil, false
}

func (e *Evaluator) beforeExecute(n ast.Node) *NodeState {
	c := e.ctx
	st := c.BeginState(n)
	switch n := n.(type) {
	case *ast.Program:
		e.hoist(n.Stmts)
	case *ast.BlockStmt:
		c.PushScope(nil)
		st.scope = true
		e.hoist(n.Stmts)
	case *ast.VarDecl:
		st.obj = c.DeclareLocal(n.Name, types.Undefined())
	case *ast.WhileStmt, *ast.DoWhileStmt, *ast.ForStmt, *ast.ForInStmt:
		f := c.frame()
		st.savedLoop = f.inLoop
		f.inLoop = true
	case *ast.SwitchStmt:
		f := c.frame()
		st.savedSwitch = f.inSwitch
		f.inSwitch = true
	}
	return st
}

// hoist binds the function declarations of a statement list before any of
// its statements run.
func (e *Evaluator) hoist(stmts []ast.Stmt) {
	for _, s := range stmts {
		if d, ok := s.(*ast.FuncDecl); ok {
			e.ctx.DeclareLocal(d.Func.Name, e.closure(d.Func))
		}
	}
}

func (e *Evaluator) afterExecute(n ast.Node) result {
	c := e.ctx
	st := c.State(n)
	res := st.out
	switch n := n.(type) {
	case *ast.VarDecl:
		if n.Init != nil {
			c.SetVariable(st.obj, n.Name, res.value)
		}
	case *ast.ExprStmt:
		if c.level == 0 {
			c.result = res.value
		}
	}
	e.release(n, st)
	c.EndState(n)
	return res
}

// abandon discards a node that finished abnormally, undoing what its
// beforeExecute set up.
func (e *Evaluator) abandon(n ast.Node) {
	st := e.ctx.State(n)
	if st == nil {
		return
	}
	e.release(n, st)
	e.ctx.EndState(n)
}

func (e *Evaluator) release(n ast.Node, st *NodeState) {
	f := e.ctx.frame()
	if st.scope {
		e.ctx.PopScope()
	}
	switch n.(type) {
	case *ast.WhileStmt, *ast.DoWhileStmt, *ast.ForStmt, *ast.ForInStmt:
		f.inLoop = st.savedLoop
	case *ast.SwitchStmt:
		f.inSwitch = st.savedSwitch
	}
}

// step does one unit of work on n.
func (e *Evaluator) step(n ast.Node, kind StepKind) (bool, ControlOutcome, error) {
	st := e.ctx.State(n)
	switch n := n.(type) {
	// Expressions
	case *ast.Literal:
		st.out.value = literalValue(n)
		return true, normal, nil
	case *ast.ArrayLit:
		return e.stepArray(n, st, kind)
	case *ast.ObjectLit:
		return e.stepObject(n, st, kind)
	case *ast.FuncLit:
		st.out.value = e.closure(n)
		return true, normal, nil
	case *ast.IdentExpr:
		return e.stepIdent(n, st, kind)
	case *ast.VarDecl:
		return e.stepVarDecl(n, st, kind)
	case *ast.ListExpr:
		return e.stepList(n, st, kind)
	case *ast.BinaryExpr:
		return e.stepBinary(n, st, kind)
	case *ast.AssignExpr:
		return e.stepAssign(n, st, kind)
	case *ast.CondExpr:
		return e.stepCond(n, st, kind)
	case *ast.UnaryExpr:
		return e.stepUnary(n, st, kind)
	case *ast.PostfixExpr:
		return e.stepPostfix(n, st, kind)
	case *ast.NewExpr:
		return e.stepNew(n, st, kind)
	case *ast.ParenExpr:
		return e.stepParen(n, st, kind)
	case *ast.SeqExpr:
		return e.stepSeq(n, st, kind)

	// Statements
	case *ast.Program:
		return e.stepStmts(n.Stmts, st, kind)
	case *ast.BlockStmt:
		return e.stepStmts(n.Stmts, st, kind)
	case *ast.ExprStmt:
		return e.stepExprStmt(n, st, kind)
	case *ast.VarStmt:
		return e.stepVarStmt(n, st, kind)
	case *ast.FuncDecl:
		e.ctx.DeclareLocal(n.Func.Name, e.closure(n.Func))
		return true, normal, nil
	case *ast.EmptyStmt:
		return true, normal, nil
	case *ast.IfStmt:
		return e.stepIf(n, st, kind)
	case *ast.SwitchStmt:
		return e.stepSwitch(n, st, kind)
	case *ast.WhileStmt:
		return e.stepWhile(n, st, kind)
	case *ast.DoWhileStmt:
		return e.stepDoWhile(n, st, kind)
	case *ast.ForStmt:
		return e.stepFor(n, st, kind)
	case *ast.ForInStmt:
		return e.stepForIn(n, st, kind)
	case *ast.BreakStmt:
		return e.stepBreak(n)
	case *ast.ContinueStmt:
		return e.stepContinue(n)
	case *ast.ReturnStmt:
		return e.stepReturn(n, st, kind)
	}
	return false, normal, runtimeErrorf(n.Pos(), "cannot execute %T", n)
}
