package interp

import (
	"github.com/kolkov/ustep/internal/ast"
	"github.com/kolkov/ustep/internal/types"
)

func (e *Evaluator) stepStmts(stmts []ast.Stmt, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	for st.index < len(stmts) {
		ready, _, out, err := e.advance(st, stmts[st.index], kind)
		if err != nil || out.Kind != Normal {
			return false, out, err
		}
		if !ready {
			return false, normal, nil
		}
		st.index++
	}
	return true, normal, nil
}

func (e *Evaluator) stepExprStmt(n *ast.ExprStmt, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	ready, res, _, err := e.advance(st, n.X, kind)
	if err != nil || !ready {
		return false, normal, err
	}
	st.out.value = res.value
	return true, normal, nil
}

func (e *Evaluator) stepVarStmt(n *ast.VarStmt, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	for st.index < len(n.Decls) {
		ready, _, _, err := e.advance(st, n.Decls[st.index], kind)
		if err != nil || !ready {
			return false, normal, err
		}
		st.index++
	}
	return true, normal, nil
}

func (e *Evaluator) stepIf(n *ast.IfStmt, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	if st.phase == 0 {
		ready, res, _, err := e.advance(st, n.Cond, kind)
		if err != nil || !ready {
			return false, normal, err
		}
		if res.value.ToBool() {
			st.phase = 1
		} else if n.Else != nil {
			st.phase = 2
		} else {
			return true, normal, nil
		}
	}
	branch := n.Then
	if st.phase == 2 {
		branch = n.Else
	}
	ready, _, out, err := e.advance(st, branch, kind)
	if err != nil || out.Kind != Normal {
		return false, out, err
	}
	return ready, normal, nil
}

// loopBody drives a loop body and reports how the loop should proceed.
// exit is set when a break ended the loop; next when the iteration is over
// and the loop may move on within this unit.
func (e *Evaluator) loopBody(st *NodeState, body ast.Stmt, kind StepKind) (next, exit bool, out ControlOutcome, err error) {
	ready, _, out, err := e.advance(st, body, kind)
	if err != nil {
		return false, false, out, err
	}
	switch out.Kind {
	case Break:
		return false, true, normal, nil
	case Continue:
		return false, false, ControlOutcome{Kind: Continue}, nil
	case Return:
		return false, false, out, nil
	}
	return ready, false, normal, nil
}

func (e *Evaluator) stepWhile(n *ast.WhileStmt, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	for {
		if st.phase == 0 {
			ready, res, _, err := e.advance(st, n.Cond, kind)
			if err != nil || !ready {
				return false, normal, err
			}
			if !res.value.ToBool() {
				return true, normal, nil
			}
			st.phase = 1
		}
		next, exit, out, err := e.loopBody(st, n.Body, kind)
		switch {
		case err != nil || out.Kind == Return:
			return false, out, err
		case exit:
			return true, normal, nil
		case out.Kind == Continue:
			st.phase = 0
			return false, normal, nil
		case !next:
			return false, normal, nil
		}
		st.phase = 0
	}
}

// stepDoWhile runs the body before each test. The statement's value is the
// last condition value.
func (e *Evaluator) stepDoWhile(n *ast.DoWhileStmt, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	for {
		if st.phase == 0 {
			next, exit, out, err := e.loopBody(st, n.Body, kind)
			switch {
			case err != nil || out.Kind == Return:
				return false, out, err
			case exit:
				st.out.value = st.acc
				return true, normal, nil
			case out.Kind == Continue:
				st.phase = 1
				return false, normal, nil
			case !next:
				return false, normal, nil
			}
			st.phase = 1
		}
		ready, res, _, err := e.advance(st, n.Cond, kind)
		if err != nil || !ready {
			return false, normal, err
		}
		st.acc = res.value
		if !res.value.ToBool() {
			st.out.value = st.acc
			return true, normal, nil
		}
		st.phase = 0
	}
}

// Phases of a for loop.
const (
	forInit = iota
	forCond
	forBody
	forPost
)

func (e *Evaluator) stepFor(n *ast.ForStmt, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	for {
		switch st.phase {
		case forInit:
			if n.Init != nil {
				ready, _, _, err := e.advance(st, n.Init, kind)
				if err != nil || !ready {
					return false, normal, err
				}
			}
			st.phase = forCond

		case forCond:
			if n.Cond != nil {
				ready, res, _, err := e.advance(st, n.Cond, kind)
				if err != nil || !ready {
					return false, normal, err
				}
				if !res.value.ToBool() {
					return true, normal, nil
				}
			}
			st.phase = forBody

		case forBody:
			next, exit, out, err := e.loopBody(st, n.Body, kind)
			switch {
			case err != nil || out.Kind == Return:
				return false, out, err
			case exit:
				return true, normal, nil
			case out.Kind == Continue:
				st.phase = forPost
				return false, normal, nil
			case !next:
				return false, normal, nil
			}
			st.phase = forPost

		case forPost:
			if n.Post != nil {
				ready, _, _, err := e.advance(st, n.Post, kind)
				if err != nil || !ready {
					return false, normal, err
				}
			}
			st.phase = forCond
		}
	}
}

// stepForIn iterates over a snapshot of the object's keys taken when the
// loop starts, skipping keys deleted since. Each key is written through the
// location the Key expression yields.
func (e *Evaluator) stepForIn(n *ast.ForInStmt, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	c := e.ctx
	for {
		switch st.phase {
		case 0:
			ready, res, _, err := e.advance(st, n.Object, kind)
			if err != nil || !ready {
				return false, normal, err
			}
			if res.value.IsObject() {
				st.obj = res.value.Object()
				st.keys = st.obj.Keys()
			}
			st.phase = 1

		case 1:
			if !c.HasState(n.Key) {
				for st.index < len(st.keys) {
					if _, ok := c.lookup(st.obj, st.keys[st.index]); ok {
						break
					}
					st.index++
				}
				if st.index == len(st.keys) {
					return true, normal, nil
				}
			}
			ready, res, _, err := e.advance(st, n.Key, kind)
			if err != nil || !ready {
				return false, normal, err
			}
			if res.ref == nil {
				return false, normal, runtimeErrorf(n.Key.Pos(), "invalid for-in key %s", n.Key)
			}
			c.SetVariable(res.ref.Container, res.ref.Name, types.Str(st.keys[st.index]))
			st.index++
			st.phase = 2

		case 2:
			next, exit, out, err := e.loopBody(st, n.Body, kind)
			switch {
			case err != nil || out.Kind == Return:
				return false, out, err
			case exit:
				return true, normal, nil
			case out.Kind == Continue:
				st.phase = 1
				return false, normal, nil
			case !next:
				return false, normal, nil
			}
			st.phase = 1
		}
	}
}

// stepSwitch evaluates the tag, then the case values in order until one
// is strictly equal, and runs the clause bodies from there, falling
// through, until a break or the end. Without a match it starts at the
// default clause, if any.
func (e *Evaluator) stepSwitch(n *ast.SwitchStmt, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	for {
		switch st.phase {
		case 0:
			ready, res, _, err := e.advance(st, n.Tag, kind)
			if err != nil || !ready {
				return false, normal, err
			}
			st.acc = res.value
			st.phase = 1

		case 1:
			if st.index == len(n.Cases) {
				if st.dflt == 0 {
					return true, normal, nil
				}
				st.index, st.sub, st.phase = st.dflt-1, 0, 2
				continue
			}
			cc := n.Cases[st.index]
			if cc.Value == nil {
				st.dflt = st.index + 1
				st.index++
				continue
			}
			ready, res, _, err := e.advance(st, cc.Value, kind)
			if err != nil || !ready {
				return false, normal, err
			}
			if types.StrictEquals(st.acc, res.value) {
				st.sub, st.phase = 0, 2
				continue
			}
			st.index++

		case 2:
			if st.index == len(n.Cases) {
				return true, normal, nil
			}
			body := n.Cases[st.index].Body
			if st.sub == len(body) {
				st.index++
				st.sub = 0
				continue
			}
			ready, _, out, err := e.advance(st, body[st.sub], kind)
			if err != nil {
				return false, out, err
			}
			switch out.Kind {
			case Break:
				return true, normal, nil
			case Continue, Return:
				return false, out, nil
			}
			if !ready {
				return false, normal, nil
			}
			st.sub++
		}
	}
}

func (e *Evaluator) stepBreak(n *ast.BreakStmt) (bool, ControlOutcome, error) {
	if !e.ctx.InLoop() && !e.ctx.InSwitch() {
		return false, normal, runtimeErrorf(n.Pos(), "break statement must be inside a loop or switch")
	}
	return true, ControlOutcome{Kind: Break}, nil
}

func (e *Evaluator) stepContinue(n *ast.ContinueStmt) (bool, ControlOutcome, error) {
	if !e.ctx.InLoop() {
		return false, normal, runtimeErrorf(n.Pos(), "continue statement must be inside a loop")
	}
	return true, ControlOutcome{Kind: Continue}, nil
}

func (e *Evaluator) stepReturn(n *ast.ReturnStmt, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	if e.ctx.level == 0 {
		return false, normal, runtimeErrorf(n.Pos(), "return statement must be inside a function")
	}
	if n.Value == nil {
		return true, ControlOutcome{Kind: Return, Value: types.Undefined()}, nil
	}
	ready, res, _, err := e.advance(st, n.Value, kind)
	if err != nil || !ready {
		return false, normal, err
	}
	return true, ControlOutcome{Kind: Return, Value: res.value}, nil
}
