package interp

import (
	"math"
	"strconv"

	"github.com/kolkov/ustep/internal/ast"
	"github.com/kolkov/ustep/internal/token"
	"github.com/kolkov/ustep/internal/types"
)

// Phases of a reference chain.
const (
	identResolve = iota
	identIndex
	identArgs
	identCall
	identSub
)

func literalValue(n *ast.Literal) types.Value {
	switch n.Kind {
	case token.NUMBER:
		return types.Num(n.Num)
	case token.STRING:
		return types.Str(n.Str)
	case token.NULL:
		return types.Null()
	case token.TRUE:
		return types.Bool(true)
	case token.FALSE:
		return types.Bool(false)
	case token.NAN:
		return types.Num(math.NaN())
	case token.INFINITY:
		return types.Num(math.Inf(1))
	}
	return types.Undefined()
}

// closure creates a function object for f that captures the current scope
// chain.
func (e *Evaluator) closure(f *ast.FuncLit) types.Value {
	scopes := e.ctx.frame().scopes
	fn := &types.Function{
		Name:   f.Name,
		Params: f.Params,
		Body:   f.Body,
		Scope:  append([]*types.Object(nil), scopes...),
	}
	return types.Obj(e.ctx.realm.NewFunction(fn))
}

// collect evaluates exprs left to right into st.vals and reports done once
// every value has been harvested.
func (e *Evaluator) collect(st *NodeState, exprs []ast.Expr, kind StepKind) (bool, error) {
	for st.index < len(exprs) {
		ready, res, _, err := e.advance(st, exprs[st.index], kind)
		if err != nil || !ready {
			return false, err
		}
		st.vals = append(st.vals, res.value)
		st.index++
	}
	return true, nil
}

func (e *Evaluator) stepArray(n *ast.ArrayLit, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	done, err := e.collect(st, n.Elems, kind)
	if err != nil || !done {
		return false, normal, err
	}
	st.out.value = types.Obj(e.ctx.realm.NewArray(st.vals))
	return true, normal, nil
}

func (e *Evaluator) stepObject(n *ast.ObjectLit, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	for st.index < len(n.Fields) {
		ready, res, _, err := e.advance(st, n.Fields[st.index].Value, kind)
		if err != nil || !ready {
			return false, normal, err
		}
		st.vals = append(st.vals, res.value)
		st.index++
	}
	o := e.ctx.realm.NewObject()
	for i, f := range n.Fields {
		o.Set(f.Key, st.vals[i])
	}
	st.out.value = types.Obj(o)
	return true, normal, nil
}

// member reads key from base. Objects yield an assignable location;
// strings expose length and their characters.
func (e *Evaluator) member(base types.Value, key string, pos token.Position) (types.Value, *Ref, error) {
	switch {
	case base.IsObject():
		o := base.Object()
		return e.ctx.GetProperty(o, key), &Ref{Container: o, Name: key}, nil
	case base.IsStr():
		s := []rune(base.ToString())
		if key == "length" {
			return types.Num(float64(len(s))), nil, nil
		}
		if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(s) && strconv.Itoa(i) == key {
			return types.Str(string(s[i])), nil, nil
		}
	case base.IsNullish():
		return types.Undefined(), nil, runtimeErrorf(pos, "cannot read property %q of %s", key, base.ToString())
	}
	return types.Undefined(), nil, nil
}

func (e *Evaluator) stepIdent(n *ast.IdentExpr, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	c := e.ctx
	for {
		switch st.phase {
		case identResolve:
			if st.hasBase {
				v, ref, err := e.member(st.base, n.Name, n.Pos())
				if err != nil {
					return false, normal, err
				}
				st.this = st.base
				st.res = result{value: v, ref: ref}
			} else {
				ref, v, err := c.ResolveRef(n.Name)
				if err != nil {
					return false, normal, &UnboundNameError{Name: n.Name, Pos: n.Pos()}
				}
				st.this = types.Undefined()
				st.res = result{value: v, ref: &ref}
			}
			st.phase = identIndex

		case identIndex:
			if st.index == len(n.Index) {
				st.index = 0
				st.phase = identArgs
				continue
			}
			idx := n.Index[st.index]
			ready, res, _, err := e.advance(st, idx, kind)
			if err != nil || !ready {
				return false, normal, err
			}
			base := st.res.value
			v, ref, err := e.member(base, res.value.ToString(), idx.Pos())
			if err != nil {
				return false, normal, err
			}
			st.this = base
			st.res = result{value: v, ref: ref}
			st.index++

		case identArgs:
			if !n.Call {
				st.phase = identSub
				continue
			}
			done, err := e.collect(st, n.Args, kind)
			if err != nil || !done {
				return false, normal, err
			}
			args := st.vals
			st.vals = nil
			if st.ctor && n.Sub == nil {
				st.out = result{value: st.res.value, args: args, ctor: true}
				return true, normal, nil
			}
			fn := st.res.value.Callable()
			if fn == nil {
				return false, normal, runtimeErrorf(n.Pos(), "%s is not a function", n.Name)
			}
			finished, v, err := e.beginCall(st, fn, st.this, args, kind)
			if err != nil {
				return false, normal, err
			}
			if !finished {
				st.phase = identCall
				return false, normal, nil
			}
			st.res = result{value: v}
			st.phase = identSub

		case identCall:
			finished, v, err := e.stepCall(st.call, kind)
			if err != nil || !finished {
				return false, normal, err
			}
			st.call = nil
			st.res = result{value: v}
			st.phase = identSub

		case identSub:
			if n.Sub == nil {
				st.out = st.res
				st.out.ctor = st.ctor
				return true, normal, nil
			}
			if !c.HasState(n.Sub) {
				sub := e.beforeExecute(n.Sub)
				sub.base, sub.hasBase, sub.ctor = st.res.value, true, st.ctor
			}
			ready, res, _, err := e.advance(st, n.Sub, kind)
			if err != nil || !ready {
				return false, normal, err
			}
			st.out = res
			return true, normal, nil
		}
	}
}

func (e *Evaluator) stepVarDecl(n *ast.VarDecl, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	ref := &Ref{Container: st.obj, Name: n.Name}
	if n.Init == nil {
		st.out = result{value: types.Undefined(), ref: ref}
		return true, normal, nil
	}
	ready, res, _, err := e.advance(st, n.Init, kind)
	if err != nil || !ready {
		return false, normal, err
	}
	st.out = result{value: res.value, ref: ref}
	return true, normal, nil
}

// stepList folds a flat operator chain left to right. && and || stop at
// the first operand that decides the result.
func (e *Evaluator) stepList(n *ast.ListExpr, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	for {
		if st.index == len(n.Operands) {
			st.out.value = st.acc
			return true, normal, nil
		}
		if st.index > 0 {
			switch n.Ops[st.index-1] {
			case token.OR:
				if st.acc.ToBool() {
					st.index = len(n.Operands)
					continue
				}
			case token.AND:
				if !st.acc.ToBool() {
					st.index = len(n.Operands)
					continue
				}
			}
		}
		ready, res, _, err := e.advance(st, n.Operands[st.index], kind)
		if err != nil || !ready {
			return false, normal, err
		}
		if st.index == 0 {
			st.acc = res.value
		} else {
			switch op := n.Ops[st.index-1]; op {
			case token.AND, token.OR:
				st.acc = res.value
			default:
				st.acc, _ = types.Arith(op, st.acc, res.value)
			}
		}
		st.index++
	}
}

func (e *Evaluator) stepBinary(n *ast.BinaryExpr, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	if st.phase == 0 {
		ready, res, _, err := e.advance(st, n.Left, kind)
		if err != nil || !ready {
			return false, normal, err
		}
		st.acc = res.value
		st.phase = 1
	}
	ready, res, _, err := e.advance(st, n.Right, kind)
	if err != nil || !ready {
		return false, normal, err
	}
	if n.Op == token.INSTANCEOF {
		ctor := res.value.Callable()
		if ctor == nil {
			return false, normal, runtimeErrorf(n.Right.Pos(), "right-hand side of instanceof is not callable")
		}
		st.out.value = types.Bool(st.acc.IsObject() && st.acc.Object().InstanceOf(ctor))
		return true, normal, nil
	}
	st.out.value, _ = types.Arith(n.Op, st.acc, res.value)
	return true, normal, nil
}

func (e *Evaluator) stepAssign(n *ast.AssignExpr, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	if st.phase == 0 {
		ready, res, _, err := e.advance(st, n.Left, kind)
		if err != nil || !ready {
			return false, normal, err
		}
		if res.ref == nil {
			return false, normal, runtimeErrorf(n.Left.Pos(), "invalid assignment target %s", n.Left)
		}
		st.res = res
		st.phase = 1
	}
	ready, res, _, err := e.advance(st, n.Right, kind)
	if err != nil || !ready {
		return false, normal, err
	}
	v := res.value
	if n.Op != token.ASSIGN {
		v, _ = types.Arith(n.Op.BinaryOf(), st.res.value, v)
	}
	e.ctx.SetVariable(st.res.ref.Container, st.res.ref.Name, v)
	st.out.value = v
	return true, normal, nil
}

func (e *Evaluator) stepCond(n *ast.CondExpr, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	if st.phase == 0 {
		ready, res, _, err := e.advance(st, n.Cond, kind)
		if err != nil || !ready {
			return false, normal, err
		}
		st.phase = 2
		if res.value.ToBool() {
			st.phase = 1
		}
	}
	branch := n.Else
	if st.phase == 1 {
		branch = n.Then
	}
	ready, res, _, err := e.advance(st, branch, kind)
	if err != nil || !ready {
		return false, normal, err
	}
	st.out.value = res.value
	return true, normal, nil
}

func (e *Evaluator) stepUnary(n *ast.UnaryExpr, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	ready, res, _, err := e.advance(st, n.X, kind)
	if err != nil || !ready {
		return false, normal, err
	}
	switch n.Op {
	case token.INCR, token.DECR:
		if res.ref == nil {
			return false, normal, runtimeErrorf(n.Pos(), "invalid operand for %s: %s", n.Op, n.X)
		}
		v := types.Num(res.value.ToNumber() + delta(n.Op))
		e.ctx.SetVariable(res.ref.Container, res.ref.Name, v)
		st.out.value = v
	case token.DELETE:
		deleted := true
		if res.ref != nil {
			deleted = e.ctx.DeleteVariable(res.ref.Container, res.ref.Name)
		}
		st.out.value = types.Bool(deleted)
	default:
		st.out.value, _ = types.Unary(n.Op, res.value)
	}
	return true, normal, nil
}

func (e *Evaluator) stepPostfix(n *ast.PostfixExpr, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	ready, res, _, err := e.advance(st, n.X, kind)
	if err != nil || !ready {
		return false, normal, err
	}
	if res.ref == nil {
		return false, normal, runtimeErrorf(n.Pos(), "invalid operand for %s: %s", n.Op, n.X)
	}
	old := res.value.ToNumber()
	e.ctx.SetVariable(res.ref.Container, res.ref.Name, types.Num(old+delta(n.Op)))
	st.out.value = types.Num(old)
	return true, normal, nil
}

func delta(op token.Token) float64 {
	if op == token.DECR {
		return -1
	}
	return 1
}

// stepNew evaluates the target chain up to, but not including, its final
// call, then runs the callable against a fresh object whose prototype is
// the callable's "prototype" property. The fresh object is the result.
func (e *Evaluator) stepNew(n *ast.NewExpr, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	c := e.ctx
	if st.phase == 0 {
		if !c.HasState(n.Target) {
			e.beforeExecute(n.Target).ctor = true
		}
		ready, res, _, err := e.advance(st, n.Target, kind)
		if err != nil || !ready {
			return false, normal, err
		}
		ctor := res.value.Callable()
		if ctor == nil {
			return false, normal, runtimeErrorf(n.Pos(), "%s is not a constructor", n.Target)
		}
		st.obj = e.instantiate(ctor)
		if ctor.Fn.IsNative() {
			v, err := e.callNative(ctor, types.Obj(st.obj), res.args)
			if err != nil {
				return false, normal, err
			}
			st.out.value = types.Obj(st.obj)
			if v.IsObject() {
				st.out.value = v
			}
			return true, normal, nil
		}
		finished, _, err := e.beginCall(st, ctor, types.Obj(st.obj), res.args, kind)
		if err != nil {
			return false, normal, err
		}
		if !finished {
			st.phase = 1
			return false, normal, nil
		}
		st.out.value = types.Obj(st.obj)
		return true, normal, nil
	}

	finished, _, err := e.stepCall(st.call, kind)
	if err != nil || !finished {
		return false, normal, err
	}
	st.call = nil
	st.out.value = types.Obj(st.obj)
	return true, normal, nil
}

func (e *Evaluator) instantiate(ctor *types.Object) *types.Object {
	proto := e.ctx.realm.ObjectProto
	if p := e.ctx.GetProperty(ctor, "prototype"); p.IsObject() {
		proto = p.Object()
	}
	o := types.NewObject(proto)
	o.Ctor = ctor
	return o
}

func (e *Evaluator) stepParen(n *ast.ParenExpr, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	ready, res, _, err := e.advance(st, n.X, kind)
	if err != nil || !ready {
		return false, normal, err
	}
	st.out = res
	return true, normal, nil
}

func (e *Evaluator) stepSeq(n *ast.SeqExpr, st *NodeState, kind StepKind) (bool, ControlOutcome, error) {
	done, err := e.collect(st, n.Items, kind)
	if err != nil || !done {
		return false, normal, err
	}
	st.out.value = types.Undefined()
	if len(st.vals) > 0 {
		st.out.value = st.vals[len(st.vals)-1]
	}
	return true, normal, nil
}
