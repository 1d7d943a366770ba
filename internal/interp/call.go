package interp

import (
	"fmt"

	"github.com/kolkov/ustep/internal/types"
)

// Invoke calls fn with the given receiver and arguments and runs it to
// completion as a single unit. Host functions are called directly.
func (e *Evaluator) Invoke(fn *types.Object, this types.Value, args []types.Value) (types.Value, error) {
	if fn.Fn == nil {
		return types.Undefined(), fmt.Errorf("%s is not a function", types.Inspect(types.Obj(fn)))
	}
	if fn.Fn.IsNative() {
		return e.callNative(fn, this, args)
	}
	c := e.ctx
	cs := e.enterCall(fn, this, args)
	c.atomic++
	defer func() { c.atomic-- }()
	for {
		done, v, err := e.stepCall(cs, StepOver)
		if err != nil || done {
			return v, err
		}
		if err := c.tick(); err != nil {
			return types.Undefined(), err
		}
	}
}

func (e *Evaluator) callNative(fn *types.Object, this types.Value, args []types.Value) (types.Value, error) {
	if e.ctx.Isolated() && !fn.Fn.Pure {
		return types.Undefined(), fmt.Errorf("%w: %s", ErrImpureCall, fn.Fn.Name)
	}
	return fn.Fn.Native(this, args)
}

func (e *Evaluator) enterCall(fn *types.Object, this types.Value, args []types.Value) *callState {
	return &callState{fn: fn, frame: e.ctx.pushFrame(fn, this, args)}
}

// beginCall starts a call on behalf of the node whose state is st. Host
// functions, and script functions when stepping over, finish at once.
// Otherwise the call's first unit runs and st.call tracks the rest.
func (e *Evaluator) beginCall(st *NodeState, fn *types.Object, this types.Value, args []types.Value, kind StepKind) (bool, types.Value, error) {
	if fn.Fn.IsNative() || kind == StepOver || e.ctx.atomic > 0 {
		v, err := e.Invoke(fn, this, args)
		return err == nil, v, err
	}
	st.call = e.enterCall(fn, this, args)
	finished, v, err := e.stepCall(st.call, kind)
	if finished {
		st.call = nil
	}
	return finished, v, err
}

// stepCall drives one unit of a call's body in the callee's frame. The
// frame is dropped when the body completes or returns.
func (e *Evaluator) stepCall(cs *callState, kind StepKind) (bool, types.Value, error) {
	c := e.ctx
	body := cs.fn.Fn.Body
	c.level++
	ready, _, out, err := e.advance(&cs.st, body, kind)
	c.level--
	if err != nil {
		return false, types.Undefined(), err
	}
	switch out.Kind {
	case Return:
		c.popFrame()
		return true, out.Value, nil
	case Break, Continue:
		return false, types.Undefined(), runtimeErrorf(body.Pos(), "%s outside of a loop", out.Kind)
	}
	if ready {
		c.popFrame()
		return true, types.Undefined(), nil
	}
	return false, types.Undefined(), nil
}
