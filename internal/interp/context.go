package interp

import (
	"github.com/kolkov/ustep/internal/ast"
	"github.com/kolkov/ustep/internal/types"
)

// Namespace is a host object installed at the bottom of the scope stack.
// Its properties resolve as bare names and the object itself is bound to
// Name in the globals frame.
type Namespace struct {
	Name   string
	Object *types.Object
}

// Globals seeds a context's bottom frames.
type Globals struct {
	Namespaces []Namespace
	This       *types.Object // nil for an empty object
}

// Tracer observes statement boundaries during stepping. StatementStart is
// called once before a statement runs; returning true pauses the current
// DoStep before the statement does any work. depth is the call depth of
// the statement, zero at top level.
type Tracer interface {
	StatementStart(s ast.Stmt, depth int) bool
	StatementEnd(s ast.Stmt, depth int)
}

// frame is one activation: the program or a script function call. Each
// has its own scope chain, node-state store and loop/switch flags.
type frame struct {
	fn       *types.Object
	scopes   []*types.Object
	states   stateStore
	inLoop   bool
	inSwitch bool
}

type slot struct {
	obj  *types.Object
	name string
}

type overlayEntry struct {
	v       types.Value
	deleted bool
}

// Context is the mutable state of one run: the activation frames, the
// change log and the completion value. All reads and writes made by the
// evaluator go through it.
type Context struct {
	realm  *types.Realm
	frames []*frame
	level  int // frame of the node being stepped
	base   int // scopes of the program frame that survive Reset

	changes []Change
	result  types.Value
	tracer  Tracer
	atomic  int

	steps  int
	budget int

	// Isolated contexts write to overlay instead of the objects they
	// reference.
	overlay map[slot]overlayEntry
}

// NewContext creates a context whose bottom frames are built from g: each
// namespace object, then the this object, then a frame binding each
// namespace by name plus "this", then the script's own scope.
func NewContext(realm *types.Realm, g Globals) *Context {
	this := g.This
	if this == nil {
		this = realm.NewObject()
	}
	names := types.NewFrame()
	var scopes []*types.Object
	for _, ns := range g.Namespaces {
		scopes = append(scopes, ns.Object)
		if ns.Name != "" {
			names.Set(ns.Name, types.Obj(ns.Object))
		}
	}
	names.Set("this", types.Obj(this))
	scopes = append(scopes, this, names, types.NewFrame())

	c := &Context{
		realm:  realm,
		frames: []*frame{{scopes: scopes, states: stateStore{}}},
		base:   len(scopes),
		result: types.Undefined(),
	}
	return c
}

// Realm returns the prototypes objects of this context link to.
func (c *Context) Realm() *types.Realm { return c.realm }

// SetTracer installs the statement observer. nil removes it.
func (c *Context) SetTracer(t Tracer) { c.tracer = t }

// SetBudget limits the number of units the context may execute; zero
// means no limit.
func (c *Context) SetBudget(n int) { c.budget = n }

// Steps returns the number of units executed so far.
func (c *Context) Steps() int { return c.steps }

func (c *Context) tick() error {
	c.steps++
	if c.budget > 0 && c.steps > c.budget {
		return ErrStepBudget
	}
	return nil
}

func (c *Context) frame() *frame { return c.frames[c.level] }

// Depth returns the current call depth, zero at top level.
func (c *Context) Depth() int { return len(c.frames) - 1 }

// Result returns the completion value: the value of the last expression
// statement executed.
func (c *Context) Result() types.Value { return c.result }

// Reset discards the activation left behind by a failed run so the
// context can run another program against the same globals.
func (c *Context) Reset() {
	c.frames = c.frames[:1]
	f := c.frames[0]
	f.scopes = f.scopes[:c.base]
	f.states = stateStore{}
	f.inLoop, f.inSwitch = false, false
	c.level = 0
	c.atomic = 0
	c.result = types.Undefined()
}

// -----------------------------------------------------------------------------
// Scopes
// -----------------------------------------------------------------------------

// Scopes returns the scope chain of the current frame, innermost last.
func (c *Context) Scopes() []*types.Object {
	return c.frame().scopes
}

// PushScope pushes scope, or a fresh frame object when scope is nil, onto
// the current scope chain.
func (c *Context) PushScope(scope *types.Object) *types.Object {
	if scope == nil {
		scope = types.NewFrame()
	}
	f := c.frame()
	f.scopes = append(f.scopes, scope)
	return scope
}

// PopScope removes the innermost scope.
func (c *Context) PopScope() {
	f := c.frame()
	f.scopes = f.scopes[:len(f.scopes)-1]
}

// DeclareLocal binds name in the innermost scope and returns that scope.
func (c *Context) DeclareLocal(name string, v types.Value) *types.Object {
	f := c.frame()
	scope := f.scopes[len(f.scopes)-1]
	c.SetVariable(scope, name, v)
	return scope
}

// ResolveRef finds the innermost scope that has name, own or inherited,
// and returns the location and its current value.
func (c *Context) ResolveRef(name string) (Ref, types.Value, error) {
	scopes := c.frame().scopes
	for i := len(scopes) - 1; i >= 0; i-- {
		if v, ok := c.lookup(scopes[i], name); ok {
			return Ref{Container: scopes[i], Name: name}, v, nil
		}
	}
	return Ref{}, types.Undefined(), &UnboundNameError{Name: name}
}

// Resolve returns the value of name in the current scope chain.
func (c *Context) Resolve(name string) (types.Value, error) {
	_, v, err := c.ResolveRef(name)
	return v, err
}

// -----------------------------------------------------------------------------
// Properties
// -----------------------------------------------------------------------------

func (c *Context) lookup(o *types.Object, name string) (types.Value, bool) {
	if c.overlay == nil {
		return o.Get(name)
	}
	for p := o; p != nil; p = p.Proto {
		if e, ok := c.overlay[slot{p, name}]; ok {
			if e.deleted {
				continue
			}
			return e.v, true
		}
		if v, ok := p.GetOwn(name); ok {
			return v, true
		}
	}
	return types.Undefined(), false
}

// GetProperty reads name from o, following the prototype chain.
func (c *Context) GetProperty(o *types.Object, name string) types.Value {
	v, _ := c.lookup(o, name)
	return v
}

// SetVariable writes name on container and records the change.
func (c *Context) SetVariable(container *types.Object, name string, v types.Value) {
	old := c.GetProperty(container, name)
	if c.overlay != nil {
		c.overlay[slot{container, name}] = overlayEntry{v: v}
	} else {
		container.Set(name, v)
	}
	c.changes = append(c.changes, Change{Container: container, Name: name, Old: old, New: v})
}

// DeleteVariable removes name from container and reports whether it was
// there.
func (c *Context) DeleteVariable(container *types.Object, name string) bool {
	if c.overlay == nil {
		return container.Delete(name)
	}
	if e, ok := c.overlay[slot{container, name}]; ok {
		c.overlay[slot{container, name}] = overlayEntry{deleted: true}
		return !e.deleted
	}
	if !container.HasOwn(name) {
		return false
	}
	c.overlay[slot{container, name}] = overlayEntry{deleted: true}
	return true
}

// Changes returns the writes recorded since the last ResetChanges.
func (c *Context) Changes() []Change { return c.changes }

// ResetChanges clears the change log.
func (c *Context) ResetChanges() { c.changes = c.changes[:0] }

// -----------------------------------------------------------------------------
// Node state
// -----------------------------------------------------------------------------

// BeginState creates the state record for n in the current frame.
func (c *Context) BeginState(n ast.Node) *NodeState {
	st := &NodeState{}
	c.frame().states[n.ID()] = st
	return st
}

// State returns n's state record, or nil if n is not active.
func (c *Context) State(n ast.Node) *NodeState {
	return c.frame().states[n.ID()]
}

// HasState reports whether n is active in the current frame.
func (c *Context) HasState(n ast.Node) bool {
	_, ok := c.frame().states[n.ID()]
	return ok
}

// EndState discards n's state record.
func (c *Context) EndState(n ast.Node) {
	delete(c.frame().states, n.ID())
}

// IsComplete reports whether n finished and awaits harvest.
func (c *Context) IsComplete(n ast.Node) bool {
	st := c.State(n)
	return st != nil && st.complete
}

// MarkComplete flags n as finished.
func (c *Context) MarkComplete(n ast.Node) {
	if st := c.State(n); st != nil {
		st.complete = true
	}
}

// InLoop reports whether the current frame is inside a loop body.
func (c *Context) InLoop() bool { return c.frame().inLoop }

// InSwitch reports whether the current frame is inside a switch.
func (c *Context) InSwitch() bool { return c.frame().inSwitch }

// -----------------------------------------------------------------------------
// Frames
// -----------------------------------------------------------------------------

// pushFrame activates a call of fn: the captured scope chain plus a frame
// binding this, arguments and the parameters.
func (c *Context) pushFrame(fn *types.Object, this types.Value, args []types.Value) *frame {
	locals := types.NewFrame()
	locals.Set("this", this)
	locals.Set("arguments", types.Obj(c.realm.NewArray(append([]types.Value(nil), args...))))
	for i, p := range fn.Fn.Params {
		v := types.Undefined()
		if i < len(args) {
			v = args[i]
		}
		locals.Set(p, v)
	}
	scopes := make([]*types.Object, 0, len(fn.Fn.Scope)+1)
	scopes = append(scopes, fn.Fn.Scope...)
	scopes = append(scopes, locals)

	f := &frame{fn: fn, scopes: scopes, states: stateStore{}}
	c.frames = append(c.frames, f)
	return f
}

func (c *Context) popFrame() {
	c.frames = c.frames[:len(c.frames)-1]
}

// Callers returns the functions of the active calls, outermost first.
func (c *Context) Callers() []*types.Object {
	var fns []*types.Object
	for _, f := range c.frames[1:] {
		fns = append(fns, f.fn)
	}
	return fns
}

// Isolate returns a child context for evaluating an expression against
// the current scopes without side effects: writes land in a private
// overlay, declarations in a private scope, and no more than budget units
// may run.
func (c *Context) Isolate(budget int) *Context {
	scopes := append([]*types.Object(nil), c.frame().scopes...)
	scopes = append(scopes, types.NewFrame())
	return &Context{
		realm:   c.realm,
		frames:  []*frame{{scopes: scopes, states: stateStore{}}},
		base:    len(scopes),
		result:  types.Undefined(),
		budget:  budget,
		overlay: map[slot]overlayEntry{},
	}
}

// Isolated reports whether the context was created by Isolate.
func (c *Context) Isolated() bool { return c.overlay != nil }

func (c *Context) statementStart(s ast.Stmt) bool {
	if c.tracer == nil || c.atomic > 0 {
		return false
	}
	return c.tracer.StatementStart(s, c.level)
}

func (c *Context) statementEnd(s ast.Stmt) {
	if c.tracer == nil || c.atomic > 0 {
		return
	}
	c.tracer.StatementEnd(s, c.level)
}
