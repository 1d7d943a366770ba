package types

import "github.com/kolkov/ustep/internal/ast"

// NativeFunc implements a host function. this is the receiver of the call
// (undefined for plain calls).
type NativeFunc func(this Value, args []Value) (Value, error)

// Function is the callable part of a function object. Script functions
// carry their parameter names, body and the scope chain captured where the
// function literal was evaluated, innermost frame last. Host functions
// carry Native instead; Pure marks host functions without side effects,
// which are the only host calls allowed in isolated evaluation.
type Function struct {
	Name   string
	Params []string
	Body   *ast.BlockStmt
	Scope  []*Object
	Native NativeFunc
	Pure   bool
}

// IsNative reports whether the function is implemented by the host.
func (f *Function) IsNative() bool {
	return f.Native != nil
}

// Realm holds the shared prototypes every object of one run links to.
type Realm struct {
	ObjectProto   *Object
	FunctionProto *Object
	ArrayProto    *Object
}

// NewRealm creates the base prototypes.
func NewRealm() *Realm {
	objProto := &Object{Class: ClassObject}
	return &Realm{
		ObjectProto:   objProto,
		FunctionProto: &Object{Class: ClassFunction, Proto: objProto},
		ArrayProto:    &Object{Class: ClassArray, Proto: objProto},
	}
}

// NewObject creates an empty plain object.
func (r *Realm) NewObject() *Object {
	return NewObject(r.ObjectProto)
}

// NewArray creates an array of elems.
func (r *Realm) NewArray(elems []Value) *Object {
	return NewArray(r.ArrayProto, elems)
}

// NewFunction wraps fn in a function object with a fresh "prototype"
// object for use by new.
func (r *Realm) NewFunction(fn *Function) *Object {
	f := &Object{Class: ClassFunction, Proto: r.FunctionProto, Fn: fn}
	proto := r.NewObject()
	proto.Set("constructor", Obj(f))
	f.Set("prototype", Obj(proto))
	return f
}

// NewNative wraps a host function.
func (r *Realm) NewNative(name string, native NativeFunc) *Object {
	return r.NewFunction(&Function{Name: name, Native: native})
}
