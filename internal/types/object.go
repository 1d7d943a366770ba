package types

import (
	"strconv"
	"strings"
)

// Object classes.
const (
	ClassObject   = "Object"
	ClassArray    = "Array"
	ClassFunction = "Function"
	ClassFrame    = "Frame"
)

// Object is a property bag with a prototype link. Own properties keep
// their insertion order. Lookups that miss fall back along Proto.
//
// Arrays keep their elements densely in Elems and expose them as the
// properties "0".."n-1" plus "length". Scope frames are objects of class
// Frame with no prototype.
type Object struct {
	Class string
	Proto *Object
	Ctor  *Object   // Function that constructed the object, if any
	Fn    *Function // Non-nil for callable objects
	Elems []Value   // Array elements

	keys  []string
	props map[string]Value
}

// NewObject creates an empty object of class Object.
func NewObject(proto *Object) *Object {
	return &Object{Class: ClassObject, Proto: proto}
}

// NewArray creates an array holding elems.
func NewArray(proto *Object, elems []Value) *Object {
	if elems == nil {
		elems = []Value{}
	}
	return &Object{Class: ClassArray, Proto: proto, Elems: elems}
}

// NewFrame creates an empty scope frame.
func NewFrame() *Object {
	return &Object{Class: ClassFrame}
}

// IsArray reports whether o is an array.
func (o *Object) IsArray() bool {
	return o.Class == ClassArray
}

// GetOwn returns the own property name.
func (o *Object) GetOwn(name string) (Value, bool) {
	if o.IsArray() {
		if name == "length" {
			return Num(float64(len(o.Elems))), true
		}
		if i, ok := arrayIndex(name); ok {
			if i < len(o.Elems) {
				return o.Elems[i], true
			}
			return Undefined(), false
		}
	}
	v, ok := o.props[name]
	return v, ok
}

// HasOwn reports whether name is an own property.
func (o *Object) HasOwn(name string) bool {
	_, ok := o.GetOwn(name)
	return ok
}

// Get looks name up on o and then along its prototype chain.
func (o *Object) Get(name string) (Value, bool) {
	for p := o; p != nil; p = p.Proto {
		if v, ok := p.GetOwn(name); ok {
			return v, true
		}
	}
	return Undefined(), false
}

// Has reports whether name is found on o or its prototype chain.
func (o *Object) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

// Owner returns the object on o's prototype chain that owns name, or nil.
func (o *Object) Owner(name string) *Object {
	for p := o; p != nil; p = p.Proto {
		if p.HasOwn(name) {
			return p
		}
	}
	return nil
}

// Set assigns an own property, creating it if needed. On arrays, an index
// past the end grows the array and "length" truncates or extends it.
func (o *Object) Set(name string, v Value) {
	if o.IsArray() {
		if name == "length" {
			o.setLength(v)
			return
		}
		if i, ok := arrayIndex(name); ok {
			for len(o.Elems) <= i {
				o.Elems = append(o.Elems, Undefined())
			}
			o.Elems[i] = v
			return
		}
	}
	if o.props == nil {
		o.props = make(map[string]Value)
	}
	if _, exists := o.props[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.props[name] = v
}

func (o *Object) setLength(v Value) {
	n := int(v.ToNumber())
	if n < 0 {
		n = 0
	}
	if n <= len(o.Elems) {
		o.Elems = o.Elems[:n]
		return
	}
	for len(o.Elems) < n {
		o.Elems = append(o.Elems, Undefined())
	}
}

// Delete removes an own property and reports whether it existed. Deleting
// an array element leaves an undefined hole.
func (o *Object) Delete(name string) bool {
	if o.IsArray() {
		if name == "length" {
			return false
		}
		if i, ok := arrayIndex(name); ok {
			if i >= len(o.Elems) {
				return false
			}
			o.Elems[i] = Undefined()
			return true
		}
	}
	if _, ok := o.props[name]; !ok {
		return false
	}
	delete(o.props, name)
	for i, k := range o.keys {
		if k == name {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the own enumerable property names: array indices first,
// then named properties in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.Elems)+len(o.keys))
	for i := range o.Elems {
		keys = append(keys, strconv.Itoa(i))
	}
	return append(keys, o.keys...)
}

// Len returns the number of own named properties, excluding array elements.
func (o *Object) Len() int {
	return len(o.keys)
}

// InstanceOf reports whether ctor's "prototype" object is on o's
// prototype chain.
func (o *Object) InstanceOf(ctor *Object) bool {
	pv, ok := ctor.GetOwn("prototype")
	if !ok || !pv.IsObject() {
		return false
	}
	proto := pv.Object()
	for p := o.Proto; p != nil; p = p.Proto {
		if p == proto {
			return true
		}
	}
	return false
}

func (o *Object) toString() string {
	switch {
	case o.Fn != nil:
		name := o.Fn.Name
		if name == "" {
			name = "anonymous"
		}
		return "function " + name + "() { [code] }"
	case o.IsArray():
		parts := make([]string, len(o.Elems))
		for i, e := range o.Elems {
			if !e.IsNullish() {
				parts[i] = e.ToString()
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object " + o.Class + "]"
	}
}

// arrayIndex parses a canonical non-negative integer property name.
func arrayIndex(name string) (int, bool) {
	if name == "" || len(name) > 9 || (len(name) > 1 && name[0] == '0') {
		return 0, false
	}
	n := 0
	for i := 0; i < len(name); i++ {
		if !isDigit(name[i]) {
			return 0, false
		}
		n = n*10 + int(name[i]-'0')
	}
	return n, true
}
