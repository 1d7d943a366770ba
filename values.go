package ustep

import (
	"fmt"
	"slices"

	"github.com/kolkov/ustep/internal/types"
)

type (
	// Value is a script value.
	Value = types.Value

	// NativeFunc is a host function. Calls to it are refused while a
	// debugger watch is evaluated.
	NativeFunc = types.NativeFunc
)

// PureFunc is a host function without side effects. Debugger watches may
// call it.
type PureFunc func(this Value, args []Value) (Value, error)

// Value constructors for host functions.
func Undefined() Value { return types.Undefined() }
func Null() Value { return types.Null() }
func Bool(b bool) Value { return types.Bool(b) }
func Number(n float64) Value { return types.Num(n) }
func String(s string) Value { return types.Str(s) }
func Inspect(v Value) string { return types.Inspect(v) }
func StrictEquals(a, b Value) bool { return types.StrictEquals(a, b) }

// toValue converts a host Go value into a script value allocated in
// realm. name labels host functions in error messages.
func toValue(realm *types.Realm, name string, v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return types.Null(), nil
	case Value:
		return x, nil
	case bool:
		return types.Bool(x), nil
	case string:
		return types.Str(x), nil
	case int:
		return types.Num(float64(x)), nil
	case int32:
		return types.Num(float64(x)), nil
	case int64:
		return types.Num(float64(x)), nil
	case uint:
		return types.Num(float64(x)), nil
	case uint64:
		return types.Num(float64(x)), nil
	case float32:
		return types.Num(float64(x)), nil
	case float64:
		return types.Num(x), nil
	case NativeFunc:
		return types.Obj(realm.NewNative(name, x)), nil
	case func(Value, []Value) (Value, error):
		return types.Obj(realm.NewNative(name, x)), nil
	case PureFunc:
		f := realm.NewNative(name, types.NativeFunc(x))
		f.Fn.Pure = true
		return types.Obj(f), nil
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			ev, err := toValue(realm, fmt.Sprintf("%s[%d]", name, i), e)
			if err != nil {
				return types.Undefined(), err
			}
			elems[i] = ev
		}
		return types.Obj(realm.NewArray(elems)), nil
	case map[string]any:
		o := realm.NewObject()
		if err := fill(realm, name, o, x); err != nil {
			return types.Undefined(), err
		}
		return types.Obj(o), nil
	}
	return types.Undefined(), fmt.Errorf("%s: unsupported host value of type %T", name, v)
}

// fill sets the entries of m on o in key order, so scripts see a stable
// property order.
func fill(realm *types.Realm, prefix string, o *types.Object, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		v, err := toValue(realm, name, m[k])
		if err != nil {
			return err
		}
		o.Set(k, v)
	}
	return nil
}
