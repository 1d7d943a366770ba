// Package runtime is the host library installed beneath every script:
// output, math, conversions, array helpers and regular expressions backed
// by coregex.
package runtime

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/kolkov/ustep/internal/types"
)

// NamespaceName is the name the library object is bound to in scripts.
const NamespaceName = "global"

// Library holds the state host functions share.
type Library struct {
	realm *types.Realm
	out   io.Writer
	regex *RegexCache
	rand  *rand.Rand
}

// New creates a library whose print writes to out.
func New(realm *types.Realm, out io.Writer) *Library {
	if out == nil {
		out = io.Discard
	}
	return &Library{
		realm: realm,
		out:   out,
		regex: NewRegexCache(0),
		rand:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Seed makes Math.random deterministic.
func (l *Library) Seed(seed uint64) {
	l.rand = rand.New(rand.NewPCG(seed, seed))
}

// Namespace builds the global object and installs the array methods on
// the realm's array prototype.
func (l *Library) Namespace() *types.Object {
	g := l.realm.NewObject()
	l.define(g, "print", false, l.print)

	l.define(g, "parseInt", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		radix := 0
		if r := arg(args, 1); !r.IsUndefined() {
			switch n := r.ToNumber(); {
			case math.IsNaN(n) || math.IsInf(n, 0):
			case math.Abs(n) > 36:
				radix = -1
			default:
				radix = int(n)
			}
		}
		if radix != 0 && (radix < 2 || radix > 36) {
			return types.Num(math.NaN()), nil
		}
		return types.Num(types.ParseIntPrefix(arg(args, 0).ToString(), radix)), nil
	})
	l.define(g, "parseFloat", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		return types.Num(types.ParseNumPrefix(arg(args, 0).ToString())), nil
	})
	l.define(g, "isNaN", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		return types.Bool(math.IsNaN(arg(args, 0).ToNumber())), nil
	})
	l.define(g, "String", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		if len(args) == 0 {
			return types.Str(""), nil
		}
		return types.Str(args[0].ToString()), nil
	})
	l.define(g, "Number", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		if len(args) == 0 {
			return types.Num(0), nil
		}
		return types.Num(args[0].ToNumber()), nil
	})
	l.define(g, "inspect", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		return types.Str(types.Inspect(arg(args, 0))), nil
	})

	g.Set("Math", types.Obj(l.math()))

	object := l.realm.NewObject()
	l.define(object, "keys", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		v := arg(args, 0)
		if !v.IsObject() {
			return types.Obj(l.realm.NewArray(nil)), nil
		}
		keys := v.Object().Keys()
		elems := make([]types.Value, len(keys))
		for i, k := range keys {
			elems[i] = types.Str(k)
		}
		return types.Obj(l.realm.NewArray(elems)), nil
	})
	g.Set("Object", types.Obj(object))

	array := l.realm.NewObject()
	l.define(array, "isArray", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		v := arg(args, 0)
		return types.Bool(v.IsObject() && v.Object().IsArray()), nil
	})
	g.Set("Array", types.Obj(array))

	l.installArrayMethods()
	l.installRegex(g)
	return g
}

func (l *Library) define(o *types.Object, name string, pure bool, fn types.NativeFunc) {
	f := l.realm.NewNative(name, fn)
	f.Fn.Pure = pure
	o.Set(name, types.Obj(f))
}

func arg(args []types.Value, i int) types.Value {
	if i < len(args) {
		return args[i]
	}
	return types.Undefined()
}

func (l *Library) print(_ types.Value, args []types.Value) (types.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		if a.IsStr() {
			parts[i] = a.ToString()
		} else {
			parts[i] = types.Inspect(a)
		}
	}
	_, err := fmt.Fprintln(l.out, strings.Join(parts, " "))
	return types.Undefined(), err
}

func (l *Library) math() *types.Object {
	m := l.realm.NewObject()
	m.Set("PI", types.Num(math.Pi))
	m.Set("E", types.Num(math.E))

	unary := map[string]func(float64) float64{
		"abs":   math.Abs,
		"ceil":  math.Ceil,
		"floor": math.Floor,
		"sqrt":  math.Sqrt,
		"round": func(x float64) float64 { return math.Floor(x + 0.5) },
	}
	for _, name := range []string{"abs", "ceil", "floor", "round", "sqrt"} {
		fn := unary[name]
		l.define(m, name, true, func(_ types.Value, args []types.Value) (types.Value, error) {
			return types.Num(fn(arg(args, 0).ToNumber())), nil
		})
	}
	l.define(m, "pow", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		return types.Num(math.Pow(arg(args, 0).ToNumber(), arg(args, 1).ToNumber())), nil
	})
	l.define(m, "min", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		return types.Num(fold(args, math.Inf(1), math.Min)), nil
	})
	l.define(m, "max", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		return types.Num(fold(args, math.Inf(-1), math.Max)), nil
	})
	l.define(m, "random", false, func(types.Value, []types.Value) (types.Value, error) {
		return types.Num(l.rand.Float64()), nil
	})
	return m
}

func fold(args []types.Value, init float64, f func(a, b float64) float64) float64 {
	acc := init
	for _, a := range args {
		acc = f(acc, a.ToNumber())
	}
	return acc
}

var errNotArray = errors.New("receiver is not an array")

func (l *Library) installArrayMethods() {
	proto := l.realm.ArrayProto
	receiver := func(name string, this types.Value) (*types.Object, error) {
		if !this.IsObject() || !this.Object().IsArray() {
			return nil, fmt.Errorf("%s: %w", name, errNotArray)
		}
		return this.Object(), nil
	}

	l.define(proto, "push", false, func(this types.Value, args []types.Value) (types.Value, error) {
		a, err := receiver("push", this)
		if err != nil {
			return types.Undefined(), err
		}
		a.Elems = append(a.Elems, args...)
		return types.Num(float64(len(a.Elems))), nil
	})
	l.define(proto, "pop", false, func(this types.Value, _ []types.Value) (types.Value, error) {
		a, err := receiver("pop", this)
		if err != nil || len(a.Elems) == 0 {
			return types.Undefined(), err
		}
		last := a.Elems[len(a.Elems)-1]
		a.Elems = a.Elems[:len(a.Elems)-1]
		return last, nil
	})
	l.define(proto, "join", true, func(this types.Value, args []types.Value) (types.Value, error) {
		a, err := receiver("join", this)
		if err != nil {
			return types.Undefined(), err
		}
		sep := ","
		if s := arg(args, 0); !s.IsUndefined() {
			sep = s.ToString()
		}
		parts := make([]string, len(a.Elems))
		for i, e := range a.Elems {
			if !e.IsNullish() {
				parts[i] = e.ToString()
			}
		}
		return types.Str(strings.Join(parts, sep)), nil
	})
	l.define(proto, "indexOf", true, func(this types.Value, args []types.Value) (types.Value, error) {
		a, err := receiver("indexOf", this)
		if err != nil {
			return types.Undefined(), err
		}
		want := arg(args, 0)
		for i, e := range a.Elems {
			if types.StrictEquals(e, want) {
				return types.Num(float64(i)), nil
			}
		}
		return types.Num(-1), nil
	})
}

// installRegex adds the pattern functions. Each takes the subject string
// first, then the pattern and optional flags.
func (l *Library) installRegex(g *types.Object) {
	compile := func(name string, args []types.Value, flagsAt int) (*Regex, string, error) {
		re, err := l.regex.Get(arg(args, 1).ToString(), optString(arg(args, flagsAt)))
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", name, err)
		}
		return re, arg(args, 0).ToString(), nil
	}

	l.define(g, "test", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		re, s, err := compile("test", args, 2)
		if err != nil {
			return types.Undefined(), err
		}
		return types.Bool(re.MatchString(s)), nil
	})
	l.define(g, "match", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		re, s, err := compile("match", args, 2)
		if err != nil {
			return types.Undefined(), err
		}
		loc := re.FindStringIndex(s)
		if loc == nil {
			return types.Null(), nil
		}
		return types.Str(s[loc[0]:loc[1]]), nil
	})
	l.define(g, "search", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		re, s, err := compile("search", args, 2)
		if err != nil {
			return types.Undefined(), err
		}
		loc := re.FindStringIndex(s)
		if loc == nil {
			return types.Num(-1), nil
		}
		return types.Num(float64(len([]rune(s[:loc[0]])))), nil
	})
	l.define(g, "replace", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		re, s, err := compile("replace", args, 3)
		if err != nil {
			return types.Undefined(), err
		}
		return types.Str(re.ReplaceAllString(s, arg(args, 2).ToString())), nil
	})
	l.define(g, "split", true, func(_ types.Value, args []types.Value) (types.Value, error) {
		re, s, err := compile("split", args, 2)
		if err != nil {
			return types.Undefined(), err
		}
		parts := re.Split(s, -1)
		elems := make([]types.Value, len(parts))
		for i, p := range parts {
			elems[i] = types.Str(p)
		}
		return types.Obj(l.realm.NewArray(elems)), nil
	})
}

func optString(v types.Value) string {
	if v.IsUndefined() {
		return ""
	}
	return v.ToString()
}
