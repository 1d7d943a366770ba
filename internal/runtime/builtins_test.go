package runtime_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kolkov/ustep/internal/interp"
	"github.com/kolkov/ustep/internal/parser"
	"github.com/kolkov/ustep/internal/runtime"
	"github.com/kolkov/ustep/internal/types"
)

func newContext(out *bytes.Buffer) (*interp.Context, *runtime.Library) {
	realm := types.NewRealm()
	lib := runtime.New(realm, out)
	ctx := interp.NewContext(realm, interp.Globals{
		Namespaces: []interp.Namespace{{Name: runtime.NamespaceName, Object: lib.Namespace()}},
	})
	return ctx, lib
}

func run(t *testing.T, src string) (string, string) {
	t.Helper()
	var out bytes.Buffer
	ctx, lib := newContext(&out)
	lib.Seed(1)
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, err := interp.New(prog, ctx).Run(interp.StepOver)
	if err != nil {
		t.Fatalf("run %q: %v", src, err)
	}
	return v.ToString(), out.String()
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"Math.max(1, 5, 3)", "5"},
		{"Math.min()", "Infinity"},
		{"Math.abs(-2) + Math.floor(2.7) + Math.ceil(0.2)", "5"},
		{"Math.round(2.5) + Math.round(-2.5)", "1"},
		{"Math.pow(2, 10)", "1024"},
		{"Math.sqrt(16)", "4"},
		{"Math.PI > 3.14 && Math.E < 2.72", "true"},
		{"var r = Math.random(); r >= 0 && r < 1", "true"},
		{"parseInt('42px')", "42"},
		{"parseInt('0x1F')", "31"},
		{"parseInt('ff', 16)", "255"},
		{"isNaN(parseInt('px'))", "true"},
		{"parseInt('7', 1)", "NaN"},
		{"parseInt('10', NaN)", "10"},
		{"parseInt('10', Infinity) + parseInt('10', -Infinity)", "20"},
		{"parseInt('10', 1e300)", "NaN"},
		{"parseInt('10', 16.9)", "16"},
		{"parseFloat('3.5e1 rest')", "35"},
		{"String(12) + Number('3')", "123"},
		{"Number()", "0"},
		{"Object.keys({a: 1, b: 2}).join('-')", "a-b"},
		{"Array.isArray([]) && !Array.isArray({})", "true"},
		{"var a = [1]; a.push(2, 3); a.pop() + a.length", "5"},
		{"var j = [1, null, 'x']; j.join()", "1,,x"},
		{"var n = [1, 2, 3]; n.indexOf(2) + n.indexOf('1')", "0"},
		{"test('abc123', '[0-9]+')", "true"},
		{"test('ABC', 'abc', 'i')", "true"},
		{"match('order 66 now', '[0-9]+')", "66"},
		{"match('none', '[0-9]+')", "null"},
		{"search('héllo world', 'w')", "6"},
		{"replace('a-b-c', '-', '+')", "a+b+c"},
		{"split('a, b,c', ',\\\\s*').length", "3"},
		{"inspect({k: [1, 'v']})", `{k: [1, "v"]}`},
		{"global.Math.floor(1.5)", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, _ := run(t, tt.src)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	_, out := run(t, "print('x =', 1, [2], {a: 'b'}); print();")
	want := "x = 1 [2] {a: \"b\"}\n\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"test('a', '[bad')", "test:"},
		{"match('a', 'a', 'g')", "match: invalid regular expression flag"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			var out bytes.Buffer
			ctx, _ := newContext(&out)
			prog, err := parser.Parse(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			_, err = interp.New(prog, ctx).Run(interp.StepOver)
			if err == nil || !strings.HasPrefix(err.Error(), tt.want) {
				t.Errorf("error = %v, want prefix %q", err, tt.want)
			}
		})
	}
}

func TestArrayMethodReceiver(t *testing.T) {
	realm := types.NewRealm()
	runtime.New(realm, nil).Namespace()
	push, _ := realm.ArrayProto.Get("push")
	_, err := push.Object().Fn.Native(types.Obj(realm.NewObject()), nil)
	if err == nil || !strings.Contains(err.Error(), "push: receiver is not an array") {
		t.Errorf("error = %v", err)
	}
}

func TestPurity(t *testing.T) {
	var out bytes.Buffer
	ctx, _ := newContext(&out)
	prog, err := parser.Parse("var arr = [];")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := interp.New(prog, ctx).Run(interp.StepOver); err != nil {
		t.Fatal(err)
	}
	iso := ctx.Isolate(1000)

	eval := func(src string) (types.Value, error) {
		expr, err := parser.ParseExpr(src, nil)
		if err != nil {
			t.Fatal(err)
		}
		return interp.Eval(iso, expr)
	}

	if v, err := eval("Math.max(1, 2) + parseInt('3')"); err != nil || v.ToNumber() != 5 {
		t.Errorf("pure calls = %s, %v", v, err)
	}
	for _, src := range []string{"print('x')", "Math.random()", "arr.push(1)"} {
		if _, err := eval(src); !errors.Is(err, interp.ErrImpureCall) {
			t.Errorf("%s: error = %v, want ErrImpureCall", src, err)
		}
	}
	if out.Len() != 0 {
		t.Errorf("isolated print wrote %q", out.String())
	}
}
