package semantic

import (
	"errors"
	"strings"
	"testing"

	"github.com/kolkov/ustep/internal/parser"
)

// Helper to parse and check
func checkCode(t *testing.T, code string) error {
	t.Helper()
	prog, err := parser.Parse(code)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Check(prog)
}

// Helper to check for expected error
func expectError(t *testing.T, code string, errSubstr string) {
	t.Helper()
	err := checkCode(t, code)
	if err == nil {
		t.Errorf("expected error containing %q, got no error", errSubstr)
		return
	}
	if !strings.Contains(err.Error(), errSubstr) {
		t.Errorf("expected error containing %q, got: %v", errSubstr, err)
	}
}

// Helper to check no errors
func expectNoError(t *testing.T, code string) {
	t.Helper()
	if err := checkCode(t, code); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheckValidPlacement(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"break in while", `while (1) { break }`},
		{"break in for", `for (var i = 0; i < 10; i++) { break }`},
		{"break in for-in", `for (var k in o) break`},
		{"break in do-while", `do { break } while (0)`},
		{"break in switch", `switch (x) { case 1: break; }`},
		{"continue in nested loop", `for (;;) { while (a) { if (b) continue; } }`},
		{"continue in switch in loop", `while (a) { switch (x) { case 1: continue; } }`},
		{"return in function", `function f() { return 1 }`},
		{"bare return in function", `function f() { return }`},
		{"return in nested if", `function f(x) { if (x) return 1; else return 0 }`},
		{"return in function literal", `var f = function () { return 2; };`},
		{"return in method", `var o = {m: function () { while (1) return 3; }};`},
		{"unique params", `function f(a, b, c) { return a + b + c }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectNoError(t, tt.code)
		})
	}
}

func TestCheckMisplacedStatements(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"break at top level", `break;`, errBreakOutsideLoop},
		{"continue at top level", `continue;`, errContinueOutsideLoop},
		{"continue in switch", `switch (x) { case 1: continue; }`, errContinueOutsideLoop},
		{"return at top level", `return 1;`, errReturnOutsideFunc},
		{"return in loop", `while (1) { return; }`, errReturnOutsideFunc},
		{"break in function inside loop", `while (1) { var f = function () { break; }; }`, errBreakOutsideLoop},
		{"continue in nested function", `for (;;) { function g() { if (a) continue; } }`, errContinueOutsideLoop},
		{"break in if", `if (x) break;`, errBreakOutsideLoop},
		{"duplicate param", `function f(a, b, a) { }`, `duplicate parameter "a" in function f`},
		{"duplicate param in literal", `var g = function (x, x) { };`, `duplicate parameter "x" in function literal`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, tt.code, tt.want)
		})
	}
}

func TestCheckReportsAllErrors(t *testing.T) {
	err := checkCode(t, "break;\ncontinue;\nreturn;")
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("error %T is not an ErrorList", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(list), err)
	}
	for i, e := range list {
		if e.Pos.Line != i+1 || e.Pos.Column != 1 {
			t.Errorf("error %d at %s, want %d:1", i, e.Pos, i+1)
		}
	}
	if lines := strings.Count(err.Error(), "\n"); lines != 2 {
		t.Errorf("Error() has %d line breaks, want 2", lines)
	}
}

func TestCheckExpr(t *testing.T) {
	e, err := parser.ParseExpr("function () { return 1; }", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckExpr(e); err != nil {
		t.Errorf("CheckExpr() = %v", err)
	}

	e, err = parser.ParseExpr("function () { break; }", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckExpr(e); err == nil {
		t.Error("CheckExpr() accepted break outside a loop")
	}
}
