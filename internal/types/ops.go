package types

import (
	"math"

	"github.com/kolkov/ustep/internal/token"
)

// Arith applies a non-short-circuit binary operator. It reports false for
// operators it does not handle (&&, ||, instanceof and assignment).
func Arith(op token.Token, a, b Value) (Value, bool) {
	switch op {
	case token.ADD:
		return Add(a, b), true
	case token.SUB:
		return Num(a.ToNumber() - b.ToNumber()), true
	case token.MUL:
		return Num(a.ToNumber() * b.ToNumber()), true
	case token.DIV:
		return Num(a.ToNumber() / b.ToNumber()), true
	case token.MOD:
		return Num(math.Mod(a.ToNumber(), b.ToNumber())), true

	case token.SHL:
		return Num(float64(ToInt32(a) << (ToUint32(b) & 31))), true
	case token.SHR:
		return Num(float64(ToInt32(a) >> (ToUint32(b) & 31))), true
	case token.USHR:
		return Num(float64(ToUint32(a) >> (ToUint32(b) & 31))), true
	case token.BIT_AND:
		return Num(float64(ToInt32(a) & ToInt32(b))), true
	case token.BIT_OR:
		return Num(float64(ToInt32(a) | ToInt32(b))), true
	case token.BIT_XOR:
		return Num(float64(ToInt32(a) ^ ToInt32(b))), true

	case token.EQUALS:
		return Bool(LooseEquals(a, b)), true
	case token.NOT_EQUALS:
		return Bool(!LooseEquals(a, b)), true
	case token.STRICT_EQ:
		return Bool(StrictEquals(a, b)), true
	case token.STRICT_NE:
		return Bool(!StrictEquals(a, b)), true

	case token.LESS:
		c, ok := Compare(a, b)
		return Bool(ok && c < 0), true
	case token.LTE:
		c, ok := Compare(a, b)
		return Bool(ok && c <= 0), true
	case token.GREATER:
		c, ok := Compare(a, b)
		return Bool(ok && c > 0), true
	case token.GTE:
		c, ok := Compare(a, b)
		return Bool(ok && c >= 0), true
	}
	return Undefined(), false
}

// Add implements +: string concatenation when either side is a string or
// an object, numeric addition otherwise.
func Add(a, b Value) Value {
	if a.kind == KindStr || b.kind == KindStr || a.kind == KindObject || b.kind == KindObject {
		return Str(a.ToString() + b.ToString())
	}
	return Num(a.ToNumber() + b.ToNumber())
}

// Unary applies a prefix operator that does not write back: + - ~ ! typeof
// and void. It reports false for other operators.
func Unary(op token.Token, v Value) (Value, bool) {
	switch op {
	case token.ADD:
		return Num(v.ToNumber()), true
	case token.SUB:
		return Num(-v.ToNumber()), true
	case token.TILDE:
		return Num(float64(^ToInt32(v))), true
	case token.NOT:
		return Bool(!v.ToBool()), true
	case token.TYPEOF:
		return Str(v.TypeOf()), true
	case token.VOID:
		return Undefined(), true
	}
	return Undefined(), false
}
