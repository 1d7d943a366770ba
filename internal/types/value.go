// Package types defines runtime value types for scripts.
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind represents the type of a script value.
type Kind uint8

const (
	KindUndefined Kind = iota // Unset value
	KindNull                  // The null literal
	KindBool                  // true or false
	KindNum                   // Numeric value
	KindStr                   // String value
	KindObject                // Object, array or function
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNum:
		return "num"
	case KindStr:
		return "str"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value represents a script runtime value.
// Uses tagged union pattern for type safety and performance.
// Values are passed by value; objects are shared by reference.
type Value struct {
	kind Kind
	num  float64 // number, or 1/0 for booleans
	str  string
	obj  *Object
}

// Constructors

// Undefined returns the unset value.
func Undefined() Value {
	return Value{kind: KindUndefined}
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool}
}

// Num creates a numeric value.
func Num(n float64) Value {
	return Value{kind: KindNum, num: n}
}

// Str creates a string value.
func Str(s string) Value {
	return Value{kind: KindStr, str: s}
}

// Obj wraps an object. A nil object yields null.
func Obj(o *Object) Value {
	if o == nil {
		return Null()
	}
	return Value{kind: KindObject, obj: o}
}

// Accessors

// Kind returns the value's type.
func (v Value) Kind() Kind {
	return v.kind
}

// IsUndefined returns true if the value is unset.
func (v Value) IsUndefined() bool {
	return v.kind == KindUndefined
}

// IsNull returns true if the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsNullish returns true for undefined and null.
func (v Value) IsNullish() bool {
	return v.kind == KindUndefined || v.kind == KindNull
}

// IsNum returns true if the value is a number.
func (v Value) IsNum() bool {
	return v.kind == KindNum
}

// IsStr returns true if the value is a string.
func (v Value) IsStr() bool {
	return v.kind == KindStr
}

// IsObject returns true if the value refers to an object.
func (v Value) IsObject() bool {
	return v.kind == KindObject
}

// Object returns the referenced object, or nil for primitives.
func (v Value) Object() *Object {
	return v.obj
}

// Callable returns the function behind v, or nil if v cannot be called.
func (v Value) Callable() *Object {
	if v.kind == KindObject && v.obj.Fn != nil {
		return v.obj
	}
	return nil
}

// Conversions

// ToNumber returns the numeric representation of the value.
func (v Value) ToNumber() float64 {
	switch v.kind {
	case KindNum, KindBool:
		return v.num
	case KindStr:
		return ParseNum(v.str)
	case KindNull:
		return 0
	case KindObject:
		return ParseNum(v.ToString())
	default: // KindUndefined
		return math.NaN()
	}
}

// ToString returns the string representation of the value.
func (v Value) ToString() string {
	switch v.kind {
	case KindStr:
		return v.str
	case KindNum:
		return FormatNum(v.num)
	case KindBool:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case KindNull:
		return "null"
	case KindObject:
		return v.obj.toString()
	default:
		return "undefined"
	}
}

// ToBool returns the truthiness of the value.
func (v Value) ToBool() bool {
	switch v.kind {
	case KindNum:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindBool:
		return v.num != 0
	case KindStr:
		return v.str != ""
	case KindObject:
		return true
	default:
		return false
	}
}

// TypeOf returns the typeof name of the value.
func (v Value) TypeOf() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindBool:
		return "boolean"
	case KindNum:
		return "number"
	case KindStr:
		return "string"
	case KindObject:
		if v.obj.Fn != nil {
			return "function"
		}
		return "object"
	default: // KindNull
		return "object"
	}
}

// String returns a debug representation of the value.
func (v Value) String() string {
	switch v.kind {
	case KindNum:
		return fmt.Sprintf("Num(%s)", FormatNum(v.num))
	case KindStr:
		return fmt.Sprintf("Str(%q)", v.str)
	case KindBool:
		return fmt.Sprintf("Bool(%t)", v.num != 0)
	case KindNull:
		return "Null()"
	case KindObject:
		return fmt.Sprintf("Obj(%s)", v.obj.Class)
	default:
		return "Undefined()"
	}
}

// Comparison

// StrictEquals reports a === b: same kind and same value, with objects
// compared by identity.
func StrictEquals(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNum, KindBool:
		return a.num == b.num
	case KindStr:
		return a.str == b.str
	case KindObject:
		return a.obj == b.obj
	default:
		return true
	}
}

// LooseEquals reports a == b with type coercion: undefined and null equal
// each other, booleans compare as numbers, and a string compared with a
// number is converted to a number.
func LooseEquals(a, b Value) bool {
	if a.kind == b.kind {
		return StrictEquals(a, b)
	}
	if a.IsNullish() || b.IsNullish() {
		return a.IsNullish() && b.IsNullish()
	}
	if a.kind == KindBool {
		return LooseEquals(Num(a.num), b)
	}
	if b.kind == KindBool {
		return LooseEquals(a, Num(b.num))
	}
	if a.kind == KindObject {
		return LooseEquals(Str(a.ToString()), b)
	}
	if b.kind == KindObject {
		return LooseEquals(a, Str(b.ToString()))
	}
	// One number, one string.
	return a.ToNumber() == b.ToNumber()
}

// Compare orders two values for the relational operators. Two strings
// compare lexically; anything else compares numerically. ok is false when
// either side is NaN, in which case every relation is false.
func Compare(a, b Value) (cmp int, ok bool) {
	if a.kind == KindObject {
		a = Str(a.ToString())
	}
	if b.kind == KindObject {
		b = Str(b.ToString())
	}
	if a.kind == KindStr && b.kind == KindStr {
		return strings.Compare(a.str, b.str), true
	}

	x, y := a.ToNumber(), b.ToNumber()
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return 0, false
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	default:
		return 0, true
	}
}

// Number Parsing and Formatting

// ParseNum converts a whole string to a number. Surrounding whitespace is
// ignored, an empty string is 0, and anything unparsable is NaN.
func ParseNum(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}

	// Reject forms ParseFloat accepts but scripts do not: inf, nan,
	// underscores and hex floats.
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isDigit(c) && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return math.NaN()
		}
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return n
		}
		return math.NaN()
	}
	return n
}

// ParseNumPrefix parses a decimal number from the beginning of a string,
// ignoring trailing characters: "12.5px" is 12.5. It returns NaN when no
// digits are found.
func ParseNumPrefix(s string) float64 {
	// Skip leading whitespace
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	start := i

	// Handle sign
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[start] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	// Parse decimal mantissa
	gotDigit := false
	for i < len(s) && isDigit(s[i]) {
		gotDigit = true
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			gotDigit = true
			i++
		}
	}
	if !gotDigit {
		return math.NaN()
	}

	// Parse exponent
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		for i < len(s) && isDigit(s[i]) {
			end = i + 1
			i++
		}
	}

	n, _ := strconv.ParseFloat(s[start:end], 64)
	return n
}

// ParseIntPrefix parses an integer in the given radix (2 to 36) from the
// beginning of s. Radix 0 means 10, or 16 when s starts with 0x.
// It returns NaN when no digits are found.
func ParseIntPrefix(s string, radix int) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if (radix == 0 || radix == 16) && len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
		radix = 16
	}
	if radix == 0 {
		radix = 10
	}
	if radix < 2 || radix > 36 {
		return math.NaN()
	}

	var n float64
	digits := 0
	for ; digits < len(s); digits++ {
		d := digitValue(s[digits])
		if d >= radix {
			break
		}
		n = n*float64(radix) + float64(d)
	}
	if digits == 0 {
		return math.NaN()
	}
	if neg {
		n = -n
	}
	return n
}

// FormatNum formats a number the way scripts print it: integers without a
// fraction, NaN and Infinity by name, very large and very small magnitudes
// in exponent form.
func FormatNum(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	case n == math.Trunc(n) && math.Abs(n) < 1e21:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	if abs := math.Abs(n); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(n, 'e', -1, 64)
		// Go writes 1e-07; scripts write 1e-7.
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[0]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + string(sign) + exp
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ToInt32 converts v to a signed 32-bit integer with wraparound, as the
// bitwise operators require.
func ToInt32(v Value) int32 {
	return int32(ToUint32(v))
}

// ToUint32 converts v to an unsigned 32-bit integer with wraparound.
func ToUint32(v Value) uint32 {
	n := v.ToNumber()
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	n = math.Mod(math.Trunc(n), 1<<32)
	if n < 0 {
		n += 1 << 32
	}
	return uint32(n)
}

// Helper functions

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func digitValue(c byte) int {
	switch {
	case isDigit(c):
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 36
	}
}
