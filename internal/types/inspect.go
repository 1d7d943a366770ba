package types

import (
	"strings"

	"github.com/kolkov/ustep/internal/ast"
)

const inspectDepth = 3

// Inspect renders v for display in a debugger: strings quoted, arrays and
// objects expanded to a limited depth, cycles shown as [Circular].
func Inspect(v Value) string {
	var sb strings.Builder
	inspect(&sb, v, 0, nil)
	return sb.String()
}

func inspect(sb *strings.Builder, v Value, depth int, seen []*Object) {
	switch v.kind {
	case KindStr:
		sb.WriteString(ast.Quote(v.str))
		return
	case KindObject:
	default:
		sb.WriteString(v.ToString())
		return
	}

	o := v.obj
	for _, s := range seen {
		if s == o {
			sb.WriteString("[Circular]")
			return
		}
	}
	if o.Fn != nil {
		sb.WriteString("[Function")
		if o.Fn.Name != "" {
			sb.WriteString(": ")
			sb.WriteString(o.Fn.Name)
		}
		sb.WriteString("]")
		return
	}
	if depth >= inspectDepth {
		if o.IsArray() {
			sb.WriteString("[Array]")
		} else {
			sb.WriteString("[Object]")
		}
		return
	}
	seen = append(seen, o)

	if o.IsArray() {
		sb.WriteString("[")
		for i, e := range o.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			inspect(sb, e, depth+1, seen)
		}
		for i, k := range o.keys {
			if i > 0 || len(o.Elems) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			inspect(sb, o.props[k], depth+1, seen)
		}
		sb.WriteString("]")
		return
	}

	if o.Ctor != nil && o.Ctor.Fn != nil && o.Ctor.Fn.Name != "" {
		sb.WriteString(o.Ctor.Fn.Name)
		sb.WriteString(" ")
	}
	sb.WriteString("{")
	for i, k := range o.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		inspect(sb, o.props[k], depth+1, seen)
	}
	sb.WriteString("}")
}
