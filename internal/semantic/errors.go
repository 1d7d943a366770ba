// Package semantic provides structural checks for parsed scripts.
//
// The checker runs after parsing and rejects programs whose control flow
// cannot be honored at run time:
//   - break outside any loop or switch
//   - continue outside any loop
//   - return outside a function body
//   - a parameter name listed twice in one function
//
// Names are resolved dynamically at run time, so there is no resolver pass.
package semantic

import (
	"fmt"
	"strings"

	"github.com/kolkov/ustep/internal/token"
)

// Error represents a semantic analysis error with source location.
type Error struct {
	Pos     token.Position
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ErrorList is a collection of semantic errors.
type ErrorList []*Error

// Add appends an error to the list.
func (el *ErrorList) Add(pos token.Position, format string, args ...any) {
	*el = append(*el, &Error{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// Err returns an error if the list is non-empty, nil otherwise.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// Error implements the error interface for ErrorList.
func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	default:
		var sb strings.Builder
		sb.WriteString(el[0].Error())
		for _, e := range el[1:] {
			sb.WriteByte('\n')
			sb.WriteString(e.Error())
		}
		return sb.String()
	}
}

// Common error messages as constants for consistency.
const (
	errBreakOutsideLoop    = "break statement must be inside a loop or switch"
	errContinueOutsideLoop = "continue statement must be inside a loop"
	errReturnOutsideFunc   = "return statement must be inside a function"
	errDuplicateParam      = "duplicate parameter %q in function %s"
)
