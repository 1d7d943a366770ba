package interp

import (
	"errors"
	"fmt"

	"github.com/kolkov/ustep/internal/token"
)

var (
	// ErrStepBudget is returned when a context exceeds its unit budget.
	ErrStepBudget = errors.New("step budget exceeded")

	// ErrImpureCall is returned when isolated evaluation calls a host
	// function that may have side effects.
	ErrImpureCall = errors.New("host function not allowed in isolated evaluation")
)

// UnboundNameError reports a name that no scope binds.
type UnboundNameError struct {
	Name string
	Pos  token.Position
}

func (e *UnboundNameError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s is not defined", e.Pos, e.Name)
	}
	return e.Name + " is not defined"
}

// RuntimeError is a type or nesting error raised during evaluation.
type RuntimeError struct {
	Pos     token.Position
	Message string
}

func (e *RuntimeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

func runtimeErrorf(pos token.Position, format string, args ...any) *RuntimeError {
	return &RuntimeError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
