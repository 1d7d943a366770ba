package ustep

import (
	"context"

	"github.com/kolkov/ustep/internal/interp"
)

// Version is the ustep version string.
const Version = "0.1.0"

// StepKind selects how a step treats function calls.
type StepKind = interp.StepKind

const (
	// StepOver runs each call to completion within one step.
	StepOver = interp.StepOver
	// StepIn steps into script function bodies.
	StepIn = interp.StepIn
	// StepOut steps calls like StepIn; a debugger uses it to run until
	// the current call returns.
	StepOut = interp.StepOut
)

// cancelCheckInterval is how many steps Run takes between checks of its
// context.
const cancelCheckInterval = 1024

// Run parses source and runs it to completion, returning the value of the
// last expression statement executed.
// This is a convenience function for one-off execution.
// For stepping or debugging, use NewScript.
//
// A nil ctx never cancels.
//
// Example:
//
//	v, err := ustep.Run(ctx, `var a = 1; var b = a + 2; b;`, nil)
//	// v.ToNumber() == 3
func Run(ctx context.Context, source string, config *Config) (Value, error) {
	s, err := NewScript(source, config)
	if err != nil {
		return Undefined(), err
	}
	return s.Run(ctx)
}

// MustNewScript is like NewScript but panics if the source does not
// parse. It simplifies initialization of global script variables.
func MustNewScript(source string, config *Config) *Script {
	s, err := NewScript(source, config)
	if err != nil {
		panic(err)
	}
	return s
}
