package interp

import "github.com/kolkov/ustep/internal/types"

// StepKind tells the evaluator how to treat calls met during a step.
type StepKind uint8

const (
	// StepOver runs each call to a script function as one atomic unit.
	StepOver StepKind = iota
	// StepIn steps through the bodies of called functions.
	StepIn
	// StepOut steps like StepIn; the debugger suppresses pauses until the
	// current call returns.
	StepOut
)

// String returns the step kind's name.
func (k StepKind) String() string {
	switch k {
	case StepOver:
		return "over"
	case StepIn:
		return "in"
	case StepOut:
		return "out"
	default:
		return "unknown"
	}
}

// OutcomeKind classifies how a step finished.
type OutcomeKind uint8

const (
	Normal OutcomeKind = iota
	Break
	Continue
	Return
)

// String returns the outcome kind's name.
func (k OutcomeKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Break:
		return "break"
	case Continue:
		return "continue"
	case Return:
		return "return"
	default:
		return "unknown"
	}
}

// ControlOutcome is returned by every step. Anything but Normal finishes
// the node abnormally; the nearest enclosing construct that handles the
// kind consumes it.
type ControlOutcome struct {
	Kind  OutcomeKind
	Value types.Value // Return value
}

var normal = ControlOutcome{}

// Ref is an assignable location: a property Name on Container. Scope
// frames are objects too, so variables are Refs into a frame.
type Ref struct {
	Container *types.Object
	Name      string
}

// Change records one write made through SetVariable.
type Change struct {
	Container *types.Object
	Name      string
	Old       types.Value
	New       types.Value
}

// result is what a node publishes when its parent harvests it.
type result struct {
	value types.Value
	ref   *Ref          // Location the value was read from, if assignable
	args  []types.Value // Arguments held back for a constructor target
	ctor  bool          // value is a constructor target that was not invoked
}
