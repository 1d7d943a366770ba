package ustep

import (
	"io"

	"github.com/charmbracelet/log"
)

// Config holds options for creating a Script.
type Config struct {
	// Globals seeds the bottom of the scope stack. Namespace values are
	// visible to scripts as bare names and, when the namespace is named,
	// as properties of that name.
	Globals Globals

	// Stdout receives the output of the default library's print.
	// If nil, output is discarded.
	Stdout io.Writer

	// NoBuiltins leaves out the default host library (print, Math,
	// parseInt, regex functions and so on).
	NoBuiltins bool

	// MaxSteps limits the number of units a script may execute.
	// Zero means no limit. Exceeding it fails with ErrStepBudget.
	MaxSteps int

	// WatchBudget limits the units of each debugger watch evaluation.
	// Zero selects 10000.
	WatchBudget int

	// Filename is recorded in error positions.
	Filename string

	// Logger receives debug-level traces of pauses and watch changes.
	// If nil, the package default logger is used.
	Logger *log.Logger
}

// Globals describes the host values a script starts with.
type Globals struct {
	// Namespaces are searched after the script's own scopes; a later
	// namespace shadows an earlier one and the default library.
	Namespaces []Namespace

	// This holds the properties of the object bound to "this" at top
	// level.
	This map[string]any
}

// Namespace is a named group of host values. Supported value types are
// nil, bool, string, the Go integer and float types, Value, NativeFunc,
// PureFunc, []any and map[string]any.
type Namespace struct {
	Name   string
	Values map[string]any
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.Stdout == nil {
		c.Stdout = io.Discard
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
}
