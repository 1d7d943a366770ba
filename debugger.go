package ustep

import (
	"context"

	"github.com/kolkov/ustep/internal/debug"
)

type (
	// Event is reported by the debugger at pauses, watch changes and the
	// end of the script.
	Event = debug.Event
	// EventKind identifies an Event.
	EventKind = debug.EventKind
	// Breakpoint marks a source line.
	Breakpoint = debug.Breakpoint
	// Watch is a registered watch expression and its last value.
	Watch = debug.Watch
	// WatchChange reports one watch whose rendering changed.
	WatchChange = debug.WatchChange
)

const (
	EventBreakpoint   = debug.EventBreakpoint
	EventStep         = debug.EventStep
	EventWatchChanged = debug.EventWatchChanged
	EventDone         = debug.EventDone
)

// Debugger pauses a Script at breakpoints and step boundaries and
// reports watch expression changes.
type Debugger struct {
	c *debug.Controller
}

// AddBreakpoint sets a breakpoint on a 1-based source line.
func (d *Debugger) AddBreakpoint(line int) *Breakpoint { return d.c.AddBreakpoint(line) }

// RemoveBreakpoint deletes the breakpoint on line.
func (d *Debugger) RemoveBreakpoint(line int) bool { return d.c.RemoveBreakpoint(line) }

// EnableBreakpoint switches the breakpoint on line on or off.
func (d *Debugger) EnableBreakpoint(line int, on bool) bool { return d.c.EnableBreakpoint(line, on) }

// Breakpoints returns the breakpoints ordered by line.
func (d *Debugger) Breakpoints() []*Breakpoint { return d.c.Breakpoints() }

// AddWatch registers an expression evaluated after every statement.
func (d *Debugger) AddWatch(expr string) (int, error) {
	id, err := d.c.AddWatch(expr)
	return id, convertError(err)
}

// RemoveWatch unregisters a watch.
func (d *Debugger) RemoveWatch(id int) bool { return d.c.RemoveWatch(id) }

// Watches returns the registered watches.
func (d *Debugger) Watches() []Watch { return d.c.Watches() }

// Step runs to the next statement allowed by kind, or to a breakpoint.
func (d *Debugger) Step(kind StepKind) (Event, error) {
	ev, err := d.c.Step(kind)
	return ev, convertError(err)
}

// Continue runs to the next enabled breakpoint or the end of the script.
func (d *Debugger) Continue(kind StepKind) (Event, error) {
	ev, err := d.c.Continue(kind)
	return ev, convertError(err)
}

// ContinueContext is like Continue but returns ctx's error once ctx is
// done. The script can be resumed afterwards.
func (d *Debugger) ContinueContext(ctx context.Context, kind StepKind) (Event, error) {
	ev, err := d.c.ContinueContext(ctx, kind)
	return ev, convertError(err)
}

// SetHandler registers a callback for every event.
func (d *Debugger) SetHandler(fn func(Event)) { d.c.SetHandler(fn) }

// Last returns the most recent pause or completion event.
func (d *Debugger) Last() Event { return d.c.Last() }
