// Package debug drives a stepped evaluation under user control:
// line breakpoints, watch expressions and the over/in/out step kinds.
//
// A Controller installs itself as the context's tracer. Step and Continue
// call DoStep until the tracer asks for a pause or the script finishes, so
// a pause always leaves the next statement unbegun.
package debug

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/kolkov/ustep/internal/ast"
	"github.com/kolkov/ustep/internal/interp"
	"github.com/kolkov/ustep/internal/logger"
	"github.com/kolkov/ustep/internal/parser"
	"github.com/kolkov/ustep/internal/semantic"
	"github.com/kolkov/ustep/internal/types"
)

// WatchBudget is the default number of units one watch evaluation may
// run.
const WatchBudget = 10000

// cancelCheckInterval is how many units run between context checks.
const cancelCheckInterval = 1024

// ErrNoWatch is returned for a watch id that is not registered.
var ErrNoWatch = errors.New("no such watch")

// EventKind identifies why the controller reported an event.
type EventKind uint8

const (
	EventBreakpoint EventKind = iota + 1
	EventStep
	EventWatchChanged
	EventDone
)

func (k EventKind) String() string {
	switch k {
	case EventBreakpoint:
		return "breakpoint"
	case EventStep:
		return "step"
	case EventWatchChanged:
		return "watch"
	case EventDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event describes a pause, a batch of watch changes or the end of the run.
type Event struct {
	Kind       EventKind
	Line       int    // source line of the statement, 0 for EventDone
	Depth      int    // call depth of the statement
	Stmt       string // first line of the statement's canonical text
	Breakpoint *Breakpoint
	Changes    []WatchChange
	Value      types.Value // completion value for EventDone
}

func (e Event) String() string {
	switch e.Kind {
	case EventDone:
		return fmt.Sprintf("done: %s", types.Inspect(e.Value))
	case EventWatchChanged:
		return fmt.Sprintf("watch: %d changes", len(e.Changes))
	}
	return fmt.Sprintf("%s at line %d (depth %d): %s", e.Kind, e.Line, e.Depth, e.Stmt)
}

// Breakpoint marks a source line. Hits counts the pauses it caused.
type Breakpoint struct {
	Line    int
	Enabled bool
	Hits    int
}

// Watch is an expression re-evaluated after every statement.
type Watch struct {
	ID    int
	Expr  string
	Value types.Value
	Err   error

	expr     ast.Expr
	rendered string
}

// WatchChange reports a watch whose value differs from the previous
// evaluation. An expression that fails carries the error as its value.
type WatchChange struct {
	ID       int
	Expr     string
	Old, New string
}

type runMode uint8

const (
	modeStep runMode = iota
	modeContinue
)

// Controller owns the pause logic for one evaluator. It must be driven
// from a single goroutine.
type Controller struct {
	ev     *interp.Evaluator
	logger *log.Logger

	// WatchBudget bounds every watch evaluation; zero or less selects
	// the package default.
	WatchBudget int

	breakpoints map[int]*Breakpoint
	watches     []*Watch
	nextWatch   int
	ids         ast.IDAllocator

	handler func(Event)
	last    Event

	mode       runMode
	kind       interp.StepKind
	startDepth int
	pending    *Event
	openLine   int // line and depth of the last pause
	openDepth  int
	changes    []WatchChange
}

// New attaches a controller to ev. A nil logger discards output.
func New(ev *interp.Evaluator, l *log.Logger) *Controller {
	if l == nil {
		l = logger.Discard()
	}
	d := &Controller{
		ev:          ev,
		logger:      l,
		breakpoints: make(map[int]*Breakpoint),
		nextWatch:   1,
	}
	ev.Context().SetTracer(d)
	return d
}

// SetHandler registers a callback invoked for every event, including
// watch changes that happen between pauses.
func (d *Controller) SetHandler(fn func(Event)) {
	d.handler = fn
}

// Last returns the most recent event.
func (d *Controller) Last() Event { return d.last }

// AddBreakpoint sets an enabled breakpoint on line. Setting one twice
// returns the existing breakpoint, enabled again.
func (d *Controller) AddBreakpoint(line int) *Breakpoint {
	if bp, ok := d.breakpoints[line]; ok {
		bp.Enabled = true
		return bp
	}
	bp := &Breakpoint{Line: line, Enabled: true}
	d.breakpoints[line] = bp
	d.logger.Debug("breakpoint added", "line", line)
	return bp
}

// RemoveBreakpoint deletes the breakpoint on line and reports whether
// there was one.
func (d *Controller) RemoveBreakpoint(line int) bool {
	if _, ok := d.breakpoints[line]; !ok {
		return false
	}
	delete(d.breakpoints, line)
	return true
}

// EnableBreakpoint switches the breakpoint on line on or off.
func (d *Controller) EnableBreakpoint(line int, on bool) bool {
	bp, ok := d.breakpoints[line]
	if ok {
		bp.Enabled = on
	}
	return ok
}

// Breakpoints returns the breakpoints ordered by line.
func (d *Controller) Breakpoints() []*Breakpoint {
	bps := make([]*Breakpoint, 0, len(d.breakpoints))
	for _, bp := range d.breakpoints {
		bps = append(bps, bp)
	}
	slices.SortFunc(bps, func(a, b *Breakpoint) int { return a.Line - b.Line })
	return bps
}

// AddWatch parses src as an expression and registers it. The watch is
// evaluated right away so the first report is a real change.
func (d *Controller) AddWatch(src string) (int, error) {
	src = strings.TrimSpace(src)
	expr, err := parser.ParseExpr(src, &d.ids)
	if err != nil {
		return 0, err
	}
	if err := semantic.CheckExpr(expr); err != nil {
		return 0, err
	}
	w := &Watch{ID: d.nextWatch, Expr: src, expr: expr}
	d.nextWatch++
	d.evalWatch(w)
	d.watches = append(d.watches, w)
	d.logger.Debug("watch added", "id", w.ID, "expr", src, "value", w.rendered)
	return w.ID, nil
}

// RemoveWatch unregisters the watch with id.
func (d *Controller) RemoveWatch(id int) bool {
	i := slices.IndexFunc(d.watches, func(w *Watch) bool { return w.ID == id })
	if i < 0 {
		return false
	}
	d.watches = slices.Delete(d.watches, i, i+1)
	return true
}

// Watches returns a snapshot of the registered watches in the order they
// were added.
func (d *Controller) Watches() []Watch {
	ws := make([]Watch, len(d.watches))
	for i, w := range d.watches {
		ws[i] = *w
	}
	return ws
}

// WatchValue returns the current rendering of the watch with id.
func (d *Controller) WatchValue(id int) (string, error) {
	for _, w := range d.watches {
		if w.ID == id {
			return w.rendered, nil
		}
	}
	return "", fmt.Errorf("watch %d: %w", id, ErrNoWatch)
}

// Step runs to the next statement the step kind allows: over stays at or
// above the current call depth and runs calls whole, in stops at the very
// next statement, and out stops once the current call has returned.
// Enabled breakpoints pause as well.
func (d *Controller) Step(kind interp.StepKind) (Event, error) {
	return d.run(context.Background(), modeStep, kind)
}

// Continue runs until an enabled breakpoint or the end of the script.
// With StepOver calls run whole, so breakpoints inside them are skipped.
func (d *Controller) Continue(kind interp.StepKind) (Event, error) {
	return d.run(context.Background(), modeContinue, kind)
}

// ContinueContext is like Continue but gives up with ctx's error once ctx
// is done. The script stays where it stopped and can be resumed.
func (d *Controller) ContinueContext(ctx context.Context, kind interp.StepKind) (Event, error) {
	return d.run(ctx, modeContinue, kind)
}

func (d *Controller) run(ctx context.Context, mode runMode, kind interp.StepKind) (Event, error) {
	d.mode, d.kind = mode, kind
	d.startDepth = d.ev.Context().Depth()
	d.pending = nil
	for i := 0; ; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Event{}, err
			}
		}
		done, err := d.ev.DoStep(kind)
		if err != nil {
			d.logger.Debug("run stopped", "err", err)
			return Event{}, err
		}
		if done {
			ev := Event{Kind: EventDone, Value: d.ev.Value(), Changes: d.takeChanges()}
			d.emit(ev)
			return ev, nil
		}
		if d.pending != nil {
			ev := *d.pending
			d.pending = nil
			ev.Changes = d.takeChanges()
			d.emit(ev)
			return ev, nil
		}
	}
}

// StatementStart implements interp.Tracer.
func (d *Controller) StatementStart(s ast.Stmt, depth int) bool {
	line := s.Pos().Line
	if bp, ok := d.breakpoints[line]; ok && bp.Enabled && !d.isOpen(line, depth) {
		bp.Hits++
		d.pause(EventBreakpoint, s, depth, bp)
		return true
	}
	if d.mode == modeStep && d.stops(depth) {
		d.pause(EventStep, s, depth, nil)
		return true
	}
	return false
}

// StatementEnd implements interp.Tracer.
func (d *Controller) StatementEnd(ast.Stmt, int) {
	d.openLine = 0
	var changes []WatchChange
	for _, w := range d.watches {
		old := w.rendered
		d.evalWatch(w)
		if w.rendered != old {
			changes = append(changes, WatchChange{ID: w.ID, Expr: w.Expr, Old: old, New: w.rendered})
			d.logger.Debug("watch changed", "id", w.ID, "expr", w.Expr, "old", old, "new", w.rendered)
		}
	}
	if len(changes) > 0 {
		d.changes = append(d.changes, changes...)
		d.emit(Event{Kind: EventWatchChanged, Changes: changes})
	}
}

// isOpen reports whether a statement at line and depth is nested in the
// statement the controller last paused at.
func (d *Controller) isOpen(line, depth int) bool {
	return d.openLine == line && d.openDepth == depth
}

func (d *Controller) stops(depth int) bool {
	switch d.kind {
	case interp.StepIn:
		return true
	case interp.StepOut:
		return depth < d.startDepth
	default:
		return depth <= d.startDepth
	}
}

func (d *Controller) pause(kind EventKind, s ast.Stmt, depth int, bp *Breakpoint) {
	line := s.Pos().Line
	d.openLine, d.openDepth = line, depth
	d.pending = &Event{
		Kind:       kind,
		Line:       line,
		Depth:      depth,
		Stmt:       firstLine(ast.Format(s)),
		Breakpoint: bp,
	}
	d.logger.Debug("pause", "reason", kind, "line", line, "depth", depth)
}

func (d *Controller) evalWatch(w *Watch) {
	budget := d.WatchBudget
	if budget <= 0 {
		budget = WatchBudget
	}
	v, err := interp.Eval(d.ev.Context().Isolate(budget), w.expr)
	w.Value, w.Err = v, err
	if err != nil {
		w.rendered = "error: " + err.Error()
		return
	}
	w.rendered = types.Inspect(v)
}

func (d *Controller) takeChanges() []WatchChange {
	c := d.changes
	d.changes = nil
	return c
}

func (d *Controller) emit(ev Event) {
	if ev.Kind != EventWatchChanged {
		d.last = ev
	}
	if d.handler != nil {
		d.handler(ev)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
