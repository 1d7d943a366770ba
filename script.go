package ustep

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/kolkov/ustep/internal/ast"
	"github.com/kolkov/ustep/internal/debug"
	"github.com/kolkov/ustep/internal/interp"
	"github.com/kolkov/ustep/internal/parser"
	"github.com/kolkov/ustep/internal/runtime"
	"github.com/kolkov/ustep/internal/semantic"
	"github.com/kolkov/ustep/internal/types"
)

// Script is a parsed script together with the state of one run.
// The syntax tree is never modified; all progress lives in the run's
// context. A Script must be driven from one goroutine at a time.
type Script struct {
	source string
	prog   *ast.Program
	ctx    *interp.Context
	ev     *interp.Evaluator
	config Config
	logger *log.Logger
	dbg    *Debugger
}

// NewScript parses source and prepares a run seeded from config.
// A nil config selects the defaults: the builtin library with output
// discarded and no step limit.
func NewScript(source string, config *Config) (*Script, error) {
	var cfg Config
	if config != nil {
		cfg = *config
	}
	cfg.applyDefaults()

	prog, err := parser.ParseFile(cfg.Filename, source)
	if err != nil {
		return nil, convertError(err)
	}
	if err := semantic.Check(prog); err != nil {
		return nil, convertError(err)
	}

	realm := types.NewRealm()
	globals, err := buildGlobals(realm, &cfg)
	if err != nil {
		return nil, err
	}
	ctx := interp.NewContext(realm, globals)
	ctx.SetBudget(cfg.MaxSteps)

	cfg.Logger.Debug("script parsed", "file", cfg.Filename, "statements", len(prog.Stmts))
	return &Script{
		source: source,
		prog:   prog,
		ctx:    ctx,
		ev:     interp.New(prog, ctx),
		config: cfg,
		logger: cfg.Logger,
	}, nil
}

func buildGlobals(realm *types.Realm, cfg *Config) (interp.Globals, error) {
	var g interp.Globals
	if !cfg.NoBuiltins {
		lib := runtime.New(realm, cfg.Stdout)
		g.Namespaces = append(g.Namespaces, interp.Namespace{Name: runtime.NamespaceName, Object: lib.Namespace()})
	}
	for _, ns := range cfg.Globals.Namespaces {
		o := realm.NewObject()
		if err := fill(realm, ns.Name, o, ns.Values); err != nil {
			return g, fmt.Errorf("namespace %q: %w", ns.Name, err)
		}
		g.Namespaces = append(g.Namespaces, interp.Namespace{Name: ns.Name, Object: o})
	}
	if cfg.Globals.This != nil {
		g.This = realm.NewObject()
		if err := fill(realm, "this", g.This, cfg.Globals.This); err != nil {
			return g, err
		}
	}
	return g, nil
}

// DoStep performs one unit of work and reports whether the script has
// finished. Once a step fails every later call returns the same error; a
// call after normal completion returns ErrFinished.
func (s *Script) DoStep(kind StepKind) (bool, error) {
	if err := s.ev.Err(); err != nil {
		return true, convertError(err)
	}
	if s.ev.Done() {
		return true, ErrFinished
	}
	done, err := s.ev.DoStep(kind)
	return done, convertError(err)
}

// Run steps the script to completion, checking ctx for cancellation
// every cancelCheckInterval steps.
func (s *Script) Run(ctx context.Context) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	for i := 0; ; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Undefined(), err
			}
		}
		done, err := s.DoStep(StepOver)
		if err != nil {
			return Undefined(), err
		}
		if done {
			return s.Result(), nil
		}
	}
}

// Done reports whether the script has finished, normally or with an
// error.
func (s *Script) Done() bool { return s.ev.Done() }

// Err returns the error that stopped the script, if any.
func (s *Script) Err() error { return convertError(s.ev.Err()) }

// Result returns the value of the last top-level expression statement
// executed so far.
func (s *Script) Result() Value { return s.ev.Value() }

// Steps returns the number of units executed.
func (s *Script) Steps() int { return s.ctx.Steps() }

// Depth returns the number of active script function calls.
func (s *Script) Depth() int { return s.ctx.Depth() }

// Lookup resolves name in the current scope chain.
func (s *Script) Lookup(name string) (Value, error) {
	v, err := s.ctx.Resolve(name)
	return v, convertError(err)
}

// Eval evaluates expr against the current scopes without side effects:
// assignments land in a private overlay and only pure host functions may
// be called. It is bounded like a debugger watch.
func (s *Script) Eval(expr string) (Value, error) {
	e, err := parser.ParseExpr(expr, nil)
	if err != nil {
		return Undefined(), convertError(err)
	}
	if err := semantic.CheckExpr(e); err != nil {
		return Undefined(), convertError(err)
	}
	v, err := interp.Eval(s.ctx.Isolate(s.watchBudget()), e)
	return v, convertError(err)
}

// Exec parses src as a program and runs it to completion in the
// script's top-level scope, as a console does. Declarations persist for
// later calls and for the script. Exec is refused while the script is
// paused part way through; a failed Exec leaves the scope stack as it was
// before the call.
func (s *Script) Exec(src string) (Value, error) {
	if s.ctx.Depth() > 0 || (s.ctx.HasState(s.prog) && !s.ev.Done()) {
		return Undefined(), ErrRunning
	}
	prog, err := parser.Parse(src)
	if err != nil {
		return Undefined(), convertError(err)
	}
	if err := semantic.Check(prog); err != nil {
		return Undefined(), convertError(err)
	}
	if s.ev.Err() != nil {
		s.ctx.Reset()
	}

	s.ctx.SetTracer(nil)
	defer func() {
		if s.dbg != nil {
			s.ctx.SetTracer(s.dbg.c)
		}
	}()
	v, err := interp.New(prog, s.ctx).Run(StepOver)
	if err != nil {
		s.ctx.Reset()
		return Undefined(), convertError(err)
	}
	return v, nil
}

func (s *Script) watchBudget() int {
	if s.config.WatchBudget > 0 {
		return s.config.WatchBudget
	}
	return debug.WatchBudget
}

// Source returns the original source text.
func (s *Script) Source() string { return s.source }

// String returns the canonical form of the script.
func (s *Script) String() string { return ast.Format(s.prog) }

// Dump writes the canonical form of the script to w.
func (s *Script) Dump(w io.Writer) error {
	return ast.NewPrinter(w).Print(s.prog)
}

// Debugger returns the script's debugger, attaching it on first use.
// Once attached, breakpoints also pause DoStep: a paused step returns
// false without doing any work.
func (s *Script) Debugger() *Debugger {
	if s.dbg == nil {
		c := debug.New(s.ev, s.logger)
		c.WatchBudget = s.config.WatchBudget
		s.dbg = &Debugger{c: c}
	}
	return s.dbg
}
