// Package ustep provides an embeddable, steppable interpreter for a small
// C-family scripting language with prototype-based objects.
//
// A script is not run to completion on the host's call stack. It advances
// one bounded unit of work per call, so a host can pause it, inspect its
// variables and resume it later.
//
// # Quick Start
//
// For simple one-off execution:
//
//	v, err := ustep.Run(ctx, `var a = 1; var b = a + 2; b;`, nil)
//
// # Stepping
//
// NewScript parses eagerly and returns a Script whose run is driven by
// the caller:
//
//	s, err := ustep.NewScript(src, &ustep.Config{Stdout: os.Stdout})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    done, err := s.DoStep(ustep.StepIn)
//	    if err != nil || done {
//	        break
//	    }
//	}
//
// # Debugging
//
// [Script.Debugger] attaches breakpoints and watch expressions:
//
//	d := s.Debugger()
//	d.AddBreakpoint(3)
//	d.AddWatch("total")
//	ev, err := d.Continue(ustep.StepOver)
//
// Watches run against an overlay of the current scopes, so evaluating
// them never changes the script's state.
//
// # Host Globals
//
// [Config] seeds the bottom of the scope stack with named namespaces of
// Go values and host functions, plus the top-level "this" object. The
// default library (print, Math, parseInt, regular expressions) is
// installed unless Config.NoBuiltins is set.
//
// # Error Handling
//
// Errors are returned as specific types for detailed handling:
//   - [LexError]: malformed literals and unterminated strings or comments
//   - [ParseError]: syntax errors and misplaced break, continue or return
//   - [UnboundNameError]: a name no scope defines
//   - [RuntimeError]: type errors during execution
//
// Errors returned by host functions are passed through unchanged.
//
// # Thread Safety
//
// The syntax tree of a Script is never modified while it runs. A Script
// itself must be driven from one goroutine at a time.
package ustep
