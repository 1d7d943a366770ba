package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/kolkov/ustep"
)

const (
	historyFile   = ".ustep_history"
	debugPrompt   = "(ustep) "
	consolePrompt = "> "
)

// lineReader is the input side of the prompts: liner on a terminal, a
// plain scanner otherwise.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

func newLineReader() lineReader {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return &scanReader{sc: bufio.NewScanner(os.Stdin)}
	}
	return newLinerReader()
}

type linerReader struct {
	*liner.State
	histPath string
}

func newLinerReader() *linerReader {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		var out []string
		for _, c := range commandNames {
			if strings.HasPrefix(c, line) {
				out = append(out, c)
			}
		}
		return out
	})

	r := &linerReader{State: ln}
	if home, err := os.UserHomeDir(); err == nil {
		r.histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(r.histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	return r
}

func (r *linerReader) Close() error {
	if r.histPath != "" {
		if f, err := os.Create(r.histPath); err == nil {
			_, _ = r.WriteHistory(f)
			_ = f.Close()
		}
	}
	return r.State.Close()
}

type scanReader struct {
	sc *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if r.sc.Scan() {
		return r.sc.Text(), nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scanReader) AppendHistory(string) {}

func (r *scanReader) Close() error { return nil }

// promptDone reports whether err from Prompt ends the session.
func promptDone(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted)
}

// runConsole reads statements line by line and runs each in the script's
// top-level scope.
func runConsole(script *ustep.Script, in lineReader, out io.Writer) error {
	fmt.Fprintf(out, "ustep %s console; :quit to exit\n", version)
	for {
		line, err := in.Prompt(consolePrompt)
		if err != nil {
			if promptDone(err) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ":quit", ":q":
			return nil
		}
		in.AppendHistory(line)

		v, err := script.Exec(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintln(out, ustep.Inspect(v))
	}
}

var commandNames = []string{
	"break", "clear", "continue", "disable", "enable", "help", "info",
	"list", "next", "out", "print", "quit", "step", "unwatch", "watch",
}

const debugHelp = `Commands:
  step, s           run to the next statement, entering calls
  next, n           run to the next statement, running calls whole
  out, o            run until the current call returns
  continue, c       run to the next breakpoint
  break, b LINE     set a breakpoint
  clear LINE        remove a breakpoint
  disable LINE      disable a breakpoint
  enable LINE       enable a breakpoint
  watch, w EXPR     watch an expression
  unwatch ID        remove a watch
  print, p EXPR     evaluate an expression without side effects
  info, i           list breakpoints and watches
  list, l           show the source around the current line
  quit, q           leave the debugger
`

// debugREPL drives a script from debugger commands.
type debugREPL struct {
	script *ustep.Script
	d      *ustep.Debugger
	lines  []string
	out    io.Writer
	line   int // line of the last pause
}

func newDebugREPL(script *ustep.Script, src string, out io.Writer) *debugREPL {
	r := &debugREPL{
		script: script,
		d:      script.Debugger(),
		lines:  strings.Split(src, "\n"),
		out:    out,
	}
	r.d.SetHandler(func(ev ustep.Event) {
		if ev.Kind == ustep.EventWatchChanged {
			printChanges(out, ev.Changes)
		}
	})
	return r
}

func (r *debugREPL) run(in lineReader) error {
	fmt.Fprintln(r.out, "ustep debugger; type help for commands")
	for {
		line, err := in.Prompt(debugPrompt)
		if err != nil {
			if promptDone(err) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		in.AppendHistory(line)
		if quit := r.exec(line); quit {
			return nil
		}
	}
}

// exec runs one command and reports whether the session should end.
// Command errors are printed, not returned.
func (r *debugREPL) exec(line string) (quit bool) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch cmd {
	case "step", "s":
		err = r.resume(r.d.Step(ustep.StepIn))
	case "next", "n":
		err = r.resume(r.d.Step(ustep.StepOver))
	case "out", "o":
		err = r.resume(r.d.Step(ustep.StepOut))
	case "continue", "c":
		err = r.resume(r.d.Continue(ustep.StepIn))
	case "break", "b":
		var n int
		if n, err = parseLine(arg); err == nil {
			r.d.AddBreakpoint(n)
			fmt.Fprintf(r.out, "breakpoint at line %d\n", n)
		}
	case "clear", "disable", "enable":
		var n int
		if n, err = parseLine(arg); err == nil {
			var ok bool
			switch cmd {
			case "clear":
				ok = r.d.RemoveBreakpoint(n)
			default:
				ok = r.d.EnableBreakpoint(n, cmd == "enable")
			}
			if !ok {
				err = fmt.Errorf("no breakpoint at line %d", n)
			}
		}
	case "watch", "w":
		var id int
		if id, err = r.d.AddWatch(arg); err == nil {
			w := r.d.Watches()
			fmt.Fprintf(r.out, "watch %d: %s = %s\n", id, arg, renderWatch(w[len(w)-1]))
		}
	case "unwatch":
		var id int
		if id, err = strconv.Atoi(arg); err == nil && !r.d.RemoveWatch(id) {
			err = fmt.Errorf("no watch %d", id)
		}
	case "print", "p":
		var v ustep.Value
		if v, err = r.script.Eval(arg); err == nil {
			fmt.Fprintln(r.out, ustep.Inspect(v))
		}
	case "info", "i":
		r.info()
	case "list", "l":
		r.list()
	case "help", "h":
		fmt.Fprint(r.out, debugHelp)
	case "quit", "q":
		return true
	default:
		err = fmt.Errorf("unknown command %q; type help", cmd)
	}
	if err != nil {
		fmt.Fprintln(r.out, "error:", err)
	}
	return false
}

func (r *debugREPL) resume(ev ustep.Event, err error) error {
	if err != nil {
		return err
	}
	if ev.Kind == ustep.EventDone {
		r.line = 0
		fmt.Fprintf(r.out, "finished: %s\n", ustep.Inspect(ev.Value))
		return nil
	}
	r.line = ev.Line
	printEvent(r.out, ev, r.lines)
	return nil
}

func (r *debugREPL) info() {
	bps := r.d.Breakpoints()
	if len(bps) == 0 {
		fmt.Fprintln(r.out, "no breakpoints")
	}
	for _, bp := range bps {
		state := "enabled"
		if !bp.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(r.out, "breakpoint line %d, %s, %d hits\n", bp.Line, state, bp.Hits)
	}
	for _, w := range r.d.Watches() {
		fmt.Fprintf(r.out, "watch %d: %s = %s\n", w.ID, w.Expr, renderWatch(w))
	}
}

// list prints up to five lines either side of the current line.
func (r *debugREPL) list() {
	center := r.line
	if center == 0 {
		center = 1
	}
	from := max(center-5, 1)
	to := min(center+5, len(r.lines))
	for n := from; n <= to; n++ {
		marker := "  "
		if n == r.line {
			marker = "=>"
		}
		fmt.Fprintf(r.out, "%s %4d | %s\n", marker, n, r.lines[n-1])
	}
}

func parseLine(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid line %q", s)
	}
	return n, nil
}

func renderWatch(w ustep.Watch) string {
	if w.Err != nil {
		return "error: " + w.Err.Error()
	}
	return ustep.Inspect(w.Value)
}

func printEvent(out io.Writer, ev ustep.Event, lines []string) {
	fmt.Fprintln(out, ev)
	if ev.Line > 0 && ev.Line <= len(lines) {
		fmt.Fprintf(out, "=> %4d | %s\n", ev.Line, lines[ev.Line-1])
	}
}

func printChanges(out io.Writer, changes []ustep.WatchChange) {
	for _, c := range changes {
		fmt.Fprintf(out, "watch %d: %s: %s -> %s\n", c.ID, c.Expr, c.Old, c.New)
	}
}
