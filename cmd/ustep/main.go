// ustep - steppable script interpreter and debugger
//
// Runs a script to completion, traces it against breakpoints and watches,
// or drives it from an interactive debugger prompt.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/kolkov/ustep"
	"github.com/kolkov/ustep/internal/logger"
)

// version is set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usageHeader = `usage: ustep [options] [file | -e 'source']

With no file and no -e, ustep starts a console when stdin is a terminal
and otherwise reads the script from stdin.

Options:
`

type options struct {
	source      string
	interactive bool
	printTree   bool
	verbose     bool
	noColor     bool
	session     string
	maxSteps    int
	showVersion bool
	breakpoints lineList
	watches     exprList
}

// lineList collects repeated -b flags.
type lineList []int

func (l *lineList) String() string { return fmt.Sprint(*l) }

func (l *lineList) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("invalid line %q", s)
	}
	*l = append(*l, n)
	return nil
}

// exprList collects repeated -w flags.
type exprList []string

func (l *exprList) String() string { return strings.Join(*l, "; ") }

func (l *exprList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

func main() {
	var opts options
	flag.StringVar(&opts.source, "e", "", "script source to run instead of a file")
	flag.BoolVar(&opts.interactive, "i", false, "start the interactive debugger")
	flag.BoolVar(&opts.printTree, "d", false, "print the canonical form of the script and exit")
	flag.BoolVar(&opts.verbose, "v", false, "verbose mode: log pauses and watch changes")
	flag.BoolVar(&opts.noColor, "n", false, "no color")
	flag.StringVar(&opts.session, "s", "", "YAML session file with breakpoints, watches and globals")
	flag.IntVar(&opts.maxSteps, "max-steps", 0, "stop after this many steps (0 = no limit)")
	flag.BoolVar(&opts.showVersion, "version", false, "show ustep version and exit")
	flag.Var(&opts.breakpoints, "b", "set a breakpoint on a line (repeatable)")
	flag.Var(&opts.watches, "w", "watch an expression (repeatable)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usageHeader)
		flag.PrintDefaults()
	}
	flag.Parse()

	logger.Init(logger.Options{Debug: opts.verbose, NoColor: opts.noColor})

	if opts.showVersion {
		fmt.Printf("ustep %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, flag.Args()); err != nil {
		stop()
		log.Fatal("ustep failed", "err", err)
	}
}

func run(ctx context.Context, opts options, args []string) error {
	sess := &session{}
	if opts.session != "" {
		var err error
		if sess, err = loadSession(opts.session); err != nil {
			return err
		}
	}
	if opts.maxSteps == 0 {
		opts.maxSteps = sess.MaxSteps
	}

	filename, src, console, err := readSource(opts, args)
	if err != nil {
		return err
	}

	cfg := &ustep.Config{
		Stdout:   os.Stdout,
		MaxSteps: opts.maxSteps,
		Filename: filename,
		Logger:   log.Default(),
		Globals:  sess.globals(),
	}
	script, err := ustep.NewScript(src, cfg)
	if err != nil {
		return err
	}

	if opts.printTree {
		return script.Dump(os.Stdout)
	}
	if console {
		in := newLineReader()
		defer in.Close()
		return runConsole(script, in, os.Stdout)
	}

	lines := append(sess.Breakpoints, opts.breakpoints...)
	watches := append(sess.Watches, opts.watches...)
	if opts.interactive || len(lines) > 0 || len(watches) > 0 {
		d := script.Debugger()
		for _, line := range lines {
			d.AddBreakpoint(line)
		}
		for _, w := range watches {
			if _, err := d.AddWatch(w); err != nil {
				return fmt.Errorf("watch %q: %w", w, err)
			}
		}
	}

	switch {
	case opts.interactive:
		in := newLineReader()
		defer in.Close()
		return newDebugREPL(script, src, os.Stdout).run(in)
	case len(lines) > 0 || len(watches) > 0:
		return trace(ctx, script, src, os.Stdout)
	}

	v, err := script.Run(ctx)
	if err != nil {
		return err
	}
	if !v.IsUndefined() {
		fmt.Println(ustep.Inspect(v))
	}
	return nil
}

// readSource returns the script to run. console is true when no script
// was given and stdin is a terminal.
func readSource(opts options, args []string) (filename, src string, console bool, err error) {
	switch {
	case opts.source != "":
		return "", opts.source, false, nil
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", false, err
		}
		return args[0], string(data), false, nil
	case term.IsTerminal(int(os.Stdin.Fd())):
		return "", "", true, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", false, err
	}
	return "<stdin>", string(data), false, nil
}

// trace runs the script to completion, printing every breakpoint hit and
// watch change. Calls are stepped so breakpoints inside functions fire.
func trace(ctx context.Context, script *ustep.Script, src string, out io.Writer) error {
	lines := strings.Split(src, "\n")
	d := script.Debugger()
	d.SetHandler(func(ev ustep.Event) {
		if ev.Kind == ustep.EventWatchChanged {
			printChanges(out, ev.Changes)
		}
	})
	for {
		ev, err := d.ContinueContext(ctx, ustep.StepIn)
		if err != nil {
			return err
		}
		if ev.Kind == ustep.EventDone {
			if !ev.Value.IsUndefined() {
				fmt.Fprintln(out, ustep.Inspect(ev.Value))
			}
			return nil
		}
		printEvent(out, ev, lines)
	}
}
