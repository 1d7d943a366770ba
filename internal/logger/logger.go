// Package logger configures the charmbracelet logger shared by the library
// and the command.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Prefix tags every line written by the debugger.
const Prefix = "USTEP"

// Options controls logger construction.
type Options struct {
	Debug   bool // Log debug-level events: steps, pauses, watch changes
	NoColor bool
}

// New creates a logger writing to w. A nil w means stderr.
func New(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		TimeFormat:      time.RFC3339,
		Prefix:          Prefix,
	})
	l.SetLevel(log.WarnLevel)
	if opts.Debug {
		l.SetLevel(log.DebugLevel)
	}
	l.SetColorProfile(termenv.ANSI256)
	if opts.NoColor {
		l.SetColorProfile(termenv.Ascii)
	}
	return l
}

// Init installs a logger built from opts as the package default.
func Init(opts Options) {
	log.SetDefault(New(os.Stderr, opts))
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel)
	return l
}
