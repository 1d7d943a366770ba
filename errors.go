package ustep

import (
	"errors"
	"fmt"

	"github.com/kolkov/ustep/internal/interp"
	"github.com/kolkov/ustep/internal/lexer"
	"github.com/kolkov/ustep/internal/parser"
	"github.com/kolkov/ustep/internal/semantic"
	"github.com/kolkov/ustep/internal/token"
)

var (
	// ErrStepBudget is returned once a script runs more units than
	// Config.MaxSteps allows.
	ErrStepBudget = interp.ErrStepBudget

	// ErrFinished is returned by DoStep on a script that already
	// completed.
	ErrFinished = errors.New("script already finished")

	// ErrRunning is returned by Exec while the script is part way
	// through its run.
	ErrRunning = errors.New("script is still running")
)

// LexError reports malformed source text: a bad number, an unterminated
// string or comment.
type LexError struct {
	Line    int // 1-based line number
	Column  int // 1-based column number
	Offset  int // 0-based byte offset
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// ParseError represents a syntax error, or a statement placed where it
// cannot run, such as break outside a loop.
type ParseError struct {
	Line    int
	Column  int
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// UnboundNameError reports a name that no scope defines.
type UnboundNameError struct {
	Name   string
	Line   int
	Column int
	Offset int
}

func (e *UnboundNameError) Error() string {
	return fmt.Sprintf("runtime error at %d:%d: %s is not defined", e.Line, e.Column, e.Name)
}

// RuntimeError represents a type error during execution, such as calling
// a value that is not a function.
type RuntimeError struct {
	Line    int
	Column  int
	Offset  int
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// convertError maps internal error types to their public mirrors. Other
// errors, including those returned by host functions, pass through.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	var (
		lexErr   *lexer.LexError
		parseErr *parser.ParseError
		semErrs  semantic.ErrorList
		unbound  *interp.UnboundNameError
		rtErr    *interp.RuntimeError
	)
	switch {
	case errors.As(err, &lexErr):
		line, col, off := split(lexErr.Pos)
		return &LexError{Line: line, Column: col, Offset: off, Message: lexErr.Message}
	case errors.As(err, &parseErr):
		line, col, off := split(parseErr.Pos)
		return &ParseError{Line: line, Column: col, Offset: off, Message: parseErr.Message}
	case errors.As(err, &semErrs) && len(semErrs) > 0:
		line, col, off := split(semErrs[0].Pos)
		return &ParseError{Line: line, Column: col, Offset: off, Message: semErrs[0].Message}
	case errors.As(err, &unbound):
		line, col, off := split(unbound.Pos)
		return &UnboundNameError{Name: unbound.Name, Line: line, Column: col, Offset: off}
	case errors.As(err, &rtErr):
		line, col, off := split(rtErr.Pos)
		return &RuntimeError{Line: line, Column: col, Offset: off, Message: rtErr.Message}
	}
	return err
}

func split(pos token.Position) (line, col, off int) {
	return pos.Line, pos.Column, pos.Offset
}
