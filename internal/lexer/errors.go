package lexer

import (
	"fmt"

	"github.com/kolkov/ustep/internal/token"
)

// LexError reports malformed source text. Tokenization stops at the first
// LexError; every later Peek or Next returns the same error.
type LexError struct {
	Pos     token.Position // Position of the offending literal or comment
	Message string         // Human-readable error message
}

// Error returns a formatted error message with position information.
func (e *LexError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

func errorf(pos token.Position, format string, args ...any) *LexError {
	return &LexError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
