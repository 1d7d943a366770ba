package token

import "fmt"

// Position is a location in script source.
type Position struct {
	// Filename is the name of the script (optional).
	Filename string
	// Line number (1-indexed).
	Line int
	// Column is the character index on the line (1-indexed).
	Column int
	// Offset is the byte offset from the start of source (0-indexed).
	Offset int
}

// String returns "filename:line:column", or "line:column" when the
// filename is empty.
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position was set by the lexer.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before reports whether p comes before other in the same source.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// After reports whether p comes after other in the same source.
func (p Position) After(other Position) bool {
	return p.Offset > other.Offset
}

// Span is a half-open source range [Start, End).
type Span struct {
	Start Position
	End   Position
}

// String returns a compact representation of the span.
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s-%d", s.Start.String(), s.End.Column)
	}
	return fmt.Sprintf("%s-%s", s.Start.String(), s.End.String())
}

// Contains reports whether p lies inside the span.
func (s Span) Contains(p Position) bool {
	return !p.Before(s.Start) && p.Before(s.End)
}

// NoPos is the zero Position, used when a location is unknown.
var NoPos = Position{}
