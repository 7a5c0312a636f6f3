package bytecode

import "fmt"

// SourceLocation is the line and column of the source construct that
// produced an instruction. It is kept for diagnostics and disassembly only
// and is never serialized.
type SourceLocation struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

func (s SourceLocation) String() string {
	if s.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}
