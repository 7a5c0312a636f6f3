package lexer

import "github.com/c0lang/c0/token"

// Cursor is a pull-based reader over the runes of a source file. It keeps
// enough line bookkeeping to produce a token.Position for any rune it has
// handed out.
type Cursor struct {
	input    []rune
	file     string
	pos      int // index of the next rune to be returned by Next
	line     int
	lineHead int // index of the first rune on the current line
	prev     token.Position
}

// NewCursor returns a Cursor positioned at the first rune of input.
func NewCursor(input string) *Cursor {
	return &Cursor{input: []rune(input)}
}

// EOF reports whether every rune has been consumed.
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.input)
}

// Peek returns the next rune without consuming it, or 0 at end of input.
func (c *Cursor) Peek() rune {
	return c.PeekAt(0)
}

// PeekAt returns the rune n positions past the next one, or 0 if that is
// beyond the end of input.
func (c *Cursor) PeekAt(n int) rune {
	if c.pos+n >= len(c.input) {
		return 0
	}
	return c.input[c.pos+n]
}

// Next consumes and returns the next rune. At end of input it returns 0
// and does not advance.
func (c *Cursor) Next() rune {
	if c.EOF() {
		return 0
	}
	c.prev = c.Position()
	ch := c.input[c.pos]
	c.pos++
	if ch == '\n' {
		c.line++
		c.lineHead = c.pos
	}
	return ch
}

// Position returns the position of the next rune to be consumed.
func (c *Cursor) Position() token.Position {
	return token.Position{
		Char:      c.pos,
		LineStart: c.lineHead,
		Line:      c.line,
		Column:    c.pos - c.lineHead,
		File:      c.file,
	}
}

// PreviousPosition returns the position of the most recently consumed rune.
func (c *Cursor) PreviousPosition() token.Position {
	return c.prev
}

// Line returns the text of the line that starts at lineStart, without its
// terminating newline.
func (c *Cursor) Line(lineStart int) string {
	if lineStart < 0 || lineStart > len(c.input) {
		return ""
	}
	end := lineStart
	for end < len(c.input) && c.input[end] != '\n' {
		end++
	}
	if end > lineStart && c.input[end-1] == '\r' {
		end--
	}
	return string(c.input[lineStart:end])
}
