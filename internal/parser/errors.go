package parser

import "fmt"

// ParseError reports malformed input. It carries the position of the
// offending character and the raw characters read on its logical line.
type ParseError struct {
	// StartLine is the line where the logical line started (1-indexed).
	StartLine int
	// Line is the physical line where the error occurred (1-indexed).
	Line int
	// Column is the character column of the offending character (1-indexed).
	Column int
	// Content is the raw text of the line up to and including the offending
	// character.
	Content string
	// Err is the tokenizer error.
	Err error
}

func (e *ParseError) Error() string {
	if e.StartLine == e.Line {
		return fmt.Sprintf("parse error on line %d, column %d: %v in %q", e.Line, e.Column, e.Err, e.Content)
	}
	return fmt.Sprintf("parse error on line %d (started line %d), column %d: %v in %q",
		e.Line, e.StartLine, e.Column, e.Err, e.Content)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadError wraps a failure of the character source.
type ReadError struct {
	// Line is the physical line being read when the source failed (1-indexed).
	Line int
	// Err is the error returned by the source.
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error on line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *ReadError) Unwrap() error {
	return e.Err
}
