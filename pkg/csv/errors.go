package csv

import (
	"errors"

	"github.com/shapestone/shape-dsv/internal/parser"
	"github.com/shapestone/shape-dsv/internal/tokenizer"
)

// ParseError reports malformed input with the position of the offending
// character and the raw text of its line.
type ParseError = parser.ParseError

// ReadError wraps a failure of the underlying reader.
type ReadError = parser.ReadError

var (
	// ErrNoHeader is returned for name based access without a header, and
	// by a Writer that requires a header when none has been written.
	ErrNoHeader = errors.New("no header")

	// ErrUnknownColumn is returned for a column name not in the header.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrHeaderWritten is returned when WriteHeader is called twice.
	ErrHeaderWritten = errors.New("header already written")
)

// Tokenizer errors, available through errors.Is on a *ParseError.
var (
	// ErrUnterminatedQuote indicates the input ended inside a quoted value.
	ErrUnterminatedQuote = tokenizer.ErrUnterminatedQuote

	// ErrUnexpectedAfterQuote indicates a character other than a separator,
	// space or line end after a closing quote.
	ErrUnexpectedAfterQuote = tokenizer.ErrUnexpectedAfterQuote

	// ErrStrayQuote indicates a quote after a value was already closed.
	ErrStrayQuote = tokenizer.ErrStrayQuote

	// ErrSymbolConflict indicates a character configured for two roles.
	ErrSymbolConflict = tokenizer.ErrSymbolConflict
)
