package csv

import (
	"unicode/utf8"

	"github.com/go-kit/log"

	"github.com/shapestone/shape-dsv/internal/parser"
	"github.com/shapestone/shape-dsv/internal/tokenizer"
)

// NoHeader is the HeaderLine value for input without a header row.
const NoHeader = parser.NoHeader

// ReaderOptions configures parsing.
type ReaderOptions struct {
	// Separator delimits cells.
	// Default: ','
	Separator rune

	// Quote begins and ends a quoted value.
	// Default: '"'
	Quote rune

	// Escape escapes a quote inside a quoted value. When it equals Quote a
	// doubled quote stands for one literal quote; otherwise it is a prefix
	// such as '\\'.
	// Default: '"'
	Escape rune

	// EndOfLine holds the one or two line end characters. Each character
	// ends a line on its own and the two-character sequence counts once.
	// Default: "\r\n"
	EndOfLine string

	// Space is ignored at the start of an unquoted value and around quoted
	// values. 0 keeps all whitespace.
	// Default: ' '
	Space rune

	// StartLine is the zero-based physical line where parsing begins.
	// Earlier lines are skipped unparsed, so malformed preamble lines never
	// cause errors.
	// Default: 0
	StartLine int

	// HeaderLine is the zero-based physical line holding the column names,
	// or NoHeader. It must not be before StartLine.
	// Default: NoHeader
	HeaderLine int

	// Logger receives the configuration when a reader is created and every
	// parse error. nil disables logging.
	// Default: nil
	Logger log.Logger
}

// DefaultReaderOptions returns the default reader configuration: comma
// separated, double quote for quoting and escaping, CR LF line ends and no
// header.
func DefaultReaderOptions() ReaderOptions {
	d := tokenizer.DefaultDialect()
	return ReaderOptions{
		Separator:  d.Separator,
		Quote:      d.Quote,
		Escape:     d.Escape,
		EndOfLine:  d.EndOfLine,
		Space:      d.Space,
		StartLine:  0,
		HeaderLine: NoHeader,
	}
}

// WriterOptions configures writing.
type WriterOptions struct {
	// Separator delimits cells.
	// Default: ','
	Separator rune

	// Quote surrounds values that need quoting.
	// Default: '"'
	Quote rune

	// Escape is written in front of every quote inside a quoted value.
	// Default: '"'
	Escape rune

	// EndOfLine terminates every line.
	// Default: "\r\n"
	EndOfLine string

	// UseHeader requires WriteHeader to be called before the first row.
	// Default: false
	UseHeader bool

	// AlwaysQuote quotes every value instead of only those that need it.
	// Default: false
	AlwaysQuote bool
}

// DefaultWriterOptions returns the default writer configuration.
func DefaultWriterOptions() WriterOptions {
	d := tokenizer.DefaultDialect()
	return WriterOptions{
		Separator:   d.Separator,
		Quote:       d.Quote,
		Escape:      d.Escape,
		EndOfLine:   d.EndOfLine,
		UseHeader:   false,
		AlwaysQuote: false,
	}
}

// validRune reports whether r can be configured as a dialect character.
func validRune(r rune) bool {
	return r > 0 && utf8.ValidRune(r) && r != utf8.RuneError
}

func (o ReaderOptions) dialect() tokenizer.Dialect {
	return tokenizer.Dialect{
		Separator: o.Separator,
		Quote:     o.Quote,
		Escape:    o.Escape,
		EndOfLine: o.EndOfLine,
		Space:     o.Space,
	}
}

func (o ReaderOptions) lineReaderOptions() parser.Options {
	return parser.Options{
		StartLine:  o.StartLine,
		HeaderLine: o.HeaderLine,
		Logger:     o.Logger,
	}
}

// mapping validates the options and builds the symbol mapping for them.
func (o ReaderOptions) mapping() (*tokenizer.SymbolMapping, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	m, err := tokenizer.NewSymbolMapping(o.dialect())
	if err != nil {
		return nil, &OptionsError{Field: "Dialect", Message: err.Error(), Err: err}
	}
	return m, nil
}

// Validate checks the options. It returns an *OptionsError describing the
// first invalid field.
func (o ReaderOptions) Validate() error {
	if !validRune(o.Separator) {
		return &OptionsError{Field: "Separator", Message: "invalid character"}
	}
	if !validRune(o.Quote) {
		return &OptionsError{Field: "Quote", Message: "invalid character"}
	}
	if !validRune(o.Escape) {
		return &OptionsError{Field: "Escape", Message: "invalid character"}
	}
	if n := utf8.RuneCountInString(o.EndOfLine); n == 0 || n > 2 {
		return &OptionsError{Field: "EndOfLine", Message: "must be one or two characters"}
	}
	if o.Space != 0 && !validRune(o.Space) {
		return &OptionsError{Field: "Space", Message: "invalid character"}
	}
	if o.StartLine < 0 {
		return &OptionsError{Field: "StartLine", Message: "negative line"}
	}
	if o.HeaderLine != NoHeader && o.HeaderLine < o.StartLine {
		return &OptionsError{Field: "HeaderLine", Message: "header line before start line"}
	}
	return nil
}

// Validate checks the writer options.
func (o WriterOptions) Validate() error {
	if !validRune(o.Separator) {
		return &OptionsError{Field: "Separator", Message: "invalid character"}
	}
	if !validRune(o.Quote) {
		return &OptionsError{Field: "Quote", Message: "invalid character"}
	}
	if !validRune(o.Escape) {
		return &OptionsError{Field: "Escape", Message: "invalid character"}
	}
	if o.Separator == o.Quote {
		return &OptionsError{Field: "Quote", Message: "quote same as separator"}
	}
	if o.EndOfLine == "" {
		return &OptionsError{Field: "EndOfLine", Message: "empty line end"}
	}
	return nil
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
	// Err is the underlying cause, if any.
	Err error
}

func (e *OptionsError) Error() string {
	return "csv: invalid " + e.Field + ": " + e.Message
}

// Unwrap returns the underlying cause.
func (e *OptionsError) Unwrap() error {
	return e.Err
}
