package csv

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Writer writes rows of delimited text. Output is buffered; call Flush
// when done and check Error.
//
// Values are quoted when they contain the separator, quote, escape or a line
// end character, when they start with a space, or when AlwaysQuote is set.
// Inside a quoted value each quote is preceded by the escape character, so
// with the default options quotes are doubled. A distinct escape character
// is itself escaped.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	w             *bufio.Writer
	opts          WriterOptions
	special       string
	headerWritten bool
	rowsWritten   bool
	err           error
}

// NewWriter creates a Writer. It returns an *OptionsError if opts are
// invalid.
func NewWriter(w io.Writer, opts WriterOptions) (*Writer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Writer{
		w:       bufio.NewWriter(w),
		opts:    opts,
		special: string([]rune{opts.Separator, opts.Quote, opts.Escape, '\r', '\n'}) + opts.EndOfLine,
	}, nil
}

// WriteHeader writes the column names. It must come before any row and may
// be called once.
func (w *Writer) WriteHeader(names []string) error {
	if w.err != nil {
		return w.err
	}
	if w.headerWritten || w.rowsWritten {
		return ErrHeaderWritten
	}
	w.headerWritten = true
	return w.writeLine(names)
}

// WriteRow writes one row. With UseHeader set it fails with ErrNoHeader
// until WriteHeader has been called.
func (w *Writer) WriteRow(cells []string) error {
	if w.err != nil {
		return w.err
	}
	if w.opts.UseHeader && !w.headerWritten {
		return fmt.Errorf("%w: header must be written before rows", ErrNoHeader)
	}
	w.rowsWritten = true
	return w.writeLine(cells)
}

// WriteRows writes several rows and flushes.
func (w *Writer) WriteRows(rows [][]string) error {
	for _, cells := range rows {
		if err := w.WriteRow(cells); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.w.Flush(); err != nil {
		w.err = err
	}
	return w.err
}

// Error reports any error from a previous write or flush.
func (w *Writer) Error() error {
	return w.err
}

func (w *Writer) writeLine(cells []string) error {
	for i, cell := range cells {
		if i > 0 {
			w.w.WriteRune(w.opts.Separator)
		}
		// a lone empty cell is quoted so the line is not read back as empty
		if w.needsQuoting(cell) || (len(cells) == 1 && cell == "") {
			w.writeQuoted(cell)
		} else {
			w.w.WriteString(cell)
		}
	}
	if _, err := w.w.WriteString(w.opts.EndOfLine); err != nil {
		w.err = err
	}
	return w.err
}

func (w *Writer) needsQuoting(cell string) bool {
	if w.opts.AlwaysQuote {
		return true
	}
	if cell == "" {
		return false
	}
	return strings.ContainsAny(cell, w.special) || cell[0] == ' ' || cell[0] == '\t'
}

func (w *Writer) writeQuoted(cell string) {
	sameEscape := w.opts.Quote == w.opts.Escape
	w.w.WriteRune(w.opts.Quote)
	for _, r := range cell {
		switch {
		case r == w.opts.Quote:
			w.w.WriteRune(w.opts.Escape)
		case r == w.opts.Escape && !sameEscape:
			w.w.WriteRune(w.opts.Escape)
		}
		w.w.WriteRune(r)
	}
	w.w.WriteRune(w.opts.Quote)
}
