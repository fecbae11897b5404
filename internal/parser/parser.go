// Package parser assembles the cell tokens produced by the tokenizer into
// lines. It drives the state machine over a character source one rune at a
// time, skips lines before the configured start line and captures the header
// line.
package parser

import (
	"errors"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/shapestone/shape-dsv/internal/tokenizer"
)

// NoHeader disables header capture.
const NoHeader = -1

// Options configures the line reader.
type Options struct {
	// StartLine is the zero-based physical line at which tokenizing begins.
	// Earlier lines are skipped without being parsed. Default: 0
	StartLine int
	// HeaderLine is the zero-based physical line holding the column names,
	// or NoHeader. Default: NoHeader
	HeaderLine int
	// Logger receives the configuration at construction and parse errors.
	// Default: no logging
	Logger log.Logger
}

// DefaultOptions returns default line reader options.
func DefaultOptions() Options {
	return Options{
		StartLine:  0,
		HeaderLine: NoHeader,
	}
}

// LineReader builds lines of cells from a character source. It is stateful:
// lines are read one at a time and the physical line count carries over
// between calls, so a LineReader must be used by one goroutine only.
type LineReader struct {
	sm     *tokenizer.StateMachine
	opts   Options
	logger log.Logger

	physical int   // physical lines completed so far
	column   int   // characters read on the current physical line
	offset   int64 // characters read in total
	prev     rune
	header   *Line
}

// NewLineReader creates a line reader for the given dialect and logs the
// configuration.
func NewLineReader(mapping *tokenizer.SymbolMapping, opts Options) *LineReader {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	lr := &LineReader{
		sm:     tokenizer.NewStateMachine(mapping),
		opts:   opts,
		logger: log.With(logger, "component", "linereader"),
		prev:   tokenizer.EndOfStream,
	}
	lr.logSettings()
	return lr
}

func (lr *LineReader) logSettings() {
	lr.sm.Mapping().LogSettings(lr.logger)
	level.Info(lr.logger).Log("msg", "CSV config", "start_line", lr.opts.StartLine)
	if lr.opts.HeaderLine == NoHeader {
		level.Info(lr.logger).Log("msg", "CSV config", "header", "no")
	} else {
		level.Info(lr.logger).Log("msg", "CSV config", "header", "yes", "header_line", lr.opts.HeaderLine)
	}
}

// ReadAll reads lines until the source is exhausted. Empty lines are
// skipped. On error no lines are returned.
func (lr *LineReader) ReadAll(src io.RuneReader) ([]*Line, error) {
	lines := make([]*Line, 0, 16)
	for {
		line, err := lr.ReadLine(src)
		if err != nil {
			return nil, err
		}
		if line == nil {
			return lines, nil
		}
		lines = append(lines, line)
	}
}

// ReadLine returns the next non-empty data line, or nil at the end of the
// stream. The header line, when configured, is captured on the way and is
// available from Header.
func (lr *LineReader) ReadLine(src io.RuneReader) (*Line, error) {
	for {
		line, err := lr.ReadBareLine(src)
		if err != nil {
			return nil, err
		}
		if line == nil {
			if lr.IsFinished() {
				return nil, nil
			}
			continue
		}
		if lr.isHeaderLine(line) {
			lr.header = line
			level.Debug(lr.logger).Log("msg", "header captured", "line", line.Number()+1, "columns", line.Len())
			continue
		}
		return line, nil
	}
}

// ReadBareLine reads one logical line. Lines before the start line are
// skipped first. It returns nil for an empty line and at the end of the
// stream; IsFinished tells the two apart.
func (lr *LineReader) ReadBareLine(src io.RuneReader) (*Line, error) {
	if lr.IsFinished() {
		return nil, nil
	}
	if lr.isBeforeStartLine() {
		if err := lr.skipToStartLine(src); err != nil {
			return nil, err
		}
	}

	line := newLine(lr.physical, lr.offset)
	for !lr.sm.IsLineFinished() {
		r, err := lr.next(src)
		if err != nil {
			return nil, err
		}
		token, ok, err := lr.sm.OfferSymbol(r)
		if err != nil {
			if r != tokenizer.EndOfStream {
				line.addCharacter(r)
			}
			return nil, lr.parseError(line, err)
		}
		if lr.sm.IsTokenStart() {
			line.markStartOfColumn()
		}
		if ok {
			line.addCell(token)
		}
		if r == tokenizer.EndOfStream {
			continue
		}
		if tail := lr.advance(r, lr.sm.IsLineBreak()); tail && line.isBlank() {
			// rest of the previous line's end
			line.offset = lr.offset
			continue
		}
		line.addCharacter(r)
	}

	empty := lr.sm.IsEmptyLine()
	lr.sm.NewLine()
	if empty {
		return nil, nil
	}
	return line, nil
}

// skipToStartLine consumes characters, counting line ends, until the start
// line is reached or the stream ends. Nothing is tokenized.
func (lr *LineReader) skipToStartLine(src io.RuneReader) error {
	for lr.isBeforeStartLine() {
		r, err := lr.next(src)
		if err != nil {
			return err
		}
		lineEnd := lr.sm.SkipSymbol(r)
		if r == tokenizer.EndOfStream {
			return nil
		}
		lr.advance(r, lineEnd)
	}
	level.Debug(lr.logger).Log("msg", "skipped to start line", "line", lr.physical)
	return nil
}

func (lr *LineReader) next(src io.RuneReader) (rune, error) {
	r, _, err := src.ReadRune()
	if errors.Is(err, io.EOF) {
		return tokenizer.EndOfStream, nil
	}
	if err != nil {
		return 0, &ReadError{Line: lr.physical + 1, Err: err}
	}
	return r, nil
}

// advance moves the position past r and reports whether r completed a
// two-character line end. Such a character leaves the column at zero.
func (lr *LineReader) advance(r rune, lineEnd bool) bool {
	tail := lr.sm.Mapping().IsEndOfLineTail(lr.prev, r)
	lr.prev = r
	lr.offset++
	switch {
	case lineEnd:
		lr.physical++
		lr.column = 0
	case !tail:
		lr.column++
	}
	return tail
}

func (lr *LineReader) parseError(line *Line, err error) error {
	pe := &ParseError{
		StartLine: line.Number() + 1,
		Line:      lr.physical + 1,
		Column:    lr.column + 1,
		Content:   line.Raw(),
		Err:       err,
	}
	level.Error(lr.logger).Log("msg", "parse error", "line", pe.Line, "column", pe.Column, "content", line.Report(), "err", err)
	return pe
}

func (lr *LineReader) isBeforeStartLine() bool {
	return lr.physical < lr.opts.StartLine
}

func (lr *LineReader) isHeaderLine(line *Line) bool {
	return lr.header == nil && lr.opts.HeaderLine != NoHeader && line.Number() >= lr.opts.HeaderLine
}

// Header returns the captured header line, or nil when none has been read
// or none is configured.
func (lr *LineReader) Header() *Line {
	return lr.header
}

// IsFinished reports whether the end of the stream has been reached.
func (lr *LineReader) IsFinished() bool {
	return lr.sm.IsFinished()
}

// CurrentLine returns the zero-based physical line the reader is positioned
// on.
func (lr *LineReader) CurrentLine() int {
	return lr.physical
}
