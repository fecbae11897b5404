package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ErrSymbolConflict is returned when a character is configured for two
// different symbol categories.
var ErrSymbolConflict = errors.New("character mapped to more than one symbol")

// ErrInvalidEndOfLine is returned when the end-of-line sequence is empty or
// longer than two characters.
var ErrInvalidEndOfLine = errors.New("end of line must be one or two characters")

// Dialect holds the characters that give structure to delimited text.
type Dialect struct {
	// Separator delimits cells within a line.
	Separator rune
	// Quote begins and ends a quoted value.
	Quote rune
	// Escape escapes the following quote inside a quoted value. It may be
	// the same character as Quote (doubled-quote escaping).
	Escape rune
	// EndOfLine is one or two characters. Each character on its own ends a
	// line; the two-character sequence counts as a single line end.
	EndOfLine string
	// Space is trimmed at the start of an unquoted cell. 0 disables trimming.
	Space rune
}

// DefaultDialect returns the RFC 4180 flavoured dialect: comma separated,
// double quote for quoting and escaping, CR LF line ends.
func DefaultDialect() Dialect {
	return Dialect{
		Separator: ',',
		Quote:     '"',
		Escape:    '"',
		EndOfLine: "\r\n",
		Space:     ' ',
	}
}

// SymbolMapping classifies runes according to a Dialect. It is immutable
// after construction and may be shared between state machines.
type SymbolMapping struct {
	dialect       Dialect
	symbolToRunes map[Symbol][]rune
	runeToSymbol  map[rune]Symbol
	eol           []rune
	sameQuoteEsc  bool
}

// NewSymbolMapping builds the lookup tables for d. It fails if a rune would
// map to more than one category; the only permitted overlap is Quote ==
// Escape, which is resolved from the parse state.
func NewSymbolMapping(d Dialect) (*SymbolMapping, error) {
	eol := []rune(d.EndOfLine)
	if len(eol) == 0 || len(eol) > 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndOfLine, d.EndOfLine)
	}

	m := &SymbolMapping{
		dialect:       d,
		symbolToRunes: make(map[Symbol][]rune, len(MappedSymbols)),
		runeToSymbol:  make(map[rune]Symbol, 8),
		eol:           eol,
		sameQuoteEsc:  d.Quote == d.Escape,
	}

	if err := m.add(SymbolEscape, d.Escape); err != nil {
		return nil, err
	}
	if err := m.add(SymbolQuote, d.Quote); err != nil {
		return nil, err
	}
	if err := m.add(SymbolSeparator, d.Separator); err != nil {
		return nil, err
	}
	if err := m.add(SymbolEndOfLine, eol...); err != nil {
		return nil, err
	}
	if d.Space != 0 {
		if err := m.add(SymbolSpace, d.Space); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *SymbolMapping) add(symbol Symbol, runes ...rune) error {
	for _, r := range runes {
		if r == 0 || r == EndOfStream {
			return fmt.Errorf("invalid character %q for %s", r, symbol)
		}
		if existing, ok := m.runeToSymbol[r]; ok && existing != symbol {
			if !(m.sameQuoteEsc && isQuoteOrEscape(existing) && isQuoteOrEscape(symbol)) {
				return fmt.Errorf("%w: %q is both %s and %s", ErrSymbolConflict, r, existing, symbol)
			}
		}
		m.runeToSymbol[r] = symbol
	}
	m.symbolToRunes[symbol] = append(m.symbolToRunes[symbol], runes...)
	return nil
}

func isQuoteOrEscape(s Symbol) bool {
	return s == SymbolQuote || s == SymbolEscape
}

// Dialect returns the dialect the mapping was built from.
func (m *SymbolMapping) Dialect() Dialect {
	return m.dialect
}

// SameQuoteAndEscape reports whether the quote and escape characters are
// identical, which enables doubled-quote escaping.
func (m *SymbolMapping) SameQuoteAndEscape() bool {
	return m.sameQuoteEsc
}

// Runes returns the characters configured for symbol, in configuration
// order. The returned slice must not be modified.
func (m *SymbolMapping) Runes(symbol Symbol) []rune {
	return m.symbolToRunes[symbol]
}

// Find classifies r in the context of the given parse state.
//
// When quote and escape are the same character the static table cannot tell
// them apart. Directly after a quote inside a quoted value a second quote
// escapes the first, so it is reported as SymbolEscape; everywhere else it
// is SymbolQuote.
func (m *SymbolMapping) Find(r rune, state State) Symbol {
	if r == EndOfStream {
		return SymbolEndOfStream
	}
	symbol, ok := m.runeToSymbol[r]
	if !ok {
		return SymbolOther
	}
	if m.sameQuoteEsc && isQuoteOrEscape(symbol) {
		if state.upgradesQuoteToEscape() {
			return SymbolEscape
		}
		return SymbolQuote
	}
	return symbol
}

// IsEndOfLine reports whether r is one of the end-of-line characters.
func (m *SymbolMapping) IsEndOfLine(r rune) bool {
	if r == EndOfStream {
		return false
	}
	return m.runeToSymbol[r] == SymbolEndOfLine
}

// IsEndOfLineTail reports whether r completes a two-character end-of-line
// sequence that was started by prev.
func (m *SymbolMapping) IsEndOfLineTail(prev, r rune) bool {
	return len(m.eol) == 2 && prev == m.eol[0] && r == m.eol[1]
}

// LogSettings writes the configured characters of every symbol to logger,
// one line per symbol.
func (m *SymbolMapping) LogSettings(logger log.Logger) {
	for _, symbol := range MappedSymbols {
		runes := m.Runes(symbol)
		if len(runes) == 0 {
			continue
		}
		parts := make([]string, len(runes))
		for i, r := range runes {
			parts[i] = Printable(r)
		}
		level.Info(logger).Log("msg", "CSV config", "symbol", symbol, "chars", strings.Join(parts, " "))
	}
}

// Printable renders r for diagnostics, making tab and line end characters
// visible.
func Printable(r rune) string {
	switch r {
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case EndOfStream:
		return "<EOS>"
	default:
		return string(r)
	}
}
