// Package tokenizer implements the character-level CSV tokenizer: a symbol
// classifier that maps runes to their role in the configured dialect and a
// state machine that turns a stream of symbols into cell tokens and line
// boundaries.
package tokenizer

import "fmt"

// EndOfStream is offered to the state machine once the character source is
// exhausted. It is not a valid rune.
const EndOfStream rune = -1

// Symbol is the semantic role of a single input character.
type Symbol int

// Symbol categories. Every character maps to exactly one of them for a given
// parse state.
const (
	SymbolOther Symbol = iota
	SymbolSeparator
	SymbolQuote
	SymbolEscape
	SymbolEndOfLine
	SymbolSpace
	SymbolEndOfStream
)

var symbolNames = [...]string{
	SymbolOther:       "Other",
	SymbolSeparator:   "Separator",
	SymbolQuote:       "Quote",
	SymbolEscape:      "Escape",
	SymbolEndOfLine:   "EndOfLine",
	SymbolSpace:       "Space",
	SymbolEndOfStream: "EndOfStream",
}

// String returns the name of the symbol category.
func (s Symbol) String() string {
	if s >= 0 && int(s) < len(symbolNames) {
		return symbolNames[s]
	}
	return fmt.Sprintf("Symbol(%d)", int(s))
}

// MappedSymbols lists the categories that carry configured characters, in
// reporting order.
var MappedSymbols = []Symbol{
	SymbolSeparator,
	SymbolQuote,
	SymbolEscape,
	SymbolEndOfLine,
	SymbolSpace,
}
