package tokenizer

import (
	"errors"
	"fmt"
	"strings"
)

// State is a state of the line tokenizer.
type State int

// Tokenizer states. StateLineStart is the initial state; StateLineEnd ends a
// physical line and StateStreamEnd ends the input.
const (
	StateLineStart State = iota
	// StateBeforeValue is the start of a cell following a separator.
	StateBeforeValue
	StateUnquotedValue
	StateQuotedValue
	// StateQuoteSeenInQuotedValue is the one-character lookahead after a
	// quote inside a quoted value: the quote either closes the value or is
	// escaped by the next character.
	StateQuoteSeenInQuotedValue
	// StateEscapeInQuotedValue follows an escape character that differs from
	// the quote character.
	StateEscapeInQuotedValue
	StateAfterClosedQuote
	StateLineEnd
	StateStreamEnd
)

var stateNames = [...]string{
	StateLineStart:              "LineStart",
	StateBeforeValue:            "BeforeValue",
	StateUnquotedValue:          "UnquotedValue",
	StateQuotedValue:            "QuotedValue",
	StateQuoteSeenInQuotedValue: "QuoteSeenInQuotedValue",
	StateEscapeInQuotedValue:    "EscapeInQuotedValue",
	StateAfterClosedQuote:       "AfterClosedQuote",
	StateLineEnd:                "LineEnd",
	StateStreamEnd:              "StreamEnd",
}

// String returns the name of the state.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// upgradesQuoteToEscape reports whether a quote character read in this state
// escapes a preceding quote rather than opening or closing a value.
func (s State) upgradesQuoteToEscape() bool {
	return s == StateQuoteSeenInQuotedValue
}

// Tokenizer errors. They are wrapped in *Error.
var (
	ErrUnterminatedQuote    = errors.New("quoted value not terminated")
	ErrUnexpectedAfterQuote = errors.New("unexpected character after closing quote")
	ErrStrayQuote           = errors.New("stray quote after closed value")
	ErrStreamFinished       = errors.New("symbol offered after end of stream")
)

// Error describes why a character could not be accepted.
type Error struct {
	// State is the state the machine was in when Char was offered.
	State State
	// Symbol is the category Char was classified as.
	Symbol Symbol
	// Char is the offending character, or EndOfStream.
	Char rune
	// Err is one of the tokenizer sentinel errors.
	Err error
}

func (e *Error) Error() string {
	if e.Char == EndOfStream {
		return fmt.Sprintf("%v at end of stream", e.Err)
	}
	return fmt.Sprintf("%v: %q (%s in %s)", e.Err, e.Char, e.Symbol, e.State)
}

// Unwrap returns the underlying sentinel error.
func (e *Error) Unwrap() error {
	return e.Err
}

// StateMachine converts a character stream, offered one character at a time,
// into cell tokens. It holds the cell being built, so a StateMachine must not
// be shared between goroutines. The SymbolMapping it reads is immutable.
type StateMachine struct {
	mapping *SymbolMapping
	state   State
	token   strings.Builder

	tokenStart bool
	nonEmpty   bool
	lineBreak  bool
	prev       rune
}

// NewStateMachine creates a state machine positioned at the start of a line.
func NewStateMachine(mapping *SymbolMapping) *StateMachine {
	return &StateMachine{
		mapping: mapping,
		state:   StateLineStart,
		prev:    EndOfStream,
	}
}

// Mapping returns the symbol mapping used for classification.
func (sm *StateMachine) Mapping() *SymbolMapping {
	return sm.mapping
}

// State returns the current state.
func (sm *StateMachine) State() State {
	return sm.state
}

// IsTokenStart reports whether the last offered character began a new cell.
func (sm *StateMachine) IsTokenStart() bool {
	return sm.tokenStart
}

// IsLineFinished reports whether the current line is complete.
func (sm *StateMachine) IsLineFinished() bool {
	return sm.state == StateLineEnd || sm.state == StateStreamEnd
}

// IsEmptyLine reports whether the current line produced no cells and no
// cell content. Leading space characters do not count as content.
func (sm *StateMachine) IsEmptyLine() bool {
	return !sm.nonEmpty
}

// IsFinished reports whether the end of the stream has been reached.
func (sm *StateMachine) IsFinished() bool {
	return sm.state == StateStreamEnd
}

// IsLineBreak reports whether the last offered character ended a physical
// line, whether or not it was inside a quoted value. The second character of
// a two-character end-of-line sequence does not count.
func (sm *StateMachine) IsLineBreak() bool {
	return sm.lineBreak
}

// NewLine prepares the machine for the next line. It has no effect once the
// stream has ended.
func (sm *StateMachine) NewLine() {
	sm.token.Reset()
	sm.tokenStart = false
	sm.nonEmpty = false
	if sm.state != StateStreamEnd {
		sm.state = StateLineStart
	}
}

// SkipSymbol consumes r without tokenizing it and reports whether it ended a
// physical line. It is used to pass over lines before the start line.
func (sm *StateMachine) SkipSymbol(r rune) bool {
	tail := sm.mapping.IsEndOfLineTail(sm.prev, r)
	sm.prev = r
	if r == EndOfStream {
		sm.state = StateStreamEnd
		return false
	}
	return sm.mapping.IsEndOfLine(r) && !tail
}

// OfferSymbol feeds one character, or EndOfStream, to the machine. It returns
// a completed cell token and true when a cell boundary was crossed.
func (sm *StateMachine) OfferSymbol(r rune) (string, bool, error) {
	if sm.state == StateStreamEnd {
		return "", false, &Error{State: sm.state, Symbol: SymbolEndOfStream, Char: r, Err: ErrStreamFinished}
	}
	if sm.state == StateLineEnd {
		sm.NewLine()
	}

	tail := sm.mapping.IsEndOfLineTail(sm.prev, r)
	sm.prev = r
	sm.tokenStart = false
	sm.lineBreak = sm.mapping.IsEndOfLine(r) && !tail
	if tail && sm.state == StateLineStart && !sm.nonEmpty {
		// second half of the line end that finished the previous line
		return "", false, nil
	}

	symbol := sm.mapping.Find(r, sm.state)
	switch sm.state {
	case StateLineStart, StateBeforeValue:
		return sm.valueStart(symbol, r)
	case StateUnquotedValue:
		return sm.unquotedValue(symbol, r)
	case StateQuotedValue:
		return sm.quotedValue(symbol, r)
	case StateQuoteSeenInQuotedValue:
		return sm.quoteSeen(symbol, r)
	case StateEscapeInQuotedValue:
		return sm.escapeInQuotedValue(symbol, r)
	case StateAfterClosedQuote:
		return sm.afterClosedQuote(symbol, r)
	}
	return "", false, fmt.Errorf("tokenizer in unknown state %s", sm.state)
}

// valueStart handles the start of a cell. At the start of a line an end of
// line or end of stream produces no cell; after a separator it closes an
// empty cell.
func (sm *StateMachine) valueStart(symbol Symbol, r rune) (string, bool, error) {
	atLineStart := sm.state == StateLineStart
	switch symbol {
	case SymbolSpace:
		return "", false, nil
	case SymbolSeparator:
		sm.state = StateBeforeValue
		return sm.emit(), true, nil
	case SymbolQuote:
		sm.begin(StateQuotedValue)
		return "", false, nil
	case SymbolEndOfLine:
		sm.state = StateLineEnd
		if atLineStart {
			return "", false, nil
		}
		return sm.emit(), true, nil
	case SymbolEndOfStream:
		sm.state = StateStreamEnd
		if atLineStart {
			return "", false, nil
		}
		return sm.emit(), true, nil
	default:
		// SymbolOther, and an escape character outside a quoted value
		sm.begin(StateUnquotedValue)
		sm.token.WriteRune(r)
		return "", false, nil
	}
}

// unquotedValue keeps every character up to the next separator or line end.
// Quote characters in the middle of an unquoted value are literal.
func (sm *StateMachine) unquotedValue(symbol Symbol, r rune) (string, bool, error) {
	switch symbol {
	case SymbolSeparator:
		sm.state = StateBeforeValue
		return sm.emit(), true, nil
	case SymbolEndOfLine:
		sm.state = StateLineEnd
		return sm.emit(), true, nil
	case SymbolEndOfStream:
		sm.state = StateStreamEnd
		return sm.emit(), true, nil
	default:
		sm.token.WriteRune(r)
		return "", false, nil
	}
}

func (sm *StateMachine) quotedValue(symbol Symbol, r rune) (string, bool, error) {
	switch symbol {
	case SymbolQuote:
		sm.state = StateQuoteSeenInQuotedValue
	case SymbolEscape:
		sm.state = StateEscapeInQuotedValue
	case SymbolEndOfStream:
		return "", false, sm.fail(symbol, r, ErrUnterminatedQuote)
	default:
		sm.token.WriteRune(r)
	}
	return "", false, nil
}

// quoteSeen resolves the quote read in a quoted value. A following escape
// or second quote makes it literal; anything else means the value was
// closed. The escape itself is dropped, so with a distinct escape `"a"\b"`
// reads as a"b.
func (sm *StateMachine) quoteSeen(symbol Symbol, r rune) (string, bool, error) {
	switch symbol {
	case SymbolEscape:
		sm.token.WriteRune(sm.mapping.Dialect().Quote)
		sm.state = StateQuotedValue
		return "", false, nil
	case SymbolQuote:
		sm.token.WriteRune(r)
		sm.state = StateQuotedValue
		return "", false, nil
	case SymbolSpace:
		sm.state = StateAfterClosedQuote
		return "", false, nil
	case SymbolOther:
		return "", false, sm.fail(symbol, r, ErrUnexpectedAfterQuote)
	default:
		return sm.afterClosedQuote(symbol, r)
	}
}

// escapeInQuotedValue takes the character after a distinct escape character.
// An escaped quote or escape is kept on its own; any other character keeps
// the escape in front of it.
func (sm *StateMachine) escapeInQuotedValue(symbol Symbol, r rune) (string, bool, error) {
	switch symbol {
	case SymbolEndOfStream:
		return "", false, sm.fail(symbol, r, ErrUnterminatedQuote)
	case SymbolQuote, SymbolEscape:
		sm.token.WriteRune(r)
	default:
		sm.token.WriteRune(sm.mapping.Dialect().Escape)
		sm.token.WriteRune(r)
	}
	sm.state = StateQuotedValue
	return "", false, nil
}

func (sm *StateMachine) afterClosedQuote(symbol Symbol, r rune) (string, bool, error) {
	switch symbol {
	case SymbolSeparator:
		sm.state = StateBeforeValue
		return sm.emit(), true, nil
	case SymbolEndOfLine:
		sm.state = StateLineEnd
		return sm.emit(), true, nil
	case SymbolEndOfStream:
		sm.state = StateStreamEnd
		return sm.emit(), true, nil
	case SymbolSpace:
		return "", false, nil
	case SymbolQuote, SymbolEscape:
		return "", false, sm.fail(symbol, r, ErrStrayQuote)
	default:
		return "", false, sm.fail(symbol, r, ErrUnexpectedAfterQuote)
	}
}

func (sm *StateMachine) begin(state State) {
	sm.state = state
	sm.tokenStart = true
	sm.nonEmpty = true
}

func (sm *StateMachine) emit() string {
	token := sm.token.String()
	sm.token.Reset()
	sm.nonEmpty = true
	return token
}

func (sm *StateMachine) fail(symbol Symbol, r rune, err error) error {
	return &Error{State: sm.state, Symbol: symbol, Char: r, Err: err}
}
