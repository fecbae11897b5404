package parser

import (
	"strings"

	"github.com/shapestone/shape-dsv/internal/tokenizer"
)

// Line is one logical line: the cells assembled by the tokenizer together
// with the raw characters they were read from. A logical line may span
// several physical lines when a quoted value contains line breaks.
type Line struct {
	cells   []string
	starts  []int
	raw     []rune
	number  int
	offset  int64
	pending int
}

func newLine(number int, offset int64) *Line {
	return &Line{
		cells:   make([]string, 0, 8),
		number:  number,
		offset:  offset,
		pending: -1,
	}
}

// Cells returns the cell values. The slice must not be modified.
func (l *Line) Cells() []string {
	return l.cells
}

// Len returns the number of cells.
func (l *Line) Len() int {
	return len(l.cells)
}

// Number returns the zero-based physical line on which the line started.
func (l *Line) Number() int {
	return l.number
}

// Offset returns the character offset of the first character of the line.
func (l *Line) Offset() int64 {
	return l.offset
}

// CellStart returns the index, relative to the start of the line, of the
// first character of cell i.
func (l *Line) CellStart(i int) int {
	return l.starts[i]
}

// Raw returns the characters read for this line, including separators,
// quotes and the terminating line end.
func (l *Line) Raw() string {
	return string(l.raw)
}

// Report renders the raw characters with control characters made visible,
// for use in diagnostics.
func (l *Line) Report() string {
	var sb strings.Builder
	for _, r := range l.raw {
		sb.WriteString(tokenizer.Printable(r))
	}
	return sb.String()
}

func (l *Line) markStartOfColumn() {
	l.pending = len(l.raw)
}

func (l *Line) addCell(cell string) {
	start := l.pending
	if start < 0 {
		start = len(l.raw)
	}
	l.cells = append(l.cells, cell)
	l.starts = append(l.starts, start)
	l.pending = -1
}

func (l *Line) isBlank() bool {
	return len(l.raw) == 0
}

func (l *Line) addCharacter(r rune) {
	l.raw = append(l.raw, r)
}
