package csv

import (
	"fmt"
	"iter"
)

// Header holds the column names of a file. It is immutable and shared by
// every Row read after it.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader creates a header from column names. When a name occurs more than
// once, lookups by name resolve to its first column.
func NewHeader(names []string) *Header {
	h := &Header{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, name := range h.names {
		if _, ok := h.index[name]; !ok {
			h.index[name] = i
		}
	}
	return h
}

// Names returns a copy of the column names.
func (h *Header) Names() []string {
	return append([]string(nil), h.names...)
}

// Len returns the number of columns.
func (h *Header) Len() int {
	return len(h.names)
}

// Name returns the name of column i.
func (h *Header) Name(i int) (string, bool) {
	if i < 0 || i >= len(h.names) {
		return "", false
	}
	return h.names[i], true
}

// Index returns the column of name.
func (h *Header) Index(name string) (int, bool) {
	i, ok := h.index[name]
	return i, ok
}

// All iterates over column indexes and names.
func (h *Header) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i, name := range h.names {
			if !yield(i, name) {
				return
			}
		}
	}
}

// Row is one logical line of cells, paired by position with the header of
// the file if there is one. Rows are immutable.
type Row struct {
	cells  []string
	header *Header
	line   int
}

// NewRow creates a row. header may be nil.
func NewRow(cells []string, header *Header) Row {
	return Row{cells: append([]string(nil), cells...), header: header}
}

// Len returns the number of cells.
func (r Row) Len() int {
	return len(r.cells)
}

// Get returns the cell at index i.
func (r Row) Get(i int) (string, bool) {
	if i < 0 || i >= len(r.cells) {
		return "", false
	}
	return r.cells[i], true
}

// GetByName returns the cell in the column called name. It fails with
// ErrNoHeader when the row has no header and with ErrUnknownColumn when the
// header has no such column or the row is too short to reach it.
func (r Row) GetByName(name string) (string, error) {
	if r.header == nil {
		return "", ErrNoHeader
	}
	i, ok := r.header.Index(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if i >= len(r.cells) {
		return "", fmt.Errorf("%w: %q not present on line %d", ErrUnknownColumn, name, r.line)
	}
	return r.cells[i], nil
}

// Cells returns a copy of the cells.
func (r Row) Cells() []string {
	return append([]string(nil), r.cells...)
}

// Header returns the header of the row, or nil.
func (r Row) Header() *Header {
	return r.header
}

// Map returns the cells keyed by column name. Cells beyond the header and
// columns beyond the row are left out. It returns nil without a header.
func (r Row) Map() map[string]string {
	if r.header == nil {
		return nil
	}
	m := make(map[string]string, len(r.header.names))
	for i, name := range r.header.names {
		if i >= len(r.cells) {
			break
		}
		if _, ok := m[name]; !ok {
			m[name] = r.cells[i]
		}
	}
	return m
}

// Line returns the physical line the row started on (1-indexed), or 0 for
// rows that were not read from input.
func (r Row) Line() int {
	return r.line
}

// String renders the row for debugging.
func (r Row) String() string {
	return fmt.Sprintf("%d:%q", r.line, r.cells)
}
