package csv

import (
	"io"

	"github.com/shapestone/shape-core/pkg/tokenizer"

	"github.com/shapestone/shape-dsv/internal/parser"
)

// Reader reads rows one at a time from delimited text. Input is consumed
// incrementally, one character at a time, so memory use is bounded by the
// longest line.
//
// Example usage:
//
//	file, _ := os.Open("data.csv")
//	defer file.Close()
//
//	opts := csv.DefaultReaderOptions()
//	opts.HeaderLine = 0
//	r, err := csv.NewReader(file, opts)
//	if err != nil {
//	    // invalid options
//	}
//	for {
//	    row, err := r.Read()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // handle error
//	    }
//	    name, _ := row.GetByName("name")
//	    fmt.Println(name)
//	}
//
// A Reader is not safe for concurrent use.
type Reader struct {
	lr     *parser.LineReader
	src    io.RuneReader
	header *Header
	last   int
	err    error
}

// NewReader creates a Reader over r. It returns an *OptionsError if opts are
// invalid.
func NewReader(r io.Reader, opts ReaderOptions) (*Reader, error) {
	return newReader(parser.NewRuneSource(r), opts)
}

func newReader(src io.RuneReader, opts ReaderOptions) (*Reader, error) {
	m, err := opts.mapping()
	if err != nil {
		return nil, err
	}
	return &Reader{
		lr:  parser.NewLineReader(m, opts.lineReaderOptions()),
		src: src,
	}, nil
}

// Read returns the next row. Empty lines are skipped. At the end of the
// input it returns io.EOF. After a *ParseError or *ReadError the Reader is
// unusable and every further call returns the same error.
func (r *Reader) Read() (Row, error) {
	if r.err != nil {
		return Row{}, r.err
	}
	line, err := r.lr.ReadLine(r.src)
	if err != nil {
		r.err = err
		return Row{}, err
	}
	if r.header == nil {
		if h := r.lr.Header(); h != nil {
			r.header = NewHeader(h.Cells())
		}
	}
	if line == nil {
		r.err = io.EOF
		return Row{}, io.EOF
	}
	r.last = line.Number() + 1
	return r.row(line), nil
}

func (r *Reader) row(line *parser.Line) Row {
	return Row{cells: line.Cells(), header: r.header, line: line.Number() + 1}
}

// ReadAll reads the remaining rows. A parse error fails the whole read and
// no rows are returned.
func (r *Reader) ReadAll() ([]Row, error) {
	var rows []Row
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Header returns the header, or nil when none is configured or it has not
// been read yet. It is available after the first call to Read.
func (r *Reader) Header() *Header {
	return r.header
}

// Line returns the physical line (1-indexed) on which the most recently
// returned row started.
func (r *Reader) Line() int {
	return r.last
}

// ReadAll reads every row of r.
func ReadAll(r io.Reader, opts ReaderOptions) ([]Row, error) {
	rd, err := NewReader(r, opts)
	if err != nil {
		return nil, err
	}
	return rd.ReadAll()
}

// ReadString reads every row of s.
func ReadString(s string, opts ReaderOptions) ([]Row, error) {
	rd, err := newReader(parser.NewStreamSource(tokenizer.NewStream(s)), opts)
	if err != nil {
		return nil, err
	}
	return rd.ReadAll()
}
