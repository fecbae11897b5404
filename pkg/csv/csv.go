// Package csv reads and writes delimited text (CSV, TSV and similar
// dialects).
//
// The separator, quote, escape, space and line end characters are all
// configurable. Quote and escape may be the same character, in which case a
// doubled quote inside a quoted value stands for a literal quote, or differ,
// as with backslash escaping. Parsing can start at a given line, skipping a
// preamble without parsing it, and can take column names from a header line.
//
// # Thread Safety
//
// Package level functions are safe for concurrent use; each call builds its
// own reader. A Reader or Writer must be used by one goroutine at a time.
//
// # Reading APIs
//
//   - Reader - streams rows one at a time from an io.Reader
//   - ReadAll, ReadString - read every row into memory
//   - Parse, ParseReader - build a shape-core AST with positions
//
// # Example usage with Reader:
//
//	opts := csv.DefaultReaderOptions()
//	opts.Separator = ';'
//	opts.HeaderLine = 0
//	r, _ := csv.NewReader(file, opts)
//	for {
//	    row, err := r.Read()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // handle error
//	    }
//	    city, _ := row.GetByName("city")
//	}
//
// # Example usage with Parse:
//
//	node, err := csv.Parse("name,age\nAlice,30\nBob,25")
//	if err != nil {
//	    // handle error
//	}
//	// node is now a *ast.ArrayDataNode of record arrays
package csv

import (
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-core/pkg/tokenizer"

	"github.com/shapestone/shape-dsv/internal/parser"
)

// Parse parses delimited text with the default options into an AST.
//
// Returns an ast.ArrayDataNode representing the file:
//   - *ast.ArrayDataNode for the file (array of records)
//   - Each record is an *ast.ArrayDataNode of fields
//   - Each field is an *ast.LiteralNode containing a string value
//
// Every node carries the position of its first character. Empty lines
// produce no record.
//
// Example:
//
//	node, err := csv.Parse("name,age\nAlice,30\nBob,25")
//	records := node.(*ast.ArrayDataNode).Elements()
//	// records[0] is the first line, "name,age"
func Parse(input string) (ast.SchemaNode, error) {
	return ParseWithOptions(input, DefaultReaderOptions())
}

// ParseWithOptions parses delimited text into an AST with custom options.
// When a header line is configured, the header is the first record.
//
// Example:
//
//	opts := csv.DefaultReaderOptions()
//	opts.Separator = '\t'
//	node, err := csv.ParseWithOptions("name\tage\nAlice\t30", opts)
func ParseWithOptions(input string, opts ReaderOptions) (ast.SchemaNode, error) {
	return parseSource(parser.NewStreamSource(tokenizer.NewStream(input)), opts)
}

// ParseReader parses delimited text from an io.Reader into an AST with the
// default options. The reader is consumed incrementally; a failing reader
// yields a *ReadError and no node.
//
// Example:
//
//	file, err := os.Open("data.csv")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//	node, err := csv.ParseReader(file)
func ParseReader(reader io.Reader) (ast.SchemaNode, error) {
	return ParseReaderWithOptions(reader, DefaultReaderOptions())
}

// ParseReaderWithOptions parses delimited text from an io.Reader into an AST
// with custom options.
func ParseReaderWithOptions(reader io.Reader, opts ReaderOptions) (ast.SchemaNode, error) {
	return parseSource(parser.NewRuneSource(reader), opts)
}

func parseSource(src io.RuneReader, opts ReaderOptions) (ast.SchemaNode, error) {
	m, err := opts.mapping()
	if err != nil {
		return nil, err
	}
	lr := parser.NewLineReader(m, opts.lineReaderOptions())

	records := make([]ast.SchemaNode, 0, 16)
	headerAdded := false
	for {
		line, err := lr.ReadLine(src)
		if err != nil {
			return nil, err
		}
		if !headerAdded && lr.Header() != nil {
			records = append(records, lineNode(lr.Header()))
			headerAdded = true
		}
		if line == nil {
			break
		}
		records = append(records, lineNode(line))
	}
	return ast.NewArrayDataNode(records, ast.ZeroPosition()), nil
}

// lineNode converts a line to a record node. Columns are counted from the
// start of the line.
func lineNode(line *parser.Line) ast.SchemaNode {
	offset := int(line.Offset())
	row := line.Number() + 1
	fields := make([]ast.SchemaNode, line.Len())
	for i, cell := range line.Cells() {
		start := line.CellStart(i)
		fields[i] = ast.NewLiteralNode(cell, ast.NewPosition(offset+start, row, start+1))
	}
	return ast.NewArrayDataNode(fields, ast.NewPosition(offset, row, 1))
}

// Format returns the format identifier for this parser.
func Format() string {
	return "CSV"
}

// Validate checks if the input string is valid delimited text under the
// default options.
//
//	if err := csv.Validate(input); err != nil {
//	    var pe *csv.ParseError
//	    if errors.As(err, &pe) {
//	        fmt.Println("bad line", pe.Line)
//	    }
//	}
func Validate(input string) error {
	return ValidateWithOptions(input, DefaultReaderOptions())
}

// ValidateWithOptions checks if the input string is valid with custom
// options. Rows are tokenized and discarded.
func ValidateWithOptions(input string, opts ReaderOptions) error {
	r, err := newReader(parser.NewStreamSource(tokenizer.NewStream(input)), opts)
	if err != nil {
		return err
	}
	return drain(r)
}

// ValidateReader checks if the input from an io.Reader is valid delimited
// text under the default options. The input is streamed, not buffered whole.
func ValidateReader(reader io.Reader) error {
	r, err := NewReader(reader, DefaultReaderOptions())
	if err != nil {
		return err
	}
	return drain(r)
}

func drain(r *Reader) error {
	for {
		_, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
