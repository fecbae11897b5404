package csv

import (
	"bytes"

	"github.com/shapestone/shape-core/pkg/ast"
)

// Render converts an AST node to delimited text with the default writer
// options.
//
// The node should be the result of Parse or ParseReader, or a single record
// node. Rendering handles:
//   - Quoting of values containing separators, quotes or line ends
//   - Escaping of quotes (doubled by default)
//   - Preservation of empty values
//   - CR LF line ends
//
// Example:
//
//	node, _ := csv.Parse("name,age\nAlice,30\n")
//	out, _ := csv.Render(node)
//	// out: "name,age\r\nAlice,30\r\n"
func Render(node ast.SchemaNode) ([]byte, error) {
	return RenderWithOptions(node, DefaultWriterOptions())
}

// RenderWithOptions converts an AST node to delimited text with custom
// options.
//
// Example:
//
//	opts := csv.DefaultWriterOptions()
//	opts.Separator = '\t'
//	opts.EndOfLine = "\n"
//	out, err := csv.RenderWithOptions(node, opts)
func RenderWithOptions(node ast.SchemaNode, opts WriterOptions) ([]byte, error) {
	if node == nil {
		return []byte{}, nil
	}
	records, err := NodeToRecords(node)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf, opts)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && opts.UseHeader {
		if err := w.WriteHeader(records[0]); err != nil {
			return nil, err
		}
		records = records[1:]
	}
	if err := w.WriteRows(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
