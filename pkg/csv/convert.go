package csv

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// NodeToRecords converts an AST node to string records.
//
// It accepts:
//   - *ast.ArrayDataNode of record arrays (a file) → one record per element
//   - *ast.ArrayDataNode of literals (a record) → a single record
//   - *ast.LiteralNode → a single record with one value
//
// Non-string literal values are formatted with %v; nil becomes "".
//
// Example:
//
//	node, _ := csv.Parse("name,age\nAlice,30\n")
//	records, _ := csv.NodeToRecords(node)
//	// records is [][]string{{"name","age"}, {"Alice","30"}}
func NodeToRecords(node ast.SchemaNode) ([][]string, error) {
	switch n := node.(type) {
	case *ast.LiteralNode:
		return [][]string{{literalString(n)}}, nil

	case *ast.ArrayDataNode:
		elements := n.Elements()
		if len(elements) == 0 {
			return [][]string{}, nil
		}
		if _, ok := elements[0].(*ast.LiteralNode); ok {
			record, err := recordOf(n)
			if err != nil {
				return nil, err
			}
			return [][]string{record}, nil
		}
		records := make([][]string, len(elements))
		for i, elem := range elements {
			arr, ok := elem.(*ast.ArrayDataNode)
			if !ok {
				return nil, fmt.Errorf("record %d: unexpected node type %T", i, elem)
			}
			record, err := recordOf(arr)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			records[i] = record
		}
		return records, nil

	default:
		return nil, fmt.Errorf("unsupported node type for CSV: %T", node)
	}
}

func recordOf(node *ast.ArrayDataNode) ([]string, error) {
	elements := node.Elements()
	fields := make([]string, len(elements))
	for i, elem := range elements {
		lit, ok := elem.(*ast.LiteralNode)
		if !ok {
			return nil, fmt.Errorf("field %d: unexpected node type %T", i, elem)
		}
		fields[i] = literalString(lit)
	}
	return fields, nil
}

func literalString(node *ast.LiteralNode) string {
	switch v := node.Value().(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// RecordsToNode converts string records to an AST node without positions.
//
// Example:
//
//	node := csv.RecordsToNode([][]string{
//	    {"name", "age"},
//	    {"Alice", "30"},
//	})
func RecordsToNode(records [][]string) ast.SchemaNode {
	nodes := make([]ast.SchemaNode, len(records))
	for i, record := range records {
		nodes[i] = recordNode(record)
	}
	return ast.NewArrayDataNode(nodes, ast.ZeroPosition())
}

// RowsToNode converts rows to an AST node. When the first row has a header,
// the header becomes the first record.
func RowsToNode(rows []Row) ast.SchemaNode {
	nodes := make([]ast.SchemaNode, 0, len(rows)+1)
	if len(rows) > 0 && rows[0].header != nil {
		nodes = append(nodes, recordNode(rows[0].header.names))
	}
	for _, row := range rows {
		nodes = append(nodes, recordNode(row.cells))
	}
	return ast.NewArrayDataNode(nodes, ast.ZeroPosition())
}

func recordNode(cells []string) ast.SchemaNode {
	fields := make([]ast.SchemaNode, len(cells))
	for i, cell := range cells {
		fields[i] = ast.NewLiteralNode(cell, ast.ZeroPosition())
	}
	return ast.NewArrayDataNode(fields, ast.ZeroPosition())
}
