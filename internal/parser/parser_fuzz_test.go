//go:build go1.18
// +build go1.18

package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/shapestone/shape-dsv/internal/tokenizer"
)

// FuzzLineReader checks that the line reader never panics, that it fails only
// with a ParseError, and that a line's raw text contains the cells it was
// tokenized into when no quoting is involved.
// Run with: go test -fuzz=FuzzLineReader -fuzztime=30s ./internal/parser
func FuzzLineReader(f *testing.F) {
	seeds := []string{
		"",
		"a",
		"a,b,c\r\n",
		"a,b\nc,d",
		"\"quoted\"",
		"\"with,comma\"",
		"\"with\"\"quote\"",
		"\"multi\r\nline\"",
		"\r\n\r\n",
		",,",
		"\"\"\"\"",
		"\"a\" \"",
		"  a  ,  b  ",
	}
	for _, s := range seeds {
		f.Add(s, 0, -1)
		f.Add(s, 1, 1)
	}

	f.Fuzz(func(t *testing.T, input string, startLine, headerLine int) {
		if startLine < 0 || startLine > 4 || headerLine < NoHeader || headerLine > 4 {
			t.Skip()
		}
		mapping, err := tokenizer.NewSymbolMapping(tokenizer.DefaultDialect())
		if err != nil {
			t.Fatal(err)
		}
		lr := NewLineReader(mapping, Options{StartLine: startLine, HeaderLine: headerLine})
		lines, err := lr.ReadAll(NewRuneSource(strings.NewReader(input)))
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			return
		}
		for _, l := range lines {
			if l.Len() == 0 {
				t.Fatalf("empty line returned for input %q", input)
			}
			if l.Number() < startLine {
				t.Fatalf("line %d returned before start line %d", l.Number(), startLine)
			}
			if strings.ContainsRune(l.Raw(), '"') {
				continue
			}
			for _, c := range l.Cells() {
				if !strings.Contains(l.Raw(), c) {
					t.Fatalf("cell %q not in raw line %q", c, l.Raw())
				}
			}
		}
	})
}
