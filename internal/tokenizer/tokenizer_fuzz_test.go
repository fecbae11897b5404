//go:build go1.18
// +build go1.18

package tokenizer

import (
	"testing"
)

// FuzzStateMachine feeds random input to the state machine to find panics
// and states it cannot leave.
// Run with: go test -fuzz=FuzzStateMachine -fuzztime=30s ./internal/tokenizer
func FuzzStateMachine(f *testing.F) {
	seeds := []string{
		"",
		"a",
		",",
		"\n",
		"\r\n",
		"\"",
		"\"\"",
		"a,b,c",
		"\"quoted\"",
		"\"with,comma\"",
		"\"with\"\"quote\"",
		"\"back\\\"slash\"",
		"a\nb\nc",
		"  padded , value ",
	}
	for _, s := range seeds {
		f.Add(s, false)
		f.Add(s, true)
	}

	f.Fuzz(func(t *testing.T, input string, backslash bool) {
		d := DefaultDialect()
		if backslash {
			d.Escape = '\\'
		}
		mapping, err := NewSymbolMapping(d)
		if err != nil {
			t.Fatal(err)
		}
		sm := NewStateMachine(mapping)
		for _, r := range input {
			if _, _, err := sm.OfferSymbol(r); err != nil {
				return
			}
			if sm.IsLineFinished() {
				sm.NewLine()
			}
		}
		if _, _, err := sm.OfferSymbol(EndOfStream); err != nil {
			return
		}
		if !sm.IsFinished() {
			t.Fatalf("not finished after end of stream in state %s", sm.State())
		}
	})
}
