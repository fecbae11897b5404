package csv_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shapestone/shape-dsv/pkg/csv"
)

func TestSniffer(t *testing.T) {
	tests := []struct {
		name       string
		sample     string
		wantSep    rune
		wantEOL    string
		wantEscape rune
		wantHeader bool
	}{
		{
			name:       "comma with header",
			sample:     "name,age,email\nAlice,30,alice@example.com\nBob,25,bob@example.com\n",
			wantSep:    ',',
			wantEOL:    "\n",
			wantEscape: '"',
			wantHeader: true,
		},
		{
			name:       "semicolon crlf",
			sample:     "1;2;3\r\n4;5;6\r\n",
			wantSep:    ';',
			wantEOL:    "\r\n",
			wantEscape: '"',
			wantHeader: false,
		},
		{
			name:       "tab separated",
			sample:     "first_name\tlast_name\nAda\tLovelace\n",
			wantSep:    '\t',
			wantEOL:    "\n",
			wantEscape: '"',
			wantHeader: true,
		},
		{
			name:       "pipe with backslash escapes",
			sample:     "1|\"say \\\"hi\\\" now\"\n2|c\n",
			wantSep:    '|',
			wantEOL:    "\n",
			wantEscape: '\\',
		},
		{
			name:       "empty sample",
			sample:     "",
			wantSep:    ',',
			wantEOL:    "\n",
			wantEscape: '"',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := csv.NewSniffer(tt.sample)
			if got := s.DetectSeparator(); got != tt.wantSep {
				t.Errorf("DetectSeparator() = %q, want %q", got, tt.wantSep)
			}
			if got := s.DetectEndOfLine(); got != tt.wantEOL {
				t.Errorf("DetectEndOfLine() = %q, want %q", got, tt.wantEOL)
			}
			if got := s.DetectEscape(); got != tt.wantEscape {
				t.Errorf("DetectEscape() = %q, want %q", got, tt.wantEscape)
			}
			if got := s.HasHeader(); got != tt.wantHeader {
				t.Errorf("HasHeader() = %v, want %v", got, tt.wantHeader)
			}
		})
	}
}

// TestSniffer_Options reads a sample with the options the sniffer detected.
func TestSniffer_Options(t *testing.T) {
	sample := "city;population\r\nLondon;8900000\r\nParis;2100000\r\n"
	opts := csv.NewSniffer(sample).Options()

	rows, err := csv.ReadAll(strings.NewReader(sample), opts)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]string{{"London", "8900000"}, {"Paris", "2100000"}}, cellsOf(rows)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if pop, err := rows[1].GetByName("population"); err != nil || pop != "2100000" {
		t.Errorf("GetByName(population) = %q, %v", pop, err)
	}
}
