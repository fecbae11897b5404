package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/go-kit/log"

	"github.com/shapestone/shape-dsv/pkg/csv"
)

func TestConvert(t *testing.T) {
	semicolon := csv.DefaultReaderOptions()
	semicolon.Separator = ';'
	semicolon.HeaderLine = 0

	tabs := csv.DefaultWriterOptions()
	tabs.Separator = '\t'
	tabs.EndOfLine = "\n"

	tests := []struct {
		name       string
		input      string
		ropts      csv.ReaderOptions
		wopts      csv.WriterOptions
		dropHeader bool
		want       string
	}{
		{
			name:  "semicolon to tab",
			input: "id;name\r\n1;\"Ada; Countess\"\r\n",
			ropts: semicolon,
			wopts: tabs,
			want:  "id\tname\n1\tAda; Countess\n",
		},
		{
			name:       "header dropped",
			input:      "id;name\r\n1;Ada\r\n",
			ropts:      semicolon,
			wopts:      tabs,
			dropHeader: true,
			want:       "1\tAda\n",
		},
		{
			name:  "header only",
			input: "id;name\r\n",
			ropts: semicolon,
			wopts: tabs,
			want:  "id\tname\n",
		},
		{
			name:  "no header",
			input: "a,\"b,c\"\n",
			ropts: csv.DefaultReaderOptions(),
			wopts: csv.DefaultWriterOptions(),
			want:  "a,\"b,c\"\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := convert(strings.NewReader(tt.input), &out, tt.ropts, tt.wopts, tt.dropHeader); err != nil {
				t.Fatalf("convert() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("convert() = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestConvert_ParseError(t *testing.T) {
	var out bytes.Buffer
	err := convert(strings.NewReader("a\n\"b"), &out, csv.DefaultReaderOptions(), csv.DefaultWriterOptions(), false)
	if !errors.Is(err, csv.ErrUnterminatedQuote) {
		t.Errorf("convert() error = %v, want ErrUnterminatedQuote", err)
	}
}

func TestSniff(t *testing.T) {
	var out bytes.Buffer
	if err := sniff(strings.NewReader("name|age\r\nAda|36\r\n"), &out); err != nil {
		t.Fatal(err)
	}
	want := "separator='|' eol=\"\\r\\n\" escape='\"' header=true\n"
	if out.String() != want {
		t.Errorf("sniff() = %q, want %q", out.String(), want)
	}
}

func TestSniffInput(t *testing.T) {
	ropts, in, err := sniffInput(strings.NewReader("id;name\nAda;x\n"), csv.DefaultReaderOptions(), log.NewNopLogger())
	if err != nil {
		t.Fatalf("sniffInput() error = %v", err)
	}
	if ropts.Separator != ';' || ropts.HeaderLine != 0 {
		t.Errorf("sniffInput() options separator=%q header=%d, want ';' and 0", ropts.Separator, ropts.HeaderLine)
	}
	rest, err := io.ReadAll(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(rest) != "id;name\nAda;x\n" {
		t.Errorf("sniffInput() consumed input, rest = %q", rest)
	}
}

func TestSniffInput_ReadError(t *testing.T) {
	errBoom := errors.New("boom")
	_, _, err := sniffInput(iotest.ErrReader(errBoom), csv.DefaultReaderOptions(), log.NewNopLogger())
	if !errors.Is(err, errBoom) {
		t.Fatalf("sniffInput() error = %v, want %v", err, errBoom)
	}
}

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	if err := validate(strings.NewReader("a\n\nb\n"), &out, csv.DefaultReaderOptions()); err != nil {
		t.Fatal(err)
	}
	if out.String() != "ok: 2 rows\n" {
		t.Errorf("validate() = %q", out.String())
	}
	if err := validate(strings.NewReader(`"a"b`), &out, csv.DefaultReaderOptions()); err == nil {
		t.Error("validate() should fail on malformed input")
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`\t`, "\t"},
		{`\r\n`, "\r\n"},
		{`\`, `\`},
		{`\\`, `\`},
		{`"`, `"`},
		{";", ";"},
		{`\q`, `\q`},
	}
	for _, tt := range tests {
		if got := unescape(tt.in); got != tt.want {
			t.Errorf("unescape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
