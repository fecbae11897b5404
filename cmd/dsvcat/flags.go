package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/shapestone/shape-dsv/pkg/csv"
)

const (
	globalVerbose = "verbose"
)

var (
	globalFlags = []cli.Flag{
		&cli.BoolFlag{
			Name:  globalVerbose,
			Value: false,
			Usage: "Whether to log the dialect configuration and debug details to stderr.",
		},
	}
)

const (
	inSeparator  = "in-separator"
	inQuote      = "in-quote"
	inEscape     = "in-escape"
	inEndOfLine  = "in-eol"
	inSpace      = "in-space"
	inStartLine  = "start-line"
	inHeaderLine = "header-line"
	inSniff      = "sniff"
)

var (
	readerFlags = []cli.Flag{
		&cli.StringFlag{
			Name:  inSeparator,
			Value: ",",
			Usage: "Cell separator of the input. Escape sequences such as \\t are accepted.",
		},
		&cli.StringFlag{
			Name:  inQuote,
			Value: `"`,
			Usage: "Quote character of the input.",
		},
		&cli.StringFlag{
			Name:  inEscape,
			Value: `"`,
			Usage: "Escape character of the input. Equal to the quote for doubled-quote escaping.",
		},
		&cli.StringFlag{
			Name:  inEndOfLine,
			Value: `\r\n`,
			Usage: "One or two line end characters of the input. Each ends a line on its own.",
		},
		&cli.StringFlag{
			Name:  inSpace,
			Value: " ",
			Usage: "Character trimmed before values. Empty keeps all whitespace.",
		},
		&cli.IntFlag{
			Name:  inStartLine,
			Value: 0,
			Usage: "Zero-based line where parsing starts. Earlier lines are skipped unparsed.",
		},
		&cli.IntFlag{
			Name:  inHeaderLine,
			Value: csv.NoHeader,
			Usage: "Zero-based line holding column names, or -1 for none.",
		},
		&cli.BoolFlag{
			Name:  inSniff,
			Value: false,
			Usage: "Detect separator, line end, escape and header from the first 4KiB of input. Overrides the dialect flags.",
		},
	}
)

const (
	outSeparator   = "out-separator"
	outQuote       = "out-quote"
	outEscape      = "out-escape"
	outEndOfLine   = "out-eol"
	outAlwaysQuote = "always-quote"
	outNoHeader    = "drop-header"
)

var (
	writerFlags = []cli.Flag{
		&cli.StringFlag{
			Name:  outSeparator,
			Value: ",",
			Usage: "Cell separator of the output.",
		},
		&cli.StringFlag{
			Name:  outQuote,
			Value: `"`,
			Usage: "Quote character of the output.",
		},
		&cli.StringFlag{
			Name:  outEscape,
			Value: `"`,
			Usage: "Character written before quotes inside quoted output values.",
		},
		&cli.StringFlag{
			Name:  outEndOfLine,
			Value: `\n`,
			Usage: "Line end of the output.",
		},
		&cli.BoolFlag{
			Name:  outAlwaysQuote,
			Value: false,
			Usage: "Whether to quote every output value.",
		},
		&cli.BoolFlag{
			Name:  outNoHeader,
			Value: false,
			Usage: "Whether to leave the header line out of the output.",
		},
	}
)

func mergeFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}

// unescape interprets Go escape sequences such as \t and \r\n in a flag
// value. A lone backslash and values that do not parse are taken literally.
func unescape(s string) string {
	if s == `\` || !strings.Contains(s, `\`) {
		return s
	}
	if u, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`); err == nil {
		return u
	}
	return s
}

// runeFlag returns the single character of a flag value. An empty value
// yields 0 when allowEmpty is set.
func runeFlag(c *cli.Context, name string, allowEmpty bool) (rune, error) {
	s := unescape(c.String(name))
	if s == "" && allowEmpty {
		return 0, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("--%s: want exactly one character, got %q", name, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func readerOptions(c *cli.Context) (csv.ReaderOptions, error) {
	opts := csv.DefaultReaderOptions()
	var err error
	if opts.Separator, err = runeFlag(c, inSeparator, false); err != nil {
		return opts, err
	}
	if opts.Quote, err = runeFlag(c, inQuote, false); err != nil {
		return opts, err
	}
	if opts.Escape, err = runeFlag(c, inEscape, false); err != nil {
		return opts, err
	}
	if opts.Space, err = runeFlag(c, inSpace, true); err != nil {
		return opts, err
	}
	opts.EndOfLine = unescape(c.String(inEndOfLine))
	opts.StartLine = c.Int(inStartLine)
	opts.HeaderLine = c.Int(inHeaderLine)
	return opts, opts.Validate()
}

func writerOptions(c *cli.Context) (csv.WriterOptions, error) {
	opts := csv.DefaultWriterOptions()
	var err error
	if opts.Separator, err = runeFlag(c, outSeparator, false); err != nil {
		return opts, err
	}
	if opts.Quote, err = runeFlag(c, outQuote, false); err != nil {
		return opts, err
	}
	if opts.Escape, err = runeFlag(c, outEscape, false); err != nil {
		return opts, err
	}
	opts.EndOfLine = unescape(c.String(outEndOfLine))
	opts.AlwaysQuote = c.Bool(outAlwaysQuote)
	return opts, opts.Validate()
}
