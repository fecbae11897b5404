// Command dsvcat reads delimited text in one dialect and writes it in
// another. It can also sniff the dialect of a file and validate it.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/urfave/cli/v2"

	"github.com/shapestone/shape-dsv/pkg/csv"
)

const sniffSize = 4096

func main() {
	var logger log.Logger
	beforeFn := func(c *cli.Context) error {
		logger = newLogger(c.Bool(globalVerbose))
		return nil
	}

	app := &cli.App{
		Name:      "dsvcat",
		Usage:     "Convert, sniff and validate delimited text",
		ArgsUsage: "[file]",
		Flags:     mergeFlags(globalFlags, readerFlags, writerFlags),
		Before:    beforeFn,
		Action: func(c *cli.Context) error {
			return convertAction(c, logger)
		},
		Commands: []*cli.Command{
			{
				Name:      "sniff",
				Usage:     "Print the detected dialect of the input",
				ArgsUsage: "[file]",
				Flags:     globalFlags,
				Before:    beforeFn,
				Action: func(c *cli.Context) error {
					return withInput(c, func(in io.Reader) error {
						return sniff(in, c.App.Writer)
					})
				},
			},
			{
				Name:      "validate",
				Usage:     "Parse the input and report the first error",
				ArgsUsage: "[file]",
				Flags:     mergeFlags(globalFlags, readerFlags),
				Before:    beforeFn,
				Action: func(c *cli.Context) error {
					ropts, err := readerOptions(c)
					if err != nil {
						return err
					}
					ropts.Logger = logger
					return withInput(c, func(in io.Reader) error {
						return validate(in, c.App.Writer, ropts)
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		if logger == nil {
			logger = newLogger(false)
		}
		level.Error(logger).Log("msg", "dsvcat failed", "err", err)
		os.Exit(1)
	}
}

// newLogger writes logfmt to stderr. Only errors pass unless verbose is set.
func newLogger(verbose bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowError())
}

// withInput opens the file named by the first argument, or stdin when there
// is none or it is "-".
func withInput(c *cli.Context, fn func(io.Reader) error) error {
	name := c.Args().First()
	if name == "" || name == "-" {
		return fn(os.Stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("cannot open input: %w", err)
	}
	defer f.Close()
	return fn(f)
}

func convertAction(c *cli.Context, logger log.Logger) error {
	ropts, err := readerOptions(c)
	if err != nil {
		return err
	}
	wopts, err := writerOptions(c)
	if err != nil {
		return err
	}
	ropts.Logger = logger
	dropHeader := c.Bool(outNoHeader)

	return withInput(c, func(in io.Reader) error {
		if c.Bool(inSniff) {
			var err error
			if ropts, in, err = sniffInput(in, ropts, logger); err != nil {
				return err
			}
		}
		out := bufio.NewWriter(c.App.Writer)
		if err := convert(in, out, ropts, wopts, dropHeader); err != nil {
			return err
		}
		return out.Flush()
	})
}

// sniffInput detects the dialect from the first bytes of in without
// consuming them. The start line of ropts is kept.
func sniffInput(in io.Reader, ropts csv.ReaderOptions, logger log.Logger) (csv.ReaderOptions, io.Reader, error) {
	br := bufio.NewReaderSize(in, sniffSize)
	sample, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return ropts, nil, fmt.Errorf("cannot read sample: %w", err)
	}
	sniffed := csv.NewSniffer(string(sample)).Options()
	sniffed.StartLine = ropts.StartLine
	sniffed.Logger = logger
	if ropts.StartLine > 0 && sniffed.HeaderLine == 0 {
		sniffed.HeaderLine = ropts.StartLine
	}
	level.Debug(logger).Log("msg", "sniffed dialect", "separator", string(sniffed.Separator), "header_line", sniffed.HeaderLine)
	return sniffed, br, nil
}

// convert copies rows from in to out. The header, when one is configured,
// is written first unless dropHeader is set.
func convert(in io.Reader, out io.Writer, ropts csv.ReaderOptions, wopts csv.WriterOptions, dropHeader bool) error {
	r, err := csv.NewReader(in, ropts)
	if err != nil {
		return err
	}
	w, err := csv.NewWriter(out, wopts)
	if err != nil {
		return err
	}

	headerDone := false
	writeHeader := func() error {
		headerDone = true
		if h := r.Header(); h != nil && !dropHeader {
			return w.WriteHeader(h.Names())
		}
		return nil
	}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if !headerDone {
			if err := writeHeader(); err != nil {
				return err
			}
		}
		if err := w.WriteRow(row.Cells()); err != nil {
			return err
		}
	}
	if !headerDone {
		if err := writeHeader(); err != nil {
			return err
		}
	}
	return w.Flush()
}

func sniff(in io.Reader, out io.Writer) error {
	sample := make([]byte, sniffSize)
	n, err := io.ReadFull(in, sample)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("cannot read sample: %w", err)
	}
	s := csv.NewSniffer(string(sample[:n]))
	fmt.Fprintf(out, "separator=%s eol=%s escape=%s header=%t\n",
		strconv.QuoteRune(s.DetectSeparator()), strconv.Quote(s.DetectEndOfLine()),
		strconv.QuoteRune(s.DetectEscape()), s.HasHeader())
	return nil
}

func validate(in io.Reader, out io.Writer, ropts csv.ReaderOptions) error {
	r, err := csv.NewReader(in, ropts)
	if err != nil {
		return err
	}
	rows := 0
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		rows++
	}
	fmt.Fprintf(out, "ok: %d rows\n", rows)
	return nil
}
