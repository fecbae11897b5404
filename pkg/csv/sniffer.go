package csv

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	candidateSeparators = []rune{',', '\t', ';', '|'}

	headerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`),       // snake_case or identifier
		regexp.MustCompile(`^[a-zA-Z]+[A-Z][a-zA-Z]*$`),      // camelCase
		regexp.MustCompile(`^[A-Z][a-z]+([ ][A-Z][a-z]+)*$`), // Title Case
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	}
)

// Sniffer guesses the dialect of a sample: separator, line end, escape style
// and whether the first line is a header. For best results provide at least
// a few lines.
type Sniffer struct {
	sample    string
	separator rune
	endOfLine string
	escape    rune
	hasHeader bool
	analyzed  bool
}

// NewSniffer creates a Sniffer for a sample of delimited text.
func NewSniffer(sample string) *Sniffer {
	return &Sniffer{sample: sample}
}

func (s *Sniffer) analyze() {
	if s.analyzed {
		return
	}
	s.endOfLine = s.detectEndOfLine()
	s.separator = s.detectSeparator()
	s.escape = s.detectEscape()
	s.hasHeader = s.detectHeader()
	s.analyzed = true
}

// DetectSeparator returns the most likely separator among comma, tab,
// semicolon and pipe. Separators that occur the same number of times on
// every line score higher.
func (s *Sniffer) DetectSeparator() rune {
	s.analyze()
	return s.separator
}

// DetectEndOfLine returns "\r\n" when the sample contains CR LF, "\r" when it
// only has bare CR and "\n" otherwise.
func (s *Sniffer) DetectEndOfLine() string {
	s.analyze()
	return s.endOfLine
}

// DetectEscape returns '\\' when the sample escapes quotes with a backslash
// and '"' otherwise.
func (s *Sniffer) DetectEscape() rune {
	s.analyze()
	return s.escape
}

// HasHeader reports whether the first line looks like column names.
func (s *Sniffer) HasHeader() bool {
	s.analyze()
	return s.hasHeader
}

// Options returns reader options for the detected dialect. HeaderLine is 0
// when a header was detected.
func (s *Sniffer) Options() ReaderOptions {
	s.analyze()
	opts := DefaultReaderOptions()
	opts.Separator = s.separator
	opts.EndOfLine = s.endOfLine
	opts.Escape = s.escape
	if s.separator == '\t' {
		opts.Space = 0
	}
	if s.hasHeader {
		opts.HeaderLine = 0
	}
	return opts
}

func (s *Sniffer) detectEndOfLine() string {
	switch {
	case strings.Contains(s.sample, "\r\n"):
		return "\r\n"
	case strings.Contains(s.sample, "\r"):
		return "\r"
	default:
		return "\n"
	}
}

// lines splits the sample on the detected line end and drops empty lines.
func (s *Sniffer) lines() []string {
	var out []string
	for _, line := range strings.Split(s.sample, s.endOfLine) {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (s *Sniffer) detectSeparator() rune {
	lines := s.lines()
	if len(lines) == 0 {
		return ','
	}

	best := ','
	bestScore := 0
	for _, sep := range candidateSeparators {
		first := countSeparator(lines[0], sep)
		if first == 0 {
			continue
		}
		score := first * 10
		for _, line := range lines[1:] {
			if countSeparator(line, sep) != first {
				score = first
				break
			}
		}
		if score > bestScore {
			best = sep
			bestScore = score
		}
	}
	return best
}

// countSeparator counts occurrences of sep outside quoted sections.
func countSeparator(line string, sep rune) int {
	count := 0
	inQuotes := false
	for _, ch := range line {
		if ch == '"' {
			inQuotes = !inQuotes
		} else if ch == sep && !inQuotes {
			count++
		}
	}
	return count
}

func (s *Sniffer) detectEscape() rune {
	if strings.Contains(s.sample, `\"`) && !strings.Contains(s.sample, `""`) {
		return '\\'
	}
	return '"'
}

// detectHeader compares the first line against the heuristics for names
// and data. Headers are usually identifiers, data is often numeric.
func (s *Sniffer) detectHeader() bool {
	lines := s.lines()
	if len(lines) < 2 {
		return false
	}

	headerScore := 0
	dataScore := 0
	for _, field := range splitBySeparator(lines[0], s.separator) {
		field = strings.TrimSpace(strings.Trim(field, `"`))
		if isLikelyHeader(field) {
			headerScore++
		}
		if isLikelyData(field) {
			dataScore++
		}
	}
	return headerScore > dataScore
}

func isLikelyHeader(s string) bool {
	if s == "" || isNumeric(s) {
		return false
	}
	for _, pattern := range headerPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

func isLikelyData(s string) bool {
	if s == "" {
		return false
	}
	if isNumeric(s) || strings.Contains(s, "@") {
		return true
	}
	for _, pattern := range datePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	hasDot := false
	for _, ch := range s {
		if ch == '.' {
			if hasDot {
				return false
			}
			hasDot = true
		} else if !unicode.IsDigit(ch) {
			return false
		}
	}
	return true
}

// splitBySeparator splits a line on sep, leaving quoted sections intact.
func splitBySeparator(line string, sep rune) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
			current.WriteRune(ch)
		case ch == sep && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return append(fields, current.String())
}
