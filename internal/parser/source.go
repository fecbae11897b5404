package parser

import (
	"bufio"
	"io"
	"unicode/utf8"

	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewRuneSource returns r as an io.RuneReader, buffering it when it does not
// read runes itself. Read errors other than io.EOF are reported unchanged.
func NewRuneSource(r io.Reader) io.RuneReader {
	if rr, ok := r.(io.RuneReader); ok {
		return rr
	}
	return bufio.NewReader(r)
}

// NewStreamSource reads runes from a shape-core character stream. The stream
// has no error channel, so exhaustion is the only way it ends.
func NewStreamSource(stream shapetokenizer.Stream) io.RuneReader {
	return &streamSource{stream: stream}
}

type streamSource struct {
	stream shapetokenizer.Stream
}

func (s *streamSource) ReadRune() (rune, int, error) {
	r, ok := s.stream.PeekChar()
	if !ok {
		return 0, 0, io.EOF
	}
	s.stream.NextChar()
	return r, utf8.RuneLen(r), nil
}
