package wordlist

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const readBufferSize = 64 * 1024

// Scanner yields trimmed candidates one line at a time. Unlike bufio.Scanner it
// has no line length limit.
type Scanner struct {
	r    *bufio.Reader
	line string
	n    int
	err  error
	done bool
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReaderSize(r, readBufferSize)}
}

// Scan advances to the next line. It returns false at the end of the input or on
// the first error, which Err then reports.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}
	raw, err := s.r.ReadString('\n')
	if err != nil && err != io.EOF {
		s.fail(errors.Wrapf(err, "read line %d", s.n+1))
		return false
	}
	if err == io.EOF {
		s.done = true
		if raw == "" {
			return false
		}
	}
	s.n++
	if !utf8.ValidString(raw) {
		s.fail(errors.WithStack(&EncodingError{Line: s.n}))
		return false
	}
	s.line = strings.TrimSpace(raw)
	return true
}

func (s *Scanner) fail(err error) {
	s.err = err
	s.done = true
	s.line = ""
}

// Text is the current candidate with surrounding whitespace removed.
func (s *Scanner) Text() string {
	return s.line
}

// Line is the 1-based number of the current line.
func (s *Scanner) Line() int {
	return s.n
}

func (s *Scanner) Err() error {
	return s.err
}
