package wordlist

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnavailable     = errors.New("wordlist unavailable")
	ErrInvalidEncoding = errors.New("wordlist line is not valid UTF-8")
	ErrOutsideDir      = errors.New("wordlist outside of wordlist directory")
)

// UnavailableError reports a wordlist that could not be opened.
type UnavailableError struct {
	Name string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("wordlist %s unavailable: %v", e.Name, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// EncodingError reports the first line that is not valid UTF-8.
type EncodingError struct {
	Line int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, ErrInvalidEncoding)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrInvalidEncoding
}
