package strategy

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/ykhdr/dictcrack/internal/digest"
	"github.com/ykhdr/dictcrack/internal/wordlist"
)

// Result is the terminal outcome of one scan: either a found candidate or not found.
type Result struct {
	candidate string
	found     bool
	attempts  int64
}

func Found(candidate string, attempts int64) Result {
	return Result{candidate: candidate, found: true, attempts: attempts}
}

func NotFound(attempts int64) Result {
	return Result{attempts: attempts}
}

func (r Result) Found() bool {
	return r.found
}

// Candidate is the matching wordlist line, empty when nothing was found.
func (r Result) Candidate() string {
	return r.candidate
}

// Attempts is the number of candidates hashed before the scan ended.
func (r Result) Attempts() int64 {
	return r.attempts
}

func (r Result) String() string {
	if r.found {
		return fmt.Sprintf("found %q after %d attempts", r.candidate, r.attempts)
	}
	return fmt.Sprintf("not found after %d attempts", r.attempts)
}

type Strategy interface {
	Crack(ctx context.Context, target digest.Target, src wordlist.Source) (Result, error)
	Name() string
}

func openSource(src wordlist.Source) (io.ReadCloser, error) {
	rc, err := src.Open()
	if err == nil {
		return rc, nil
	}
	if errors.Is(err, wordlist.ErrUnavailable) {
		return nil, err
	}
	return nil, &wordlist.UnavailableError{Name: src.Name(), Err: err}
}
