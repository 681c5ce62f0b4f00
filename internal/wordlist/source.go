package wordlist

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/p7r0x7/vainpath"
	"github.com/pkg/errors"
)

// Source is a restartable sequence of wordlist lines. Every Open starts from the
// first line; the caller owns the returned reader until it is closed.
type Source interface {
	Open() (io.ReadCloser, error)
	Name() string
}

// File is a wordlist on disk. Paths ending in .gz or .zst are decompressed while
// reading.
type File string

func (f File) Name() string {
	return vainpath.Simplify(string(f))
}

func (f File) Open() (io.ReadCloser, error) {
	fd, err := os.Open(string(f))
	if err != nil {
		return nil, &UnavailableError{Name: f.Name(), Err: err}
	}
	var rc io.ReadCloser
	switch strings.ToLower(filepath.Ext(string(f))) {
	case ".gz":
		rc, err = newGzipReader(fd)
	case ".zst", ".zstd":
		rc, err = newZstdReader(fd)
	default:
		return fd, nil
	}
	if err != nil {
		_ = fd.Close()
		return nil, &UnavailableError{Name: f.Name(), Err: err}
	}
	return rc, nil
}

type stackedCloser struct {
	io.Reader
	closers []func() error
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func newGzipReader(fd *os.File) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(fd)
	if err != nil {
		return nil, errors.Wrap(err, "open gzip stream")
	}
	return &stackedCloser{Reader: zr, closers: []func() error{zr.Close, fd.Close}}, nil
}

func newZstdReader(fd *os.File) (io.ReadCloser, error) {
	zr, err := zstd.NewReader(fd, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, errors.Wrap(err, "open zstd stream")
	}
	return &stackedCloser{Reader: zr, closers: []func() error{
		func() error { zr.Close(); return nil },
		fd.Close,
	}}, nil
}

type lines struct {
	name string
	body string
}

// Lines is an in-memory wordlist holding the given lines, each newline terminated.
func Lines(ls ...string) Source {
	var sb strings.Builder
	for _, l := range ls {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return &lines{name: "memory", body: sb.String()}
}

func (l *lines) Name() string {
	return l.name
}

func (l *lines) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(l.body)), nil
}

// Resolve maps a wordlist name from an untrusted request onto a file inside dir.
func Resolve(dir, name string) (File, error) {
	if dir == "" {
		return "", errors.Wrap(ErrOutsideDir, "no wordlist directory configured")
	}
	if name == "" || filepath.IsAbs(name) {
		return "", errors.Wrapf(ErrOutsideDir, "%q", name)
	}
	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrOutsideDir, "%q", name)
	}
	return File(filepath.Join(dir, clean)), nil
}
