package wordlist

import (
	"strings"
	"testing"
	"testing/iotest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, input string) ([]string, error) {
	t.Helper()
	s := NewScanner(strings.NewReader(input))
	var got []string
	for s.Scan() {
		got = append(got, s.Text())
	}
	return got, s.Err()
}

func TestScanner(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty input", "", nil},
		{"single line no newline", "secret", []string{"secret"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"blank lines are candidates", "a\n\nb", []string{"a", "", "b"}},
		{"lone newline", "\n", []string{""}},
		{"crlf", "one\r\ntwo\r\n", []string{"one", "two"}},
		{"whitespace trimmed", "  secret  \n\tpass word\t\n", []string{"secret", "pass word"}},
		{"unicode", "pässwörd\n密码\n", []string{"pässwörd", "密码"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scanAll(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScannerLongLine(t *testing.T) {
	long := strings.Repeat("x", 4*readBufferSize+17)
	got, err := scanAll(t, "short\n"+long+"\nlast")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, long, got[1])
	assert.Equal(t, "last", got[2])
}

func TestScannerInvalidEncoding(t *testing.T) {
	s := NewScanner(strings.NewReader("good\nbad\xff\xfe\nnever"))

	require.True(t, s.Scan())
	assert.Equal(t, "good", s.Text())
	assert.Equal(t, 1, s.Line())

	assert.False(t, s.Scan())
	assert.False(t, s.Scan(), "scanner stays stopped after an error")

	err := s.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEncoding))
	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, 2, encErr.Line)
}

func TestScannerReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	s := NewScanner(iotest.ErrReader(boom))

	assert.False(t, s.Scan())
	assert.True(t, errors.Is(s.Err(), boom))
}
