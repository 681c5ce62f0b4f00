package cli

import (
	"bytes"
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ykhdr/dictcrack/internal/digest"
)

func writeWordlist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(args []string, fixed digest.Algorithm) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), "dictcrack", args, &stdout, &stderr, fixed)
	return code, stdout.String(), stderr.String()
}

func hexSum(alg digest.Algorithm, s string) string {
	return hex.EncodeToString(alg.Sum([]byte(s)))
}

func TestRun(t *testing.T) {
	words := writeWordlist(t, "hello\n  world \npassword\n")

	tests := []struct {
		name   string
		args   []string
		fixed  digest.Algorithm
		code   int
		stdout string
		stderr string
	}{
		{
			name:   "found md5",
			args:   []string{"-a", "md5", words, hexSum(digest.MD5, "password")},
			stdout: "[+] Password found: password\n",
		},
		{
			name:   "found trimmed line and trimmed hash",
			args:   []string{"--algorithm=sha1", words, "  " + hexSum(digest.SHA1, "world") + "\n"},
			stdout: "[+] Password found: world\n",
		},
		{
			name:   "not found",
			args:   []string{words, hexSum(digest.MD5, "nomatch")},
			stdout: "[-] Hash not found.\n",
		},
		{
			name:   "parallel strategy",
			args:   []string{"-s", "parallel", "-w", "3", "--batch-size", "1", "-a", "sha256", words, hexSum(digest.SHA256, "hello")},
			stdout: "[+] Password found: hello\n",
		},
		{
			name:   "fixed algorithm",
			args:   []string{words, hexSum(digest.SHA1, "password")},
			fixed:  digest.SHA1,
			stdout: "[+] Password found: password\n",
		},
		{
			name:   "invalid hash",
			args:   []string{words, "abc"},
			code:   1,
			stderr: "[!] Hash not valid! Expected 32 hex characters for md5.\n",
		},
		{
			name:   "non hex hash",
			args:   []string{words, "zz" + hexSum(digest.MD5, "x")[2:]},
			code:   1,
			stderr: "[!] Hash not valid! Expected 32 hex characters for md5.\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(tt.args, tt.fixed)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.stdout, stdout)
			if tt.stderr != "" {
				assert.Contains(t, stderr, tt.stderr)
			}
		})
	}
}

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"only-one"}, {"a", "b", "c"}, {"-h"}} {
		code, stdout, _ := run(args, 0)
		assert.Equal(t, 0, code, "args %q", args)
		assert.Contains(t, stdout, "[i] Usage:")
		assert.Contains(t, stdout, "--algorithm")
	}
}

func TestRunFixedAlgorithmHidesFlag(t *testing.T) {
	code, stdout, _ := run(nil, digest.MD5)
	assert.Equal(t, 0, code)
	assert.NotContains(t, stdout, "--algorithm")

	code, stdout, stderr := run([]string{"-a", "sha1", "w", "h"}, digest.MD5)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "unknown shorthand flag")
	assert.Contains(t, stdout, "[i] Usage:")
}

func TestRunUnknownFlagIsUsage(t *testing.T) {
	words := writeWordlist(t, "password\n")
	for _, args := range [][]string{{"-x"}, {"--nope", words, hexSum(digest.MD5, "password")}} {
		code, stdout, stderr := run(args, digest.MD5)
		assert.Equal(t, 0, code, "args %q", args)
		assert.Contains(t, stdout, "[i] Usage:")
		assert.Contains(t, stderr, "[!]")
	}
}

func TestRunDashWordlistAfterTerminator(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "-list.txt"), []byte("hello\npassword\n"), 0o600))
	chdir(t, dir)

	code, stdout, _ := run([]string{"--", "-list.txt", hexSum(digest.MD5, "password")}, digest.MD5)
	assert.Equal(t, 0, code)
	assert.Equal(t, "[+] Password found: password\n", stdout)
}

func TestRunIgnoresDaemonConfigInWorkingDir(t *testing.T) {
	words := writeWordlist(t, "hello\nworld\npassword\n")
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(root, "config", "config.kdl"))
	chdir(t, root)

	code, stdout, stderr := run([]string{words, hexSum(digest.MD5, "password")}, 0)
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "[+] Password found: password\n", stdout)
}

func TestRunReadsOwnConfig(t *testing.T) {
	words := writeWordlist(t, "hello\nworld\npassword\n")
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "dictcrack.kdl"),
		[]byte("crack {\n    algorithm \"sha1\"\n}\n"), 0o600))
	chdir(t, dir)

	code, stdout, _ := run([]string{words, hexSum(digest.SHA1, "world")}, 0)
	assert.Equal(t, 0, code)
	assert.Equal(t, "[+] Password found: world\n", stdout)
}

func TestRunErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")
	code, stdout, stderr := run([]string{missing, hexSum(digest.MD5, "x")}, 0)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "unavailable")

	code, _, stderr = run([]string{"-a", "rot13", missing, "00"}, 0)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "rot13")

	badUTF8 := writeWordlist(t, "hello\n\xff\xfe\npassword\n")
	code, stdout, stderr = run([]string{badUTF8, hexSum(digest.MD5, "password")}, 0)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "aborted")

	code, _, _ = run([]string{"-c", missing, badUTF8, "00"}, 0)
	assert.Equal(t, 1, code)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
