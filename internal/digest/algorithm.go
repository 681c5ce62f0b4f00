package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha512"
	"hash"
	"sort"
	"strings"

	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Algorithm is one of the supported keyless digest functions. The zero value is
// not a valid algorithm.
type Algorithm int

const (
	MD5 Algorithm = iota + 1
	SHA1
	SHA256
	SHA512
	SHA3
	BLAKE2b
	BLAKE3
	XXH3
)

var ErrUnknownAlgorithm = errors.New("unknown digest algorithm")

type algorithmInfo struct {
	name string
	size int
	new  func() hash.Hash
}

var algorithms = map[Algorithm]algorithmInfo{
	MD5:     {name: "md5", size: md5.Size, new: md5.New},
	SHA1:    {name: "sha1", size: sha1.Size, new: sha1.New},
	SHA256:  {name: "sha256", size: sha256.Size, new: sha256.New},
	SHA512:  {name: "sha512", size: sha512.Size, new: sha512.New},
	SHA3:    {name: "sha3-256", size: 32, new: sha3.New256},
	BLAKE2b: {name: "blake2b-256", size: blake2b.Size256, new: newBlake2b256},
	BLAKE3:  {name: "blake3", size: 32, new: func() hash.Hash { return blake3.New() }},
	XXH3:    {name: "xxh3", size: 8, new: func() hash.Hash { return xxh3.New() }},
}

func newBlake2b256() hash.Hash {
	// only fails for keys longer than 64 bytes
	h, _ := blake2b.New256(nil)
	return h
}

// ParseAlgorithm maps a case-insensitive algorithm name to its Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for alg, info := range algorithms {
		if info.name == name {
			return alg, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownAlgorithm, "%q (supported: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the supported algorithm names in declaration order.
func Names() []string {
	algs := make([]Algorithm, 0, len(algorithms))
	for alg := range algorithms {
		algs = append(algs, alg)
	}
	sort.Slice(algs, func(i, j int) bool { return algs[i] < algs[j] })
	names := make([]string, len(algs))
	for i, alg := range algs {
		names[i] = alg.String()
	}
	return names
}

func (a Algorithm) Valid() bool {
	_, ok := algorithms[a]
	return ok
}

func (a Algorithm) String() string {
	if info, ok := algorithms[a]; ok {
		return info.name
	}
	return "unknown"
}

// Size is the digest length in bytes.
func (a Algorithm) Size() int {
	return algorithms[a].size
}

// HexLen is the length of the digest rendered as hex.
func (a Algorithm) HexLen() int {
	return 2 * a.Size()
}

// Sum returns the digest of p. Use a Digester in hot loops.
func (a Algorithm) Sum(p []byte) []byte {
	return a.Digester().Sum(p)
}

func (a Algorithm) Digester() *Digester {
	info, ok := algorithms[a]
	if !ok {
		panic("digest: digester requested for invalid algorithm " + a.String())
	}
	return &Digester{h: info.new(), buf: make([]byte, 0, info.size)}
}

// Digester hashes one input at a time, reusing its state and output buffer. It is
// not safe for concurrent use.
type Digester struct {
	h   hash.Hash
	buf []byte
}

// Sum returns the digest of p. The slice is only valid until the next call.
func (d *Digester) Sum(p []byte) []byte {
	d.h.Reset()
	_, _ = d.h.Write(p)
	d.buf = d.h.Sum(d.buf[:0])
	return d.buf
}
