package digest

import (
	"bytes"
	"encoding/hex"

	"github.com/pkg/errors"
)

var ErrInvalidFormat = errors.New("invalid digest format")

// Target is a decoded digest to search for.
type Target struct {
	alg Algorithm
	sum []byte
}

// ParseTarget decodes a hex digest for alg. The length is checked before decoding
// so that a short or long string is rejected without further work.
func ParseTarget(alg Algorithm, hexDigest string) (Target, error) {
	if !alg.Valid() {
		return Target{}, errors.Wrapf(ErrUnknownAlgorithm, "algorithm %d", int(alg))
	}
	if len(hexDigest) != alg.HexLen() {
		return Target{}, errors.Wrapf(ErrInvalidFormat, "%s digest must be %d hex characters, got %d",
			alg, alg.HexLen(), len(hexDigest))
	}
	sum, err := hex.DecodeString(hexDigest)
	if err != nil {
		return Target{}, errors.Wrapf(ErrInvalidFormat, "%s digest is not hex: %v", alg, err)
	}
	return Target{alg: alg, sum: sum}, nil
}

func (t Target) Algorithm() Algorithm {
	return t.alg
}

// Bytes returns a copy of the raw digest.
func (t Target) Bytes() []byte {
	return bytes.Clone(t.sum)
}

// Matches reports whether sum equals the target digest.
func (t Target) Matches(sum []byte) bool {
	return bytes.Equal(t.sum, sum)
}

func (t Target) String() string {
	return hex.EncodeToString(t.sum)
}
