package hashcrack

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/dictcrack/internal/digest"
	"github.com/ykhdr/dictcrack/internal/hashcrack/strategy"
	"github.com/ykhdr/dictcrack/internal/wordlist"
)

var (
	ErrInvalidDigestFormat = digest.ErrInvalidFormat
	ErrWordlistUnavailable = wordlist.ErrUnavailable
)

// Service validates crack requests and runs them through the configured strategy.
type Service struct {
	l             zerolog.Logger
	crackStrategy strategy.Strategy
}

func NewService(crackStrategy strategy.Strategy) *Service {
	return &Service{
		crackStrategy: crackStrategy,
		l: log.With().
			Str("domain", "hashcrack").
			Str("strategy", crackStrategy.Name()).
			Logger(),
	}
}

// Crack searches src for a line whose alg digest equals targetHex. The digest is
// validated before the wordlist is opened; a malformed digest fails with
// ErrInvalidDigestFormat and an unreadable wordlist with ErrWordlistUnavailable.
// Not finding a match is not an error.
func (s *Service) Crack(
	ctx context.Context, alg digest.Algorithm, targetHex string, src wordlist.Source,
) (strategy.Result, error) {
	target, err := digest.ParseTarget(alg, targetHex)
	if err != nil {
		s.l.Debug().Err(err).Str("algorithm", alg.String()).Msg("rejected digest")
		return strategy.Result{}, err
	}
	start := time.Now()
	res, err := s.crackStrategy.Crack(ctx, target, src)
	if err != nil {
		s.l.Warn().Err(err).Str("wordlist", src.Name()).Msg("crack failed")
		return strategy.Result{}, err
	}
	s.l.Info().
		Str("algorithm", alg.String()).
		Str("wordlist", src.Name()).
		Bool("found", res.Found()).
		Int64("attempts", res.Attempts()).
		Dur("elapsed", time.Since(start)).
		Msg("crack finished")
	return res, nil
}
