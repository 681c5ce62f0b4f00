package strategy

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/ykhdr/dictcrack/internal/digest"
	"github.com/ykhdr/dictcrack/internal/wordlist"
)

type sequentialStrategy struct {
	l zerolog.Logger
}

func newSequentialStrategy(logger zerolog.Logger) *sequentialStrategy {
	return &sequentialStrategy{
		l: logger.
			With().
			Str("domain", "hashcrack").
			Str("type", "strategy").
			Str("strategy", sequentialStrategyName).
			Logger(),
	}
}

func (s *sequentialStrategy) Name() string {
	return sequentialStrategyName
}

func (s *sequentialStrategy) Crack(ctx context.Context, target digest.Target, src wordlist.Source) (Result, error) {
	rc, err := openSource(src)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = rc.Close() }()

	s.l.Debug().
		Str("algorithm", target.Algorithm().String()).
		Str("hash", target.String()).
		Str("wordlist", src.Name()).
		Msg("cracking hash")

	done := ctx.Done()
	d := target.Algorithm().Digester()
	sc := wordlist.NewScanner(rc)
	var attempts int64
	for sc.Scan() {
		select {
		case <-done:
			return Result{}, errors.Wrapf(ctx.Err(), "scan stopped at line %d", sc.Line())
		default:
		}
		attempts++
		if target.Matches(d.Sum([]byte(sc.Text()))) {
			s.l.Debug().Int("line", sc.Line()).Msg("found candidate")
			return Found(sc.Text(), attempts), nil
		}
	}
	if err := sc.Err(); err != nil {
		return Result{}, errors.Wrapf(err, "scan %s", src.Name())
	}
	return NotFound(attempts), nil
}
