package strategy

import (
	"context"
	"io"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/cpu"
	"github.com/ykhdr/dictcrack/internal/digest"
	"github.com/ykhdr/dictcrack/internal/wordlist"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize = 1024
	noMatch          = int64(math.MaxInt64)
)

type batch struct {
	start int64
	lines []string
}

// bestMatch keeps the match with the lowest line index seen so far.
type bestMatch struct {
	idx       atomic.Int64
	m         sync.Mutex
	candidate string
}

func newBestMatch() *bestMatch {
	b := &bestMatch{}
	b.idx.Store(noMatch)
	return b
}

func (b *bestMatch) index() int64 {
	return b.idx.Load()
}

func (b *bestMatch) offer(idx int64, candidate string) {
	b.m.Lock()
	defer b.m.Unlock()
	if idx < b.idx.Load() {
		b.candidate = candidate
		b.idx.Store(idx)
	}
}

func (b *bestMatch) get() (string, bool) {
	b.m.Lock()
	defer b.m.Unlock()
	return b.candidate, b.idx.Load() != noMatch
}

type parallelStrategy struct {
	l         zerolog.Logger
	workers   int
	batchSize int
}

func newParallelStrategy(logger zerolog.Logger, workers, batchSize int) *parallelStrategy {
	if workers <= 0 {
		workers = defaultWorkers()
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &parallelStrategy{
		workers:   workers,
		batchSize: batchSize,
		l: logger.
			With().
			Str("domain", "hashcrack").
			Str("type", "strategy").
			Str("strategy", parallelStrategyName).
			Int("workers", workers).
			Logger(),
	}
}

func defaultWorkers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

func (s *parallelStrategy) Name() string {
	return parallelStrategyName
}

// Crack hashes batches of lines on several workers and returns the match with the
// lowest line number, so the outcome is the same as a sequential scan. A read error
// stops the reader at once; batches already handed out are still checked because a
// match before the failing line wins over the error.
func (s *parallelStrategy) Crack(ctx context.Context, target digest.Target, src wordlist.Source) (Result, error) {
	rc, err := openSource(src)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = rc.Close() }()

	s.l.Debug().
		Str("algorithm", target.Algorithm().String()).
		Str("hash", target.String()).
		Str("wordlist", src.Name()).
		Int("batch-size", s.batchSize).
		Msg("cracking hash")

	var (
		best     = newBestMatch()
		batches  = make(chan batch, s.workers)
		attempts atomic.Int64
		readErr  error
		group    errgroup.Group
	)
	group.Go(func() error {
		defer close(batches)
		readErr = s.read(ctx, rc, batches, best)
		return nil
	})
	for i := 0; i < s.workers; i++ {
		group.Go(func() error {
			s.work(ctx, target, batches, best, &attempts)
			return nil
		})
	}
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, errors.Wrap(err, "scan stopped")
	}
	if candidate, ok := best.get(); ok {
		s.l.Debug().Int64("line", best.index()+1).Msg("found candidate")
		return Found(candidate, attempts.Load()), nil
	}
	if readErr != nil {
		return Result{}, errors.Wrapf(readErr, "scan %s", src.Name())
	}
	return NotFound(attempts.Load()), nil
}

func (s *parallelStrategy) read(ctx context.Context, r io.Reader, out chan<- batch, best *bestMatch) error {
	sc := wordlist.NewScanner(r)
	next := batch{lines: make([]string, 0, s.batchSize)}
	send := func() bool {
		select {
		case out <- next:
		case <-ctx.Done():
			return false
		}
		next = batch{start: next.start + int64(len(next.lines)), lines: make([]string, 0, s.batchSize)}
		return true
	}
	for sc.Scan() {
		if best.index() != noMatch {
			return nil
		}
		next.lines = append(next.lines, sc.Text())
		if len(next.lines) == s.batchSize && !send() {
			return ctx.Err()
		}
	}
	if len(next.lines) > 0 && !send() {
		return ctx.Err()
	}
	return sc.Err()
}

func (s *parallelStrategy) work(
	ctx context.Context, target digest.Target, in <-chan batch, best *bestMatch, attempts *atomic.Int64,
) {
	d := target.Algorithm().Digester()
	for b := range in {
		if ctx.Err() != nil || b.start > best.index() {
			continue
		}
		for i, line := range b.lines {
			idx := b.start + int64(i)
			if idx > best.index() {
				break
			}
			attempts.Add(1)
			if target.Matches(d.Sum([]byte(line))) {
				best.offer(idx, line)
				break
			}
		}
	}
}
