package strategy

import log "github.com/rs/zerolog/log"

type Type int

const (
	SequentialStrategyType Type = iota
	ParallelStrategyType
)

const (
	sequentialStrategyName = "sequential"
	parallelStrategyName   = "parallel"
)

// Options tune the parallel strategy; zero values pick defaults.
type Options struct {
	Workers   int
	BatchSize int
}

func NewStrategy(strategyType Type, opts Options) Strategy {
	switch strategyType {
	case ParallelStrategyType:
		return newParallelStrategy(log.Logger, opts.Workers, opts.BatchSize)
	default:
		return newSequentialStrategy(log.Logger)
	}
}

func ParseStrategyName(name string) Type {
	switch name {
	case parallelStrategyName:
		return ParallelStrategyType
	default:
		return SequentialStrategyType
	}
}

func DefaultStrategyStr() string {
	return sequentialStrategyName
}
