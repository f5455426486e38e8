// Package sampling implements the five row-selection strategies behind a
// single Sampler contract: consume a row stream of unknown length, emit at
// most a configured number of rows.
package sampling

import (
	"context"
	"math/rand"

	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

// Strategy names one of the five sampling strategies.
type Strategy string

const (
	Random       Strategy = "random"
	Stratified   Strategy = "stratified"
	TimeAware    Strategy = "time_aware"
	OutlierAware Strategy = "outlier_aware"
	Composite    Strategy = "composite"
)

// Config parameterizes a sampler construction.
type Config struct {
	Strategy    Strategy
	TargetRows  int
	KeyColumns  []string
	Seed        *int64
}

// Sampler consumes a row stream and yields at most Config.TargetRows rows.
type Sampler interface {
	Sample(ctx context.Context, rows <-chan format.Row, errc <-chan error) ([]format.Row, error)
}

// New builds the sampler named by cfg.Strategy. Stratified without key
// columns fails immediately, matching the InvalidConfig contract: bad
// configuration is caught before any row is read.
func New(cfg Config) (Sampler, error) {
	if cfg.TargetRows < 1 {
		return nil, util.NewError(util.KindInvalidConfig, "target row count must be at least 1")
	}

	rng := newRNG(cfg.Seed)

	switch cfg.Strategy {
	case Random, "":
		return &RandomSampler{target: cfg.TargetRows, rng: rng}, nil
	case Stratified:
		if len(cfg.KeyColumns) == 0 {
			return nil, util.NewError(util.KindInvalidConfig, "stratified sampling requires at least one key column")
		}
		return &StratifiedSampler{target: cfg.TargetRows, keyColumns: cfg.KeyColumns, rng: rng}, nil
	case TimeAware:
		return &TimeAwareSampler{target: cfg.TargetRows, keyColumns: cfg.KeyColumns, rng: rng}, nil
	case OutlierAware:
		return &OutlierAwareSampler{target: cfg.TargetRows, keyColumns: cfg.KeyColumns, rng: rng}, nil
	case Composite:
		return defaultComposite(cfg.TargetRows, cfg.KeyColumns, rng), nil
	default:
		return nil, util.NewError(util.KindInvalidConfig, "unknown sampling strategy: "+string(cfg.Strategy))
	}
}

func newRNG(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(rand.Int63()))
}

// drain reads every remaining row from rows/errc, used when a sampler
// needs to fully materialize its input before sampling.
func drain(ctx context.Context, rows <-chan format.Row, errc <-chan error) ([]format.Row, error) {
	var all []format.Row
	for {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		case row, ok := <-rows:
			if !ok {
				return all, <-errc
			}
			all = append(all, row)
		}
	}
}

func shuffle(rng *rand.Rand, rows []format.Row) {
	rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
}
