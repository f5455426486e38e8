package sampling

import (
	"context"
	"math/rand"

	"github.com/DNAi-inc/DNUDS/internal/format"
)

// CompositeSampler threads a row stream through an ordered chain of
// sub-samplers, each further thinning the previous one's output.
type CompositeSampler struct {
	target int
	chain  []Sampler
}

// defaultComposite builds the standard chain: outlier-aware, then
// time-aware, then random — each preserves what matters most to sample
// before the next stage thins further.
func defaultComposite(target int, keyColumns []string, rng *rand.Rand) *CompositeSampler {
	return &CompositeSampler{
		target: target,
		chain: []Sampler{
			&OutlierAwareSampler{target: target, keyColumns: keyColumns, rng: rng},
			&TimeAwareSampler{target: target, keyColumns: keyColumns, rng: rng},
			&RandomSampler{target: target, rng: rng},
		},
	}
}

func (s *CompositeSampler) Sample(ctx context.Context, rows <-chan format.Row, errc <-chan error) ([]format.Row, error) {
	current := rows
	currentErr := errc
	var lastRows []format.Row

	for i, sub := range s.chain {
		out, err := sub.Sample(ctx, current, currentErr)
		if err != nil {
			return nil, err
		}
		lastRows = out
		if i == len(s.chain)-1 {
			break
		}
		current, currentErr = rowsToChannel(out)
	}
	return lastRows, nil
}

func rowsToChannel(rows []format.Row) (<-chan format.Row, <-chan error) {
	rowc := make(chan format.Row, len(rows))
	errc := make(chan error, 1)
	for _, r := range rows {
		rowc <- r
	}
	close(rowc)
	errc <- nil
	return rowc, errc
}
