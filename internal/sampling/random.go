package sampling

import (
	"context"
	"math/rand"

	"github.com/DNAi-inc/DNUDS/internal/format"
)

// RandomSampler is a streaming Algorithm R reservoir sampler: it never
// buffers more than target rows regardless of input size.
type RandomSampler struct {
	target int
	rng    *rand.Rand
}

func (s *RandomSampler) Sample(ctx context.Context, rows <-chan format.Row, errc <-chan error) ([]format.Row, error) {
	reservoir := make([]format.Row, 0, s.target)
	i := 0
	for {
		select {
		case <-ctx.Done():
			return reservoir, ctx.Err()
		case row, ok := <-rows:
			if !ok {
				return reservoir, <-errc
			}
			if len(reservoir) < s.target {
				reservoir = append(reservoir, row)
			} else {
				j := s.rng.Intn(i + 1)
				if j < s.target {
					reservoir[j] = row
				}
			}
			i++
		}
	}
}
