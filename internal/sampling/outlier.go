package sampling

import (
	"context"
	"math/rand"

	"github.com/DNAi-inc/DNUDS/internal/format"
)

// OutlierAwareSampler tracks, for each checked column, the rows carrying
// the observed minimum and maximum value, and fills the remainder of the
// target from the rest of the input by uniform sampling.
type OutlierAwareSampler struct {
	target     int
	keyColumns []string
	rng        *rand.Rand
}

func (s *OutlierAwareSampler) Sample(ctx context.Context, rows <-chan format.Row, errc <-chan error) ([]format.Row, error) {
	all, err := drain(ctx, rows, errc)
	if err != nil {
		return nil, err
	}
	if len(all) <= s.target {
		return all, nil
	}

	columns := s.keyColumns
	if len(columns) == 0 && len(all) > 0 {
		columns = all[0].Fields
	}

	type extreme struct {
		minSeq, maxSeq     int
		minVal, maxVal     float64
		hasMin, hasMax     bool
	}
	tracked := make(map[string]*extreme, len(columns))
	for _, col := range columns {
		tracked[col] = &extreme{}
	}

	for _, row := range all {
		for _, col := range columns {
			f, ok := row.Get(col).Float64()
			if !ok {
				continue
			}
			ext := tracked[col]
			if !ext.hasMin || f < ext.minVal {
				ext.minVal, ext.minSeq, ext.hasMin = f, row.Seq, true
			}
			if !ext.hasMax || f > ext.maxVal {
				ext.maxVal, ext.maxSeq, ext.hasMax = f, row.Seq, true
			}
		}
	}

	outlierSeqs := make(map[int]bool)
	for _, ext := range tracked {
		if ext.hasMin {
			outlierSeqs[ext.minSeq] = true
		}
		if ext.hasMax {
			outlierSeqs[ext.maxSeq] = true
		}
	}

	var outliers, rest []format.Row
	for _, row := range all {
		if outlierSeqs[row.Seq] {
			outliers = append(outliers, row)
		} else {
			rest = append(rest, row)
		}
	}

	result := append([]format.Row{}, outliers...)
	remaining := s.target - len(result)
	if remaining > 0 {
		s.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		if remaining > len(rest) {
			remaining = len(rest)
		}
		result = append(result, rest[:remaining]...)
	}

	shuffle(s.rng, result)
	if len(result) > s.target {
		result = result[:s.target]
	}
	return result, nil
}
