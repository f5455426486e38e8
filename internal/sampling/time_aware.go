package sampling

import (
	"context"
	"math/rand"
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/DNAi-inc/DNUDS/internal/format"
)

// TimeAwareSampler buffers the whole input, sorts it by a derived
// timestamp, partitions it into early/middle/late thirds, and samples a
// quota from each third.
type TimeAwareSampler struct {
	target     int
	keyColumns []string
	rng        *rand.Rand
}

type timedRow struct {
	row format.Row
	ts  float64
}

// timestampOf derives a numeric timestamp for a row: the numeric value of
// its first key column if parseable, else a stable hash of its textual
// rendering, else the row's arrival index if no key column is configured.
func (s *TimeAwareSampler) timestampOf(row format.Row) float64 {
	if len(s.keyColumns) == 0 {
		return float64(row.Seq)
	}
	v := row.Get(s.keyColumns[0])
	if f, ok := v.Float64(); ok {
		return f
	}
	return float64(xxh3.HashString(v.String()))
}

func (s *TimeAwareSampler) Sample(ctx context.Context, rows <-chan format.Row, errc <-chan error) ([]format.Row, error) {
	all, err := drain(ctx, rows, errc)
	if err != nil {
		return nil, err
	}
	timed := make([]timedRow, len(all))
	for i, row := range all {
		timed[i] = timedRow{row: row, ts: s.timestampOf(row)}
	}
	sort.SliceStable(timed, func(i, j int) bool { return timed[i].ts < timed[j].ts })

	if len(all) <= s.target {
		ordered := make([]format.Row, len(timed))
		for i, tr := range timed {
			ordered[i] = tr.row
		}
		return ordered, nil
	}

	n := len(timed)
	early := timed[:n/3]
	middle := timed[n/3 : 2*n/3]
	late := timed[2*n/3:]
	segments := [][]timedRow{early, middle, late}

	base := s.target / 3
	leftover := s.target % 3
	quotas := [3]int{base, base, base}
	for i := 0; i < leftover; i++ {
		quotas[i]++
	}

	var result []format.Row
	for i, seg := range segments {
		quota := quotas[i]
		if quota > len(seg) {
			quota = len(seg)
		}
		idx := make([]int, len(seg))
		for j := range idx {
			idx[j] = j
		}
		s.rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		for j := 0; j < quota; j++ {
			result = append(result, seg[idx[j]].row)
		}
	}

	shuffle(s.rng, result)
	if len(result) > s.target {
		result = result[:s.target]
	}
	return result, nil
}
