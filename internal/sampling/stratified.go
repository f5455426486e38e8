package sampling

import (
	"context"
	"math/rand"
	"strings"

	"github.com/DNAi-inc/DNUDS/internal/format"
)

// StratifiedSampler buffers the whole input, grouped by the pipe-joined
// rendering of its key columns, and fills quotas per stratum across two
// passes before shuffling the result.
type StratifiedSampler struct {
	target     int
	keyColumns []string
	rng        *rand.Rand
}

func (s *StratifiedSampler) strataKey(row format.Row) string {
	parts := make([]string, len(s.keyColumns))
	for i, col := range s.keyColumns {
		v := row.Get(col)
		if v.IsNull() {
			parts[i] = "None"
		} else {
			parts[i] = v.String()
		}
	}
	return strings.Join(parts, "|")
}

func (s *StratifiedSampler) Sample(ctx context.Context, rows <-chan format.Row, errc <-chan error) ([]format.Row, error) {
	all, err := drain(ctx, rows, errc)
	if err != nil {
		return nil, err
	}
	if len(all) <= s.target {
		return all, nil
	}

	strata := make(map[string][]format.Row)
	var order []string
	for _, row := range all {
		key := s.strataKey(row)
		if _, ok := strata[key]; !ok {
			order = append(order, key)
		}
		strata[key] = append(strata[key], row)
	}

	numStrata := len(order)
	target := s.target

	minPerCategory := target / (2 * numStrata)
	if minPerCategory < 1 {
		minPerCategory = 1
	}
	halfStrata := numStrata / 2
	if halfStrata < 1 {
		halfStrata = 1
	}
	maxPerCategory := target / halfStrata
	if maxPerCategory < minPerCategory {
		maxPerCategory = minPerCategory
	}

	// remaining[key] tracks rows in a stratum not yet selected, by index
	// into strata[key]; sampledCount tracks how many have been taken.
	remaining := make(map[string][]int, numStrata)
	sampledCount := make(map[string]int, numStrata)
	for _, key := range order {
		idx := make([]int, len(strata[key]))
		for i := range idx {
			idx[i] = i
		}
		remaining[key] = idx
	}

	var result []format.Row

	takeRandom := func(key string, n int) {
		avail := remaining[key]
		if n > len(avail) {
			n = len(avail)
		}
		s.rng.Shuffle(len(avail), func(i, j int) { avail[i], avail[j] = avail[j], avail[i] })
		for i := 0; i < n; i++ {
			result = append(result, strata[key][avail[i]])
		}
		remaining[key] = avail[n:]
		sampledCount[key] += n
	}

	// First pass: a floor quota from each stratum.
	for _, key := range order {
		if len(result) >= target {
			break
		}
		want := minPerCategory
		if room := target - len(result); want > room {
			want = room
		}
		takeRandom(key, want)
	}

	// Second pass: distribute remaining target capacity proportional to
	// each stratum's leftover room, one row at a time, until the target
	// is met or no stratum has capacity.
	for len(result) < target {
		type candidate struct {
			key      string
			capacity int
		}
		var candidates []candidate
		totalCapacity := 0
		for _, key := range order {
			room := maxPerCategory - sampledCount[key]
			if room > len(remaining[key]) {
				room = len(remaining[key])
			}
			if room > 0 {
				candidates = append(candidates, candidate{key, room})
				totalCapacity += room
			}
		}
		if totalCapacity == 0 {
			break
		}
		pick := s.rng.Intn(totalCapacity)
		var chosen string
		for _, c := range candidates {
			if pick < c.capacity {
				chosen = c.key
				break
			}
			pick -= c.capacity
		}
		takeRandom(chosen, 1)
	}

	shuffle(s.rng, result)
	if len(result) > target {
		result = result[:target]
	}
	return result, nil
}
