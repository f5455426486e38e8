// Package stats accumulates per-column statistics over a stream of sampled
// rows for the manifest.
package stats

import (
	"sort"

	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/typeinfer"
)

// collectionTopK is the size Finish trims the value-frequency map to (the
// map itself grows without bound while values are observed); manifestTopK
// is how many entries TopK reports.
const (
	collectionTopK = 50
	manifestTopK   = 10
)

// ValueCount is a single value-frequency pair, in the ("text", count)
// shape the manifest serializes.
type ValueCount struct {
	Value string
	Count int
}

// Column accumulates statistics for a single column as values stream past.
type Column struct {
	Total  int
	Nulls  int
	Unique int

	HasNumeric bool
	Min        float64
	Max        float64

	Type typeinfer.Type

	counts     map[string]int
	firstSeen  map[string]int
	order      int
	samples    []format.Value
}

// NewColumn returns a fresh, empty accumulator.
func NewColumn() *Column {
	return &Column{counts: make(map[string]int), firstSeen: make(map[string]int)}
}

// Observe folds a single value into the accumulator.
func (c *Column) Observe(v format.Value) {
	c.Total++
	if v.IsNull() {
		c.Nulls++
		return
	}

	c.samples = append(c.samples, v)

	if f, ok := v.Float64(); ok {
		if !c.HasNumeric {
			c.Min, c.Max = f, f
			c.HasNumeric = true
		} else {
			if f < c.Min {
				c.Min = f
			}
			if f > c.Max {
				c.Max = f
			}
		}
	}

	text := v.String()
	if _, seen := c.firstSeen[text]; !seen {
		c.firstSeen[text] = c.order
		c.order++
	}
	c.counts[text]++
}

// TopK returns the manifestTopK most frequent values, most frequent first,
// ties broken by first-observed order.
func (c *Column) TopK() []ValueCount {
	return topK(c.counts, c.firstSeen, manifestTopK)
}

// Finish computes the inferred type and unique count, trimming the
// internal frequency map to collectionTopK entries. Call once, after all
// Observe calls for the column.
func (c *Column) Finish() {
	c.Type = typeinfer.Column(c.samples)
	c.Unique = len(c.counts)
	if len(c.counts) > collectionTopK {
		kept := topK(c.counts, c.firstSeen, collectionTopK)
		trimmed := make(map[string]int, len(kept))
		keptSeen := make(map[string]int, len(kept))
		for _, vc := range kept {
			trimmed[vc.Value] = vc.Count
			keptSeen[vc.Value] = c.firstSeen[vc.Value]
		}
		c.counts = trimmed
		c.firstSeen = keptSeen
	}
	c.samples = nil
}

// topK sorts by count descending, ties broken by ascending first-observed
// order (firstSeen), so output order never depends on map iteration order.
func topK(counts map[string]int, firstSeen map[string]int, k int) []ValueCount {
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Value] < firstSeen[out[j].Value]
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// Collector accumulates Column statistics across a set of named columns.
type Collector struct {
	columns map[string]*Column
	order   []string
}

// NewCollector returns a collector for the given column list, in order.
func NewCollector(columns []string) *Collector {
	c := &Collector{columns: make(map[string]*Column, len(columns)), order: columns}
	for _, name := range columns {
		c.columns[name] = NewColumn()
	}
	return c
}

// Observe folds one row into every tracked column's accumulator.
func (c *Collector) Observe(row format.Row) {
	for _, name := range c.order {
		c.columns[name].Observe(row.Get(name))
	}
}

// Finish finalizes every column and returns them in column-list order.
func (c *Collector) Finish() []ColumnResult {
	results := make([]ColumnResult, 0, len(c.order))
	for _, name := range c.order {
		col := c.columns[name]
		col.Finish()
		results = append(results, ColumnResult{Name: name, Column: col})
	}
	return results
}

// ColumnResult pairs a column name with its finalized statistics.
type ColumnResult struct {
	Name string
	*Column
}
