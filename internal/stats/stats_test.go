package stats

import (
	"testing"

	"github.com/DNAi-inc/DNUDS/internal/format"
)

func TestColumnObserve(t *testing.T) {
	c := NewColumn()
	c.Observe(format.Text("10"))
	c.Observe(format.Text("20"))
	c.Observe(format.Null)
	c.Observe(format.Text("10"))
	c.Finish()

	if c.Total != 4 {
		t.Errorf("Total = %d, want 4", c.Total)
	}
	if c.Nulls != 1 {
		t.Errorf("Nulls = %d, want 1", c.Nulls)
	}
	if c.Unique != 2 {
		t.Errorf("Unique = %d, want 2", c.Unique)
	}
	if !c.HasNumeric || c.Min != 10 || c.Max != 20 {
		t.Errorf("Min/Max = %v/%v, want 10/20", c.Min, c.Max)
	}
	top := c.TopK()
	if len(top) == 0 || top[0].Value != "10" || top[0].Count != 2 {
		t.Errorf("TopK()[0] = %+v, want {10 2}", top[0])
	}
}

func TestCollector(t *testing.T) {
	cols := []string{"a", "b"}
	coll := NewCollector(cols)
	coll.Observe(rowOf(map[string]format.Value{"a": format.Text("1"), "b": format.Text("x")}))
	coll.Observe(rowOf(map[string]format.Value{"a": format.Text("2"), "b": format.Text("y")}))
	results := coll.Finish()
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Name != "a" || results[0].Total != 2 {
		t.Errorf("results[0] = %+v", results[0])
	}
}

func rowOf(values map[string]format.Value) format.Row {
	fields := make([]string, 0, len(values))
	for k := range values {
		fields = append(fields, k)
	}
	return format.Row{Fields: fields, Values: values}
}
