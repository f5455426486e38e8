package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/sampling"
	"github.com/DNAi-inc/DNUDS/internal/stats"
)

func TestPath(t *testing.T) {
	if got := Path("/tmp/out.csv"); got != "/tmp/out.dnuds.json" {
		t.Errorf("Path() = %q, want /tmp/out.dnuds.json", got)
	}
}

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "sample.csv")

	seed := int64(42)
	coll := stats.NewCollector([]string{"id"})
	coll.Observe(format.Row{Fields: []string{"id"}, Values: map[string]format.Value{"id": format.Int(1)}})
	results := coll.Finish()

	manifestPath, err := Write(Params{
		InputPath:    "in.csv",
		OutputPath:   outputPath,
		InputFormat:  format.Tabular,
		OutputFormat: format.Tabular,
		Strategy:     sampling.Random,
		TargetRows:   10,
		ActualRows:   1,
		Seed:         &seed,
		Columns:      []string{"id"},
		ColumnStats:  results,
		Timestamp:    "2026-07-30T00:00:00Z",
	})
	if err != nil {
		t.Fatal(err)
	}
	if manifestPath != Path(outputPath) {
		t.Errorf("manifestPath = %q, want %q", manifestPath, Path(outputPath))
	}

	m, err := Read(manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	if m.TargetRows != 10 || m.ActualRows != 1 {
		t.Errorf("m = %+v", m)
	}
	if m.RunID == "" {
		t.Error("expected a run_id to be stamped")
	}
	if len(m.ColumnStats) != 1 || m.ColumnStats[0].Name != "id" {
		t.Errorf("column stats = %+v", m.ColumnStats)
	}
}

func TestWriteAndReadPreservesZeroMinMax(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "sample.csv")

	coll := stats.NewCollector([]string{"delta"})
	coll.Observe(format.Row{Fields: []string{"delta"}, Values: map[string]format.Value{"delta": format.Int(0)}})
	results := coll.Finish()

	manifestPath, err := Write(Params{
		InputPath:   "in.csv",
		OutputPath:  outputPath,
		InputFormat: format.Tabular, OutputFormat: format.Tabular,
		Strategy:   sampling.Random,
		TargetRows: 1, ActualRows: 1,
		Columns:     []string{"delta"},
		ColumnStats: results,
		Timestamp:   "2026-07-30T00:00:00Z",
	})
	if err != nil {
		t.Fatal(err)
	}
	m, err := Read(manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.ColumnStats) != 1 || !m.ColumnStats[0].HasNumeric {
		t.Fatalf("column stats = %+v, want has_numeric true", m.ColumnStats)
	}
	if m.ColumnStats[0].Min != 0 || m.ColumnStats[0].Max != 0 {
		t.Errorf("min/max = %v/%v, want 0/0 to survive the round trip", m.ColumnStats[0].Min, m.ColumnStats[0].Max)
	}

	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"min"`) || !strings.Contains(string(raw), `"max"`) {
		t.Errorf("manifest JSON dropped a legitimately-zero min/max key: %s", raw)
	}

	// Reading the same sidecar a second time should yield an identical
	// manifest, field for field.
	roundTripped, err := Read(manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m, roundTripped); diff != "" {
		t.Errorf("manifest not stable across a second read (-first +second):\n%s", diff)
	}
}
