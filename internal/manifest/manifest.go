// Package manifest writes and reads the JSON sidecar describing one
// sampling run.
package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/privacy"
	"github.com/DNAi-inc/DNUDS/internal/sampling"
	"github.com/DNAi-inc/DNUDS/internal/stats"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

// EngineVersion is the manifest schema / engine identifier recorded in
// every run's sidecar.
const EngineVersion = "dnuds-go/1"

// ColumnStat is the manifest's per-column statistics block. Min and Max
// are only meaningful when HasNumeric is true; they are not omitempty
// because a legitimately-zero min or max must still round-trip (Go's
// omitempty treats 0.0 as empty regardless of HasNumeric).
type ColumnStat struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Total      int      `json:"total"`
	Nulls      int      `json:"nulls"`
	Unique     int      `json:"unique"`
	HasNumeric bool     `json:"has_numeric"`
	Min        float64  `json:"min"`
	Max        float64  `json:"max"`
	TopValues  [][2]any `json:"top_values"`
}

// PrivacyRuleEntry is the manifest's record of one applied privacy rule.
type PrivacyRuleEntry struct {
	Column string            `json:"column"`
	Kind   string            `json:"mask_type"`
	Params map[string]string `json:"mask_params,omitempty"`
}

// Manifest is the full sidecar document.
type Manifest struct {
	RunID         string             `json:"run_id"`
	EngineVersion string             `json:"engine_version"`
	Timestamp     string             `json:"timestamp"`
	InputPath     string             `json:"input_path"`
	OutputPath    string             `json:"output_path"`
	InputFormat   string             `json:"input_format"`
	OutputFormat  string             `json:"output_format"`
	Strategy      string             `json:"sampling_strategy"`
	TargetRows    int                `json:"target_rows"`
	ActualRows    int                `json:"actual_rows"`
	KeyColumns    []string           `json:"key_columns,omitempty"`
	Seed          *int64             `json:"seed"`
	Columns       []string           `json:"columns"`
	ColumnStats   []ColumnStat       `json:"column_stats,omitempty"`
	PrivacyRules  []PrivacyRuleEntry `json:"privacy_rules,omitempty"`
}

// Params describes the run that Write records.
type Params struct {
	InputPath    string
	OutputPath   string
	InputFormat  format.Type
	OutputFormat format.Type
	Strategy     sampling.Strategy
	TargetRows   int
	ActualRows   int
	KeyColumns   []string
	Seed         *int64
	Columns      []string
	ColumnStats  []stats.ColumnResult // nil when statistics collection failed
	PrivacyRules []privacy.Rule
	Timestamp    string // caller-supplied UTC ISO-8601 "Z"-suffixed timestamp
}

// Path returns the sidecar path for a given output path:
// <output-basename-without-ext>.dnuds.json next to it.
func Path(outputPath string) string {
	ext := filepath.Ext(outputPath)
	stem := strings.TrimSuffix(outputPath, ext)
	return stem + ".dnuds.json"
}

// Write builds and serializes the manifest for a completed run.
func Write(p Params) (string, error) {
	inputAbs, err := filepath.Abs(p.InputPath)
	if err != nil {
		inputAbs = p.InputPath
	}
	outputAbs, err := filepath.Abs(p.OutputPath)
	if err != nil {
		outputAbs = p.OutputPath
	}

	m := Manifest{
		RunID:         uuid.NewString(),
		EngineVersion: EngineVersion,
		Timestamp:     p.Timestamp,
		InputPath:     inputAbs,
		OutputPath:    outputAbs,
		InputFormat:   string(p.InputFormat),
		OutputFormat:  string(p.OutputFormat),
		Strategy:      string(p.Strategy),
		TargetRows:    p.TargetRows,
		ActualRows:    p.ActualRows,
		KeyColumns:    p.KeyColumns,
		Seed:          p.Seed,
		Columns:       p.Columns,
	}

	for _, cr := range p.ColumnStats {
		top := make([][2]any, 0, len(cr.TopK()))
		for _, vc := range cr.TopK() {
			top = append(top, [2]any{vc.Value, vc.Count})
		}
		cs := ColumnStat{
			Name:       cr.Name,
			Type:       string(cr.Type),
			Total:      cr.Total,
			Nulls:      cr.Nulls,
			Unique:     cr.Unique,
			HasNumeric: cr.HasNumeric,
			TopValues:  top,
		}
		if cr.HasNumeric {
			cs.Min, cs.Max = cr.Min, cr.Max
		}
		m.ColumnStats = append(m.ColumnStats, cs)
	}

	for _, r := range p.PrivacyRules {
		m.PrivacyRules = append(m.PrivacyRules, PrivacyRuleEntry{
			Column: r.Column,
			Kind:   string(r.Mask.Kind),
			Params: r.Mask.Params,
		})
	}

	path := Path(p.OutputPath)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", util.WrapErrorAs(util.KindIOFailure, err, "failed to marshal manifest")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", util.WrapErrorAs(util.KindIOFailure, err, "failed to write manifest")
	}
	return path, nil
}

// Read loads a manifest sidecar previously written by Write, the
// round-trip reader carried forward from the original implementation's
// read_manifest.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to read manifest")
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to unmarshal manifest")
	}
	return &m, nil
}
