package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/DNAi-inc/DNUDS/internal/config"
	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/sampling"
)

func writeCSV(t *testing.T, dir string, rows int) string {
	t.Helper()
	path := filepath.Join(dir, "in.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	fmt.Fprintln(f, "id,value")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(f, "%d,%d\n", i, i*10)
	}
	return path
}

func TestRunRandomSampleCSV(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeCSV(t, dir, 500)
	outputPath := filepath.Join(dir, "out.csv")
	seed := int64(7)

	result, err := Run(context.Background(), Request{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Sampler: config.SamplerConfig{
			SamplingMode: sampling.Random,
			TargetRows:   20,
			Seed:         &seed,
		},
		Now: "2026-07-30T00:00:00Z",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.ActualRows != 20 {
		t.Errorf("ActualRows = %d, want 20", result.ActualRows)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty output file")
	}

	if _, err := os.Stat(result.ManifestPath); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
}

func TestRunInputMissing(t *testing.T) {
	_, err := Run(context.Background(), Request{
		InputPath:  "/nonexistent/path.csv",
		OutputPath: filepath.Join(t.TempDir(), "out.csv"),
		Sampler:    config.SamplerConfig{SamplingMode: sampling.Random, TargetRows: 10},
	})
	if err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}

func TestRunUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mystery.xyz")
	if err := os.WriteFile(path, []byte("just some ambiguous text"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Run(context.Background(), Request{
		InputPath:  path,
		OutputPath: filepath.Join(dir, "out.xyz"),
		Sampler:    config.SamplerConfig{SamplingMode: sampling.Random, TargetRows: 10},
	})
	if err == nil {
		t.Fatal("expected an error for an undetectable format")
	}
}

func TestRunExplicitFormatOverride(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeCSV(t, dir, 10)
	renamed := filepath.Join(dir, "in.dat")
	if err := os.Rename(inputPath, renamed); err != nil {
		t.Fatal(err)
	}
	outputPath := filepath.Join(dir, "out.dat")

	result, err := Run(context.Background(), Request{
		InputPath:    renamed,
		OutputPath:   outputPath,
		InputFormat:  format.Tabular,
		OutputFormat: format.Tabular,
		Sampler:      config.SamplerConfig{SamplingMode: sampling.Random, TargetRows: 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.ActualRows != 5 {
		t.Errorf("ActualRows = %d, want 5", result.ActualRows)
	}
}
