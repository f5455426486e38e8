package tabular

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

// Writer implements format.Writer over delimited text, always emitting
// comma-separated, double-quoted-as-needed output.
type Writer struct {
	file      *os.File
	csvWriter *csv.Writer
	columns   []string
}

// NewWriter creates (or truncates) path, creating parent directories on
// demand.
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to create output directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to create tabular output")
	}
	return &Writer{file: f, csvWriter: csv.NewWriter(f)}, nil
}

func (w *Writer) WriteHeader(ctx context.Context, columns []string) error {
	w.columns = columns
	if err := w.csvWriter.Write(columns); err != nil {
		return util.WrapErrorAs(util.KindIOFailure, err, "failed to write tabular header")
	}
	return nil
}

func (w *Writer) WriteRow(ctx context.Context, row format.Row) error {
	record := make([]string, len(w.columns))
	for i, col := range w.columns {
		record[i] = row.Get(col).String()
	}
	if err := w.csvWriter.Write(record); err != nil {
		return util.WrapErrorAs(util.KindIOFailure, err, "failed to write tabular row")
	}
	return nil
}

func (w *Writer) Close() error {
	w.csvWriter.Flush()
	if err := w.csvWriter.Error(); err != nil {
		w.file.Close()
		return util.WrapErrorAs(util.KindIOFailure, err, "failed to flush tabular output")
	}
	return w.file.Close()
}
