package jsonlines

import (
	"context"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

// Writer implements format.Writer over newline-delimited JSON, preserving
// every key present on a row rather than restricting to the column list
// handed to WriteHeader.
type Writer struct {
	file *os.File
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
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to create jsonlines output")
	}
	return &Writer{file: f}, nil
}

func (w *Writer) WriteHeader(ctx context.Context, columns []string) error {
	return nil
}

func (w *Writer) WriteRow(ctx context.Context, row format.Row) error {
	obj := make(map[string]any, len(row.Fields))
	for _, col := range row.Fields {
		v := row.Get(col)
		if v.IsNull() {
			obj[col] = nil
			continue
		}
		obj[col] = v.String()
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return util.WrapErrorAs(util.KindIOFailure, err, "failed to marshal jsonlines row")
	}
	if _, err := w.file.Write(append(b, '\n')); err != nil {
		return util.WrapErrorAs(util.KindIOFailure, err, "failed to write jsonlines row")
	}
	return nil
}

func (w *Writer) Close() error {
	return w.file.Close()
}
