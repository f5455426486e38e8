package sqldump

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

// Writer implements format.Writer by emitting plain `INSERT INTO` text.
// Statement construction here is simple enough that round-tripping through
// the AST printer would add a dependency rather than remove one.
type Writer struct {
	file    *os.File
	table   string
	columns []string
}

// NewWriter creates (or truncates) path. table names the INSERT target.
func NewWriter(path string, table string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to create output directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to create sqldump output")
	}
	if table == "" {
		table = "sample"
	}
	return &Writer{file: f, table: table}, nil
}

func (w *Writer) WriteHeader(ctx context.Context, columns []string) error {
	w.columns = columns
	return nil
}

func (w *Writer) WriteRow(ctx context.Context, row format.Row) error {
	values := make([]string, len(w.columns))
	for i, col := range w.columns {
		values[i] = escapeValue(row.Get(col))
	}
	line := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);\n",
		w.table, strings.Join(w.columns, ", "), strings.Join(values, ", "))
	if _, err := w.file.WriteString(line); err != nil {
		return util.WrapErrorAs(util.KindIOFailure, err, "failed to write sqldump row")
	}
	return nil
}

func escapeValue(v format.Value) string {
	switch v.Kind {
	case format.KindNull:
		return "NULL"
	case format.KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case format.KindInt, format.KindFloat:
		return v.String()
	default:
		escaped := strings.ReplaceAll(v.String(), "'", "''")
		return "'" + escaped + "'"
	}
}

func (w *Writer) Close() error {
	return w.file.Close()
}
