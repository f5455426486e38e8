package logfmt

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

var templatePlaceholder = regexp.MustCompile(`\{(\w+)\}`)

// Writer implements format.Writer over plain text lines. With a format
// template configured, each row is interpolated against it (missing keys
// fall back to the message column); otherwise the message column's value
// alone is written.
type Writer struct {
	file     *os.File
	template string
}

// NewWriter creates (or truncates) path. template may be empty.
func NewWriter(path string, template string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to create output directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to create log output")
	}
	return &Writer{file: f, template: template}, nil
}

func (w *Writer) WriteHeader(ctx context.Context, columns []string) error {
	return nil
}

func (w *Writer) WriteRow(ctx context.Context, row format.Row) error {
	line := w.render(row)
	if _, err := w.file.WriteString(line + "\n"); err != nil {
		return util.WrapErrorAs(util.KindIOFailure, err, "failed to write log row")
	}
	return nil
}

func (w *Writer) render(row format.Row) string {
	if w.template == "" {
		return row.Get(DefaultMessageColumn).String()
	}
	missing := false
	rendered := templatePlaceholder.ReplaceAllStringFunc(w.template, func(m string) string {
		key := m[1 : len(m)-1]
		if _, ok := row.Values[key]; !ok {
			missing = true
			return m
		}
		return row.Get(key).String()
	})
	if missing {
		return row.Get(DefaultMessageColumn).String()
	}
	return rendered
}

func (w *Writer) Close() error {
	return w.file.Close()
}
