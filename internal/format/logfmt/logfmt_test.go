package logfmt

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DNAi-inc/DNUDS/internal/format"
)

func newLogRow(level, message string) format.Row {
	return format.Row{
		Fields: []string{"level", "message"},
		Values: map[string]format.Value{
			"level":   format.Text(level),
			"message": format.Text(message),
		},
	}
}

func TestReaderDefaultMessageColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.log")
	if err := os.WriteFile(path, []byte("first line\nsecond line\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(path, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	cols, _ := r.Columns(context.Background())
	if len(cols) != 1 || cols[0] != DefaultMessageColumn {
		t.Fatalf("columns = %v, want [message]", cols)
	}

	rowc, errc := r.Rows(context.Background())
	var lines []string
	for row := range rowc {
		lines = append(lines, row.Get(DefaultMessageColumn).String())
	}
	if err := <-errc; err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0] != "first line" {
		t.Fatalf("lines = %v", lines)
	}
}

func TestReaderWithParsePattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.log")
	content := "ERROR something broke\nINFO all good\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(path, `^(\w+) (.+)$`, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	cols, _ := r.Columns(context.Background())
	if len(cols) != 2 || cols[0] != "level" || cols[1] != "message" {
		t.Fatalf("columns = %v, want [level message]", cols)
	}

	rowc, errc := r.Rows(context.Background())
	row := <-rowc
	if row.Get("level").String() != "ERROR" || row.Get("message").String() != "something broke" {
		t.Fatalf("row = %+v", row)
	}
	for range rowc {
	}
	if err := <-errc; err != nil {
		t.Fatal(err)
	}
}

func TestWriterInterpolatesTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")
	w, err := NewWriter(path, "[{level}] {message}")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	row := newLogRow("ERROR", "boom")
	if err := w.WriteRow(ctx, row); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[ERROR] boom\n" {
		t.Fatalf("got %q", string(data))
	}
}
