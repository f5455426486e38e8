package sqldump

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DNAi-inc/DNUDS/internal/format"
)

func rowOf(id, name string) format.Row {
	return format.Row{
		Fields: []string{"id", "name"},
		Values: map[string]format.Value{
			"id":   format.Int(1),
			"name": format.Text(name),
		},
	}
}

func TestReaderParsesInsertStatements(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.sql")
	content := "INSERT INTO users (id, name, active) VALUES (1, 'alice', TRUE);\n" +
		"INSERT INTO users (id, name, active) VALUES (2, 'bob', FALSE);\n" +
		"INSERT INTO orders (id) VALUES (9);\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(path, "users")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	cols, _ := r.Columns(context.Background())
	if len(cols) != 3 || cols[0] != "id" {
		t.Fatalf("columns = %v, want [id name active]", cols)
	}

	rowc, errc := r.Rows(context.Background())
	var names []string
	for row := range rowc {
		names = append(names, row.Get("name").String())
	}
	if err := <-errc; err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "alice" || names[1] != "bob" {
		t.Fatalf("names = %v, want [alice bob] (orders table must be filtered out)", names)
	}
}

func TestWriterEscapesQuotes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.sql")
	w, err := NewWriter(path, "users")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := w.WriteHeader(ctx, []string{"id", "name"}); err != nil {
		t.Fatal(err)
	}
	row := rowOf("1", "O'Brien")
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
	want := "INSERT INTO users (id, name) VALUES (1, 'O''Brien');\n"
	if string(data) != want {
		t.Fatalf("got %q, want %q", string(data), want)
	}
}
