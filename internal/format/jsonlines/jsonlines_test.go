package jsonlines

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestReaderFlattensNestedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.jsonl")
	content := `{"id": 1, "user": {"name": "alice", "tags": ["a", "b"]}}` + "\n" +
		`{"id": 2, "user": {"name": "bob", "tags": []}}` + "\n" +
		"\n" +
		`not valid json` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	cols, _ := r.Columns(context.Background())
	wantOrder := []string{"id", "user.name", "user.tags"}
	if len(cols) != len(wantOrder) {
		t.Fatalf("columns = %v, want %v", cols, wantOrder)
	}
	for i, c := range cols {
		if c != wantOrder[i] {
			t.Errorf("columns = %v, want %v in source order, not sorted", cols, wantOrder)
			break
		}
	}

	rowc, errc := r.Rows(context.Background())
	var rows []string
	for row := range rowc {
		rows = append(rows, row.Get("user.name").String())
	}
	if err := <-errc; err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0] != "alice" || rows[1] != "bob" {
		t.Fatalf("rows = %v, want [alice bob] (invalid line must be skipped silently)", rows)
	}
}

func TestReaderPreservesNonAlphabeticalKeyOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.jsonl")
	content := `{"zebra": 1, "apple": 2, "mango": 3}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	cols, _ := r.Columns(context.Background())
	want := []string{"zebra", "apple", "mango"}
	if len(cols) != len(want) {
		t.Fatalf("columns = %v, want %v", cols, want)
	}
	for i, c := range cols {
		if c != want[i] {
			t.Fatalf("columns = %v, want %v (source order, not alphabetical)", cols, want)
		}
	}
}

func TestWriterPreservesAllKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := w.WriteHeader(ctx, []string{"id"}); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(mustWrite(t, dir, `{"id": 1, "extra": "x"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	rowc, errc := r.Rows(ctx)
	row := <-rowc
	if err := <-errc; err != nil {
		t.Fatal(err)
	}

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
	if !contains(string(data), `"extra":"x"`) && !contains(string(data), `"extra": "x"`) {
		t.Fatalf("output %q should preserve the extra key beyond the column list", string(data))
	}
}

func mustWrite(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "fixture.jsonl")
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
