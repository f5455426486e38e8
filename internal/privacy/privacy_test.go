package privacy

import (
	"testing"

	"github.com/DNAi-inc/DNUDS/internal/format"
)

func TestMaskHash(t *testing.T) {
	m, err := NewMask(Hash, map[string]string{"algorithm": "sha256"})
	if err != nil {
		t.Fatal(err)
	}
	got := m.Apply(format.Text("alice@example.com")).String()
	if len(got) != 64 {
		t.Errorf("sha256 hash length = %d, want 64", len(got))
	}
	if m.Apply(format.Null).String() != "" {
		t.Errorf("hash of null should be empty text")
	}
}

func TestMaskRedact(t *testing.T) {
	m, _ := NewMask(Redact, nil)
	if got := m.Apply(format.Text("secret")).String(); got != "[REDACTED]" {
		t.Errorf("got %q, want [REDACTED]", got)
	}
}

func TestMaskTruncate(t *testing.T) {
	m, _ := NewMask(Truncate, map[string]string{"max_length": "3"})
	if got := m.Apply(format.Text("hello")).String(); got != "hel..." {
		t.Errorf("got %q, want hel...", got)
	}
	if got := m.Apply(format.Text("hi")).String(); got != "hi" {
		t.Errorf("got %q, want hi (unchanged, below max_length)", got)
	}
}

func TestMaskTruncateMultiByteRunes(t *testing.T) {
	m, _ := NewMask(Truncate, map[string]string{"max_length": "2"})
	got := m.Apply(format.Text("日本語テスト")).String()
	if got != "日本..." {
		t.Errorf("got %q, want 日本... (cut on rune boundaries, not bytes)", got)
	}
}

func TestMaskBucket(t *testing.T) {
	m, _ := NewMask(Bucket, map[string]string{"bucket_size": "10"})
	got := m.Apply(format.Int(23)).String()
	if got != "20-29" {
		t.Errorf("got %q, want 20-29", got)
	}
	if got := m.Apply(format.Text("not a number")).String(); got != "" {
		t.Errorf("bucket of non-numeric should be empty, got %q", got)
	}
}

func TestNewMaskInvalidKind(t *testing.T) {
	if _, err := NewMask("bogus", nil); err == nil {
		t.Error("expected error for unknown mask kind")
	}
}

func TestApplyRulesDoesNotMutateSource(t *testing.T) {
	row := format.Row{
		Fields: []string{"email", "name"},
		Values: map[string]format.Value{
			"email": format.Text("alice@example.com"),
			"name":  format.Text("Alice"),
		},
	}
	rule, err := NewRule("email", Redact, nil)
	if err != nil {
		t.Fatal(err)
	}
	masked := Apply(row, []Rule{rule})

	if row.Values["email"].String() != "alice@example.com" {
		t.Error("source row was mutated")
	}
	if masked.Values["email"].String() != "[REDACTED]" {
		t.Error("masked row did not apply the rule")
	}
	if masked.Values["name"].String() != "Alice" {
		t.Error("column not named by any rule should be untouched")
	}
}

func TestApplyRuleOnMissingColumnIsNoop(t *testing.T) {
	row := format.Row{Fields: []string{"name"}, Values: map[string]format.Value{"name": format.Text("Alice")}}
	rule, _ := NewRule("missing", Redact, nil)
	masked := Apply(row, []Rule{rule})
	if masked.Values["name"].String() != "Alice" {
		t.Error("row should be unchanged when rule names a missing column")
	}
}
