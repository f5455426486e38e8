package format

import "testing"

func TestDetectContent(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     Type
	}{
		{"json object", `{"id": 1, "name": "a"}` + "\n", JSONLines},
		{"insert into", "INSERT INTO users (id) VALUES (1);", SQLDump},
		{"insert into lowercase", "insert into users (id) values (1);", SQLDump},
		{"comma and newline", "id,name\n1,a\n", Tabular},
		{"plain text", "just a line of text with no delimiters", Unknown},
		{"brace prefix/suffix but not valid JSON", "{not json, trailing brace comes later } oops}", Unknown},
		{"json array, not an object", `["a", "b"]`, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectContent(tt.fragment); got != tt.want {
				t.Errorf("DetectContent(%q) = %v, want %v", tt.fragment, got, tt.want)
			}
		})
	}
}
