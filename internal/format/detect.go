package format

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

var insertIntoPattern = regexp.MustCompile(`(?i)insert\s+into`)

// extensionTypes maps recognized file extensions (lowercase, with the
// leading dot) to their format.
var extensionTypes = map[string]Type{
	".csv":   Tabular,
	".tsv":   Tabular,
	".jsonl": JSONLines,
	".ndjson": JSONLines,
	".log":   Log,
	".sql":   SQLDump,
}

// Detect determines the format of path, first by extension, then by
// sniffing a leading fragment of its content when the extension is not
// recognized. It never opens more than sniffLen bytes.
func Detect(path string) (Type, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensionTypes[ext]; ok {
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	fragment, err := readFragment(f, sniffLen)
	if err != nil {
		return Unknown, err
	}
	return DetectContent(fragment), nil
}

const sniffLen = 8192

// readFragment reads up to the first newline, capped at n bytes, so
// DetectContent sees one complete line whenever the file's first line
// fits within the cap — a prerequisite for actually parsing it as JSON
// rather than just eyeballing its first and last characters.
func readFragment(r io.Reader, n int) (string, error) {
	br := bufio.NewReader(io.LimitReader(r, int64(n)))
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return line, err
	}
	return line, nil
}

// DetectContent applies the content-sniffing heuristics to an in-memory
// fragment. Exported so callers that already hold a prefix of a file can
// reuse it without a second read.
func DetectContent(fragment string) Type {
	trimmed := strings.TrimSpace(fragment)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		var probe any
		if err := json.Unmarshal([]byte(trimmed), &probe); err == nil {
			if _, ok := probe.(map[string]any); ok {
				return JSONLines
			}
		}
	}
	if insertIntoPattern.MatchString(fragment) {
		return SQLDump
	}
	if strings.Contains(fragment, ",") && strings.Contains(fragment, "\n") {
		return Tabular
	}
	return Unknown
}
