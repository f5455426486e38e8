// Package jsonlines implements the JSON-per-line reader and writer, with
// depth-first flattening of nested objects.
package jsonlines

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

// Reader implements format.Reader over a newline-delimited JSON file.
type Reader struct {
	path    string
	file    *os.File
	columns []string
}

// NewReader opens path and flattens its first valid record to fix the
// column list.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to open jsonlines input")
	}

	r := &Reader{path: path, file: f}
	if err := r.primeColumns(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) primeColumns() error {
	scanner := bufio.NewScanner(r.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		row, err := flatten([]byte(line))
		if err != nil {
			continue
		}
		r.columns = row.Fields
		break
	}
	if err := scanner.Err(); err != nil {
		return util.WrapErrorAs(util.KindIOFailure, err, "failed to scan jsonlines input")
	}
	if _, err := r.file.Seek(0, 0); err != nil {
		return util.WrapErrorAs(util.KindIOFailure, err, "failed to rewind jsonlines input")
	}
	return nil
}

func (r *Reader) Columns(ctx context.Context) ([]string, error) {
	return r.columns, nil
}

func (r *Reader) Rows(ctx context.Context) (<-chan format.Row, <-chan error) {
	rowc := make(chan format.Row)
	errc := make(chan error, 1)

	go func() {
		defer close(rowc)
		scanner := bufio.NewScanner(r.file)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		seq := 0
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			row, err := flatten([]byte(line))
			if err != nil {
				// MalformedInput is partial: bad records are skipped
				// silently, observable only via a smaller row count.
				continue
			}
			row.Seq = seq
			seq++

			select {
			case rowc <- row:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errc <- util.WrapErrorAs(util.KindIOFailure, err, "failed to scan jsonlines input")
			return
		}
		errc <- nil
	}()

	return rowc, errc
}

func (r *Reader) Close() error {
	return r.file.Close()
}

// flatten turns one line of JSON into a Row, joining nested object keys
// with "." and rendering arrays as a text serialization rather than
// expanding them positionally. Column order within the row follows the
// order keys appear in the source document, walked token by token rather
// than through a map, which Go would otherwise iterate in random order.
func flatten(line []byte) (format.Row, error) {
	row := format.Row{Values: map[string]format.Value{}}

	trimmed := bytes.TrimSpace(line)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if _, err := dec.Token(); err != nil { // consume the opening '{'
			return row, err
		}
		if err := flattenObject(&row, "", dec); err != nil {
			return row, err
		}
		return row, nil
	}

	v, err := decodeScalarOrRaw(trimmed)
	if err != nil {
		return row, err
	}
	row.Set("value", v)
	return row, nil
}

// flattenObject reads dec's remaining key/value pairs up to its closing
// '}', which it also consumes. dec must already be positioned just past
// the object's opening '{'.
func flattenObject(row *format.Row, prefix string, dec *json.Decoder) error {
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("jsonlines: expected string object key, got %v", keyTok)
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		value := bytes.TrimSpace(raw)

		switch {
		case len(value) == 0 || string(value) == "null":
			row.Set(path, format.Null)
		case value[0] == '{':
			nested := json.NewDecoder(bytes.NewReader(value))
			if _, err := nested.Token(); err != nil {
				return err
			}
			if err := flattenObject(row, path, nested); err != nil {
				return err
			}
		case value[0] == '[':
			// Arrays are kept verbatim as text rather than expanded into
			// columns; this also preserves their source formatting exactly.
			row.Set(path, format.Raw(string(value)))
		default:
			v, err := decodeScalarOrRaw(value)
			if err != nil {
				return err
			}
			row.Set(path, v)
		}
	}
	_, err := dec.Token() // consume the closing '}'
	return err
}

func decodeScalarOrRaw(raw []byte) (format.Value, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return format.Null, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return format.Null, err
	}
	switch vv := v.(type) {
	case nil:
		return format.Null, nil
	case string:
		return format.Text(vv), nil
	case float64:
		return format.Float(vv), nil
	case bool:
		return format.Bool(vv), nil
	default:
		return format.Raw(string(raw)), nil
	}
}
