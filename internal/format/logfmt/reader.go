// Package logfmt implements the plain log-line reader and writer. Without
// a configured parse pattern, every line becomes a single message column;
// a configured regex with capture groups fans a line out into named
// columns instead.
package logfmt

import (
	"bufio"
	"context"
	"os"
	"regexp"
	"strconv"

	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

// DefaultMessageColumn is the sole column when no parse pattern is set.
const DefaultMessageColumn = "message"

// Reader implements format.Reader over newline-delimited plain text.
type Reader struct {
	file         *os.File
	pattern      *regexp.Regexp
	columns      []string
	groupColumns []string
}

// NewReader opens path. pattern may be empty, meaning every line becomes a
// single `message` column. A non-empty pattern with N capture groups and no
// explicit columnNames defaults to `[level, message]` for a 2-group
// pattern, else `group1 .. groupN`.
func NewReader(path string, pattern string, columnNames []string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to open log input")
	}

	r := &Reader{file: f}
	if pattern == "" {
		r.columns = []string{DefaultMessageColumn}
		return r, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		f.Close()
		return nil, util.NewError(util.KindInvalidConfig, "invalid log parse pattern: "+err.Error())
	}
	r.pattern = re

	groups := re.NumSubexp()
	if len(columnNames) == groups {
		r.groupColumns = columnNames
	} else if groups == 2 {
		r.groupColumns = []string{"level", DefaultMessageColumn}
	} else {
		r.groupColumns = make([]string, groups)
		for i := range r.groupColumns {
			r.groupColumns[i] = "group" + strconv.Itoa(i+1)
		}
	}
	r.columns = r.groupColumns
	return r, nil
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
			line := scanner.Text()
			if line == "" {
				continue
			}
			row := r.parseLine(line, seq)
			seq++
			select {
			case rowc <- row:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errc <- util.WrapErrorAs(util.KindIOFailure, err, "failed to scan log input")
			return
		}
		errc <- nil
	}()

	return rowc, errc
}

func (r *Reader) parseLine(line string, seq int) format.Row {
	if r.pattern == nil {
		row := format.NewRow([]string{DefaultMessageColumn}, seq)
		row.Values[DefaultMessageColumn] = format.Text(line)
		return row
	}

	match := r.pattern.FindStringSubmatch(line)
	row := format.NewRow(r.groupColumns, seq)
	if match == nil {
		// Lines that don't match the configured pattern fall back to the
		// single-column form, same as having no pattern at all.
		row = format.NewRow([]string{DefaultMessageColumn}, seq)
		row.Values[DefaultMessageColumn] = format.Text(line)
		return row
	}
	for i, col := range r.groupColumns {
		if i+1 < len(match) {
			row.Values[col] = format.Text(match[i+1])
		}
	}
	return row
}

func (r *Reader) Close() error {
	return r.file.Close()
}
