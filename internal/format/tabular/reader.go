// Package tabular implements the delimited-text reader and writer, with
// dialect and header auto-detection over a leading sample of the file.
package tabular

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

const sniffBytes = 8192

// Reader implements format.Reader over delimited text.
type Reader struct {
	path      string
	file      *os.File
	csvReader *csv.Reader
	columns   []string
	started   bool
}

// NewReader opens path and sniffs its dialect and header from a leading
// prefix before any row is consumed.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to open tabular input")
	}

	sample := make([]byte, sniffBytes)
	n, err := f.Read(sample)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to sniff tabular input")
	}
	sample = sample[:n]

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to rewind tabular input")
	}

	delim := sniffDelimiter(string(sample))

	cr := csv.NewReader(stripBOM(f))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false
	cr.LazyQuotes = true

	r := &Reader{path: path, file: f, csvReader: cr}
	if err := r.prime(string(sample), delim); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// prime reads the first (and, if present, second) record to decide header
// presence and fixes the column list before any row is handed out.
func (r *Reader) prime(sample string, delim rune) error {
	sniffCR := csv.NewReader(strings.NewReader(sample))
	sniffCR.Comma = delim
	sniffCR.FieldsPerRecord = -1
	sniffCR.LazyQuotes = true

	first, _ := sniffCR.Read()
	second, _ := sniffCR.Read()
	hasHeader := sniffHasHeader(first, second)

	if hasHeader {
		header, err := r.csvReader.Read()
		if err == io.EOF {
			r.columns = nil
			return nil
		}
		if err != nil {
			return util.WrapErrorAs(util.KindIOFailure, err, "failed to read tabular header")
		}
		r.columns = header
		return nil
	}

	// No header: synthesize column_N names sized to the first record's
	// field count, then rewind so that first record is read again as data.
	if len(first) == 0 {
		r.columns = nil
		return nil
	}
	r.columns = make([]string, len(first))
	for i := range r.columns {
		r.columns[i] = synthesizedColumnName(i)
	}
	if _, err := r.file.Seek(0, io.SeekStart); err != nil {
		return util.WrapErrorAs(util.KindIOFailure, err, "failed to rewind tabular input")
	}
	r.csvReader = csv.NewReader(stripBOM(r.file))
	r.csvReader.Comma = delim
	r.csvReader.FieldsPerRecord = -1
	r.csvReader.LazyQuotes = true
	return nil
}

func synthesizedColumnName(i int) string {
	return "column_" + strconv.Itoa(i)
}

func (r *Reader) Columns(ctx context.Context) ([]string, error) {
	return r.columns, nil
}

func (r *Reader) Rows(ctx context.Context) (<-chan format.Row, <-chan error) {
	rowc := make(chan format.Row)
	errc := make(chan error, 1)

	go func() {
		defer close(rowc)
		seq := 0
		for {
			record, err := r.csvReader.Read()
			if err == io.EOF {
				errc <- nil
				return
			}
			if err != nil {
				errc <- util.WrapErrorAs(util.KindMalformedInput, err, "failed to read tabular row")
				return
			}

			row := format.NewRow(r.columns, seq)
			for i, col := range r.columns {
				if i < len(record) {
					row.Values[col] = format.Text(record[i])
				}
			}
			seq++

			select {
			case rowc <- row:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()

	return rowc, errc
}

func (r *Reader) Close() error {
	return r.file.Close()
}
