// Package sqldump implements the SQL INSERT-dump reader and writer, parsing
// each statement with github.com/ha1tch/tsqlparser rather than a hand-rolled
// quote-tracking scanner.
package sqldump

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/ha1tch/tsqlparser/ast"
	"github.com/ha1tch/tsqlparser/lexer"
	"github.com/ha1tch/tsqlparser/parser"

	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

// Reader implements format.Reader over single-line `INSERT INTO ...
// VALUES (...);` statements. Multiline INSERT statements are not
// supported, matching the dump format this engine targets.
type Reader struct {
	file        *os.File
	tableFilter string
	columns     []string
}

// NewReader opens path. When tableFilter is non-empty, only INSERT
// statements targeting that table contribute rows; the column list is
// taken from the first matching statement.
func NewReader(path string, tableFilter string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to open sqldump input")
	}

	r := &Reader{file: f, tableFilter: tableFilter}
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
		stmt, table, ok := parseInsert(line)
		if !ok {
			continue
		}
		if r.tableFilter != "" && table != r.tableFilter {
			continue
		}
		r.columns = columnNames(stmt)
		break
	}
	if err := scanner.Err(); err != nil {
		return util.WrapErrorAs(util.KindIOFailure, err, "failed to scan sqldump input")
	}
	if _, err := r.file.Seek(0, 0); err != nil {
		return util.WrapErrorAs(util.KindIOFailure, err, "failed to rewind sqldump input")
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
			stmt, table, ok := parseInsert(line)
			if !ok {
				// Malformed statements are skipped silently, as with
				// every other MalformedInput case in this engine.
				continue
			}
			if r.tableFilter != "" && table != r.tableFilter {
				continue
			}
			for _, values := range stmt.Values {
				row := format.NewRow(r.columns, seq)
				for i, col := range r.columns {
					if i < len(values) {
						row.Values[col] = decodeValue(values[i])
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
		}
		if err := scanner.Err(); err != nil {
			errc <- util.WrapErrorAs(util.KindIOFailure, err, "failed to scan sqldump input")
			return
		}
		errc <- nil
	}()

	return rowc, errc
}

func (r *Reader) Close() error {
	return r.file.Close()
}

// parseInsert parses a single line as a T-SQL program and returns its sole
// INSERT statement, if any.
func parseInsert(line string) (*ast.InsertStatement, string, bool) {
	l := lexer.New(line)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 || len(program.Statements) == 0 {
		return nil, "", false
	}
	for _, stmt := range program.Statements {
		if ins, ok := stmt.(*ast.InsertStatement); ok {
			return ins, ins.Table.String(), true
		}
	}
	return nil, "", false
}

func columnNames(stmt *ast.InsertStatement) []string {
	names := make([]string, len(stmt.Columns))
	for i, c := range stmt.Columns {
		names[i] = c.Value
	}
	return names
}

// decodeValue coerces a parsed value expression to a format.Value: NULL,
// quoted strings, integers, floats, TRUE/FALSE identifiers, else the raw
// token text.
func decodeValue(expr ast.Expression) format.Value {
	switch v := expr.(type) {
	case *ast.NullLiteral:
		return format.Null
	case *ast.StringLiteral:
		return format.Text(v.Value)
	case *ast.IntegerLiteral:
		return format.Int(v.Value)
	case *ast.FloatLiteral:
		return format.Float(v.Value)
	case *ast.Identifier:
		switch strings.ToUpper(v.Value) {
		case "TRUE":
			return format.Bool(true)
		case "FALSE":
			return format.Bool(false)
		default:
			return format.Text(v.Value)
		}
	default:
		text := expr.String()
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return format.Int(n)
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return format.Float(f)
		}
		return format.Text(text)
	}
}
