package format

import "context"

// Type tags one of the concrete row formats the engine understands.
type Type string

const (
	Tabular   Type = "tabular"
	JSONLines Type = "jsonlines"
	Log       Type = "log"
	SQLDump   Type = "sqldump"
	Unknown   Type = "unknown"
)

// Reader yields rows from an input lazily, once. Columns may need to read
// ahead into the underlying stream (e.g. to sniff a header or the first
// JSON record) the first time it is called.
type Reader interface {
	Columns(ctx context.Context) ([]string, error)
	// Rows returns a channel of rows and a channel that carries at most
	// one error once the row channel closes. Iteration is single-pass;
	// callers must drain Rows to completion or cancel ctx.
	Rows(ctx context.Context) (<-chan Row, <-chan error)
	Close() error
}

// Writer consumes a column list and then a sequence of rows.
type Writer interface {
	WriteHeader(ctx context.Context, columns []string) error
	WriteRow(ctx context.Context, row Row) error
	Close() error
}
