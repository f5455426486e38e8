package format

// Row is an ordered mapping from column name to value. Fields preserves
// insertion order for formats that honor it (JSON-lines in particular);
// Values is keyed by column name for O(1) lookup.
type Row struct {
	Fields []string
	Values map[string]Value

	// Seq is the row's 0-based arrival index from its reader. Samplers
	// that need row identity (outlier-aware dedup, stratified
	// subtraction) compare Seq rather than relying on pointer or
	// structural identity, since Go gives rows no intrinsic identity of
	// their own.
	Seq int
}

// NewRow builds a row with the given field order, all values absent.
func NewRow(fields []string, seq int) Row {
	r := Row{
		Fields: fields,
		Values: make(map[string]Value, len(fields)),
		Seq:    seq,
	}
	for _, f := range fields {
		r.Values[f] = Null
	}
	return r
}

// Get returns the value under column, or Null if the column is absent.
func (r Row) Get(column string) Value {
	if v, ok := r.Values[column]; ok {
		return v
	}
	return Null
}

// Set assigns a value under column, appending it to Fields if new.
func (r *Row) Set(column string, v Value) {
	if r.Values == nil {
		r.Values = make(map[string]Value)
	}
	if _, ok := r.Values[column]; !ok {
		r.Fields = append(r.Fields, column)
	}
	r.Values[column] = v
}

// Clone returns a shallow copy of the row whose Values map is independent
// of the source's — the copy semantics the privacy rule applier relies on
// to never mutate a row in place.
func (r Row) Clone() Row {
	fields := make([]string, len(r.Fields))
	copy(fields, r.Fields)
	values := make(map[string]Value, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	return Row{Fields: fields, Values: values, Seq: r.Seq}
}
