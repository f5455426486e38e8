// Package format defines the row/value data model shared by every reader
// and writer, and the format-detection logic that maps an input path to
// one of the concrete formats under its subpackages.
package format

import (
	"fmt"
	"strconv"
)

// Kind tags the native representation carried by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindInt
	KindFloat
	KindBool
	// KindRaw holds an opaque serialized form, used for flattened JSON
	// arrays and any value that does not fit the other kinds cleanly.
	KindRaw
)

// Value is a tagged union over the handful of native types a row field can
// hold. Only the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	Text string
	Int  int64
	Flt  float64
	Bool bool
}

// Null is the absent/null value.
var Null = Value{Kind: KindNull}

func Text(s string) Value    { return Value{Kind: KindText, Text: s} }
func Int(i int64) Value      { return Value{Kind: KindInt, Int: i} }
func Float(f float64) Value  { return Value{Kind: KindFloat, Flt: f} }
func Bool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func Raw(s string) Value     { return Value{Kind: KindRaw, Text: s} }

// IsNull reports whether the value is the null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders the value's textual form, the representation used by
// masks, writers, and type inference alike.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindText, KindRaw:
		return v.Text
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Flt, 'g', -1, 64)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Float64 returns the value coerced to a float and whether the coercion
// succeeded, used by the numeric-sensitive samplers and stats.
func (v Value) Float64() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Flt, true
	case KindText:
		f, err := strconv.ParseFloat(v.Text, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (v Value) GoString() string {
	return fmt.Sprintf("Value{Kind:%d,%q}", v.Kind, v.String())
}
