package types

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind tags how a Value is rendered by the sinks.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindTime // rendered as a date-construction expression in SQL output
	KindRaw  // emitted verbatim, never quoted
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	case KindRaw:
		return "raw"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Value is a single typed field of a generated row. Numbers and times are packed
// into n so a row of values stays small at ten million rows.
type Value struct {
	kind Kind
	n    int64
	s    string
}

func Null() Value            { return Value{kind: KindNull} }
func Int(v int64) Value      { return Value{kind: KindInt, n: v} }
func Text(v string) Value    { return Value{kind: KindText, s: v} }
func Raw(expr string) Value  { return Value{kind: KindRaw, s: expr} }
func Time(t time.Time) Value { return Value{kind: KindTime, n: t.Unix()} }
func Float(v float64) Value  { return Value{kind: KindFloat, n: int64(math.Float64bits(v))} }
func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsInt returns the integer payload. It panics on any other kind: reading an id
// column that was never an id is a programming error.
func (v Value) AsInt() int64 {
	if v.kind != KindInt {
		panic(fmt.Sprintf("types: AsInt on %s value", v.kind))
	}
	return v.n
}

func (v Value) AsFloat() float64 {
	if v.kind != KindFloat {
		panic(fmt.Sprintf("types: AsFloat on %s value", v.kind))
	}
	return math.Float64frombits(uint64(v.n))
}

func (v Value) AsString() string {
	if v.kind != KindText && v.kind != KindRaw {
		panic(fmt.Sprintf("types: AsString on %s value", v.kind))
	}
	return v.s
}

func (v Value) AsTime() time.Time {
	if v.kind != KindTime {
		panic(fmt.Sprintf("types: AsTime on %s value", v.kind))
	}
	return time.Unix(v.n, 0).UTC()
}

// TimeLayout is the textual form used for every time value.
const TimeLayout = "2006-01-02 15:04:05"

// String renders the plain, unquoted form used by delimited output.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindInt:
		return strconv.FormatInt(v.n, 10)
	case KindFloat:
		return strconv.FormatFloat(v.AsFloat(), 'f', -1, 64)
	case KindTime:
		return v.AsTime().Format(TimeLayout)
	default:
		return v.s
	}
}

// Native converts the value to the Go type a database driver expects.
func (v Value) Native() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindInt:
		return v.n
	case KindFloat:
		return v.AsFloat()
	case KindTime:
		return v.AsTime()
	default:
		return v.s
	}
}
