package schema

import (
	"math"
	"strconv"
	"strings"

	"github.com/samber/oops"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// Value is a schema default, maximum or edited value. The zero Value is the
// empty string.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }
func Int(i int64) Value     { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNumeric reports whether v is an Int or a Float.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// BoolValue returns the boolean held by v; false for other kinds.
func (v Value) BoolValue() bool { return v.kind == KindBool && v.b }

// IntValue returns the integer held by v, truncating floats.
func (v Value) IntValue() int64 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return int64(v.f)
	}
	return 0
}

// FloatValue returns the numeric value of v as a float64.
func (v Value) FloatValue() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	}
	return 0
}

// String renders the canonical text form. Floats always carry a decimal
// point so that the text re-parses as a float.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	default:
		return v.s
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Equal reports whether v and o hold the same kind and value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	default:
		return v.s == o.s
	}
}

// Greater reports whether numeric v is strictly greater than numeric o.
// Two ints compare exactly; any other pairing compares as float64.
func (v Value) Greater(o Value) bool {
	if v.kind == KindInt && o.kind == KindInt {
		return v.i > o.i
	}
	return v.FloatValue() > o.FloatValue()
}

// ParseValue applies the literal inference rule: "true"/"false" in any case
// is a Bool, text containing '.' is a Float, anything else is tried as an
// Int. Text that fails to parse is kept as a String.
func ParseValue(raw string) Value {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if n, err := ParseNumber(raw); err == nil {
		return n
	}
	return String(raw)
}

// ParseNumber parses text as a Float when it contains '.', otherwise as an
// Int. NaN and infinities are rejected.
func ParseNumber(text string) (Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Value{}, oops.Errorf("empty number")
	}
	if strings.Contains(text, ".") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, oops.Wrapf(err, "invalid float %q", text)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, oops.Errorf("invalid float %q", text)
		}
		return Float(f), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Value{}, oops.Wrapf(err, "invalid integer %q", text)
	}
	return Int(i), nil
}
