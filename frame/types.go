package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DataType is the logical type of a column.
type DataType int

const (
	// Null is the type of a column that holds no values at all.
	Null DataType = iota
	Boolean
	Int64
	Float64
	String
)

// String returns the type name as shown by schema introspection.
func (t DataType) String() string {
	switch t {
	case Null:
		return "NULL"
	case Boolean:
		return "BOOLEAN"
	case Int64:
		return "INT64"
	case Float64:
		return "FLOAT64"
	case String:
		return "STRING"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// MarshalText encodes the type by name.
func (t DataType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Supertype returns the narrowest type able to hold values of both a and b.
//
// Null widens to anything, Int64 and Float64 meet at Float64, and every other
// mismatch falls back to String.
func Supertype(a, b DataType) DataType {
	switch {
	case a == b:
		return a
	case a == Null:
		return b
	case b == Null:
		return a
	case (a == Int64 && b == Float64) || (a == Float64 && b == Int64):
		return Float64
	default:
		return String
	}
}

// TypeOf reports the DataType of a single value. Values outside the supported
// set report ok == false.
func TypeOf(v any) (t DataType, ok bool) {
	switch v.(type) {
	case nil:
		return Null, true
	case bool:
		return Boolean, true
	case int64:
		return Int64, true
	case float64:
		return Float64, true
	case string:
		return String, true
	default:
		return Null, false
	}
}

// Cast converts v to the representation used by columns of type t.
// A nil value stays nil for every target type.
func Cast(v any, t DataType) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch t {
	case Null:
		return nil, fmt.Errorf("cannot store %T in a NULL column", v)
	case Boolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case Int64:
		if i, ok := v.(int64); ok {
			return i, nil
		}
	case Float64:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		}
	case String:
		return FormatValue(v), nil
	}

	return nil, fmt.Errorf("cannot cast %T to %s", v, t)
}

// FormatValue renders a value in its canonical text form.
//
// Floats always carry a decimal point or exponent so that text formats read
// them back as floats; nil renders as the empty string.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return FormatFloat(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// FormatFloat formats f with the shortest exact representation, appending
// ".0" to integral values.
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Field describes a named, typed column.
type Field struct {
	Name string
	Type DataType
}

// Schema is an ordered list of fields.
type Schema []Field

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, f := range s {
		if f.Name == name {
			return i
		}
	}
	return -1
}
