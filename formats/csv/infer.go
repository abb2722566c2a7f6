package csv

import (
	"strconv"
	"strings"

	"github.com/vegasq/pandata/frame"
)

// inferType picks the narrowest type every non-null cell parses as, trying
// Int64, Float64 and Boolean before falling back to String. A column with no
// non-null cells is Null.
func inferType(cells []cell) frame.DataType {
	dtype := frame.Null
	for _, c := range cells {
		if c.null() {
			continue
		}
		switch dtype {
		case frame.Null, frame.Int64:
			if isInt(c.text) {
				dtype = frame.Int64
			} else if isFloat(c.text) {
				dtype = frame.Float64
			} else if dtype == frame.Null && isBool(c.text) {
				dtype = frame.Boolean
			} else {
				return frame.String
			}
		case frame.Float64:
			if !isFloat(c.text) {
				return frame.String
			}
		case frame.Boolean:
			if !isBool(c.text) {
				return frame.String
			}
		}
	}
	return dtype
}

// convert turns a cell into a value of dtype. The cell must have passed
// inferType for that type.
func convert(c cell, dtype frame.DataType) any {
	if c.null() {
		return nil
	}
	switch dtype {
	case frame.Int64:
		n, _ := strconv.ParseInt(c.text, 10, 64)
		return n
	case frame.Float64:
		f, _ := strconv.ParseFloat(c.text, 64)
		return f
	case frame.Boolean:
		return strings.EqualFold(c.text, "true")
	default:
		return c.text
	}
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// isFloat rejects spellings like "NaN" or "inf" that carry no digit, so such
// words stay strings.
func isFloat(s string) bool {
	if !strings.ContainsAny(s, "0123456789") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isBool(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}
