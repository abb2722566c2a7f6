package parquet

import (
	"fmt"

	"github.com/google/uuid"
	goparquet "github.com/parquet-go/parquet-go"

	"github.com/vegasq/pandata/frame"
)

// value converts a parquet value of this column to its frame value.
func (c leaf) value(v goparquet.Value) any {
	if v.IsNull() || c.dtype == frame.Null {
		return nil
	}

	switch v.Kind() {
	case goparquet.Boolean:
		return v.Boolean()
	case goparquet.Int32:
		return int64(v.Int32())
	case goparquet.Int64:
		return v.Int64()
	case goparquet.Float:
		return float64(v.Float())
	case goparquet.Double:
		return v.Double()
	case goparquet.Int96:
		return fmt.Sprint(v.Int96())
	default:
		b := v.ByteArray()
		if c.uuid && len(b) == 16 {
			return uuid.UUID(b).String()
		}
		return string(b)
	}
}

// encodeValue converts a frame value to a parquet value of an optional
// top-level column.
func encodeValue(v any, columnIndex int) goparquet.Value {
	var pv goparquet.Value
	switch v := v.(type) {
	case bool:
		pv = goparquet.BooleanValue(v)
	case int64:
		pv = goparquet.Int64Value(v)
	case float64:
		pv = goparquet.DoubleValue(v)
	case string:
		pv = goparquet.ByteArrayValue([]byte(v))
	default:
		return goparquet.NullValue().Level(0, 0, columnIndex)
	}
	return pv.Level(0, 1, columnIndex)
}
