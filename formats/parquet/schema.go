package parquet

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	goparquet "github.com/parquet-go/parquet-go"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/frame"
)

// columnsKey is the key/value metadata entry recording column order and types.
const columnsKey = "pandata.columns"

var errRepeated = errors.New("repeated columns cannot be flattened into a table")

// columnMeta is one entry of the columnsKey metadata.
type columnMeta struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// leaf is a readable column of a parquet file.
type leaf struct {
	name     string
	index    int
	dtype    frame.DataType
	node     goparquet.Node
	optional bool
	uuid     bool
}

// leaves lists the columns of pf in table order. Nested fields are named with
// dot notation.
func leaves(path string, pf *goparquet.File) ([]leaf, error) {
	schema := pf.Schema()

	var cols []leaf
	for _, p := range schema.Columns() {
		lc, ok := schema.Lookup(p...)
		if !ok {
			continue
		}

		name := strings.Join(p, ".")
		if lc.MaxRepetitionLevel > 0 {
			return nil, &format.MalformedInputError{Path: path, Column: name, Err: errRepeated}
		}

		cols = append(cols, leaf{
			name:     name,
			index:    lc.ColumnIndex,
			dtype:    dataType(lc.Node),
			node:     lc.Node,
			optional: lc.MaxDefinitionLevel > 0,
			uuid:     logicalType(lc.Node) == "UUID",
		})
	}

	meta, ok := pf.Lookup(columnsKey)
	if !ok {
		return cols, nil
	}
	var recorded []columnMeta
	if err := jsoniter.UnmarshalFromString(meta, &recorded); err != nil {
		return nil, &format.MalformedInputError{Path: path, Err: fmt.Errorf("metadata %s: %w", columnsKey, err)}
	}
	return restoreOrder(cols, recorded), nil
}

// restoreOrder reorders cols to the recorded order and restores NULL column
// types. The recording is ignored when it does not name the same columns.
func restoreOrder(cols []leaf, recorded []columnMeta) []leaf {
	if len(recorded) != len(cols) {
		return cols
	}

	byName := make(map[string]leaf, len(cols))
	for _, c := range cols {
		byName[c.name] = c
	}

	ordered := make([]leaf, 0, len(cols))
	for _, m := range recorded {
		c, ok := byName[m.Name]
		if !ok {
			return cols
		}
		if m.Type == frame.Null.String() {
			c.dtype = frame.Null
		}
		ordered = append(ordered, c)
		delete(byName, m.Name)
	}
	return ordered
}

// dataType maps a leaf node to the frame type its values read as.
func dataType(node goparquet.Node) frame.DataType {
	switch node.Type().Kind() {
	case goparquet.Boolean:
		return frame.Boolean
	case goparquet.Int32, goparquet.Int64:
		return frame.Int64
	case goparquet.Float, goparquet.Double:
		return frame.Float64
	default:
		return frame.String
	}
}

// schemaFor builds the parquet schema a table is written with and returns,
// for each table column, its column index in that schema.
func schemaFor(t *frame.Table) (*goparquet.Schema, []int, error) {
	group := make(goparquet.Group, t.Width())
	for _, c := range t.Columns() {
		group[c.Name()] = goparquet.Optional(nodeFor(c.Type()))
	}
	schema := goparquet.NewSchema("pandata", group)

	index := make([]int, t.Width())
	for i, c := range t.Columns() {
		lc, ok := schema.Lookup(c.Name())
		if !ok {
			return nil, nil, &format.UnrepresentableError{Format: "parquet", Column: c.Name(), Err: errors.New("column missing from generated schema")}
		}
		index[i] = lc.ColumnIndex
	}
	return schema, index, nil
}

func nodeFor(dtype frame.DataType) goparquet.Node {
	switch dtype {
	case frame.Boolean:
		return goparquet.Leaf(goparquet.BooleanType)
	case frame.Int64:
		return goparquet.Int(64)
	case frame.Float64:
		return goparquet.Leaf(goparquet.DoubleType)
	case frame.String:
		return goparquet.String()
	default:
		// All values are null; the physical type only has to exist.
		return goparquet.Leaf(goparquet.Int32Type)
	}
}

func columnsMetadata(t *frame.Table) (string, error) {
	meta := make([]columnMeta, t.Width())
	for i, f := range t.Schema() {
		meta[i] = columnMeta{Name: f.Name, Type: f.Type.String()}
	}
	return jsoniter.MarshalToString(meta)
}

// physicalType returns the physical type name of a leaf node.
func physicalType(node goparquet.Node) string {
	if node.Type() == nil {
		return "GROUP"
	}

	switch node.Type().Kind() {
	case goparquet.Boolean:
		return "BOOLEAN"
	case goparquet.Int32:
		return "INT32"
	case goparquet.Int64:
		return "INT64"
	case goparquet.Int96:
		return "INT96"
	case goparquet.Float:
		return "FLOAT"
	case goparquet.Double:
		return "DOUBLE"
	case goparquet.ByteArray:
		return "BYTE_ARRAY"
	case goparquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// logicalType returns the logical type annotation of a leaf node, if any.
func logicalType(node goparquet.Node) string {
	if node.Type() == nil {
		return ""
	}
	lt := node.Type().LogicalType()
	if lt == nil {
		return ""
	}
	return lt.String()
}
