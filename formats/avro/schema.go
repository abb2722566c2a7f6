package avro

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fastjson"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/frame"
)

// nameRe matches a valid Avro name. Full names are dot separated names.
var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validName(name string) bool { return nameRe.MatchString(name) }

func validFullName(name string) bool {
	for part := range strings.SplitSeq(name, ".") {
		if !validName(part) {
			return false
		}
	}
	return true
}

// field is a top-level record field of a writer schema.
type field struct {
	name     string
	dtype    frame.DataType
	union    bool
	nullable bool
	physical string
	logical  string
}

// parseFields lists the fields of a record schema in declaration order.
func parseFields(schema string) ([]field, error) {
	var p fastjson.Parser
	v, err := p.Parse(schema)
	if err != nil {
		return nil, fmt.Errorf("invalid writer schema: %w", err)
	}
	if kind := string(v.GetStringBytes("type")); kind != "record" {
		return nil, fmt.Errorf("top-level schema must be a record, got %q", kind)
	}

	var fields []field
	for _, fv := range v.GetArray("fields") {
		t := fv.Get("type")
		if t == nil {
			return nil, fmt.Errorf("field %q has no type", fv.GetStringBytes("name"))
		}
		f := field{name: string(fv.GetStringBytes("name")), physical: t.String()}
		f.dtype, f.logical = typeOf(t)

		if t.Type() == fastjson.TypeArray {
			f.union = true
			var members []*fastjson.Value
			for _, m := range t.GetArray() {
				if m.Type() == fastjson.TypeString && string(m.GetStringBytes()) == "null" {
					f.nullable = true
					continue
				}
				members = append(members, m)
			}
			f.dtype, f.logical = frame.Null, ""
			if len(members) == 1 {
				f.dtype, f.logical = typeOf(members[0])
			}
		} else if f.dtype == frame.Null {
			f.nullable = true
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// typeOf maps a non-union schema to the frame type its values normalize to.
// Logical types decode to times, durations or decimals, which normalize to
// strings.
func typeOf(t *fastjson.Value) (frame.DataType, string) {
	switch t.Type() {
	case fastjson.TypeString:
		return primitive(string(t.GetStringBytes())), ""
	case fastjson.TypeObject:
		if logical := string(t.GetStringBytes("logicalType")); logical != "" {
			return frame.String, logical
		}
		return primitive(string(t.GetStringBytes("type"))), ""
	default:
		return frame.Null, ""
	}
}

func primitive(name string) frame.DataType {
	switch name {
	case "null":
		return frame.Null
	case "boolean":
		return frame.Boolean
	case "int", "long":
		return frame.Int64
	case "float", "double":
		return frame.Float64
	default:
		// string, bytes, enum, fixed and every complex or named type.
		return frame.String
	}
}

// avroType returns the Avro primitive a frame type is written as.
func avroType(dtype frame.DataType) string {
	switch dtype {
	case frame.Boolean:
		return "boolean"
	case frame.Int64:
		return "long"
	case frame.Float64:
		return "double"
	case frame.String:
		return "string"
	default:
		return "null"
	}
}

type recordSchema struct {
	Type   string        `json:"type"`
	Name   string        `json:"name"`
	Fields []fieldSchema `json:"fields"`
}

type fieldSchema struct {
	Name    string `json:"name"`
	Type    any    `json:"type"`
	Default any    `json:"default"`
}

// writerSchema builds the record schema a table is written with. Every field
// is nullable: a union of null and the column type, defaulting to null.
func writerSchema(name string, s frame.Schema) (string, error) {
	rec := recordSchema{Type: "record", Name: name, Fields: make([]fieldSchema, len(s))}
	for i, f := range s {
		if !validName(f.Name) {
			return "", &format.UnrepresentableError{Format: "avro", Column: f.Name, Err: errInvalidName}
		}
		var typ any = []string{"null", avroType(f.Type)}
		if f.Type == frame.Null {
			typ = "null"
		}
		rec.Fields[i] = fieldSchema{Name: f.Name, Type: typ}
	}
	return jsoniter.MarshalToString(rec)
}

var errInvalidName = errors.New("names must start with a letter or underscore and contain only letters, digits and underscores")
