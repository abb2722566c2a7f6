package json

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/valyala/fastjson"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/frame"
)

var errNotObject = errors.New("expected a JSON object")

type decoder struct {
	path   string
	parser fastjson.Parser
	b      *frame.Builder

	keys   []string
	values []any
}

func newDecoder(path string) *decoder {
	return &decoder{path: path, b: frame.NewBuilder()}
}

func (d *decoder) decodeLines(r io.Reader) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for line := 1; ; line++ {
		data, err := br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return format.NewIOError("read", d.path, err)
		}

		if len(bytes.TrimSpace(data)) > 0 {
			v, perr := d.parser.ParseBytes(data)
			if perr != nil {
				return &format.MalformedInputError{Path: d.path, Line: line, Err: perr}
			}
			if rerr := d.appendObject(v); rerr != nil {
				return &format.MalformedInputError{Path: d.path, Line: line, Err: rerr}
			}
		}

		if err == io.EOF {
			return nil
		}
	}
}

func (d *decoder) decodeArray(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return format.NewIOError("read", d.path, err)
	}

	v, err := d.parser.ParseBytes(data)
	if err != nil {
		return &format.MalformedInputError{Path: d.path, Err: err}
	}
	items, err := v.Array()
	if err != nil {
		return &format.MalformedInputError{Path: d.path, Err: fmt.Errorf("expected a top-level array: %w", err)}
	}
	for i, item := range items {
		if err := d.appendObject(item); err != nil {
			return &format.MalformedInputError{Path: d.path, Err: fmt.Errorf("element %d: %w", i, err)}
		}
	}
	return nil
}

func (d *decoder) appendObject(v *fastjson.Value) error {
	if v.Type() != fastjson.TypeObject {
		return fmt.Errorf("%w, got %s", errNotObject, v.Type())
	}
	obj, _ := v.Object()

	d.keys = d.keys[:0]
	d.values = d.values[:0]
	obj.Visit(func(key []byte, v *fastjson.Value) {
		d.keys = append(d.keys, string(key))
		d.values = append(d.values, scalar(v))
	})
	return d.b.AppendRecord(d.keys, d.values)
}

func scalar(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeNull:
		return nil
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeNumber:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return f
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	default:
		return v.String()
	}
}
