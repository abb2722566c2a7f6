package json

import (
	"errors"
	"io"
	"math"

	jsoniter "github.com/json-iterator/go"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/frame"
)

const flushThreshold = 64 * 1024

func encode(w io.Writer, path string, t *frame.Table, layout Layout) error {
	stream := jsoniter.NewStream(jsoniter.ConfigDefault, w, 4096)
	names := t.Schema().Names()

	if layout == Array {
		stream.WriteArrayStart()
	}
	for r, row := range t.Rows() {
		if layout == Array && r > 0 {
			stream.WriteMore()
		}

		stream.WriteObjectStart()
		for i, v := range row {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(names[i])
			if err := writeValue(stream, v); err != nil {
				return &format.UnrepresentableError{Format: "json", Column: names[i], Type: t.Column(i).Type().String(), Err: err}
			}
		}
		stream.WriteObjectEnd()
		if layout == Lines {
			stream.WriteRaw("\n")
		}

		if stream.Buffered() > flushThreshold {
			if err := stream.Flush(); err != nil {
				return format.NewIOError("write", path, err)
			}
		}
	}
	if layout == Array {
		stream.WriteArrayEnd()
		stream.WriteRaw("\n")
	}

	if stream.Error != nil {
		return format.NewIOError("write", path, stream.Error)
	}
	if err := stream.Flush(); err != nil {
		return format.NewIOError("write", path, err)
	}
	return nil
}

func writeValue(stream *jsoniter.Stream, v any) error {
	switch v := v.(type) {
	case nil:
		stream.WriteNil()
	case bool:
		stream.WriteBool(v)
	case int64:
		stream.WriteInt64(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("JSON has no encoding for NaN or infinity")
		}
		// Keep the fraction so the value reads back as a float.
		stream.WriteRaw(frame.FormatFloat(v))
	case string:
		stream.WriteString(v)
	}
	return nil
}
