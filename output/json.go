package output

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

// JSONFormatter outputs a listing as JSON Lines, keys in column order
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per row
func (j *JSONFormatter) Format(l Listing) error {
	stream := jsoniter.NewStream(jsoniter.ConfigCompatibleWithStandardLibrary, j.writer, 4096)
	for _, row := range l.Rows {
		stream.WriteObjectStart()
		for i, col := range l.Columns {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(col)
			stream.WriteVal(row[i])
		}
		stream.WriteObjectEnd()
		stream.WriteRaw("\n")
		if stream.Error != nil {
			return stream.Error
		}
	}
	return stream.Flush()
}
