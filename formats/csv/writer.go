package csv

import (
	"bufio"
	"bytes"
	"io"
)

// recordWriter writes delimited records. A nil value is written as an empty
// unquoted field and an empty string as a quoted empty field, so the reader
// can tell them apart.
type recordWriter struct {
	w     *bufio.Writer
	sep   byte
	quote byte
	row   bytes.Buffer
}

func newRecordWriter(w io.Writer, sep, quote byte) *recordWriter {
	return &recordWriter{w: bufio.NewWriterSize(w, 64*1024), sep: sep, quote: quote}
}

// Write writes one record. Fields are given as text plus a null marker.
func (rw *recordWriter) Write(fields []string, nulls []bool) error {
	rw.row.Reset()
	for i, field := range fields {
		if i > 0 {
			rw.row.WriteByte(rw.sep)
		}
		if nulls != nil && nulls[i] {
			continue
		}
		rw.writeField(field)
	}
	rw.row.WriteByte('\n')

	_, err := rw.w.Write(rw.row.Bytes())
	return err
}

// Flush writes buffered data to the underlying writer.
func (rw *recordWriter) Flush() error {
	return rw.w.Flush()
}

func (rw *recordWriter) writeField(field string) {
	if !rw.needsQuotes(field) {
		rw.row.WriteString(field)
		return
	}

	rw.row.WriteByte(rw.quote)
	for i := 0; i < len(field); i++ {
		if field[i] == rw.quote {
			rw.row.WriteByte(rw.quote)
		}
		rw.row.WriteByte(field[i])
	}
	rw.row.WriteByte(rw.quote)
}

func (rw *recordWriter) needsQuotes(field string) bool {
	if field == "" {
		return true
	}
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case rw.sep, rw.quote, '\n', '\r':
			return true
		}
	}
	return false
}
