package csv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

var (
	ErrBareQuote         = errors.New("bare quote in non-quoted field")
	ErrQuote             = errors.New("extraneous or missing quote in quoted field")
	ErrUnterminatedQuote = errors.New("quoted field not terminated before end of input")
	ErrFieldCount        = errors.New("wrong number of fields")
)

// ParseError locates a syntax error in delimited input.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// cell is one parsed field. Quoted distinguishes `""` (an empty string) from
// an empty unquoted field (a null).
type cell struct {
	text   string
	quoted bool
}

func (c cell) null() bool { return !c.quoted && c.text == "" }

// recordReader splits delimited text into records. Quoted fields may contain
// the separator, doubled quote characters and line breaks. Both LF and CRLF
// terminate a record.
type recordReader struct {
	r     *bufio.Reader
	sep   byte
	quote byte
	line  int

	// fields is the expected field count, set from the first record.
	fields int
	// leadingBlank makes a blank first line a record. Headerless input may
	// start with a null row.
	leadingBlank bool
}

func newRecordReader(r io.Reader, sep, quote byte) *recordReader {
	return &recordReader{r: bufio.NewReaderSize(r, 64*1024), sep: sep, quote: quote, fields: -1}
}

// Read returns the next record, or io.EOF after the last one.
func (rr *recordReader) Read() ([]cell, error) {
	for {
		rec, err := rr.readRecord()
		if err != nil {
			return nil, err
		}
		// A blank line is a null row only when records have a single field.
		if len(rec) == 1 && rec[0].null() && !rr.blankIsRecord() {
			continue
		}

		if rr.fields < 0 {
			rr.fields = len(rec)
		} else if len(rec) != rr.fields {
			return nil, &ParseError{Line: rr.line, Err: fmt.Errorf("%w: got %d, expected %d", ErrFieldCount, len(rec), rr.fields)}
		}
		return rec, nil
	}
}

func (rr *recordReader) blankIsRecord() bool {
	return rr.fields == 1 || (rr.fields < 0 && rr.leadingBlank)
}

func (rr *recordReader) readRecord() ([]cell, error) {
	if _, err := rr.r.Peek(1); err != nil {
		return nil, err
	}

	rr.line++
	var (
		rec   []cell
		buf   []byte
		start = rr.line
	)

	for {
		b, err := rr.r.ReadByte()
		if err == io.EOF {
			return append(rec, cell{text: string(buf)}), nil
		}
		if err != nil {
			return nil, err
		}

		switch {
		case b == rr.quote && len(buf) == 0:
			text, err := rr.readQuoted(start)
			if err != nil {
				return nil, err
			}
			rec = append(rec, cell{text: text, quoted: true})

			end, err := rr.afterQuoted()
			if err != nil {
				return nil, err
			}
			if end {
				return rec, nil
			}
		case b == rr.quote:
			return nil, &ParseError{Line: rr.line, Err: ErrBareQuote}
		case b == rr.sep:
			rec = append(rec, cell{text: string(buf)})
			buf = buf[:0]
		case b == '\n':
			return append(rec, cell{text: trimCR(buf)}), nil
		default:
			buf = append(buf, b)
		}
	}
}

// readQuoted consumes a quoted field body after its opening quote.
func (rr *recordReader) readQuoted(start int) (string, error) {
	var buf []byte
	for {
		b, err := rr.r.ReadByte()
		if err == io.EOF {
			return "", &ParseError{Line: start, Err: ErrUnterminatedQuote}
		}
		if err != nil {
			return "", err
		}

		if b == '\n' {
			rr.line++
		}
		if b != rr.quote {
			buf = append(buf, b)
			continue
		}

		next, err := rr.r.ReadByte()
		if err == nil && next == rr.quote {
			buf = append(buf, rr.quote)
			continue
		}
		if err == nil {
			_ = rr.r.UnreadByte()
		} else if err != io.EOF {
			return "", err
		}
		return string(buf), nil
	}
}

// afterQuoted consumes what follows a closing quote: a separator, a line end
// or the end of input. It reports whether the record ended.
func (rr *recordReader) afterQuoted() (bool, error) {
	b, err := rr.r.ReadByte()
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	switch b {
	case rr.sep:
		// A separator right before the line end opens an empty last field.
		return false, nil
	case '\n':
		return true, nil
	case '\r':
		next, err := rr.r.ReadByte()
		if err == io.EOF || (err == nil && next == '\n') {
			return true, nil
		}
	}
	return false, &ParseError{Line: rr.line, Err: ErrQuote}
}

func trimCR(buf []byte) string {
	if n := len(buf); n > 0 && buf[n-1] == '\r' {
		buf = buf[:n-1]
	}
	return string(buf)
}
