// Package csv implements the delimited text formats: csv and tsv.
//
// Both share one codec and differ only in the default separator. The first
// record is the header unless the header option is false. Column types are
// inferred from the text: a column is Int64 if every value parses as an
// integer, else Float64, else Boolean (true/false), else String.
//
// An empty unquoted field is null and a quoted empty field ("") is the empty
// string. The writer follows the same rule, so nulls and empty strings survive
// a round trip.
package csv

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/formats/fileio"
	"github.com/vegasq/pandata/frame"
)

// Option keys understood by Read and Write.
const (
	SeparatorKey = "separator"
	QuoteCharKey = "quote-char"
	HeaderKey    = "header"
)

// Format reads and writes delimited text.
type Format struct {
	name string
	sep  byte
	env  fileio.Env
}

var _ format.Format = (*Format)(nil)

// New returns the comma separated format, named "csv".
func New(opts ...fileio.Option) *Format {
	return &Format{name: "csv", sep: ',', env: fileio.New(opts...)}
}

// NewTSV returns the tab separated format, named "tsv".
func NewTSV(opts ...fileio.Option) *Format {
	return &Format{name: "tsv", sep: '\t', env: fileio.New(opts...)}
}

func (f *Format) Name() string { return f.name }

func (f *Format) ReadOptions() format.Options {
	return format.NewOptions(SeparatorKey, QuoteCharKey, HeaderKey, fileio.CompressionKey)
}

type options struct {
	sep         byte
	quote       byte
	header      bool
	compression fileio.Compression
}

func (f *Format) options(args format.Args) (options, error) {
	o := options{sep: f.sep, quote: '"', header: true}
	if c, ok := args.Char(SeparatorKey); ok {
		o.sep = c
	}
	if c, ok := args.Char(QuoteCharKey); ok {
		o.quote = c
	}

	switch {
	case o.sep == o.quote:
		v, _ := args.String(QuoteCharKey)
		return o, &format.InvalidArgumentError{Key: QuoteCharKey, Value: v, Err: errors.New("quote character equals the separator")}
	case o.sep == '\n' || o.sep == '\r':
		v, _ := args.String(SeparatorKey)
		return o, &format.InvalidArgumentError{Key: SeparatorKey, Value: v, Err: errors.New("separator cannot be a line break")}
	}

	if s, ok := args.String(HeaderKey); ok && s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return o, &format.InvalidArgumentError{Key: HeaderKey, Value: s, Err: errors.New("expected true or false")}
		}
		o.header = b
	}

	c, err := fileio.ParseCompression(args)
	if err != nil {
		return o, err
	}
	o.compression = c
	return o, nil
}

// Read parses the whole file and returns a frame over the result.
func (f *Format) Read(path string, args format.Args) (*frame.Frame, error) {
	o, err := f.options(args)
	if err != nil {
		return nil, err
	}

	r, err := f.env.Open(path, o.compression)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	t, err := decode(path, r, o)
	if err != nil {
		return nil, err
	}

	f.env.Logger.Debug("read delimited file",
		zap.String("format", f.name),
		zap.String("path", path),
		zap.Int("rows", t.Height()),
		zap.Int("columns", t.Width()),
	)
	return frame.Scan(fmt.Sprintf("%s %s", f.name, path), func() (*frame.Table, error) {
		return t, nil
	}), nil
}

func decode(path string, r io.Reader, o options) (*frame.Table, error) {
	rr := newRecordReader(r, o.sep, o.quote)
	rr.leadingBlank = !o.header
	wrap := func(err error) error {
		var pe *ParseError
		if errors.As(err, &pe) {
			return &format.MalformedInputError{Path: path, Line: pe.Line, Err: pe.Err}
		}
		return format.NewIOError("read", path, err)
	}

	var (
		names []string
		cols  [][]cell
	)

	first, err := rr.Read()
	if err == io.EOF {
		return frame.NewTable()
	}
	if err != nil {
		return nil, wrap(err)
	}

	cols = make([][]cell, len(first))
	if o.header {
		seen := make(map[string]struct{}, len(first))
		for _, c := range first {
			if _, dup := seen[c.text]; dup {
				return nil, &format.MalformedInputError{Path: path, Line: 1, Column: c.text, Err: errors.New("duplicate column name in header")}
			}
			seen[c.text] = struct{}{}
			names = append(names, c.text)
		}
	} else {
		for i, c := range first {
			names = append(names, fmt.Sprintf("column_%d", i+1))
			cols[i] = append(cols[i], c)
		}
	}

	for {
		rec, err := rr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrap(err)
		}
		for i, c := range rec {
			cols[i] = append(cols[i], c)
		}
	}

	columns := make([]*frame.Column, len(names))
	for i, name := range names {
		dtype := inferType(cols[i])
		values := make([]any, len(cols[i]))
		for j, c := range cols[i] {
			values[j] = convert(c, dtype)
		}
		c, err := frame.NewColumn(name, dtype, values)
		if err != nil {
			return nil, &format.MalformedInputError{Path: path, Column: name, Err: err}
		}
		columns[i] = c
	}
	return frame.NewTable(columns...)
}

// Write materializes data and writes it as delimited text, header first.
func (f *Format) Write(path string, args format.Args, data *frame.Frame) (err error) {
	o, err := f.options(args)
	if err != nil {
		return err
	}

	t, err := data.Collect()
	if err != nil {
		return err
	}

	w, err := f.env.Create(path, o.compression)
	if err != nil {
		return err
	}
	defer fileio.CloseInto(&err, w, path)

	rw := newRecordWriter(w, o.sep, o.quote)
	if o.header {
		if err := rw.Write(t.Schema().Names(), nil); err != nil {
			return format.NewIOError("write", path, err)
		}
	}

	fields := make([]string, t.Width())
	nulls := make([]bool, t.Width())
	for _, row := range t.Rows() {
		for i, v := range row {
			nulls[i] = v == nil
			fields[i] = ""
			if v != nil {
				fields[i] = frame.FormatValue(v)
			}
		}
		if err := rw.Write(fields, nulls); err != nil {
			return format.NewIOError("write", path, err)
		}
	}
	if err := rw.Flush(); err != nil {
		return format.NewIOError("write", path, err)
	}

	f.env.Logger.Debug("wrote delimited file",
		zap.String("format", f.name),
		zap.String("path", path),
		zap.Int("rows", t.Height()),
	)
	return nil
}
