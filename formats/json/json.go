// Package json implements the json format: newline delimited JSON objects, one
// row per line. The json-format option switches reading and writing to a
// single top-level array of objects.
//
// Columns appear in the order their keys are first seen; a key missing from a
// row is null. Integral numbers read as Int64, other numbers as Float64, and
// nested objects or arrays are kept as their JSON text in a String column.
package json

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/formats/fileio"
	"github.com/vegasq/pandata/frame"
)

// LayoutKey selects the document layout.
const LayoutKey = "json-format"

// Layout is the shape of a JSON document.
type Layout string

const (
	Lines Layout = "lines"
	Array Layout = "array"
)

// Format reads and writes JSON.
type Format struct {
	env fileio.Env
}

var _ format.Format = (*Format)(nil)

// New returns the json format.
func New(opts ...fileio.Option) *Format {
	return &Format{env: fileio.New(opts...)}
}

func (f *Format) Name() string { return "json" }

func (f *Format) ReadOptions() format.Options {
	return format.NewOptions(LayoutKey, fileio.CompressionKey)
}

func parseOptions(args format.Args) (Layout, fileio.Compression, error) {
	layout := Lines
	if s, ok := args.String(LayoutKey); ok && s != "" {
		switch l := Layout(s); l {
		case Lines, Array:
			layout = l
		default:
			return "", "", &format.InvalidArgumentError{Key: LayoutKey, Value: s, Err: errors.New("expected lines or array")}
		}
	}

	c, err := fileio.ParseCompression(args)
	if err != nil {
		return "", "", err
	}
	return layout, c, nil
}

// Read parses the whole document and returns a frame over the result.
func (f *Format) Read(path string, args format.Args) (*frame.Frame, error) {
	layout, c, err := parseOptions(args)
	if err != nil {
		return nil, err
	}

	r, err := f.env.Open(path, c)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	d := newDecoder(path)
	if layout == Array {
		err = d.decodeArray(r)
	} else {
		err = d.decodeLines(r)
	}
	if err != nil {
		return nil, err
	}

	t, err := d.b.Finish()
	if err != nil {
		return nil, &format.MalformedInputError{Path: path, Err: err}
	}

	f.env.Logger.Debug("read json file",
		zap.String("path", path),
		zap.String("layout", string(layout)),
		zap.Int("rows", t.Height()),
		zap.Int("columns", t.Width()),
	)
	return frame.Scan(fmt.Sprintf("json %s", path), func() (*frame.Table, error) {
		return t, nil
	}), nil
}

// Write materializes data and writes one object per row, in row order.
func (f *Format) Write(path string, args format.Args, data *frame.Frame) (err error) {
	layout, c, err := parseOptions(args)
	if err != nil {
		return err
	}

	t, err := data.Collect()
	if err != nil {
		return err
	}

	w, err := f.env.Create(path, c)
	if err != nil {
		return err
	}
	defer fileio.CloseInto(&err, w, path)

	if err := encode(w, path, t, layout); err != nil {
		return err
	}

	f.env.Logger.Debug("wrote json file",
		zap.String("path", path),
		zap.String("layout", string(layout)),
		zap.Int("rows", t.Height()),
	)
	return nil
}
