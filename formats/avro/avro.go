// Package avro implements the avro format: Avro object container files.
//
// Files are written with a single record schema whose fields are unions of
// null and the column type, so every column stays nullable. The record name
// comes from the "name" option and defaults to "pandata". Column names must be
// valid Avro names; anything else is reported as unrepresentable.
//
// Reading accepts any record schema. Logical types (timestamps, dates,
// decimals, durations) and nested records, arrays and maps are read as
// strings.
package avro

import (
	"errors"
	"fmt"

	"github.com/linkedin/goavro/v2"
	"go.uber.org/zap"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/formats/fileio"
	"github.com/vegasq/pandata/frame"
)

// Option keys understood by Write.
const (
	NameKey        = "name"
	CompressionKey = fileio.CompressionKey
)

// DefaultRecordName is the record name used when the name option is absent.
const DefaultRecordName = "pandata"

const appendBatch = 1024

// Format reads and writes Avro container files.
type Format struct {
	env fileio.Env
}

var (
	_ format.Format    = (*Format)(nil)
	_ format.Describer = (*Format)(nil)
)

// New returns the avro format.
func New(opts ...fileio.Option) *Format {
	return &Format{env: fileio.New(opts...)}
}

func (f *Format) Name() string { return "avro" }

// ReadOptions lists the write keys; container files carry their own schema
// and codec, so reading takes none.
func (f *Format) ReadOptions() format.Options {
	return format.NewOptions(CompressionKey, NameKey)
}

func (f *Format) open(path string) (*goavro.OCFReader, func() error, error) {
	r, err := f.env.Open(path, fileio.None)
	if err != nil {
		return nil, nil, err
	}

	ocf, err := goavro.NewOCFReader(r)
	if err != nil {
		_ = r.Close()
		return nil, nil, &format.MalformedInputError{Path: path, Err: err}
	}
	return ocf, r.Close, nil
}

// Read decodes every record of the file and returns a frame over them.
func (f *Format) Read(path string, args format.Args) (*frame.Frame, error) {
	ocf, closeFn, err := f.open(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	fields, err := parseFields(ocf.Codec().Schema())
	if err != nil {
		return nil, &format.MalformedInputError{Path: path, Err: err}
	}

	declared := make([]frame.Field, len(fields))
	for i, fd := range fields {
		declared[i] = frame.Field{Name: fd.name, Type: fd.dtype}
	}
	b := frame.NewBuilder(declared...)

	row := make([]any, len(fields))
	for ocf.Scan() {
		d, err := ocf.Read()
		if err != nil {
			return nil, &format.MalformedInputError{Path: path, Err: fmt.Errorf("record %d: %w", b.Len(), err)}
		}
		rec, ok := d.(map[string]any)
		if !ok {
			return nil, &format.MalformedInputError{Path: path, Err: fmt.Errorf("record %d: expected a record, got %T", b.Len(), d)}
		}

		for i, fd := range fields {
			v, err := normalize(rec[fd.name], fd.union)
			if err != nil {
				return nil, &format.MalformedInputError{Path: path, Column: fd.name, Err: err}
			}
			row[i] = v
		}
		if err := b.Append(row); err != nil {
			return nil, &format.MalformedInputError{Path: path, Err: err}
		}
	}
	if err := ocf.Err(); err != nil {
		return nil, &format.MalformedInputError{Path: path, Err: err}
	}

	t, err := b.Finish()
	if err != nil {
		return nil, &format.MalformedInputError{Path: path, Err: err}
	}

	f.env.Logger.Debug("read avro file",
		zap.String("path", path),
		zap.String("codec", ocf.CompressionName()),
		zap.Int("rows", t.Height()),
		zap.Int("columns", t.Width()),
	)
	return frame.Scan("avro "+path, func() (*frame.Table, error) {
		return t, nil
	}), nil
}

// Describe reports the writer schema of path.
func (f *Format) Describe(path string, args format.Args) ([]format.ColumnInfo, error) {
	ocf, closeFn, err := f.open(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	fields, err := parseFields(ocf.Codec().Schema())
	if err != nil {
		return nil, &format.MalformedInputError{Path: path, Err: err}
	}

	infos := make([]format.ColumnInfo, len(fields))
	for i, fd := range fields {
		infos[i] = format.ColumnInfo{
			Name:     fd.name,
			Type:     fd.dtype,
			Physical: fd.physical,
			Logical:  fd.logical,
			Nullable: fd.nullable,
		}
	}
	return infos, nil
}

func parseCompression(args format.Args) (string, error) {
	s, ok := args.String(CompressionKey)
	if !ok || s == "" {
		return goavro.CompressionNullLabel, nil
	}
	switch s {
	case "none", goavro.CompressionNullLabel:
		return goavro.CompressionNullLabel, nil
	case goavro.CompressionDeflateLabel, goavro.CompressionSnappyLabel:
		return s, nil
	default:
		return "", &format.InvalidArgumentError{Key: CompressionKey, Value: s, Err: errors.New("expected one of null, deflate, snappy")}
	}
}

func recordName(args format.Args) (string, error) {
	name, ok := args.String(NameKey)
	if !ok {
		return DefaultRecordName, nil
	}
	if name == "" || !validFullName(name) {
		return "", &format.InvalidArgumentError{Key: NameKey, Value: name, Err: errInvalidName}
	}
	return name, nil
}

// Write consolidates data into a single chunk and writes it as one container
// file.
func (f *Format) Write(path string, args format.Args, data *frame.Frame) (err error) {
	name, err := recordName(args)
	if err != nil {
		return err
	}
	codec, err := parseCompression(args)
	if err != nil {
		return err
	}

	t, err := data.Rechunk().Collect()
	if err != nil {
		return err
	}
	schema, err := writerSchema(name, t.Schema())
	if err != nil {
		return err
	}

	w, err := f.env.Create(path, fileio.None)
	if err != nil {
		return err
	}
	defer fileio.CloseInto(&err, w, path)

	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Schema:          schema,
		CompressionName: codec,
	})
	if err != nil {
		return fmt.Errorf("avro writer: %w", err)
	}

	types := make([]string, t.Width())
	for i, fd := range t.Schema() {
		types[i] = avroType(fd.Type)
	}
	names := t.Schema().Names()

	batch := make([]any, 0, appendBatch)
	for _, row := range t.Rows() {
		rec := make(map[string]any, len(row))
		for i, v := range row {
			rec[names[i]] = datum(v, types[i])
		}
		batch = append(batch, rec)
		if len(batch) == appendBatch {
			if err := ocf.Append(batch); err != nil {
				return format.NewIOError("write", path, err)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := ocf.Append(batch); err != nil {
			return format.NewIOError("write", path, err)
		}
	}

	f.env.Logger.Debug("wrote avro file",
		zap.String("path", path),
		zap.String("record", name),
		zap.String("codec", codec),
		zap.Int("rows", t.Height()),
	)
	return nil
}
