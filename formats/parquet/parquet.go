package parquet

import (
	"errors"
	"fmt"
	"io"

	goparquet "github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/formats/fileio"
	"github.com/vegasq/pandata/frame"
)

// Option keys understood by Write.
const (
	CompressionKey  = fileio.CompressionKey
	RowGroupSizeKey = "row-group-size"
)

// rowBatch is the number of rows moved per ReadRows or WriteRows call.
const rowBatch = 1024

var codecs = map[string]compress.Codec{
	"none":   &goparquet.Uncompressed,
	"snappy": &goparquet.Snappy,
	"gzip":   &goparquet.Gzip,
	"zstd":   &goparquet.Zstd,
}

// Format reads and writes parquet files.
type Format struct {
	env fileio.Env
}

var (
	_ format.Format    = (*Format)(nil)
	_ format.Describer = (*Format)(nil)
)

// New returns the parquet format.
func New(opts ...fileio.Option) *Format {
	return &Format{env: fileio.New(opts...)}
}

func (f *Format) Name() string { return "parquet" }

// ReadOptions lists the write keys; reading takes no options since parquet
// files describe themselves.
func (f *Format) ReadOptions() format.Options {
	return format.NewOptions(CompressionKey, RowGroupSizeKey)
}

// open opens path and parses the parquet footer. The caller closes the
// returned file.
func (f *Format) open(path string) (afero.File, *goparquet.File, error) {
	file, size, err := f.env.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}

	pf, err := goparquet.OpenFile(file, size)
	if err != nil {
		_ = file.Close()
		return nil, nil, &format.MalformedInputError{Path: path, Err: fmt.Errorf("failed to open parquet file: %w", err)}
	}
	return file, pf, nil
}

// Read validates the file layout and returns a Frame that decodes the rows
// when collected.
func (f *Format) Read(path string, args format.Args) (*frame.Frame, error) {
	file, pf, err := f.open(path)
	if err != nil {
		return nil, err
	}
	cols, err := leaves(path, pf)
	_ = file.Close()
	if err != nil {
		return nil, err
	}

	f.env.Logger.Debug("opened parquet file",
		zap.String("path", path),
		zap.Int64("rows", pf.NumRows()),
		zap.Int("row_groups", len(pf.RowGroups())),
		zap.Int("columns", len(cols)),
	)

	return frame.Scan("parquet "+path, func() (*frame.Table, error) {
		return f.scan(path)
	}), nil
}

func (f *Format) scan(path string) (*frame.Table, error) {
	file, pf, err := f.open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cols, err := leaves(path, pf)
	if err != nil {
		return nil, err
	}
	return decode(path, pf, cols)
}

// decode reads every row group of pf into one chunk per group.
func decode(path string, pf *goparquet.File, cols []leaf) (*frame.Table, error) {
	pos := make(map[int]int, len(cols))
	for i, c := range cols {
		pos[c.index] = i
	}

	out, err := emptyTable(cols)
	if err != nil {
		return nil, err
	}

	buf := make([]goparquet.Row, rowBatch)
	for g, rg := range pf.RowGroups() {
		values := make([][]any, len(cols))
		for i := range values {
			values[i] = make([]any, 0, rg.NumRows())
		}

		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				for _, v := range row {
					if i, ok := pos[v.Column()]; ok {
						values[i] = append(values[i], cols[i].value(v))
					}
				}
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				_ = rows.Close()
				return nil, &format.MalformedInputError{Path: path, Err: fmt.Errorf("row group %d: %w", g, err)}
			}
		}
		_ = rows.Close()

		chunk, err := tableOf(cols, values)
		if err != nil {
			return nil, &format.MalformedInputError{Path: path, Err: fmt.Errorf("row group %d: %w", g, err)}
		}
		if out, err = out.Append(chunk); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func emptyTable(cols []leaf) (*frame.Table, error) {
	return tableOf(cols, make([][]any, len(cols)))
}

func tableOf(cols []leaf, values [][]any) (*frame.Table, error) {
	columns := make([]*frame.Column, len(cols))
	for i, c := range cols {
		col, err := frame.NewColumn(c.name, c.dtype, values[i])
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}
	return frame.NewTable(columns...)
}

// Describe reports the stored schema of path without decoding rows.
func (f *Format) Describe(path string, args format.Args) ([]format.ColumnInfo, error) {
	file, pf, err := f.open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cols, err := leaves(path, pf)
	if err != nil {
		return nil, err
	}

	infos := make([]format.ColumnInfo, len(cols))
	for i, c := range cols {
		infos[i] = format.ColumnInfo{
			Name:     c.name,
			Type:     c.dtype,
			Physical: physicalType(c.node),
			Logical:  logicalType(c.node),
			Nullable: c.optional,
		}
	}
	return infos, nil
}

type writeOptions struct {
	codec        compress.Codec
	rowGroupSize int64
}

func parseWriteOptions(args format.Args) (writeOptions, error) {
	o := writeOptions{codec: &goparquet.Zstd}

	if s, ok := args.String(CompressionKey); ok && s != "" {
		c, known := codecs[s]
		if !known {
			return o, &format.InvalidArgumentError{Key: CompressionKey, Value: s, Err: errors.New("expected one of none, snappy, gzip, zstd")}
		}
		o.codec = c
	}

	if n, ok := args.Long(RowGroupSizeKey); ok {
		if n <= 0 {
			return o, &format.InvalidArgumentError{Key: RowGroupSizeKey, Value: fmt.Sprint(n), Err: errors.New("must be positive")}
		}
		o.rowGroupSize = n
	}
	return o, nil
}

// Write consolidates data into a single chunk and writes it as one parquet
// file.
func (f *Format) Write(path string, args format.Args, data *frame.Frame) (err error) {
	o, err := parseWriteOptions(args)
	if err != nil {
		return err
	}

	t, err := data.Rechunk().Collect()
	if err != nil {
		return err
	}
	if t.Width() == 0 {
		return &format.UnrepresentableError{Format: "parquet", Err: errors.New("a table needs at least one column")}
	}

	schema, index, err := schemaFor(t)
	if err != nil {
		return err
	}
	meta, err := columnsMetadata(t)
	if err != nil {
		return err
	}

	w, err := f.env.Create(path, fileio.None)
	if err != nil {
		return err
	}
	defer fileio.CloseInto(&err, w, path)

	opts := []goparquet.WriterOption{
		schema,
		goparquet.Compression(o.codec),
		goparquet.KeyValueMetadata(columnsKey, meta),
	}
	if o.rowGroupSize > 0 {
		opts = append(opts, goparquet.MaxRowsPerRowGroup(o.rowGroupSize))
	}
	pw := goparquet.NewWriter(w, opts...)

	batch := make([]goparquet.Row, 0, rowBatch)
	flush := func() error {
		if _, err := pw.WriteRows(batch); err != nil {
			return format.NewIOError("write", path, err)
		}
		batch = batch[:0]
		return nil
	}

	for _, row := range t.Rows() {
		out := make(goparquet.Row, len(row))
		for i, v := range row {
			out[index[i]] = encodeValue(v, index[i])
		}
		batch = append(batch, out)
		if len(batch) == rowBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return err
		}
	}
	if err := pw.Close(); err != nil {
		return format.NewIOError("write", path, err)
	}

	f.env.Logger.Debug("wrote parquet file",
		zap.String("path", path),
		zap.Int("rows", t.Height()),
		zap.String("codec", o.codec.String()),
	)
	return nil
}
