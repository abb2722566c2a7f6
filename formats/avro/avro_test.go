package avro_test

import (
	"testing"

	"github.com/linkedin/goavro/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/formats/avro"
	"github.com/vegasq/pandata/formats/fileio"
	"github.com/vegasq/pandata/frame"
)

func newFormat() (*avro.Format, afero.Fs) {
	mem := afero.NewMemMapFs()
	return avro.New(fileio.WithFs(mem)), mem
}

func args(t *testing.T, pairs ...string) format.Args {
	t.Helper()
	a, err := format.ArgsFromPairs(pairs...)
	require.NoError(t, err)
	return a
}

func readTable(t *testing.T, f *avro.Format, path string) *frame.Table {
	t.Helper()
	fr, err := f.Read(path, format.NewArgs())
	require.NoError(t, err)
	tbl, err := fr.Collect()
	require.NoError(t, err)
	return tbl
}

func writerSchemaOf(t *testing.T, mem afero.Fs, path string) string {
	t.Helper()
	file, err := mem.Open(path)
	require.NoError(t, err)
	defer file.Close()
	ocf, err := goavro.NewOCFReader(file)
	require.NoError(t, err)
	return ocf.Codec().Schema()
}

func sample() *frame.Table {
	return frame.MustTable(
		frame.MustColumn("id", frame.Int64, int64(1), int64(2), nil),
		frame.MustColumn("name", frame.String, "a", "", nil),
		frame.MustColumn("score", frame.Float64, 1.5, nil, -2.0),
		frame.MustColumn("ok", frame.Boolean, true, false, nil),
		frame.MustColumn("nothing", frame.Null, nil, nil, nil),
	)
}

func TestReadOptions(t *testing.T) {
	t.Parallel()

	f, _ := newFormat()
	assert.Equal(t, []string{"compression", "name"}, f.ReadOptions().Sorted())
	assert.True(t, f.ReadOptions().Has(avro.NameKey))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	f, mem := newFormat()
	in := sample()
	require.NoError(t, f.Write("out.avro", format.NewArgs(), frame.FromTable(in)))

	out := readTable(t, f, "out.avro")
	assert.Equal(t, in.Schema(), out.Schema())
	for i := range in.Width() {
		assert.Equal(t, in.Column(i).Values(), out.Column(i).Values(), in.Column(i).Name())
	}

	assert.Contains(t, writerSchemaOf(t, mem, "out.avro"), `"name":"pandata"`)
}

func TestWrite_RecordName(t *testing.T) {
	t.Parallel()

	f, mem := newFormat()
	require.NoError(t, f.Write("out.avro", args(t, "name=com.example.Person"), frame.FromTable(sample())))
	assert.Contains(t, writerSchemaOf(t, mem, "out.avro"), "Person")

	for _, bad := range []string{"name=", "name=1abc", "name=has space"} {
		err := f.Write("bad.avro", args(t, bad), frame.FromTable(sample()))
		assert.ErrorIs(t, err, format.ErrInvalidArgument, bad)
	}
}

func TestWrite_InvalidColumnName(t *testing.T) {
	t.Parallel()

	f, _ := newFormat()
	in := frame.MustTable(frame.MustColumn("first name", frame.String, "x"))
	err := f.Write("out.avro", format.NewArgs(), frame.FromTable(in))

	var unrep *format.UnrepresentableError
	require.ErrorAs(t, err, &unrep)
	assert.Equal(t, "first name", unrep.Column)
	assert.ErrorIs(t, err, format.ErrUnrepresentable)
}

func TestWrite_Compression(t *testing.T) {
	t.Parallel()

	for _, codec := range []string{"null", "none", "deflate", "snappy"} {
		t.Run(codec, func(t *testing.T) {
			t.Parallel()

			f, _ := newFormat()
			in := sample()
			require.NoError(t, f.Write("out.avro", args(t, "compression="+codec), frame.FromTable(in)))
			out := readTable(t, f, "out.avro")
			assert.Equal(t, in.Height(), out.Height())
		})
	}

	f, _ := newFormat()
	err := f.Write("out.avro", args(t, "compression=brotli"), frame.FromTable(sample()))
	assert.ErrorIs(t, err, format.ErrInvalidArgument)
}

func TestRead_ForeignSchema(t *testing.T) {
	t.Parallel()

	f, mem := newFormat()
	file, err := mem.Create("ext.avro")
	require.NoError(t, err)

	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W: file,
		Schema: `{"type": "record", "name": "Ext", "fields": [
			{"name": "i", "type": "int"},
			{"name": "f", "type": "float"},
			{"name": "b", "type": "bytes"},
			{"name": "e", "type": {"type": "enum", "name": "Color", "symbols": ["RED", "BLUE"]}},
			{"name": "tags", "type": {"type": "array", "items": "string"}},
			{"name": "opt", "type": ["null", "int"], "default": null}
		]}`,
	})
	require.NoError(t, err)
	require.NoError(t, ocf.Append([]any{
		map[string]any{"i": int32(1), "f": float32(0.5), "b": []byte("xy"), "e": "RED", "tags": []any{"a", "b"}, "opt": goavro.Union("int", int32(7))},
		map[string]any{"i": int32(2), "f": float32(1), "b": []byte{}, "e": "BLUE", "tags": []any{}, "opt": nil},
	}))
	require.NoError(t, file.Close())

	tbl := readTable(t, f, "ext.avro")
	assert.Equal(t, frame.Schema{
		{Name: "i", Type: frame.Int64},
		{Name: "f", Type: frame.Float64},
		{Name: "b", Type: frame.String},
		{Name: "e", Type: frame.String},
		{Name: "tags", Type: frame.String},
		{Name: "opt", Type: frame.Int64},
	}, tbl.Schema())

	assert.Equal(t, []any{int64(1), int64(2)}, tbl.Column(0).Values())
	assert.Equal(t, []any{0.5, 1.0}, tbl.Column(1).Values())
	assert.Equal(t, []any{"xy", ""}, tbl.Column(2).Values())
	assert.Equal(t, []any{"RED", "BLUE"}, tbl.Column(3).Values())
	assert.Equal(t, []any{`["a","b"]`, `[]`}, tbl.Column(4).Values())
	assert.Equal(t, []any{int64(7), nil}, tbl.Column(5).Values())

	infos, err := f.Describe("ext.avro", format.NewArgs())
	require.NoError(t, err)
	require.Len(t, infos, 6)
	assert.Equal(t, `"int"`, infos[0].Physical)
	assert.False(t, infos[0].Nullable)
	assert.True(t, infos[5].Nullable)
	assert.Equal(t, frame.Int64, infos[5].Type)
}

func TestRead_Malformed(t *testing.T) {
	t.Parallel()

	f, mem := newFormat()
	require.NoError(t, afero.WriteFile(mem, "bad.avro", []byte("not an avro file"), 0o644))
	_, err := f.Read("bad.avro", format.NewArgs())
	assert.ErrorIs(t, err, format.ErrMalformedInput)

	_, err = f.Read("missing.avro", format.NewArgs())
	assert.ErrorIs(t, err, format.ErrIO)
}
