package parquet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/frame"
)

func writeFixture[T any](t *testing.T, path string, rows []T) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	writer := goparquet.NewGenericWriter[T](f)
	if _, err := writer.Write(rows); err != nil {
		t.Fatalf("failed to write test data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close file: %v", err)
	}
}

func collect(t *testing.T, path string, args format.Args) *frame.Table {
	t.Helper()

	fr, err := New().Read(path, args)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	tbl, err := fr.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	return tbl
}

func TestRead_PrimitiveTypes(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.parquet")

	type Row struct {
		ID       int64   `parquet:"id"`
		Name     string  `parquet:"name"`
		Age      int32   `parquet:"age"`
		Score    float64 `parquet:"score"`
		Ratio    float32 `parquet:"ratio"`
		Active   bool    `parquet:"active"`
		Optional *string `parquet:"optional,optional"`
	}

	optVal := "test"
	writeFixture(t, testFile, []Row{
		{ID: 1, Name: "Alice", Age: 30, Score: 95.5, Ratio: 0.5, Active: true, Optional: &optVal},
		{ID: 2, Name: "Bob", Age: 25, Score: 82.25, Ratio: 0.25, Active: false},
	})

	tbl := collect(t, testFile, format.NewArgs())

	wantTypes := map[string]frame.DataType{
		"id":       frame.Int64,
		"name":     frame.String,
		"age":      frame.Int64,
		"score":    frame.Float64,
		"ratio":    frame.Float64,
		"active":   frame.Boolean,
		"optional": frame.String,
	}
	if tbl.Width() != len(wantTypes) {
		t.Fatalf("Width() = %d, want %d", tbl.Width(), len(wantTypes))
	}
	for _, field := range tbl.Schema() {
		if want := wantTypes[field.Name]; field.Type != want {
			t.Errorf("%s type = %s, want %s", field.Name, field.Type, want)
		}
	}

	age, _ := tbl.ColumnByName("age")
	if got := age.Value(0); got != int64(30) {
		t.Errorf("age[0] = %#v, want int64(30)", got)
	}
	ratio, _ := tbl.ColumnByName("ratio")
	if got := ratio.Value(1); got != 0.25 {
		t.Errorf("ratio[1] = %#v, want 0.25", got)
	}
	opt, _ := tbl.ColumnByName("optional")
	if got := opt.Value(0); got != "test" {
		t.Errorf("optional[0] = %#v, want \"test\"", got)
	}
	if got := opt.Value(1); got != nil {
		t.Errorf("optional[1] = %#v, want nil", got)
	}
}

func TestRead_NestedFieldsUseDotNotation(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "nested.parquet")

	type Address struct {
		Street string `parquet:"street"`
		City   string `parquet:"city"`
	}
	type Row struct {
		ID      int64   `parquet:"id"`
		Address Address `parquet:"address"`
	}

	writeFixture(t, testFile, []Row{{ID: 1, Address: Address{Street: "Main", City: "Springfield"}}})

	tbl := collect(t, testFile, format.NewArgs())
	city, ok := tbl.ColumnByName("address.city")
	if !ok {
		t.Fatalf("address.city not found in %v", tbl.Schema().Names())
	}
	if got := city.Value(0); got != "Springfield" {
		t.Errorf("address.city = %#v, want Springfield", got)
	}
	if _, ok := tbl.ColumnByName("address.street"); !ok {
		t.Errorf("address.street not found in %v", tbl.Schema().Names())
	}
}

func TestRead_RepeatedColumnRejected(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "repeated.parquet")

	type Row struct {
		ID   int64    `parquet:"id"`
		Tags []string `parquet:"tags"`
	}
	writeFixture(t, testFile, []Row{{ID: 1, Tags: []string{"a", "b"}}})

	_, err := New().Read(testFile, format.NewArgs())
	var mal *format.MalformedInputError
	if !errors.As(err, &mal) {
		t.Fatalf("Read() error = %v, want MalformedInputError", err)
	}
	if mal.Column != "tags" {
		t.Errorf("Column = %q, want tags", mal.Column)
	}
}

func TestRead_NotParquet(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "bogus.parquet")
	if err := os.WriteFile(testFile, []byte("definitely not parquet"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New().Read(testFile, format.NewArgs())
	if !errors.Is(err, format.ErrMalformedInput) {
		t.Errorf("Read() error = %v, want ErrMalformedInput", err)
	}
}

func TestRead_DecodesOnCollect(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "lazy.parquet")

	type Row struct {
		ID int64 `parquet:"id"`
	}
	writeFixture(t, testFile, []Row{{ID: 1}})

	fr, err := New().Read(testFile, format.NewArgs())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if err := os.Remove(testFile); err != nil {
		t.Fatal(err)
	}

	if _, err := fr.Collect(); !errors.Is(err, format.ErrIO) {
		t.Errorf("Collect() error = %v, want ErrIO after the file is gone", err)
	}
}

func TestWrite_RoundTripKeepsOrderAndNulls(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "out.parquet")

	in := frame.MustTable(
		frame.MustColumn("zeta", frame.Int64, int64(3), nil, int64(1)),
		frame.MustColumn("alpha", frame.String, "", nil, "x"),
		frame.MustColumn("mid", frame.Float64, 1.5, 2.0, nil),
		frame.MustColumn("flag", frame.Boolean, nil, true, false),
		frame.MustColumn("nothing", frame.Null, nil, nil, nil),
	)

	if err := New().Write(testFile, format.NewArgs(), frame.FromTable(in)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := collect(t, testFile, format.NewArgs())
	if got, want := out.Schema(), in.Schema(); len(got) != len(want) {
		t.Fatalf("Schema() = %v, want %v", got, want)
	}
	for i, want := range in.Schema() {
		if got := out.Schema()[i]; got != want {
			t.Errorf("field %d = %v, want %v", i, got, want)
		}
	}
	for i := range in.Width() {
		want, got := in.Column(i).Values(), out.Column(i).Values()
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("%s[%d] = %#v, want %#v", in.Column(i).Name(), j, got[j], want[j])
			}
		}
	}
}

func TestWrite_Options(t *testing.T) {
	dir := t.TempDir()

	values := make([]any, 5)
	for i := range values {
		values[i] = int64(i)
	}
	in := frame.MustTable(frame.MustColumn("n", frame.Int64, values...))

	args, err := format.ArgsFromPairs("compression=snappy", "row-group-size=2")
	if err != nil {
		t.Fatal(err)
	}
	testFile := filepath.Join(dir, "groups.parquet")
	if err := New().Write(testFile, args, frame.FromTable(in)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := collect(t, testFile, format.NewArgs())
	if out.Height() != 5 {
		t.Errorf("Height() = %d, want 5", out.Height())
	}
	if out.NumChunks() < 2 {
		t.Errorf("NumChunks() = %d, want one chunk per row group", out.NumChunks())
	}

	for _, pair := range []string{"compression=lz4", "row-group-size=0"} {
		bad, _ := format.ArgsFromPairs(pair)
		err := New().Write(filepath.Join(dir, "bad.parquet"), bad, frame.FromTable(in))
		if !errors.Is(err, format.ErrInvalidArgument) {
			t.Errorf("Write(%s) error = %v, want ErrInvalidArgument", pair, err)
		}
	}
}

func TestReadOptions(t *testing.T) {
	opts := New().ReadOptions()

	want := []string{"compression", "row-group-size"}
	got := opts.Sorted()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ReadOptions() = %v, want %v", got, want)
	}
	if !opts.Has(CompressionKey) {
		t.Errorf("ReadOptions() missing %q", CompressionKey)
	}
}

func TestDescribe(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "describe.parquet")

	type Row struct {
		ID   int64   `parquet:"id"`
		Name *string `parquet:"name,optional"`
	}
	writeFixture(t, testFile, []Row{{ID: 1}})

	infos, err := New().Describe(testFile, format.NewArgs())
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	byName := make(map[string]format.ColumnInfo)
	for _, info := range infos {
		byName[info.Name] = info
	}
	if got := byName["id"]; got.Physical != "INT64" || got.Nullable {
		t.Errorf("id = %+v, want required INT64", got)
	}
	if got := byName["name"]; got.Physical != "BYTE_ARRAY" || got.Logical != "STRING" || !got.Nullable {
		t.Errorf("name = %+v, want optional BYTE_ARRAY STRING", got)
	}
}
