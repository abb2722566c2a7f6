package format_test

import (
	"errors"
	"io/fs"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/frame"
)

// stubFormat keeps written tables in memory, keyed by path.
type stubFormat struct {
	name    string
	tag     string
	files   *sync.Map
	readErr error

	mu        sync.Mutex
	reads     int
	writes    int
	lastRead  format.Args
	lastWrite format.Args
}

func newStub(name string, files *sync.Map) *stubFormat {
	return &stubFormat{name: name, files: files}
}

func (s *stubFormat) Name() string                { return s.name }
func (s *stubFormat) ReadOptions() format.Options { return format.NewOptions("tag") }

func (s *stubFormat) Read(path string, args format.Args) (*frame.Frame, error) {
	s.mu.Lock()
	s.reads++
	s.lastRead = args
	s.mu.Unlock()

	if s.readErr != nil {
		return nil, s.readErr
	}
	v, ok := s.files.Load(path)
	if !ok {
		return nil, format.NewIOError("open", path, fs.ErrNotExist)
	}
	return frame.FromTable(v.(*frame.Table)), nil
}

func (s *stubFormat) Write(path string, args format.Args, data *frame.Frame) error {
	s.mu.Lock()
	s.writes++
	s.lastWrite = args
	s.mu.Unlock()

	t, err := data.Collect()
	if err != nil {
		return err
	}
	if s.tag != "" {
		t = frame.MustTable(frame.MustColumn("writer", frame.String, s.tag))
	}
	s.files.Store(path, t)
	return nil
}

func sampleTable() *frame.Table {
	return frame.MustTable(
		frame.MustColumn("id", frame.Int64, int64(1), int64(2), int64(3)),
		frame.MustColumn("name", frame.String, "a", nil, "c"),
	)
}

func TestArgs_Accessors(t *testing.T) {
	t.Parallel()

	var b format.ArgsBuilder
	b.Add("separator", ";").Add("separator", ",")
	b.Add("count", "42").Add("bad", "4x2").Add("empty", "")
	args := b.Build()

	list, ok := args.List("separator")
	require.True(t, ok)
	assert.Equal(t, []string{";", ","}, list)

	s, ok := args.String("separator")
	require.True(t, ok)
	assert.Equal(t, ";", s)

	n, ok := args.Long("count")
	require.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = args.Long("bad")
	assert.False(t, ok, "unparsable integer is absent")

	c, ok := args.Char("separator")
	require.True(t, ok)
	assert.Equal(t, byte(';'), c)

	_, ok = args.Char("empty")
	assert.False(t, ok, "empty string has no char")

	_, ok = args.String("missing")
	assert.False(t, ok)
	_, ok = args.List("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"bad", "count", "empty", "separator"}, args.Keys())
}

func TestArgs_ImmutableAfterBuild(t *testing.T) {
	t.Parallel()

	var b format.ArgsBuilder
	b.Add("k", "v1")
	args := b.Build()
	b.Add("k", "v2")

	list, _ := args.List("k")
	assert.Equal(t, []string{"v1"}, list)

	list[0] = "mutated"
	again, _ := args.List("k")
	assert.Equal(t, []string{"v1"}, again)
}

func TestArgsFromPairs(t *testing.T) {
	t.Parallel()

	args, err := format.ArgsFromPairs("separator=;", "name=a=b", "separator=|")
	require.NoError(t, err)

	list, _ := args.List("separator")
	assert.Equal(t, []string{";", "|"}, list)
	name, _ := args.String("name")
	assert.Equal(t, "a=b", name)

	_, err = format.ArgsFromPairs("novalue")
	require.ErrorIs(t, err, format.ErrInvalidArgument)
	_, err = format.ArgsFromPairs("=x")
	require.ErrorIs(t, err, format.ErrInvalidArgument)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	opts := format.NewOptions("quote-char", "separator", "separator")
	assert.Equal(t, 2, opts.Len())
	assert.True(t, opts.Has("separator"))
	assert.False(t, opts.Has("compression"))
	assert.Equal(t, []string{"quote-char", "separator"}, opts.Sorted())

	seen := map[string]int{}
	for k := range opts.All() {
		seen[k]++
	}
	assert.Equal(t, map[string]int{"quote-char": 1, "separator": 1}, seen)

	assert.Equal(t, 0, format.NewOptions().Len())
}

func TestResolve(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		explicit string
		path     string
		want     string
		wantOK   bool
	}{
		{name: "explicit wins", explicit: "json", path: "data.csv", want: "json", wantOK: true},
		{name: "explicit kept verbatim", explicit: "JSON", path: "data", want: "JSON", wantOK: true},
		{name: "extension", path: "data.csv", want: "csv", wantOK: true},
		{name: "upper case extension", path: "data.CSV", want: "CSV", wantOK: true},
		{name: "last dot", path: "dir.v1/archive.tar.parquet", want: "parquet", wantOK: true},
		{name: "no extension", path: "data"},
		{name: "dot in directory only", path: "dir.d/data"},
		{name: "trailing dot", path: "data."},
		{name: "dotfile", path: ".env"},
		{name: "stdin token", path: "-"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := format.Resolve(tc.explicit, tc.path)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRegistry_ResolveConsistentAcrossCase(t *testing.T) {
	t.Parallel()

	reg := format.NewRegistry()
	reg.Add(newStub("csv", &sync.Map{}))

	for _, path := range []string{"data.csv", "data.CSV"} {
		name, ok := format.Resolve("", path)
		require.True(t, ok)
		f, ok := reg.Lookup(name)
		require.True(t, ok, path)
		assert.Equal(t, "csv", f.Name())
	}
}

func TestRegistry_Convert(t *testing.T) {
	t.Parallel()

	files := &sync.Map{}
	files.Store("in.a", sampleTable())

	a := newStub("a", files)
	b := newStub("b", files)
	reg := format.NewRegistry()
	reg.Add(a)
	reg.Add(b)

	require.NoError(t, reg.Convert("in.a", "out.b", "a", "b"))

	out, ok := files.Load("out.b")
	require.True(t, ok)
	assert.Equal(t, sampleTable().Schema(), out.(*frame.Table).Schema())
	assert.Equal(t, 1, a.reads)
	assert.Equal(t, 1, b.writes)
	assert.Equal(t, 0, a.lastRead.Len(), "fresh empty args for read")
	assert.Equal(t, 0, b.lastWrite.Len(), "fresh empty args for write")
	assert.Equal(t, []string{"a", "b"}, reg.Names())
}

func TestRegistry_UnknownFormatFailsBeforeIO(t *testing.T) {
	t.Parallel()

	files := &sync.Map{}
	files.Store("in.csv", sampleTable())
	csv := newStub("csv", files)
	reg := format.NewRegistry()
	reg.Add(csv)

	err := reg.Convert("in.csv", "out.x", "csv", "doesnotexist")
	require.ErrorIs(t, err, format.ErrUnknownFormat)
	var unknown *format.UnknownFormatError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, format.Destination, unknown.Side)
	assert.Equal(t, "doesnotexist", unknown.Name)
	assert.Contains(t, err.Error(), "doesnotexist")

	err = reg.Convert("in.x", "out.csv", "doesnotexist", "csv")
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, format.Source, unknown.Side)

	assert.Equal(t, 0, csv.reads)
	assert.Equal(t, 0, csv.writes)
	_, written := files.Load("out.csv")
	assert.False(t, written)
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	t.Parallel()

	files := &sync.Map{}
	files.Store("in", sampleTable())

	first := newStub("x", files)
	first.tag = "first"
	second := newStub("x", files)
	second.tag = "second"

	reg := format.NewRegistry()
	reg.Add(first)
	reg.Add(second)
	reg.Add(nil)

	require.NoError(t, reg.Convert("in", "out", "x", "x"))
	out, _ := files.Load("out")
	assert.Equal(t, []any{"second"}, out.(*frame.Table).Column(0).Values())
	assert.Equal(t, 0, first.reads+first.writes)
	assert.Len(t, reg.Formats(), 1)
}

func TestRegistry_PropagatesErrorsUnchanged(t *testing.T) {
	t.Parallel()

	files := &sync.Map{}
	readErr := &format.MalformedInputError{Path: "in", Line: 3, Err: errors.New("bad row")}
	src := newStub("src", files)
	src.readErr = readErr
	dst := newStub("dst", files)

	reg := format.NewRegistry()
	reg.Add(src)
	reg.Add(dst)

	err := reg.Convert("in", "out", "src", "dst")
	assert.Same(t, readErr, err)
	assert.ErrorIs(t, err, format.ErrMalformedInput)
	assert.Equal(t, 0, dst.writes)

	err = reg.Convert("missing", "out", "dst", "dst")
	var ioErr *format.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorIs(t, err, format.ErrIO)
}

func TestRegistry_ConvertWith(t *testing.T) {
	t.Parallel()

	files := &sync.Map{}
	files.Store("in", sampleTable())
	src := newStub("src", files)
	dst := newStub("dst", files)
	reg := format.NewRegistry()
	reg.Add(src)
	reg.Add(dst)

	readArgs, err := format.ArgsFromPairs("tag=r")
	require.NoError(t, err)
	writeArgs, err := format.ArgsFromPairs("tag=w")
	require.NoError(t, err)

	err = reg.ConvertWith(
		format.Endpoint{Path: "in", Format: "SRC", Args: readArgs},
		format.Endpoint{Path: "out", Format: "dst", Args: writeArgs},
		func(f *frame.Frame) *frame.Frame { return f.Limit(2) },
	)
	require.NoError(t, err)

	v, _ := src.lastRead.String("tag")
	assert.Equal(t, "r", v)
	v, _ = dst.lastWrite.String("tag")
	assert.Equal(t, "w", v)

	out, _ := files.Load("out")
	assert.Equal(t, 2, out.(*frame.Table).Height())
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	err := &format.MalformedInputError{Path: "a.csv", Line: 4, Column: "age", Err: errors.New("bad")}
	assert.Equal(t, `malformed input in a.csv at line 4, column "age": bad`, err.Error())

	unrep := &format.UnrepresentableError{Format: "avro", Column: "first name", Err: errors.New("invalid name")}
	assert.Equal(t, `avro cannot represent column "first name": invalid name`, unrep.Error())
	assert.ErrorIs(t, unrep, format.ErrUnrepresentable)

	res := &format.ResolutionError{Side: format.Source, Path: "-"}
	assert.ErrorIs(t, res, format.ErrUnresolved)
	assert.Contains(t, res.Error(), "--from")
	assert.Contains(t, (&format.ResolutionError{Side: format.Destination}).Error(), "--to")
}
